package model

// All 需要迁移的模型
func All() []any {
	return []any{
		&College{}, &User{},
		&Friend{}, &FriendRequest{},
		&Board{}, &Post{}, &Comment{},
		&Chatroom{}, &Message{},
		&Course{}, &Class{}, &Section{},
	}
}
