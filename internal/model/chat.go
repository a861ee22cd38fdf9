package model

import "time"

// Chatroom 两人聊天室；LastMessageID 冗余指向最新消息
type Chatroom struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Members       []*User   `json:"members" gorm:"many2many:chatroom_members;"`
	LastMessageID *uint     `json:"lastMessageId"`
	LastMessage   *Message  `json:"lastMessage,omitempty" gorm:"foreignKey:LastMessageID"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Chatroom) TableName() string { return "chatrooms" }

// Message 创建后不可变
type Message struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ChatroomID uint      `json:"chatroomId" gorm:"not null;index:idx_message_room_created"`
	UserID     uint      `json:"userId" gorm:"not null;index"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"createdAt" gorm:"index:idx_message_room_created"`
}

func (Message) TableName() string { return "messages" }
