package model

import "time"

// Friend 好友关系（userId -> friendId），任一方向存在即视为双向好友
type Friend struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;index:idx_friend_user;uniqueIndex:ux_friend_pair"`
	FriendID  uint      `json:"friendId" gorm:"not null;index:idx_friend_friend;uniqueIndex:ux_friend_pair"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Friend) TableName() string { return "friends" }

// FriendRequest 每个创建者至多一条，重复申请覆盖 code
type FriendRequest struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatorID uint      `json:"creatorId" gorm:"not null;uniqueIndex"`
	Code      int       `json:"code" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (FriendRequest) TableName() string { return "friend_requests" }
