package model

import "time"

const BoardTypeGeneral = "general"

// Board 板块，按 college 隔离
type Board struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CollegeID   uint      `json:"collegeId" gorm:"not null;index:idx_board_college_type"`
	Type        string    `json:"type" gorm:"type:varchar(32);not null;default:general;index:idx_board_college_type"`
	Title       string    `json:"title" gorm:"type:varchar(128);not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Board) TableName() string { return "boards" }

// Post 帖子
type Post struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	BoardID     uint      `json:"boardId" gorm:"not null;index"`
	Board       *Board    `json:"board,omitempty"`
	UserID      uint      `json:"userId" gorm:"not null;index"`
	CreatedBy   *User     `json:"createdBy,omitempty" gorm:"foreignKey:UserID"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	IsAnonymous bool      `json:"isAnonymous" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Post) TableName() string { return "posts" }

// Comment 评论，只能由作者删除（应用层校验）
type Comment struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PostID      uint      `json:"postId" gorm:"not null;index"`
	UserID      uint      `json:"userId" gorm:"not null;index"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	IsAnonymous bool      `json:"isAnonymous" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Comment) TableName() string { return "comments" }
