package model

import "time"

// College 租户（学校），boards / courses 按 college_id 隔离
type College struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"type:varchar(128);not null"`
	MailFooter string    `json:"mailFooter" gorm:"type:varchar(128);uniqueIndex;not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (College) TableName() string { return "colleges" }

// User 用户；注册流程不在本服务内
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FirstName  string    `json:"firstName" gorm:"type:varchar(64);not null"`
	MiddleName string    `json:"middleName,omitempty" gorm:"type:varchar(64)"`
	LastName   string    `json:"lastName" gorm:"type:varchar(64);not null"`
	Email      string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PushToken  *string   `json:"-" gorm:"type:varchar(255)"`
	CollegeID  uint      `json:"collegeId" gorm:"index;not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// FullName first + middle(可选) + last
func (u *User) FullName() string {
	name := u.FirstName + " "
	if u.MiddleName != "" {
		name += u.MiddleName + " "
	}
	return name + u.LastName
}

// Token 推送 token，未设置时为空串
func (u *User) Token() string {
	if u == nil || u.PushToken == nil {
		return ""
	}
	return *u.PushToken
}
