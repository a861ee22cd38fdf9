package model

import "time"

// Course 课程目录；*Compressed 字段为去空格后的编号，用于模糊检索
type Course struct {
	ID                              uint      `json:"id" gorm:"primaryKey"`
	CollegeID                       uint      `json:"collegeId" gorm:"not null;index:idx_course_college_term"`
	TermCode                        string    `json:"termCode" gorm:"type:varchar(16);not null;index:idx_course_college_term"`
	Title                           string    `json:"title" gorm:"type:varchar(255);not null"`
	CourseDesignation               string    `json:"courseDesignation" gorm:"type:varchar(64)"`
	CourseDesignationCompressed     string    `json:"courseDesignationCompressed" gorm:"type:varchar(64);index"`
	FullCourseDesignation           string    `json:"fullCourseDesignation" gorm:"type:varchar(255)"`
	FullCourseDesignationCompressed string    `json:"fullCourseDesignationCompressed" gorm:"type:varchar(255)"`
	Description                     string    `json:"description" gorm:"type:text"`
	Classes                         []*Class  `json:"classes"`
	CreatedAt                       time.Time `json:"createdAt"`
	UpdatedAt                       time.Time `json:"updatedAt"`
}

func (Course) TableName() string { return "courses" }

type Class struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	CourseID  uint       `json:"courseId" gorm:"not null;index"`
	ClassNo   string     `json:"classNo" gorm:"type:varchar(32)"`
	Sections  []*Section `json:"sections"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (Class) TableName() string { return "classes" }

type Section struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ClassID       uint      `json:"classId" gorm:"not null;index"`
	Type          string    `json:"type" gorm:"type:varchar(16)"` // LEC, DIS, LAB
	SectionNumber string    `json:"sectionNumber" gorm:"type:varchar(16)"`
	Instructor    string    `json:"instructor" gorm:"type:varchar(128)"`
	Schedule      string    `json:"schedule" gorm:"type:varchar(128)"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (Section) TableName() string { return "sections" }
