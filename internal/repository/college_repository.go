package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/college-table/internal/model"
)

type CollegeRepository interface {
	GetByID(ctx context.Context, id uint) (*model.College, error)
	GetByMailFooter(ctx context.Context, footer string) (*model.College, error)
}

type collegeRepository struct{ db *gorm.DB }

func NewCollegeRepository(db *gorm.DB) CollegeRepository { return &collegeRepository{db: db} }

func (r *collegeRepository) GetByID(ctx context.Context, id uint) (*model.College, error) {
	var c model.College
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *collegeRepository) GetByMailFooter(ctx context.Context, footer string) (*model.College, error) {
	var c model.College
	if err := r.db.WithContext(ctx).Where("mail_footer = ?", footer).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
