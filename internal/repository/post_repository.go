package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/college-table/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	// GetWithScope 附带 board.college_id 与作者 push token
	GetWithScope(ctx context.Context, id uint) (*model.Post, error)
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit("Board", "CreatedBy").Create(post).Error
}

func (r *postRepository) GetWithScope(ctx context.Context, id uint) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).
		Preload("Board", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "college_id") }).
		Preload("CreatedBy", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "push_token") }).
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}
