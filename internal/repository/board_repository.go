package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/college-table/internal/model"
)

type BoardRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Board, error)
	// ListByCollege 按 id 升序
	ListByCollege(ctx context.Context, collegeID uint, boardType string, limit int) ([]*model.Board, error)
}

type boardRepository struct{ db *gorm.DB }

func NewBoardRepository(db *gorm.DB) BoardRepository { return &boardRepository{db: db} }

func (r *boardRepository) GetByID(ctx context.Context, id uint) (*model.Board, error) {
	var b model.Board
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *boardRepository) ListByCollege(ctx context.Context, collegeID uint, boardType string, limit int) ([]*model.Board, error) {
	res := []*model.Board{}
	err := r.db.WithContext(ctx).
		Where("college_id = ? AND type = ?", collegeID, boardType).
		Order("id ASC").
		Limit(limit).
		Find(&res).Error
	return res, err
}
