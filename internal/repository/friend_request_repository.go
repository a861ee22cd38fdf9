package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/college-table/internal/model"
)

type FriendRequestRepository interface {
	// Upsert 按 creator_id 原子地插入或覆盖 code
	Upsert(ctx context.Context, creatorID uint, code int) error
	GetByCode(ctx context.Context, code int) (*model.FriendRequest, error)
	// CodeInUse code 是否已被其他用户占用
	CodeInUse(ctx context.Context, code int, creatorID uint) (bool, error)
}

type friendRequestRepository struct{ db *gorm.DB }

func NewFriendRequestRepository(db *gorm.DB) FriendRequestRepository {
	return &friendRequestRepository{db: db}
}

func (r *friendRequestRepository) Upsert(ctx context.Context, creatorID uint, code int) error {
	req := &model.FriendRequest{CreatorID: creatorID, Code: code}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "creator_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"code":       code,
				"updated_at": time.Now(),
			}),
		}).
		Create(req).Error
}

// GetByCode 签发时已避开占用的 code；历史数据重复时取最近签发的一条
func (r *friendRequestRepository) GetByCode(ctx context.Context, code int) (*model.FriendRequest, error) {
	var req model.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		Order("updated_at DESC").
		First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *friendRequestRepository) CodeInUse(ctx context.Context, code int, creatorID uint) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.FriendRequest{}).
		Where("code = ? AND creator_id <> ?", code, creatorID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}
