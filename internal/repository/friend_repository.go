package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/college-table/internal/model"
)

type FriendRepository interface {
	// Exists 任一方向存在即为好友
	Exists(ctx context.Context, userID, targetID uint) (bool, error)
	ListFriendIDs(ctx context.Context, userID uint) ([]uint, error)
	// Befriend 事务内先消费好友申请再写入双向关系；申请已被消费时返回 gorm.ErrRecordNotFound
	Befriend(ctx context.Context, requestID uint, code int, userID, friendID uint) error
}

type friendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) FriendRepository { return &friendRepository{db: db} }

func (r *friendRepository) Exists(ctx context.Context, userID, targetID uint) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Friend{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", userID, targetID, targetID, userID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *friendRepository) ListFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	var rows []*model.Friend
	if err := r.db.WithContext(ctx).
		Where("user_id = ? OR friend_id = ?", userID, userID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	seen := make(map[uint]struct{}, len(rows))
	ids := make([]uint, 0, len(rows))
	for _, f := range rows {
		other := f.FriendID
		if other == userID {
			other = f.UserID
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		ids = append(ids, other)
	}
	return ids, nil
}

func (r *friendRepository) Befriend(ctx context.Context, requestID uint, code int, userID, friendID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// code 一并匹配，防止申请在读取后被重新签发
		res := tx.Where("id = ? AND code = ?", requestID, code).Delete(&model.FriendRequest{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		pair := []model.Friend{
			{UserID: userID, FriendID: friendID},
			{UserID: friendID, FriendID: userID},
		}
		// 幂等：关系已存在时不报错
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&pair).Error
	})
}
