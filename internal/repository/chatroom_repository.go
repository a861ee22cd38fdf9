package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/college-table/internal/model"
)

type ChatroomRepository interface {
	// GetWithMembers 成员按 id 升序
	GetWithMembers(ctx context.Context, id uint) (*model.Chatroom, error)
	// GetDetail 成员 + 最新消息
	GetDetail(ctx context.Context, id uint) (*model.Chatroom, error)
	// CreateMessage 事务内写消息并更新 last_message_id
	CreateMessage(ctx context.Context, msg *model.Message) error
}

type chatroomRepository struct{ db *gorm.DB }

func NewChatroomRepository(db *gorm.DB) ChatroomRepository { return &chatroomRepository{db: db} }

func orderMembers(tx *gorm.DB) *gorm.DB { return tx.Order("users.id ASC") }

func (r *chatroomRepository) GetWithMembers(ctx context.Context, id uint) (*model.Chatroom, error) {
	var room model.Chatroom
	if err := r.db.WithContext(ctx).Preload("Members", orderMembers).First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *chatroomRepository) GetDetail(ctx context.Context, id uint) (*model.Chatroom, error) {
	var room model.Chatroom
	if err := r.db.WithContext(ctx).
		Preload("Members", orderMembers).
		Preload("LastMessage").
		First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *chatroomRepository) CreateMessage(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.Chatroom{}).
			Where("id = ?", msg.ChatroomID).
			Updates(map[string]any{"last_message_id": msg.ID, "updated_at": msg.CreatedAt}).Error
	})
}
