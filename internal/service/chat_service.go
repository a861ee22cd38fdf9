package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/d60-Lab/college-table/internal/model"
	"github.com/d60-Lab/college-table/internal/notify"
	"github.com/d60-Lab/college-table/internal/repository"
	"github.com/d60-Lab/college-table/pkg/dates"
	"github.com/d60-Lab/college-table/pkg/errcode"
	"github.com/d60-Lab/college-table/pkg/sanitize"
)

type SendMessageInput struct {
	ChatroomID uint
	Content    string
}

// ChatService 两人私信
type ChatService interface {
	// SendMessage 返回刷新后的聊天室，时间字段已转为毫秒时间戳
	SendMessage(ctx context.Context, userID uint, in SendMessageInput) (any, error)
}

type chatService struct {
	chatroomRepo repository.ChatroomRepository
	pusher       notify.PushSender
}

func NewChatService(chatroomRepo repository.ChatroomRepository, pusher notify.PushSender) ChatService {
	return &chatService{chatroomRepo: chatroomRepo, pusher: pusher}
}

func (s *chatService) SendMessage(ctx context.Context, userID uint, in SendMessageInput) (any, error) {
	content := sanitize.Text(in.Content)
	if content == "" {
		return nil, errcode.InvalidParams
	}
	if in.ChatroomID == 0 {
		return nil, errcode.ChatroomNotFound
	}

	room, err := s.chatroomRepo.GetWithMembers(ctx, in.ChatroomID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errcode.ChatroomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load chatroom: %w", err)
	}

	member := false
	for _, m := range room.Members {
		if m.ID == userID {
			member = true
			break
		}
	}
	if !member {
		return nil, errcode.NotMember
	}
	if len(room.Members) != 2 {
		return nil, errcode.MembersNotTwo
	}

	target := room.Members[0]
	if target.ID == userID {
		target = room.Members[1]
	}

	msg := &model.Message{ChatroomID: room.ID, UserID: userID, Content: content}
	if err := s.chatroomRepo.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	if err := s.pusher.SendMessagePush(ctx, target.Token(), content); err != nil {
		return nil, fmt.Errorf("message push: %w", err)
	}

	detail, err := s.chatroomRepo.GetDetail(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("reload chatroom: %w", err)
	}
	return dates.Handle(detail), nil
}
