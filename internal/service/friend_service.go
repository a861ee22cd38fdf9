package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/college-table/internal/model"
	"github.com/d60-Lab/college-table/internal/notify"
	"github.com/d60-Lab/college-table/internal/repository"
	"github.com/d60-Lab/college-table/pkg/errcode"
	"github.com/d60-Lab/college-table/pkg/logger"
)

const (
	minFriendCode = 100000
	maxFriendCode = 999999

	// 生成 code 时避开其他用户正在使用的 code，最多重试次数
	maxCodeAttempts = 5
)

// FriendService 好友申请码：生成、兑换、好友列表
type FriendService interface {
	RequestCode(ctx context.Context, userID uint) (int, error)
	// AcceptCode 用好友码与申请人建立好友关系，返回申请人
	AcceptCode(ctx context.Context, userID uint, code int) (*model.User, error)
	ListFriends(ctx context.Context, userID uint) ([]*model.User, error)
}

type friendService struct {
	friendRepo  repository.FriendRepository
	requestRepo repository.FriendRequestRepository
	userRepo    repository.UserRepository
	guard       Guard
	pusher      notify.PushSender

	newCode func() int
}

func NewFriendService(
	friendRepo repository.FriendRepository,
	requestRepo repository.FriendRequestRepository,
	userRepo repository.UserRepository,
	guard Guard,
	pusher notify.PushSender,
) FriendService {
	return &friendService{
		friendRepo:  friendRepo,
		requestRepo: requestRepo,
		userRepo:    userRepo,
		guard:       guard,
		pusher:      pusher,
		newCode:     randomFriendCode,
	}
}

func randomFriendCode() int {
	return minFriendCode + rand.Intn(maxFriendCode-minFriendCode+1)
}

func (s *friendService) RequestCode(ctx context.Context, userID uint) (int, error) {
	if userID == 0 {
		return 0, errcode.TokenNotMatched
	}
	code, err := s.freeCode(ctx, userID)
	if err != nil {
		logger.Error("pick friend code", zap.Uint("user_id", userID), zap.Error(err))
		return 0, errcode.CreateFriendRequestFailed
	}
	if err := s.requestRepo.Upsert(ctx, userID, code); err != nil {
		logger.Error("upsert friend request", zap.Uint("user_id", userID), zap.Error(err))
		return 0, errcode.CreateFriendRequestFailed
	}
	return code, nil
}

func (s *friendService) freeCode(ctx context.Context, userID uint) (int, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := s.newCode()
		taken, err := s.requestRepo.CodeInUse(ctx, code, userID)
		if err != nil {
			return 0, err
		}
		if !taken {
			return code, nil
		}
	}
	return 0, fmt.Errorf("no free friend code after %d attempts", maxCodeAttempts)
}

func (s *friendService) AcceptCode(ctx context.Context, userID uint, code int) (*model.User, error) {
	if userID == 0 {
		return nil, errcode.TokenNotMatched
	}
	if code < minFriendCode || code > maxFriendCode {
		return nil, errcode.InvalidParams
	}

	req, err := s.requestRepo.GetByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errcode.FriendRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load friend request: %w", err)
	}
	if req.CreatorID == userID {
		return nil, errcode.CannotFriendSelf
	}

	already, err := s.guard.IsFriend(ctx, userID, req.CreatorID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, errcode.AlreadyFriend
	}

	creator, err := s.userRepo.GetByID(ctx, req.CreatorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errcode.FriendRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load creator: %w", err)
	}
	me, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errcode.TokenNotMatched
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	// 并发兑换同一 code 时只有一个事务能消费申请
	err = s.friendRepo.Befriend(ctx, req.ID, req.Code, userID, creator.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errcode.FriendRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("befriend: %w", err)
	}

	// 好友关系已建立，推送失败只记录
	if err := s.pusher.SendOne(ctx, creator.Token(), notify.Content{
		Body: me.FullName() + " accepted your friend request",
		Data: map[string]any{"route": "Friends"},
	}); err != nil {
		logger.Warn("friend accepted push", zap.Uint("to", creator.ID), zap.Error(err))
	}
	return creator, nil
}

func (s *friendService) ListFriends(ctx context.Context, userID uint) ([]*model.User, error) {
	if userID == 0 {
		return nil, errcode.TokenNotMatched
	}
	ids, err := s.friendRepo.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list friend ids: %w", err)
	}
	if len(ids) == 0 {
		return []*model.User{}, nil
	}
	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return users, nil
}
