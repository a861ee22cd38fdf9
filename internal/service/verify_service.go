package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/college-table/config"
	"github.com/d60-Lab/college-table/internal/cache"
	"github.com/d60-Lab/college-table/internal/model"
	"github.com/d60-Lab/college-table/internal/notify"
	"github.com/d60-Lab/college-table/internal/repository"
	"github.com/d60-Lab/college-table/pkg/auth"
	"github.com/d60-Lab/college-table/pkg/errcode"
	"github.com/d60-Lab/college-table/pkg/logger"
)

// VerifyResult 邮箱尚未注册时 User 为 nil、Token 为空
type VerifyResult struct {
	User  *model.User
	Token string
}

// VerifyService 邮箱验证码
type VerifyService interface {
	SendCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email string, code int) (*VerifyResult, error)
}

type verifyService struct {
	jwtCfg   config.JWTConfig
	store    *cache.CodeStore
	userRepo repository.UserRepository
	mailer   notify.MailSender

	newCode func() int
}

func NewVerifyService(jwtCfg config.JWTConfig, store *cache.CodeStore, userRepo repository.UserRepository, mailer notify.MailSender) VerifyService {
	return &verifyService{
		jwtCfg:   jwtCfg,
		store:    store,
		userRepo: userRepo,
		mailer:   mailer,
		newCode:  randomFriendCode,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *verifyService) SendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return errcode.InvalidParams
	}
	code := s.newCode()
	if err := s.store.Save(ctx, email, code); err != nil {
		return err
	}
	if !s.mailer.SendCode(ctx, email, code) {
		return errcode.MailNotSent
	}
	return nil
}

func (s *verifyService) VerifyCode(ctx context.Context, email string, code int) (*VerifyResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, errcode.InvalidParams
	}
	switch err := s.store.Verify(ctx, email, code); {
	case errors.Is(err, cache.ErrCodeMissing):
		return nil, errcode.CodeExpired
	case errors.Is(err, cache.ErrCodeMismatch):
		return nil, errcode.CodeNotMatched
	case err != nil:
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &VerifyResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, user.CollegeID, s.jwtCfg.Secret, s.jwtCfg.Expire)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	logger.Info("email verified", zap.Uint("user_id", user.ID))
	return &VerifyResult{User: user, Token: token}, nil
}
