package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrCodeMissing 验证码不存在或已过期
	ErrCodeMissing = errors.New("verification code missing")
	// ErrCodeMismatch 验证码不匹配
	ErrCodeMismatch = errors.New("verification code mismatch")
)

const defaultMaxAttempts = 5

// CodeStore 邮箱验证码，只保存 bcrypt 哈希；连续输错 maxAttempts 次后作废
type CodeStore struct {
	rdb         *redis.Client
	ttl         time.Duration
	maxAttempts int64
}

func NewCodeStore(rdb *redis.Client, ttl time.Duration, maxAttempts int) *CodeStore {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &CodeStore{rdb: rdb, ttl: ttl, maxAttempts: int64(maxAttempts)}
}

func codeKey(email string) string {
	return "verify:" + strings.ToLower(strings.TrimSpace(email))
}

func triesKey(email string) string { return codeKey(email) + ":tries" }

// Save 覆盖旧验证码并重置过期时间
func (s *CodeStore) Save(ctx context.Context, email string, code int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(strconv.Itoa(code)), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}
	// 新验证码重新计数
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, codeKey(email), hash, s.ttl)
		pipe.Del(ctx, triesKey(email))
		return nil
	})
	if err != nil {
		return fmt.Errorf("save code: %w", err)
	}
	return nil
}

// Verify 校验成功后删除，验证码只能使用一次
func (s *CodeStore) Verify(ctx context.Context, email string, code int) error {
	key := codeKey(email)
	hash, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCodeMissing
	}
	if err != nil {
		return fmt.Errorf("load code: %w", err)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(strconv.Itoa(code))) != nil {
		if err := s.recordMiss(ctx, email); err != nil {
			return err
		}
		return ErrCodeMismatch
	}
	if err := s.rdb.Del(ctx, key, triesKey(email)).Err(); err != nil {
		return fmt.Errorf("delete code: %w", err)
	}
	return nil
}

// recordMiss 累计输错次数，达到上限后删除验证码
func (s *CodeStore) recordMiss(ctx context.Context, email string) error {
	tk := triesKey(email)
	tries, err := s.rdb.Incr(ctx, tk).Result()
	if err != nil {
		return fmt.Errorf("count tries: %w", err)
	}
	if tries == 1 {
		if err := s.rdb.Expire(ctx, tk, s.ttl).Err(); err != nil {
			return fmt.Errorf("expire tries: %w", err)
		}
	}
	if tries >= s.maxAttempts {
		if err := s.rdb.Del(ctx, codeKey(email), tk).Err(); err != nil {
			return fmt.Errorf("revoke code: %w", err)
		}
	}
	return nil
}
