package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/college-table/internal/model"
	"github.com/d60-Lab/college-table/internal/notify"
)

func setupTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(model.All()...); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCollege(tb testing.TB, db *gorm.DB, footer string) *model.College {
	tb.Helper()
	c := &model.College{Name: footer, MailFooter: footer}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed college: %v", err)
	}
	return c
}

func seedUser(tb testing.TB, db *gorm.DB, collegeID uint, first, token string) *model.User {
	tb.Helper()
	u := &model.User{
		FirstName: first,
		LastName:  "Test",
		Email:     fmt.Sprintf("%s-%d@example.com", first, collegeID),
		CollegeID: collegeID,
	}
	if token != "" {
		u.PushToken = &token
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// fakePusher 记录所有推送
type fakePusher struct {
	mu   sync.Mutex
	one  []notify.PushItem
	msgs []notify.PushItem
	err  error
}

func (f *fakePusher) SendOne(_ context.Context, token string, c notify.Content) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token != "" {
		f.one = append(f.one, notify.PushItem{PushToken: token, Content: c})
	}
	return f.err
}

func (f *fakePusher) SendMany(_ context.Context, items []notify.PushItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.one = append(f.one, items...)
	return f.err
}

func (f *fakePusher) SendMessagePush(_ context.Context, token, msg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token != "" {
		f.msgs = append(f.msgs, notify.PushItem{PushToken: token, Content: notify.Content{Body: msg}})
	}
	return f.err
}

// fakeMailer 记录验证码邮件
type fakeMailer struct {
	ok    bool
	codes map[string]int
}

func newFakeMailer(ok bool) *fakeMailer { return &fakeMailer{ok: ok, codes: map[string]int{}} }

func (f *fakeMailer) Send(context.Context, notify.Mail) bool { return f.ok }

func (f *fakeMailer) SendCode(_ context.Context, address string, code int) bool {
	f.codes[address] = code
	return f.ok
}

func (f *fakeMailer) SendCourseSignal(context.Context, string, []notify.CourseSignal) bool {
	return f.ok
}
