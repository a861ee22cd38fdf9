package repository

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/college-table/internal/model"
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
	// :memory: 每个连接独立，固定单连接
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(model.All()...); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUsers(tb testing.TB, db *gorm.DB, collegeID uint, n int) []model.User {
	tb.Helper()
	users := make([]model.User, n)
	for i := range users {
		users[i] = model.User{
			FirstName: fmt.Sprintf("u%04d", i),
			LastName:  "Test",
			Email:     fmt.Sprintf("c%d-u%04d@example.com", collegeID, i),
			CollegeID: collegeID,
		}
	}
	if err := db.Create(&users).Error; err != nil {
		tb.Fatalf("seed users: %v", err)
	}
	return users
}

// addFriend 直接写入单向关系，重复写入忽略
func addFriend(tb testing.TB, db *gorm.DB, userID, friendID uint) {
	tb.Helper()
	f := &model.Friend{UserID: userID, FriendID: friendID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(f).Error; err != nil {
		tb.Fatalf("add friend: %v", err)
	}
}

func countRows(tb testing.TB, db *gorm.DB, m any, query string, args ...any) int64 {
	tb.Helper()
	var cnt int64
	if err := db.Model(m).Where(query, args...).Count(&cnt).Error; err != nil {
		tb.Fatalf("count: %v", err)
	}
	return cnt
}
