package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/college-table/config"
	"github.com/d60-Lab/college-table/internal/model"
	"github.com/d60-Lab/college-table/pkg/logger"
)

// InitDB 按配置打开数据库并设置连接池
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database

	var dialector gorm.Dialector
	switch dbCfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(dbCfg.DSN)
	default:
		dialector = postgres.Open(dbCfg.DSN)
	}

	level := gormlogger.Warn
	if cfg.Server.Mode == "debug" {
		level = gormlogger.Info
	}
	gl := gormlogger.New(
		zap.NewStdLog(logger.L()),
		gormlogger.Config{
			SlowThreshold:             dbCfg.SlowThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gl})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbCfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if dbCfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(dbCfg.MaxIdleConns)
	}
	if dbCfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(dbCfg.MaxOpenConns)
	}
	if dbCfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)
	}

	logger.Info("database connected", zap.String("driver", dbCfg.Driver))
	return db, nil
}

// Migrate 自动迁移全部模型
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Close 关闭底层连接
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
