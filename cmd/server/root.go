package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/college-table/config"
	"github.com/d60-Lab/college-table/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "college-table",
	Short: "College Table API server",
}

// Execute 入口；子命令共享配置加载与日志初始化
func Execute() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bootstrap() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}
