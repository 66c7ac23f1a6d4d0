package main

import (
	config "github.com/hireloop/hireloop/internal/config/server"
	"github.com/hireloop/hireloop/internal/obs"
	"go.uber.org/zap"
)

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return obs.NewLogger(*cfg.Log.AsLoggerConfig(cfg.App))
}
