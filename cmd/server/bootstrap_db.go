package main

import (
	"context"

	config "github.com/hireloop/hireloop/internal/config/server"
	pg "github.com/hireloop/hireloop/internal/repository/postgres"
)

func initDB(ctx context.Context, cfg *config.Config) (*pg.DB, error) {
	return pg.New(ctx, cfg.DB)
}
