// Package redis keeps cart snapshots as redis string values.
package redis

import (
	"context"
	"log/slog"

	"github.com/lsegpor/Forniture4U-sub000/config"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/lifecycle"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// NewClient creates the redis client and ties it to the application lifecycle.
func NewClient(params Params) (*goredis.Client, error) {
	cfg := params.Config.Redis
	if cfg == nil || cfg.Addr == "" {
		return nil, errors.New("redis storage selected without redis.addr")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrapf(err, "failed to ping redis at %s", cfg.Addr)
			}
			params.Logger.Info("Redis snapshot store connected", slog.String("addr", cfg.Addr), slog.Int("db", cfg.DB))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}
