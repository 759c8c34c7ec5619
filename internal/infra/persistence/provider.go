// Package persistence selects the cart snapshot store named in storage.provider.
package persistence

import (
	"log/slog"

	"github.com/lsegpor/Forniture4U-sub000/config"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/repository"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/metrics"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/persistence/blob"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/persistence/memory"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/persistence/postgres"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/persistence/redis"

	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

// Result exposes the repository and its transaction manager to Fx.
type Result struct {
	fx.Out

	Carts     repository.CartRepository
	TxManager repository.TransactionManager
}

// New builds the configured snapshot store.
func New(params Params) (Result, error) {
	provider := params.Config.Storage.Provider
	if provider == "" {
		provider = config.StorageMemory
	}
	logger := params.Logger.With(slog.String("storage", provider))

	switch provider {
	case config.StorageMemory:
		carts := memory.NewCartRepository()
		logger.Warn("Cart snapshots are kept in memory and lost on restart")

		return Result{Carts: carts, TxManager: memory.NewTransactionManager(carts)}, nil

	case config.StorageRedis:
		client, err := redis.NewClient(redis.Params{Lifecycle: params.Lifecycle, Config: params.Config, Logger: logger})
		if err != nil {
			return Result{}, err
		}
		opts := redis.Options{KeyPrefix: params.Config.Redis.KeyPrefix, TTL: params.Config.Redis.TTL}

		return Result{
			Carts:     redis.NewCartRepository(client, opts),
			TxManager: redis.NewTransactionManager(client, opts),
		}, nil

	case config.StoragePostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    logger,
			Metrics:   params.Metrics,
		})
		if err != nil {
			return Result{}, err
		}

		return Result{
			Carts:     postgres.NewCartRepository(db),
			TxManager: postgres.NewTransactionManager(db),
		}, nil

	case config.StorageBlob:
		bucket, err := blob.OpenBucket(blob.Params{Lifecycle: params.Lifecycle, Config: params.Config, Logger: logger})
		if err != nil {
			return Result{}, err
		}
		carts := blob.NewCartRepository(bucket, params.Config.Blob.Prefix)

		return Result{Carts: carts, TxManager: memory.NewTransactionManager(carts)}, nil

	default:
		return Result{}, errors.Errorf("unknown storage provider %q", provider)
	}
}
