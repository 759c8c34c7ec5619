package postgres

import (
	"context"
	"log/slog"

	"github.com/lsegpor/Forniture4U-sub000/config"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/lifecycle"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/metrics"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/persistence/model"

	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Params struct {
	fx.In
	fx.Lifecycle

	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

// New opens the snapshot database through go-lib (master plus replicas).
// On start it pings, creates cart_snapshots when missing and exposes pool
// stats on the metrics registry.
func New(params Params) (*gorm.DB, error) {
	if params.Config.Postgres == nil {
		return nil, errors.New("postgres storage selected without a postgres section")
	}

	db, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "open snapshot database")
	}
	// Multi-step writes go through the transaction manager.
	db = db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "snapshot database handle")
	}

	params.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "ping snapshot database")
			}
			if err := db.WithContext(ctx).AutoMigrate(&model.CartSnapshotModel{}); err != nil {
				return errors.Wrap(err, "migrate cart_snapshots")
			}
			params.Metrics.RegisterDBStats(sqlDB, "cart_snapshots")

			return nil
		},
		OnStop: func(context.Context) error {
			params.Logger.Info("Closing snapshot database")

			return errors.WithStack(sqlDB.Close())
		},
	})

	return db, nil
}
