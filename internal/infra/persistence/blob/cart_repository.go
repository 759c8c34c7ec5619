// Package blob keeps cart snapshots as objects in a gocloud.dev bucket.
package blob

import (
	"context"
	"log/slog"
	"path"

	"github.com/lsegpor/Forniture4U-sub000/config"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	domainerrors "github.com/lsegpor/Forniture4U-sub000/internal/domain/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/lifecycle"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/repository"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/persistence/snapshot"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"
)

const contentType = "application/json"

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// OpenBucket opens the bucket named by blob.url and closes it on stop.
func OpenBucket(params Params) (*blob.Bucket, error) {
	cfg := params.Config.Blob
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("blob storage selected without blob.url")
	}

	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	bucket, err := blob.OpenBucket(ctx, cfg.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", cfg.URL)
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})
	params.Logger.Info("Blob snapshot store opened", slog.String("url", cfg.URL), slog.String("prefix", cfg.Prefix))

	return bucket, nil
}

// cartRepository implements the repository.CartRepository interface.
type cartRepository struct {
	bucket *blob.Bucket
	prefix string
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(bucket *blob.Bucket, prefix string) repository.CartRepository {
	return &cartRepository{bucket: bucket, prefix: prefix}
}

func (repo *cartRepository) key(identity entity.Identity) string {
	return path.Join(repo.prefix, identity.StorageKey()+".json")
}

// Load reads the snapshot object of the identity.
func (repo *cartRepository) Load(ctx context.Context, identity entity.Identity) (*entity.CartSnapshot, error) {
	raw, err := repo.bucket.ReadAll(ctx, repo.key(identity))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, repository.ErrCartNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to read cart object")
	}

	return snapshot.Decode(raw)
}

// Save overwrites the snapshot object of the identity.
func (repo *cartRepository) Save(ctx context.Context, identity entity.Identity, cart *entity.CartSnapshot) error {
	raw, err := snapshot.Encode(cart)
	if err != nil {
		return err
	}

	if err := repo.bucket.WriteAll(ctx, repo.key(identity), raw, &blob.WriterOptions{ContentType: contentType}); err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to write cart object")
	}

	return nil
}

// Delete removes the snapshot object. Deleting a missing object is not an error.
func (repo *cartRepository) Delete(ctx context.Context, identity entity.Identity) error {
	err := repo.bucket.Delete(ctx, repo.key(identity))
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete cart object")
	}

	return nil
}
