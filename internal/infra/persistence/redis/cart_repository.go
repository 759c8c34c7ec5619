package redis

import (
	"context"
	"time"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	domainerrors "github.com/lsegpor/Forniture4U-sub000/internal/domain/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/repository"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/persistence/snapshot"

	goredis "github.com/redis/go-redis/v9"
)

// Commands is the part of the redis API the repository uses.
type Commands interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// Options tune key naming and expiry.
type Options struct {
	KeyPrefix string
	// TTL of zero keeps snapshots until deleted.
	TTL time.Duration
}

// cartRepository implements the repository.CartRepository interface.
type cartRepository struct {
	cmd  Commands
	opts Options
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(cmd Commands, opts Options) repository.CartRepository {
	return &cartRepository{cmd: cmd, opts: opts}
}

func (repo *cartRepository) key(identity entity.Identity) string {
	return repo.opts.KeyPrefix + identity.StorageKey()
}

// Load reads the snapshot stored under the identity's key.
func (repo *cartRepository) Load(ctx context.Context, identity entity.Identity) (*entity.CartSnapshot, error) {
	raw, err := repo.cmd.Get(ctx, repo.key(identity)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, repository.ErrCartNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to read cart snapshot")
	}

	return snapshot.Decode(raw)
}

// Save writes the snapshot, refreshing its TTL.
func (repo *cartRepository) Save(ctx context.Context, identity entity.Identity, cart *entity.CartSnapshot) error {
	raw, err := snapshot.Encode(cart)
	if err != nil {
		return err
	}

	if err := repo.cmd.Set(ctx, repo.key(identity), raw, repo.opts.TTL).Err(); err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to write cart snapshot")
	}

	return nil
}

// Delete removes the snapshot. Deleting a missing key is not an error.
func (repo *cartRepository) Delete(ctx context.Context, identity entity.Identity) error {
	if err := repo.cmd.Del(ctx, repo.key(identity)).Err(); err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete cart snapshot")
	}

	return nil
}
