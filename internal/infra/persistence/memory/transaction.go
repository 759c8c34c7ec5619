package memory

import (
	"context"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/repository"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
)

// stagingTransactionManager buffers writes and applies them only when fn succeeds.
// It works on top of any CartRepository without native transactions.
type stagingTransactionManager struct {
	carts repository.CartRepository
}

// NewTransactionManager wraps a repository with staged writes that are rolled
// back to the prior snapshots when one of them fails.
func NewTransactionManager(carts repository.CartRepository) repository.TransactionManager {
	return &stagingTransactionManager{carts: carts}
}

type stagedWrite struct {
	identity entity.Identity
	snapshot *entity.CartSnapshot // nil means delete
}

// stagedRepository records writes; reads go to the underlying repository.
type stagedRepository struct {
	carts  repository.CartRepository
	writes []stagedWrite
}

func (s *stagedRepository) Load(ctx context.Context, identity entity.Identity) (*entity.CartSnapshot, error) {
	return s.carts.Load(ctx, identity)
}

func (s *stagedRepository) Save(_ context.Context, identity entity.Identity, snapshot *entity.CartSnapshot) error {
	s.writes = append(s.writes, stagedWrite{identity: identity, snapshot: snapshot})

	return nil
}

func (s *stagedRepository) Delete(_ context.Context, identity entity.Identity) error {
	s.writes = append(s.writes, stagedWrite{identity: identity})

	return nil
}

// Execute runs fn and replays its writes in order. If a write fails, every cart
// touched by the transaction is put back to the snapshot it had before the replay.
func (tm *stagingTransactionManager) Execute(ctx context.Context, fn func(carts repository.CartRepository) error) error {
	staged := &stagedRepository{carts: tm.carts}
	if err := fn(staged); err != nil {
		return err
	}

	previous, err := tm.capture(ctx, staged.writes)
	if err != nil {
		return err
	}

	for _, write := range staged.writes {
		if err := tm.apply(ctx, write); err != nil {
			return errors.Join(errors.Wrap(err, "apply staged cart write"), tm.restore(ctx, previous))
		}
	}

	return nil
}

// capture reads the current snapshot of each identity the writes touch. A missing
// or unreadable cart is restored by deleting it.
func (tm *stagingTransactionManager) capture(ctx context.Context, writes []stagedWrite) ([]stagedWrite, error) {
	seen := make(map[string]struct{}, len(writes))
	previous := make([]stagedWrite, 0, len(writes))

	for _, write := range writes {
		key := write.identity.StorageKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		snapshot, err := tm.carts.Load(ctx, write.identity)
		switch {
		case err == nil:
		case errors.Is(err, repository.ErrCartNotFound), errors.Is(err, repository.ErrCorruptCart):
			snapshot = nil
		default:
			return nil, errors.Wrapf(err, "read cart %s before transaction", key)
		}
		previous = append(previous, stagedWrite{identity: write.identity, snapshot: snapshot})
	}

	return previous, nil
}

func (tm *stagingTransactionManager) apply(ctx context.Context, write stagedWrite) error {
	if write.snapshot == nil {
		return tm.carts.Delete(ctx, write.identity)
	}

	return tm.carts.Save(ctx, write.identity, write.snapshot)
}

func (tm *stagingTransactionManager) restore(ctx context.Context, previous []stagedWrite) error {
	var errs []error
	for _, write := range previous {
		if err := tm.apply(ctx, write); err != nil {
			errs = append(errs, errors.Wrapf(err, "restore cart %s", write.identity.StorageKey()))
		}
	}

	return errors.Join(errs...)
}
