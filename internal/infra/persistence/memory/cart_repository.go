// Package memory keeps cart snapshots in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/repository"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/persistence/snapshot"
)

// CartRepository is a map of encoded snapshots keyed by storage key.
type CartRepository struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

// NewCartRepository creates an empty in-memory repository.
func NewCartRepository() *CartRepository {
	return &CartRepository{snapshots: make(map[string][]byte)}
}

// Load implements repository.CartRepository.
func (r *CartRepository) Load(_ context.Context, identity entity.Identity) (*entity.CartSnapshot, error) {
	r.mu.RLock()
	raw, ok := r.snapshots[identity.StorageKey()]
	r.mu.RUnlock()

	if !ok {
		return nil, repository.ErrCartNotFound
	}

	return snapshot.Decode(raw)
}

// Save implements repository.CartRepository.
func (r *CartRepository) Save(_ context.Context, identity entity.Identity, cart *entity.CartSnapshot) error {
	raw, err := snapshot.Encode(cart)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.snapshots[identity.StorageKey()] = raw
	r.mu.Unlock()

	return nil
}

// Delete implements repository.CartRepository.
func (r *CartRepository) Delete(_ context.Context, identity entity.Identity) error {
	r.mu.Lock()
	delete(r.snapshots, identity.StorageKey())
	r.mu.Unlock()

	return nil
}

// Keys lists the stored storage keys.
func (r *CartRepository) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.snapshots))
	for key := range r.snapshots {
		keys = append(keys, key)
	}

	return keys
}
