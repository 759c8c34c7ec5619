// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for cart persistence.
var (
	// ErrCartNotFound is returned when no snapshot is stored for an identity.
	ErrCartNotFound = errors.New("cart not found")
	// ErrCorruptCart is returned when a stored snapshot cannot be decoded.
	ErrCorruptCart = errors.New("cart snapshot is corrupt")
)

// CartRepository stores one cart snapshot per identity under Identity.StorageKey().
type CartRepository interface {
	// Load returns the stored snapshot, ErrCartNotFound or ErrCorruptCart.
	Load(ctx context.Context, identity entity.Identity) (*entity.CartSnapshot, error)

	// Save overwrites the identity's snapshot.
	Save(ctx context.Context, identity entity.Identity, snapshot *entity.CartSnapshot) error

	// Delete removes the identity's snapshot. Deleting a missing snapshot is not an error.
	Delete(ctx context.Context, identity entity.Identity) error
}
