package postgres

import (
	"context"
	"time"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	domainerrors "github.com/lsegpor/Forniture4U-sub000/internal/domain/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/repository"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/persistence/model"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/persistence/snapshot"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// cartRepository implements the repository.CartRepository interface.
type cartRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{
		db:  db,
		now: time.Now,
	}
}

// Load retrieves the snapshot stored under the identity's key.
func (repo *cartRepository) Load(ctx context.Context, identity entity.Identity) (*entity.CartSnapshot, error) {
	var snapshotM model.CartSnapshotModel

	err := repo.db.WithContext(ctx).
		Where("storage_key = ?", identity.StorageKey()).
		Take(&snapshotM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load cart snapshot")
	}

	return snapshot.Decode(snapshotM.Payload)
}

// Save upserts the snapshot under the identity's key.
func (repo *cartRepository) Save(ctx context.Context, identity entity.Identity, cart *entity.CartSnapshot) error {
	snapshotM, err := repo.toModel(identity, cart)
	if err != nil {
		return err
	}

	err = repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "storage_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "item_count", "total", "updated_at"}),
		}).
		Create(snapshotM).Error
	if err != nil {
		if snapshotRejected(err) {
			return domainerrors.ErrCartPersistFailed.WrapMessage("invalid cart snapshot")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to save cart snapshot")
	}

	return nil
}

// Delete removes the snapshot. Deleting a missing key is not an error.
func (repo *cartRepository) Delete(ctx context.Context, identity entity.Identity) error {
	err := repo.db.WithContext(ctx).
		Where("storage_key = ?", identity.StorageKey()).
		Delete(&model.CartSnapshotModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete cart snapshot")
	}

	return nil
}

func (repo *cartRepository) toModel(identity entity.Identity, cart *entity.CartSnapshot) (*model.CartSnapshotModel, error) {
	payload, err := snapshot.Encode(cart)
	if err != nil {
		return nil, err
	}

	snapshotM := &model.CartSnapshotModel{
		StorageKey: identity.StorageKey(),
		Payload:    payload,
		UpdatedAt:  repo.now().UTC(),
	}
	if cart != nil {
		snapshotM.Total = cart.Total
		for _, item := range cart.Items {
			snapshotM.ItemCount += item.Quantity
		}
	}

	return snapshotM, nil
}
