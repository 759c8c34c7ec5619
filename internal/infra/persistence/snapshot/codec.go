// Package snapshot encodes cart snapshots for the key-value persistence providers.
package snapshot

import (
	"encoding/json"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/repository"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
)

// Encode serializes the snapshot as {"items":[...],"total":n}.
func Encode(snapshot *entity.CartSnapshot) ([]byte, error) {
	if snapshot == nil {
		snapshot = &entity.CartSnapshot{}
	}
	if snapshot.Items == nil {
		snapshot = &entity.CartSnapshot{Items: []entity.CartItem{}, Total: snapshot.Total}
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode cart snapshot")
	}

	return raw, nil
}

// Decode parses a stored snapshot. Anything that is not a snapshot object is
// reported as repository.ErrCorruptCart.
func Decode(raw []byte) (*entity.CartSnapshot, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(repository.ErrCorruptCart, "empty payload")
	}

	var snapshot entity.CartSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, errors.Wrap(repository.ErrCorruptCart, err.Error())
	}
	if snapshot.Items == nil {
		snapshot.Items = []entity.CartItem{}
	}

	return &snapshot, nil
}
