package snapshot

import (
	"testing"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_WireShape(t *testing.T) {
	stock := 4
	raw, err := Encode(&entity.CartSnapshot{
		Items: []entity.CartItem{{
			ProductID:      "C1",
			ProductType:    entity.ProductTypeComponent,
			Name:           "Hinge",
			UnitPrice:      2.5,
			Quantity:       2,
			AvailableStock: &stock,
		}},
		Total: 5,
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{
		"items": [{"productId":"C1","productType":"component","name":"Hinge","unitPrice":2.5,"quantity":2,"availableStock":4}],
		"total": 5
	}`, string(raw))
}

func TestEncode_NilSnapshotIsEmptyCart(t *testing.T) {
	raw, err := Encode(nil)

	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0}`, string(raw))
}

func TestDecode_Furniture(t *testing.T) {
	raw := []byte(`{"items":[{"productId":"F1","productType":"furniture","name":"Desk","unitPrice":100,"quantity":1,
		"requiredComponents":[{"componentId":"X","name":"Leg","unitPrice":3,"quantity":4}]}],"total":100}`)

	snapshot, err := Decode(raw)

	require.NoError(t, err)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, entity.ProductTypeFurniture, snapshot.Items[0].ProductType)
	assert.Equal(t, []entity.RequiredComponent{{ComponentID: "X", Name: "Leg", UnitPrice: 3, Quantity: 4}}, snapshot.Items[0].RequiredComponents)
}

func TestDecode_Corrupt(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"items": 3}`, `[1,2]`} {
		_, err := Decode([]byte(raw))
		assert.ErrorIs(t, err, repository.ErrCorruptCart, "payload %q", raw)
	}
}
