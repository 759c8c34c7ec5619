package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/repository"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// abortingPipeliner runs fn without a live pipeline and then fails the EXEC.
type abortingPipeliner struct {
	execErr error
}

func (p *abortingPipeliner) TxPipelined(_ context.Context, fn func(goredis.Pipeliner) error) ([]goredis.Cmder, error) {
	if err := fn(nil); err != nil {
		return nil, err
	}

	return nil, p.execErr
}

func TestTransactionManager_WrapsExecFailure(t *testing.T) {
	execErr := errors.New("EXECABORT Transaction discarded")
	tm := NewTransactionManager(&abortingPipeliner{execErr: execErr}, Options{})

	err := tm.Execute(context.Background(), func(repository.CartRepository) error { return nil })

	require.Error(t, err)
	assert.ErrorIs(t, err, execErr)
	assert.Equal(t, "redis transaction failed: EXECABORT Transaction discarded", err.Error())
	assert.Contains(t, fmt.Sprintf("%+v", err), "transaction.go", "wrapped errors carry a stack")
}

func TestTransactionManager_RejectsReads(t *testing.T) {
	tm := NewTransactionManager(&abortingPipeliner{}, Options{})

	err := tm.Execute(context.Background(), func(carts repository.CartRepository) error {
		_, err := carts.Load(context.Background(), entity.Anonymous())

		return err
	})

	assert.ErrorIs(t, err, ErrReadInTransaction)
}
