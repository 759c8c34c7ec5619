package redis

import (
	"context"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/repository"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"

	goredis "github.com/redis/go-redis/v9"
)

// ErrReadInTransaction is returned by Load inside Execute; queued commands have no result yet.
var ErrReadInTransaction = errors.New("cart reads are not available inside a redis transaction")

// TxPipeliner runs queued commands inside MULTI/EXEC.
type TxPipeliner interface {
	TxPipelined(ctx context.Context, fn func(goredis.Pipeliner) error) ([]goredis.Cmder, error)
}

// redisTransactionManager implements the domain's TransactionManager interface with MULTI/EXEC.
type redisTransactionManager struct {
	client TxPipeliner
	opts   Options
}

// NewTransactionManager is the constructor for redisTransactionManager.
func NewTransactionManager(client TxPipeliner, opts Options) repository.TransactionManager {
	return &redisTransactionManager{client: client, opts: opts}
}

// Execute queues fn's writes and sends them as one MULTI/EXEC block.
func (tm *redisTransactionManager) Execute(ctx context.Context, fn func(carts repository.CartRepository) error) error {
	_, err := tm.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		return fn(&pipelinedRepository{
			cartRepository: cartRepository{cmd: pipe, opts: tm.opts},
		})
	})
	if err != nil {
		return errors.Wrap(err, "redis transaction failed")
	}

	return nil
}

// pipelinedRepository queues writes on a pipeline.
type pipelinedRepository struct {
	cartRepository
}

func (*pipelinedRepository) Load(context.Context, entity.Identity) (*entity.CartSnapshot, error) {
	return nil, ErrReadInTransaction
}
