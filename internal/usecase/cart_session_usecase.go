package usecase

import (
	"context"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/service"
)

// CartSession is the cart store and credentials of one client.
type CartSession struct {
	ID          string
	Cart        CartUsecase
	Credentials service.SessionCredentials
}

// CartSessionUsecase keeps one cart store per client session.
type CartSessionUsecase interface {
	// Open returns the session with the ID, creating and initializing it when
	// unknown. An empty ID starts a new session.
	Open(ctx context.Context, sessionID string) (*CartSession, error)

	// Close forgets the session. Its carts stay persisted.
	Close(sessionID string)

	// Len is the number of sessions held in memory.
	Len() int
}
