package impl

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lsegpor/Forniture4U-sub000/config"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/repository"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/service"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/usecase"

	"github.com/golang/groupcache/lru"
	"github.com/google/uuid"
	"go.uber.org/fx"
)

const defaultMaxSessions = 1000

// cartSessionRegistry implements the CartSessionUsecase interface with a bounded LRU.
type cartSessionRegistry struct {
	mu       sync.Mutex
	sessions *lru.Cache

	carts          repository.CartRepository
	txManager      repository.TransactionManager
	stock          service.StockService
	orders         service.OrderService
	publisher      service.CartEventPublisher
	newCredentials service.CredentialsFactory
	logger         *slog.Logger
}

// CartSessionRegistryParams holds dependencies for the registry, injected by Fx.
type CartSessionRegistryParams struct {
	fx.In

	Config         *config.Config
	Carts          repository.CartRepository
	TxManager      repository.TransactionManager
	Stock          service.StockService
	Orders         service.OrderService
	Publisher      service.CartEventPublisher
	NewCredentials service.CredentialsFactory
	Logger         *slog.Logger
}

// NewCartSessionRegistry is the constructor for cartSessionRegistry.
func NewCartSessionRegistry(params CartSessionRegistryParams) usecase.CartSessionUsecase {
	maxSessions := defaultMaxSessions
	if params.Config != nil && params.Config.Sessions != nil && params.Config.Sessions.MaxSessions > 0 {
		maxSessions = params.Config.Sessions.MaxSessions
	}

	registry := &cartSessionRegistry{
		sessions:       lru.New(maxSessions),
		carts:          params.Carts,
		txManager:      params.TxManager,
		stock:          params.Stock,
		orders:         params.Orders,
		publisher:      params.Publisher,
		newCredentials: params.NewCredentials,
		logger:         params.Logger,
	}
	registry.sessions.OnEvicted = func(key lru.Key, _ any) {
		registry.logger.Debug("Cart session evicted", slog.Any("session_id", key))
	}

	return registry
}

// Open returns the client's session. Unknown or malformed IDs start a new session.
func (r *cartSessionRegistry) Open(ctx context.Context, sessionID string) (*usecase.CartSession, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		sessionID = uuid.NewString()
	}

	r.mu.Lock()
	if cached, ok := r.sessions.Get(sessionID); ok {
		r.mu.Unlock()

		return cached.(*usecase.CartSession), nil
	}

	credentials := r.newCredentials()
	session := &usecase.CartSession{
		ID: sessionID,
		Cart: NewCartService(CartServiceParams{
			Carts:          r.carts,
			TxManager:      r.txManager,
			Stock:          r.stock,
			Orders:         r.orders,
			Identity:       credentials,
			Publisher:      r.publisher,
			Logger:         r.logger.With(slog.String("cart_session", sessionID)),
			AnonymousScope: sessionID,
		}),
		Credentials: credentials,
	}
	r.sessions.Add(sessionID, session)
	r.mu.Unlock()

	if err := session.Cart.Initialize(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to initialize cart session")
	}

	return session, nil
}

// Close forgets the session.
func (r *cartSessionRegistry) Close(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions.Remove(sessionID)
}

// Len is the number of sessions held in memory.
func (r *cartSessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sessions.Len()
}
