package auth

import (
	"context"
	"sync"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/service"
)

// sessionCredentials holds the identity and bearer credential of one client.
// It is anonymous until bound.
type sessionCredentials struct {
	mu         sync.RWMutex
	identity   entity.Identity
	credential string
}

// NewSessionCredentials returns an unbound, anonymous holder.
func NewSessionCredentials() service.SessionCredentials {
	return &sessionCredentials{identity: entity.Anonymous()}
}

// NewCredentialsFactory is provided to Fx for the cart session registry.
func NewCredentialsFactory() service.CredentialsFactory {
	return NewSessionCredentials
}

func (c *sessionCredentials) CurrentIdentity(context.Context) (entity.Identity, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.identity, nil
}

func (c *sessionCredentials) Credential(context.Context) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.credential, nil
}

func (c *sessionCredentials) Revoke(context.Context) error {
	c.Bind(entity.Anonymous(), "")

	return nil
}

func (c *sessionCredentials) Bind(identity entity.Identity, credential string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.identity = identity
	c.credential = credential
}
