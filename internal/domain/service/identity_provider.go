package service

import (
	"context"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
)

// IdentityProvider tells the cart store who the current user is.
type IdentityProvider interface {
	// CurrentIdentity returns the signed-in identity, or Anonymous.
	CurrentIdentity(ctx context.Context) (entity.Identity, error)

	// Credential returns the bearer credential of the signed-in user, empty when anonymous.
	Credential(ctx context.Context) (string, error)

	// Revoke forgets the credential, e.g. after the order service rejected it.
	Revoke(ctx context.Context) error
}

// SessionCredentials is an IdentityProvider owned by a single client session.
type SessionCredentials interface {
	IdentityProvider

	// Bind records the identity and credential established by a sign-in.
	Bind(identity entity.Identity, credential string)
}

// CredentialsFactory creates the credentials holder of a new client session.
type CredentialsFactory func() SessionCredentials
