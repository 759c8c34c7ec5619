package entity

const (
	anonymousCartKey     = "anon-cart"
	authenticatedKeyBase = "cart-"
)

// Identity is the owner of a cart: either anonymous or an authenticated user.
// The zero value is the unscoped anonymous identity.
type Identity struct {
	userID string
	// scope separates anonymous carts of different clients sharing one storage.
	scope string
}

// Anonymous returns the identity of a visitor that has not signed in.
func Anonymous() Identity {
	return Identity{}
}

// AnonymousIn returns an anonymous identity whose cart is kept apart from other clients.
func AnonymousIn(scope string) Identity {
	return Identity{scope: scope}
}

// Authenticated returns the identity of a signed-in user.
func Authenticated(userID string) Identity {
	return Identity{userID: userID}
}

// IsAnonymous reports whether no user is bound.
func (i Identity) IsAnonymous() bool {
	return i.userID == ""
}

// UserID is empty for anonymous identities.
func (i Identity) UserID() string {
	return i.userID
}

// Scope is the client scope of an anonymous identity.
func (i Identity) Scope() string {
	return i.scope
}

// Equal compares two identities.
func (i Identity) Equal(other Identity) bool {
	if i.IsAnonymous() != other.IsAnonymous() {
		return false
	}
	if i.IsAnonymous() {
		return i.scope == other.scope
	}

	return i.userID == other.userID
}

// StorageKey is the persistence key of the identity's cart snapshot.
func (i Identity) StorageKey() string {
	if !i.IsAnonymous() {
		return authenticatedKeyBase + i.userID
	}
	if i.scope == "" {
		return anonymousCartKey
	}

	return i.scope + ":" + anonymousCartKey
}

func (i Identity) String() string {
	if i.IsAnonymous() {
		return "anonymous"
	}

	return "user:" + i.userID
}
