// Package delivery contains the servers that expose the storefront.
package delivery

import "context"

// Delivery is a server started by main and stopped through the Fx lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}
