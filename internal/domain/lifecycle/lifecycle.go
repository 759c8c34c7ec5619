// Package lifecycle holds shared settings for Fx start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds a single OnStart or OnStop hook.
const DefaultTimeout = 10 * time.Second
