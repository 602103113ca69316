// Package lifecycle holds shared timeouts for component start and shutdown.
package lifecycle

import "time"

// DefaultTimeout bounds graceful start/stop of servers and clients.
const DefaultTimeout = 10 * time.Second
