// Package retention purges articles older than the retention window.
package retention

import "errors"

// ErrForbidden is returned when a non-privileged identity requests a sweep.
var ErrForbidden = errors.New("sweep requires a privileged identity")
