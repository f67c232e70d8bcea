package fetcher

import "errors"

// ErrTransport marks every failure to obtain a page. Callers on the request
// path propagate it; nothing in this package retries.
var ErrTransport = errors.New("transport failure")

var (
	ErrInvalidURL       = errors.New("invalid URL")
	ErrPrivateIP        = errors.New("URL resolves to a private address")
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrBodyTooLarge     = errors.New("response body too large")
	ErrTimeout          = errors.New("request timed out")
)
