package query

import "errors"

// Every failure returned by Dispatcher.Execute wraps exactly one of these.
var (
	ErrBadRequest   = errors.New("invalid query")
	ErrNotFound     = errors.New("not found")
	ErrDecode       = errors.New("malformed extra_links")
	ErrIO           = errors.New("asset unavailable")
	ErrUnregistered = errors.New("asset not registered")
	ErrUpstream     = errors.New("entity store error")
)
