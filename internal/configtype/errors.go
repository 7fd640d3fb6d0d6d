package configtype

import "errors"

// ErrInvalidArgument is returned for malformed type tokens, prefixes and
// directories. It is never suppressed.
var ErrInvalidArgument = errors.New("invalid argument")
