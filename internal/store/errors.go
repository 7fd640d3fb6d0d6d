package store

import (
	"errors"

	"poseidon/internal/configtype"
)

var (
	// ErrInvalidArgument is returned for malformed type tokens, prefixes and
	// directories. It is never suppressed, not even by LoadSafe.
	ErrInvalidArgument = configtype.ErrInvalidArgument

	// ErrNotFound is returned when a config file (or the file a backup
	// would copy) does not exist. Errors wrapping it also match
	// fs.ErrNotExist.
	ErrNotFound = errors.New("config not found")

	// ErrParse is returned when a config file is not valid JSON.
	ErrParse = errors.New("invalid config JSON")

	// ErrReadOnly is returned by every assignment through an Accessor.
	ErrReadOnly = errors.New("config is read-only")
)
