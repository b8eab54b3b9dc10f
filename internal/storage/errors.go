package storage

import "errors"

// Storage errors shared by all implementations.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a record whose key
	// already exists.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrVersionConflict is returned when an update carries a stale
	// version token: another writer persisted the record since it was
	// read. The caller re-reads on the next tick rather than retrying.
	ErrVersionConflict = errors.New("version conflict: record changed since read")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
