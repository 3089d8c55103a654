// Package store holds the record store drivers and the errors they share.
package store

import (
	"context"
	"errors"
)

// Predefined errors for the store layer.
var (
	// ErrNotFound indicates that a requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates a record with the same ID already exists. Drivers
	// write create-only, so an ID is never overwritten.
	ErrConflict = errors.New("record already exists")
)

// Pinger is implemented by stores and notifiers that can report reachability
// to the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}
