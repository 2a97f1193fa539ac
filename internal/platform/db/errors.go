package db

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when an owner-scoped query matches no row. A row
// that exists but belongs to another owner is reported identically, so
// cross-tenant probes cannot distinguish "absent" from "not yours".
var ErrNotFound = errors.New("not found")

// Scoped translates pgx's no-rows error into ErrNotFound.
func Scoped(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// NotFoundError names the entity a lookup missed, for handlers that report
// more than one entity kind.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound builds an entity-named not-found error.
func NotFound(entity string) error { return &NotFoundError{Entity: entity} }
