// Package store persists to-do items.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const itemsTable = "items"

// Item is a single to-do entry.
type Item struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemStore is the persistence capability the rest of the app depends on.
type ItemStore interface {
	Create(ctx context.Context, text string) (Item, error)
	Find(ctx context.Context, id int64) (Item, error)
	All(ctx context.Context) ([]Item, error)
	UpdateCompleted(ctx context.Context, id int64) (Item, error)
	DestroyAll(ctx context.Context) error
}

// Backend is an ItemStore that holds resources.
type Backend interface {
	ItemStore
	Close() error
}

var (
	ErrNotFound          = errors.New("record not found")
	ErrUnsupportedDriver = errors.New("unsupported driver")
)

// Error carries the failed operation and table alongside the cause.
type Error struct {
	Op    string
	Table string
	Err   error
}

func (e *Error) Error() string {
	parts := []string{fmt.Sprintf("store: %s", e.Op)}
	if e.Table != "" {
		parts = append(parts, fmt.Sprintf("table=%s", e.Table))
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound returns the error reported when op finds no item.
func NotFound(op string) error {
	return &Error{Op: op, Table: itemsTable, Err: ErrNotFound}
}

// IsNotFound reports whether err is a lookup of a missing item.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func defaultClock() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
