package store

import (
	"context"
	"errors"
	"time"

	"ReturnLens/internal/model"
)

// ErrNotCached is returned when no history has been stored for a symbol.
var ErrNotCached = errors.New("symbol not cached")

// Store caches raw daily bars fetched from a price provider, per symbol.
// Only provider input is stored; computed returns never are.
type Store interface {
	// LoadBars returns the cached bars in chronological order and when they were fetched.
	LoadBars(ctx context.Context, symbol string) ([]model.OHLCV, time.Time, error)
	// SaveBars replaces the cached history of symbol.
	SaveBars(ctx context.Context, symbol string, bars []model.OHLCV) error
	Close() error
}
