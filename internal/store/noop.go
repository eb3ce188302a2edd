package store

import (
	"context"
	"time"

	"ReturnLens/internal/model"
)

// NoopStore is used when no database is configured. Every load misses.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) LoadBars(_ context.Context, _ string) ([]model.OHLCV, time.Time, error) {
	return nil, time.Time{}, ErrNotCached
}

func (n *NoopStore) SaveBars(_ context.Context, _ string, _ []model.OHLCV) error { return nil }

func (n *NoopStore) Close() error { return nil }
