package archive

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("report not found")
	ErrInvalidStoreType = errors.New("invalid archive store type")
	ErrInvalidConfig    = errors.New("invalid archive store config")
)

// Report is a generated insights report kept for later retrieval.
type Report struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	GeneratedAt time.Time `json:"generatedAt"`
	Content     string    `json:"content"`
	// ExpiresAt is filled in by Get. The zero value means the store did not
	// report an expiry.
	ExpiresAt time.Time `json:"-"`
}

// Store keeps generated reports by id.
type Store interface {
	Save(ctx context.Context, r Report) error
	Get(ctx context.Context, id string) (Report, error)
	Close() error
}
