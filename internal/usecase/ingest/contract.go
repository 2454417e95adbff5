package ingest

import (
	"context"

	domsv "github.com/kailas-cloud/isstracker/internal/domain/statevector"
)

// Fetcher downloads the raw ephemeris document.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Parser decodes a raw ephemeris document.
type Parser interface {
	Parse(raw []byte) (domsv.Feed, error)
}

// Repository is the subset of the temporal index the gate writes to.
type Repository interface {
	Count(ctx context.Context) (int, error)
	PutMany(ctx context.Context, svs []domsv.StateVector) error
}
