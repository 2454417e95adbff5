package tracker

import (
	"context"
	"time"

	domsv "github.com/kailas-cloud/isstracker/internal/domain/statevector"
)

// Repository is the read side of the temporal index.
type Repository interface {
	Get(ctx context.Context, rawEpoch string) (domsv.StateVector, error)
	List(ctx context.Context, offset, limit int) ([]domsv.StateVector, error)
	Epochs(ctx context.Context) ([]string, error)
	Nearest(ctx context.Context, t time.Time) (domsv.StateVector, error)
	AverageSpeed(ctx context.Context) (float64, error)
}
