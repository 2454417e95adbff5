// Package tracker answers position and speed queries over stored state vectors.
package tracker

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/kailas-cloud/isstracker/internal/domain"
	"github.com/kailas-cloud/isstracker/internal/domain/kinematics"
	domsv "github.com/kailas-cloud/isstracker/internal/domain/statevector"
)

// Position is a state vector with its derived quantities.
type Position struct {
	StateVector domsv.StateVector
	Fix         kinematics.Fix
	SpeedKmS    float64
}

// Summary describes the stored ephemeris window.
type Summary struct {
	FirstEpoch      string
	LastEpoch       string
	Count           int
	AverageSpeedKmS float64
}

// Service is the query façade over the temporal index.
type Service struct {
	repo  Repository
	clock clockwork.Clock
}

// New creates a tracker service. A nil clock means the wall clock.
func New(repo Repository, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{repo: repo, clock: clock}
}

// ClosestNow returns the stored sample nearest to the current instant.
// Returns domain.ErrEmptyStore when nothing is stored.
func (s *Service) ClosestNow(ctx context.Context) (Position, error) {
	sv, err := s.repo.Nearest(ctx, s.clock.Now())
	if err != nil {
		return Position{}, fmt.Errorf("nearest state vector: %w", err)
	}
	return Position{
		StateVector: sv,
		Fix:         sv.Fix(),
		SpeedKmS:    sv.Speed(),
	}, nil
}

// FixFor returns the geodetic position at a stored epoch, or domain.ErrNotFound.
func (s *Service) FixFor(ctx context.Context, rawEpoch string) (kinematics.Fix, error) {
	sv, err := s.Get(ctx, rawEpoch)
	if err != nil {
		return kinematics.Fix{}, err
	}
	return sv.Fix(), nil
}

// SpeedFor returns the speed in km/s at a stored epoch, or domain.ErrNotFound.
func (s *Service) SpeedFor(ctx context.Context, rawEpoch string) (float64, error) {
	sv, err := s.Get(ctx, rawEpoch)
	if err != nil {
		return 0, err
	}
	return sv.Speed(), nil
}

// Get returns the state vector stored under rawEpoch.
func (s *Service) Get(ctx context.Context, rawEpoch string) (domsv.StateVector, error) {
	sv, err := s.repo.Get(ctx, rawEpoch)
	if err != nil {
		return domsv.StateVector{}, fmt.Errorf("get state vector %s: %w", rawEpoch, err)
	}
	return sv, nil
}

// List returns stored state vectors in chronological order. limit <= 0 means all.
func (s *Service) List(ctx context.Context, offset, limit int) ([]domsv.StateVector, error) {
	if offset < 0 {
		return nil, fmt.Errorf("offset must be non-negative: %w", domain.ErrInvalidParameter)
	}
	if limit < 0 {
		return nil, fmt.Errorf("limit must be non-negative: %w", domain.ErrInvalidParameter)
	}
	svs, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list state vectors: %w", err)
	}
	return svs, nil
}

// Summary reports the first and last epochs, the sample count and the mean
// speed. Returns domain.ErrEmptyStore when nothing is stored.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	epochs, err := s.repo.Epochs(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list epochs: %w", err)
	}
	if len(epochs) == 0 {
		return Summary{}, domain.ErrEmptyStore
	}

	avg, err := s.repo.AverageSpeed(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("average speed: %w", err)
	}

	return Summary{
		FirstEpoch:      epochs[0],
		LastEpoch:       epochs[len(epochs)-1],
		Count:           len(epochs),
		AverageSpeedKmS: avg,
	}, nil
}
