// Package ingest populates the temporal index from the ephemeris feed.
package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	domsv "github.com/kailas-cloud/isstracker/internal/domain/statevector"
	"github.com/kailas-cloud/isstracker/internal/metrics"
)

// Outcome describes what an EnsureLoaded run did.
type Outcome string

// Outcomes double as the ingest_runs_total "result" label.
const (
	OutcomeSkipped    Outcome = "skipped"
	OutcomeLoaded     Outcome = "loaded"
	OutcomeFetchError Outcome = "fetch_error"
	OutcomeParseError Outcome = "parse_error"
	OutcomeStoreError Outcome = "store_error"
)

// Report summarizes an EnsureLoaded run.
type Report struct {
	Outcome  Outcome
	Stored   int
	Rejected int
	Duration time.Duration
}

const flightKey = "ensure_loaded"

// Service is the ingestion gate: it loads the feed into an empty store and
// does nothing once the store holds data.
type Service struct {
	repo    Repository
	fetcher Fetcher
	parser  Parser
	logger  *zap.Logger
	flight  singleflight.Group
}

// New creates an ingestion gate.
func New(repo Repository, fetcher Fetcher, parser Parser, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		fetcher: fetcher,
		parser:  parser,
		logger:  logger,
	}
}

// EnsureLoaded fetches, parses and stores the feed if the store is empty.
// Concurrent callers share one run.
//
// Upstream and parse failures are logged and reported through the Outcome,
// leaving the store empty; only storage failures are returned as errors.
func (s *Service) EnsureLoaded(ctx context.Context) (Report, error) {
	v, err, _ := s.flight.Do(flightKey, func() (any, error) {
		return s.load(ctx)
	})
	rep, _ := v.(Report)
	metrics.IngestRunsTotal.WithLabelValues(string(rep.Outcome)).Inc()
	return rep, err
}

func (s *Service) load(ctx context.Context) (Report, error) {
	start := time.Now()

	n, err := s.repo.Count(ctx)
	if err != nil {
		return Report{Outcome: OutcomeStoreError}, fmt.Errorf("count stored vectors: %w", err)
	}
	if n > 0 {
		s.logger.Debug("State vectors already loaded", zap.Int("count", n))
		return Report{Outcome: OutcomeSkipped, Stored: n}, nil
	}

	fetchStart := time.Now()
	raw, err := s.fetcher.Fetch(ctx)
	metrics.IngestFetchDuration.Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		s.logger.Warn("Ephemeris feed unavailable, store left empty", zap.Error(err))
		return Report{Outcome: OutcomeFetchError, Duration: time.Since(start)}, nil
	}

	feed, err := s.parser.Parse(raw)
	if err != nil {
		s.logger.Warn("Ephemeris feed unparseable, store left empty",
			zap.Int("bytes", len(raw)),
			zap.Error(err),
		)
		return Report{Outcome: OutcomeParseError, Duration: time.Since(start)}, nil
	}

	svs, rejected := s.decode(feed.Samples)

	if err := s.repo.PutMany(ctx, svs); err != nil {
		return Report{Outcome: OutcomeStoreError, Rejected: rejected, Duration: time.Since(start)},
			fmt.Errorf("store %d state vectors: %w", len(svs), err)
	}

	metrics.IngestRecordsTotal.WithLabelValues("stored").Add(float64(len(svs)))
	metrics.IngestRecordsTotal.WithLabelValues("rejected").Add(float64(rejected))
	metrics.StateVectorsStored.Set(float64(len(svs)))

	rep := Report{
		Outcome:  OutcomeLoaded,
		Stored:   len(svs),
		Rejected: rejected,
		Duration: time.Since(start),
	}
	s.logger.Info("Ephemeris feed loaded",
		zap.String("object", feed.ObjectName),
		zap.String("object_id", feed.ObjectID),
		zap.String("center", feed.CenterName),
		zap.String("ref_frame", feed.RefFrame),
		zap.Int("stored", rep.Stored),
		zap.Int("rejected", rep.Rejected),
		zap.Duration("duration", rep.Duration),
	)
	return rep, nil
}

// decode keeps every sample that decodes and logs the rest.
func (s *Service) decode(samples []domsv.Sample) ([]domsv.StateVector, int) {
	svs := make([]domsv.StateVector, 0, len(samples))
	rejected := 0
	for _, smp := range samples {
		sv, err := domsv.FromSample(smp)
		if err != nil {
			rejected++
			s.logger.Warn("Skipping malformed state vector",
				zap.String("epoch", smp.Epoch),
				zap.Error(err),
			)
			continue
		}
		svs = append(svs, sv)
	}
	return svs, rejected
}
