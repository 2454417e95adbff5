package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// FeedCounter reports how many state vectors have been ingested.
type FeedCounter interface {
	Count(ctx context.Context) (int, error)
}
