package domain

import "context"

// Geocoder resolves a coordinate to a human-readable place name.
// An empty name with a nil error means no place is known there.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}
