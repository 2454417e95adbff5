package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals an unknown epoch on a point query.
	ErrNotFound = errors.New("epoch not found")
	// ErrEmptyStore signals that no state vectors have been ingested yet.
	ErrEmptyStore = errors.New("no data available")
	// ErrMalformedEpoch signals an epoch string outside the YYYY-DDDTHH:MM:SS.fffZ layout.
	ErrMalformedEpoch = errors.New("malformed epoch")
	// ErrMalformedSample signals a feed sample with a missing or non-numeric component.
	ErrMalformedSample = errors.New("malformed sample")
	// ErrUpstreamUnavailable signals that the ephemeris feed could not be fetched.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrCorruptRecord signals a stored record that no longer decodes.
	// It points at an ingestion bug, not at bad user input.
	ErrCorruptRecord = errors.New("corrupt stored record")
	// ErrInvalidParameter signals a bad query parameter.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// CorruptRecordError wraps ErrCorruptRecord with the offending key.
type CorruptRecordError struct {
	Key string
	Err error
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("%s: key %q: %v", ErrCorruptRecord.Error(), e.Key, e.Err)
}

func (e *CorruptRecordError) Unwrap() []error { return []error{ErrCorruptRecord, e.Err} }

// NewCorruptRecord creates a corrupt record error for key.
func NewCorruptRecord(key string, err error) error {
	return &CorruptRecordError{Key: key, Err: err}
}
