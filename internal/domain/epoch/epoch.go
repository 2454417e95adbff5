// Package epoch decodes the day-of-year timestamps used by CCSDS OEM feeds.
//
// Layout: YYYY-DDDTHH:MM:SS[.f...]Z, e.g. 2024-075T23:01:00.000Z.
// Every field before the fraction is fixed-width, so raw epoch strings of one
// feed sort lexically in time order. The store relies on that property and
// orders keys as strings; a feed with a different layout must switch ordering
// to decoded instants.
package epoch

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/isstracker/internal/domain"
)

const (
	// minLen is len("YYYY-DDDTHH:MM:SSZ").
	minLen = 18
	maxDay = 366
	// maxSecond admits a leap second.
	maxSecond = 60
)

// Decode converts a raw epoch into an absolute UTC instant:
// January 1 of YYYY plus DDD-1 days plus the time of day.
func Decode(raw string) (time.Time, error) {
	if len(raw) < minLen || raw[len(raw)-1] != 'Z' {
		return time.Time{}, malformed(raw, "layout")
	}
	if raw[4] != '-' || raw[8] != 'T' || raw[11] != ':' || raw[14] != ':' {
		return time.Time{}, malformed(raw, "separators")
	}

	year, err := field(raw, 0, 4)
	if err != nil {
		return time.Time{}, err
	}
	day, err := field(raw, 5, 8)
	if err != nil {
		return time.Time{}, err
	}
	hour, err := field(raw, 9, 11)
	if err != nil {
		return time.Time{}, err
	}
	minute, err := field(raw, 12, 14)
	if err != nil {
		return time.Time{}, err
	}
	sec, err := field(raw, 15, 17)
	if err != nil {
		return time.Time{}, err
	}

	var nanos int
	if frac := raw[17 : len(raw)-1]; frac != "" {
		if frac[0] != '.' || len(frac) < 2 || len(frac) > 10 {
			return time.Time{}, malformed(raw, "fraction")
		}
		digits := frac[1:]
		n, err := digitsOnly(raw, digits)
		if err != nil {
			return time.Time{}, err
		}
		for i := len(digits); i < 9; i++ {
			n *= 10
		}
		nanos = n
	}

	switch {
	case day < 1 || day > maxDay:
		return time.Time{}, malformed(raw, "day of year out of range")
	case hour > 23:
		return time.Time{}, malformed(raw, "hour out of range")
	case minute > 59:
		return time.Time{}, malformed(raw, "minute out of range")
	case sec > maxSecond:
		return time.Time{}, malformed(raw, "second out of range")
	}

	t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, day-1).
		Add(time.Duration(hour)*time.Hour +
			time.Duration(minute)*time.Minute +
			time.Duration(sec)*time.Second +
			time.Duration(nanos))
	return t, nil
}

func field(raw string, from, to int) (int, error) {
	return digitsOnly(raw, raw[from:to])
}

// digitsOnly rejects signs and spaces that strconv.Atoi would accept.
func digitsOnly(raw, s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, malformed(raw, "non-numeric field")
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, malformed(raw, err.Error())
	}
	return n, nil
}

func malformed(raw, reason string) error {
	return fmt.Errorf("%w: %q: %s", domain.ErrMalformedEpoch, raw, reason)
}
