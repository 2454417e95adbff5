package epoch

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/kailas-cloud/isstracker/internal/domain"
)

func TestDecode_DayOfYear(t *testing.T) {
	got, err := Decode("2024-075T23:01:00.000Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 3, 15, 23, 1, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDecode_FirstDayOfYear(t *testing.T) {
	got, err := Decode("2025-001T00:00:00.000Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDecode_Fraction(t *testing.T) {
	tests := []struct {
		raw   string
		nanos int
	}{
		{"2025-050T12:00:00.5Z", 500_000_000},
		{"2025-050T12:00:00.000001Z", 1_000},
		{"2025-050T12:00:00.123456789Z", 123_456_789},
		{"2025-050T12:00:00Z", 0},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := Decode(tc.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Nanosecond() != tc.nanos {
				t.Errorf("nanos = %d, want %d", got.Nanosecond(), tc.nanos)
			}
		})
	}
}

func TestDecode_LeapYear(t *testing.T) {
	got, err := Decode("2024-366T12:00:00.000Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDecode_FieldUpperBounds(t *testing.T) {
	got, err := Decode("2024-075T23:59:60.000Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDecode_Malformed(t *testing.T) {
	bad := []string{
		"",
		"2024-075",
		"2024-075T23:01:00.000",
		"2024/075T23:01:00.000Z",
		"2024-075 23:01:00.000Z",
		"2024-075T23-01:00.000Z",
		"20x4-075T23:01:00.000Z",
		"2024-0a5T23:01:00.000Z",
		"2024-075T+3:01:00.000Z",
		"2024-075T23:01:00,000Z",
		"2024-075T23:01:00.Z",
		"2024-075T23:01:00.0000000000Z",
		"2024-000T23:01:00.000Z",
		"2024-367T23:01:00.000Z",
		"2024-400T25:61:99.000Z",
		"2024-075T24:00:00.000Z",
		"2024-075T23:60:00.000Z",
		"2024-075T23:01:61.000Z",
		"2024-03-15T23:01:00Z",
	}
	for _, raw := range bad {
		t.Run(raw, func(t *testing.T) {
			if _, err := Decode(raw); !errors.Is(err, domain.ErrMalformedEpoch) {
				t.Errorf("Decode(%q) err = %v, want ErrMalformedEpoch", raw, err)
			}
		})
	}
}

func TestLexicalOrderMatchesTimeOrder(t *testing.T) {
	raws := []string{
		"2025-052T00:00:00.000Z",
		"2024-366T23:59:59.999Z",
		"2025-051T23:59:59.000Z",
		"2025-051T09:04:00.000Z",
		"2025-001T00:00:00.000Z",
	}
	sort.Strings(raws)
	for i := 1; i < len(raws); i++ {
		prev, err := Decode(raws[i-1])
		if err != nil {
			t.Fatal(err)
		}
		cur, err := Decode(raws[i])
		if err != nil {
			t.Fatal(err)
		}
		if !prev.Before(cur) {
			t.Errorf("%s sorts before %s but is not earlier", raws[i-1], raws[i])
		}
	}
}
