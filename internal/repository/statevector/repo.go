package statevector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/isstracker/internal/db"
	"github.com/kailas-cloud/isstracker/internal/domain"
	domsv "github.com/kailas-cloud/isstracker/internal/domain/statevector"
)

const epochNamespace = "epoch:"

// store is the consumer interface for state vectors (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMulti(ctx context.Context, items []db.SetItem) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo is the temporal index: state vectors keyed by raw epoch string.
//
// Ordering is lexical over raw epoch strings, which matches time order only
// because OEM epochs are fixed-width day-of-year timestamps.
type Repo struct {
	store  store
	prefix string
}

// New creates a state vector repository. keyPrefix namespaces all keys (e.g. "isstracker:").
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix + epochNamespace}
}

// Put upserts a state vector by epoch. Last write wins.
func (r *Repo) Put(ctx context.Context, sv domsv.StateVector) error {
	data, err := json.Marshal(sv.Sample())
	if err != nil {
		return fmt.Errorf("marshal state vector %s: %w", sv.Epoch(), err)
	}
	if err := r.store.Set(ctx, r.key(sv.Epoch()), data); err != nil {
		return fmt.Errorf("set %s: %w", sv.Epoch(), err)
	}
	return nil
}

// PutMany upserts state vectors in one pipelined round trip.
func (r *Repo) PutMany(ctx context.Context, svs []domsv.StateVector) error {
	if len(svs) == 0 {
		return nil
	}
	items := make([]db.SetItem, 0, len(svs))
	for i := range svs {
		data, err := json.Marshal(svs[i].Sample())
		if err != nil {
			return fmt.Errorf("marshal state vector %s: %w", svs[i].Epoch(), err)
		}
		items = append(items, db.SetItem{Key: r.key(svs[i].Epoch()), Value: data})
	}
	if err := r.store.SetMulti(ctx, items); err != nil {
		return fmt.Errorf("set %d state vectors: %w", len(items), err)
	}
	return nil
}

// Get returns the state vector stored under epoch, or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, rawEpoch string) (domsv.StateVector, error) {
	key := r.key(rawEpoch)
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domsv.StateVector{}, domain.ErrNotFound
		}
		return domsv.StateVector{}, fmt.Errorf("get %s: %w", rawEpoch, err)
	}
	return decode(key, data)
}

// Epochs returns all stored epochs in ascending lexical order.
func (r *Repo) Epochs(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan epochs: %w", err)
	}
	sort.Strings(keys)
	keys = slices.Compact(keys)

	epochs := make([]string, len(keys))
	for i, k := range keys {
		epochs[i] = strings.TrimPrefix(k, r.prefix)
	}
	return epochs, nil
}

// Count returns the number of stored state vectors.
func (r *Repo) Count(ctx context.Context) (int, error) {
	epochs, err := r.Epochs(ctx)
	if err != nil {
		return 0, err
	}
	return len(epochs), nil
}

// List returns state vectors in ascending epoch order, skipping offset and
// returning at most limit items. limit <= 0 means no limit.
func (r *Repo) List(ctx context.Context, offset, limit int) ([]domsv.StateVector, error) {
	if offset < 0 {
		return nil, fmt.Errorf("offset %d: %w", offset, domain.ErrInvalidParameter)
	}

	epochs, err := r.Epochs(ctx)
	if err != nil {
		return nil, err
	}

	if offset >= len(epochs) {
		return []domsv.StateVector{}, nil
	}
	epochs = epochs[offset:]
	if limit > 0 && limit < len(epochs) {
		epochs = epochs[:limit]
	}

	return r.load(ctx, epochs)
}

// All returns every stored state vector in ascending epoch order.
func (r *Repo) All(ctx context.Context) ([]domsv.StateVector, error) {
	return r.List(ctx, 0, 0)
}

// Nearest returns the state vector whose epoch is closest to t.
// Ties keep the earlier sample in lexical order. Empty store: domain.ErrEmptyStore.
func (r *Repo) Nearest(ctx context.Context, t time.Time) (domsv.StateVector, error) {
	all, err := r.All(ctx)
	if err != nil {
		return domsv.StateVector{}, err
	}
	if len(all) == 0 {
		return domsv.StateVector{}, domain.ErrEmptyStore
	}

	best := 0
	bestDiff := absDuration(all[0].Time().Sub(t))
	for i := 1; i < len(all); i++ {
		if d := absDuration(all[i].Time().Sub(t)); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return all[best], nil
}

// AverageSpeed returns the mean velocity magnitude over all stored vectors.
func (r *Repo) AverageSpeed(ctx context.Context) (float64, error) {
	all, err := r.All(ctx)
	if err != nil {
		return 0, err
	}
	if len(all) == 0 {
		return 0, domain.ErrEmptyStore
	}

	var sum float64
	for i := range all {
		sum += all[i].Speed()
	}
	return sum / float64(len(all)), nil
}

// load fetches and decodes epochs in order. Keys removed between SCAN and
// MGET are skipped.
func (r *Repo) load(ctx context.Context, epochs []string) ([]domsv.StateVector, error) {
	if len(epochs) == 0 {
		return []domsv.StateVector{}, nil
	}

	keys := make([]string, len(epochs))
	for i, e := range epochs {
		keys[i] = r.key(e)
	}

	raws, err := r.store.MGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("mget %d epochs: %w", len(keys), err)
	}

	out := make([]domsv.StateVector, 0, len(raws))
	for i, raw := range raws {
		if raw == nil {
			continue
		}
		sv, err := decode(keys[i], raw)
		if err != nil {
			return nil, err
		}
		out = append(out, sv)
	}
	return out, nil
}

func (r *Repo) key(rawEpoch string) string {
	return r.prefix + rawEpoch
}

// decode fails loudly: records are validated at ingestion, so a failure here
// means the stored data was written by something else.
func decode(key string, data []byte) (domsv.StateVector, error) {
	var s domsv.Sample
	if err := json.Unmarshal(data, &s); err != nil {
		return domsv.StateVector{}, domain.NewCorruptRecord(key, err)
	}
	sv, err := domsv.FromSample(s)
	if err != nil {
		return domsv.StateVector{}, domain.NewCorruptRecord(key, err)
	}
	return sv, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
