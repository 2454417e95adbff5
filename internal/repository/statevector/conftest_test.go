package statevector

import (
	"context"
	"testing"

	"github.com/kailas-cloud/isstracker/internal/db"
	"github.com/kailas-cloud/isstracker/internal/db/memory"
	"github.com/kailas-cloud/isstracker/internal/domain/kinematics"
	domsv "github.com/kailas-cloud/isstracker/internal/domain/statevector"
)

const testPrefix = "test:"

func newTestRepo(t *testing.T) (*Repo, *memory.Store) {
	t.Helper()
	s := memory.NewStore()
	return New(s, testPrefix), s
}

func mustVector(t *testing.T, rawEpoch string, vel kinematics.Vector3) domsv.StateVector {
	t.Helper()
	sv, err := domsv.New(rawEpoch, kinematics.Vector3{X: 1000, Y: 1000, Z: 1000}, vel)
	if err != nil {
		t.Fatalf("build state vector %s: %v", rawEpoch, err)
	}
	return sv
}

func seed(t *testing.T, r *Repo, epochs ...string) {
	t.Helper()
	for _, e := range epochs {
		if err := r.Put(context.Background(), mustVector(t, e, kinematics.Vector3{X: 1, Y: 2, Z: 3})); err != nil {
			t.Fatalf("put %s: %v", e, err)
		}
	}
}

// failingStore returns err from every call.
type failingStore struct {
	err error
}

func (f *failingStore) Get(context.Context, string) ([]byte, error)      { return nil, f.err }
func (f *failingStore) MGet(context.Context, []string) ([][]byte, error) { return nil, f.err }
func (f *failingStore) Set(context.Context, string, []byte) error        { return f.err }
func (f *failingStore) SetMulti(context.Context, []db.SetItem) error     { return f.err }
func (f *failingStore) Scan(context.Context, string) ([]string, error)   { return nil, f.err }

// repeatingScanStore reports every scanned key twice, the way Redis SCAN may
// during a rehash.
type repeatingScanStore struct {
	*memory.Store
}

func (s repeatingScanStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	keys, err := s.Store.Scan(ctx, pattern)
	if err != nil {
		return nil, err
	}
	return append(keys, keys...), nil
}
