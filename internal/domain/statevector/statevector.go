package statevector

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/isstracker/internal/domain"
	"github.com/kailas-cloud/isstracker/internal/domain/epoch"
	"github.com/kailas-cloud/isstracker/internal/domain/kinematics"
)

// Units published by the OEM feed.
const (
	UnitsKm    = "km"
	UnitsKmSec = "km/s"
)

// Component is a single vector component as published: numeric text plus units.
type Component struct {
	Value string `json:"value"`
	Units string `json:"units,omitempty"`
}

// Sample is a raw feed sample, keyed the way the OEM feed names its fields.
// It is also the stored and served representation.
type Sample struct {
	Epoch string    `json:"EPOCH"`
	X     Component `json:"X"`
	Y     Component `json:"Y"`
	Z     Component `json:"Z"`
	XDot  Component `json:"X_DOT"`
	YDot  Component `json:"Y_DOT"`
	ZDot  Component `json:"Z_DOT"`
}

// StateVector is a decoded sample (immutable value object).
type StateVector struct {
	epoch    string
	at       time.Time
	position kinematics.Vector3
	velocity kinematics.Vector3
	sample   Sample
}

// FromSample decodes a raw sample. Fails with ErrMalformedEpoch or ErrMalformedSample.
func FromSample(s Sample) (StateVector, error) {
	at, err := epoch.Decode(s.Epoch)
	if err != nil {
		return StateVector{}, fmt.Errorf("decode epoch: %w", err)
	}

	var vals [6]float64
	for i, c := range []struct {
		name string
		comp Component
	}{
		{"X", s.X}, {"Y", s.Y}, {"Z", s.Z},
		{"X_DOT", s.XDot}, {"Y_DOT", s.YDot}, {"Z_DOT", s.ZDot},
	} {
		v, err := strconv.ParseFloat(strings.TrimSpace(c.comp.Value), 64)
		if err != nil {
			return StateVector{}, fmt.Errorf("%w: %s at %s: %q", domain.ErrMalformedSample, c.name, s.Epoch, c.comp.Value)
		}
		vals[i] = v
	}

	return StateVector{
		epoch:    s.Epoch,
		at:       at,
		position: kinematics.Vector3{X: vals[0], Y: vals[1], Z: vals[2]},
		velocity: kinematics.Vector3{X: vals[3], Y: vals[4], Z: vals[5]},
		sample:   s,
	}, nil
}

// New builds a state vector from numeric components, formatting the sample the
// way the feed would publish it.
func New(rawEpoch string, position, velocity kinematics.Vector3) (StateVector, error) {
	return FromSample(Sample{
		Epoch: rawEpoch,
		X:     component(position.X, UnitsKm),
		Y:     component(position.Y, UnitsKm),
		Z:     component(position.Z, UnitsKm),
		XDot:  component(velocity.X, UnitsKmSec),
		YDot:  component(velocity.Y, UnitsKmSec),
		ZDot:  component(velocity.Z, UnitsKmSec),
	})
}

func component(v float64, units string) Component {
	return Component{Value: strconv.FormatFloat(v, 'f', -1, 64), Units: units}
}

// Epoch returns the raw epoch string, the store key.
func (sv *StateVector) Epoch() string { return sv.epoch }

// Time returns the decoded epoch instant (UTC).
func (sv *StateVector) Time() time.Time { return sv.at }

// Position returns the inertial position in km.
func (sv *StateVector) Position() kinematics.Vector3 { return sv.position }

// Velocity returns the inertial velocity in km/s.
func (sv *StateVector) Velocity() kinematics.Vector3 { return sv.velocity }

// Sample returns the raw sample the vector was decoded from.
func (sv *StateVector) Sample() Sample { return sv.sample }

// Speed returns the velocity magnitude in km/s.
func (sv *StateVector) Speed() float64 { return kinematics.Speed(sv.velocity) }

// Fix returns the geodetic position at the vector's epoch.
func (sv *StateVector) Fix() kinematics.Fix { return kinematics.Geodetic(sv.position, sv.at) }
