// Package kinematics derives physical quantities from inertial state vectors.
package kinematics

import (
	"math"
	"time"
)

// EarthRadiusKm is the mean radius of the spherical Earth used for altitude.
const EarthRadiusKm = 6371.0088

// degreesPerHour is Earth's rotation, 360° over 24h.
const degreesPerHour = 360.0 / 24.0

// frameOffsetDeg aligns the J2000 frame with Greenwich at the reference hour.
// Fitted empirically against published ground tracks; not derived.
const frameOffsetDeg = 19.0

// Vector3 is a Cartesian triple in an Earth-centered inertial frame.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Norm returns the Euclidean length of v.
func (v Vector3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Fix is a geodetic position over a spherical Earth.
type Fix struct {
	Latitude   float64 // degrees
	Longitude  float64 // degrees, see NormalizeLongitude
	AltitudeKm float64
}

// Speed returns the magnitude of a velocity vector in the vector's units.
func Speed(velocity Vector3) float64 {
	return velocity.Norm()
}

// Geodetic converts an inertial position (km) at instant t into a Fix.
// Longitude compensates Earth rotation using only the UTC hour and minute of t.
func Geodetic(position Vector3, t time.Time) Fix {
	t = t.UTC()
	x, y, z := position.X, position.Y, position.Z

	lat := degrees(math.Atan2(z, math.Sqrt(x*x+y*y)))
	alt := position.Norm() - EarthRadiusKm
	rotation := (float64(t.Hour()-12) + float64(t.Minute())/60) * degreesPerHour
	lon := degrees(math.Atan2(y, x)) - rotation + frameOffsetDeg

	return Fix{
		Latitude:   lat,
		Longitude:  NormalizeLongitude(lon),
		AltitudeKm: alt,
	}
}

// NormalizeLongitude applies a single reflective wrap into [-180, 180].
// Inputs more than 360° out of range stay out of range; Geodetic never
// produces them since atan2 is bounded and the rotation term spans one day.
func NormalizeLongitude(lon float64) float64 {
	if lon > 180 {
		lon = -180 + (lon - 180)
	}
	if lon < -180 {
		lon = 180 + (lon + 180)
	}
	return lon
}

// ValidCoordinates reports whether lat is in [-90,90] and lon in [-180,180].
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func degrees(rad float64) float64 {
	return rad * (180 / math.Pi)
}
