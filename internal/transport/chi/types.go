package chi

import domsv "github.com/kailas-cloud/isstracker/internal/domain/statevector"

// ErrorResponseCode is a machine-readable error code.
type ErrorResponseCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorResponseCodeBadRequest    ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized  ErrorResponseCode = "unauthorized"
	ErrorResponseCodeEpochNotFound ErrorResponseCode = "epoch_not_found"
	ErrorResponseCodeNoData        ErrorResponseCode = "no_data"
	ErrorResponseCodeInternalError ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// StateVectorResponse is a stored sample in feed shape.
type StateVectorResponse = domsv.Sample

// SpeedResponse is returned by GET /epochs/{epoch}/speed.
type SpeedResponse struct {
	Epoch    string  `json:"epoch"`
	SpeedKmS float64 `json:"speed_km_s"`
}

// LocationResponse is returned by GET /epochs/{epoch}/location.
type LocationResponse struct {
	Epoch       string  `json:"epoch"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	AltitudeKm  float64 `json:"altitude_km"`
	Geolocation string  `json:"geolocation"`
}

// NowResponse is returned by GET /now.
type NowResponse struct {
	ClosestEpoch string  `json:"closest_epoch"`
	SpeedKmS     float64 `json:"speed_km_s"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	AltitudeKm   float64 `json:"altitude_km"`
	GeoLocation  string  `json:"geo_location"`
}

// SummaryResponse is returned by GET /summary.
type SummaryResponse struct {
	FirstEpoch      string  `json:"first_epoch"`
	LastEpoch       string  `json:"last_epoch"`
	Count           int     `json:"count"`
	AverageSpeedKmS float64 `json:"average_speed_km_s"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}
