package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/isstracker/internal/domain"
	"github.com/kailas-cloud/isstracker/internal/domain/kinematics"
	"github.com/kailas-cloud/isstracker/internal/logger"
	healthuc "github.com/kailas-cloud/isstracker/internal/usecase/health"
	trackeruc "github.com/kailas-cloud/isstracker/internal/usecase/tracker"
	"github.com/kailas-cloud/isstracker/internal/version"
)

// Placeholders rendered instead of a place name.
const (
	geolocationOcean       = "Over the ocean"
	geolocationUnavailable = "unavailable"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the tracker HTTP API on a chi router.
type Server struct {
	tracker       *trackeruc.Service
	health        *healthuc.Service
	geocoder      domain.Geocoder
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. geocoder can be nil.
func NewServer(
	tracker *trackeruc.Service,
	health *healthuc.Service,
	geocoder domain.Geocoder,
	logger *zap.Logger,
) *Server {
	s := &Server{
		tracker:  tracker,
		health:   health,
		geocoder: geocoder,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorResponseCodeEpochNotFound),
		sentinelHandler(domain.ErrEmptyStore, http.StatusNotFound, ErrorResponseCodeNoData),
		sentinelHandler(domain.ErrInvalidParameter, http.StatusBadRequest, ErrorResponseCodeBadRequest),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/epochs", s.ListEpochs)
	r.Get("/epochs/{epoch}", s.GetEpoch)
	r.Get("/epochs/{epoch}/speed", s.GetEpochSpeed)
	r.Get("/epochs/{epoch}/location", s.GetEpochLocation)
	r.Get("/now", s.GetNow)
	r.Get("/summary", s.GetSummary)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// ListEpochs handles GET /epochs?limit&offset.
func (s *Server) ListEpochs(w http.ResponseWriter, r *http.Request) {
	var limit, offset *int

	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid format for parameter limit")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", r.URL.Query(), &offset); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid format for parameter offset")
		return
	}

	svs, err := s.tracker.List(r.Context(), derefInt(offset), derefInt(limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]StateVectorResponse, len(svs))
	for i := range svs {
		items[i] = svs[i].Sample()
	}
	writeJSON(w, http.StatusOK, items)
}

// GetEpoch handles GET /epochs/{epoch}.
func (s *Server) GetEpoch(w http.ResponseWriter, r *http.Request) {
	epoch, ok := bindEpoch(w, r)
	if !ok {
		return
	}

	sv, err := s.tracker.Get(r.Context(), epoch)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sv.Sample())
}

// GetEpochSpeed handles GET /epochs/{epoch}/speed.
func (s *Server) GetEpochSpeed(w http.ResponseWriter, r *http.Request) {
	epoch, ok := bindEpoch(w, r)
	if !ok {
		return
	}

	speed, err := s.tracker.SpeedFor(r.Context(), epoch)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SpeedResponse{Epoch: epoch, SpeedKmS: speed})
}

// GetEpochLocation handles GET /epochs/{epoch}/location.
func (s *Server) GetEpochLocation(w http.ResponseWriter, r *http.Request) {
	epoch, ok := bindEpoch(w, r)
	if !ok {
		return
	}

	fix, err := s.tracker.FixFor(r.Context(), epoch)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LocationResponse{
		Epoch:       epoch,
		Latitude:    fix.Latitude,
		Longitude:   fix.Longitude,
		AltitudeKm:  fix.AltitudeKm,
		Geolocation: s.placeName(r.Context(), fix),
	})
}

// GetNow handles GET /now.
func (s *Server) GetNow(w http.ResponseWriter, r *http.Request) {
	pos, err := s.tracker.ClosestNow(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NowResponse{
		ClosestEpoch: pos.StateVector.Epoch(),
		SpeedKmS:     pos.SpeedKmS,
		Latitude:     pos.Fix.Latitude,
		Longitude:    pos.Fix.Longitude,
		AltitudeKm:   pos.Fix.AltitudeKm,
		GeoLocation:  s.placeName(r.Context(), pos.Fix),
	})
}

// GetSummary handles GET /summary.
func (s *Server) GetSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.tracker.Summary(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SummaryResponse{
		FirstEpoch:      sum.FirstEpoch,
		LastEpoch:       sum.LastEpoch,
		Count:           sum.Count,
		AverageSpeedKmS: sum.AverageSpeedKmS,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Version: version.Version,
		Checks:  checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// placeName reverse-geocodes fix. Geocoding never fails the request.
func (s *Server) placeName(ctx context.Context, fix kinematics.Fix) string {
	if s.geocoder == nil {
		return geolocationUnavailable
	}
	name, err := s.geocoder.Reverse(ctx, fix.Latitude, fix.Longitude)
	if err != nil {
		logger.FromContextOr(ctx, s.logger).Warn("Reverse geocoding failed",
			zap.Float64("latitude", fix.Latitude),
			zap.Float64("longitude", fix.Longitude),
			zap.Error(err),
		)
		return geolocationUnavailable
	}
	if name == "" {
		return geolocationOcean
	}
	return name
}

// bindEpoch extracts the {epoch} path parameter.
func bindEpoch(w http.ResponseWriter, r *http.Request) (string, bool) {
	var epoch string
	err := runtime.BindStyledParameterWithOptions("simple", "epoch", chi.URLParam(r, "epoch"), &epoch,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil || epoch == "" {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid format for parameter epoch")
		return "", false
	}
	return epoch, true
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrEmptyStore,
		domain.ErrInvalidParameter,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Debug("domain error", zap.String("path", r.URL.Path), zap.Error(err))
			return
		}
	}
	if errors.Is(err, domain.ErrCorruptRecord) {
		log.Error("corrupt stored record", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		log.Error("internal error", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
