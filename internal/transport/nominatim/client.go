// Package nominatim is a reverse geocoder backed by the OpenStreetMap Nominatim API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/isstracker/internal/metrics"
)

// DefaultBaseURL is the public Nominatim instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Config configures the Nominatim client.
type Config struct {
	BaseURL   string
	UserAgent string // required by the Nominatim usage policy
	Zoom      int    // 3 (country) .. 18 (building)
	Language  string
	Timeout   time.Duration
}

// Client resolves coordinates to place names.
type Client struct {
	baseURL    string
	userAgent  string
	zoom       int
	language   string
	httpClient *http.Client
}

// NewClient creates a Nominatim client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Zoom == 0 {
		cfg.Zoom = 15
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		zoom:      cfg.Zoom,
		language:  cfg.Language,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Reverse returns the display name for a coordinate, or "" when Nominatim
// knows no place there (open ocean).
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{
		"format":          {"jsonv2"},
		"lat":             {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":             {strconv.FormatFloat(lon, 'f', -1, 64)},
		"zoom":            {strconv.Itoa(c.zoom)},
		"accept-language": {c.language},
	}

	start := time.Now()
	name, err := c.doRequest(ctx, c.baseURL+"/reverse?"+params.Encode())
	metrics.GeocoderRequestDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.GeocoderRequestsTotal.WithLabelValues("error").Inc()
	case name == "":
		metrics.GeocoderRequestsTotal.WithLabelValues("empty").Inc()
	default:
		metrics.GeocoderRequestsTotal.WithLabelValues("ok").Inc()
	}
	return name, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var r reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	// No place: {"error":"Unable to geocode"} with status 200.
	if r.Error != "" {
		return "", nil
	}
	return r.DisplayName, nil
}

// Nominatim API response types.

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}
