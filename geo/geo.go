// Package geo resolves the user's current position for safe-route requests.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/HafizAtif90/ai-guardian/analysis"
)

// DefaultTimeout bounds how long a location request may take.
const DefaultTimeout = 10 * time.Second

// FailureKind classifies why a location request failed.
type FailureKind int

const (
	FailureDenied FailureKind = iota
	FailureUnavailable
	FailureTimeout
	FailureUnknown
)

// Error is a failed location request. Its message is display-ready.
type Error struct {
	Kind FailureKind
	Err  error
}

func (e *Error) Error() string {
	return "Unable to get your location. " + e.reason()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) reason() string {
	switch e.Kind {
	case FailureDenied:
		return "Please allow location access."
	case FailureUnavailable:
		return "Location information is unavailable."
	case FailureTimeout:
		return "Location request timed out."
	}
	return "An unknown error occurred."
}

// Locator resolves the current position. Implementations must respect the
// context deadline and classify failures through *Error.
type Locator interface {
	Locate(ctx context.Context) (analysis.Location, error)
}

// IPLocator resolves a coarse position from an IP geolocation service that
// answers with {"lat": ..., "lon"|"lng": ...}. Results are cached briefly so
// repeated route requests do not hammer the service.
type IPLocator struct {
	url        string
	httpClient *http.Client
	cache      *cache.Cache
	logger     *zap.Logger
}

const cacheKey = "position"

// NewIPLocator creates a locator against the given lookup URL.
func NewIPLocator(url string, timeout time.Duration, logger *zap.Logger) *IPLocator {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IPLocator{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache.New(5*time.Minute, 10*time.Minute),
		logger:     logger,
	}
}

// Locate returns the current position, serving from cache when fresh.
func (l *IPLocator) Locate(ctx context.Context) (analysis.Location, error) {
	if cached, ok := l.cache.Get(cacheKey); ok {
		return cached.(analysis.Location), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return analysis.Location{}, &Error{Kind: FailureUnknown, Err: err}
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		l.logger.Warn("location lookup failed", zap.Error(err))
		return analysis.Location{}, &Error{Kind: classifyTransport(ctx, err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized {
		return analysis.Location{}, &Error{Kind: FailureDenied}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		l.logger.Warn("location lookup rejected", zap.Int("status", resp.StatusCode))
		return analysis.Location{}, &Error{Kind: FailureUnavailable}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return analysis.Location{}, &Error{Kind: FailureUnavailable, Err: err}
	}

	var payload struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
		Lng *float64 `json:"lng"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return analysis.Location{}, &Error{Kind: FailureUnavailable, Err: err}
	}

	lng := payload.Lng
	if lng == nil {
		lng = payload.Lon
	}
	if payload.Lat == nil || lng == nil {
		return analysis.Location{}, &Error{Kind: FailureUnavailable, Err: fmt.Errorf("lookup response missing coordinates")}
	}

	loc := analysis.Location{Lat: *payload.Lat, Lng: *lng}
	l.cache.Set(cacheKey, loc, cache.DefaultExpiration)
	return loc, nil
}

func classifyTransport(ctx context.Context, err error) FailureKind {
	if ctx.Err() == context.DeadlineExceeded {
		return FailureTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return FailureTimeout
	}
	return FailureUnavailable
}

// StaticLocator always returns a fixed position. It backs the configured
// manual-coordinates mode.
type StaticLocator struct {
	Position analysis.Location
}

func (s *StaticLocator) Locate(ctx context.Context) (analysis.Location, error) {
	return s.Position, nil
}
