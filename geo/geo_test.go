package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/HafizAtif90/ai-guardian/analysis"
)

func TestLocateParsesLonField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lat":52.52,"lon":13.405}`))
	}))
	defer server.Close()

	locator := NewIPLocator(server.URL, time.Second, nil)
	loc, err := locator.Locate(context.Background())
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if loc.Lat != 52.52 || loc.Lng != 13.405 {
		t.Errorf("Unexpected position: %+v", loc)
	}
}

func TestLocateCachesResult(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"lat":1,"lng":2}`))
	}))
	defer server.Close()

	locator := NewIPLocator(server.URL, time.Second, nil)
	for i := 0; i < 3; i++ {
		if _, err := locator.Locate(context.Background()); err != nil {
			t.Fatalf("Locate %d failed: %v", i, err)
		}
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected one upstream call, got %d", got)
	}
}

func TestLocateDenied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	locator := NewIPLocator(server.URL, time.Second, nil)
	_, err := locator.Locate(context.Background())

	var geoErr *Error
	if !errors.As(err, &geoErr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if geoErr.Kind != FailureDenied {
		t.Errorf("Expected denied, got %v", geoErr.Kind)
	}
	if geoErr.Error() != "Unable to get your location. Please allow location access." {
		t.Errorf("Unexpected message: %q", geoErr.Error())
	}
}

func TestLocateUnavailableOnBadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"city":"Berlin"}`))
	}))
	defer server.Close()

	locator := NewIPLocator(server.URL, time.Second, nil)
	_, err := locator.Locate(context.Background())

	var geoErr *Error
	if !errors.As(err, &geoErr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if geoErr.Kind != FailureUnavailable {
		t.Errorf("Expected unavailable, got %v", geoErr.Kind)
	}
	if geoErr.Error() != "Unable to get your location. Location information is unavailable." {
		t.Errorf("Unexpected message: %q", geoErr.Error())
	}
}

func TestLocateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	locator := NewIPLocator(server.URL, 50*time.Millisecond, nil)
	_, err := locator.Locate(context.Background())

	var geoErr *Error
	if !errors.As(err, &geoErr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if geoErr.Kind != FailureTimeout {
		t.Errorf("Expected timeout, got %v", geoErr.Kind)
	}
	if geoErr.Error() != "Unable to get your location. Location request timed out." {
		t.Errorf("Unexpected message: %q", geoErr.Error())
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		kind     FailureKind
		expected string
	}{
		{FailureDenied, "Unable to get your location. Please allow location access."},
		{FailureUnavailable, "Unable to get your location. Location information is unavailable."},
		{FailureTimeout, "Unable to get your location. Location request timed out."},
		{FailureUnknown, "Unable to get your location. An unknown error occurred."},
	}

	for _, test := range tests {
		err := &Error{Kind: test.kind}
		if err.Error() != test.expected {
			t.Errorf("Error(%v) = %q, expected %q", test.kind, err.Error(), test.expected)
		}
	}
}

func TestStaticLocator(t *testing.T) {
	locator := &StaticLocator{Position: analysis.Location{Lat: 40.7, Lng: -74.0}}
	loc, err := locator.Locate(context.Background())
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if loc.Lat != 40.7 || loc.Lng != -74.0 {
		t.Errorf("Unexpected position: %+v", loc)
	}
}
