package services

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTimezoneOK(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"status":"OK","timeZoneId":"America/New_York"}`)
	}))
	defer srv.Close()

	svc := NewGoogleTimezoneService(srv.URL, "test-key")
	zone, err := svc.ResolveTimezone("40.7128,-74.0060")
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", zone)
	assert.Equal(t, "40.7128,-74.006", gotQuery.Get("location"))
	assert.Equal(t, "test-key", gotQuery.Get("key"))
	assert.NotEmpty(t, gotQuery.Get("timestamp"))
}

func TestResolveTimezoneZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ZERO_RESULTS"}`)
	}))
	defer srv.Close()

	svc := NewGoogleTimezoneService(srv.URL, "test-key")
	_, err := svc.ResolveTimezone("0,0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZeroResults))
}

func TestResolveTimezoneErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"REQUEST_DENIED"}`)
	}))
	defer srv.Close()

	svc := NewGoogleTimezoneService(srv.URL, "bad-key")
	_, err := svc.ResolveTimezone("40,50")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLookupFailed))
}

func TestResolveTimezoneNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	svc := NewGoogleTimezoneService(srv.URL, "test-key")
	_, err := svc.ResolveTimezone("40,50")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLookupFailed))
}

func TestResolveTimezoneInvalidInput(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"status":"OK","timeZoneId":"UTC"}`)
	}))
	defer srv.Close()

	svc := NewGoogleTimezoneService(srv.URL, "test-key")

	cases := []string{
		"",
		"   ",
		"40",
		"1,2,3",
		"abc,50",
		"40,xyz",
		"90.5,0",
		"-91,0",
		"0,180.1",
		"0,-181",
	}
	for _, coords := range cases {
		_, err := svc.ResolveTimezone(coords)
		require.Error(t, err, "coordinates %q", coords)
		assert.True(t, errors.Is(err, ErrInvalidCoordinates), "coordinates %q: %v", coords, err)
	}
	assert.Equal(t, 0, hits, "invalid coordinates must not reach the lookup service")
}

func TestConvertToUTC(t *testing.T) {
	svc := NewGoogleTimezoneService("http://unused", "")

	// EST, UTC-5
	got, err := svc.ConvertToUTC(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), "America/New_York")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC)), "got %v", got)

	// EDT, UTC-4
	got, err = svc.ConvertToUTC(time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC), "America/New_York")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 7, 15, 14, 0, 0, 0, time.UTC)), "got %v", got)

	got, err = svc.ConvertToUTC(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), "UTC")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)))
}

func TestConvertToUTCUnknownZone(t *testing.T) {
	svc := NewGoogleTimezoneService("http://unused", "")
	_, err := svc.ConvertToUTC(time.Now(), "Not/AZone")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTimezone))
}
