package fred

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// go test -v --run TestNewClientAppliesTimeout
func TestNewClientAppliesTimeout(t *testing.T) {
	client := NewClient("http://localhost", "test-key", 5*time.Second)
	if got := client.HTTPClient().Timeout; got != 5*time.Second {
		t.Errorf("expected 5s timeout on the underlying client, got %v", got)
	}
}

// go test -v --run TestGetReleases
func TestGetReleases(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fred/releases" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("file_type") != "json" {
			t.Error("expected file_type=json on catalog endpoint")
		}
		if r.URL.Query().Get("api_key") == "" {
			t.Error("expected api_key query parameter")
		}
		w.Write([]byte(`{"realtime_start":"2026-01-01","releases":[
			{"id":21,"name":"H.6 Money Stock Measures"},
			{"id":53,"name":"Gross Domestic Product"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", 5*time.Second)

	releases, err := client.GetReleases(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(releases) != 2 {
		t.Fatalf("expected 2 releases, got %d", len(releases))
	}
	if releases[0].ID != 21 || releases[0].Name != "H.6 Money Stock Measures" {
		t.Errorf("unexpected first release: %+v", releases[0])
	}
}

// go test -v --run TestGetReleaseSeriesStampsReleaseID
func TestGetReleaseSeriesStampsReleaseID(t *testing.T) {
	// The payload claims release 999; the id used in the call must win.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("release_id"); got != "21" {
			t.Errorf("expected release_id=21, got %s", got)
		}
		w.Write([]byte(`{"seriess":[
			{"id":"M1NS","release_id":999,"title":"M1 Money Stock","frequency":"Monthly","seasonal_adjustment_short":"NSA"},
			{"id":"CURRNS","release_id":999,"title":"Currency Component of M1","frequency":"Monthly","seasonal_adjustment_short":"NSA"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", 5*time.Second)

	series, err := client.GetReleaseSeries(context.Background(), 21)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(series))
	}
	for _, s := range series {
		if s.ReleaseID != 21 {
			t.Errorf("series %s: release id %d, want stamped 21", s.ID, s.ReleaseID)
		}
	}
	if series[0].SeasonalAdjustmentShort != "NSA" {
		t.Errorf("unexpected seasonal adjustment: %s", series[0].SeasonalAdjustmentShort)
	}
}

// go test -v --run TestGetObservationsXML
func TestGetObservationsXML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("series_id"); got != "M1NS" {
			t.Errorf("expected series_id=M1NS, got %s", got)
		}
		w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<observations realtime_start="2026-08-01" realtime_end="2026-08-01">
  <observation realtime_start="2026-08-01" realtime_end="2026-08-01" date="2021-01-01" value="6742.7"/>
  <observation realtime_start="2026-08-01" realtime_end="2026-08-01" date="2021-02-01" value="."/>
</observations>`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", 5*time.Second)

	obs, err := client.GetObservations(context.Background(), "M1NS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(obs) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(obs))
	}
	if obs[0].SeriesID != "M1NS" {
		t.Errorf("series id not stamped: %+v", obs[0])
	}
	if obs[0].Date.Format("2006-01-02") != "2021-01-01" {
		t.Errorf("unexpected date: %v", obs[0].Date)
	}
	if obs[0].Value != "6742.7" {
		t.Errorf("unexpected value: %s", obs[0].Value)
	}
	// Missing-data marker passes through untouched; coercion is the
	// reconciler's call, not the client's.
	if obs[1].Value != "." {
		t.Errorf("expected placeholder value preserved, got %q", obs[1].Value)
	}
}

// go test -v --run TestEmptyCollectionsAreNotErrors
func TestEmptyCollectionsAreNotErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fred/release/series":
			w.Write([]byte(`{"seriess":[]}`))
		case "/fred/series/observations":
			w.Write([]byte(`<observations></observations>`))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", 5*time.Second)

	series, err := client.GetReleaseSeries(context.Background(), 7)
	if err != nil {
		t.Fatalf("empty series list should not error: %v", err)
	}
	if len(series) != 0 {
		t.Errorf("expected 0 series, got %d", len(series))
	}

	obs, err := client.GetObservations(context.Background(), "EMPTY")
	if err != nil {
		t.Fatalf("empty observation history should not error: %v", err)
	}
	if len(obs) != 0 {
		t.Errorf("expected 0 observations, got %d", len(obs))
	}
}

// go test -v --run TestErrorClassification
func TestErrorClassification(t *testing.T) {
	var status int
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", 5*time.Second)
	ctx := context.Background()

	status, body = http.StatusTooManyRequests, "Too Many Requests"
	_, err := client.GetReleases(ctx)
	if !IsTransient(err) || !IsRateLimited(err) {
		t.Errorf("429 should classify as rate-limited transient, got %v", err)
	}

	status, body = http.StatusInternalServerError, "oops"
	_, err = client.GetReleases(ctx)
	if !IsTransient(err) || IsRateLimited(err) {
		t.Errorf("500 should classify as transient, got %v", err)
	}

	status, body = http.StatusOK, "this is not json"
	_, err = client.GetReleases(ctx)
	if !IsMalformed(err) {
		t.Errorf("garbage body should classify as malformed, got %v", err)
	}

	status, body = http.StatusBadRequest, `{"error_message":"Bad Request"}`
	_, err = client.GetReleases(ctx)
	if !IsMalformed(err) {
		t.Errorf("400 should classify as malformed (no retry), got %v", err)
	}
}
