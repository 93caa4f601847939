package fred

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"fredrecon/internal/fred/dataset"
)

const dateLayout = "2006-01-02"

// Client issues authenticated GET requests against the three FRED
// endpoints used by the pipeline. The catalog endpoints serve JSON
// (file_type=json); the observation endpoint serves XML.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// GetReleases fetches the full release catalog.
func (c *Client) GetReleases(ctx context.Context) ([]dataset.Release, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("file_type", "json")
	endpoint := c.baseURL + "/fred/releases?" + q.Encode()

	body, err := c.get(ctx, "/fred/releases", endpoint)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp releasesResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, &FetchError{Kind: Malformed, Endpoint: "/fred/releases", Err: fmt.Errorf("decode response: %w", err)}
	}

	releases := make([]dataset.Release, 0, len(resp.Releases))
	for _, r := range resp.Releases {
		releases = append(releases, dataset.Release{ID: r.ID, Name: r.Name})
	}
	return releases, nil
}

// GetReleaseSeries fetches the series belonging to one release. Each
// returned row carries the release id used in this call, regardless of
// what the payload itself says. A release with zero series yields an
// empty slice, not an error.
func (c *Client) GetReleaseSeries(ctx context.Context, releaseID int) ([]dataset.Series, error) {
	q := url.Values{}
	q.Set("release_id", fmt.Sprintf("%d", releaseID))
	q.Set("api_key", c.apiKey)
	q.Set("file_type", "json")
	endpoint := c.baseURL + "/fred/release/series?" + q.Encode()

	body, err := c.get(ctx, "/fred/release/series", endpoint)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp seriesResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, &FetchError{Kind: Malformed, Endpoint: "/fred/release/series", Err: fmt.Errorf("decode response: %w", err)}
	}

	series := make([]dataset.Series, 0, len(resp.Seriess))
	for _, s := range resp.Seriess {
		series = append(series, dataset.Series{
			ID:                      s.ID,
			ReleaseID:               releaseID,
			Title:                   s.Title,
			Frequency:               s.Frequency,
			SeasonalAdjustmentShort: s.SeasonalAdjustmentShort,
		})
	}
	return series, nil
}

// GetObservations fetches the full observation history of one series.
// Each returned row carries the series id used in this call. A series
// with an empty history yields an empty slice, not an error.
func (c *Client) GetObservations(ctx context.Context, seriesID string) ([]dataset.Observation, error) {
	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", c.apiKey)
	endpoint := c.baseURL + "/fred/series/observations?" + q.Encode()

	body, err := c.get(ctx, "/fred/series/observations", endpoint)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp observationsXML
	if err := xml.NewDecoder(body).Decode(&resp); err != nil {
		return nil, &FetchError{Kind: Malformed, Endpoint: "/fred/series/observations", Err: fmt.Errorf("decode response: %w", err)}
	}

	observations := make([]dataset.Observation, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		date, err := time.Parse(dateLayout, o.Date)
		if err != nil {
			return nil, &FetchError{Kind: Malformed, Endpoint: "/fred/series/observations", Err: fmt.Errorf("parse date %q: %w", o.Date, err)}
		}
		rtStart, err := time.Parse(dateLayout, o.RealtimeStart)
		if err != nil {
			return nil, &FetchError{Kind: Malformed, Endpoint: "/fred/series/observations", Err: fmt.Errorf("parse realtime_start %q: %w", o.RealtimeStart, err)}
		}
		rtEnd, err := time.Parse(dateLayout, o.RealtimeEnd)
		if err != nil {
			return nil, &FetchError{Kind: Malformed, Endpoint: "/fred/series/observations", Err: fmt.Errorf("parse realtime_end %q: %w", o.RealtimeEnd, err)}
		}
		observations = append(observations, dataset.Observation{
			SeriesID:      seriesID,
			Date:          date,
			Value:         o.Value,
			RealtimeStart: rtStart,
			RealtimeEnd:   rtEnd,
		})
	}
	return observations, nil
}

// get executes the request and classifies transport/status failures.
// The caller owns the returned body.
func (c *Client) get(ctx context.Context, name, endpoint string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Kind: Malformed, Endpoint: name, Err: fmt.Errorf("creating request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: Transient, Endpoint: name, Err: fmt.Errorf("making request: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp.Body, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &FetchError{Kind: Transient, RateLimited: true, Endpoint: name, Err: fmt.Errorf("fred error: %s", body)}
	case resp.StatusCode >= http.StatusInternalServerError:
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &FetchError{Kind: Transient, Endpoint: name, Err: fmt.Errorf("fred error: %s", body)}
	default:
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &FetchError{Kind: Malformed, Endpoint: name, Err: fmt.Errorf("fred error (status %d): %s", resp.StatusCode, body)}
	}
}
