package googlemaps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pet-reels/internal/platform/httpclient"
	"pet-reels/internal/ports/upstream"
)

const DefaultBaseURL = "https://maps.googleapis.com"

var (
	ErrGeocoderNotConfigured = errors.New("geocoder not configured")
	ErrGeocoderDenied        = errors.New("geocoder request denied")
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	http   *httpclient.Client
	apiKey string
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	hc, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc, apiKey: strings.TrimSpace(cfg.APIKey)}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode devuelve los candidatos en el orden del proveedor. Sin
// resultados es un slice vacío, no un error.
func (c *Client) Geocode(ctx context.Context, place string) ([]upstream.Point, error) {
	if !c.IsConfigured() {
		return nil, ErrGeocoderNotConfigured
	}

	var out geocodeResponse
	err := c.http.GetJSON(ctx, "/maps/api/geocode/json", url.Values{
		"address": {place},
		"key":     {c.apiKey},
	}, nil, &out)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		status := httpclient.StatusOf(err)
		if status == 0 || status == http.StatusTooManyRequests || status >= 500 {
			return nil, fmt.Errorf("%w: %v", upstream.ErrTransport, err)
		}
		return nil, fmt.Errorf("geocode: %w", err)
	}

	switch out.Status {
	case "OK":
	case "ZERO_RESULTS":
		return []upstream.Point{}, nil
	case "OVER_QUERY_LIMIT", "UNKNOWN_ERROR":
		return nil, fmt.Errorf("%w: geocode status=%s", upstream.ErrTransport, out.Status)
	case "REQUEST_DENIED", "OVER_DAILY_LIMIT":
		return nil, fmt.Errorf("%w: %s %s", ErrGeocoderDenied, out.Status, out.ErrorMessage)
	default:
		return nil, fmt.Errorf("geocode: status=%s %s", out.Status, out.ErrorMessage)
	}

	points := make([]upstream.Point, 0, len(out.Results))
	for _, r := range out.Results {
		points = append(points, upstream.Point{Lat: r.Geometry.Location.Lat, Lon: r.Geometry.Location.Lng})
	}
	return points, nil
}
