// Package geo reverse-geocodes login coordinates into display addresses.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/FieldInspect/internal/logging"
)

// Config configures a Client.
type Config struct {
	Enabled   bool
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client queries a Nominatim-compatible /reverse endpoint. A disabled
// client never touches the network.
type Client struct {
	cfg  Config
	http *http.Client
}

// New returns a Client for cfg.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

type reverseResponse struct {
	Address *struct {
		Road    string `json:"road"`
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}

// Reverse returns "country, city, road" for the point. It never fails:
// a response without an address yields "Unknown Location (lat, lng)" and
// any lookup error yields "GPS: lat, lng".
func (c *Client) Reverse(ctx context.Context, lat, lng float64) string {
	if !c.cfg.Enabled {
		return GPSLabel(lat, lng)
	}

	addr, err := c.lookup(ctx, lat, lng)
	if err != nil {
		logging.FromContext(ctx).Warn("reverse geocoding failed", "error", err)
		return GPSLabel(lat, lng)
	}
	return addr
}

func (c *Client) lookup(ctx context.Context, lat, lng float64) (string, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse request: status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode reverse response: %w", err)
	}
	if body.Address == nil {
		return UnknownLabel(lat, lng), nil
	}

	a := body.Address
	var parts []string
	for _, p := range []string{a.Country, firstNonEmpty(a.City, a.Town, a.Village, a.State), a.Road} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return UnknownLabel(lat, lng), nil
	}
	return strings.Join(parts, ", "), nil
}

// GPSLabel formats raw coordinates at five decimals.
func GPSLabel(lat, lng float64) string {
	return fmt.Sprintf("GPS: %.5f, %.5f", lat, lng)
}

// UnknownLabel formats an unresolved point at four decimals.
func UnknownLabel(lat, lng float64) string {
	return fmt.Sprintf("Unknown Location (%.4f, %.4f)", lat, lng)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
