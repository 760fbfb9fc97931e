// Package telemetry talks to the Blynk-style cloud endpoint that the
// sensor hardware reports into. The endpoint exposes every virtual pin
// in one JSON object: {"v0": 9.4, "v1": 48.9, "v2": 59.5, "v3": 399, ...}.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Pin assignments on the device firmware.
const (
	pinTemperatureC = "v0"
	pinTemperatureF = "v1"
	pinHumidity     = "v2"
	pinNH3          = "v3"
	pinCO2          = "v4"
	pinC2H5OH       = "v5"
)

// Reading is one transformed sample ready for storage.
type Reading struct {
	TemperatureC float64   `json:"temperatureC"`
	TemperatureF float64   `json:"temperatureF"`
	Humidity     float64   `json:"humidity"`
	PPMNH3       int       `json:"ppm_nh3"`
	PPMCO2       int       `json:"ppm_co2"`
	PPMC2H5OH    int       `json:"ppm_c2h5oh"`
	TS           time.Time `json:"ts"`
}

type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
}

// FetchAll retrieves the current value of every virtual pin.
func (c *Client) FetchAll(ctx context.Context) (map[string]float64, error) {
	u := fmt.Sprintf("%s/external/api/getAll?token=%s", c.baseURL, url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telemetry fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("telemetry endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var pins map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&pins); err != nil {
		return nil, fmt.Errorf("telemetry decode failed: %w", err)
	}

	return pins, nil
}

// Transform maps raw pin values onto a Reading. Missing pins default to
// zero, matching what the firmware reports before its sensors warm up.
func Transform(pins map[string]float64, ts time.Time) Reading {
	return Reading{
		TemperatureC: pins[pinTemperatureC],
		TemperatureF: pins[pinTemperatureF],
		Humidity:     pins[pinHumidity],
		PPMNH3:       int(pins[pinNH3]),
		PPMCO2:       int(pins[pinCO2]),
		PPMC2H5OH:    int(pins[pinC2H5OH]),
		TS:           ts.UTC(),
	}
}

// RedactToken shortens a token for log lines.
func RedactToken(token string) string {
	if token == "" {
		return "not_set"
	}
	if len(token) <= 10 {
		return token[:1] + "..."
	}
	return token[:10] + "..."
}
