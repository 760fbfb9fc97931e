package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchAll(t *testing.T) {
	t.Run("decodes pin map", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/external/api/getAll" {
				t.Errorf("path = %q, want /external/api/getAll", r.URL.Path)
			}
			if got := r.URL.Query().Get("token"); got != "test-token" {
				t.Errorf("token = %q, want test-token", got)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"v0": 9.4, "v1": 48.92, "v2": 59.5, "v3": 399, "v4": 412, "v5": 380, "v6": 0}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "test-token")
		pins, err := client.FetchAll(context.Background())
		if err != nil {
			t.Fatalf("FetchAll failed: %v", err)
		}
		if pins["v0"] != 9.4 {
			t.Errorf("v0 = %v, want 9.4", pins["v0"])
		}
		if pins["v4"] != 412 {
			t.Errorf("v4 = %v, want 412", pins["v4"])
		}
	})

	t.Run("non-200 returns error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Invalid token.", http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "bad-token")
		if _, err := client.FetchAll(context.Background()); err == nil {
			t.Error("expected error for 401 response")
		}
	})

	t.Run("invalid JSON returns error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "test-token")
		if _, err := client.FetchAll(context.Background()); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})

	t.Run("context cancellation propagates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		client := NewClient(srv.URL, "test-token")
		if _, err := client.FetchAll(ctx); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

func TestTransform(t *testing.T) {
	ts := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

	t.Run("maps all pins", func(t *testing.T) {
		pins := map[string]float64{
			"v0": 9.4, "v1": 48.92, "v2": 59.5,
			"v3": 399, "v4": 412, "v5": 380, "v6": 0,
		}
		r := Transform(pins, ts)

		if r.TemperatureC != 9.4 {
			t.Errorf("TemperatureC = %v, want 9.4", r.TemperatureC)
		}
		if r.TemperatureF != 48.92 {
			t.Errorf("TemperatureF = %v, want 48.92", r.TemperatureF)
		}
		if r.Humidity != 59.5 {
			t.Errorf("Humidity = %v, want 59.5", r.Humidity)
		}
		if r.PPMNH3 != 399 {
			t.Errorf("PPMNH3 = %d, want 399", r.PPMNH3)
		}
		if r.PPMCO2 != 412 {
			t.Errorf("PPMCO2 = %d, want 412", r.PPMCO2)
		}
		if r.PPMC2H5OH != 380 {
			t.Errorf("PPMC2H5OH = %d, want 380", r.PPMC2H5OH)
		}
		if !r.TS.Equal(ts) {
			t.Errorf("TS = %v, want %v", r.TS, ts)
		}
	})

	t.Run("missing pins default to zero", func(t *testing.T) {
		r := Transform(map[string]float64{"v0": 21.5}, ts)
		if r.TemperatureC != 21.5 {
			t.Errorf("TemperatureC = %v, want 21.5", r.TemperatureC)
		}
		if r.Humidity != 0 || r.PPMCO2 != 0 {
			t.Errorf("missing pins should be zero, got humidity=%v co2=%d", r.Humidity, r.PPMCO2)
		}
	})

	t.Run("gas ppm truncated to int", func(t *testing.T) {
		r := Transform(map[string]float64{"v4": 412.7}, ts)
		if r.PPMCO2 != 412 {
			t.Errorf("PPMCO2 = %d, want 412", r.PPMCO2)
		}
	})

	t.Run("timestamp normalized to UTC", func(t *testing.T) {
		loc := time.FixedZone("UTC+7", 7*3600)
		local := time.Date(2025, 1, 15, 17, 30, 0, 0, loc)
		r := Transform(map[string]float64{}, local)
		if r.TS.Location() != time.UTC {
			t.Errorf("TS location = %v, want UTC", r.TS.Location())
		}
		if !r.TS.Equal(local) {
			t.Errorf("TS = %v, should equal %v", r.TS, local)
		}
	})
}

func TestRedactToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"empty", "", "not_set"},
		{"short", "abc", "a..."},
		{"long", "doDoL-_pRrwBVtx2zXCEyFXLbMOcQQ5E", "doDoL-_pRr..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactToken(tt.token); got != tt.want {
				t.Errorf("RedactToken(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}
