package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bryanherdianto/penyelamat-pangan/inference"
	"github.com/bryanherdianto/penyelamat-pangan/telemetry"
)

func TestGetEnv(t *testing.T) {
	t.Run("returns fallback when unset", func(t *testing.T) {
		os.Unsetenv("TEST_COLLECTOR_VAR")
		got := getEnv("TEST_COLLECTOR_VAR", "default_val")
		if got != "default_val" {
			t.Errorf("getEnv() = %q, want %q", got, "default_val")
		}
	})

	t.Run("returns env value when set", func(t *testing.T) {
		os.Setenv("TEST_COLLECTOR_VAR", "custom")
		defer os.Unsetenv("TEST_COLLECTOR_VAR")
		got := getEnv("TEST_COLLECTOR_VAR", "default_val")
		if got != "custom" {
			t.Errorf("getEnv() = %q, want %q", got, "custom")
		}
	})
}

func TestGetEnvInt(t *testing.T) {
	os.Unsetenv("TEST_COLLECTOR_INT")
	if got := getEnvInt("TEST_COLLECTOR_INT", 1000); got != 1000 {
		t.Errorf("getEnvInt() = %d, want %d", got, 1000)
	}
	os.Setenv("TEST_COLLECTOR_INT", "250")
	defer os.Unsetenv("TEST_COLLECTOR_INT")
	if got := getEnvInt("TEST_COLLECTOR_INT", 1000); got != 250 {
		t.Errorf("getEnvInt() = %d, want %d", got, 250)
	}
	os.Setenv("TEST_COLLECTOR_INT", "junk")
	if got := getEnvInt("TEST_COLLECTOR_INT", 1000); got != 1000 {
		t.Errorf("getEnvInt() = %d, want fallback %d for junk value", got, 1000)
	}
}

func TestMQTTReadingJSON(t *testing.T) {
	t.Run("valid payload unmarshals correctly", func(t *testing.T) {
		raw := `{"temperatureC":9.4,"temperatureF":48.92,"humidity":59.5,"ppm_nh3":399,"ppm_co2":412,"ppm_c2h5oh":380,"ts":"2025-01-15T10:30:00Z"}`
		var r telemetry.Reading
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if r.TemperatureC != 9.4 {
			t.Errorf("TemperatureC = %v, want 9.4", r.TemperatureC)
		}
		if r.PPMCO2 != 412 {
			t.Errorf("PPMCO2 = %d, want 412", r.PPMCO2)
		}
		if r.TS.Year() != 2025 {
			t.Errorf("TS = %v, want 2025", r.TS)
		}
	})

	t.Run("missing ts detected as zero", func(t *testing.T) {
		raw := `{"temperatureC":21.0,"humidity":40.0}`
		var r telemetry.Reading
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if !r.TS.IsZero() {
			t.Errorf("TS should be zero when absent, got %v", r.TS)
		}
	})

	t.Run("invalid JSON returns error", func(t *testing.T) {
		var r telemetry.Reading
		if err := json.Unmarshal([]byte(`{not valid}`), &r); err == nil {
			t.Error("expected Unmarshal error for invalid JSON")
		}
	})
}

func TestForwardWindow(t *testing.T) {
	t.Run("posts full window to model service", func(t *testing.T) {
		var got predictRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/predict" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("decode request: %v", err)
			}
			w.Write([]byte(`{"status":"success"}`))
		}))
		defer srv.Close()

		col := &collector{
			buffer:   inference.NewSensorBuffer(inference.SequenceLength),
			modelURL: srv.URL,
			httpc:    &http.Client{Timeout: time.Second},
		}
		for i := 0; i < inference.SequenceLength; i++ {
			col.buffer.Add(float64(400+i), float64(380+i), float64(410+i))
		}

		if err := col.forwardWindow(context.Background()); err != nil {
			t.Fatalf("forwardWindow failed: %v", err)
		}

		if len(got.MQ135Values) != inference.SequenceLength {
			t.Errorf("mq135_values length = %d, want %d", len(got.MQ135Values), inference.SequenceLength)
		}
		if got.MQ135Values[0] != 400 || got.MQ3Values[0] != 380 || got.MiCS5524Values[0] != 410 {
			t.Errorf("channel values wrong: %v %v %v", got.MQ135Values[0], got.MQ3Values[0], got.MiCS5524Values[0])
		}
	})

	t.Run("incomplete window is an error", func(t *testing.T) {
		col := &collector{
			buffer:   inference.NewSensorBuffer(inference.SequenceLength),
			modelURL: "http://127.0.0.1:1",
			httpc:    &http.Client{Timeout: time.Second},
		}
		col.buffer.Add(1, 2, 3)

		if err := col.forwardWindow(context.Background()); err == nil {
			t.Error("expected error for incomplete window")
		}
	})

	t.Run("non-200 from model service is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"model not loaded"}`, http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		col := &collector{
			buffer:   inference.NewSensorBuffer(inference.SequenceLength),
			modelURL: srv.URL,
			httpc:    &http.Client{Timeout: time.Second},
		}
		for i := 0; i < inference.SequenceLength; i++ {
			col.buffer.Add(1, 2, 3)
		}

		if err := col.forwardWindow(context.Background()); err == nil {
			t.Error("expected error for 503 response")
		}
	})
}
