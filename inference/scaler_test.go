package inference

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFitScaler(t *testing.T) {
	samples := [][]float64{
		{100, 200, 300},
		{200, 400, 500},
		{300, 600, 700},
	}

	s, err := FitScaler(samples)
	if err != nil {
		t.Fatalf("FitScaler failed: %v", err)
	}

	mean := s.Mean()
	if math.Abs(mean[0]-200) > 1e-9 || math.Abs(mean[1]-400) > 1e-9 || math.Abs(mean[2]-500) > 1e-9 {
		t.Errorf("Mean = %v, want [200 400 500]", mean)
	}

	std := s.Std()
	if math.Abs(std[0]-100) > 1e-9 {
		t.Errorf("Std[0] = %v, want 100 (sample stddev)", std[0])
	}

	// A sample at the mean standardizes to zero.
	row := s.Transform([]float64{200, 400, 500})
	for i, v := range row {
		if math.Abs(v) > 1e-9 {
			t.Errorf("Transform(mean)[%d] = %v, want 0", i, v)
		}
	}

	// One sample stddev above the mean standardizes to one.
	row = s.Transform([]float64{300, 600, 700})
	for i, v := range row {
		if math.Abs(v-1.0) > 1e-9 {
			t.Errorf("Transform(mean+std)[%d] = %v, want 1", i, v)
		}
	}
}

func TestFitScalerEdgeCases(t *testing.T) {
	t.Run("empty samples", func(t *testing.T) {
		if _, err := FitScaler(nil); err == nil {
			t.Error("expected error for empty samples")
		}
	})

	t.Run("wrong feature count", func(t *testing.T) {
		if _, err := FitScaler([][]float64{{1, 2}}); err == nil {
			t.Error("expected error for wrong feature count")
		}
	})

	t.Run("constant channel gets unit std", func(t *testing.T) {
		s, err := FitScaler([][]float64{
			{5, 1, 2},
			{5, 3, 4},
		})
		if err != nil {
			t.Fatalf("FitScaler failed: %v", err)
		}
		row := s.Transform([]float64{5, 2, 3})
		if math.IsNaN(row[0]) || math.IsInf(row[0], 0) {
			t.Errorf("constant channel transform = %v, must be finite", row[0])
		}
	})
}

func TestNewScalerValidation(t *testing.T) {
	if _, err := NewScaler([]float64{1, 2}, []float64{1, 2, 3}); err == nil {
		t.Error("expected error for mismatched params")
	}
}

func TestFitScalerFromCSV(t *testing.T) {
	t.Run("fits from dataset columns", func(t *testing.T) {
		csvBody := "Timestamp,MQ135_Analog,MQ3_Analog,MiCS5524_Analog,Label\n" +
			"2025-01-01T00:00:00Z,100,200,300,1\n" +
			"2025-01-01T00:00:01Z,200,400,500,1\n" +
			"2025-01-01T00:00:02Z,300,600,700,0\n"
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(csvBody))
		}))
		defer srv.Close()

		s, err := FitScalerFromCSV(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("FitScalerFromCSV failed: %v", err)
		}
		mean := s.Mean()
		if math.Abs(mean[0]-200) > 1e-9 {
			t.Errorf("Mean[0] = %v, want 200", mean[0])
		}
	})

	t.Run("missing column", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("a,b,c\n1,2,3\n"))
		}))
		defer srv.Close()

		if _, err := FitScalerFromCSV(context.Background(), srv.URL); err == nil {
			t.Error("expected error for missing columns")
		}
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		if _, err := FitScalerFromCSV(context.Background(), srv.URL); err == nil {
			t.Error("expected error for 404")
		}
	})

	t.Run("skips malformed rows", func(t *testing.T) {
		csvBody := "MQ135_Analog,MQ3_Analog,MiCS5524_Analog\n" +
			"100,200,300\n" +
			"oops,200,300\n" +
			"300,600,700\n"
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(csvBody))
		}))
		defer srv.Close()

		s, err := FitScalerFromCSV(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("FitScalerFromCSV failed: %v", err)
		}
		if math.Abs(s.Mean()[0]-200) > 1e-9 {
			t.Errorf("Mean[0] = %v, want 200 after skipping bad row", s.Mean()[0])
		}
	})
}
