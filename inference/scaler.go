package inference

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes each gas channel to zero mean and unit variance,
// using parameters fitted on the training distribution.
type Scaler struct {
	mean []float64
	std  []float64
}

func NewScaler(mean, std []float64) (*Scaler, error) {
	if len(mean) != NumFeatures || len(std) != NumFeatures {
		return nil, fmt.Errorf("scaler params must have %d entries, got mean=%d std=%d",
			NumFeatures, len(mean), len(std))
	}
	s := &Scaler{
		mean: append([]float64(nil), mean...),
		std:  append([]float64(nil), std...),
	}
	for i, v := range s.std {
		if v == 0 {
			s.std[i] = 1.0
		}
	}
	return s, nil
}

// FitScaler computes per-channel mean and standard deviation over raw
// samples, each sample one row of NumFeatures values.
func FitScaler(samples [][]float64) (*Scaler, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples to fit scaler")
	}

	cols := make([][]float64, NumFeatures)
	for i, row := range samples {
		if len(row) != NumFeatures {
			return nil, fmt.Errorf("sample %d has %d features, want %d", i, len(row), NumFeatures)
		}
		for j, v := range row {
			cols[j] = append(cols[j], v)
		}
	}

	mean := make([]float64, NumFeatures)
	std := make([]float64, NumFeatures)
	for j, col := range cols {
		mean[j] = stat.Mean(col, nil)
		std[j] = stat.StdDev(col, nil)
	}

	return NewScaler(mean, std)
}

func (s *Scaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = (v - s.mean[i]) / s.std[i]
	}
	return out
}

func (s *Scaler) Mean() []float64 { return append([]float64(nil), s.mean...) }

func (s *Scaler) Std() []float64 { return append([]float64(nil), s.std...) }

// FitScalerFromCSV downloads the reference dataset and fits the scaler
// on its gas-channel columns. The CSV must carry the SensorNames headers.
func FitScalerFromCSV(ctx context.Context, dataURL string) (*Scaler, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dataURL, nil)
	if err != nil {
		return nil, err
	}

	httpc := &http.Client{Timeout: 30 * time.Second}
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dataset download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dataset download returned %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset header read failed: %w", err)
	}

	colIdx := make([]int, NumFeatures)
	for j, name := range SensorNames {
		colIdx[j] = -1
		for i, h := range header {
			if h == name {
				colIdx[j] = i
				break
			}
		}
		if colIdx[j] == -1 {
			return nil, fmt.Errorf("dataset missing column %q", name)
		}
	}

	var samples [][]float64
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		row := make([]float64, NumFeatures)
		ok := true
		for j, idx := range colIdx {
			v, err := strconv.ParseFloat(record[idx], 64)
			if err != nil {
				ok = false
				break
			}
			row[j] = v
		}
		if ok {
			samples = append(samples, row)
		}
	}

	return FitScaler(samples)
}
