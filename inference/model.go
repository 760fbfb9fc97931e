// Package inference runs the food freshness model: a dual-head network
// distilled to standardized gas-sensor windows. Head one is a spoilage
// classifier (probability that the food is still fresh), head two
// regresses RSL, the remaining shelf life in hours.
package inference

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
)

const (
	// SequenceLength is the number of samples per inference window.
	SequenceLength = 10
	// NumFeatures is the number of gas channels: MQ135, MQ3, MiCS5524.
	NumFeatures = 3

	// ClassificationThreshold splits fresh from bad on the sigmoid output.
	ClassificationThreshold = 0.5
)

// SensorNames lists the gas channels in model input order.
var SensorNames = []string{"MQ135_Analog", "MQ3_Analog", "MiCS5524_Analog"}

// Result holds both model outputs plus derived fields.
type Result struct {
	ClassificationProb  float64 `json:"classification_prob"`
	ClassificationLabel int     `json:"classification_label"`
	ClassificationText  string  `json:"classification_text"`
	RSLHours            float64 `json:"rsl_hours"`
	Confidence          float64 `json:"confidence"`
}

// Artifact is the on-disk model format: scaler parameters plus the two
// linear heads over the flattened (SequenceLength*NumFeatures) input.
type Artifact struct {
	Version    string        `json:"version"`
	Scaler     *ScalerParams `json:"scaler,omitempty"`
	Classifier HeadParams    `json:"classifier"`
	RSL        HeadParams    `json:"rsl"`
}

type ScalerParams struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

type HeadParams struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

type Model struct {
	version string
	path    string
	scaler  *Scaler
	clsW    *mat.VecDense
	clsB    float64
	rslW    *mat.VecDense
	rslB    float64
}

// Load reads a model artifact from disk.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}

	m, err := FromArtifact(art)
	if err != nil {
		return nil, err
	}
	m.path = path
	return m, nil
}

// FromArtifact builds a runnable model from parsed parameters.
func FromArtifact(art Artifact) (*Model, error) {
	n := SequenceLength * NumFeatures
	if len(art.Classifier.Weights) != n {
		return nil, fmt.Errorf("classifier head has %d weights, want %d", len(art.Classifier.Weights), n)
	}
	if len(art.RSL.Weights) != n {
		return nil, fmt.Errorf("rsl head has %d weights, want %d", len(art.RSL.Weights), n)
	}

	m := &Model{
		version: art.Version,
		clsW:    mat.NewVecDense(n, art.Classifier.Weights),
		clsB:    art.Classifier.Bias,
		rslW:    mat.NewVecDense(n, art.RSL.Weights),
		rslB:    art.RSL.Bias,
	}

	if art.Scaler != nil {
		s, err := NewScaler(art.Scaler.Mean, art.Scaler.Std)
		if err != nil {
			return nil, err
		}
		m.scaler = s
	}

	return m, nil
}

// Default returns the built-in baseline weights: uniform negative weight
// on every standardized gas sample, so rising gas levels push the
// classifier toward "Bad" and shorten the RSL estimate.
func Default() *Model {
	n := SequenceLength * NumFeatures

	clsW := make([]float64, n)
	rslW := make([]float64, n)
	for i := range clsW {
		clsW[i] = -0.25
		rslW[i] = -3.0
	}

	m, _ := FromArtifact(Artifact{
		Version:    "baseline-v1",
		Classifier: HeadParams{Weights: clsW, Bias: 1.0},
		RSL:        HeadParams{Weights: rslW, Bias: 96.0},
	})
	return m
}

func (m *Model) Version() string { return m.version }

func (m *Model) Path() string { return m.path }

// Scaler returns the fitted input scaler, or nil when none is set.
func (m *Model) Scaler() *Scaler { return m.scaler }

// WithScaler returns a copy of the model carrying the given scaler.
// Models are treated as immutable once shared, so a scaler fitted
// after load is installed by swapping the copy in.
func (m *Model) WithScaler(s *Scaler) *Model {
	cp := *m
	cp.scaler = s
	return &cp
}

// Predict runs both heads over a sequence of raw readings. Each row is
// one sample of the NumFeatures gas channels, oldest first. When
// applyScaling is set the fitted scaler standardizes the input first.
func (m *Model) Predict(sequence [][]float64, applyScaling bool) (Result, error) {
	if len(sequence) != SequenceLength {
		return Result{}, fmt.Errorf("expected %d samples, got %d", SequenceLength, len(sequence))
	}

	flat := make([]float64, 0, SequenceLength*NumFeatures)
	for i, row := range sequence {
		if len(row) != NumFeatures {
			return Result{}, fmt.Errorf("sample %d has %d features, want %d", i, len(row), NumFeatures)
		}
		if applyScaling {
			if m.scaler == nil {
				return Result{}, fmt.Errorf("scaler not fitted")
			}
			row = m.scaler.Transform(row)
		}
		flat = append(flat, row...)
	}

	x := mat.NewVecDense(len(flat), flat)

	prob := sigmoid(mat.Dot(m.clsW, x) + m.clsB)
	rsl := math.Max(0.0, mat.Dot(m.rslW, x)+m.rslB)

	label := 0
	text := "Bad"
	confidence := 1.0 - prob
	if prob > ClassificationThreshold {
		label = 1
		text = "Fresh"
		confidence = prob
	}

	return Result{
		ClassificationProb:  prob,
		ClassificationLabel: label,
		ClassificationText:  text,
		RSLHours:            rsl,
		Confidence:          confidence * 100.0,
	}, nil
}

// PredictFromSensors predicts from per-channel reading lists, each of
// length SequenceLength, raw and unscaled.
func (m *Model) PredictFromSensors(mq135, mq3, mics5524 []float64) (Result, error) {
	if len(mq135) != SequenceLength || len(mq3) != SequenceLength || len(mics5524) != SequenceLength {
		return Result{}, fmt.Errorf("all sensor lists must have length %d", SequenceLength)
	}

	sequence := make([][]float64, SequenceLength)
	for i := 0; i < SequenceLength; i++ {
		sequence[i] = []float64{mq135[i], mq3[i], mics5524[i]}
	}

	return m.Predict(sequence, true)
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Info describes the loaded model for the /model/info endpoint.
type Info struct {
	ModelPath      string   `json:"model_path"`
	ModelVersion   string   `json:"model_version"`
	SequenceLength int      `json:"sequence_length"`
	NumFeatures    int      `json:"num_features"`
	Sensors        []string `json:"sensors"`
	Outputs        []string `json:"outputs"`
	ScalerFitted   bool     `json:"scaler_fitted"`
}

func (m *Model) Info() Info {
	return Info{
		ModelPath:      m.path,
		ModelVersion:   m.version,
		SequenceLength: SequenceLength,
		NumFeatures:    NumFeatures,
		Sensors:        []string{"MQ135", "MQ3", "MiCS5524"},
		Outputs:        []string{"classification", "remaining_shelf_life"},
		ScalerFitted:   m.scaler != nil,
	}
}
