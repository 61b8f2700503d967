package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// modelVersion is bumped whenever the feature vector changes.
const modelVersion = 1

// varSmoothing is added to every variance, scaled by the largest feature
// variance, so constant features do not produce zero-width Gaussians.
const varSmoothing = 1e-9

// ErrNotTrained reports that no trained model is available yet.
var ErrNotTrained = fmt.Errorf("%w: classifier not trained", model.ErrDetectorUnavailable)

// Sample is one labelled feature vector.
type Sample struct {
	Type     model.ElementType `json:"type"`
	Features []float64         `json:"features"`
}

// classStats holds the fitted Gaussian parameters of one class.
type classStats struct {
	Type     model.ElementType `json:"type"`
	LogPrior float64           `json:"log_prior"`
	Mean     []float64         `json:"mean"`
	Var      []float64         `json:"var"`
	Count    int               `json:"count"`
}

// Trainable is a Gaussian naive Bayes classifier over Features vectors.
//
// The zero value is unfitted and classifies everything as unknown with zero
// confidence.
type Trainable struct {
	Version   int          `json:"version"`
	Features  []string     `json:"features"`
	Classes   []classStats `json:"classes"`
	TrainedAt time.Time    `json:"trained_at"`
}

// TrainReport summarises a Fit call.
type TrainReport struct {
	Samples  int                       `json:"samples"`
	Classes  map[model.ElementType]int `json:"classes"`
	Accuracy float64                   `json:"training_accuracy"`
}

// Fit estimates per-class feature means and variances from samples.
//
// Samples labelled unknown are skipped. At least one usable sample is required.
func Fit(samples []Sample) (*Trainable, *TrainReport, error) {
	byType := make(map[model.ElementType][][]float64)
	for _, s := range samples {
		if s.Type == model.TypeUnknown || s.Type == "" {
			continue
		}
		if len(s.Features) != FeatureCount {
			return nil, nil, fmt.Errorf("sample has %d features, want %d", len(s.Features), FeatureCount)
		}
		byType[s.Type] = append(byType[s.Type], s.Features)
	}
	if len(byType) == 0 {
		return nil, nil, errors.New("training data is empty")
	}

	total := 0
	for _, rows := range byType {
		total += len(rows)
	}

	types := make([]model.ElementType, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	m := &Trainable{Version: modelVersion, Features: FeatureNames, TrainedAt: time.Now().UTC()}
	col := make([]float64, 0, total)
	var maxVar float64
	for _, t := range types {
		rows := byType[t]
		cs := classStats{
			Type:     t,
			LogPrior: math.Log(float64(len(rows)) / float64(total)),
			Mean:     make([]float64, FeatureCount),
			Var:      make([]float64, FeatureCount),
			Count:    len(rows),
		}
		for f := 0; f < FeatureCount; f++ {
			col = col[:0]
			for _, r := range rows {
				col = append(col, r[f])
			}
			mean, variance := stat.PopMeanVariance(col, nil)
			cs.Mean[f] = mean
			cs.Var[f] = variance
		}
		maxVar = math.Max(maxVar, floats.Max(cs.Var))
		m.Classes = append(m.Classes, cs)
	}

	eps := varSmoothing * math.Max(maxVar, 1)
	for i := range m.Classes {
		floats.AddConst(eps, m.Classes[i].Var)
	}

	report := &TrainReport{Samples: total, Classes: make(map[model.ElementType]int)}
	correct := 0
	for _, t := range types {
		report.Classes[t] = len(byType[t])
		for _, r := range byType[t] {
			if got, _ := m.Predict(r); got == t {
				correct++
			}
		}
	}
	report.Accuracy = float64(correct) / float64(total)
	return m, report, nil
}

// Fitted reports whether the model has at least one class.
func (m *Trainable) Fitted() bool {
	return m != nil && len(m.Classes) > 0
}

// Predict returns the most likely type for a feature vector and its posterior
// probability.
func (m *Trainable) Predict(x []float64) (model.ElementType, float64) {
	if !m.Fitted() || len(x) != FeatureCount {
		return model.TypeUnknown, 0
	}

	logp := make([]float64, len(m.Classes))
	for i, c := range m.Classes {
		lp := c.LogPrior
		for f, v := range x {
			d := v - c.Mean[f]
			lp -= 0.5*math.Log(2*math.Pi*c.Var[f]) + d*d/(2*c.Var[f])
		}
		logp[i] = lp
	}

	best := floats.MaxIdx(logp)
	norm := floats.LogSumExp(logp)
	return m.Classes[best].Type, math.Exp(logp[best] - norm)
}

// Classify implements Classifier.
func (m *Trainable) Classify(r *Region) (model.ElementType, float64) {
	return m.Predict(Features(r))
}

// Save writes the model as indented JSON, creating parent directories.
func (m *Trainable) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	return nil
}

// LoadTrainable reads a model written by Save.
//
// A missing file returns ErrNotTrained. A model built for a different feature
// vector is rejected.
func LoadTrainable(path string) (*Trainable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotTrained
		}
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	var m Trainable
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	if m.Version != modelVersion || len(m.Features) != FeatureCount {
		return nil, fmt.Errorf("%w: model version %d with %d features is incompatible",
			model.ErrDetectorUnavailable, m.Version, len(m.Features))
	}
	for _, c := range m.Classes {
		if len(c.Mean) != FeatureCount || len(c.Var) != FeatureCount {
			return nil, fmt.Errorf("%w: class %s has malformed parameters", model.ErrDetectorUnavailable, c.Type)
		}
	}
	return &m, nil
}
