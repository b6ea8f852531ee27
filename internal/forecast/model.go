package forecast

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/evetools/marketpulse/internal/model"
)

// Model is a fitted per-pair linear regression. Weights holds the intercept
// followed by one coefficient per feature column.
type Model struct {
	TypeID    int64     `msgpack:"type_id"`
	RegionID  int64     `msgpack:"region_id"`
	Weights   []float64 `msgpack:"weights"`
	Samples   int       `msgpack:"samples"`
	TrainedAt time.Time `msgpack:"trained_at"`

	// Confidence is the R² on the held-out chronological tail of the
	// training series, clamped to [0, 1].
	Confidence float64 `msgpack:"confidence"`
}

// Predict evaluates the regression for one feature vector.
func (m *Model) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Weights)-1 {
		return 0, fmt.Errorf("feature width %d, want %d", len(features), len(m.Weights)-1)
	}
	y := m.Weights[0]
	for i, x := range features {
		y += m.Weights[i+1] * x
	}
	return y, nil
}

// TrainConfig holds the training knobs shared by Trainer and Train.
type TrainConfig struct {
	MinHistoryDays int     // series shorter than this are not trained
	TrainSplit     float64 // chronological fraction used for fitting
}

// Train fits a model for one pair's history. The series is split
// chronologically: the leading fraction fits the weights, the trailing
// remainder scores them. Training never shuffles, so the held-out score
// reflects genuine forward prediction.
func Train(typeID, regionID int64, recs []model.HistoryRecord, cfg TrainConfig, now time.Time) (*Model, error) {
	rows := BuildFeatures(recs, cfg.MinHistoryDays, ModeTraining)
	if len(rows) < numFeatures+2 {
		return nil, fmt.Errorf("pair %d/%d: %d usable rows, need %d", typeID, regionID, len(rows), numFeatures+2)
	}

	split := int(float64(len(rows)) * cfg.TrainSplit)
	if split < numFeatures+1 {
		split = numFeatures + 1
	}
	if split >= len(rows) {
		split = len(rows) - 1
	}
	train, test := rows[:split], rows[split:]

	weights, err := fit(train)
	if err != nil {
		return nil, fmt.Errorf("pair %d/%d: %w", typeID, regionID, err)
	}

	m := &Model{
		TypeID:    typeID,
		RegionID:  regionID,
		Weights:   weights,
		Samples:   len(train),
		TrainedAt: now.UTC(),
	}
	m.Confidence = rSquared(m, test)
	return m, nil
}

// ridge keeps the normal equations solvable when feature columns are
// collinear, which happens routinely: a pair with flat volume or a constant
// trend produces a rank-deficient design.
const ridge = 1e-6

// fit solves ridge-regularized least squares via the normal equations.
func fit(rows []FeatureRow) ([]float64, error) {
	n := len(rows)
	p := numFeatures + 1
	a := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i, row := range rows {
		a.Set(i, 0, 1)
		for j, x := range row.Vector() {
			a.Set(i, j+1, x)
		}
		y.SetVec(i, row.Target)
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)
	for i := 0; i < p; i++ {
		ata.Set(i, i, ata.At(i, i)+ridge)
	}
	var aty mat.VecDense
	aty.MulVec(a.T(), y)

	var beta mat.VecDense
	if err := beta.SolveVec(&ata, &aty); err != nil {
		// An ill-conditioned solve still yields a usable estimate; the NaN
		// check below rejects the truly degenerate ones.
		if _, ok := err.(mat.Condition); !ok {
			return nil, fmt.Errorf("solve least squares: %w", err)
		}
	}

	weights := make([]float64, p)
	for i := range weights {
		w := beta.AtVec(i)
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("degenerate fit, weight %d is %v", i, w)
		}
		weights[i] = w
	}
	return weights, nil
}

// rSquared scores the model on held-out rows, clamped to [0, 1]. A constant
// target (zero variance) scores 0.
func rSquared(m *Model, rows []FeatureRow) float64 {
	if len(rows) == 0 {
		return 0
	}

	var meanY float64
	for _, row := range rows {
		meanY += row.Target
	}
	meanY /= float64(len(rows))

	var ssRes, ssTot float64
	for _, row := range rows {
		pred, err := m.Predict(row.Vector())
		if err != nil {
			return 0
		}
		ssRes += (row.Target - pred) * (row.Target - pred)
		ssTot += (row.Target - meanY) * (row.Target - meanY)
	}
	if ssTot == 0 {
		return 0
	}

	r2 := 1 - ssRes/ssTot
	if math.IsNaN(r2) || r2 < 0 {
		return 0
	}
	if r2 > 1 {
		return 1
	}
	return r2
}
