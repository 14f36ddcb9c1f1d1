// Package scaler fits and applies the per-feature standardization that travels with the model
package scaler

import "math"

import "github.com/montanaflynn/stats"
import "github.com/pkg/errors"

// ErrEmpty is returned when fitting an empty matrix
var ErrEmpty = errors.New("no rows to fit")

// zeroScale is the largest standard deviation treated as a constant feature
const zeroScale = 10 * 2.220446049250313e-16

// Params are the normalization parameters of one training run. They are never mutated
// after Fit.
type Params struct {
	FeatureNames []string
	Mean         []float64
	Scale        []float64
}

// Fit computes the population mean and standard deviation of every column of rows.
// A constant column gets scale 1.0 so it transforms to zero instead of dividing by zero.
func Fit(rows [][]float64, names []string) (*Params, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	width := len(names)
	columns := make([]stats.Float64Data, width)
	for i := range columns {
		columns[i] = make(stats.Float64Data, len(rows))
	}
	for n, row := range rows {
		if len(row) != width {
			return nil, errors.Errorf("row %d has %d features, want %d", n, len(row), width)
		}
		for i, v := range row {
			columns[i][n] = v
		}
	}

	p := &Params{
		FeatureNames: append([]string(nil), names...),
		Mean:         make([]float64, width),
		Scale:        make([]float64, width),
	}
	for i, col := range columns {
		mean, err := stats.Mean(col)
		if err != nil {
			return nil, errors.Wrapf(err, "mean of %s", names[i])
		}
		std, err := stats.StandardDeviationPopulation(col)
		if err != nil {
			return nil, errors.Wrapf(err, "standard deviation of %s", names[i])
		}
		if math.IsNaN(mean) || math.IsInf(mean, 0) || math.IsNaN(std) || math.IsInf(std, 0) {
			return nil, errors.Errorf("feature %s is not finite", names[i])
		}
		if std < zeroScale || constant(col) {
			std = 1
		}
		p.Mean[i] = mean
		p.Scale[i] = std
	}
	return p, nil
}

func constant(col []float64) bool {
	for _, v := range col[1:] {
		if v != col[0] {
			return false
		}
	}
	return true
}

// Len returns the number of features
func (p *Params) Len() int {
	return len(p.Mean)
}

// Transform standardizes row into a new slice
func (p *Params) Transform(row []float64) []float64 {
	o := make([]float64, len(row))
	for i, v := range row {
		o[i] = (v - p.Mean[i]) / p.Scale[i]
	}
	return o
}

// TransformAll standardizes every row of rows
func (p *Params) TransformAll(rows [][]float64) [][]float64 {
	o := make([][]float64, len(rows))
	for i, row := range rows {
		o[i] = p.Transform(row)
	}
	return o
}

// Validate checks that the parameters are consistent with the feature schema names
func (p *Params) Validate(names []string) error {
	if len(p.Mean) != len(names) || len(p.Scale) != len(names) || len(p.FeatureNames) != len(names) {
		return errors.Errorf("parameters have %d names, %d means, %d scales, want %d",
			len(p.FeatureNames), len(p.Mean), len(p.Scale), len(names))
	}
	for i, n := range names {
		if p.FeatureNames[i] != n {
			return errors.Errorf("feature %d is %q, want %q", i, p.FeatureNames[i], n)
		}
		if p.Scale[i] == 0 {
			return errors.Errorf("feature %s has zero scale", n)
		}
	}
	return nil
}
