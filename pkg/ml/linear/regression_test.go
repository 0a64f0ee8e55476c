package linear

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitLineExact(t *testing.T) {
	line := FitLine([]float64{0, 1, 2, 3}, []float64{1, 3, 5, 7})

	assert.InDelta(t, 2.0, line.Slope, 1e-12)
	assert.InDelta(t, 1.0, line.Intercept, 1e-12)
	assert.InDelta(t, 9.0, line.At(4), 1e-12)
}

func TestFitLineNoisy(t *testing.T) {
	line := FitLine([]float64{0, 1, 2}, []float64{1, 0, 2})

	assert.InDelta(t, 0.5, line.Slope, 1e-12)
	assert.InDelta(t, 0.5, line.Intercept, 1e-12)
}

func TestFitLineDegenerate(t *testing.T) {
	assert.Equal(t, Line{}, FitLine(nil, nil))
	assert.Equal(t, Line{Intercept: 4}, FitLine([]float64{2, 2}, []float64{3, 5}))
	assert.Equal(t, Line{Intercept: 7}, FitLine([]float64{0}, []float64{7}))
}
