// Package linear fits straight lines to sampled data.
package linear

// Line is y = Intercept + Slope*x.
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

func (l Line) At(x float64) float64 {
	return l.Intercept + l.Slope*x
}

// FitLine returns the ordinary least-squares line through (xs[i], ys[i]).
// When xs has no spread the line is flat through the mean of ys. Empty input
// gives the zero Line.
func FitLine(xs, ys []float64) Line {
	n := len(ys)
	if len(xs) < n {
		n = len(xs)
	}
	if n == 0 {
		return Line{}
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var sxy, sxx float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		sxy += dx * (ys[i] - meanY)
		sxx += dx * dx
	}
	if sxx == 0 {
		return Line{Intercept: meanY}
	}

	slope := sxy / sxx
	return Line{Slope: slope, Intercept: meanY - slope*meanX}
}
