// Package health turns a vital-sign series into trend statistics, risk flags,
// recommendations and a readable insight report. The analysis functions are
// pure functions of their input series; Engine adds metrics and logging.
package health

import (
	"math"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/models"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/ml/linear"
)

// ComputeTrends fits a least-squares line of value against sample index for
// every channel with at least two readings. Channels with fewer readings are
// omitted, so empty and single-sample series both yield an empty map.
func ComputeTrends(series models.Series) models.Trends {
	trends := make(models.Trends)
	for _, ch := range models.Channels {
		xs, ys := readings(series, ch)
		if len(ys) < 2 {
			continue
		}
		trends[ch] = describe(xs, ys)
	}
	return trends
}

// readings returns the recorded values of a channel with their sample index.
// Missing (NaN) readings are skipped.
func readings(series models.Series, ch models.Channel) ([]float64, []float64) {
	xs := make([]float64, 0, len(series))
	ys := make([]float64, 0, len(series))
	for i, sample := range series {
		v := ch.Value(sample)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, v)
	}
	return xs, ys
}

func describe(xs, ys []float64) models.TrendStat {
	n := float64(len(ys))

	var sum float64
	minV, maxV := ys[0], ys[0]
	for _, y := range ys {
		sum += y
		minV = math.Min(minV, y)
		maxV = math.Max(maxV, y)
	}
	mean := sum / n

	var ssd float64
	for _, y := range ys {
		ssd += (y - mean) * (y - mean)
	}

	return models.TrendStat{
		Slope:   linear.FitLine(xs, ys).Slope,
		Current: ys[len(ys)-1],
		// summation rounding can push the mean of equal values past max
		Average: math.Min(math.Max(mean, minV), maxV),
		Min:     minV,
		Max:     maxV,
		Std:     math.Sqrt(ssd / n),
	}
}
