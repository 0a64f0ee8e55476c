package dashboard

import (
	"math"
	"testing"
	"time"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/analytics/health"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func series() models.Series {
	return models.Series{
		{Date: day0, HeartRate: 70, Systolic: 120, Diastolic: 80, BloodGlucose: 90, Weight: 70.0},
		{Date: day0.AddDate(0, 0, 1), HeartRate: 74, Systolic: 124, Diastolic: 82, BloodGlucose: 96, Weight: 70.2},
		{Date: day0.AddDate(0, 0, 2), HeartRate: 78, Systolic: 128, Diastolic: 84, BloodGlucose: math.NaN(), Weight: 70.4},
	}
}

func TestBuildCardsUseLatestMinusAverage(t *testing.T) {
	s := series()
	trends := health.ComputeTrends(s)

	overview := Build(s, trends)

	require.False(t, overview.Empty)
	require.Len(t, overview.Cards, 4)

	hr := overview.Cards[0]
	assert.Equal(t, "78 bpm", hr.Value)
	require.NotNil(t, hr.Delta)
	assert.InDelta(t, 78-trends[models.HeartRate].Average, *hr.Delta, 1e-9)
	assert.Equal(t, "4", hr.DeltaText)

	bp := overview.Cards[1]
	assert.Equal(t, "128/84", bp.Value)
	assert.InDelta(t, 4.0, *bp.Delta, 1e-9)

	glucose := overview.Cards[2]
	assert.Equal(t, "N/A", glucose.Value)
	assert.Nil(t, glucose.Delta)

	weight := overview.Cards[3]
	assert.Equal(t, "70.4 kg", weight.Value)
	assert.Equal(t, "0.2", weight.DeltaText)
}

func TestBuildCharts(t *testing.T) {
	s := series()

	overview := Build(s, health.ComputeTrends(s))

	require.Len(t, overview.Charts, 3)
	assert.Len(t, overview.Charts[1].Lines, 2)

	glucose := overview.Charts[2]
	require.Len(t, glucose.References, 1)
	assert.Equal(t, GlucoseReference, glucose.References[0].Value)
	assert.Equal(t, "Normal Range", glucose.References[0].Label)

	points := glucose.Lines[0].Points
	require.Len(t, points, 3)
	assert.Equal(t, 96.0, *points[1].Value)
	assert.Nil(t, points[2].Value, "missing readings leave gaps")
}

func TestBuildSingleSampleHasZeroDelta(t *testing.T) {
	s := series()[:1]

	overview := Build(s, health.ComputeTrends(s))

	require.NotNil(t, overview.Cards[0].Delta)
	assert.Equal(t, 0.0, *overview.Cards[0].Delta)
}

func TestBuildEmpty(t *testing.T) {
	overview := Build(nil, nil)

	assert.True(t, overview.Empty)
	assert.Equal(t, EmptyMessage, overview.Message)
	assert.Empty(t, overview.Cards)
}
