package vitals

import (
	"math"
	"testing"
	"time"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/apperr"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boundNoise always draws the lower (or upper) bound.
type boundNoise struct {
	upper bool
}

func (n boundNoise) UniformInt(a, b int) int {
	if n.upper {
		return b
	}
	return a
}

func (n boundNoise) UniformFloat(a, b float64) float64 {
	if n.upper {
		return b
	}
	return a
}

// zeroNoise draws zero from every interval.
type zeroNoise struct{}

func (zeroNoise) UniformInt(a, b int) int           { return 0 }
func (zeroNoise) UniformFloat(a, b float64) float64 { return 0 }

var fixedNow = time.Date(2026, time.March, 10, 15, 4, 5, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func subject(age int) models.Subject {
	return models.Subject{Name: "Ana Petrovic", Age: age}
}

func TestGenerateLengthAndContiguousDates(t *testing.T) {
	gen := NewGenerator(WithClock(fixedClock), WithNoise(NewRandSource(7)))

	for _, days := range []int{1, 2, 7, 30, 365} {
		series, err := gen.Generate(subject(40), days)
		require.NoError(t, err)
		require.Len(t, series, days+1)

		first := series[0].Date
		assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days), first)
		assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), series[days].Date)

		for i := 1; i < len(series); i++ {
			assert.True(t, series[i].Date.After(series[i-1].Date))
			assert.Equal(t, series[i-1].Date.AddDate(0, 0, 1), series[i].Date)
		}
	}
}

func TestGenerateStaysWithinClampRanges(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		gen := NewGenerator(WithNoise(NewRandSource(seed)))
		age := 1 + int(seed%120)

		series, err := gen.Generate(subject(age), 45)
		require.NoError(t, err)
		assertWithinRanges(t, series)
	}
}

func TestGenerateClampsExtremes(t *testing.T) {
	high, err := NewGenerator(WithClock(fixedClock), WithNoise(boundNoise{upper: true})).Generate(subject(120), 30)
	require.NoError(t, err)
	assertWithinRanges(t, high)
	assert.Equal(t, 180.0, high[30].Systolic)

	low, err := NewGenerator(WithClock(fixedClock), WithNoise(boundNoise{upper: false})).Generate(subject(1), 30)
	require.NoError(t, err)
	assertWithinRanges(t, low)
	assert.Equal(t, 90.0, low[0].Systolic)
	assert.Equal(t, 70.0, low[0].BloodGlucose)
}

func TestGenerateFollowsBaselineFormulas(t *testing.T) {
	series, err := NewGenerator(WithClock(fixedClock), WithNoise(boundNoise{upper: false})).Generate(subject(30), 30)
	require.NoError(t, err)

	// heart rate base 60, sample noise -5
	assert.InDelta(t, 55.0, series[0].HeartRate, 1e-9)
	assert.InDelta(t, 55.0+5*math.Sin(1.0), series[10].HeartRate, 1e-9)
	// systolic base 110, sample noise -8
	assert.InDelta(t, 102.0, series[0].Systolic, 1e-9)
	// glucose base 80, sample noise -10
	assert.InDelta(t, 70.0+10*math.Sin(0.4), series[2].BloodGlucose, 1e-9)
	// weight base 55, continuous noise -0.2
	assert.InDelta(t, 54.8+0.3, series[30].Weight, 1e-9)
}

func TestGenerateWeightDrift(t *testing.T) {
	series, err := NewGenerator(WithClock(fixedClock), WithNoise(zeroNoise{})).Generate(subject(30), 30)
	require.NoError(t, err)

	assert.InDelta(t, 70.0, series[0].Weight, 1e-9)
	assert.InDelta(t, 70.3, series[30].Weight, 1e-9)
	assert.Equal(t, "Ana Petrovic", series[12].SubjectName)
}

func TestGenerateIsDeterministicWithFixedSource(t *testing.T) {
	a, err := NewGenerator(WithClock(fixedClock), WithNoise(NewRandSource(42))).Generate(subject(55), 30)
	require.NoError(t, err)
	b, err := NewGenerator(WithClock(fixedClock), WithNoise(NewRandSource(42))).Generate(subject(55), 30)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerateRejectsInvalidArguments(t *testing.T) {
	gen := NewGenerator()

	_, err := gen.Generate(models.Subject{Name: " ", Age: 30}, 30)
	assert.True(t, apperr.IsInvalidArgument(err))

	_, err = gen.Generate(subject(0), 30)
	assert.True(t, apperr.IsInvalidArgument(err))

	_, err = gen.Generate(subject(30), 0)
	assert.True(t, apperr.IsInvalidArgument(err))

	_, err = gen.Generate(subject(30), MaxDays+1)
	assert.True(t, apperr.IsInvalidArgument(err))

	_, err = gen.Generate(subject(30), math.MaxInt)
	assert.True(t, apperr.IsInvalidArgument(err))
}

func TestGenerateAcceptsMaxDays(t *testing.T) {
	series, err := NewGenerator(WithClock(fixedClock), WithNoise(zeroNoise{})).Generate(subject(30), MaxDays)
	require.NoError(t, err)
	assert.Len(t, series, MaxDays+1)
}

func TestAppendRequiresLaterDate(t *testing.T) {
	series, err := NewGenerator(WithClock(fixedClock), WithNoise(zeroNoise{})).Generate(subject(30), 3)
	require.NoError(t, err)
	latest, _ := series.Latest()

	_, err = Append(series, models.VitalSample{Date: latest.Date, HeartRate: 70})
	assert.True(t, apperr.IsInvalidArgument(err))

	_, err = Append(series, models.VitalSample{HeartRate: 70})
	assert.True(t, apperr.IsInvalidArgument(err))
}

func TestAppendRejectsSameCalendarDay(t *testing.T) {
	series, err := NewGenerator(WithClock(fixedClock), WithNoise(zeroNoise{})).Generate(subject(30), 3)
	require.NoError(t, err)
	latest, _ := series.Latest()

	_, err = Append(series, models.VitalSample{Date: latest.Date.Add(8 * time.Hour), HeartRate: 70})
	assert.True(t, apperr.IsInvalidArgument(err))
	assert.Len(t, series, 4)
}

func TestAppendTruncatesToMidnight(t *testing.T) {
	series, err := NewGenerator(WithClock(fixedClock), WithNoise(zeroNoise{})).Generate(subject(30), 3)
	require.NoError(t, err)
	latest, _ := series.Latest()

	out, err := Append(series, models.VitalSample{Date: latest.Date.AddDate(0, 0, 1).Add(14*time.Hour + 5*time.Minute), HeartRate: 70})
	require.NoError(t, err)

	added := out[len(out)-1]
	assert.Equal(t, latest.Date.AddDate(0, 0, 1), added.Date)
}

func TestAppendClampsAndKeepsMissingChannels(t *testing.T) {
	series, err := NewGenerator(WithClock(fixedClock), WithNoise(zeroNoise{})).Generate(subject(30), 3)
	require.NoError(t, err)
	latest, _ := series.Latest()

	next := models.VitalSample{
		Date:         latest.Date.AddDate(0, 0, 1),
		HeartRate:    200,
		Systolic:     math.NaN(),
		Diastolic:    math.NaN(),
		BloodGlucose: 65,
		Weight:       math.NaN(),
	}
	out, err := Append(series, next)
	require.NoError(t, err)

	require.Len(t, out, 5)
	assert.Len(t, series, 4, "input series must not change")
	added := out[4]
	assert.Equal(t, 120.0, added.HeartRate)
	assert.Equal(t, 70.0, added.BloodGlucose)
	assert.True(t, math.IsNaN(added.Systolic))
	assert.Equal(t, "Ana Petrovic", added.SubjectName)
}

func TestRandSourceBounds(t *testing.T) {
	src := NewRandSource(1)
	for i := 0; i < 1000; i++ {
		v := src.UniformInt(-5, 5)
		assert.GreaterOrEqual(t, v, -5)
		assert.LessOrEqual(t, v, 5)

		f := src.UniformFloat(-0.2, 0.2)
		assert.GreaterOrEqual(t, f, -0.2)
		assert.Less(t, f, 0.2)
	}
}

func assertWithinRanges(t *testing.T, series models.Series) {
	t.Helper()
	for _, sample := range series {
		for _, ch := range models.Channels {
			r := Ranges[ch]
			v := ch.Value(sample)
			if v < r.Min || v > r.Max {
				t.Fatalf("%s value %.3f outside [%v,%v] on %s", ch, v, r.Min, r.Max, sample.Date)
			}
		}
	}
}
