// Package dashboard shapes a series and its trends into what the analytics
// page renders: headline metric cards and time-series charts.
package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/models"
)

const EmptyMessage = "No health data available. Health metrics will be displayed here once data is recorded."

// GlucoseReference is the fasting-glucose line drawn on the glucose chart.
const GlucoseReference = 100.0

// Card is one headline metric. Delta is latest minus the series average and is
// nil when the latest reading is missing.
type Card struct {
	Title     string   `json:"title"`
	Value     string   `json:"value"`
	Delta     *float64 `json:"delta"`
	DeltaText string   `json:"delta_text,omitempty"`
}

type Point struct {
	Date  time.Time `json:"date"`
	Value *float64  `json:"value"`
}

type Line struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
}

type ReferenceLine struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
	Color string  `json:"color"`
	Dash  string  `json:"dash"`
}

type Chart struct {
	Title      string          `json:"title"`
	XAxis      string          `json:"x_axis"`
	YAxis      string          `json:"y_axis"`
	Lines      []Line          `json:"lines"`
	References []ReferenceLine `json:"references,omitempty"`
}

type Overview struct {
	Empty   bool    `json:"empty"`
	Message string  `json:"message,omitempty"`
	Cards   []Card  `json:"cards"`
	Charts  []Chart `json:"charts"`
}

// Build lays out the overview. trends should come from the same series.
func Build(series models.Series, trends models.Trends) Overview {
	latest, ok := series.Latest()
	if !ok {
		return Overview{Empty: true, Message: EmptyMessage, Cards: []Card{}, Charts: []Chart{}}
	}

	bp := Card{
		Title: "Blood Pressure",
		Value: fmt.Sprintf("%s/%s", format(latest.Systolic, 0), format(latest.Diastolic, 0)),
	}
	setDelta(&bp, latest, trends, models.Systolic, 0)

	return Overview{
		Cards: []Card{
			card("Heart Rate", "bpm", 0, latest, trends, models.HeartRate),
			bp,
			card("Blood Glucose", "mg/dL", 0, latest, trends, models.BloodGlucose),
			card("Weight", "kg", 1, latest, trends, models.Weight),
		},
		Charts: []Chart{
			{
				Title: "Heart Rate Over Time",
				XAxis: "Date",
				YAxis: "bpm",
				Lines: []Line{line(series, models.HeartRate, "Heart Rate", "red")},
			},
			{
				Title: "Blood Pressure Over Time",
				XAxis: "Date",
				YAxis: "mmHg",
				Lines: []Line{
					line(series, models.Systolic, "Systolic", "blue"),
					line(series, models.Diastolic, "Diastolic", "orange"),
				},
			},
			{
				Title: "Blood Glucose Over Time",
				XAxis: "Date",
				YAxis: "mg/dL",
				Lines: []Line{line(series, models.BloodGlucose, "Blood Glucose", "purple")},
				References: []ReferenceLine{
					{Value: GlucoseReference, Label: "Normal Range", Color: "green", Dash: "dash"},
				},
			},
		},
	}
}

func card(title, unit string, decimals int, latest models.VitalSample, trends models.Trends, ch models.Channel) Card {
	value := "N/A"
	if v := ch.Value(latest); !math.IsNaN(v) {
		value = fmt.Sprintf("%.*f %s", decimals, v, unit)
	}
	c := Card{Title: title, Value: value}
	setDelta(&c, latest, trends, ch, decimals)
	return c
}

// setDelta falls back to a zero delta when the channel has no trend, since a
// lone reading is its own average.
func setDelta(c *Card, latest models.VitalSample, trends models.Trends, ch models.Channel, decimals int) {
	v := ch.Value(latest)
	if math.IsNaN(v) {
		return
	}
	delta := 0.0
	if t, ok := trends[ch]; ok {
		delta = v - t.Average
	}
	c.Delta = &delta
	c.DeltaText = fmt.Sprintf("%.*f", decimals, delta)
}

func line(series models.Series, ch models.Channel, name, color string) Line {
	points := make([]Point, len(series))
	for i, s := range series {
		points[i] = Point{Date: s.Date}
		if v := ch.Value(s); !math.IsNaN(v) {
			points[i].Value = &v
		}
	}
	return Line{Name: name, Color: color, Points: points}
}

func format(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return fmt.Sprintf("%.*f", decimals, v)
}
