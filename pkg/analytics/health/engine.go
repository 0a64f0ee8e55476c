package health

import (
	"time"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/logger"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/models"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/observability/metrics"
)

// Report bundles every analytics output for one series.
type Report struct {
	Subject         string                  `json:"subject"`
	Samples         int                     `json:"samples"`
	Trends          models.Trends           `json:"trends"`
	Risks           []models.RiskFlag       `json:"risks"`
	Recommendations []models.Recommendation `json:"recommendations"`
	Insights        string                  `json:"insights"`
	GeneratedAt     time.Time               `json:"generated_at"`
}

// Engine runs the analytics functions and records what they produced.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

func (e *Engine) Trends(series models.Series) models.Trends {
	return ComputeTrends(series)
}

func (e *Engine) Risks(series models.Series) []models.RiskFlag {
	risks := AssessRisks(series)
	recordRisks(risks)
	return risks
}

func (e *Engine) Recommendations(series models.Series) []models.Recommendation {
	recs := Recommend(series)
	recordRecommendations(recs)
	return recs
}

func (e *Engine) Insights(series models.Series, displayName string) string {
	metrics.RecordInsightReport()
	return GenerateInsights(series, displayName)
}

// Analyze computes trends once and derives every other output from them.
func (e *Engine) Analyze(series models.Series, displayName string) Report {
	trends := ComputeTrends(series)
	risks := AssessRisks(series)
	recs := recommendFromTrends(trends)

	insights := NoDataMessage
	if len(series) > 0 {
		insights = composeInsights(series, displayName, trends, risks, recs)
	}

	recordRisks(risks)
	recordRecommendations(recs)
	metrics.RecordInsightReport()

	logger.Log.WithFields(map[string]interface{}{
		"subject":         displayName,
		"samples":         len(series),
		"risks":           len(risks),
		"recommendations": len(recs),
	}).Debug("Analytics run completed")

	return Report{
		Subject:         displayName,
		Samples:         len(series),
		Trends:          trends,
		Risks:           risks,
		Recommendations: recs,
		Insights:        insights,
		GeneratedAt:     e.now().UTC(),
	}
}

func recordRisks(risks []models.RiskFlag) {
	for _, r := range risks {
		metrics.RecordRiskFlag(r.Risk, string(r.Level))
	}
}

func recordRecommendations(recs []models.Recommendation) {
	for _, r := range recs {
		metrics.RecordRecommendation(r.Category, string(r.Priority))
	}
}
