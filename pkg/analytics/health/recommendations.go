package health

import "github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/models"

// Per-channel significance thresholds. These differ from the ±0.1 direction
// deadband used in the insight report and must stay separate.
const (
	systolicCurrentThreshold = 130.0
	glucoseCurrentThreshold  = 100.0
	heartRateSlopeThreshold  = 0.5
	weightSlopeThreshold     = 0.1
)

var baselineRecommendation = models.Recommendation{
	Category:       "General Health",
	Recommendation: "Continue regular health monitoring and maintain consistent measurement times",
	Priority:       models.PriorityMedium,
}

// Recommend always starts with the general-health entry and then adds one entry
// per trend condition that holds.
func Recommend(series models.Series) []models.Recommendation {
	return recommendFromTrends(ComputeTrends(series))
}

func recommendFromTrends(trends models.Trends) []models.Recommendation {
	recs := []models.Recommendation{baselineRecommendation}

	if t, ok := trends[models.Systolic]; ok && t.Current > systolicCurrentThreshold {
		recs = append(recs, models.Recommendation{
			Category:       "Blood Pressure",
			Recommendation: "Consider reducing sodium intake, increasing physical activity, and managing stress levels",
			Priority:       models.PriorityHigh,
		})
	}

	if t, ok := trends[models.BloodGlucose]; ok && t.Current > glucoseCurrentThreshold {
		recs = append(recs, models.Recommendation{
			Category:       "Blood Sugar",
			Recommendation: "Focus on balanced nutrition, regular meal timing, and consider consulting with a nutritionist",
			Priority:       models.PriorityHigh,
		})
	}

	if t, ok := trends[models.HeartRate]; ok && t.Slope > heartRateSlopeThreshold {
		recs = append(recs, models.Recommendation{
			Category:       "Cardiovascular",
			Recommendation: "Monitor stress levels and consider regular cardiovascular exercise",
			Priority:       models.PriorityMedium,
		})
	}

	if t, ok := trends[models.Weight]; ok && t.Slope > weightSlopeThreshold {
		recs = append(recs, models.Recommendation{
			Category:       "Weight Management",
			Recommendation: "Consider reviewing dietary habits and increasing physical activity",
			Priority:       models.PriorityMedium,
		})
	}

	return recs
}
