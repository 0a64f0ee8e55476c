package health

import (
	"fmt"
	"math"
	"strings"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/models"
)

// NoDataMessage is the whole report for an empty series.
const NoDataMessage = "No health data available for analysis. Please record some health metrics to receive personalized insights."

// directionDeadband is the slope magnitude below which a trend reads as stable.
const directionDeadband = 0.1

const generalGuidance = `
**General Health Guidance:**
- Continue regular monitoring of your health metrics
- Maintain consistent measurement times for accuracy
- Track any symptoms or changes in how you feel
- Share this data with your healthcare provider during visits
- Consider lifestyle factors that may influence your readings

**When to Consult Your Healthcare Provider:**
- Sudden significant changes in any health metrics
- Persistent abnormal readings
- New or worsening symptoms
- Questions about your health trends
- Before making major lifestyle or medication changes

**Important Note:** These insights are based on data analysis and should not replace professional medical advice. Always consult with your healthcare provider for medical decisions and treatment plans.
`

// Direction describes a slope as increasing, decreasing or stable.
func Direction(slope float64) string {
	switch {
	case slope > directionDeadband:
		return "increasing"
	case slope < -directionDeadband:
		return "decreasing"
	default:
		return "stable"
	}
}

// GenerateInsights composes the markdown report shown next to the charts.
func GenerateInsights(series models.Series, displayName string) string {
	if len(series) == 0 {
		return NoDataMessage
	}
	trends := ComputeTrends(series)
	return composeInsights(series, displayName, trends, AssessRisks(series), recommendFromTrends(trends))
}

func composeInsights(series models.Series, displayName string, trends models.Trends, risks []models.RiskFlag, recs []models.Recommendation) string {
	if strings.TrimSpace(displayName) == "" {
		displayName = "Patient"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Health Analytics Summary for %s**\n\n**Current Health Status:**\n", displayName)

	latest, _ := series.Latest()
	fmt.Fprintf(&b, "\n- **Heart Rate:** %s\n", withUnit(latest.HeartRate, 0, "bpm"))
	fmt.Fprintf(&b, "- **Blood Pressure:** %s/%s mmHg\n", reading(latest.Systolic, 0), reading(latest.Diastolic, 0))
	fmt.Fprintf(&b, "- **Blood Glucose:** %s\n", withUnit(latest.BloodGlucose, 0, "mg/dL"))
	fmt.Fprintf(&b, "- **Weight:** %s\n", withUnit(latest.Weight, 1, "kg"))

	if days := spanDays(series); days > 0 {
		fmt.Fprintf(&b, "\n**Trend Analysis (Past %d Days):**\n", days)
	} else {
		b.WriteString("\n**Trend Analysis:**\n")
	}
	for _, ch := range models.Channels {
		t, ok := trends[ch]
		if !ok {
			continue
		}
		switch Direction(t.Slope) {
		case "increasing":
			fmt.Fprintf(&b, "- **%s:** ↗️ Increasing trend detected\n", ch.Title())
		case "decreasing":
			fmt.Fprintf(&b, "- **%s:** ↘️ Decreasing trend detected\n", ch.Title())
		default:
			fmt.Fprintf(&b, "- **%s:** ➡️ Stable trend\n", ch.Title())
		}
	}

	b.WriteString("\n**Health Risk Assessment:**\n")
	if len(risks) == 0 {
		b.WriteString("✅ No significant health risks detected based on current metrics.\n")
	}
	for _, r := range risks {
		fmt.Fprintf(&b, "- %s **%s** (%s Risk): %s\n", riskMarker(r.Level), r.Risk, r.Level, r.Description)
	}

	if len(recs) > 0 {
		b.WriteString("\n**Personalized Recommendations:**\n")
		writeRecommendationGroup(&b, "High Priority", "🔴", models.PriorityHigh, recs)
		writeRecommendationGroup(&b, "Medium Priority", "🟡", models.PriorityMedium, recs)
	}

	b.WriteString(generalGuidance)
	return b.String()
}

func writeRecommendationGroup(b *strings.Builder, title, marker string, priority models.Priority, recs []models.Recommendation) {
	var group []models.Recommendation
	for _, r := range recs {
		if r.Priority == priority {
			group = append(group, r)
		}
	}
	if len(group) == 0 {
		return
	}
	fmt.Fprintf(b, "\n**%s:**\n", title)
	for _, r := range group {
		fmt.Fprintf(b, "- %s **%s:** %s\n", marker, r.Category, r.Recommendation)
	}
}

func riskMarker(level models.RiskLevel) string {
	switch level {
	case models.RiskHigh:
		return "🔴"
	case models.RiskModerate:
		return "🟡"
	default:
		return "🟢"
	}
}

func reading(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return fmt.Sprintf("%.*f", decimals, v)
}

func withUnit(v float64, decimals int, unit string) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return fmt.Sprintf("%.*f %s", decimals, v, unit)
}

func spanDays(series models.Series) int {
	if len(series) < 2 {
		return 0
	}
	span := series[len(series)-1].Date.Sub(series[0].Date)
	return int(math.Round(span.Hours() / 24))
}
