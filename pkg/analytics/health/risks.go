package health

import "github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/models"

var (
	riskHypertension = models.RiskFlag{
		Risk:        "Hypertension",
		Level:       models.RiskHigh,
		Description: "Blood pressure readings consistently above normal range",
	}
	riskPreHypertension = models.RiskFlag{
		Risk:        "Pre-hypertension",
		Level:       models.RiskModerate,
		Description: "Blood pressure elevated but not yet in hypertensive range",
	}
	riskDiabetes = models.RiskFlag{
		Risk:        "Diabetes Risk",
		Level:       models.RiskHigh,
		Description: "Fasting glucose levels indicate potential diabetes",
	}
	riskPreDiabetes = models.RiskFlag{
		Risk:        "Pre-diabetes",
		Level:       models.RiskModerate,
		Description: "Glucose levels elevated above normal range",
	}
	riskTachycardia = models.RiskFlag{
		Risk:        "Tachycardia",
		Level:       models.RiskModerate,
		Description: "Resting heart rate consistently elevated",
	}
	riskBradycardia = models.RiskFlag{
		Risk:        "Bradycardia",
		Level:       models.RiskLow,
		Description: "Resting heart rate below normal range",
	}
)

// AssessRisks classifies the latest sample only. Flags come out in check order:
// blood pressure, glucose, heart rate. A missing reading never fires a flag.
func AssessRisks(series models.Series) []models.RiskFlag {
	risks := []models.RiskFlag{}
	latest, ok := series.Latest()
	if !ok {
		return risks
	}

	switch {
	case latest.Systolic >= 140 || latest.Diastolic >= 90:
		risks = append(risks, riskHypertension)
	case latest.Systolic >= 130 || latest.Diastolic >= 80:
		risks = append(risks, riskPreHypertension)
	}

	switch {
	case latest.BloodGlucose >= 126:
		risks = append(risks, riskDiabetes)
	case latest.BloodGlucose >= 100:
		risks = append(risks, riskPreDiabetes)
	}

	switch {
	case latest.HeartRate > 100:
		risks = append(risks, riskTachycardia)
	case latest.HeartRate < 60:
		risks = append(risks, riskBradycardia)
	}

	return risks
}
