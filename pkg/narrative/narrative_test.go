package narrative

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/apperr"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCatalogParses(t *testing.T) {
	cat := DefaultCatalog()

	assert.Len(t, cat.Chat, 4)
	assert.Len(t, cat.Prediction, 2)
	assert.Len(t, cat.Treatment, 3)
}

func TestClassifyChatOrder(t *testing.T) {
	cat := DefaultCatalog()

	tests := []struct {
		query string
		want  Topic
	}{
		{"I have a terrible HEADACHE", TopicHeadache},
		{"headache and fever since yesterday", TopicHeadache},
		{"my fever will not break", TopicFever},
		{"sharp chest pain when breathing", TopicChestPain},
		{"fever and chest pain", TopicFever},
		{"how much water should I drink?", TopicGeneral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cat.Classify(KindChat, tt.query), tt.query)
	}
}

func TestClassifyPredictionNeedsBothSymptoms(t *testing.T) {
	cat := DefaultCatalog()

	assert.Equal(t, TopicViralInfection, cat.Classify(KindPrediction, "Fever, persistent headache"))
	assert.Equal(t, TopicGeneral, cat.Classify(KindPrediction, "headache only"))
	assert.Equal(t, TopicGeneral, cat.Classify(KindPrediction, "fever only"))
}

func TestClassifyTreatment(t *testing.T) {
	cat := DefaultCatalog()

	assert.Equal(t, TopicHypertension, cat.Classify(KindTreatment, "Hypertension"))
	assert.Equal(t, TopicHypertension, cat.Classify(KindTreatment, "high blood pressure"))
	assert.Equal(t, TopicDiabetes, cat.Classify(KindTreatment, "Type 2 Diabetes"))
	assert.Equal(t, TopicGeneral, cat.Classify(KindTreatment, "Common Cold"))
}

func TestChatIgnoresPatientContextForTopic(t *testing.T) {
	assistant := NewAssistant(DefaultCatalog())

	reply, err := assistant.Chat("what should I eat?", "Patient: Ana, Age: 34, Gender: Female, Medical History: chronic headache")

	require.NoError(t, err)
	assert.Equal(t, TopicGeneral, reply.Topic)
	assert.Equal(t, KindChat, reply.Kind)
	assert.True(t, strings.HasPrefix(reply.Text, "Thank you for your question."))
}

func TestPredictDiseaseGeneralEchoesSymptoms(t *testing.T) {
	assistant := NewAssistant(DefaultCatalog())

	reply, err := assistant.PredictDisease(SymptomReport{PrimarySymptoms: "joint pain, fatigue", Duration: "1-3 days", Severity: "Mild"}, "")

	require.NoError(t, err)
	assert.Equal(t, TopicGeneral, reply.Topic)
	assert.Contains(t, reply.Text, "Based on your reported symptoms: joint pain, fatigue")
}

func TestTreatmentPlanGeneralNamesCondition(t *testing.T) {
	assistant := NewAssistant(DefaultCatalog())

	reply, err := assistant.TreatmentPlan(TreatmentRequest{Condition: "Common Cold", Severity: "Mild"}, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reply.Text, "**Personalized Treatment Plan for Common Cold**"))

	reply, err = assistant.TreatmentPlan(TreatmentRequest{Condition: "hypertension"}, "")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "<130/80 mmHg")
}

func TestAssistantRejectsEmptyInput(t *testing.T) {
	assistant := NewAssistant(DefaultCatalog())

	_, err := assistant.Chat("  ", "")
	assert.True(t, apperr.IsInvalidArgument(err))

	_, err = assistant.PredictDisease(SymptomReport{}, "")
	assert.True(t, apperr.IsInvalidArgument(err))

	_, err = assistant.TreatmentPlan(TreatmentRequest{}, "")
	assert.True(t, apperr.IsInvalidArgument(err))
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	content := `
chat:
  - topic: sleep
    any: ["insomnia"]
    body: "Sleep advice for {{.Query}}"
  - topic: general
    body: "General reply"
prediction:
  - topic: general
    body: "Prediction"
treatment:
  - topic: general
    body: "Plan for {{.Condition}}"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cat, err := Load(path)
	require.NoError(t, err)

	reply, err := NewAssistant(cat).Chat("insomnia again", "")
	require.NoError(t, err)
	assert.Equal(t, Topic("sleep"), reply.Topic)
	assert.Equal(t, "Sleep advice for insomnia again", reply.Text)
}

func TestParseRejectsMissingFallback(t *testing.T) {
	content := `
chat:
  - topic: headache
    any: ["headache"]
    body: "x"
prediction:
  - topic: general
    body: "p"
treatment:
  - topic: general
    body: "t"
`
	_, err := Parse([]byte(content))
	assert.Error(t, err)

	_, err = Parse([]byte("chat: [}"))
	assert.Error(t, err)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cat, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Error(t, err)
	assert.Len(t, cat.Chat, 4)
}

func TestPatientContext(t *testing.T) {
	got := PatientContext(models.Subject{Name: "Ana", Age: 34, Gender: "Female"})

	assert.Equal(t, "Patient: Ana, Age: 34, Gender: Female, Medical History: None", got)
}
