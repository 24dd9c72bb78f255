package assessment

import (
	"math"

	"github.com/adaptlearn/backend/internal/models"
)

// baselineQuestions is the fixed-length assessment an adaptive run is
// measured against.
const baselineQuestions = 15

// CalculateEfficiencyMetrics reports how many questions an early-stopped
// assessment saved against the fixed baseline. Runs at or past the baseline
// score zero — never negative.
func CalculateEfficiencyMetrics(questionsAsked int) models.EfficiencyMetrics {
	saved := baselineQuestions - questionsAsked
	if saved < 0 {
		saved = 0
	}
	pct := int(math.Round(float64(saved) / baselineQuestions * 100))

	return models.EfficiencyMetrics{
		QuestionsAsked:    questionsAsked,
		BaselineQuestions: baselineQuestions,
		QuestionsSaved:    saved,
		TimeSavedPct:      pct,
		EfficiencyScore:   pct,
	}
}
