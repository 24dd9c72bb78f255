package assessment

import (
	"math"
	"testing"
	"time"

	"github.com/adaptlearn/backend/internal/models"
)

func makeResponse(difficulty float64, correct bool) models.ResponseRecord {
	return models.ResponseRecord{
		Difficulty:  difficulty,
		Correct:     correct,
		RespondedAt: time.Now(),
	}
}

func TestExpectedCorrect(t *testing.T) {
	// Equal ability and difficulty → ~50%
	got := expectedCorrect(50, 50)
	if math.Abs(got-0.5) > 0.01 {
		t.Errorf("expectedCorrect(50, 50) = %f, want ~0.5", got)
	}

	// Learner much better → ~88%
	got = expectedCorrect(75, 50)
	if math.Abs(got-0.88) > 0.05 {
		t.Errorf("expectedCorrect(75, 50) = %f, want ~0.88", got)
	}

	// Learner much worse → ~12%
	got = expectedCorrect(25, 50)
	if math.Abs(got-0.12) > 0.05 {
		t.Errorf("expectedCorrect(25, 50) = %f, want ~0.12", got)
	}
}

func TestEstimateKnowledgeLevelEmpty(t *testing.T) {
	_, err := EstimateKnowledgeLevel(nil)
	if err != ErrNoResponses {
		t.Errorf("EstimateKnowledgeLevel(nil) error = %v, want ErrNoResponses", err)
	}
}

func TestEstimateKnowledgeLevelDirection(t *testing.T) {
	// All correct on medium items → estimate well above the midpoint
	var allCorrect []models.ResponseRecord
	for i := 0; i < 5; i++ {
		allCorrect = append(allCorrect, makeResponse(50, true))
	}
	est, err := EstimateKnowledgeLevel(allCorrect)
	if err != nil {
		t.Fatalf("EstimateKnowledgeLevel error: %v", err)
	}
	if est.Theta <= 60 {
		t.Errorf("all-correct theta = %f, want >60", est.Theta)
	}

	// All incorrect → estimate well below the midpoint
	var allWrong []models.ResponseRecord
	for i := 0; i < 5; i++ {
		allWrong = append(allWrong, makeResponse(50, false))
	}
	est, err = EstimateKnowledgeLevel(allWrong)
	if err != nil {
		t.Fatalf("EstimateKnowledgeLevel error: %v", err)
	}
	if est.Theta >= 40 {
		t.Errorf("all-incorrect theta = %f, want <40", est.Theta)
	}

	// Half correct on medium items → estimate stays near the midpoint
	var mixed []models.ResponseRecord
	for i := 0; i < 6; i++ {
		mixed = append(mixed, makeResponse(50, i%2 == 0))
	}
	est, err = EstimateKnowledgeLevel(mixed)
	if err != nil {
		t.Fatalf("EstimateKnowledgeLevel error: %v", err)
	}
	if math.Abs(est.Theta-50) > 1 {
		t.Errorf("mixed theta = %f, want ~50", est.Theta)
	}
}

func TestEstimateAlwaysBounded(t *testing.T) {
	histories := [][]models.ResponseRecord{
		{makeResponse(0, true)},
		{makeResponse(100, false)},
		{makeResponse(100, true), makeResponse(100, true), makeResponse(100, true)},
		{makeResponse(0, false), makeResponse(0, false), makeResponse(0, false)},
		{makeResponse(30, true), makeResponse(70, false), makeResponse(50, true)},
	}

	for i, h := range histories {
		est, err := EstimateKnowledgeLevel(h)
		if err != nil {
			t.Fatalf("history %d: unexpected error %v", i, err)
		}
		if math.IsNaN(est.Theta) || math.IsInf(est.Theta, 0) {
			t.Errorf("history %d: theta = %f, want finite", i, est.Theta)
		}
		if est.Theta < 0 || est.Theta > 100 {
			t.Errorf("history %d: theta = %f, want within [0,100]", i, est.Theta)
		}
		if est.StandardError <= 0 || est.StandardError > maxStandardError {
			t.Errorf("history %d: standard error = %f, want (0,%f]", i, est.StandardError, maxStandardError)
		}
		if est.ConfidenceInterval < 0 {
			t.Errorf("history %d: confidence interval = %f, want >= 0", i, est.ConfidenceInterval)
		}
	}
}

func TestShouldStopEarlyNeedsMinimumResponses(t *testing.T) {
	// Two responses can never trigger early stop regardless of precision
	est, err := EstimateKnowledgeLevel([]models.ResponseRecord{
		makeResponse(50, true),
		makeResponse(50, false),
	})
	if err != nil {
		t.Fatalf("EstimateKnowledgeLevel error: %v", err)
	}
	if est.ShouldStopEarly {
		t.Error("ShouldStopEarly = true with 2 responses, want false")
	}
}

func TestShouldStopEarlyWithInformativeHistory(t *testing.T) {
	// Eight well-targeted items halve the uncertainty enough to stop.
	// Alternating outcomes keep theta at the midpoint where each item
	// contributes maximum information.
	var history []models.ResponseRecord
	for i := 0; i < 8; i++ {
		history = append(history, makeResponse(50, i%2 == 0))
	}
	est, err := EstimateKnowledgeLevel(history)
	if err != nil {
		t.Fatalf("EstimateKnowledgeLevel error: %v", err)
	}
	if est.ConfidenceInterval >= earlyStopCIThreshold {
		t.Errorf("confidence interval = %f, want < %f", est.ConfidenceInterval, earlyStopCIThreshold)
	}
	if !est.ShouldStopEarly {
		t.Error("ShouldStopEarly = false with 8 informative responses, want true")
	}
}

func TestDegenerateHistoryWideError(t *testing.T) {
	// All correct runs theta to the top; items far below the estimate carry
	// almost no information, so the error stays wide.
	var history []models.ResponseRecord
	for i := 0; i < 5; i++ {
		history = append(history, makeResponse(10, true))
	}
	est, err := EstimateKnowledgeLevel(history)
	if err != nil {
		t.Fatalf("EstimateKnowledgeLevel error: %v", err)
	}
	if est.ShouldStopEarly {
		t.Error("ShouldStopEarly = true on a degenerate all-correct history, want false")
	}
}

func TestCalculateEfficiencyMetrics(t *testing.T) {
	tests := []struct {
		asked     int
		wantSaved int
		wantPct   int
	}{
		{3, 12, 80},
		{7, 8, 53},
		{15, 0, 0},
		{20, 0, 0},
	}

	for _, tt := range tests {
		got := CalculateEfficiencyMetrics(tt.asked)
		if got.QuestionsAsked != tt.asked {
			t.Errorf("CalculateEfficiencyMetrics(%d).QuestionsAsked = %d", tt.asked, got.QuestionsAsked)
		}
		if got.BaselineQuestions != baselineQuestions {
			t.Errorf("CalculateEfficiencyMetrics(%d).BaselineQuestions = %d, want %d", tt.asked, got.BaselineQuestions, baselineQuestions)
		}
		if got.QuestionsSaved != tt.wantSaved {
			t.Errorf("CalculateEfficiencyMetrics(%d).QuestionsSaved = %d, want %d", tt.asked, got.QuestionsSaved, tt.wantSaved)
		}
		if got.TimeSavedPct != tt.wantPct {
			t.Errorf("CalculateEfficiencyMetrics(%d).TimeSavedPct = %d, want %d", tt.asked, got.TimeSavedPct, tt.wantPct)
		}
		if got.EfficiencyScore != tt.wantPct {
			t.Errorf("CalculateEfficiencyMetrics(%d).EfficiencyScore = %d, want %d", tt.asked, got.EfficiencyScore, tt.wantPct)
		}
	}
}
