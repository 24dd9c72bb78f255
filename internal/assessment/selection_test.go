package assessment

import (
	"testing"
	"time"

	"github.com/adaptlearn/backend/internal/models"
)

func poolQuestion(id int64, difficulty float64, timesUsed int) models.QuestionRecord {
	return models.QuestionRecord{
		ID:              id,
		ObjectiveID:     "obj-1",
		DifficultyLevel: difficulty,
		TimesUsed:       timesUsed,
	}
}

func TestWithinDifficultyWindow(t *testing.T) {
	tests := []struct {
		difficulty float64
		target     float64
		want       bool
	}{
		{50, 50, true},
		{60, 50, true}, // window edge is inclusive
		{40, 50, true},
		{60.5, 50, false},
		{39.5, 50, false},
	}

	for _, tt := range tests {
		q := poolQuestion(1, tt.difficulty, 0)
		if got := WithinDifficultyWindow(q, tt.target); got != tt.want {
			t.Errorf("WithinDifficultyWindow(%f, %f) = %v, want %v",
				tt.difficulty, tt.target, got, tt.want)
		}
	}
}

func TestOffCooldown(t *testing.T) {
	now := time.Now()
	q := poolQuestion(7, 50, 0)

	// Never answered → eligible
	if !OffCooldown(q, map[int64]time.Time{}, now) {
		t.Error("unanswered prompt reported on cooldown")
	}

	// Answered an hour ago → still cooling down
	recent := map[int64]time.Time{7: now.Add(-time.Hour)}
	if OffCooldown(q, recent, now) {
		t.Error("prompt answered an hour ago reported off cooldown")
	}

	// Answered 15 days ago → cooldown expired
	old := map[int64]time.Time{7: now.Add(-15 * 24 * time.Hour)}
	if !OffCooldown(q, old, now) {
		t.Error("prompt answered 15 days ago reported on cooldown")
	}

	// A different prompt's answer doesn't block this one
	other := map[int64]time.Time{8: now}
	if !OffCooldown(q, other, now) {
		t.Error("cooldown leaked across prompts")
	}
}

func TestDiscriminating(t *testing.T) {
	q := poolQuestion(1, 50, 0)

	// No index yet → eligible
	if !Discriminating(q) {
		t.Error("prompt without an index reported non-discriminating")
	}

	weak := 0.1
	q.DiscriminationIndex = &weak
	if Discriminating(q) {
		t.Error("weak prompt reported discriminating")
	}

	strong := 0.5
	q.DiscriminationIndex = &strong
	if !Discriminating(q) {
		t.Error("strong prompt reported non-discriminating")
	}
}

func TestSelectQuestionPrefersLeastUsed(t *testing.T) {
	now := time.Now()
	criteria := models.QuestionCriteria{UserID: 1, ObjectiveID: "obj-1", Difficulty: 50}
	pool := []models.QuestionRecord{
		poolQuestion(1, 50, 5),
		poolQuestion(2, 55, 1),
		poolQuestion(3, 45, 3),
	}

	got := SelectQuestion(criteria, pool, nil, now)
	if got == nil {
		t.Fatal("SelectQuestion returned nil for a viable pool")
	}
	if got.ID != 2 {
		t.Errorf("SelectQuestion picked prompt %d, want least-used prompt 2", got.ID)
	}
}

func TestSelectQuestionBreaksTiesByID(t *testing.T) {
	now := time.Now()
	criteria := models.QuestionCriteria{UserID: 1, ObjectiveID: "obj-1", Difficulty: 50}
	pool := []models.QuestionRecord{
		poolQuestion(9, 50, 2),
		poolQuestion(4, 52, 2),
	}

	got := SelectQuestion(criteria, pool, nil, now)
	if got == nil || got.ID != 4 {
		t.Errorf("SelectQuestion tie-break picked %v, want prompt 4", got)
	}
}

func TestSelectQuestionFiltersAllPredicates(t *testing.T) {
	now := time.Now()
	criteria := models.QuestionCriteria{UserID: 1, ObjectiveID: "obj-1", Difficulty: 50}

	offTarget := poolQuestion(1, 90, 0)
	coolingDown := poolQuestion(2, 50, 0)
	weakIdx := 0.05
	weak := poolQuestion(3, 50, 0)
	weak.DiscriminationIndex = &weakIdx
	viable := poolQuestion(4, 50, 10)

	pool := []models.QuestionRecord{offTarget, coolingDown, weak, viable}
	recent := map[int64]time.Time{2: now.Add(-time.Hour)}

	got := SelectQuestion(criteria, pool, recent, now)
	if got == nil {
		t.Fatal("SelectQuestion returned nil with one viable prompt")
	}
	if got.ID != 4 {
		t.Errorf("SelectQuestion picked prompt %d, want 4", got.ID)
	}
}

func TestSelectQuestionExhaustedPool(t *testing.T) {
	now := time.Now()
	criteria := models.QuestionCriteria{UserID: 1, ObjectiveID: "obj-1", Difficulty: 50}

	// Empty pool
	if got := SelectQuestion(criteria, nil, nil, now); got != nil {
		t.Errorf("SelectQuestion on empty pool = %v, want nil", got)
	}

	// Everything on cooldown
	pool := []models.QuestionRecord{poolQuestion(1, 50, 0)}
	recent := map[int64]time.Time{1: now.Add(-time.Hour)}
	if got := SelectQuestion(criteria, pool, recent, now); got != nil {
		t.Errorf("SelectQuestion with all prompts cooling down = %v, want nil", got)
	}
}
