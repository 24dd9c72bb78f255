package assessment

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/adaptlearn/backend/internal/models"
)

func scoredResponse(score float64, respondedAt time.Time) models.ResponseRecord {
	return models.ResponseRecord{Score: score, RespondedAt: respondedAt}
}

func TestInitialDifficultyNoHistory(t *testing.T) {
	got := InitialDifficulty(nil)
	if got != defaultDifficulty {
		t.Errorf("InitialDifficulty(nil) = %f, want %f", got, defaultDifficulty)
	}
}

func TestInitialDifficultyCalibration(t *testing.T) {
	now := time.Now()

	// Consistently excellent history starts harder
	strong := []models.ResponseRecord{
		scoredResponse(95, now),
		scoredResponse(92, now.Add(-time.Hour)),
		scoredResponse(98, now.Add(-2*time.Hour)),
	}
	if got := InitialDifficulty(strong); got != 60 {
		t.Errorf("strong history → %f, want 60", got)
	}

	// Struggling history starts easier
	weak := []models.ResponseRecord{
		scoredResponse(50, now),
		scoredResponse(55, now.Add(-time.Hour)),
		scoredResponse(60, now.Add(-2*time.Hour)),
	}
	if got := InitialDifficulty(weak); got != 40 {
		t.Errorf("weak history → %f, want 40", got)
	}

	// Middling history keeps the default
	middling := []models.ResponseRecord{
		scoredResponse(75, now),
		scoredResponse(80, now.Add(-time.Hour)),
	}
	if got := InitialDifficulty(middling); got != 50 {
		t.Errorf("middling history → %f, want 50", got)
	}
}

func TestInitialDifficultyWeighsRecencyNotOrder(t *testing.T) {
	now := time.Now()

	// Recent struggle outweighs an older strong score:
	// weighted avg of (50 now, 90 older) = (50 + 0.8*90)/1.8 ≈ 67.8 < 70
	recentWeak := []models.ResponseRecord{
		scoredResponse(90, now.Add(-time.Hour)),
		scoredResponse(50, now),
	}
	if got := InitialDifficulty(recentWeak); got != 40 {
		t.Errorf("recent-weak history → %f, want 40", got)
	}

	// Same scores flipped in time: (90 + 0.8*50)/1.8 ≈ 72.2 → no shift
	recentStrong := []models.ResponseRecord{
		scoredResponse(50, now.Add(-time.Hour)),
		scoredResponse(90, now),
	}
	if got := InitialDifficulty(recentStrong); got != 50 {
		t.Errorf("recent-strong history → %f, want 50", got)
	}
}

func TestAdjustDifficultySteps(t *testing.T) {
	tests := []struct {
		score   float64
		current float64
		wantNew float64
		wantAdj float64
	}{
		{90, 50, 65, 15},  // excellent → full step up
		{81, 50, 65, 15},  // just above the band → full step
		{45, 50, 35, -15}, // struggling → full step down
		{59, 50, 35, -15},
		{70, 50, 50, 0}, // band midpoint holds steady
		{60, 50, 50, 0}, // band edges hold steady
		{80, 50, 50, 0},
		{65, 50, 45, -5}, // halfway below midpoint → max downward bump
		{75, 50, 55, 5},  // halfway above → max upward bump
		{72, 50, 52, 2},
		{68, 50, 48, -2},
	}

	for _, tt := range tests {
		got := AdjustDifficulty(tt.score, tt.current)
		if math.Abs(got.NewDifficulty-tt.wantNew) > 1e-9 {
			t.Errorf("AdjustDifficulty(%f, %f).NewDifficulty = %f, want %f",
				tt.score, tt.current, got.NewDifficulty, tt.wantNew)
		}
		if math.Abs(got.Adjustment-tt.wantAdj) > 1e-9 {
			t.Errorf("AdjustDifficulty(%f, %f).Adjustment = %f, want %f",
				tt.score, tt.current, got.Adjustment, tt.wantAdj)
		}
		if got.Reason == "" {
			t.Errorf("AdjustDifficulty(%f, %f) has empty reason", tt.score, tt.current)
		}
	}
}

func TestAdjustDifficultyClamps(t *testing.T) {
	// Near the ceiling the step is truncated and the reason says so
	got := AdjustDifficulty(90, 95)
	if got.NewDifficulty != 100 {
		t.Errorf("AdjustDifficulty(90, 95).NewDifficulty = %f, want 100", got.NewDifficulty)
	}
	if got.Adjustment != 5 {
		t.Errorf("AdjustDifficulty(90, 95).Adjustment = %f, want 5", got.Adjustment)
	}
	if !strings.Contains(got.Reason, "capped at maximum") {
		t.Errorf("reason %q does not mention the cap", got.Reason)
	}

	got = AdjustDifficulty(45, 10)
	if got.NewDifficulty != 0 {
		t.Errorf("AdjustDifficulty(45, 10).NewDifficulty = %f, want 0", got.NewDifficulty)
	}
	if got.Adjustment != -10 {
		t.Errorf("AdjustDifficulty(45, 10).Adjustment = %f, want -10", got.Adjustment)
	}
	if !strings.Contains(got.Reason, "capped at minimum") {
		t.Errorf("reason %q does not mention the cap", got.Reason)
	}
}

func TestAdjustDifficultyStaysInRange(t *testing.T) {
	for score := 0.0; score <= 100; score += 5 {
		for current := 0.0; current <= 100; current += 5 {
			got := AdjustDifficulty(score, current)
			if got.NewDifficulty < 0 || got.NewDifficulty > 100 {
				t.Fatalf("AdjustDifficulty(%f, %f).NewDifficulty = %f out of range",
					score, current, got.NewDifficulty)
			}
			if math.Abs(got.Adjustment) > fullStep {
				t.Fatalf("AdjustDifficulty(%f, %f).Adjustment = %f exceeds the full step",
					score, current, got.Adjustment)
			}
		}
	}
}

func TestMapDifficultyToComplexity(t *testing.T) {
	tests := []struct {
		difficulty float64
		want       models.Complexity
	}{
		{0, models.ComplexityBasic},
		{39.9, models.ComplexityBasic},
		{40, models.ComplexityIntermediate},
		{69.9, models.ComplexityIntermediate},
		{70, models.ComplexityAdvanced},
		{100, models.ComplexityAdvanced},
	}

	for _, tt := range tests {
		if got := MapDifficultyToComplexity(tt.difficulty); got != tt.want {
			t.Errorf("MapDifficultyToComplexity(%f) = %s, want %s", tt.difficulty, got, tt.want)
		}
	}
}

func TestDifficultyRangeForComplexity(t *testing.T) {
	// Bands tile [0,100]: each band maps back to its own complexity
	for _, c := range []models.Complexity{
		models.ComplexityBasic, models.ComplexityIntermediate, models.ComplexityAdvanced,
	} {
		r := DifficultyRangeForComplexity(c)
		mid := (r.Min + r.Max) / 2
		if got := MapDifficultyToComplexity(mid); got != c {
			t.Errorf("midpoint of %s band maps to %s", c, got)
		}
		if !r.Contains(mid) {
			t.Errorf("%s band does not contain its own midpoint", c)
		}
	}

	// Bands are half-open except the top, which includes 100
	basic := DifficultyRangeForComplexity(models.ComplexityBasic)
	if basic.Contains(40) {
		t.Error("basic band should exclude its upper bound")
	}
	advanced := DifficultyRangeForComplexity(models.ComplexityAdvanced)
	if !advanced.Contains(100) {
		t.Error("advanced band should include 100")
	}

	// Unknown complexity falls back to the intermediate band
	fallback := DifficultyRangeForComplexity(models.Complexity("UNKNOWN"))
	if fallback.Min != 40 || fallback.Max != 70 {
		t.Errorf("unknown complexity → [%f,%f), want [40,70)", fallback.Min, fallback.Max)
	}
}
