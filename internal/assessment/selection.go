package assessment

import (
	"math"
	"sort"
	"time"

	"github.com/adaptlearn/backend/internal/models"
)

const (
	// difficultyWindow is the half-width of the candidate band around the
	// target difficulty.
	difficultyWindow = 10.0

	// cooldownWindow is how long a prompt stays off-limits for a user after
	// they answer it.
	cooldownWindow = 14 * 24 * time.Hour
)

// WithinDifficultyWindow reports whether the prompt sits within ±10 points
// of the requested difficulty.
func WithinDifficultyWindow(q models.QuestionRecord, target float64) bool {
	return math.Abs(q.DifficultyLevel-clamp(target, 0, 100)) <= difficultyWindow
}

// OffCooldown reports whether the user has not answered the prompt within
// the cooldown window. recentAnswers maps prompt IDs to the user's most
// recent answer time.
func OffCooldown(q models.QuestionRecord, recentAnswers map[int64]time.Time, now time.Time) bool {
	answeredAt, seen := recentAnswers[q.ID]
	if !seen {
		return true
	}
	return now.Sub(answeredAt) >= cooldownWindow
}

// Discriminating reports whether the prompt separates strong and weak
// performers well enough to serve. Prompts with no computed index yet are
// eligible — lack of data is not evidence of weakness.
func Discriminating(q models.QuestionRecord) bool {
	if q.DiscriminationIndex == nil {
		return true
	}
	return *q.DiscriminationIndex >= weakDiscriminationThreshold
}

// SelectQuestion picks the best prompt for the criteria: inside the
// difficulty window, off cooldown for the user, and adequately
// discriminating. Among survivors the least-used prompt wins, to spread
// exposure. A nil result means the pool is exhausted and the caller should
// source fresh content — that is a normal outcome, not an error.
func SelectQuestion(criteria models.QuestionCriteria, pool []models.QuestionRecord, recentAnswers map[int64]time.Time, now time.Time) *models.QuestionRecord {
	var eligible []models.QuestionRecord
	for _, q := range pool {
		if WithinDifficultyWindow(q, criteria.Difficulty) &&
			OffCooldown(q, recentAnswers, now) &&
			Discriminating(q) {
			eligible = append(eligible, q)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].TimesUsed != eligible[j].TimesUsed {
			return eligible[i].TimesUsed < eligible[j].TimesUsed
		}
		return eligible[i].ID < eligible[j].ID
	})

	pick := eligible[0]
	return &pick
}
