package assessment

import (
	"math"
	"sort"
	"time"

	"github.com/adaptlearn/backend/internal/models"
)

// Criterion names one of the four mastery requirements.
type Criterion string

const (
	CriterionRecentScores      Criterion = "recent_scores"
	CriterionAssessmentVariety Criterion = "assessment_variety"
	CriterionTimeSpan          Criterion = "time_span"
	CriterionCalibration       Criterion = "confidence_calibration"
)

const (
	masteryWindowSize    = 3
	masteryScoreBar      = 80.0
	masteryMinTypes      = 2
	masteryMinSpan       = 48 * time.Hour
	calibrationTolerance = 15.0
)

// MasteryStatus is a tagged variant: an objective is either Mastered or
// InProgress with the unmet criteria listed. The sealed interface forces
// callers to handle both cases explicitly.
type MasteryStatus interface {
	masteryStatus()
}

type Mastered struct{}

// InProgress lists every unmet criterion, not just the first, so callers can
// present "what's left" guidance.
type InProgress struct {
	Missing []Criterion
}

func (Mastered) masteryStatus()   {}
func (InProgress) masteryStatus() {}

// CheckMastery evaluates the four mastery criteria over the three most
// recent responses for one objective:
//
//	A. each scores above 80
//	B. they span at least two distinct assessment types
//	C. earliest and latest are at least two days apart
//	D. every stated confidence lands within ±15 of the actual score
//
// Responses without a stated confidence do not fail D — missing data is not
// held against the learner.
func CheckMastery(history []models.ResponseRecord) MasteryStatus {
	ordered := make([]models.ResponseRecord, len(history))
	copy(ordered, history)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].RespondedAt.After(ordered[j].RespondedAt)
	})
	window := ordered
	if len(window) > masteryWindowSize {
		window = window[:masteryWindowSize]
	}

	var missing []Criterion

	if !recentScoresMet(window) {
		missing = append(missing, CriterionRecentScores)
	}
	if !varietyMet(window) {
		missing = append(missing, CriterionAssessmentVariety)
	}
	if !timeSpanMet(window) {
		missing = append(missing, CriterionTimeSpan)
	}
	if !calibrationMet(window) {
		missing = append(missing, CriterionCalibration)
	}

	if len(missing) > 0 {
		return InProgress{Missing: missing}
	}
	return Mastered{}
}

func recentScoresMet(window []models.ResponseRecord) bool {
	if len(window) < masteryWindowSize {
		return false
	}
	for _, r := range window {
		if r.Score <= masteryScoreBar {
			return false
		}
	}
	return true
}

func varietyMet(window []models.ResponseRecord) bool {
	types := make(map[models.AssessmentType]bool)
	for _, r := range window {
		types[r.AssessmentType] = true
	}
	return len(types) >= masteryMinTypes
}

func timeSpanMet(window []models.ResponseRecord) bool {
	if len(window) < 2 {
		return false
	}
	// window is newest-first
	return window[0].RespondedAt.Sub(window[len(window)-1].RespondedAt) >= masteryMinSpan
}

func calibrationMet(window []models.ResponseRecord) bool {
	for _, r := range window {
		if r.Confidence == nil {
			continue
		}
		if math.Abs(*r.Confidence-r.Score) > calibrationTolerance {
			return false
		}
	}
	return true
}

// FlattenMastery converts the tagged variant into the wire shape.
func FlattenMastery(status MasteryStatus) (verified bool, missing []string) {
	switch s := status.(type) {
	case Mastered:
		return true, []string{}
	case InProgress:
		out := make([]string, len(s.Missing))
		for i, c := range s.Missing {
			out[i] = string(c)
		}
		return false, out
	default:
		return false, []string{}
	}
}
