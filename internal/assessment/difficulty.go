package assessment

import (
	"math"
	"sort"

	"github.com/adaptlearn/backend/internal/models"
)

const (
	defaultDifficulty = 50.0

	// recencyDecay is the per-step weight falloff when averaging past scores,
	// newest first. Five responses back a score carries about a third of the
	// weight of the latest one.
	recencyDecay = 0.8

	strongHistoryBar   = 90.0
	weakHistoryBar     = 70.0
	calibrationShift   = 10.0
	excellentScoreBar  = 80.0
	strugglingScoreBar = 60.0
	fullStep           = 15.0
)

// InitialDifficulty calibrates a starting difficulty from past scores for the
// same user and objective. No history yields the 50-point default; a strong
// recency-weighted average shifts the start up, a weak one down.
func InitialDifficulty(history []models.ResponseRecord) float64 {
	if len(history) == 0 {
		return defaultDifficulty
	}

	ordered := make([]models.ResponseRecord, len(history))
	copy(ordered, history)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].RespondedAt.After(ordered[j].RespondedAt)
	})

	weight := 1.0
	weightedSum := 0.0
	totalWeight := 0.0
	for _, r := range ordered {
		weightedSum += clamp(r.Score, 0, 100) * weight
		totalWeight += weight
		weight *= recencyDecay
	}
	avg := weightedSum / totalWeight

	difficulty := defaultDifficulty
	if avg >= strongHistoryBar {
		difficulty += calibrationShift
	} else if avg < weakHistoryBar {
		difficulty -= calibrationShift
	}
	return clamp(difficulty, 0, 100)
}

// AdjustDifficulty moves the target difficulty in response to one scored
// answer. Scores above 80 take a full +15 step, below 60 a full -15; inside
// the 60-80 band the move is a small bump that is zero at 60, 70, and 80 and
// peaks at ±5 halfway between — band-edge scores are ambiguous evidence, so
// they hold steady rather than half-stepping.
func AdjustDifficulty(score, currentDifficulty float64) models.DifficultyAdjustment {
	score = clamp(score, 0, 100)
	currentDifficulty = clamp(currentDifficulty, 0, 100)

	var adjustment float64
	var reason string
	switch {
	case score > excellentScoreBar:
		adjustment = fullStep
		reason = "Excellent performance, increasing difficulty"
	case score < strugglingScoreBar:
		adjustment = -fullStep
		reason = "Needs more practice, reducing difficulty"
	default:
		adjustment = solidBandAdjustment(score)
		reason = "Solid performance, fine-tuning difficulty"
	}

	newDifficulty := currentDifficulty + adjustment
	if newDifficulty > 100 {
		newDifficulty = 100
		reason += " (capped at maximum)"
	} else if newDifficulty < 0 {
		newDifficulty = 0
		reason += " (capped at minimum)"
	}

	return models.DifficultyAdjustment{
		NewDifficulty: newDifficulty,
		Adjustment:    newDifficulty - currentDifficulty,
		Reason:        reason,
	}
}

// solidBandAdjustment interpolates within the 60-80 band: a piecewise-linear
// bump proportional to the distance from the nearest anchor (60, 70, 80),
// signed away from the 70 midpoint. 65 -> -5, 75 -> +5, anchors -> 0.
func solidBandAdjustment(score float64) float64 {
	d := score - 70
	magnitude := math.Min(math.Abs(d), 10-math.Abs(d))
	if magnitude < 0 {
		magnitude = 0
	}
	if d < 0 {
		return -magnitude
	}
	return magnitude
}

// ── Complexity Bands ─────────────────────────────────────

// ComplexityRange is a half-open difficulty band [Min, Max), except the
// top band which includes 100.
type ComplexityRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether d falls inside the band.
func (r ComplexityRange) Contains(d float64) bool {
	if r.Max >= 100 {
		return d >= r.Min && d <= r.Max
	}
	return d >= r.Min && d < r.Max
}

// MapDifficultyToComplexity buckets a difficulty into the three complexity
// bands: BASIC [0,40), INTERMEDIATE [40,70), ADVANCED [70,100].
func MapDifficultyToComplexity(difficulty float64) models.Complexity {
	difficulty = clamp(difficulty, 0, 100)
	switch {
	case difficulty < 40:
		return models.ComplexityBasic
	case difficulty < 70:
		return models.ComplexityIntermediate
	default:
		return models.ComplexityAdvanced
	}
}

// DifficultyRangeForComplexity is the inverse of MapDifficultyToComplexity;
// unknown complexities fall back to the intermediate band.
func DifficultyRangeForComplexity(complexity models.Complexity) ComplexityRange {
	switch complexity {
	case models.ComplexityBasic:
		return ComplexityRange{Min: 0, Max: 40}
	case models.ComplexityAdvanced:
		return ComplexityRange{Min: 70, Max: 100}
	default:
		return ComplexityRange{Min: 40, Max: 70}
	}
}
