package models

import "time"

type AssessmentType string

const (
	AssessmentRecall      AssessmentType = "recall"
	AssessmentApplication AssessmentType = "application"
	AssessmentScenario    AssessmentType = "scenario"
	AssessmentReview      AssessmentType = "review"
)

var ValidAssessmentTypes = map[AssessmentType]bool{
	AssessmentRecall:      true,
	AssessmentApplication: true,
	AssessmentScenario:    true,
	AssessmentReview:      true,
}

// ResponseRecord is one evaluated answer to a prompt. Records are created by
// the external evaluator and never mutated afterwards; the score and the
// optional stated confidence are both on the 0-100 scale.
type ResponseRecord struct {
	ID             int64          `json:"id"`
	UserID         int64          `json:"user_id"`
	ObjectiveID    string         `json:"objective_id"`
	PromptID       int64          `json:"prompt_id"`
	AssessmentType AssessmentType `json:"assessment_type"`
	Difficulty     float64        `json:"difficulty"`
	Correct        bool           `json:"correct"`
	Score          float64        `json:"score"`
	Confidence     *float64       `json:"confidence,omitempty"`
	RespondedAt    time.Time      `json:"responded_at"`
}

// ── Request Types ────────────────────────────────────────

type SubmitResponseRequest struct {
	PromptID       int64    `json:"prompt_id"`
	AssessmentType string   `json:"assessment_type"`
	Correct        bool     `json:"correct"`
	Score          float64  `json:"score"`
	Confidence     *float64 `json:"confidence,omitempty"`
}
