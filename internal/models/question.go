package models

import "time"

type Complexity string

const (
	ComplexityBasic        Complexity = "BASIC"
	ComplexityIntermediate Complexity = "INTERMEDIATE"
	ComplexityAdvanced     Complexity = "ADVANCED"
)

var ValidComplexities = map[Complexity]bool{
	ComplexityBasic:        true,
	ComplexityIntermediate: true,
	ComplexityAdvanced:     true,
}

// QuestionRecord is one servable prompt from the pool. DiscriminationIndex is
// nil until at least 20 responses have been collected for the prompt.
type QuestionRecord struct {
	ID                  int64      `json:"id"`
	ObjectiveID         string     `json:"objective_id"`
	Content             string     `json:"content"`
	DifficultyLevel     float64    `json:"difficulty_level"`
	Complexity          Complexity `json:"complexity"`
	TimesUsed           int        `json:"times_used"`
	LastUsedAt          *time.Time `json:"last_used_at,omitempty"`
	DiscriminationIndex *float64   `json:"discrimination_index,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// QuestionCriteria is a pool query, not an entity.
type QuestionCriteria struct {
	UserID      int64      `json:"user_id"`
	ObjectiveID string     `json:"objective_id"`
	Difficulty  float64    `json:"difficulty"`
	Complexity  Complexity `json:"complexity"`
}

// ── Response Types ────────────────────────────────────────

type NextQuestionResponse struct {
	Question         *QuestionRecord `json:"question"`
	TargetDifficulty float64         `json:"target_difficulty"`
	Complexity       Complexity      `json:"complexity"`
	PoolExhausted    bool            `json:"pool_exhausted"`
}

type ItemAnalysis struct {
	PromptID            int64    `json:"prompt_id"`
	ResponseCount       int      `json:"response_count"`
	DiscriminationIndex *float64 `json:"discrimination_index,omitempty"`
	Weak                bool     `json:"weak"`
}

type ItemAnalysisReport struct {
	Items       []ItemAnalysis `json:"items"`
	Analyzed    int            `json:"analyzed"`
	Flagged     int            `json:"flagged"`
	Skipped     int            `json:"skipped"`
	RefreshedAt time.Time      `json:"refreshed_at"`
}
