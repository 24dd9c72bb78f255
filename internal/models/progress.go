package models

import "time"

type UserProgress struct {
	UserID               int64     `json:"user_id"`
	ResponsesTotal       int       `json:"responses_total"`
	CorrectTotal         int       `json:"correct_total"`
	AssessmentsCompleted int       `json:"assessments_completed"`
	QuestionsSavedTotal  int       `json:"questions_saved_total"`
	ObjectivesMastered   int       `json:"objectives_mastered"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type Milestone struct {
	Name     string    `json:"name"`
	EarnedAt time.Time `json:"earned_at"`
}

type ProgressSummary struct {
	Progress       UserProgress `json:"progress"`
	EfficiencyTier string       `json:"efficiency_tier"`
	Milestones     []Milestone  `json:"milestones"`
}
