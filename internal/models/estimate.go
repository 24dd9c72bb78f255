package models

import "time"

// KnowledgeEstimate is the output of one ability estimation pass. It is
// produced fresh on every call; persistence is the caller's concern.
type KnowledgeEstimate struct {
	Theta              float64 `json:"theta"`
	StandardError      float64 `json:"standard_error"`
	ConfidenceInterval float64 `json:"confidence_interval"`
	Iterations         int     `json:"iterations"`
	ShouldStopEarly    bool    `json:"should_stop_early"`
}

type DifficultyAdjustment struct {
	NewDifficulty float64 `json:"new_difficulty"`
	Adjustment    float64 `json:"adjustment"`
	Reason        string  `json:"reason"`
}

type EfficiencyMetrics struct {
	QuestionsAsked    int `json:"questions_asked"`
	BaselineQuestions int `json:"baseline_questions"`
	QuestionsSaved    int `json:"questions_saved"`
	TimeSavedPct      int `json:"time_saved_pct"`
	EfficiencyScore   int `json:"efficiency_score"`
}

// ── Response Types ────────────────────────────────────────

type SubmitResponseResult struct {
	Estimate   *KnowledgeEstimate   `json:"estimate"`
	Adjustment DifficultyAdjustment `json:"adjustment"`
	Mastery    MasteryResponse      `json:"mastery"`
	ResponseID int64                `json:"response_id"`
}

type EstimateResponse struct {
	ObjectiveID string            `json:"objective_id"`
	Estimate    KnowledgeEstimate `json:"estimate"`
	SampleSize  int               `json:"sample_size"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
