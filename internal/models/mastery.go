package models

import "time"

// MasteryResponse is the wire shape for a mastery check. The engine itself
// works with the tagged assessment.MasteryStatus variant; handlers flatten it
// to this for JSON.
type MasteryResponse struct {
	ObjectiveID     string    `json:"objective_id"`
	Verified        bool      `json:"verified"`
	MissingCriteria []string  `json:"missing_criteria"`
	CheckedAt       time.Time `json:"checked_at"`
}
