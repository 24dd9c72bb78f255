package progress

import (
	"database/sql"
	"fmt"

	"github.com/adaptlearn/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetOrCreateProgress(userID int64) (*models.UserProgress, error) {
	var p models.UserProgress
	err := s.db.QueryRow(
		`INSERT INTO user_progress (user_id)
		 VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = $1
		 RETURNING user_id, responses_total, correct_total, assessments_completed,
		           questions_saved_total, objectives_mastered, updated_at`,
		userID,
	).Scan(&p.UserID, &p.ResponsesTotal, &p.CorrectTotal, &p.AssessmentsCompleted,
		&p.QuestionsSavedTotal, &p.ObjectivesMastered, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get or create progress: %w", err)
	}
	return &p, nil
}

func (s *Store) IncrementResponses(userID int64, correct bool) error {
	correctDelta := 0
	if correct {
		correctDelta = 1
	}
	_, err := s.db.Exec(
		`UPDATE user_progress
		 SET responses_total = responses_total + 1,
		     correct_total = correct_total + $1,
		     updated_at = NOW()
		 WHERE user_id = $2`,
		correctDelta, userID,
	)
	return err
}

// IncrementMastered bumps the mastered counter and returns the new count.
func (s *Store) IncrementMastered(userID int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		`UPDATE user_progress
		 SET objectives_mastered = objectives_mastered + 1, updated_at = NOW()
		 WHERE user_id = $1
		 RETURNING objectives_mastered`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment mastered: %w", err)
	}
	return count, nil
}

func (s *Store) RecordAssessmentCompletion(userID int64, questionsSaved int) error {
	_, err := s.db.Exec(
		`UPDATE user_progress
		 SET assessments_completed = assessments_completed + 1,
		     questions_saved_total = questions_saved_total + $1,
		     updated_at = NOW()
		 WHERE user_id = $2`,
		questionsSaved, userID,
	)
	return err
}

func (s *Store) LogMilestone(userID int64, milestone string) error {
	_, err := s.db.Exec(
		`INSERT INTO milestones (user_id, milestone)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, milestone) DO NOTHING`,
		userID, milestone,
	)
	return err
}

func (s *Store) GetMilestones(userID int64) ([]models.Milestone, error) {
	rows, err := s.db.Query(
		`SELECT milestone, earned_at FROM milestones WHERE user_id = $1 ORDER BY earned_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get milestones: %w", err)
	}
	defer rows.Close()

	var milestones []models.Milestone
	for rows.Next() {
		var m models.Milestone
		if err := rows.Scan(&m.Name, &m.EarnedAt); err != nil {
			return nil, err
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}
