package progress

import (
	"log"

	"github.com/adaptlearn/backend/internal/models"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// RecordResponse updates lifetime answer counters. Failures are logged, not
// returned — progress tracking never blocks the assessment path.
func (s *Service) RecordResponse(userID int64, correct bool) {
	if _, err := s.store.GetOrCreateProgress(userID); err != nil {
		log.Printf("WARN: failed to ensure progress row for user %d: %v", userID, err)
		return
	}
	if err := s.store.IncrementResponses(userID, correct); err != nil {
		log.Printf("WARN: failed to record response for user %d: %v", userID, err)
	}
}

// RecordMastery bumps the mastered-objectives counter and awards any
// milestone earned at the new count.
func (s *Service) RecordMastery(userID int64) {
	if _, err := s.store.GetOrCreateProgress(userID); err != nil {
		log.Printf("WARN: failed to ensure progress row for user %d: %v", userID, err)
		return
	}
	count, err := s.store.IncrementMastered(userID)
	if err != nil {
		log.Printf("WARN: failed to record mastery for user %d: %v", userID, err)
		return
	}
	if milestone, ok := MilestoneForMastered(count); ok {
		if err := s.store.LogMilestone(userID, milestone); err != nil {
			log.Printf("WARN: failed to log milestone %q for user %d: %v", milestone, userID, err)
		} else {
			log.Printf("[progress] User %d earned milestone: %s", userID, milestone)
		}
	}
}

// RecordAssessment credits a completed adaptive assessment and the questions
// it saved versus a fixed-length quiz.
func (s *Service) RecordAssessment(userID int64, metrics models.EfficiencyMetrics) {
	if _, err := s.store.GetOrCreateProgress(userID); err != nil {
		log.Printf("WARN: failed to ensure progress row for user %d: %v", userID, err)
		return
	}
	if err := s.store.RecordAssessmentCompletion(userID, metrics.QuestionsSaved); err != nil {
		log.Printf("WARN: failed to record assessment for user %d: %v", userID, err)
	}
}

// GetSummary assembles the full progress view for a user.
func (s *Service) GetSummary(userID int64) (*models.ProgressSummary, error) {
	prog, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, err
	}
	milestones, err := s.store.GetMilestones(userID)
	if err != nil {
		return nil, err
	}
	if milestones == nil {
		milestones = []models.Milestone{}
	}
	return &models.ProgressSummary{
		Progress:       *prog,
		EfficiencyTier: EfficiencyTier(prog.QuestionsSavedTotal),
		Milestones:     milestones,
	}, nil
}
