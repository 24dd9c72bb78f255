package assessment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/adaptlearn/backend/internal/models"
	"github.com/adaptlearn/backend/internal/progress"
)

// ErrPromptNotFound is returned when a response references an unknown prompt.
var ErrPromptNotFound = errors.New("prompt not found")

// historyFetchLimit bounds how much history feeds one estimation pass. The
// Newton-Raphson loop is cheap, but ancient responses say little about
// current ability.
const historyFetchLimit = 50

// itemAnalysisInterval is how often the background worker recomputes
// discrimination indices.
const itemAnalysisInterval = 10 * time.Minute

type Service struct {
	store       *Store
	progService *progress.Service
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// SetProgressService injects the progress service for counter/milestone tracking.
func (s *Service) SetProgressService(ps *progress.Service) {
	s.progService = ps
}

// ── Question Serving ────────────────────────────────────

// NextQuestion computes the target difficulty for a user+objective and picks
// the best matching prompt. A nil Question with PoolExhausted set means the
// caller should source fresh content.
func (s *Service) NextQuestion(userID int64, objectiveID string) (*models.NextQuestionResponse, error) {
	target, err := s.targetDifficulty(userID, objectiveID)
	if err != nil {
		return nil, err
	}

	pool, err := s.store.GetQuestionPool(objectiveID,
		clamp(target-difficultyWindow, 0, 100),
		clamp(target+difficultyWindow, 0, 100))
	if err != nil {
		return nil, fmt.Errorf("next question: %w", err)
	}

	now := time.Now().UTC()
	recent, err := s.store.GetRecentAnswerTimes(userID, objectiveID, now.Add(-cooldownWindow))
	if err != nil {
		return nil, fmt.Errorf("next question: %w", err)
	}

	criteria := models.QuestionCriteria{
		UserID:      userID,
		ObjectiveID: objectiveID,
		Difficulty:  target,
		Complexity:  MapDifficultyToComplexity(target),
	}

	question := SelectQuestion(criteria, pool, recent, now)
	if question != nil {
		if err := s.store.IncrementPromptUsage(question.ID); err != nil {
			log.Printf("WARN: failed to increment usage for prompt %d: %v", question.ID, err)
		}
	}

	return &models.NextQuestionResponse{
		Question:         question,
		TargetDifficulty: target,
		Complexity:       criteria.Complexity,
		PoolExhausted:    question == nil,
	}, nil
}

// targetDifficulty returns the stored per-objective difficulty, calibrating
// an initial one from history on first contact.
func (s *Service) targetDifficulty(userID int64, objectiveID string) (float64, error) {
	stored, ok, err := s.store.GetTargetDifficulty(userID, objectiveID)
	if err != nil {
		return 0, err
	}
	if ok {
		return stored, nil
	}

	history, err := s.store.GetResponseHistory(userID, objectiveID, historyFetchLimit)
	if err != nil {
		return 0, fmt.Errorf("calibrate difficulty: %w", err)
	}
	target := InitialDifficulty(history)
	if err := s.store.UpsertTargetDifficulty(userID, objectiveID, target); err != nil {
		log.Printf("WARN: failed to persist initial difficulty for user %d: %v", userID, err)
	}
	return target, nil
}

// ── Response Submission ─────────────────────────────────

// SubmitResponse records an evaluated answer and runs the full update pass:
// difficulty adjustment, ability re-estimation, mastery check, and progress
// counters. Scoring itself happened upstream — the record arrives with its
// 0-100 score already assigned.
func (s *Service) SubmitResponse(userID int64, objectiveID string, req models.SubmitResponseRequest) (*models.SubmitResponseResult, error) {
	prompt, err := s.store.GetPrompt(req.PromptID)
	if err != nil {
		return nil, err
	}
	if prompt == nil {
		return nil, ErrPromptNotFound
	}

	current, err := s.targetDifficulty(userID, objectiveID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := models.ResponseRecord{
		UserID:         userID,
		ObjectiveID:    objectiveID,
		PromptID:       req.PromptID,
		AssessmentType: models.AssessmentType(req.AssessmentType),
		Difficulty:     prompt.DifficultyLevel,
		Correct:        req.Correct,
		Score:          clamp(req.Score, 0, 100),
		Confidence:     req.Confidence,
		RespondedAt:    now,
	}
	responseID, err := s.store.InsertResponse(record)
	if err != nil {
		return nil, err
	}

	adjustment := AdjustDifficulty(record.Score, current)
	if err := s.store.UpsertTargetDifficulty(userID, objectiveID, adjustment.NewDifficulty); err != nil {
		log.Printf("WARN: failed to persist adjusted difficulty for user %d: %v", userID, err)
	}

	history, err := s.store.GetResponseHistory(userID, objectiveID, historyFetchLimit)
	if err != nil {
		return nil, err
	}

	estimate, err := EstimateKnowledgeLevel(history)
	if err != nil {
		return nil, fmt.Errorf("estimate after submit: %w", err)
	}

	previous, err := s.store.GetLatestEstimate(userID, objectiveID)
	if err != nil {
		log.Printf("WARN: failed to load previous estimate: %v", err)
	}
	if err := s.store.SaveEstimate(userID, objectiveID, *estimate, len(history)); err != nil {
		log.Printf("WARN: failed to persist estimate: %v", err)
	}

	verified, missing := FlattenMastery(CheckMastery(history))
	previouslyVerified, err := s.store.UpsertMastery(userID, objectiveID, verified, missing)
	if err != nil {
		log.Printf("WARN: failed to persist mastery status: %v", err)
	}

	if s.progService != nil {
		s.progService.RecordResponse(userID, record.Correct)
		if verified && !previouslyVerified {
			s.progService.RecordMastery(userID)
		}
		if estimate.ShouldStopEarly && (previous == nil || !previous.Estimate.ShouldStopEarly) {
			s.progService.RecordAssessment(userID, CalculateEfficiencyMetrics(len(history)))
		}
	}

	return &models.SubmitResponseResult{
		Estimate:   estimate,
		Adjustment: adjustment,
		Mastery: models.MasteryResponse{
			ObjectiveID:     objectiveID,
			Verified:        verified,
			MissingCriteria: missing,
			CheckedAt:       now,
		},
		ResponseID: responseID,
	}, nil
}

// ── Read Paths ──────────────────────────────────────────

// GetEstimate recomputes the ability estimate from current history. Returns
// ErrNoResponses when the user has no history for the objective.
func (s *Service) GetEstimate(userID int64, objectiveID string) (*models.EstimateResponse, error) {
	history, err := s.store.GetResponseHistory(userID, objectiveID, historyFetchLimit)
	if err != nil {
		return nil, err
	}
	estimate, err := EstimateKnowledgeLevel(history)
	if err != nil {
		return nil, err
	}
	return &models.EstimateResponse{
		ObjectiveID: objectiveID,
		Estimate:    *estimate,
		SampleSize:  len(history),
		UpdatedAt:   time.Now().UTC(),
	}, nil
}

func (s *Service) GetMasteryStatus(userID int64, objectiveID string) (*models.MasteryResponse, error) {
	history, err := s.store.GetResponseHistory(userID, objectiveID, historyFetchLimit)
	if err != nil {
		return nil, err
	}
	verified, missing := FlattenMastery(CheckMastery(history))
	return &models.MasteryResponse{
		ObjectiveID:     objectiveID,
		Verified:        verified,
		MissingCriteria: missing,
		CheckedAt:       time.Now().UTC(),
	}, nil
}

func (s *Service) GetEfficiency(userID int64, objectiveID string) (models.EfficiencyMetrics, error) {
	count, err := s.store.CountResponses(userID, objectiveID)
	if err != nil {
		return models.EfficiencyMetrics{}, err
	}
	return CalculateEfficiencyMetrics(count), nil
}

// ── Item Analysis ───────────────────────────────────────

// RefreshItemAnalysis recomputes the discrimination index for every prompt
// with enough responses and flags weak items. Under-sampled prompts are
// counted as skipped and left untouched.
func (s *Service) RefreshItemAnalysis() (*models.ItemAnalysisReport, error) {
	counts, err := s.store.GetPromptResponseCounts()
	if err != nil {
		return nil, err
	}

	report := &models.ItemAnalysisReport{
		Items:       []models.ItemAnalysis{},
		RefreshedAt: time.Now().UTC(),
	}

	for _, c := range counts {
		item := models.ItemAnalysis{PromptID: c.PromptID, ResponseCount: c.Count}

		if c.Count < minResponsesForDiscrimination {
			report.Skipped++
			report.Items = append(report.Items, item)
			continue
		}

		scores, err := s.store.GetPromptScores(c.PromptID)
		if err != nil {
			log.Printf("[item-analysis] failed to load scores for prompt %d: %v", c.PromptID, err)
			continue
		}

		index, ok := CalculateDiscrimination(scores)
		if !ok {
			report.Skipped++
			report.Items = append(report.Items, item)
			continue
		}

		weak := index < weakDiscriminationThreshold
		if err := s.store.UpdateDiscrimination(c.PromptID, index, weak); err != nil {
			log.Printf("[item-analysis] failed to update prompt %d: %v", c.PromptID, err)
			continue
		}

		item.DiscriminationIndex = &index
		item.Weak = weak
		report.Analyzed++
		if weak {
			report.Flagged++
		}
		report.Items = append(report.Items, item)
	}

	return report, nil
}

func (s *Service) GetWeakItems() ([]models.QuestionRecord, error) {
	return s.store.GetWeakPrompts()
}

// StartItemAnalysisWorker periodically refreshes discrimination indices
// until the context is cancelled.
func (s *Service) StartItemAnalysisWorker(ctx context.Context) {
	ticker := time.NewTicker(itemAnalysisInterval)
	defer ticker.Stop()

	log.Println("[item-analysis] Background worker started")

	for {
		select {
		case <-ctx.Done():
			log.Println("[item-analysis] Shutting down")
			return
		case <-ticker.C:
			report, err := s.RefreshItemAnalysis()
			if err != nil {
				log.Printf("[item-analysis] refresh failed: %v", err)
				continue
			}
			log.Printf("[item-analysis] analyzed=%d flagged=%d skipped=%d",
				report.Analyzed, report.Flagged, report.Skipped)
		}
	}
}
