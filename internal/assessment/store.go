package assessment

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/adaptlearn/backend/internal/models"
	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Response History ────────────────────────────────────

// GetResponseHistory returns up to limit responses for a user+objective,
// newest first.
func (s *Store) GetResponseHistory(userID int64, objectiveID string, limit int) ([]models.ResponseRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, objective_id, prompt_id, assessment_type,
		        difficulty, correct, score, confidence, responded_at
		 FROM response_records
		 WHERE user_id = $1 AND objective_id = $2
		 ORDER BY responded_at DESC
		 LIMIT $3`,
		userID, objectiveID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get response history: %w", err)
	}
	defer rows.Close()

	var records []models.ResponseRecord
	for rows.Next() {
		var r models.ResponseRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.ObjectiveID, &r.PromptID,
			&r.AssessmentType, &r.Difficulty, &r.Correct, &r.Score,
			&r.Confidence, &r.RespondedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) CountResponses(userID int64, objectiveID string) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM response_records WHERE user_id = $1 AND objective_id = $2`,
		userID, objectiveID,
	).Scan(&count)
	return count, err
}

func (s *Store) InsertResponse(r models.ResponseRecord) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		`INSERT INTO response_records
		   (user_id, objective_id, prompt_id, assessment_type, difficulty, correct, score, confidence, responded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		r.UserID, r.ObjectiveID, r.PromptID, r.AssessmentType,
		r.Difficulty, r.Correct, r.Score, r.Confidence, r.RespondedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert response: %w", err)
	}
	return id, nil
}

// GetPromptScores returns one score per responder for a prompt — the latest
// response from each user, so repeat attempts don't double-count.
func (s *Store) GetPromptScores(promptID int64) ([]float64, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT ON (user_id) score
		 FROM response_records
		 WHERE prompt_id = $1
		 ORDER BY user_id, responded_at DESC`,
		promptID,
	)
	if err != nil {
		return nil, fmt.Errorf("get prompt scores: %w", err)
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var score float64
		if err := rows.Scan(&score); err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

// GetRecentAnswerTimes maps prompt IDs to the user's latest answer time
// within the cooldown lookback.
func (s *Store) GetRecentAnswerTimes(userID int64, objectiveID string, since time.Time) (map[int64]time.Time, error) {
	rows, err := s.db.Query(
		`SELECT prompt_id, MAX(responded_at)
		 FROM response_records
		 WHERE user_id = $1 AND objective_id = $2 AND responded_at >= $3
		 GROUP BY prompt_id`,
		userID, objectiveID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("get recent answers: %w", err)
	}
	defer rows.Close()

	recent := make(map[int64]time.Time)
	for rows.Next() {
		var promptID int64
		var answeredAt time.Time
		if err := rows.Scan(&promptID, &answeredAt); err != nil {
			return nil, err
		}
		recent[promptID] = answeredAt
	}
	return recent, rows.Err()
}

// ── Question Pool ───────────────────────────────────────

func (s *Store) GetPrompt(promptID int64) (*models.QuestionRecord, error) {
	var q models.QuestionRecord
	err := s.db.QueryRow(
		`SELECT id, objective_id, content, difficulty_level, complexity,
		        times_used, last_used_at, discrimination_index, created_at
		 FROM prompts WHERE id = $1`,
		promptID,
	).Scan(&q.ID, &q.ObjectiveID, &q.Content, &q.DifficultyLevel, &q.Complexity,
		&q.TimesUsed, &q.LastUsedAt, &q.DiscriminationIndex, &q.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get prompt: %w", err)
	}
	return &q, nil
}

// GetQuestionPool returns all prompts for an objective inside a difficulty
// band. Fine-grained filtering (cooldown, discrimination) happens in the
// selector.
func (s *Store) GetQuestionPool(objectiveID string, minDiff, maxDiff float64) ([]models.QuestionRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, objective_id, content, difficulty_level, complexity,
		        times_used, last_used_at, discrimination_index, created_at
		 FROM prompts
		 WHERE objective_id = $1
		   AND difficulty_level >= $2
		   AND difficulty_level <= $3
		 ORDER BY times_used ASC, id ASC`,
		objectiveID, minDiff, maxDiff,
	)
	if err != nil {
		return nil, fmt.Errorf("get question pool: %w", err)
	}
	defer rows.Close()

	var pool []models.QuestionRecord
	for rows.Next() {
		var q models.QuestionRecord
		if err := rows.Scan(&q.ID, &q.ObjectiveID, &q.Content, &q.DifficultyLevel,
			&q.Complexity, &q.TimesUsed, &q.LastUsedAt, &q.DiscriminationIndex,
			&q.CreatedAt); err != nil {
			return nil, err
		}
		pool = append(pool, q)
	}
	return pool, rows.Err()
}

func (s *Store) IncrementPromptUsage(promptID int64) error {
	_, err := s.db.Exec(
		`UPDATE prompts SET times_used = times_used + 1, last_used_at = NOW() WHERE id = $1`,
		promptID,
	)
	return err
}

// ── Item Analysis ───────────────────────────────────────

type PromptResponseCount struct {
	PromptID int64
	Count    int
}

// GetPromptResponseCounts returns, for every prompt with at least one
// response, how many distinct users have answered it.
func (s *Store) GetPromptResponseCounts() ([]PromptResponseCount, error) {
	rows, err := s.db.Query(
		`SELECT prompt_id, COUNT(DISTINCT user_id)
		 FROM response_records
		 GROUP BY prompt_id
		 ORDER BY prompt_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("prompt response counts: %w", err)
	}
	defer rows.Close()

	var counts []PromptResponseCount
	for rows.Next() {
		var c PromptResponseCount
		if err := rows.Scan(&c.PromptID, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (s *Store) UpdateDiscrimination(promptID int64, index float64, weak bool) error {
	_, err := s.db.Exec(
		`UPDATE prompts SET discrimination_index = $1, weak = $2 WHERE id = $3`,
		index, weak, promptID,
	)
	return err
}

func (s *Store) GetWeakPrompts() ([]models.QuestionRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, objective_id, content, difficulty_level, complexity,
		        times_used, last_used_at, discrimination_index, created_at
		 FROM prompts
		 WHERE weak = TRUE
		 ORDER BY discrimination_index ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("get weak prompts: %w", err)
	}
	defer rows.Close()

	var prompts []models.QuestionRecord
	for rows.Next() {
		var q models.QuestionRecord
		if err := rows.Scan(&q.ID, &q.ObjectiveID, &q.Content, &q.DifficultyLevel,
			&q.Complexity, &q.TimesUsed, &q.LastUsedAt, &q.DiscriminationIndex,
			&q.CreatedAt); err != nil {
			return nil, err
		}
		prompts = append(prompts, q)
	}
	return prompts, rows.Err()
}

// ── Objective State ─────────────────────────────────────

// GetTargetDifficulty returns the stored target difficulty for a
// user+objective, or ok=false when none has been calibrated yet.
func (s *Store) GetTargetDifficulty(userID int64, objectiveID string) (float64, bool, error) {
	var difficulty float64
	err := s.db.QueryRow(
		`SELECT current_difficulty FROM objective_state WHERE user_id = $1 AND objective_id = $2`,
		userID, objectiveID,
	).Scan(&difficulty)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get target difficulty: %w", err)
	}
	return difficulty, true, nil
}

func (s *Store) UpsertTargetDifficulty(userID int64, objectiveID string, difficulty float64) error {
	_, err := s.db.Exec(
		`INSERT INTO objective_state (user_id, objective_id, current_difficulty, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (user_id, objective_id)
		 DO UPDATE SET current_difficulty = $3, updated_at = NOW()`,
		userID, objectiveID, difficulty,
	)
	return err
}

// ── Estimates & Mastery ─────────────────────────────────

func (s *Store) SaveEstimate(userID int64, objectiveID string, est models.KnowledgeEstimate, sampleSize int) error {
	_, err := s.db.Exec(
		`INSERT INTO knowledge_estimates
		   (user_id, objective_id, theta, standard_error, confidence_interval,
		    iterations, should_stop_early, sample_size)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		userID, objectiveID, est.Theta, est.StandardError, est.ConfidenceInterval,
		est.Iterations, est.ShouldStopEarly, sampleSize,
	)
	return err
}

func (s *Store) GetLatestEstimate(userID int64, objectiveID string) (*models.EstimateResponse, error) {
	var resp models.EstimateResponse
	resp.ObjectiveID = objectiveID
	err := s.db.QueryRow(
		`SELECT theta, standard_error, confidence_interval, iterations,
		        should_stop_early, sample_size, created_at
		 FROM knowledge_estimates
		 WHERE user_id = $1 AND objective_id = $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID, objectiveID,
	).Scan(&resp.Estimate.Theta, &resp.Estimate.StandardError,
		&resp.Estimate.ConfidenceInterval, &resp.Estimate.Iterations,
		&resp.Estimate.ShouldStopEarly, &resp.SampleSize, &resp.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest estimate: %w", err)
	}
	return &resp, nil
}

// UpsertMastery stores the latest mastery check and reports whether the
// objective was already verified before this write.
func (s *Store) UpsertMastery(userID int64, objectiveID string, verified bool, missing []string) (bool, error) {
	var previouslyVerified bool
	err := s.db.QueryRow(
		`SELECT verified FROM mastery_records WHERE user_id = $1 AND objective_id = $2`,
		userID, objectiveID,
	).Scan(&previouslyVerified)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("check mastery: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO mastery_records (user_id, objective_id, verified, missing_criteria, checked_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (user_id, objective_id)
		 DO UPDATE SET verified = $3, missing_criteria = $4, checked_at = NOW()`,
		userID, objectiveID, verified, pq.Array(missing),
	)
	if err != nil {
		return false, fmt.Errorf("upsert mastery: %w", err)
	}
	return previouslyVerified, nil
}

func (s *Store) GetMastery(userID int64, objectiveID string) (*models.MasteryResponse, error) {
	var resp models.MasteryResponse
	resp.ObjectiveID = objectiveID
	var missing []string
	err := s.db.QueryRow(
		`SELECT verified, missing_criteria, checked_at
		 FROM mastery_records WHERE user_id = $1 AND objective_id = $2`,
		userID, objectiveID,
	).Scan(&resp.Verified, pq.Array(&missing), &resp.CheckedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get mastery: %w", err)
	}
	if missing == nil {
		missing = []string{}
	}
	resp.MissingCriteria = missing
	return &resp, nil
}
