// internal/store/sqlite_quiz.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/domain/studyset"
)

// ============================================================================
// Quizzes
// ============================================================================

func (s *SQLiteStore) SaveQuiz(ctx context.Context, qz *quiz.Quiz) error {
	questions, err := json.Marshal(qz.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quizzes (id, subject_id, note_ids, title, description, questions, source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		qz.ID, qz.SubjectID, marshalStrings(qz.NoteIDs), qz.Title, qz.Description,
		string(questions), string(qz.Source),
		formatTime(qz.CreatedAt), formatTime(qz.UpdatedAt),
	)
	return err
}

func (s *SQLiteStore) GetQuiz(ctx context.Context, id string) (*quiz.Quiz, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, subject_id, note_ids, title, description, questions, source, created_at, updated_at
		 FROM quizzes WHERE id = ?`, id)
	return scanQuiz(row)
}

func (s *SQLiteStore) ListQuizzes(ctx context.Context) ([]*quiz.Quiz, error) {
	return s.queryQuizzes(ctx,
		`SELECT id, subject_id, note_ids, title, description, questions, source, created_at, updated_at
		 FROM quizzes ORDER BY created_at`)
}

func (s *SQLiteStore) ListQuizzesBySubject(ctx context.Context, subjectID string) ([]*quiz.Quiz, error) {
	return s.queryQuizzes(ctx,
		`SELECT id, subject_id, note_ids, title, description, questions, source, created_at, updated_at
		 FROM quizzes WHERE subject_id = ? ORDER BY created_at`, subjectID)
}

// UpdateQuiz rewrites the whole quiz record, embedded questions included.
// Questions are not independently addressable at the storage layer.
func (s *SQLiteStore) UpdateQuiz(ctx context.Context, qz *quiz.Quiz) error {
	questions, err := json.Marshal(qz.Questions)
	if err != nil {
		return err
	}
	qz.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`UPDATE quizzes SET subject_id = ?, note_ids = ?, title = ?, description = ?, questions = ?, updated_at = ?
		 WHERE id = ?`,
		qz.SubjectID, marshalStrings(qz.NoteIDs), qz.Title, qz.Description,
		string(questions), formatTime(qz.UpdatedAt), qz.ID,
	)
	if err != nil {
		return err
	}
	return requireRows(result)
}

// DeleteQuiz removes a quiz and cascades to its attempt history.
func (s *SQLiteStore) DeleteQuiz(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM quiz_attempts WHERE quiz_id = ?", id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM quizzes WHERE id = ?", id)
	if err != nil {
		return err
	}
	if err := requireRows(result); err != nil {
		return err
	}

	return tx.Commit()
}

// ============================================================================
// Embedded questions
// ============================================================================

// AddQuizQuestion appends a question to the quiz's embedded array. The
// question gets an ID if it arrived without one; display order is append order.
func (s *SQLiteStore) AddQuizQuestion(ctx context.Context, quizID string, q quiz.Question) (*quiz.Quiz, error) {
	qz, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	qz.Questions = append(qz.Questions, q)
	if err := s.UpdateQuiz(ctx, qz); err != nil {
		return nil, err
	}
	return qz, nil
}

// UpdateQuizQuestion replaces the question with the given ID in place,
// preserving array order.
func (s *SQLiteStore) UpdateQuizQuestion(ctx context.Context, quizID, questionID string, q quiz.Question) (*quiz.Quiz, error) {
	qz, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	q.ID = questionID
	if err := q.Validate(); err != nil {
		return nil, err
	}

	replaced := false
	for i := range qz.Questions {
		if qz.Questions[i].ID == questionID {
			qz.Questions[i] = q
			replaced = true
			break
		}
	}
	if !replaced {
		return nil, ErrNotFound
	}

	if err := s.UpdateQuiz(ctx, qz); err != nil {
		return nil, err
	}
	return qz, nil
}

// DeleteQuizQuestion removes the question with the given ID from the
// embedded array.
func (s *SQLiteStore) DeleteQuizQuestion(ctx context.Context, quizID, questionID string) (*quiz.Quiz, error) {
	qz, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	kept := qz.Questions[:0]
	removed := false
	for _, q := range qz.Questions {
		if q.ID == questionID {
			removed = true
			continue
		}
		kept = append(kept, q)
	}
	if !removed {
		return nil, ErrNotFound
	}
	qz.Questions = kept

	if err := s.UpdateQuiz(ctx, qz); err != nil {
		return nil, err
	}
	return qz, nil
}

// ============================================================================
// Attempts
// ============================================================================

// SaveAttempt appends one attempt to a quiz's history. The referenced quiz
// must exist; attempts are never updated afterwards.
func (s *SQLiteStore) SaveAttempt(ctx context.Context, attempt *quiz.Attempt) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM quizzes WHERE id = ?)", attempt.QuizID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz_attempts (id, quiz_id, score, total_questions, answers, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		attempt.ID, attempt.QuizID, attempt.Score, attempt.TotalQuestions,
		string(answers), formatTime(attempt.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) ListAttempts(ctx context.Context, quizID string) ([]*quiz.Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, quiz_id, score, total_questions, answers, created_at
		 FROM quiz_attempts WHERE quiz_id = ? ORDER BY created_at`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []*quiz.Attempt
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	return attempts, rows.Err()
}

// BestAttempt reduces the quiz's history by score ratio. Equal ratios
// resolve to the earliest attempt, so the reduction is deterministic.
func (s *SQLiteStore) BestAttempt(ctx context.Context, quizID string) (*quiz.Attempt, error) {
	attempts, err := s.ListAttempts(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(attempts) == 0 {
		return nil, ErrNotFound
	}

	best := attempts[0]
	for _, attempt := range attempts[1:] {
		if attempt.Ratio() > best.Ratio() {
			best = attempt
		}
	}
	return best, nil
}

// LatestAttempt returns the most recently created attempt.
func (s *SQLiteStore) LatestAttempt(ctx context.Context, quizID string) (*quiz.Attempt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, quiz_id, score, total_questions, answers, created_at
		 FROM quiz_attempts WHERE quiz_id = ? ORDER BY created_at DESC LIMIT 1`, quizID)
	return scanAttempt(row)
}

// ============================================================================
// Scan helpers
// ============================================================================

func scanQuiz(row rowScanner) (*quiz.Quiz, error) {
	var qz quiz.Quiz
	var noteIDs, questions, source, createdAt, updatedAt string

	err := row.Scan(&qz.ID, &qz.SubjectID, &noteIDs, &qz.Title, &qz.Description,
		&questions, &source, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	qz.NoteIDs = unmarshalStrings(noteIDs)
	if err := json.Unmarshal([]byte(questions), &qz.Questions); err != nil {
		return nil, err
	}
	qz.Source = studyset.Source(source)
	qz.CreatedAt = parseTime(createdAt)
	qz.UpdatedAt = parseTime(updatedAt)
	return &qz, nil
}

func scanAttempt(row rowScanner) (*quiz.Attempt, error) {
	var attempt quiz.Attempt
	var answers, createdAt string

	err := row.Scan(&attempt.ID, &attempt.QuizID, &attempt.Score,
		&attempt.TotalQuestions, &answers, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(answers), &attempt.Answers); err != nil {
		return nil, err
	}
	attempt.CreatedAt = parseTime(createdAt)
	return &attempt, nil
}

func (s *SQLiteStore) queryQuizzes(ctx context.Context, query string, args ...any) ([]*quiz.Quiz, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []*quiz.Quiz
	for rows.Next() {
		qz, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, qz)
	}
	return quizzes, rows.Err()
}
