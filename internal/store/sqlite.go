// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/studyhub/backend/internal/domain/studyset"
)

const schema = `
CREATE TABLE IF NOT EXISTS flashcard_sets (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    subject_id TEXT NOT NULL,
    note_ids TEXT NOT NULL,
    source TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS flashcards (
    id TEXT PRIMARY KEY,
    set_id TEXT NOT NULL,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    learned INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (set_id) REFERENCES flashcard_sets(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS quizzes (
    id TEXT PRIMARY KEY,
    subject_id TEXT NOT NULL,
    note_ids TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    questions TEXT NOT NULL,
    source TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS quiz_attempts (
    id TEXT PRIMARY KEY,
    quiz_id TEXT NOT NULL,
    score INTEGER NOT NULL,
    total_questions INTEGER NOT NULL,
    answers TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (quiz_id) REFERENCES quizzes(id) ON DELETE CASCADE
);
`

// SQLiteStore owns all study material persistence. Operations are
// synchronous read-modify-write; there is no multi-writer scenario for a
// single-user local-first system, so no extra locking is layered on top of
// the database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at dbPath.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func marshalStrings(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func unmarshalStrings(s string) []string {
	var v []string
	_ = json.Unmarshal([]byte(s), &v)
	return v
}

// ============================================================================
// Flashcard sets
// ============================================================================

func (s *SQLiteStore) SaveSet(ctx context.Context, set *studyset.FlashcardSet) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO flashcard_sets (id, title, description, subject_id, note_ids, source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		set.ID, set.Title, set.Description, set.SubjectID,
		marshalStrings(set.NoteIDs), string(set.Source),
		formatTime(set.CreatedAt), formatTime(set.UpdatedAt),
	)
	return err
}

func (s *SQLiteStore) GetSet(ctx context.Context, id string) (*studyset.FlashcardSet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, subject_id, note_ids, source, created_at, updated_at
		 FROM flashcard_sets WHERE id = ?`, id)
	return scanSet(row)
}

func (s *SQLiteStore) ListSets(ctx context.Context) ([]*studyset.FlashcardSet, error) {
	return s.querySets(ctx,
		`SELECT id, title, description, subject_id, note_ids, source, created_at, updated_at
		 FROM flashcard_sets ORDER BY created_at`)
}

func (s *SQLiteStore) ListSetsBySubject(ctx context.Context, subjectID string) ([]*studyset.FlashcardSet, error) {
	return s.querySets(ctx,
		`SELECT id, title, description, subject_id, note_ids, source, created_at, updated_at
		 FROM flashcard_sets WHERE subject_id = ? ORDER BY created_at`, subjectID)
}

// UpdateSet rewrites the set's mutable fields and bumps updated_at.
func (s *SQLiteStore) UpdateSet(ctx context.Context, set *studyset.FlashcardSet) error {
	set.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`UPDATE flashcard_sets SET title = ?, description = ?, subject_id = ?, note_ids = ?, updated_at = ?
		 WHERE id = ?`,
		set.Title, set.Description, set.SubjectID,
		marshalStrings(set.NoteIDs), formatTime(set.UpdatedAt), set.ID,
	)
	if err != nil {
		return err
	}
	return requireRows(result)
}

// DeleteSet removes a set and cascades to every flashcard with its set_id.
func (s *SQLiteStore) DeleteSet(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM flashcards WHERE set_id = ?", id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM flashcard_sets WHERE id = ?", id)
	if err != nil {
		return err
	}
	if err := requireRows(result); err != nil {
		return err
	}

	return tx.Commit()
}

// ============================================================================
// Flashcards
// ============================================================================

// SaveCard inserts a flashcard. The referenced set must exist.
func (s *SQLiteStore) SaveCard(ctx context.Context, card *studyset.Flashcard) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM flashcard_sets WHERE id = ?)", card.SetID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("set %s: %w", card.SetID, ErrNotFound)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO flashcards (id, set_id, question, answer, learned, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		card.ID, card.SetID, card.Question, card.Answer, card.Learned,
		formatTime(card.CreatedAt), formatTime(card.UpdatedAt),
	)
	return err
}

func (s *SQLiteStore) GetCard(ctx context.Context, id string) (*studyset.Flashcard, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, set_id, question, answer, learned, created_at, updated_at
		 FROM flashcards WHERE id = ?`, id)
	return scanCard(row)
}

func (s *SQLiteStore) ListCards(ctx context.Context) ([]*studyset.Flashcard, error) {
	return s.queryCards(ctx,
		`SELECT id, set_id, question, answer, learned, created_at, updated_at
		 FROM flashcards ORDER BY created_at`)
}

func (s *SQLiteStore) ListCardsBySet(ctx context.Context, setID string) ([]*studyset.Flashcard, error) {
	return s.queryCards(ctx,
		`SELECT id, set_id, question, answer, learned, created_at, updated_at
		 FROM flashcards WHERE set_id = ? ORDER BY created_at`, setID)
}

// UpdateCard rewrites the card's content fields and bumps updated_at.
// Learned is left alone here; MarkCardLearned owns that transition.
func (s *SQLiteStore) UpdateCard(ctx context.Context, card *studyset.Flashcard) error {
	card.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		"UPDATE flashcards SET question = ?, answer = ?, updated_at = ? WHERE id = ?",
		card.Question, card.Answer, formatTime(card.UpdatedAt), card.ID,
	)
	if err != nil {
		return err
	}
	return requireRows(result)
}

func (s *SQLiteStore) DeleteCard(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM flashcards WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRows(result)
}

// MarkCardLearned sets the learned flag. Idempotent; updated_at is bumped
// either way, content fields are untouched.
func (s *SQLiteStore) MarkCardLearned(ctx context.Context, id string, learned bool) (*studyset.Flashcard, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE flashcards SET learned = ?, updated_at = ? WHERE id = ?",
		learned, formatTime(time.Now().UTC()), id,
	)
	if err != nil {
		return nil, err
	}
	if err := requireRows(result); err != nil {
		return nil, err
	}
	return s.GetCard(ctx, id)
}

// ============================================================================
// Scan helpers
// ============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSet(row rowScanner) (*studyset.FlashcardSet, error) {
	var set studyset.FlashcardSet
	var noteIDs, source, createdAt, updatedAt string

	err := row.Scan(&set.ID, &set.Title, &set.Description, &set.SubjectID,
		&noteIDs, &source, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	set.NoteIDs = unmarshalStrings(noteIDs)
	set.Source = studyset.Source(source)
	set.CreatedAt = parseTime(createdAt)
	set.UpdatedAt = parseTime(updatedAt)
	return &set, nil
}

func scanCard(row rowScanner) (*studyset.Flashcard, error) {
	var card studyset.Flashcard
	var createdAt, updatedAt string

	err := row.Scan(&card.ID, &card.SetID, &card.Question, &card.Answer,
		&card.Learned, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	card.CreatedAt = parseTime(createdAt)
	card.UpdatedAt = parseTime(updatedAt)
	return &card, nil
}

func (s *SQLiteStore) querySets(ctx context.Context, query string, args ...any) ([]*studyset.FlashcardSet, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []*studyset.FlashcardSet
	for rows.Next() {
		set, err := scanSet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

func (s *SQLiteStore) queryCards(ctx context.Context, query string, args ...any) ([]*studyset.Flashcard, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*studyset.Flashcard
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func requireRows(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
