package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ResultStore persists graded submissions, one row per (student, exam).
type ResultStore struct {
	db *sql.DB
}

func NewResultStore(db *sql.DB) *ResultStore { return &ResultStore{db: db} }

// Upsert writes the result, updating in place when the (student, exam)
// pair already has one: a retried or re-graded submission never
// duplicates a row, and the original row ID survives.
func (s *ResultStore) Upsert(ctx context.Context, r Result) (Result, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Answers == nil {
		r.Answers = map[string]string{}
	}
	aj, err := json.Marshal(r.Answers)
	if err != nil {
		return Result{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO results (id,student_id,exam_id,score,attempted_marks,percentage,answers_json,submitted_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (student_id, exam_id) DO UPDATE SET
		   score=EXCLUDED.score,
		   attempted_marks=EXCLUDED.attempted_marks,
		   percentage=EXCLUDED.percentage,
		   answers_json=EXCLUDED.answers_json,
		   submitted_at=EXCLUDED.submitted_at`,
		r.ID, r.StudentID, r.ExamID, r.Score, r.AttemptedMarks, r.Percentage, string(aj), r.SubmittedAt.Unix())
	if err != nil {
		return Result{}, err
	}
	return s.Get(ctx, r.StudentID, r.ExamID)
}

func (s *ResultStore) Get(ctx context.Context, studentID string, examID int64) (Result, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,student_id,exam_id,score,attempted_marks,percentage,answers_json,submitted_at
		 FROM results WHERE student_id=$1 AND exam_id=$2`, studentID, examID)
	return scanResult(row)
}

func (s *ResultStore) ByExam(ctx context.Context, examID int64) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,student_id,exam_id,score,attempted_marks,percentage,answers_json,submitted_at
		 FROM results WHERE exam_id=$1 ORDER BY submitted_at`, examID)
	if err != nil {
		return nil, err
	}
	return collectResults(rows)
}

func (s *ResultStore) ByStudent(ctx context.Context, studentID string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,student_id,exam_id,score,attempted_marks,percentage,answers_json,submitted_at
		 FROM results WHERE student_id=$1 ORDER BY submitted_at`, studentID)
	if err != nil {
		return nil, err
	}
	return collectResults(rows)
}

func (s *ResultStore) CountByExam(ctx context.Context, examID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results WHERE exam_id=$1`, examID).Scan(&n)
	return n, err
}

type rowScanner interface{ Scan(dest ...any) error }

func scanResult(row rowScanner) (Result, error) {
	var r Result
	var aj string
	var submitted int64
	err := row.Scan(&r.ID, &r.StudentID, &r.ExamID, &r.Score, &r.AttemptedMarks, &r.Percentage, &aj, &submitted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, ErrNoResult
		}
		return Result{}, err
	}
	if err := json.Unmarshal([]byte(aj), &r.Answers); err != nil {
		r.Answers = map[string]string{}
	}
	r.SubmittedAt = time.Unix(submitted, 0).UTC()
	return r, nil
}

func collectResults(rows *sql.Rows) ([]Result, error) {
	defer rows.Close()
	var out []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ErrNoResult means the (student, exam) pair has no submission yet.
var ErrNoResult = errors.New("result not found")
