package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("exam not found")
	ErrBadTransition = errors.New("lifecycle transition not allowed")
)

// ExamStore is the relational side of an exam: the record whose
// total_marks column mirrors the paper's derived total. It also
// satisfies paper.NameResolver via ExamName.
type ExamStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewExamStore(db *sql.DB, driver string) *ExamStore {
	return &ExamStore{db: db, driver: driver}
}

func (s *ExamStore) Create(ctx context.Context, e Exam) (Exam, error) {
	if e.Status == "" {
		e.Status = StatusUpcoming
	}
	if !e.Status.Valid() {
		return Exam{}, fmt.Errorf("invalid status %q", e.Status)
	}
	if s.driver == "postgres" {
		err := s.db.QueryRowContext(ctx,
			`INSERT INTO exams (name,subject,date,start_time,duration,total_marks,status)
			 VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
			e.Name, e.Subject, e.Date, e.StartTime, e.Duration, e.TotalMarks, string(e.Status)).Scan(&e.ID)
		return e, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO exams (name,subject,date,start_time,duration,total_marks,status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.Name, e.Subject, e.Date, e.StartTime, e.Duration, e.TotalMarks, string(e.Status))
	if err != nil {
		return Exam{}, err
	}
	e.ID, err = res.LastInsertId()
	return e, err
}

func (s *ExamStore) Get(ctx context.Context, id int64) (Exam, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,name,subject,date,start_time,duration,total_marks,status FROM exams WHERE id=$1`, id)
	var e Exam
	var status string
	if err := row.Scan(&e.ID, &e.Name, &e.Subject, &e.Date, &e.StartTime, &e.Duration, &e.TotalMarks, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Exam{}, ErrNotFound
		}
		return Exam{}, err
	}
	e.Status = Status(status)
	return e, nil
}

func (s *ExamStore) List(ctx context.Context) ([]Exam, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,name,subject,date,start_time,duration,total_marks,status FROM exams ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Exam
	for rows.Next() {
		var e Exam
		var status string
		if err := rows.Scan(&e.ID, &e.Name, &e.Subject, &e.Date, &e.StartTime, &e.Duration, &e.TotalMarks, &status); err != nil {
			return nil, err
		}
		e.Status = Status(status)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Rename updates the display name and returns the previous one, which
// the caller needs to move the paper document to its new key.
func (s *ExamStore) Rename(ctx context.Context, id int64, newName string) (string, error) {
	var old string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM exams WHERE id=$1`, id).Scan(&old)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE exams SET name=$1 WHERE id=$2`, newName, id)
	return old, err
}

func (s *ExamStore) UpdateTotalMarks(ctx context.Context, id int64, marks int) error {
	res, err := s.db.ExecContext(ctx, `UPDATE exams SET total_marks=$1 WHERE id=$2`, marks, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ExamStore) GetStatus(ctx context.Context, id int64) (Status, error) {
	var status string
	err := s.db.QueryRowContext(ctx, `SELECT status FROM exams WHERE id=$1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return Status(status), nil
}

// SetStatus applies a lifecycle transition. Re-setting the current
// status is a no-op success, so a racing auto-complete check never
// errors. Forbidden transitions return ErrBadTransition.
func (s *ExamStore) SetStatus(ctx context.Context, id int64, next Status) error {
	if !next.Valid() {
		return fmt.Errorf("invalid status %q", next)
	}
	cur, err := s.GetStatus(ctx, id)
	if err != nil {
		return err
	}
	if cur == next {
		return nil
	}
	if !cur.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, cur, next)
	}
	_, err = s.db.ExecContext(ctx, `UPDATE exams SET status=$1 WHERE id=$2`, string(next), id)
	return err
}

func (s *ExamStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM exams WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ExamName satisfies paper.NameResolver.
func (s *ExamStore) ExamName(ctx context.Context, id int64) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM exams WHERE id=$1`, id).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return name, nil
}
