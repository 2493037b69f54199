package registry

import (
	"context"
	"database/sql"
)

// StudentDirectory answers the two questions the core needs from the
// roster: how many students exist (completion threshold) and who they
// are (ranking denominators).
type StudentDirectory struct {
	db *sql.DB
}

func NewStudentDirectory(db *sql.DB) *StudentDirectory {
	return &StudentDirectory{db: db}
}

func (d *StudentDirectory) Count(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`).Scan(&n)
	return n, err
}

func (d *StudentDirectory) All(ctx context.Context) ([]Student, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id,name FROM students ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Upsert registers or renames a student.
func (d *StudentDirectory) Upsert(ctx context.Context, s Student) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO students (id,name) VALUES ($1,$2)
		 ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name`, s.ID, s.Name)
	return err
}
