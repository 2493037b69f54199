package registry

import "time"

// Status is the exam lifecycle state.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is allowed.
// Completed is terminal. Active never goes back to upcoming: a student
// may be mid-exam. Setting the current status again is permitted so
// the auto-complete check stays idempotent.
func (s Status) CanTransition(next Status) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusUpcoming:
		return next == StatusActive
	case StatusActive:
		return next == StatusCompleted
	}
	return false
}

// Exam is the relational record. TotalMarks is a cached copy of the
// paper's derived total, written by the aggregate syncer once a paper
// exists; it is not admin input after that point.
type Exam struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Subject    string `json:"subject"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime,omitempty"`
	Duration   int    `json:"duration"` // minutes
	TotalMarks int    `json:"totalMarks"`
	Status     Status `json:"status"`
}

// Result is one student's graded submission for one exam. There is at
// most one per (student, exam) pair; a resubmission updates in place.
// Rank is recomputed on every read that needs it, never stored.
type Result struct {
	ID             string            `json:"id"`
	StudentID      string            `json:"studentId"`
	ExamID         int64             `json:"examId"`
	Score          int               `json:"score"`
	AttemptedMarks int               `json:"attemptedMarks"`
	Percentage     int               `json:"percentage"`
	Rank           int               `json:"rank,omitempty"`
	SubmittedAt    time.Time         `json:"submittedAt"`
	Answers        map[string]string `json:"answers"`
}

type Student struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
