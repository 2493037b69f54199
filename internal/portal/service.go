package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/opencampus/examportal/internal/grading"
	"github.com/opencampus/examportal/internal/paper"
	"github.com/opencampus/examportal/internal/ranking"
	"github.com/opencampus/examportal/internal/registry"
	syncx "github.com/opencampus/examportal/internal/sync"
)

// PaperStore is the document side: one versioned paper per exam.
type PaperStore interface {
	Get(ctx context.Context, examID int64) (paper.Paper, error)
	Save(ctx context.Context, examID int64, draft paper.Draft) (paper.Paper, error)
	RenameKey(ctx context.Context, examID int64, oldName string) (bool, error)
	Delete(ctx context.Context, examID int64) error
}

// ExamRecords is the relational side of an exam.
type ExamRecords interface {
	Get(ctx context.Context, id int64) (registry.Exam, error)
	Rename(ctx context.Context, id int64, newName string) (string, error)
	UpdateTotalMarks(ctx context.Context, id int64, marks int) error
	GetStatus(ctx context.Context, id int64) (registry.Status, error)
	SetStatus(ctx context.Context, id int64, next registry.Status) error
	Delete(ctx context.Context, id int64) error
}

type ResultStore interface {
	Upsert(ctx context.Context, r registry.Result) (registry.Result, error)
	ByExam(ctx context.Context, examID int64) ([]registry.Result, error)
	ByStudent(ctx context.Context, studentID string) ([]registry.Result, error)
	CountByExam(ctx context.Context, examID int64) (int, error)
}

type StudentDirectory interface {
	Count(ctx context.Context) (int, error)
	All(ctx context.Context) ([]registry.Student, error)
}

// Invalidator is the name-cache hook called from every path that can
// change an exam's display name or remove the exam.
type Invalidator interface {
	Invalidate(examID int64)
}

type EventLog interface {
	Append(ctx context.Context, e syncx.Event) error
}

// Service orchestrates paper authoring, submission grading, ranking
// reads, and lifecycle transitions. All work is request-scoped; there
// are no background workers.
type Service struct {
	papers   PaperStore
	exams    ExamRecords
	results  ResultStore
	students StudentDirectory
	grader   *grading.Engine
	syncer   *AggregateSyncer
	cache    Invalidator
	events   EventLog
	logf     func(format string, args ...any)
}

func NewService(papers PaperStore, exams ExamRecords, results ResultStore,
	students StudentDirectory, cache Invalidator, events EventLog) *Service {
	return &Service{
		papers:   papers,
		exams:    exams,
		results:  results,
		students: students,
		grader:   grading.NewEngine(),
		syncer:   NewAggregateSyncer(exams),
		cache:    cache,
		events:   events,
		logf:     log.Printf,
	}
}

// SaveOutcome carries the saved paper plus a non-fatal warning when
// the aggregate propagation failed.
type SaveOutcome struct {
	Paper       paper.Paper `json:"paper"`
	SyncWarning string      `json:"syncWarning,omitempty"`
}

// SavePaper replaces the exam's paper with the draft and propagates
// the recomputed total to the exam record. The paper of a completed
// exam is read-only; that is rejected here, before the store is ever
// reached. A sync failure does not fail the save.
func (s *Service) SavePaper(ctx context.Context, examID int64, draft paper.Draft) (SaveOutcome, error) {
	status, err := s.exams.GetStatus(ctx, examID)
	if err != nil {
		return SaveOutcome{}, err
	}
	if status == registry.StatusCompleted {
		return SaveOutcome{}, fmt.Errorf("%w: exam %d is completed, paper is read-only", ErrConflictingLifecycle, examID)
	}

	p, err := s.papers.Save(ctx, examID, draft)
	if err != nil {
		return SaveOutcome{}, err
	}

	out := SaveOutcome{Paper: p}
	if err := s.syncer.Sync(ctx, examID, p.TotalMarks); err != nil {
		out.SyncWarning = fmt.Sprintf("exam total marks not updated: %v", err)
	}
	s.audit(ctx, syncx.EventPaperSaved, strconv.FormatInt(examID, 10), map[string]any{
		"totalMarks": p.TotalMarks, "totalQuestions": p.TotalQuestions, "version": p.Metadata.Version,
	})
	return out, nil
}

// GetPaper returns the full document, answers included. Admin-side.
func (s *Service) GetPaper(ctx context.Context, examID int64) (paper.Paper, error) {
	return s.papers.Get(ctx, examID)
}

// GetPaperForStudent strips correct answers before serving.
func (s *Service) GetPaperForStudent(ctx context.Context, examID int64) (paper.Paper, error) {
	p, err := s.papers.Get(ctx, examID)
	if err != nil {
		return paper.Paper{}, err
	}
	return p.StripAnswers(), nil
}

// DeletePaper removes the document and zeroes the cached total. The
// paper of a completed exam cannot be deleted.
func (s *Service) DeletePaper(ctx context.Context, examID int64) error {
	status, err := s.exams.GetStatus(ctx, examID)
	if err != nil {
		return err
	}
	if status == registry.StatusCompleted {
		return fmt.Errorf("%w: exam %d is completed, paper is read-only", ErrConflictingLifecycle, examID)
	}
	if err := s.papers.Delete(ctx, examID); err != nil {
		return err
	}
	if err := s.syncer.Sync(ctx, examID, 0); err != nil {
		s.logf("delete paper: zeroing total marks for exam %d failed: %v", examID, err)
	}
	s.audit(ctx, syncx.EventPaperDeleted, strconv.FormatInt(examID, 10), nil)
	return nil
}

// RenameExam updates the display name and moves the paper document to
// the key derived from the new name. Finding no document under the old
// key is a success: the exam has no paper yet or the move already
// happened.
func (s *Service) RenameExam(ctx context.Context, examID int64, newName string) error {
	oldName, err := s.exams.Rename(ctx, examID, newName)
	if err != nil {
		return err
	}
	s.cache.Invalidate(examID)
	moved, err := s.papers.RenameKey(ctx, examID, oldName)
	if err != nil {
		return fmt.Errorf("move paper document: %w", err)
	}
	s.audit(ctx, syncx.EventPaperKeyMoved, strconv.FormatInt(examID, 10), map[string]any{
		"oldName": oldName, "newName": newName, "moved": moved,
	})
	return nil
}

// DeleteExam removes the exam, its paper document, and (via the
// relational cascade) its results.
func (s *Service) DeleteExam(ctx context.Context, examID int64) error {
	// The paper key needs the exam's name, so the document goes first.
	if err := s.papers.Delete(ctx, examID); err != nil {
		return err
	}
	if err := s.exams.Delete(ctx, examID); err != nil {
		return err
	}
	s.cache.Invalidate(examID)
	return nil
}

// SetExamStatus applies an admin-driven lifecycle transition.
func (s *Service) SetExamStatus(ctx context.Context, examID int64, next registry.Status) error {
	err := s.exams.SetStatus(ctx, examID, next)
	if err != nil {
		if errors.Is(err, registry.ErrBadTransition) {
			return fmt.Errorf("%w: %v", ErrConflictingLifecycle, err)
		}
		return err
	}
	s.audit(ctx, syncx.EventStatusChanged, strconv.FormatInt(examID, 10), map[string]any{"status": next})
	return nil
}

// Submit grades the student's answers against the exam's paper and
// upserts the result. A second submission from the same student
// updates the stored result in place. After persisting, the
// auto-complete check runs best-effort: its failure never fails the
// submission.
func (s *Service) Submit(ctx context.Context, studentID string, examID int64, answers map[string]string) (registry.Result, error) {
	status, err := s.exams.GetStatus(ctx, examID)
	if err != nil {
		return registry.Result{}, err
	}
	if status != registry.StatusActive {
		return registry.Result{}, fmt.Errorf("%w: exam %d is %s, submissions require active", ErrConflictingLifecycle, examID, status)
	}

	p, err := s.papers.Get(ctx, examID)
	if err != nil {
		return registry.Result{}, err
	}
	b, err := s.grader.Grade(p, answers)
	if err != nil {
		return registry.Result{}, err
	}

	r, err := s.results.Upsert(ctx, registry.Result{
		StudentID:      studentID,
		ExamID:         examID,
		Score:          b.Score,
		AttemptedMarks: b.AttemptedMarks,
		Percentage:     b.Percentage,
		Answers:        answers,
		SubmittedAt:    time.Now().UTC(),
	})
	if err != nil {
		return registry.Result{}, err
	}

	all, err := s.results.ByExam(ctx, examID)
	if err != nil {
		return registry.Result{}, err
	}
	if rank, ok := ranking.ForStudent(all, studentID); ok {
		r.Rank = rank
	}

	s.maybeComplete(ctx, examID, len(all))
	s.audit(ctx, syncx.EventResultSubmitted, fmt.Sprintf("%d/%s", examID, studentID), map[string]any{
		"score": b.Score, "percentage": b.Percentage,
	})
	return r, nil
}

// maybeComplete transitions active -> completed once every student has
// a result. Advisory: any failure is logged and swallowed, and setting
// completed twice is a no-op in the store.
func (s *Service) maybeComplete(ctx context.Context, examID int64, resultCount int) {
	total, err := s.students.Count(ctx)
	if err != nil {
		s.logf("auto-complete: student count for exam %d: %v", examID, err)
		return
	}
	if total == 0 || resultCount < total {
		return
	}
	if err := s.exams.SetStatus(ctx, examID, registry.StatusCompleted); err != nil {
		s.logf("auto-complete: exam %d: %v", examID, err)
	}
}

// ExamLeaderboard is the exam's results in rank order.
func (s *Service) ExamLeaderboard(ctx context.Context, examID int64) ([]registry.Result, error) {
	if _, err := s.exams.Get(ctx, examID); err != nil {
		return nil, err
	}
	all, err := s.results.ByExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	return ranking.ByExam(all), nil
}

// StudentDashboard is one student's results, each with its current
// per-exam rank, plus their overall class standing.
type StudentDashboard struct {
	StudentID string            `json:"studentId"`
	Results   []registry.Result `json:"results"`
	Overall   ranking.Standing  `json:"overall"`
}

// Dashboard recomputes every rank it shows. Ranks depend on the
// mutable set of everyone else's results, so nothing here is cached or
// stored. Cost is O(students x results); acceptable at class scale.
func (s *Service) Dashboard(ctx context.Context, studentID string) (StudentDashboard, error) {
	own, err := s.results.ByStudent(ctx, studentID)
	if err != nil {
		return StudentDashboard{}, err
	}
	for i, r := range own {
		peers, err := s.results.ByExam(ctx, r.ExamID)
		if err != nil {
			return StudentDashboard{}, err
		}
		if rank, ok := ranking.ForStudent(peers, studentID); ok {
			own[i].Rank = rank
		}
	}

	standings, err := s.OverallStandings(ctx)
	if err != nil {
		return StudentDashboard{}, err
	}
	dash := StudentDashboard{StudentID: studentID, Results: own}
	for _, st := range standings {
		if st.StudentID == studentID {
			dash.Overall = st
			break
		}
	}
	return dash, nil
}

// OverallStandings ranks the whole class by average percentage.
// Students with no results sort below everyone with at least one.
func (s *Service) OverallStandings(ctx context.Context) ([]ranking.Standing, error) {
	students, err := s.students.All(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(students))
	byStudent := make(map[string][]registry.Result, len(students))
	for i, st := range students {
		ids[i] = st.ID
		rs, err := s.results.ByStudent(ctx, st.ID)
		if err != nil {
			return nil, err
		}
		byStudent[st.ID] = rs
	}
	return ranking.Overall(ids, byStudent), nil
}

// audit appends to the event log best-effort.
func (s *Service) audit(ctx context.Context, typ, key string, data map[string]any) {
	if s.events == nil {
		return
	}
	buf, _ := json.Marshal(data)
	if err := s.events.Append(ctx, syncx.Event{Type: typ, Key: key, DataJSON: string(buf)}); err != nil {
		s.logf("event log append %s %s: %v", typ, key, err)
	}
}
