package paper_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/opencampus/examportal/internal/paper"
	"github.com/opencampus/examportal/internal/storage"
)

type fakeNames struct {
	names map[int64]string
	calls int
}

func (f *fakeNames) ExamName(_ context.Context, examID int64) (string, error) {
	f.calls++
	n, ok := f.names[examID]
	if !ok {
		return "", fmt.Errorf("exam %d not found", examID)
	}
	return n, nil
}

func newTestStore(t *testing.T) (*paper.Store, *storage.MemStore, *fakeNames) {
	t.Helper()
	blobs := storage.NewMemStore()
	names := &fakeNames{names: map[int64]string{1: "Midterm Exam"}}
	return paper.NewStore(blobs, names), blobs, names
}

func draftWith(qs ...paper.Question) paper.Draft {
	return paper.Draft{Title: "Midterm", Instructions: "Answer everything.", Questions: qs}
}

func mcq(order int, marks int) paper.Question {
	return paper.Question{
		Question:      fmt.Sprintf("Question %d?", order),
		Type:          paper.KindMultipleChoice,
		Options:       []string{"A", "B", "C"},
		CorrectAnswer: "B",
		Marks:         marks,
		OrderIndex:    order,
	}
}

func TestGetAbsent(t *testing.T) {
	s, _, _ := newTestStore(t)
	_, err := s.Get(context.Background(), 1)
	if !errors.Is(err, paper.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveDerivesTotals(t *testing.T) {
	s, _, _ := newTestStore(t)
	p, err := s.Save(context.Background(), 1, draftWith(
		mcq(2, 5),
		paper.Question{Question: "Explain X.", Type: paper.KindEssay, Marks: 10, OrderIndex: 1},
	))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if p.TotalMarks != 15 {
		t.Errorf("TotalMarks = %d, want 15", p.TotalMarks)
	}
	if p.TotalQuestions != 2 {
		t.Errorf("TotalQuestions = %d, want 2", p.TotalQuestions)
	}
	// Questions come back in orderIndex order.
	if p.Questions[0].OrderIndex != 1 || p.Questions[1].OrderIndex != 2 {
		t.Errorf("questions not sorted by orderIndex: %v, %v",
			p.Questions[0].OrderIndex, p.Questions[1].OrderIndex)
	}
	if p.Questions[0].ID == "" || p.Questions[1].ID == "" {
		t.Error("expected IDs assigned to new questions")
	}
	if p.Metadata.Version != 1 {
		t.Errorf("Version = %d, want 1", p.Metadata.Version)
	}
	if p.Metadata.ExamName != "Midterm Exam" {
		t.Errorf("Metadata.ExamName = %q", p.Metadata.ExamName)
	}
}

func TestSaveFullReplace(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	p1, err := s.Save(ctx, 1, draftWith(mcq(1, 5), mcq(2, 5)))
	if err != nil {
		t.Fatalf("first save: %v", err)
	}

	// Resave with one question kept and one replaced.
	kept := p1.Questions[0]
	p2, err := s.Save(ctx, 1, draftWith(kept, mcq(3, 7)))
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if p2.TotalQuestions != 2 || p2.TotalMarks != 12 {
		t.Errorf("totals = (%d, %d), want (2, 12)", p2.TotalQuestions, p2.TotalMarks)
	}
	if p2.Metadata.Version != 2 {
		t.Errorf("Version = %d, want 2", p2.Metadata.Version)
	}
	if !p2.Questions[0].CreatedAt.Equal(kept.CreatedAt) {
		t.Error("kept question lost its CreatedAt")
	}
	if p2.ID != p1.ID {
		t.Error("paper identity changed across saves")
	}

	got, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Questions) != 2 {
		t.Fatalf("expected 2 questions after replace, got %d", len(got.Questions))
	}
}

func TestSaveRejectsInvalidDrafts(t *testing.T) {
	s, blobs, _ := newTestStore(t)
	ctx := context.Background()
	bad := []paper.Draft{
		draftWith(paper.Question{Question: "pick", Type: paper.KindMultipleChoice,
			Options: []string{"only"}, CorrectAnswer: "only", Marks: 5, OrderIndex: 1}),
		draftWith(paper.Question{Question: "pick", Type: paper.KindMultipleChoice,
			Options: []string{"a", "b"}, Marks: 5, OrderIndex: 1}),
		draftWith(paper.Question{Question: "essay", Type: paper.KindEssay, Marks: 0, OrderIndex: 1}),
		draftWith(paper.Question{Type: paper.KindEssay, Marks: 5, OrderIndex: 1}),
		draftWith(paper.Question{Question: "x", Type: "matching", Marks: 5, OrderIndex: 1}),
		draftWith(mcq(1, 5), mcq(1, 5)), // duplicate orderIndex
	}
	for i, d := range bad {
		_, err := s.Save(ctx, 1, d)
		var verr *paper.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("draft %d: expected ValidationError, got %v", i, err)
		}
	}
	if len(blobs.Keys()) != 0 {
		t.Fatal("invalid draft reached the blob store")
	}
}

func TestRenameKey(t *testing.T) {
	s, blobs, names := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Save(ctx, 1, draftWith(mcq(1, 5))); err != nil {
		t.Fatalf("save: %v", err)
	}

	names.names[1] = "Midterm Exam Retake"
	moved, err := s.RenameKey(ctx, 1, "Midterm Exam")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if !moved {
		t.Fatal("expected document to move")
	}
	keys := blobs.Keys()
	if len(keys) != 1 || keys[0] != "papers/1_Midterm_Exam_Retake.json" {
		t.Fatalf("unexpected keys after rename: %v", keys)
	}
	got, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get after rename: %v", err)
	}
	if got.Metadata.ExamName != "Midterm Exam Retake" {
		t.Errorf("Metadata.ExamName = %q", got.Metadata.ExamName)
	}

	// Second call finds nothing under the old key: no-op success.
	moved, err = s.RenameKey(ctx, 1, "Midterm Exam")
	if err != nil {
		t.Fatalf("second rename: %v", err)
	}
	if moved {
		t.Fatal("second rename should be a no-op")
	}
}

func TestRenameKeyWithoutPaper(t *testing.T) {
	s, _, names := newTestStore(t)
	names.names[1] = "New Name"
	moved, err := s.RenameKey(context.Background(), 1, "Old Name")
	if err != nil {
		t.Fatalf("rename without paper: %v", err)
	}
	if moved {
		t.Fatal("expected no-op for absent document")
	}
}

func TestDeleteAbsentIsSuccess(t *testing.T) {
	s, _, _ := newTestStore(t)
	if err := s.Delete(context.Background(), 1); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
}

func TestNameCache(t *testing.T) {
	next := &fakeNames{names: map[int64]string{1: "Exam A"}}
	c := paper.NewNameCache(next, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.ExamName(ctx, 1); err != nil {
			t.Fatalf("lookup %d: %v", i, err)
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected 1 backend lookup, got %d", next.calls)
	}

	next.names[1] = "Exam B"
	c.Invalidate(1)
	name, err := c.ExamName(ctx, 1)
	if err != nil {
		t.Fatalf("lookup after invalidate: %v", err)
	}
	if name != "Exam B" {
		t.Errorf("expected fresh name after invalidate, got %q", name)
	}
	if next.calls != 2 {
		t.Fatalf("expected 2 backend lookups, got %d", next.calls)
	}
}
