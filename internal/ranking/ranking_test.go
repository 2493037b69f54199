package ranking_test

import (
	"testing"
	"time"

	"github.com/opencampus/examportal/internal/ranking"
	"github.com/opencampus/examportal/internal/registry"
)

func res(student string, pct int, submittedAt time.Time) registry.Result {
	return registry.Result{
		ID: student + "-r", StudentID: student, ExamID: 1,
		Percentage: pct, SubmittedAt: submittedAt,
	}
}

func TestByExamTieBreaksOnSubmissionTime(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	results := []registry.Result{
		res("s2", 70, base.Add(2*time.Minute)),
		res("s3", 90, base.Add(5*time.Minute)),
		res("s1", 90, base), // same percentage as s3, submitted earlier
	}
	ranked := ranking.ByExam(results)
	want := []struct {
		student string
		rank    int
	}{{"s1", 1}, {"s3", 2}, {"s2", 3}}
	for i, w := range want {
		if ranked[i].StudentID != w.student || ranked[i].Rank != w.rank {
			t.Errorf("position %d: got (%s, %d), want (%s, %d)",
				i, ranked[i].StudentID, ranked[i].Rank, w.student, w.rank)
		}
	}

	if r, ok := ranking.ForStudent(results, "s3"); !ok || r != 2 {
		t.Errorf("ForStudent(s3) = (%d, %v), want (2, true)", r, ok)
	}
	if _, ok := ranking.ForStudent(results, "s9"); ok {
		t.Error("ForStudent should report false for a student with no result")
	}
}

func TestByExamDoesNotMutateInput(t *testing.T) {
	base := time.Now()
	results := []registry.Result{res("s1", 10, base), res("s2", 90, base)}
	ranking.ByExam(results)
	if results[0].StudentID != "s1" || results[0].Rank != 0 {
		t.Error("input slice was mutated")
	}
}

func TestOverallAverages(t *testing.T) {
	byStudent := map[string][]registry.Result{
		"s1": {res("s1", 80, time.Now()), res("s1", 60, time.Now())},
		"s2": {res("s2", 90, time.Now())},
	}
	standings := ranking.Overall([]string{"s1", "s2"}, byStudent)
	if standings[0].StudentID != "s2" || standings[0].Rank != 1 {
		t.Errorf("expected s2 first, got %+v", standings[0])
	}
	if standings[1].Average != 70 {
		t.Errorf("s1 average = %v, want 70", standings[1].Average)
	}
}

// A student with zero results ranks below a student who sat one exam
// and scored 0%.
func TestOverallNoDataBelowZeroScore(t *testing.T) {
	byStudent := map[string][]registry.Result{
		"zero": {res("zero", 0, time.Now())},
	}
	standings := ranking.Overall([]string{"absent", "zero"}, byStudent)
	if standings[0].StudentID != "zero" || standings[0].Rank != 1 {
		t.Errorf("expected student with a 0%% result first, got %+v", standings[0])
	}
	if standings[1].StudentID != "absent" || standings[1].Rank != 2 {
		t.Errorf("expected no-data student last, got %+v", standings[1])
	}
}
