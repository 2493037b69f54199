// Package ranking computes per-exam and cross-exam class ranks from
// result sets already loaded by the caller. Ranks are derived on every
// read; nothing here is persisted.
package ranking

import (
	"sort"

	"github.com/opencampus/examportal/internal/registry"
)

// ByExam returns the exam's results ordered for the leaderboard, with
// Rank set to the 1-based position. Higher percentage ranks first;
// ties break toward the earlier submission.
func ByExam(results []registry.Result) []registry.Result {
	out := make([]registry.Result, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Percentage != out[j].Percentage {
			return out[i].Percentage > out[j].Percentage
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// ForStudent is the student's 1-based rank within the exam, or false
// if they have no result.
func ForStudent(results []registry.Result, studentID string) (int, bool) {
	for _, r := range ByExam(results) {
		if r.StudentID == studentID {
			return r.Rank, true
		}
	}
	return 0, false
}

// Standing is one row of the overall class ranking.
type Standing struct {
	StudentID string  `json:"studentId"`
	Exams     int     `json:"exams"`
	Average   float64 `json:"average"`
	Rank      int     `json:"rank"`
}

// Overall ranks every student by average percentage across all their
// results. A student with no results sorts strictly below any student
// with at least one, whatever the averages: absence of data is not a
// 0% score. Ties and the no-data group order by student ID so the
// ranking is stable.
func Overall(students []string, resultsByStudent map[string][]registry.Result) []Standing {
	out := make([]Standing, 0, len(students))
	for _, id := range students {
		s := Standing{StudentID: id}
		for _, r := range resultsByStudent[id] {
			s.Average += float64(r.Percentage)
			s.Exams++
		}
		if s.Exams > 0 {
			s.Average /= float64(s.Exams)
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Exams > 0) != (b.Exams > 0) {
			return a.Exams > 0
		}
		if a.Average != b.Average {
			return a.Average > b.Average
		}
		return a.StudentID < b.StudentID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
