package portal

import (
	"context"
	"log"
)

// TotalMarksSink receives the propagated aggregate. Backed by
// registry.ExamStore in production.
type TotalMarksSink interface {
	UpdateTotalMarks(ctx context.Context, examID int64, marks int) error
}

// AggregateSyncer keeps exam.totalMarks equal to the paper's derived
// total. It runs after a successful paper write and never rolls the
// write back: a stale cached total is preferable to losing question
// edits. Isolated here so a queue-driven refresh could replace it
// without touching grading or ranking.
type AggregateSyncer struct {
	sink TotalMarksSink
	logf func(format string, args ...any)
}

func NewAggregateSyncer(sink TotalMarksSink) *AggregateSyncer {
	return &AggregateSyncer{sink: sink, logf: log.Printf}
}

// Sync propagates totalMarks to the exam record. Idempotent. A failure
// is logged and returned so the caller can surface a warning, not an
// error, to the end user.
func (s *AggregateSyncer) Sync(ctx context.Context, examID int64, totalMarks int) error {
	if err := s.sink.UpdateTotalMarks(ctx, examID, totalMarks); err != nil {
		s.logf("aggregate sync: exam %d total_marks=%d failed: %v", examID, totalMarks, err)
		return err
	}
	return nil
}
