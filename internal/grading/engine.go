package grading

import (
	"errors"
	"math"
	"strings"

	"github.com/opencampus/examportal/internal/paper"
)

// ErrEmptyPaper is a precondition failure: no submission may be graded
// against a paper with no questions. Callers reject at the submission
// boundary.
var ErrEmptyPaper = errors.New("paper has no questions")

// Breakdown is the outcome of grading one submission.
//
// Percentage uses AttemptedMarks as the denominator, not the paper's
// total. A student who skips half the paper and answers the rest
// perfectly scores 100. That is the marking policy, not an oversight.
type Breakdown struct {
	Score          int `json:"score"`
	AttemptedMarks int `json:"attemptedMarks"`
	Percentage     int `json:"percentage"`
}

// Strategy awards marks for one attempted question.
type Strategy interface {
	Award(q paper.Question, answer string) int
}

// Engine routes each question to the strategy for its kind.
type Engine struct {
	strategies map[string]Strategy
}

func NewEngine() *Engine {
	return &Engine{
		strategies: map[string]Strategy{
			paper.KindMultipleChoice: keyMatchStrategy{},
			paper.KindTrueFalse:      keyMatchStrategy{},
			paper.KindShortAnswer:    openEndedStrategy{},
			paper.KindEssay:          openEndedStrategy{},
		},
	}
}

// Grade scores answers (questionID -> answer text) against the paper.
// A question with no non-empty answer is unattempted: it contributes
// nothing to either Score or AttemptedMarks. Pure function of its
// inputs; the same paper and answers always grade identically.
func (e *Engine) Grade(p paper.Paper, answers map[string]string) (Breakdown, error) {
	if len(p.Questions) == 0 {
		return Breakdown{}, ErrEmptyPaper
	}
	var b Breakdown
	for _, q := range p.Questions {
		ans := strings.TrimSpace(answers[q.ID])
		if ans == "" {
			continue
		}
		b.AttemptedMarks += q.Marks
		if s, ok := e.strategies[q.Type]; ok {
			b.Score += s.Award(q, ans)
		}
	}
	if b.AttemptedMarks > 0 {
		b.Percentage = int(math.Round(100 * float64(b.Score) / float64(b.AttemptedMarks)))
	}
	return b, nil
}

// keyMatchStrategy compares against the stored correct answer,
// whitespace-trimmed and case-insensitive.
type keyMatchStrategy struct{}

func (keyMatchStrategy) Award(q paper.Question, answer string) int {
	if strings.EqualFold(answer, strings.TrimSpace(q.CorrectAnswer)) {
		return q.Marks
	}
	return 0
}

// openEndedStrategy awards full marks once attempted. Short-answer and
// essay responses have no machine-checkable key; manual moderation is
// outside the engine.
type openEndedStrategy struct{}

func (openEndedStrategy) Award(q paper.Question, _ string) int {
	return q.Marks
}
