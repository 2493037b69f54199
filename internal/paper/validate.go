package paper

import "fmt"

// ValidationError reports a malformed question. Drafts are rejected
// before any blob write; the store never holds an invalid question.
type ValidationError struct {
	Index int // position in the draft's question list
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %d: %s: %s", e.Index, e.Field, e.Msg)
}

var validKinds = map[string]bool{
	KindMultipleChoice: true,
	KindShortAnswer:    true,
	KindEssay:          true,
	KindTrueFalse:      true,
}

func validateDraft(d Draft) error {
	seen := make(map[int]int, len(d.Questions))
	for i, q := range d.Questions {
		if q.Question == "" {
			return &ValidationError{Index: i, Field: "question", Msg: "text required"}
		}
		if !validKinds[q.Type] {
			return &ValidationError{Index: i, Field: "type", Msg: fmt.Sprintf("unknown kind %q", q.Type)}
		}
		if q.Marks <= 0 {
			return &ValidationError{Index: i, Field: "marks", Msg: "must be a positive integer"}
		}
		if q.Type == KindMultipleChoice {
			if len(q.Options) < 2 {
				return &ValidationError{Index: i, Field: "options", Msg: "at least 2 options required"}
			}
			if q.CorrectAnswer == "" {
				return &ValidationError{Index: i, Field: "correctAnswer", Msg: "required for multiple_choice"}
			}
		}
		if prev, dup := seen[q.OrderIndex]; dup {
			return &ValidationError{Index: i, Field: "orderIndex",
				Msg: fmt.Sprintf("duplicate of question %d", prev)}
		}
		seen[q.OrderIndex] = i
	}
	return nil
}
