package paper

import "time"

// Question kinds. The grading engine switches on these.
const (
	KindMultipleChoice = "multiple_choice"
	KindShortAnswer    = "short_answer"
	KindEssay          = "essay"
	KindTrueFalse      = "true_false"
)

type Question struct {
	ID            string    `json:"id"`
	Question      string    `json:"question"`
	Type          string    `json:"type"`
	Options       []string  `json:"options,omitempty"`
	CorrectAnswer string    `json:"correctAnswer,omitempty"`
	Marks         int       `json:"marks"`
	OrderIndex    int       `json:"orderIndex"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Metadata struct {
	ExamName    string    `json:"examName"`
	LastUpdated time.Time `json:"lastUpdated"`
	Version     int       `json:"version"`
}

// Paper is the persisted document holding an exam's question set.
// TotalMarks and TotalQuestions are derived from Questions on every
// save; they are never accepted from callers.
type Paper struct {
	ID             string     `json:"id"`
	ExamID         int64      `json:"examId"`
	Title          string     `json:"title"`
	Instructions   string     `json:"instructions"`
	TotalQuestions int        `json:"totalQuestions"`
	TotalMarks     int        `json:"totalMarks"`
	Questions      []Question `json:"questions"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	Metadata       Metadata   `json:"metadata"`
}

// Draft is the caller-supplied replacement for a paper. Save has
// full-document semantics: Questions is the complete new set, not a diff.
type Draft struct {
	Title        string     `json:"title"`
	Instructions string     `json:"instructions"`
	Questions    []Question `json:"questions"`
}

// StripAnswers returns a copy safe to serve to students: correct
// answers removed, everything else intact.
func (p Paper) StripAnswers() Paper {
	qs := make([]Question, len(p.Questions))
	copy(qs, p.Questions)
	for i := range qs {
		qs[i].CorrectAnswer = ""
	}
	p.Questions = qs
	return p
}
