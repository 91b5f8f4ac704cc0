package submissions

import (
	"fmt"

	"github.com/formtemplates/backend/internal/models"
)

// Violation codes for submission rules.
const (
	CodeAnswerCountMismatch = "answer_count_mismatch"
	CodeMissingAnswer       = "missing_answer"
	CodeInvalidAnswerType   = "invalid_answer_type"
	CodeInvalidChoice       = "invalid_choice"
)

// ValidationError is a single submission rule violation. Index is the
// zero-based question index, -1 for the count mismatch.
type ValidationError struct {
	Code  string
	Index int
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case CodeAnswerCountMismatch:
		return "answer count does not match template question count"
	case CodeMissingAnswer:
		return fmt.Sprintf("question %d: answer is required", e.Index+1)
	case CodeInvalidAnswerType:
		return fmt.Sprintf("question %d: answer must be a number", e.Index+1)
	case CodeInvalidChoice:
		return fmt.Sprintf("question %d: answer must be one of the listed options", e.Index+1)
	}
	return e.Code
}

// BuildAnswers validates a draft answer sequence against the target
// template and, on success, returns the denormalized answer list: each
// answer carries its 1-based question position and a snapshot copy of
// the prompt text, so later template edits never alter historical
// submissions. Number answers are stored as numeric values.
//
// Validation fails fast, returning the first violation found. All
// questions are required.
func BuildAnswers(t *models.Template, values []models.AnswerValue) ([]models.Answer, *ValidationError) {
	if len(values) != len(t.Questions) {
		return nil, &ValidationError{Code: CodeAnswerCountMismatch, Index: -1}
	}

	answers := make([]models.Answer, 0, len(values))
	for i, q := range t.Questions {
		v := values[i]
		if v.IsEmpty() {
			return nil, &ValidationError{Code: CodeMissingAnswer, Index: i}
		}
		switch q.Type {
		case models.QuestionNumber:
			n, ok := v.Numeric()
			if !ok {
				return nil, &ValidationError{Code: CodeInvalidAnswerType, Index: i}
			}
			v = models.NumberValue(n)
		case models.QuestionChoice:
			if !matchesOption(q.Options, v) {
				return nil, &ValidationError{Code: CodeInvalidChoice, Index: i}
			}
		}
		answers = append(answers, models.Answer{
			QuestionID: i + 1,
			Question:   q.Text,
			Answer:     v,
		})
	}
	return answers, nil
}

func matchesOption(options []models.Option, v models.AnswerValue) bool {
	for _, opt := range options {
		if v.String() == opt.Title {
			return true
		}
	}
	return false
}
