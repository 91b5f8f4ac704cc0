package templates

import (
	"fmt"

	"github.com/formtemplates/backend/internal/models"
)

// Violation codes for template authoring rules.
const (
	CodeMissingTitle        = "missing_title"
	CodeInvalidTopic        = "invalid_topic"
	CodeNoQuestions         = "no_questions"
	CodeMissingQuestionText = "missing_question_text"
	CodeInvalidOptions      = "invalid_options"
)

// ValidationError is a single authoring rule violation. Index is the
// zero-based question index for per-question violations, -1 otherwise.
type ValidationError struct {
	Code  string
	Index int
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case CodeMissingTitle:
		return "template title must not be empty"
	case CodeInvalidTopic:
		return "topic must be one of general, education, health, technology"
	case CodeNoQuestions:
		return "template must have at least one question"
	case CodeMissingQuestionText:
		return fmt.Sprintf("question %d: text must not be empty", e.Index+1)
	case CodeInvalidOptions:
		return fmt.Sprintf("question %d: choice questions need at least one non-empty option", e.Index+1)
	}
	return e.Code
}

// Validate checks authoring invariants in order and returns the first
// violation found, or nil. It is pure: no writes are attempted before
// it passes.
func Validate(in models.TemplateInput) *ValidationError {
	if in.Title == "" {
		return &ValidationError{Code: CodeMissingTitle, Index: -1}
	}
	if !in.Topic.Valid() {
		return &ValidationError{Code: CodeInvalidTopic, Index: -1}
	}
	if len(in.Questions) == 0 {
		return &ValidationError{Code: CodeNoQuestions, Index: -1}
	}
	for i, q := range in.Questions {
		if q.Text == "" {
			return &ValidationError{Code: CodeMissingQuestionText, Index: i}
		}
		if q.Type == models.QuestionChoice {
			if len(q.Options) == 0 {
				return &ValidationError{Code: CodeInvalidOptions, Index: i}
			}
			for _, opt := range q.Options {
				if opt.Title == "" {
					return &ValidationError{Code: CodeInvalidOptions, Index: i}
				}
			}
		}
	}
	return nil
}
