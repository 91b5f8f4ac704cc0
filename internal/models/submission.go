package models

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// AnswerValue is the value of a single answer: a string for text and
// choice questions, a number for number questions. It marshals to the
// underlying JSON string or number so stored documents keep the shape
// the frontend wrote.
type AnswerValue struct {
	Str   string
	Num   float64
	IsNum bool
}

// StringValue returns an AnswerValue holding a string.
func StringValue(s string) AnswerValue { return AnswerValue{Str: s} }

// NumberValue returns an AnswerValue holding a number.
func NumberValue(n float64) AnswerValue { return AnswerValue{Num: n, IsNum: true} }

// IsEmpty reports whether the value is an empty string. Numbers are
// never empty.
func (v AnswerValue) IsEmpty() bool { return !v.IsNum && v.Str == "" }

// Numeric returns the value as a float64, parsing string values.
// Unparsable values yield ok=false.
func (v AnswerValue) Numeric() (float64, bool) {
	if v.IsNum {
		return v.Num, true
	}
	n, err := strconv.ParseFloat(v.Str, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// String returns the string form of the value.
func (v AnswerValue) String() string {
	if v.IsNum {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Str
}

// MarshalJSON emits a JSON number or string.
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.IsNum {
		return json.Marshal(v.Num)
	}
	return json.Marshal(v.Str)
}

// UnmarshalJSON accepts a JSON number or string.
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = NumberValue(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = StringValue(s)
	return nil
}

// Answer is one answered question in a submission. QuestionID is the
// 1-based position of the question at submission time, and Question is
// a snapshot copy of the prompt text so later template edits never
// alter historical submissions.
type Answer struct {
	QuestionID int         `json:"question_id"`
	Question   string      `json:"question"`
	Answer     AnswerValue `json:"answer"`
}

// Submission is one respondent's answers to a template, captured at a
// point in time. Submissions are immutable once created. TemplateID is
// a weak reference: the template may be deleted independently.
//
// The JSON field names mirror the stored documents, mixed casing
// included.
type Submission struct {
	ID          uuid.UUID `json:"id"`
	TemplateID  uuid.UUID `json:"templateId"`
	SubmittedBy string    `json:"submittedBy"`
	SubmittedAt time.Time `json:"submittedAt"`
	CreatedAt   time.Time `json:"created_at"`
	Answers     []Answer  `json:"answers"`
}

// SubmissionInput is the respondent-supplied answer sequence,
// positionally aligned with the template's questions.
type SubmissionInput struct {
	Answers []AnswerValue `json:"answers"`
}
