package models

import (
	"time"

	"github.com/google/uuid"
)

// Topic is the fixed category tag on a template.
type Topic string

const (
	TopicGeneral    Topic = "general"
	TopicEducation  Topic = "education"
	TopicHealth     Topic = "health"
	TopicTechnology Topic = "technology"
)

// Valid reports whether t is one of the known topics.
func (t Topic) Valid() bool {
	switch t {
	case TopicGeneral, TopicEducation, TopicHealth, TopicTechnology:
		return true
	}
	return false
}

// QuestionType determines the answer's validation rule and input widget.
type QuestionType string

const (
	QuestionText   QuestionType = "text"
	QuestionNumber QuestionType = "number"
	QuestionChoice QuestionType = "choice"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionNumber, QuestionChoice:
		return true
	}
	return false
}

// Option is one selectable choice of a choice question.
type Option struct {
	Title string `json:"title"`
}

// Question is a single prompt in a template. Questions have no identity
// of their own; their position in the template is meaningful.
type Question struct {
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Options []Option     `json:"options,omitempty"` // required when Type == choice
}

// Template is an authored, ordered set of questions under a title/topic.
// Templates are immutable once created.
type Template struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Topic     Topic      `json:"topic"`
	Questions []Question `json:"questions"`
	CreatedBy string     `json:"createdBy"`
	CreatedAt time.Time  `json:"createdAt"`
}

// TemplateInput is the author-supplied part of a template, before the
// store assigns an id and stamps createdBy/createdAt.
type TemplateInput struct {
	Title     string     `json:"title"`
	Topic     Topic      `json:"topic"`
	Questions []Question `json:"questions"`
}
