package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formtemplates/backend/internal/models"
)

func validInput() models.TemplateInput {
	return models.TemplateInput{
		Title: "Customer survey",
		Topic: models.TopicGeneral,
		Questions: []models.Question{
			{Text: "How old are you?", Type: models.QuestionNumber},
			{Text: "Favourite colour?", Type: models.QuestionChoice, Options: []models.Option{
				{Title: "Red"}, {Title: "Blue"},
			}},
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	assert.Nil(t, Validate(validInput()))
}

func TestValidateOrdered(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.TemplateInput)
		wantCode  string
		wantIndex int
	}{
		{
			name:      "missing title",
			mutate:    func(in *models.TemplateInput) { in.Title = "" },
			wantCode:  CodeMissingTitle,
			wantIndex: -1,
		},
		{
			name:      "invalid topic",
			mutate:    func(in *models.TemplateInput) { in.Topic = "sports" },
			wantCode:  CodeInvalidTopic,
			wantIndex: -1,
		},
		{
			name:      "no questions",
			mutate:    func(in *models.TemplateInput) { in.Questions = nil },
			wantCode:  CodeNoQuestions,
			wantIndex: -1,
		},
		{
			name:      "missing question text",
			mutate:    func(in *models.TemplateInput) { in.Questions[1].Text = "" },
			wantCode:  CodeMissingQuestionText,
			wantIndex: 1,
		},
		{
			name:      "choice without options",
			mutate:    func(in *models.TemplateInput) { in.Questions[1].Options = nil },
			wantCode:  CodeInvalidOptions,
			wantIndex: 1,
		},
		{
			name:      "choice with empty option title",
			mutate:    func(in *models.TemplateInput) { in.Questions[1].Options[0].Title = "" },
			wantCode:  CodeInvalidOptions,
			wantIndex: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			verr := Validate(in)
			require.NotNil(t, verr)
			assert.Equal(t, tt.wantCode, verr.Code)
			assert.Equal(t, tt.wantIndex, verr.Index)
		})
	}
}

func TestValidateFirstViolationWins(t *testing.T) {
	// Missing title and missing questions at once: title is checked first.
	in := models.TemplateInput{Topic: "sports"}
	verr := Validate(in)
	require.NotNil(t, verr)
	assert.Equal(t, CodeMissingTitle, verr.Code)
}

func TestValidateOptionsIgnoredForNonChoice(t *testing.T) {
	in := validInput()
	in.Questions[0].Options = []models.Option{{Title: ""}}
	assert.Nil(t, Validate(in), "options of a non-choice question are ignored")
}
