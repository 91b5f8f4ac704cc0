package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerValueJSON(t *testing.T) {
	// string values stay strings, number values stay numbers
	data, err := json.Marshal(Answer{QuestionID: 1, Question: "How old?", Answer: NumberValue(42)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"question_id":1,"question":"How old?","answer":42}`, string(data))

	data, err = json.Marshal(Answer{QuestionID: 2, Question: "Colour?", Answer: StringValue("Blue")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"question_id":2,"question":"Colour?","answer":"Blue"}`, string(data))

	var a Answer
	require.NoError(t, json.Unmarshal([]byte(`{"question_id":1,"question":"How old?","answer":42}`), &a))
	assert.True(t, a.Answer.IsNum)
	assert.Equal(t, float64(42), a.Answer.Num)

	require.NoError(t, json.Unmarshal([]byte(`{"question_id":2,"question":"Colour?","answer":"Blue"}`), &a))
	assert.False(t, a.Answer.IsNum)
	assert.Equal(t, "Blue", a.Answer.Str)
}

func TestAnswerValueNumeric(t *testing.T) {
	n, ok := StringValue("42.5").Numeric()
	assert.True(t, ok)
	assert.Equal(t, 42.5, n)

	_, ok = StringValue("abc").Numeric()
	assert.False(t, ok)

	n, ok = NumberValue(7).Numeric()
	assert.True(t, ok)
	assert.Equal(t, float64(7), n)
}

func TestSubmissionRoundTrip(t *testing.T) {
	// Serializing to the store representation and back yields
	// field-for-field equality.
	orig := Submission{
		ID:          uuid.New(),
		TemplateID:  uuid.New(),
		SubmittedBy: "user@example.com",
		SubmittedAt: time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC),
		CreatedAt:   time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC),
		Answers: []Answer{
			{QuestionID: 1, Question: "How old are you?", Answer: NumberValue(42)},
			{QuestionID: 2, Question: "Favourite colour?", Answer: StringValue("Blue")},
		},
	}

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var got Submission
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, orig, got)

	// wire field names mirror the original documents
	var wire map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &wire))
	for _, key := range []string{"templateId", "submittedBy", "submittedAt", "created_at", "answers"} {
		assert.Contains(t, wire, key)
	}
}
