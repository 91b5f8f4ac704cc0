package submissions

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/formtemplates/backend/internal/auth"
	"github.com/formtemplates/backend/internal/models"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	submissions []models.Submission
}

func (f *fakeStore) Create(_ context.Context, s *models.Submission) error {
	s.ID = uuid.New()
	s.CreatedAt = s.SubmittedAt
	f.submissions = append(f.submissions, *s)
	return nil
}

func (f *fakeStore) List(_ context.Context) ([]models.Submission, error) {
	return f.submissions, nil
}

func (f *fakeStore) ListByTemplate(_ context.Context, templateID uuid.UUID) ([]models.Submission, error) {
	var list []models.Submission
	for _, s := range f.submissions {
		if s.TemplateID == templateID {
			list = append(list, s)
		}
	}
	return list, nil
}

// fakeTemplates serves one template.
type fakeTemplates struct {
	template *models.Template
}

func (f *fakeTemplates) GetByID(_ context.Context, id uuid.UUID) (*models.Template, error) {
	if f.template == nil || f.template.ID != id {
		return nil, pgx.ErrNoRows
	}
	return f.template, nil
}

// fakeFeed counts change notifications.
type fakeFeed struct {
	notified int
}

func (f *fakeFeed) NotifyChanged() { f.notified++ }

func fixture() (*fakeStore, *fakeTemplates, *fakeFeed, *gin.Engine) {
	gin.SetMode(gin.TestMode)

	store := &fakeStore{}
	tmpls := &fakeTemplates{template: &models.Template{
		ID:    uuid.New(),
		Title: "Survey",
		Topic: models.TopicGeneral,
		Questions: []models.Question{
			{Text: "How old are you?", Type: models.QuestionNumber},
			{Text: "Favourite colour?", Type: models.QuestionChoice, Options: []models.Option{{Title: "A"}, {Title: "B"}}},
		},
	}}
	feed := &fakeFeed{}
	h := NewHandler(store, tmpls, feed, zap.NewNop())

	identify := func(c *gin.Context) {
		c.Set(auth.ContextUserID, uuid.New())
		c.Set(auth.ContextUserEmail, "respondent@example.com")
	}

	r := gin.New()
	r.POST("/templates/:id/submissions", identify, h.Create)
	r.GET("/templates/:id/submissions", h.ListByTemplate)
	r.GET("/submissions", h.List)
	return store, tmpls, feed, r
}

func submit(t *testing.T, r http.Handler, templateID uuid.UUID, answers []models.AnswerValue) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(models.SubmissionInput{Answers: answers})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/templates/"+templateID.String()+"/submissions", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateSubmission(t *testing.T) {
	store, tmpls, feed, r := fixture()

	w := submit(t, r, tmpls.template.ID, []models.AnswerValue{
		models.StringValue("42"),
		models.StringValue("A"),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got struct {
		Data models.Submission `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "respondent@example.com", got.Data.SubmittedBy)
	assert.Equal(t, tmpls.template.ID, got.Data.TemplateID)
	require.Len(t, got.Data.Answers, 2)
	assert.Equal(t, "How old are you?", got.Data.Answers[0].Question)
	assert.Equal(t, models.NumberValue(42), got.Data.Answers[0].Answer)

	require.Len(t, store.submissions, 1)
	assert.Equal(t, 1, feed.notified, "live feed is notified after the write")
}

func TestCreateSubmissionInvalidChoice(t *testing.T) {
	store, tmpls, feed, r := fixture()

	w := submit(t, r, tmpls.template.ID, []models.AnswerValue{
		models.StringValue("42"),
		models.StringValue("C"),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.submissions, "no write on validation failure")
	assert.Zero(t, feed.notified)
}

func TestCreateSubmissionCountMismatch(t *testing.T) {
	_, tmpls, _, r := fixture()

	w := submit(t, r, tmpls.template.ID, []models.AnswerValue{models.StringValue("42")})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSubmissionTemplateNotFound(t *testing.T) {
	_, _, _, r := fixture()

	w := submit(t, r, uuid.New(), []models.AnswerValue{models.StringValue("42")})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListByTemplateFilters(t *testing.T) {
	store, tmpls, _, r := fixture()

	w := submit(t, r, tmpls.template.ID, []models.AnswerValue{
		models.StringValue("42"),
		models.StringValue("A"),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// a submission for some other template
	store.submissions = append(store.submissions, models.Submission{ID: uuid.New(), TemplateID: uuid.New()})

	req := httptest.NewRequest(http.MethodGet, "/templates/"+tmpls.template.ID.String()+"/submissions", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Data []models.Submission `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Data, 1)
	assert.Equal(t, tmpls.template.ID, got.Data[0].TemplateID)
}

func TestListSubmissionsEmpty(t *testing.T) {
	_, _, _, r := fixture()

	req := httptest.NewRequest(http.MethodGet, "/submissions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
}
