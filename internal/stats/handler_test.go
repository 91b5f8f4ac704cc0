package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/formtemplates/backend/internal/models"
)

type fakeSource struct {
	subs []models.Submission
}

func (f *fakeSource) List(_ context.Context) ([]models.Submission, error) {
	return f.subs, nil
}

func statsRouter(source SubmissionSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/stats", NewHandler(source, zap.NewNop()).Get)
	return r
}

func getStats(t *testing.T, r http.Handler) SummaryResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got struct {
		Data SummaryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	return got.Data
}

func TestStatsEmpty(t *testing.T) {
	out := getStats(t, statsRouter(&fakeSource{}))
	assert.Equal(t, 0, out.TotalResponses)
	assert.Equal(t, float64(0), out.AverageFirstAnswer)
	assert.Empty(t, out.ResponsesByDay)
	assert.Nil(t, out.LatestSubmittedAt)
	assert.Empty(t, out.Recent)
}

func TestStatsSummary(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	jan2 := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	source := &fakeSource{subs: []models.Submission{
		sub(jan1, models.NumberValue(20)),
		sub(jan1, models.NumberValue(40)),
		sub(jan2, models.NumberValue(30)),
	}}

	out := getStats(t, statsRouter(source))
	assert.Equal(t, 3, out.TotalResponses)
	assert.Equal(t, float64(30), out.AverageFirstAnswer)
	assert.Equal(t, []DayCount{{Day: "Jan 01", Count: 2}, {Day: "Jan 02", Count: 1}}, out.ResponsesByDay)
	require.NotNil(t, out.LatestSubmittedAt)
	assert.Equal(t, jan2, out.LatestSubmittedAt.UTC())
	assert.Len(t, out.Recent, 3)
}
