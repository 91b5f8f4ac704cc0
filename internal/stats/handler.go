package stats

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/formtemplates/backend/internal/models"
	"github.com/formtemplates/backend/pkg/response"
)

// recentLimit is how many trailing submissions the dashboard table shows.
const recentLimit = 5

// SubmissionSource provides the snapshot the engine aggregates.
type SubmissionSource interface {
	List(ctx context.Context) ([]models.Submission, error)
}

// SummaryResponse is the JSON shape for GET /stats.
type SummaryResponse struct {
	TotalResponses     int                 `json:"total_responses"`
	AverageFirstAnswer float64             `json:"average_first_answer"`
	ResponsesByDay     []DayCount          `json:"responses_by_day"`
	LatestSubmittedAt  *time.Time          `json:"latest_submitted_at,omitempty"`
	Recent             []models.Submission `json:"recent"`
}

// Handler handles GET /stats.
type Handler struct {
	source SubmissionSource
	logger *zap.Logger
}

// NewHandler creates a stats handler.
func NewHandler(source SubmissionSource, logger *zap.Logger) *Handler {
	return &Handler{source: source, logger: logger}
}

// Get handles GET /stats. Pulls the full submission snapshot and
// derives the dashboard aggregates.
func (h *Handler) Get(c *gin.Context) {
	subs, err := h.source.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list submissions", zap.Error(err))
		response.ServiceUnavailable(c, "failed to load submissions")
		return
	}

	out := SummaryResponse{
		TotalResponses:     TotalCount(subs),
		AverageFirstAnswer: AverageFirstAnswer(subs),
		ResponsesByDay:     CountByDay(subs),
		Recent:             Recent(subs, recentLimit),
	}
	if out.ResponsesByDay == nil {
		out.ResponsesByDay = []DayCount{}
	}
	if out.Recent == nil {
		out.Recent = []models.Submission{}
	}
	if latest := Latest(subs); latest != nil {
		at := latest.SubmittedAt
		out.LatestSubmittedAt = &at
	}
	response.OK(c, out)
}
