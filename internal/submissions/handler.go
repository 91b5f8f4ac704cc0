package submissions

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/formtemplates/backend/internal/auth"
	"github.com/formtemplates/backend/internal/models"
	"github.com/formtemplates/backend/pkg/response"
)

// TemplateSource resolves the target template of a submission.
type TemplateSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
}

// Broadcaster is notified after each successful write so live
// subscribers receive a fresh snapshot.
type Broadcaster interface {
	NotifyChanged()
}

// Handler handles submission HTTP endpoints.
type Handler struct {
	store     Store
	templates TemplateSource
	feed      Broadcaster
	logger    *zap.Logger
}

// NewHandler creates a submissions handler. feed may be nil when no
// live subscription transport is wired (tests).
func NewHandler(store Store, templates TemplateSource, feed Broadcaster, logger *zap.Logger) *Handler {
	return &Handler{store: store, templates: templates, feed: feed, logger: logger}
}

// Create handles POST /templates/:id/submissions (signed-in users
// only). Answers are validated against the referenced template before
// the write; submittedBy and submittedAt are stamped from the session
// and the current clock.
func (h *Handler) Create(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid template id")
		return
	}
	email := c.MustGet(auth.ContextUserEmail).(string)

	var in models.SubmissionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	t, err := h.templates.GetByID(c.Request.Context(), templateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "template not found")
			return
		}
		h.logger.Error("get template", zap.Error(err))
		response.ServiceUnavailable(c, "failed to load template")
		return
	}

	answers, verr := BuildAnswers(t, in.Answers)
	if verr != nil {
		response.BadRequest(c, verr.Error())
		return
	}

	now := time.Now().UTC()
	s := &models.Submission{
		TemplateID:  templateID,
		SubmittedBy: email,
		SubmittedAt: now,
		Answers:     answers,
	}
	if err := h.store.Create(c.Request.Context(), s); err != nil {
		h.logger.Error("create submission", zap.Error(err))
		response.ServiceUnavailable(c, "failed to save submission")
		return
	}

	if h.feed != nil {
		h.feed.NotifyChanged()
	}
	response.Created(c, s)
}

// List handles GET /submissions. Returns the full snapshot.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list submissions", zap.Error(err))
		response.ServiceUnavailable(c, "failed to list submissions")
		return
	}
	if list == nil {
		list = []models.Submission{}
	}
	response.OK(c, list)
}

// ListByTemplate handles GET /templates/:id/submissions.
func (h *Handler) ListByTemplate(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid template id")
		return
	}
	list, err := h.store.ListByTemplate(c.Request.Context(), templateID)
	if err != nil {
		h.logger.Error("list submissions by template", zap.Error(err))
		response.ServiceUnavailable(c, "failed to list submissions")
		return
	}
	if list == nil {
		list = []models.Submission{}
	}
	response.OK(c, list)
}
