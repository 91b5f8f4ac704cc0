package templates

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/formtemplates/backend/internal/auth"
	"github.com/formtemplates/backend/internal/models"
	"github.com/formtemplates/backend/pkg/response"
)

// Handler handles template HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a templates handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Create handles POST /templates (signed-in users only). The draft is
// validated before any write is attempted; createdBy is stamped from
// the caller's session, never taken from the body.
func (h *Handler) Create(c *gin.Context) {
	email := c.MustGet(auth.ContextUserEmail).(string)

	var in models.TemplateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if verr := Validate(in); verr != nil {
		response.BadRequest(c, verr.Error())
		return
	}

	t, err := h.store.Create(c.Request.Context(), in, email)
	if err != nil {
		h.logger.Error("create template", zap.Error(err))
		response.ServiceUnavailable(c, "failed to create template")
		return
	}
	response.Created(c, t)
}

// GetByID handles GET /templates/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid template id")
		return
	}

	t, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "template not found")
			return
		}
		h.logger.Error("get template", zap.Error(err))
		response.ServiceUnavailable(c, "failed to load template")
		return
	}
	response.OK(c, t)
}

// List handles GET /templates. Returns the full snapshot.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list templates", zap.Error(err))
		response.ServiceUnavailable(c, "failed to list templates")
		return
	}
	if list == nil {
		list = []models.Template{}
	}
	response.OK(c, list)
}
