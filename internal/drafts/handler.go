package drafts

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"grant-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches draft routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/drafts", h.save)
}

type saveRequest struct {
	Token string         `json:"token"`
	Data  map[string]any `json:"data"`
	Step  int            `json:"step"`
}

type saveResponse struct {
	Token     string `json:"token"`
	Step      int    `json:"step"`
	UpdatedAt string `json:"updatedAt"`
}

func (h *Handler) save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "invalid request body", nil)
		return
	}
	req.Token = strings.TrimSpace(req.Token)

	draft, err := h.Svc.Save(c.Request.Context(), req.Token, req.Data, req.Step)
	if err != nil {
		respond.Failure(c, err)
		return
	}

	c.Set("draftToken", draft.Token)
	respond.OK(c, saveResponse{
		Token:     draft.Token,
		Step:      draft.Step,
		UpdatedAt: draft.UpdatedAt.UTC().Format(time.RFC3339),
	})
}
