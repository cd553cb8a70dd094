package adminauth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"grant-backend/internal/shared/server/respond"
)

// Handler exposes the magic-link login endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the unauthenticated login routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/admin/auth/request", h.request)
	rg.GET("/admin/auth/verify", h.verify)
}

type requestBody struct {
	Email string `json:"email"`
}

func (h *Handler) request(c *gin.Context) {
	var req requestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "invalid request body", nil)
		return
	}

	if err := h.Svc.RequestMagicLink(c.Request.Context(), req.Email); err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, gin.H{"ok": true})
}

func (h *Handler) verify(c *gin.Context) {
	sessionToken, expiresAt, err := h.Svc.VerifyMagicLink(c.Request.Context(), c.Query("token"))
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, gin.H{
		"sessionToken": sessionToken,
		"expiresAt":    expiresAt.UTC().Format(time.RFC3339),
	})
}
