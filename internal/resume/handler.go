package resume

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"grant-backend/internal/shared/server/respond"
)

const (
	// CookieName carries the draft token between requests.
	CookieName   = "resume"
	cookieMaxAge = 24 * 60 * 60
)

// Handler wires the resume flow over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resume/send-link", h.sendLink)
	rg.GET("/resume/exchange", h.exchange)
	rg.GET("/resume/get-draft", h.getDraft)
	rg.GET("/resume/whoami", h.whoami)
	rg.POST("/resume/logout", h.logout)
}

type sendLinkRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

func (h *Handler) sendLink(c *gin.Context) {
	var req sendLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "invalid request body", nil)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Token = strings.TrimSpace(req.Token)

	if err := h.Svc.SendLink(c.Request.Context(), req.Email, req.Token); err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, gin.H{"ok": true})
}

func (h *Handler) exchange(c *gin.Context) {
	draftToken, err := h.Svc.Exchange(c.Request.Context(), c.Query("rt"))
	if err != nil {
		respond.Failure(c, err)
		return
	}

	setSessionCookie(c, draftToken, cookieMaxAge)
	c.Redirect(http.StatusFound, h.Svc.LandingURL())
}

func (h *Handler) getDraft(c *gin.Context) {
	// The authenticated cookie wins; an explicit token parameter is only
	// a fallback and never overrides it.
	token, _ := c.Cookie(CookieName)
	if token == "" {
		token = strings.TrimSpace(c.Query("token"))
	}

	data, err := h.Svc.LoadDraft(c.Request.Context(), token)
	if err != nil {
		respond.Failure(c, err)
		return
	}

	c.Set("draftToken", token)
	respond.OK(c, data)
}

func (h *Handler) whoami(c *gin.Context) {
	token, err := c.Cookie(CookieName)
	if err != nil || token == "" {
		respond.OK(c, gin.H{"token": nil})
		return
	}
	respond.OK(c, gin.H{"token": token})
}

func (h *Handler) logout(c *gin.Context) {
	setSessionCookie(c, "", -1)
	respond.OK(c, gin.H{"ok": true})
}

func setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, maxAge, "/", "", true, true)
}
