package submissions

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"grant-backend/internal/adminauth"
	"grant-backend/internal/audit"
	"grant-backend/internal/drafts"
	"grant-backend/internal/shared/faults"
	"grant-backend/internal/shared/server/respond"
)

// Handler serves the read-only admin endpoints. Every record read is
// reported to the audit recorder.
type Handler struct {
	Repo   Repo
	Drafts *drafts.Service
	Audit  *audit.Recorder
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo, draftsSvc *drafts.Service, recorder *audit.Recorder) *Handler {
	return &Handler{Repo: repo, Drafts: draftsSvc, Audit: recorder}
}

// RegisterRoutes attaches the admin routes; the group must already carry
// the session-verifying middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/submissions", h.list)
	rg.GET("/submissions/:token", h.get)
	rg.GET("/drafts/:token", h.getDraft)
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	subs, err := h.Repo.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.record(c, "submissions.list", "submissions", audit.OutcomeError)
		respond.Failure(c, faults.ErrUpstream)
		return
	}

	h.record(c, "submissions.list", "submissions", audit.OutcomeOK)
	if subs == nil {
		subs = []Submission{}
	}
	respond.OK(c, gin.H{"submissions": subs})
}

func (h *Handler) get(c *gin.Context) {
	token := c.Param("token")
	sub, err := h.Repo.GetByToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.record(c, "submissions.get", token, audit.OutcomeDenied)
			respond.Failure(c, faults.ErrNotFound)
			return
		}
		h.record(c, "submissions.get", token, audit.OutcomeError)
		respond.Failure(c, faults.ErrUpstream)
		return
	}

	h.record(c, "submissions.get", token, audit.OutcomeOK)
	respond.OK(c, sub)
}

func (h *Handler) getDraft(c *gin.Context) {
	token := c.Param("token")
	data, step, err := h.Drafts.Load(c.Request.Context(), token)
	if err != nil {
		outcome := audit.OutcomeError
		if errors.Is(err, faults.ErrNotFound) {
			outcome = audit.OutcomeDenied
		}
		h.record(c, "drafts.get", token, outcome)
		respond.Failure(c, err)
		return
	}

	h.record(c, "drafts.get", token, audit.OutcomeOK)
	respond.OK(c, gin.H{"data": data, "step": step})
}

func (h *Handler) record(c *gin.Context, action, key, outcome string) {
	h.Audit.Record(audit.Event{
		Actor:       adminauth.AdminEmailFromContext(c),
		SourceIP:    c.ClientIP(),
		Action:      action,
		ResourceKey: key,
		Outcome:     outcome,
	})
}
