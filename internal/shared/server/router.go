package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grant-backend/internal/adminauth"
	"grant-backend/internal/drafts"
	"grant-backend/internal/resume"
	"grant-backend/internal/services/health"
	"grant-backend/internal/shared/config"
	"grant-backend/internal/shared/server/middleware"
	"grant-backend/internal/shared/server/respond"
	"grant-backend/internal/submissions"
	"grant-backend/internal/uploads"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config             config.Config
	DraftsHandler      *drafts.Handler
	ResumeHandler      *resume.Handler
	AdminAuthHandler   *adminauth.Handler
	AdminAuth          *adminauth.Service
	SubmissionsHandler *submissions.Handler
	UploadsHandler     *uploads.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	healthSvc := health.NewService()
	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})

	deps.DraftsHandler.RegisterRoutes(api)
	deps.ResumeHandler.RegisterRoutes(api)
	deps.UploadsHandler.RegisterRoutes(api)

	// Login endpoints stay outside the session middleware; everything
	// else under /admin requires a valid session token.
	deps.AdminAuthHandler.RegisterRoutes(api)
	admin := api.Group("/admin")
	admin.Use(deps.AdminAuth.Middleware())
	deps.SubmissionsHandler.RegisterRoutes(admin)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
