package adminauth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"grant-backend/internal/shared/server/respond"
)

const adminEmailKey = "adminEmail"

// Middleware verifies the header-borne session token and makes the
// verified email available to downstream handlers. Anything short of a
// valid session token for an allow-listed email short-circuits the
// request.
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		raw := ""
		if strings.HasPrefix(header, "Bearer ") {
			raw = strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		}

		email, err := s.VerifySession(raw)
		if err != nil {
			respond.Failure(c, err)
			return
		}

		c.Set(adminEmailKey, email)
		c.Next()
	}
}

// AdminEmailFromContext fetches the email set by the session middleware.
func AdminEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(adminEmailKey)
	if email, ok := val.(string); ok {
		return email
	}
	return ""
}
