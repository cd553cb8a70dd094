package adminauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"grant-backend/internal/mail"
)

func protectedRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	admin := r.Group("/admin")
	admin.Use(svc.Middleware())
	admin.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": AdminEmailFromContext(c)})
	})
	return r
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, &now, mail.LogDispatcher{})
	r := protectedRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestMiddlewareAcceptsSessionToken(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, &now, mail.LogDispatcher{})
	r := protectedRouter(t, svc)

	magic, err := signToken([]byte("magic-secret"), "staff@org.example", TypeMagic, "", 15*time.Minute, now)
	if err != nil {
		t.Fatalf("sign magic: %v", err)
	}
	session, _, err := svc.VerifyMagicLink(context.Background(), magic)
	if err != nil {
		t.Fatalf("VerifyMagicLink: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+session)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestMiddlewareRejectsMagicToken(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, &now, mail.LogDispatcher{})
	r := protectedRouter(t, svc)

	magic, err := signToken([]byte("magic-secret"), "staff@org.example", TypeMagic, "", 15*time.Minute, now)
	if err != nil {
		t.Fatalf("sign magic: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+magic)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for magic token in session position, got %d", resp.Code)
	}
}
