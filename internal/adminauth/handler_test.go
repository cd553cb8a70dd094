package adminauth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func authRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postRequestLink(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/auth/request", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestEndpointAcceptsAllowListed(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	dispatcher := &capturingDispatcher{ok: true}
	r := authRouter(newTestService(t, &now, dispatcher))

	w := postRequestLink(r, `{"email":"staff@org.example"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(dispatcher.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(dispatcher.sent))
	}
}

func TestRequestEndpointForbidden(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	r := authRouter(newTestService(t, &now, &capturingDispatcher{ok: true}))

	w := postRequestLink(r, `{"email":"intruder@elsewhere.example"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequestEndpointRateLimited(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	r := authRouter(newTestService(t, &now, &capturingDispatcher{ok: true}))

	if w := postRequestLink(r, `{"email":"staff@org.example"}`); w.Code != http.StatusOK {
		t.Fatalf("first request expected 200, got %d", w.Code)
	}
	if w := postRequestLink(r, `{"email":"staff@org.example"}`); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request expected 429, got %d: %s", w.Code, w.Body.String())
	}
}

func TestVerifyEndpointIssuesSession(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	dispatcher := &capturingDispatcher{ok: true}
	svc := newTestService(t, &now, dispatcher)
	r := authRouter(svc)

	if w := postRequestLink(r, `{"email":"staff@org.example"}`); w.Code != http.StatusOK {
		t.Fatalf("request link: %d", w.Code)
	}

	link := dispatcher.sent[0].Text
	idx := strings.Index(link, "token=")
	if idx < 0 {
		t.Fatalf("no token in mail: %q", link)
	}
	raw := link[idx+len("token="):]
	if end := strings.IndexAny(raw, "\n "); end >= 0 {
		raw = raw[:end]
	}
	magicToken, err := url.QueryUnescape(raw)
	if err != nil {
		t.Fatalf("unescape token: %v", err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/auth/verify?token="+url.QueryEscape(magicToken), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["sessionToken"] == "" {
		t.Fatalf("missing sessionToken in %v", body)
	}
	if _, err := time.Parse(time.RFC3339, body["expiresAt"]); err != nil {
		t.Fatalf("expiresAt must be RFC3339, got %q", body["expiresAt"])
	}

	if _, err := svc.VerifySession(body["sessionToken"]); err != nil {
		t.Fatalf("issued session token must verify: %v", err)
	}
}

func TestVerifyEndpointRejectsGarbage(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	r := authRouter(newTestService(t, &now, &capturingDispatcher{ok: true}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/auth/verify?token=garbage", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestVerifyEndpointMissingToken(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	r := authRouter(newTestService(t, &now, &capturingDispatcher{ok: true}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/auth/verify", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
