package resume_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"grant-backend/internal/bootstrap"
	"grant-backend/internal/resume"
	"grant-backend/internal/shared/config"
)

func newTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Env:           "dev",
		LocalStoreDir: t.TempDir(),
		PublicBaseURL: "https://grants.org.example",
		AdminEmails:   []string{"staff@org.example"},
		MagicSecret:   "test-magic-secret",
		SessionSecret: "test-session-secret",
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

func seedDraft(t *testing.T, app *bootstrap.App, token string) {
	t.Helper()
	data := map[string]any{"child.firstName": "Sam"}
	if _, err := app.DraftsService.Save(context.Background(), token, data, 2); err != nil {
		t.Fatalf("seed draft: %v", err)
	}
}

func seedResumeToken(t *testing.T, app *bootstrap.App, token, draftToken string) {
	t.Helper()
	rec := resume.TokenRecord{
		Token:      token,
		DraftToken: draftToken,
		Email:      "applicant@family.example",
		ExpiresAt:  time.Now().UTC().Add(time.Hour),
	}
	if err := app.ResumeStore.Create(context.Background(), rec); err != nil {
		t.Fatalf("seed resume token: %v", err)
	}
}

func do(app *bootstrap.App, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func resumeCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == resume.CookieName {
			return ck
		}
	}
	t.Fatalf("no %s cookie in response", resume.CookieName)
	return nil
}

func TestExchangeSetsCookieAndRedirects(t *testing.T) {
	app := newTestApp(t)
	seedDraft(t, app, "abc123")
	seedResumeToken(t, app, "rt-ok", "abc123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resume/exchange?rt=rt-ok", nil)
	w := do(app, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "https://grants.org.example/?resumed=1" {
		t.Fatalf("unexpected redirect target %q", loc)
	}

	ck := resumeCookie(t, w)
	if ck.Value != "abc123" {
		t.Fatalf("cookie must carry the draft token, got %q", ck.Value)
	}
	if !ck.HttpOnly || !ck.Secure {
		t.Fatalf("cookie must be http-only and secure: %+v", ck)
	}
	if ck.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie must be SameSite=Lax, got %v", ck.SameSite)
	}
	if ck.Path != "/" {
		t.Fatalf("cookie path must be /, got %q", ck.Path)
	}
}

func TestExchangeReplayIsGone(t *testing.T) {
	app := newTestApp(t)
	seedDraft(t, app, "abc123")
	seedResumeToken(t, app, "rt-once", "abc123")

	first := do(app, httptest.NewRequest(http.MethodGet, "/api/v1/resume/exchange?rt=rt-once", nil))
	if first.Code != http.StatusFound {
		t.Fatalf("first exchange expected 302, got %d", first.Code)
	}

	second := do(app, httptest.NewRequest(http.MethodGet, "/api/v1/resume/exchange?rt=rt-once", nil))
	if second.Code != http.StatusGone {
		t.Fatalf("replay expected 410, got %d: %s", second.Code, second.Body.String())
	}
	for _, ck := range second.Result().Cookies() {
		if ck.Name == resume.CookieName {
			t.Fatalf("replay must not set a session cookie")
		}
	}
}

func TestExchangeUnknownToken(t *testing.T) {
	app := newTestApp(t)

	w := do(app, httptest.NewRequest(http.MethodGet, "/api/v1/resume/exchange?rt=never-issued", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestExchangeMissingParam(t *testing.T) {
	app := newTestApp(t)

	w := do(app, httptest.NewRequest(http.MethodGet, "/api/v1/resume/exchange", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetDraftWithCookie(t *testing.T) {
	app := newTestApp(t)
	seedDraft(t, app, "abc123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resume/get-draft", nil)
	req.AddCookie(&http.Cookie{Name: resume.CookieName, Value: "abc123"})
	w := do(app, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["child.firstName"] != "Sam" {
		t.Fatalf("expected child.firstName=Sam, got %v", body["child.firstName"])
	}
	if step, ok := body["step"].(float64); !ok || step != 2 {
		t.Fatalf("expected step 2, got %v", body["step"])
	}
}

func TestGetDraftCookieWinsOverQueryParam(t *testing.T) {
	app := newTestApp(t)
	seedDraft(t, app, "mine")
	if _, err := app.DraftsService.Save(context.Background(), "other", map[string]any{"child.firstName": "Alex"}, 1); err != nil {
		t.Fatalf("seed other draft: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resume/get-draft?token=other", nil)
	req.AddCookie(&http.Cookie{Name: resume.CookieName, Value: "mine"})
	w := do(app, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["child.firstName"] != "Sam" {
		t.Fatalf("cookie draft must win, got %v", body["child.firstName"])
	}
}

func TestGetDraftQueryFallback(t *testing.T) {
	app := newTestApp(t)
	seedDraft(t, app, "abc123")

	w := do(app, httptest.NewRequest(http.MethodGet, "/api/v1/resume/get-draft?token=abc123", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetDraftWithoutAnyToken(t *testing.T) {
	app := newTestApp(t)

	w := do(app, httptest.NewRequest(http.MethodGet, "/api/v1/resume/get-draft", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestWhoami(t *testing.T) {
	app := newTestApp(t)

	anon := do(app, httptest.NewRequest(http.MethodGet, "/api/v1/resume/whoami", nil))
	if anon.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", anon.Code)
	}
	var anonBody map[string]any
	if err := json.Unmarshal(anon.Body.Bytes(), &anonBody); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if anonBody["token"] != nil {
		t.Fatalf("anonymous whoami must report a nil token, got %v", anonBody["token"])
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resume/whoami", nil)
	req.AddCookie(&http.Cookie{Name: resume.CookieName, Value: "abc123"})
	known := do(app, req)
	var knownBody map[string]any
	if err := json.Unmarshal(known.Body.Bytes(), &knownBody); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if knownBody["token"] != "abc123" {
		t.Fatalf("expected token abc123, got %v", knownBody["token"])
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/logout", nil)
	req.AddCookie(&http.Cookie{Name: resume.CookieName, Value: "abc123"})
	w := do(app, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	ck := resumeCookie(t, w)
	if ck.Value != "" || ck.MaxAge >= 0 {
		t.Fatalf("logout must clear the cookie, got value=%q maxAge=%d", ck.Value, ck.MaxAge)
	}
}

func TestSendLinkRejectsMalformedBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/send-link", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := do(app, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSendLinkEndToEnd(t *testing.T) {
	app := newTestApp(t)
	seedDraft(t, app, "abc123")

	payload := `{"email":"applicant@family.example","token":"abc123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/send-link", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := do(app, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	draft, err := app.DraftsService.Get(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("get draft: %v", err)
	}
	if draft.Email != "applicant@family.example" {
		t.Fatalf("email not recorded on draft, got %q", draft.Email)
	}
}
