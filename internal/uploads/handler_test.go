package uploads

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
)

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func post(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/presign", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func presignTestClient() *s3.PresignClient {
	client := s3.NewFromConfig(aws.Config{Region: "us-east-1"})
	return s3.NewPresignClient(client)
}

func TestPresignUnconfigured(t *testing.T) {
	r := newRouter(NewHandler(nil, "", ""))

	w := post(r, `{"token":"abc123","fileName":"report.pdf","contentType":"application/pdf","sizeBytes":1024}`)
	if w.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPresignValidation(t *testing.T) {
	r := newRouter(NewHandler(presignTestClient(), "grant-uploads", ""))

	cases := []struct {
		name string
		body string
	}{
		{"malformed body", `{not json`},
		{"missing token", `{"fileName":"report.pdf","contentType":"application/pdf","sizeBytes":1024}`},
		{"missing file name", `{"token":"abc123","contentType":"application/pdf","sizeBytes":1024}`},
		{"unsupported content type", `{"token":"abc123","fileName":"run.exe","contentType":"application/octet-stream","sizeBytes":1024}`},
		{"zero size", `{"token":"abc123","fileName":"report.pdf","contentType":"application/pdf","sizeBytes":0}`},
		{"oversize", `{"token":"abc123","fileName":"report.pdf","contentType":"application/pdf","sizeBytes":10485761}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := post(r, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestObjectKeyStripsDirectories(t *testing.T) {
	h := NewHandler(presignTestClient(), "grant-uploads", "env/prod")

	key := h.objectKey("abc123", "../../etc/passwd")
	if strings.Contains(key, "..") {
		t.Fatalf("key must not carry path traversal, got %q", key)
	}
	if !strings.HasPrefix(key, "env/prod/submissions/abc123/") {
		t.Fatalf("unexpected key layout %q", key)
	}
	if !strings.HasSuffix(key, "_passwd") {
		t.Fatalf("file base name must survive, got %q", key)
	}
}
