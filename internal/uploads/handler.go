package uploads

import (
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"grant-backend/internal/shared/server/respond"
)

const (
	maxUploadBytes = 10 << 20
	presignExpires = 15 * time.Minute
)

var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
}

// Handler brokers direct-to-S3 uploads for submission attachments. When
// no presign client is configured (local object store), the routes
// respond 501.
type Handler struct {
	Presign *s3.PresignClient
	Bucket  string
	Prefix  string
}

// NewHandler constructs a Handler. Presign may be nil.
func NewHandler(presign *s3.PresignClient, bucket, prefix string) *Handler {
	return &Handler{Presign: presign, Bucket: bucket, Prefix: prefix}
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/presign", h.presign)
}

type presignRequest struct {
	Token       string `json:"token"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

type presignResponse struct {
	URL       string `json:"url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

func (h *Handler) presign(c *gin.Context) {
	if h.Presign == nil {
		respond.Error(c, http.StatusNotImplemented, "not_configured", "direct uploads are not configured", nil)
		return
	}

	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "invalid request body", nil)
		return
	}
	req.Token = strings.TrimSpace(req.Token)
	req.FileName = strings.TrimSpace(req.FileName)
	req.ContentType = strings.TrimSpace(req.ContentType)

	if req.Token == "" || req.FileName == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "token and fileName are required", nil)
		return
	}
	if _, ok := allowedContentTypes[req.ContentType]; !ok {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "unsupported content type", nil)
		return
	}
	if req.SizeBytes <= 0 || req.SizeBytes > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "invalid_input", fmt.Sprintf("sizeBytes must be between 1 and %d", maxUploadBytes), nil)
		return
	}

	key := h.objectKey(req.Token, req.FileName)
	out, err := h.Presign.PresignPutObject(c.Request.Context(), &s3.PutObjectInput{
		Bucket:        aws.String(h.Bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(req.ContentType),
		ContentLength: aws.Int64(req.SizeBytes),
	}, s3.WithPresignExpires(presignExpires))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "upstream_error", "failed to presign upload", nil)
		return
	}

	respond.OK(c, presignResponse{
		URL:       out.URL,
		Key:       key,
		ExpiresIn: int(presignExpires.Seconds()),
	})
}

func (h *Handler) objectKey(token, fileName string) string {
	base := path.Base(fileName)
	name := uuid.NewString() + "_" + base
	key := path.Join("submissions", token, name)
	prefix := strings.Trim(h.Prefix, "/")
	if prefix != "" {
		key = prefix + "/" + key
	}
	return key
}
