package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/anonto42/preference/backend/pkg/firebase"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxUploadSize = 10 << 20

var uploadBuckets = map[string]bool{
	"post-images":         true,
	"comment-images":      true,
	"message-attachments": true,
	"avatars":             true,
}

// UploadHandler stores user media in object storage
type UploadHandler struct {
	uploader firebase.Uploader
}

// NewUploadHandler creates a new UploadHandler. uploader may be nil when storage is not configured.
func NewUploadHandler(uploader firebase.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// RegisterUploadRoutes registers upload routes
func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/uploads/:bucket", h.Upload)
}

// Upload stores the multipart "file" field under <bucket>/<user id>/ and returns its URL
func (h *UploadHandler) Upload(c echo.Context) error {
	if h.uploader == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "File storage is not configured")
	}
	bucket := c.Param("bucket")
	if !uploadBuckets[bucket] {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown upload bucket")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "File is required")
	}
	if file.Size > maxUploadSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "File is too large")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not read file")
	}
	defer src.Close()

	contentType := file.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	userID := strconv.FormatUint(uint64(getUserIDFromContext(c)), 10)
	objectPath := bucket + "/" + userID + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))

	url, err := h.uploader.Upload(c.Request().Context(), objectPath, contentType, src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return respond(c, http.StatusCreated, echo.Map{
		"url":  url,
		"path": objectPath,
	})
}
