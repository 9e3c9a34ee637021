package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Hegee0307/metadata-removal-api/internal/config"
	"github.com/Hegee0307/metadata-removal-api/internal/domain"
	"github.com/Hegee0307/metadata-removal-api/internal/service"
)

const (
	Version = "1.0.0"

	cleanedFilename = "cleaned-image.jpg"

	// Headroom on top of the upload limit for multipart boundaries and
	// part headers.
	multipartOverhead = 10 << 10
)

type Handler struct {
	service service.CleanService
	cfg     *config.Config
	log     *zap.Logger
}

func NewHandler(service service.CleanService, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
		log:     log,
	}
}

func (h *Handler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, domain.InfoResponse{
		Status:  "ok",
		Message: "Image metadata removal service. Upload an image or submit a URL to receive a metadata-free JPEG.",
		Version: Version,
		Endpoints: []string{
			"GET /",
			"GET /health",
			"POST /remove-metadata",
			"POST /remove-metadata-url",
			"POST /remove-metadata-object",
		},
	})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, domain.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// RemoveMetadata handles the multipart upload mode. The request body
// is capped at the upload limit before multipart parsing starts, so an
// oversize body is cut off mid-read instead of being buffered whole.
func (h *Handler) RemoveMetadata(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body,
		h.cfg.App.MaxUploadSize+multipartOverhead)

	file, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondError(c, domain.ErrFileTooLarge(c.Request.ContentLength, h.cfg.App.MaxUploadSize))
			return
		}
		h.respondError(c, domain.ErrNoFileProvided())
		return
	}

	src, err := file.Open()
	if err != nil {
		h.log.Error("Failed to open uploaded file", zap.Error(err))
		h.respondError(c, domain.ErrServerError())
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		h.log.Error("Failed to read uploaded file", zap.Error(err))
		h.respondError(c, domain.ErrServerError())
		return
	}

	cleaned, err := h.service.CleanUpload(c.Request.Context(), domain.ImagePayload{
		Data:         data,
		Filename:     file.Filename,
		ContentType:  file.Header.Get("Content-Type"),
		DeclaredSize: file.Size,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondJPEG(c, cleaned)
}

func (h *Handler) RemoveMetadataURL(c *gin.Context) {
	var req domain.URLRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageURL == "" {
		h.respondError(c, domain.ErrNoUrlProvided())
		return
	}

	cleaned, err := h.service.CleanFromURL(c.Request.Context(), req.ImageURL)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondJPEG(c, cleaned)
}

func (h *Handler) RemoveMetadataObject(c *gin.Context) {
	var req domain.ObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Key == "" {
		h.respondError(c, domain.ErrNoKeyProvided())
		return
	}

	cleaned, err := h.service.CleanFromObject(c.Request.Context(), req.Bucket, req.Key)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondJPEG(c, cleaned)
}

func (h *Handler) respondJPEG(c *gin.Context, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", cleanedFilename))
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, "image/jpeg", data)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := domain.AsAppError(err)

	if appErr.Status >= http.StatusInternalServerError {
		h.log.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("kind", string(appErr.Kind)),
			zap.Error(err))
	} else {
		h.log.Warn("Request rejected",
			zap.String("path", c.FullPath()),
			zap.String("kind", string(appErr.Kind)),
			zap.String("message", appErr.Message))
	}

	c.AbortWithStatusJSON(appErr.Status, domain.ErrorResponse{
		Error:   string(appErr.Kind),
		Message: appErr.Message,
	})
}

// Recovery converts any handler panic into a structured ServerError
// body instead of a dropped connection.
func (h *Handler) Recovery(c *gin.Context, recovered any) {
	h.log.Error("Panic recovered in handler",
		zap.String("path", c.FullPath()),
		zap.Any("panic", recovered))

	appErr := domain.ErrServerError()
	c.AbortWithStatusJSON(appErr.Status, domain.ErrorResponse{
		Error:   string(appErr.Kind),
		Message: appErr.Message,
	})
}
