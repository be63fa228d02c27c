package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"photo-converter/internal/config"
	"photo-converter/internal/logger"
	"photo-converter/internal/models"
	"photo-converter/internal/services"
	"photo-converter/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// allowedExtensions is the upload allowlist checked before anything is
// stored.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

type ConvertHandler struct {
	selector *services.Selector
	store    storage.FileStore
	cfg      *config.Config
}

func NewConvertHandler(selector *services.Selector, store storage.FileStore, cfg *config.Config) *ConvertHandler {
	return &ConvertHandler{
		selector: selector,
		store:    store,
		cfg:      cfg,
	}
}

// Convert accepts a multipart batch of images plus a target, stores the
// inputs, dispatches to the selected composer and streams the artifact
// back. Every stored path is released by the cleanup coordinator when
// the response terminates, on every exit path.
func (h *ConvertHandler) Convert(c *gin.Context) {
	var form models.ConvertForm
	if err := c.ShouldBind(&form); err != nil {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Validation error for /api/convert")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	mf, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request must be multipart/form-data."})
		return
	}
	parts := mf.File["files"]

	if len(parts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one image file is required."})
		return
	}
	if len(parts) > h.cfg.Upload.MaxFiles {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Too many files: the limit is %d per request.", h.cfg.Upload.MaxFiles),
		})
		return
	}

	maxBytes := h.cfg.Upload.MaxFileSizeMB * 1024 * 1024
	for _, part := range parts {
		ext := strings.ToLower(filepath.Ext(part.Filename))
		if !allowedExtensions[ext] {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Unsupported file type: %s", part.Filename),
			})
			return
		}
		if part.Size > maxBytes {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("File too large: %s exceeds %dMB.", part.Filename, h.cfg.Upload.MaxFileSizeMB),
			})
			return
		}
	}

	// Resolve the composer before storing anything, so a bad target
	// format is rejected without touching the disk.
	composer, err := h.selector.Select(models.TargetKind(form.Target), form.Format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cleanup := services.NewCleanup(h.store.Remove)
	defer cleanup.Release()

	files := make([]models.InputFile, 0, len(parts))
	for _, part := range parts {
		src, err := part.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file."})
			return
		}
		id, path, err := h.store.Save(src, strings.ToLower(filepath.Ext(part.Filename)))
		src.Close()
		if err != nil {
			logger.WithFields(logrus.Fields{
				"file":  part.Filename,
				"error": err.Error(),
			}).Error("Failed to store uploaded file")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file."})
			return
		}
		cleanup.Track(path)

		files = append(files, models.InputFile{
			ID:           id,
			OriginalName: part.Filename,
			StoragePath:  path,
			SizeBytes:    part.Size,
			MimeType:     part.Header.Get("Content-Type"),
		})
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.Processing.RequestTimeout)
	defer cancel()

	result, err := composer.Compose(ctx, files, cleanup)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrUnsupportedFormat) {
			status = http.StatusBadRequest
		}
		logger.WithFields(logrus.Fields{
			"target": form.Target,
			"format": form.Format,
			"files":  len(files),
			"error":  err.Error(),
		}).Error("Conversion failed")
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if closer, ok := result.Reader.(io.Closer); ok {
		defer closer.Close()
	}

	logger.WithFields(logrus.Fields{
		"target":    form.Target,
		"format":    form.Format,
		"processed": result.Processed,
		"skipped":   len(result.Skipped),
		"filename":  result.Filename,
	}).Info("Conversion completed")

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("X-Processed-Count", strconv.Itoa(result.Processed))
	c.Header("X-Skipped-Count", strconv.Itoa(len(result.Skipped)))
	c.DataFromReader(http.StatusOK, result.Size, result.ContentType, result.Reader, nil)
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
