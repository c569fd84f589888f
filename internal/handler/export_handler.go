package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/dto"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/service"
	appErrors "github.com/jdoner02/cyber-department-schedule-sub000/pkg/errors"
	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/response"
	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/storage"
)

type exportService interface {
	Generate(ctx context.Context, req dto.ExportConflictsRequest) (*service.ExportResult, error)
	Resolve(token string) (*os.File, storage.SignedToken, error)
}

// ExportHandler renders conflict reports and serves signed downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Conflicts godoc
// @Summary Render a conflict report as CSV or PDF
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body dto.ExportConflictsRequest true "Report options"
// @Success 201 {object} response.Envelope
// @Router /exports/conflicts [post]
func (h *ExportHandler) Conflicts(c *gin.Context) {
	var req dto.ExportConflictsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ExportResponse{
		Format:    result.Format,
		Conflicts: result.Conflicts,
		Token:     result.Token,
		URL:       result.URL,
		ExpiresAt: result.ExpiresAt,
	})
}

// Download godoc
// @Summary Download a rendered report through its signed token
// @Tags Exports
// @Produce octet-stream
// @Param token query string true "Signed token"
// @Success 200
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	file, signed, err := h.service.Resolve(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export"))
		return
	}
	name := filepath.Base(signed.Path)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", name))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), exportMimeType(name), file, nil)
}

func exportMimeType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
