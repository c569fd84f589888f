package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/dto"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/middleware"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
	appErrors "github.com/jdoner02/cyber-department-schedule-sub000/pkg/errors"
	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/response"
)

type optimizerService interface {
	Preview(ctx context.Context, req dto.OptimizeRequest) (*dto.OptimizeResponse, error)
	StartRun(ctx context.Context, req dto.OptimizeRequest, createdBy string) (*models.OptimizationRun, error)
	GetRun(id string) (*models.OptimizationRun, error)
	ListRuns() []models.OptimizationRun
	CancelRun(id string) (*models.OptimizationRun, error)
}

// OptimizerHandler exposes synchronous previews and background optimization runs.
type OptimizerHandler struct {
	service optimizerService
}

// NewOptimizerHandler constructs the handler.
func NewOptimizerHandler(service optimizerService) *OptimizerHandler {
	return &OptimizerHandler{service: service}
}

// Preview godoc
// @Summary Search conflict-reducing schedule permutations
// @Tags Optimizer
// @Accept json
// @Produce json
// @Param payload body dto.OptimizeRequest true "Selection and search bounds"
// @Success 200 {object} response.Envelope
// @Router /optimizer/preview [post]
func (h *OptimizerHandler) Preview(c *gin.Context) {
	var req dto.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	result, err := h.service.Preview(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// StartRun godoc
// @Summary Queue a background optimization run
// @Tags Optimizer
// @Accept json
// @Produce json
// @Param payload body dto.OptimizeRequest true "Selection and search bounds"
// @Success 202 {object} response.Envelope
// @Router /optimizer/runs [post]
func (h *OptimizerHandler) StartRun(c *gin.Context) {
	var req dto.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	run, err := h.service.StartRun(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetResourceID(c, run.ID)
	response.Accepted(c, run)
}

// ListRuns godoc
// @Summary List retained optimization runs
// @Tags Optimizer
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /optimizer/runs [get]
func (h *OptimizerHandler) ListRuns(c *gin.Context) {
	runs := h.service.ListRuns()
	response.JSON(c, http.StatusOK, runs, &models.Pagination{Page: 1, PageSize: len(runs), TotalCount: len(runs)})
}

// GetRun godoc
// @Summary Fetch progress and results of a run
// @Tags Optimizer
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /optimizer/runs/{id} [get]
func (h *OptimizerHandler) GetRun(c *gin.Context) {
	run, err := h.service.GetRun(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

// CancelRun godoc
// @Summary Cancel a queued or running optimization
// @Tags Optimizer
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /optimizer/runs/{id} [delete]
func (h *OptimizerHandler) CancelRun(c *gin.Context) {
	run, err := h.service.CancelRun(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}
