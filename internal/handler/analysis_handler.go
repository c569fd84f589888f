package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/dto"
	appErrors "github.com/jdoner02/cyber-department-schedule-sub000/pkg/errors"
	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/response"
)

type analysisService interface {
	Conflicts(ctx context.Context, query dto.ConflictQuery) (*dto.ConflictReport, bool, error)
	Groups(ctx context.Context, query dto.TermQuery) (*dto.GroupsResponse, bool, error)
	Stacked(ctx context.Context, query dto.TermQuery) (*dto.StackedPairsResponse, bool, error)
	Summary(ctx context.Context, query dto.ConflictQuery) (*dto.AnalysisSummary, bool, error)
}

// AnalysisHandler serves conflict detection and course grouping results.
type AnalysisHandler struct {
	service analysisService
}

// NewAnalysisHandler constructs the handler.
func NewAnalysisHandler(service analysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// Conflicts godoc
// @Summary Detect scheduling conflicts for a term
// @Tags Analysis
// @Produce json
// @Param term query string true "Term code"
// @Param hideStacked query bool false "Drop conflicts between stacked pairs"
// @Param hideCoreqs query bool false "Drop conflicts between a lecture and its lab"
// @Success 200 {object} response.Envelope
// @Router /analysis/conflicts [get]
func (h *AnalysisHandler) Conflicts(c *gin.Context) {
	query, ok := bindConflictQuery(c)
	if !ok {
		return
	}
	report, hit, err := h.service.Conflicts(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil, cachedMeta(c, hit))
}

// Groups godoc
// @Summary Group sections into stacked and corequisite sets
// @Tags Analysis
// @Produce json
// @Param term query string true "Term code"
// @Success 200 {object} response.Envelope
// @Router /analysis/groups [get]
func (h *AnalysisHandler) Groups(c *gin.Context) {
	query, ok := bindTermQuery(c)
	if !ok {
		return
	}
	groups, hit, err := h.service.Groups(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil, cachedMeta(c, hit))
}

// Stacked godoc
// @Summary List undergraduate and graduate stacked pairs
// @Tags Analysis
// @Produce json
// @Param term query string true "Term code"
// @Success 200 {object} response.Envelope
// @Router /analysis/stacked [get]
func (h *AnalysisHandler) Stacked(c *gin.Context) {
	query, ok := bindTermQuery(c)
	if !ok {
		return
	}
	pairs, hit, err := h.service.Stacked(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pairs, nil, cachedMeta(c, hit))
}

// Summary godoc
// @Summary Term overview with conflict and group counts
// @Tags Analysis
// @Produce json
// @Param term query string true "Term code"
// @Param hideStacked query bool false "Drop conflicts between stacked pairs"
// @Param hideCoreqs query bool false "Drop conflicts between a lecture and its lab"
// @Success 200 {object} response.Envelope
// @Router /analysis/summary [get]
func (h *AnalysisHandler) Summary(c *gin.Context) {
	query, ok := bindConflictQuery(c)
	if !ok {
		return
	}
	summary, hit, err := h.service.Summary(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil, cachedMeta(c, hit))
}

func bindConflictQuery(c *gin.Context) (dto.ConflictQuery, bool) {
	var query dto.ConflictQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return query, false
	}
	if query.Term == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "term is required"))
		return query, false
	}
	return query, true
}

func bindTermQuery(c *gin.Context) (dto.TermQuery, bool) {
	var query dto.TermQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return query, false
	}
	if query.Term == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "term is required"))
		return query, false
	}
	return query, true
}
