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

type draftService interface {
	Create(ctx context.Context, req dto.CreateDraftRequest, createdBy string) (*models.DraftSchedule, error)
	List(ctx context.Context, query dto.TermQuery) ([]models.DraftSchedule, error)
	Get(ctx context.Context, id string) (*dto.DraftDetail, error)
	Optimize(ctx context.Context, id string, opts dto.OptimizeOptions) (*dto.OptimizeResponse, error)
	Publish(ctx context.Context, id string) (*models.DraftSchedule, error)
	Delete(ctx context.Context, id string) error
}

// DraftHandler manages saved what-if schedules.
type DraftHandler struct {
	service draftService
}

// NewDraftHandler constructs the handler.
func NewDraftHandler(service draftService) *DraftHandler {
	return &DraftHandler{service: service}
}

// Create godoc
// @Summary Save a draft schedule
// @Tags Drafts
// @Accept json
// @Produce json
// @Param payload body dto.CreateDraftRequest true "Draft payload"
// @Success 201 {object} response.Envelope
// @Router /drafts [post]
func (h *DraftHandler) Create(c *gin.Context) {
	var req dto.CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	draft, err := h.service.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetResourceID(c, draft.ID)
	response.Created(c, draft)
}

// List godoc
// @Summary List drafts of a term
// @Tags Drafts
// @Produce json
// @Param term query string true "Term code"
// @Success 200 {object} response.Envelope
// @Router /drafts [get]
func (h *DraftHandler) List(c *gin.Context) {
	query, ok := bindTermQuery(c)
	if !ok {
		return
	}
	drafts, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, drafts, &models.Pagination{Page: 1, PageSize: len(drafts), TotalCount: len(drafts)})
}

// Get godoc
// @Summary Fetch a draft with its sections and conflicts
// @Tags Drafts
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Router /drafts/{id} [get]
func (h *DraftHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Optimize godoc
// @Summary Search permutations of a draft's sections
// @Tags Drafts
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param payload body dto.OptimizeOptions false "Search bounds"
// @Success 200 {object} response.Envelope
// @Router /drafts/{id}/optimize [post]
func (h *DraftHandler) Optimize(c *gin.Context) {
	var opts dto.OptimizeOptions
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&opts); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
			return
		}
	}
	result, err := h.service.Optimize(c.Request.Context(), c.Param("id"), opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Publish godoc
// @Summary Publish a draft, making it read-only
// @Tags Drafts
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Router /drafts/{id}/publish [post]
func (h *DraftHandler) Publish(c *gin.Context) {
	draft, err := h.service.Publish(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft, nil)
}

// Delete godoc
// @Summary Delete an unpublished draft
// @Tags Drafts
// @Param id path string true "Draft ID"
// @Success 204
// @Router /drafts/{id} [delete]
func (h *DraftHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
