package handler

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/dto"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
	appErrors "github.com/jdoner02/cyber-department-schedule-sub000/pkg/errors"
	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/response"
)

const maxImportBytes = 10 << 20

type courseService interface {
	List(ctx context.Context, query dto.ListCoursesQuery) ([]*models.Course, error)
	Terms(ctx context.Context) ([]string, error)
	Import(ctx context.Context, defaultTerm string, r io.Reader) (*dto.ImportCoursesResponse, error)
}

// CourseHandler exposes stored sections and CSV import.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(service courseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// List godoc
// @Summary List sections of a term
// @Tags Courses
// @Produce json
// @Param term query string true "Term code"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	var query dto.ListCoursesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	courses, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, &models.Pagination{Page: 1, PageSize: len(courses), TotalCount: len(courses)})
}

// Terms godoc
// @Summary List terms with stored sections
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /terms [get]
func (h *CourseHandler) Terms(c *gin.Context) {
	terms, err := h.service.Terms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, terms, nil)
}

// Import godoc
// @Summary Import a canonical course CSV
// @Tags Courses
// @Accept multipart/form-data
// @Produce json
// @Param term formData string false "Term applied to rows without one"
// @Param file formData file true "Course CSV"
// @Success 201 {object} response.Envelope
// @Router /courses/import [post]
func (h *CourseHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	result, err := h.service.Import(c.Request.Context(), strings.TrimSpace(c.PostForm("term")), src)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
