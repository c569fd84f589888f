package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/dto"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
	appErrors "github.com/jdoner02/cyber-department-schedule-sub000/pkg/errors"
)

type fakeCourseSrv struct {
	courses     []*models.Course
	terms       []string
	importResp  *dto.ImportCoursesResponse
	err         error
	lastQuery   dto.ListCoursesQuery
	defaultTerm string
	body        string
}

func (f *fakeCourseSrv) List(_ context.Context, q dto.ListCoursesQuery) ([]*models.Course, error) {
	f.lastQuery = q
	return f.courses, f.err
}

func (f *fakeCourseSrv) Terms(context.Context) ([]string, error) {
	return f.terms, f.err
}

func (f *fakeCourseSrv) Import(_ context.Context, defaultTerm string, r io.Reader) (*dto.ImportCoursesResponse, error) {
	f.defaultTerm = defaultTerm
	raw, _ := io.ReadAll(r)
	f.body = string(raw)
	return f.importResp, f.err
}

func TestCourseHandlerList(t *testing.T) {
	srv := &fakeCourseSrv{courses: []*models.Course{{CRN: "40001", Term: "202540"}, {CRN: "40002", Term: "202540"}}}
	handler := NewCourseHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/courses?term=202540")

	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "202540", srv.lastQuery.Term)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.TotalCount)
	var courses []models.Course
	require.NoError(t, json.Unmarshal(env.Data, &courses))
	assert.Equal(t, "40002", courses[1].CRN)
}

func TestCourseHandlerListServiceValidation(t *testing.T) {
	handler := NewCourseHandler(&fakeCourseSrv{err: appErrors.Clone(appErrors.ErrValidation, "term is required")})
	c, rec := newTestContext(http.MethodGet, "/courses")

	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCourseHandlerTerms(t *testing.T) {
	handler := NewCourseHandler(&fakeCourseSrv{terms: []string{"202520", "202540"}})
	c, rec := newTestContext(http.MethodGet, "/terms")

	handler.Terms(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var terms []string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &terms))
	assert.Equal(t, []string{"202520", "202540"}, terms)
}

func TestCourseHandlerImport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeCourseSrv{importResp: &dto.ImportCoursesResponse{Terms: []string{"202540"}, Sections: 1, Upserted: 1}}
	handler := NewCourseHandler(srv)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("term", " 202540 "))
	part, err := writer.CreateFormFile("file", "courses.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("crn,subject\n40001,CSCD\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/courses/import", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())

	handler.Import(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "202540", srv.defaultTerm)
	assert.Contains(t, srv.body, "40001,CSCD")
}

func TestCourseHandlerImportRequiresFile(t *testing.T) {
	handler := NewCourseHandler(&fakeCourseSrv{})
	c, rec := newTestContext(http.MethodPost, "/courses/import")

	handler.Import(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file is required", decodeEnvelope(t, rec).Error.Message)
}
