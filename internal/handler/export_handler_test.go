package handler

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/dto"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/service"
	appErrors "github.com/jdoner02/cyber-department-schedule-sub000/pkg/errors"
	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/storage"
)

type fakeExportSrv struct {
	result    *service.ExportResult
	path      string
	err       error
	lastReq   dto.ExportConflictsRequest
	lastToken string
}

func (f *fakeExportSrv) Generate(_ context.Context, req dto.ExportConflictsRequest) (*service.ExportResult, error) {
	f.lastReq = req
	return f.result, f.err
}

func (f *fakeExportSrv) Resolve(token string) (*os.File, storage.SignedToken, error) {
	f.lastToken = token
	if f.err != nil {
		return nil, storage.SignedToken{}, f.err
	}
	file, err := os.Open(f.path)
	if err != nil {
		return nil, storage.SignedToken{}, err
	}
	return file, storage.SignedToken{ID: "e-1", Path: filepath.Base(f.path)}, nil
}

func TestExportHandlerConflicts(t *testing.T) {
	srv := &fakeExportSrv{result: &service.ExportResult{
		Format:    service.ExportFormatPDF,
		Conflicts: 4,
		Token:     "tok",
		URL:       "/api/v1/exports/download?token=tok",
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	handler := NewExportHandler(srv)
	c, rec := jsonContext(http.MethodPost, "/exports/conflicts", `{"term":"202540","format":"pdf","hideStacked":true}`)

	handler.Conflicts(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, srv.lastReq.HideStacked)
	assert.Contains(t, rec.Body.String(), `"url":"/api/v1/exports/download?token=tok"`)
	assert.Contains(t, rec.Body.String(), `"conflicts":4`)
}

func TestExportHandlerDownload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conflicts_202540.csv")
	require.NoError(t, os.WriteFile(path, []byte("crn_a,crn_b\nA,B\n"), 0o600))
	srv := &fakeExportSrv{path: path}
	handler := NewExportHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/exports/download?token=abc")

	handler.Download(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", srv.lastToken)
	assert.Equal(t, `attachment; filename="conflicts_202540.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "crn_a,crn_b\nA,B\n", rec.Body.String())
}

func TestExportHandlerDownloadErrors(t *testing.T) {
	handler := NewExportHandler(&fakeExportSrv{})
	c, rec := newTestContext(http.MethodGet, "/exports/download")
	handler.Download(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	handler = NewExportHandler(&fakeExportSrv{err: appErrors.Wrap(errors.New("expired"), appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "download link expired")})
	c, rec = newTestContext(http.MethodGet, "/exports/download?token=old")
	handler.Download(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestExportMimeType(t *testing.T) {
	assert.Equal(t, "application/pdf", exportMimeType("a.PDF"))
	assert.Equal(t, "application/octet-stream", exportMimeType("a.bin"))
}
