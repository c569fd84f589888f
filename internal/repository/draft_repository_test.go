package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
)

var draftRowColumns = []string{"id", "term", "name", "version", "status", "crns", "locked_crns", "notes", "created_by", "created_at", "updated_at"}

func TestDraftRepositoryCreateVersioned(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDraftRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(version), 0) + 1 FROM draft_schedules WHERE term = $1 AND name = $2")).
		WithArgs("202640", "Fall plan").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO draft_schedules")).
		WithArgs(sqlmock.AnyArg(), "202640", "Fall plan", 3, string(models.DraftStatusDraft), sqlmock.AnyArg(), sqlmock.AnyArg(), "", "chair-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	draft := &models.DraftSchedule{Term: "202640", Name: "Fall plan", CRNs: pq.StringArray{"40101"}, CreatedBy: "chair-1"}
	require.NoError(t, repo.CreateVersioned(context.Background(), nil, draft))
	assert.Equal(t, 3, draft.Version)
	assert.NotEmpty(t, draft.ID)
	assert.Equal(t, models.DraftStatusDraft, draft.Status)
	assert.NotNil(t, draft.LockedCRNs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftRepositoryCreateVersionedValidates(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDraftRepository(db)

	assert.Error(t, repo.CreateVersioned(context.Background(), nil, nil))
	assert.Error(t, repo.CreateVersioned(context.Background(), nil, &models.DraftSchedule{Term: "202640"}))
}

func TestDraftRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDraftRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM draft_schedules WHERE id = $1")).
		WithArgs("d-1").
		WillReturnRows(sqlmock.NewRows(draftRowColumns).
			AddRow("d-1", "202640", "Fall plan", 1, "DRAFT", "{40101,40102}", "{40101}", "", "chair-1", now, now))

	draft, err := repo.FindByID(context.Background(), "d-1")
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{"40101", "40102"}, draft.CRNs)
	assert.Equal(t, pq.StringArray{"40101"}, draft.LockedCRNs)
	assert.False(t, draft.IsPublished())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftRepositoryListByTerm(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDraftRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM draft_schedules WHERE term = $1 ORDER BY name, version DESC")).
		WithArgs("202640").
		WillReturnRows(sqlmock.NewRows(draftRowColumns).
			AddRow("d-2", "202640", "Fall plan", 2, "PUBLISHED", "{}", "{}", "", "", now, now).
			AddRow("d-1", "202640", "Fall plan", 1, "DRAFT", "{}", "{}", "", "", now, now))

	drafts, err := repo.ListByTerm(context.Background(), "202640")
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.True(t, drafts[0].IsPublished())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDraftRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE draft_schedules SET status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs(string(models.DraftStatusPublished), sqlmock.AnyArg(), "d-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE draft_schedules SET status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs(string(models.DraftStatusPublished), sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateStatus(context.Background(), nil, "d-1", models.DraftStatusPublished))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), nil, "missing", models.DraftStatusPublished), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftRepositoryDeleteDraft(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDraftRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM draft_schedules WHERE id = $1 AND status = $2")).
		WithArgs("d-1", string(models.DraftStatusDraft)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM draft_schedules WHERE id = $1 AND status = $2")).
		WithArgs("d-2", string(models.DraftStatusDraft)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteDraft(context.Background(), "d-1"))
	assert.ErrorIs(t, repo.DeleteDraft(context.Background(), "d-2"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
