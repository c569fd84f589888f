package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/dto"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
	appErrors "github.com/jdoner02/cyber-department-schedule-sub000/pkg/errors"
)

type memoryDraftStore struct {
	mu      sync.Mutex
	drafts  map[string]*models.DraftSchedule
	lastTx  sqlx.ExtContext
	created int
}

func newMemoryDraftStore() *memoryDraftStore {
	return &memoryDraftStore{drafts: make(map[string]*models.DraftSchedule)}
}

func (m *memoryDraftStore) CreateVersioned(ctx context.Context, exec sqlx.ExtContext, draft *models.DraftSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTx = exec
	version := 0
	for _, d := range m.drafts {
		if d.Term == draft.Term && d.Name == draft.Name && d.Version > version {
			version = d.Version
		}
	}
	draft.ID = uuid.NewString()
	draft.Version = version + 1
	cp := *draft
	m.drafts[draft.ID] = &cp
	m.created++
	return nil
}

func (m *memoryDraftStore) ListByTerm(ctx context.Context, term string) ([]models.DraftSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.DraftSchedule{}
	for _, d := range m.drafts {
		if d.Term == term {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *memoryDraftStore) FindByID(ctx context.Context, id string) (*models.DraftSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *d
	return &cp, nil
}

func (m *memoryDraftStore) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.DraftStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTx = exec
	d, ok := m.drafts[id]
	if !ok {
		return sql.ErrNoRows
	}
	d.Status = status
	return nil
}

func (m *memoryDraftStore) DeleteDraft(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok || d.IsPublished() {
		return sql.ErrNoRows
	}
	delete(m.drafts, id)
	return nil
}

func newDraftFixture(t *testing.T) (*DraftService, *memoryDraftStore) {
	t.Helper()
	repo := newStubCourseRepo("202640", append(stackedTerm(), conflictingTerm()...)...)
	optimizer := NewOptimizerService(repo, nil, nil, nil, nil, nil, OptimizerConfig{})
	store := newMemoryDraftStore()
	return NewDraftService(store, repo, optimizer, nil, nil, nil), store
}

func TestDraftServiceCreateAssignsVersions(t *testing.T) {
	svc, store := newDraftFixture(t)
	req := dto.CreateDraftRequest{Term: "202640", Name: " Fall plan ", CRNs: []string{"A", "B", "A"}, LockedCRNs: []string{"A"}}

	first, err := svc.Create(context.Background(), req, "chair-1")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, "Fall plan", first.Name)
	assert.Equal(t, []string{"A", "B"}, []string(first.CRNs))
	assert.Equal(t, models.DraftStatusDraft, first.Status)
	assert.Equal(t, "chair-1", first.CreatedBy)

	second, err := svc.Create(context.Background(), req, "chair-1")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)
	assert.Equal(t, 2, store.created)

	drafts, err := svc.List(context.Background(), dto.TermQuery{Term: "202640"})
	require.NoError(t, err)
	assert.Len(t, drafts, 2)
}

func TestDraftServiceCreateValidation(t *testing.T) {
	svc, _ := newDraftFixture(t)

	_, err := svc.Create(context.Background(), dto.CreateDraftRequest{Term: "202640", Name: "x"}, "")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), dto.CreateDraftRequest{Term: "202640", Name: "x", CRNs: []string{"A"}, LockedCRNs: []string{"B"}}, "")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), dto.CreateDraftRequest{Term: "202640", Name: "x", CRNs: []string{"NOPE"}}, "")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDraftServiceGetSuppressesStackedVersions(t *testing.T) {
	svc, store := newDraftFixture(t)
	draft, err := svc.Create(context.Background(), dto.CreateDraftRequest{Term: "202640", Name: "plan", CRNs: []string{"U", "G", "P", "L", "O"}}, "")
	require.NoError(t, err)
	store.drafts[draft.ID].CRNs = append(store.drafts[draft.ID].CRNs, "GONE")

	detail, err := svc.Get(context.Background(), draft.ID)
	require.NoError(t, err)
	var crns []string
	for _, c := range detail.Courses {
		crns = append(crns, c.CRN)
	}
	assert.Equal(t, []string{"U", "P", "L", "O"}, crns)
	require.Equal(t, 1, detail.ConflictCount)
	assert.Equal(t, models.ConflictTypeRoom, detail.Conflicts[0].Type)
	assert.Equal(t, []string{"GONE"}, detail.MissingCRNs)
	assert.True(t, detail.Courses[2].HasConflicts)
}

func TestDraftServiceOptimizeKeepsLockedCRNs(t *testing.T) {
	svc, _ := newDraftFixture(t)
	draft, err := svc.Create(context.Background(), dto.CreateDraftRequest{Term: "202640", Name: "plan", CRNs: []string{"A", "B", "C"}, LockedCRNs: []string{"A"}}, "")
	require.NoError(t, err)

	resp, err := svc.Optimize(context.Background(), draft.ID, dto.OptimizeOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Permutations)
	for _, p := range resp.Permutations {
		for _, ch := range p.Changes {
			assert.NotEqual(t, "A", ch.CRN)
		}
	}
}

func TestDraftServicePublishAndDelete(t *testing.T) {
	svc, _ := newDraftFixture(t)
	draft, err := svc.Create(context.Background(), dto.CreateDraftRequest{Term: "202640", Name: "plan", CRNs: []string{"A"}}, "")
	require.NoError(t, err)

	published, err := svc.Publish(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.True(t, published.IsPublished())

	_, err = svc.Publish(context.Background(), draft.ID)
	assert.Equal(t, appErrors.ErrPublished.Code, appErrors.FromError(err).Code)

	err = svc.Delete(context.Background(), draft.ID)
	assert.Equal(t, appErrors.ErrPublished.Code, appErrors.FromError(err).Code)

	other, err := svc.Create(context.Background(), dto.CreateDraftRequest{Term: "202640", Name: "scratch", CRNs: []string{"B"}}, "")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), other.ID))

	_, err = svc.Get(context.Background(), other.ID)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDraftServicePublishUsesTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	sqlxDB := sqlx.NewDb(db, "sqlmock")

	repo := newStubCourseRepo("202640", conflictingTerm()...)
	store := newMemoryDraftStore()
	svc := NewDraftService(store, repo, nil, sqlxDB, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	draft, err := svc.Create(context.Background(), dto.CreateDraftRequest{Term: "202640", Name: "plan", CRNs: []string{"A"}}, "")
	require.NoError(t, err)
	_, isTx := store.lastTx.(*sqlx.Tx)
	assert.True(t, isTx)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = svc.Publish(context.Background(), draft.ID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
