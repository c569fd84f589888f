package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
)

const draftColumns = `id, term, name, version, status, crns, locked_crns, COALESCE(notes, '') AS notes, COALESCE(created_by, '') AS created_by, created_at, updated_at`

// DraftRepository persists versioned draft schedules.
type DraftRepository struct {
	db *sqlx.DB
}

// NewDraftRepository constructs repository.
func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateVersioned inserts a draft assigning the next version for the term-name tuple.
func (r *DraftRepository) CreateVersioned(ctx context.Context, exec sqlx.ExtContext, draft *models.DraftSchedule) error {
	if draft == nil {
		return fmt.Errorf("draft payload is nil")
	}
	if draft.Term == "" || draft.Name == "" {
		return fmt.Errorf("term and name are required")
	}
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	if draft.Status == "" {
		draft.Status = models.DraftStatusDraft
	}
	if draft.CRNs == nil {
		draft.CRNs = pq.StringArray{}
	}
	if draft.LockedCRNs == nil {
		draft.LockedCRNs = pq.StringArray{}
	}
	now := time.Now().UTC()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now
	}
	draft.UpdatedAt = now

	target := r.exec(exec)

	const nextVersionQuery = `SELECT COALESCE(MAX(version), 0) + 1 FROM draft_schedules WHERE term = $1 AND name = $2`
	if err := sqlx.GetContext(ctx, target, &draft.Version, nextVersionQuery, draft.Term, draft.Name); err != nil {
		return fmt.Errorf("compute next draft version: %w", err)
	}

	const insertQuery = `
INSERT INTO draft_schedules (id, term, name, version, status, crns, locked_crns, notes, created_by, created_at, updated_at)
VALUES (:id, :term, :name, :version, :status, :crns, :locked_crns, :notes, :created_by, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, draft); err != nil {
		return fmt.Errorf("insert draft schedule: %w", err)
	}
	return nil
}

// ListByTerm returns every draft of a term, newest version first within each name.
func (r *DraftRepository) ListByTerm(ctx context.Context, term string) ([]models.DraftSchedule, error) {
	query := `SELECT ` + draftColumns + ` FROM draft_schedules WHERE term = $1 ORDER BY name, version DESC`
	drafts := []models.DraftSchedule{}
	if err := r.db.SelectContext(ctx, &drafts, query, term); err != nil {
		return nil, fmt.Errorf("list draft schedules: %w", err)
	}
	return drafts, nil
}

// FindByID loads a draft by its identifier.
func (r *DraftRepository) FindByID(ctx context.Context, id string) (*models.DraftSchedule, error) {
	query := `SELECT ` + draftColumns + ` FROM draft_schedules WHERE id = $1`
	var draft models.DraftSchedule
	if err := r.db.GetContext(ctx, &draft, query, id); err != nil {
		return nil, err
	}
	return &draft, nil
}

// UpdateStatus moves a draft to the given status.
func (r *DraftRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.DraftStatus) error {
	const query = `UPDATE draft_schedules SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.exec(exec).ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update draft status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("draft status rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteDraft removes a draft that has not been published.
func (r *DraftRepository) DeleteDraft(ctx context.Context, id string) error {
	const query = `DELETE FROM draft_schedules WHERE id = $1 AND status = $2`
	result, err := r.db.ExecContext(ctx, query, id, models.DraftStatusDraft)
	if err != nil {
		return fmt.Errorf("delete draft schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("draft delete rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
