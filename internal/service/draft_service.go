package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/dto"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/scheduling"
	appErrors "github.com/jdoner02/cyber-department-schedule-sub000/pkg/errors"
)

type draftStore interface {
	CreateVersioned(ctx context.Context, exec sqlx.ExtContext, draft *models.DraftSchedule) error
	ListByTerm(ctx context.Context, term string) ([]models.DraftSchedule, error)
	FindByID(ctx context.Context, id string) (*models.DraftSchedule, error)
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.DraftStatus) error
	DeleteDraft(ctx context.Context, id string) error
}

type draftOptimizer interface {
	Preview(ctx context.Context, req dto.OptimizeRequest) (*dto.OptimizeResponse, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// DraftService curates versioned draft schedules built from stored sections.
type DraftService struct {
	drafts    draftStore
	courses   courseFinder
	optimizer draftOptimizer
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDraftService constructs a DraftService. tx may be nil, in which case writes run
// without an explicit transaction.
func NewDraftService(drafts draftStore, courses courseFinder, optimizer draftOptimizer, tx txProvider, validate *validator.Validate, logger *zap.Logger) *DraftService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftService{drafts: drafts, courses: courses, optimizer: optimizer, tx: tx, validator: validate, logger: logger}
}

// Create stores a new version of the named draft. Every CRN must exist in the term and
// locked CRNs must be part of the selection.
func (s *DraftService) Create(ctx context.Context, req dto.CreateDraftRequest, createdBy string) (*models.DraftSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft payload")
	}
	crns := uniqueStrings(req.CRNs)
	locked := uniqueStrings(req.LockedCRNs)
	selected := make(map[string]struct{}, len(crns))
	for _, crn := range crns {
		selected[crn] = struct{}{}
	}
	for _, crn := range locked {
		if _, ok := selected[crn]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("locked CRN %s is not part of the draft", crn))
		}
	}
	if _, err := loadSelection(ctx, s.courses, req.Term, crns); err != nil {
		return nil, err
	}

	draft := &models.DraftSchedule{
		Term:       req.Term,
		Name:       strings.TrimSpace(req.Name),
		Status:     models.DraftStatusDraft,
		CRNs:       pq.StringArray(crns),
		LockedCRNs: pq.StringArray(locked),
		Notes:      req.Notes,
		CreatedBy:  createdBy,
	}
	if err := s.withTx(ctx, func(exec sqlx.ExtContext) error {
		return s.drafts.CreateVersioned(ctx, exec, draft)
	}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create draft")
	}
	s.logger.Info("draft created", zap.String("draft_id", draft.ID), zap.String("term", draft.Term), zap.String("name", draft.Name), zap.Int("version", draft.Version))
	return draft, nil
}

// List returns the drafts of a term.
func (s *DraftService) List(ctx context.Context, query dto.TermQuery) ([]models.DraftSchedule, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft query")
	}
	drafts, err := s.drafts.ListByTerm(ctx, query.Term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list drafts")
	}
	return drafts, nil
}

// Get returns the draft with its display courses and the conflicts that remain once
// stacked and corequisite pairs are explained away. Sections deleted since the draft was
// saved are reported as missing.
func (s *DraftService) Get(ctx context.Context, id string) (*dto.DraftDetail, error) {
	draft, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	found, err := s.courses.FindByCRNs(ctx, draft.Term, draft.CRNs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft courses")
	}
	byCRN := make(map[string]*models.Course, len(found))
	for _, c := range found {
		byCRN[c.CRN] = c
	}
	courses := make([]*models.Course, 0, len(draft.CRNs))
	var missing []string
	for _, crn := range draft.CRNs {
		if c, ok := byCRN[crn]; ok {
			courses = append(courses, c)
		} else {
			missing = append(missing, crn)
		}
	}

	conflicts := scheduling.DetectAllConflicts(courses, scheduling.DetectOptions{HideStackedCourses: true, HideLabCorequisites: true})
	marked := scheduling.MarkCoursesWithConflicts(courses, conflicts)
	display := scheduling.FilterStackedVersions(marked, scheduling.FindStackedPairs(marked))

	return &dto.DraftDetail{
		Draft:         draft,
		Courses:       display,
		Conflicts:     conflicts,
		ConflictCount: len(conflicts),
		MissingCRNs:   missing,
	}, nil
}

// Optimize searches alternatives for the draft's sections, keeping its locked CRNs fixed.
func (s *DraftService) Optimize(ctx context.Context, id string, opts dto.OptimizeOptions) (*dto.OptimizeResponse, error) {
	if err := s.validator.Struct(opts); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid optimizer options")
	}
	draft, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.optimizer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "optimizer not configured")
	}
	return s.optimizer.Preview(ctx, dto.OptimizeRequest{
		Term:            draft.Term,
		CRNs:            []string(draft.CRNs),
		LockedCRNs:      []string(draft.LockedCRNs),
		OptimizeOptions: opts,
	})
}

// Publish marks the draft read-only.
func (s *DraftService) Publish(ctx context.Context, id string) (*models.DraftSchedule, error) {
	draft, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.IsPublished() {
		return nil, appErrors.Clone(appErrors.ErrPublished, "draft is already published")
	}
	if err := s.withTx(ctx, func(exec sqlx.ExtContext) error {
		return s.drafts.UpdateStatus(ctx, exec, id, models.DraftStatusPublished)
	}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "draft not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish draft")
	}
	draft.Status = models.DraftStatusPublished
	s.logger.Info("draft published", zap.String("draft_id", id))
	return draft, nil
}

// Delete removes a draft that has not been published.
func (s *DraftService) Delete(ctx context.Context, id string) error {
	draft, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if draft.IsPublished() {
		return appErrors.Clone(appErrors.ErrPublished, "published drafts cannot be deleted")
	}
	if err := s.drafts.DeleteDraft(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrPublished, "draft was published concurrently")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete draft")
	}
	return nil
}

func (s *DraftService) find(ctx context.Context, id string) (*models.DraftSchedule, error) {
	draft, err := s.drafts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "draft not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft")
	}
	return draft, nil
}

func (s *DraftService) withTx(ctx context.Context, fn func(exec sqlx.ExtContext) error) (err error) {
	if s.tx == nil {
		return fn(nil)
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
