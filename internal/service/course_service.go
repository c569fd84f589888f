package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/csvio"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/dto"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/scheduling"
	appErrors "github.com/jdoner02/cyber-department-schedule-sub000/pkg/errors"
)

type courseStore interface {
	ListByTerm(ctx context.Context, term string) ([]*models.Course, error)
	ListTerms(ctx context.Context) ([]string, error)
	UpsertBatch(ctx context.Context, courses []*models.Course) (int, error)
}

// resultCache is the subset of CacheService used by analysis-facing services.
type resultCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

// CourseService lists stored sections and ingests registrar CSV exports.
type CourseService struct {
	repo      courseStore
	cache     resultCache
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseStore, cache resultCache, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns the term's sections with HasConflicts populated.
func (s *CourseService) List(ctx context.Context, query dto.ListCoursesQuery) ([]*models.Course, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course query")
	}
	courses, err := s.repo.ListByTerm(ctx, query.Term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	conflicts := scheduling.DetectAllConflicts(courses, scheduling.DetectOptions{})
	return scheduling.MarkCoursesWithConflicts(courses, conflicts), nil
}

// Terms lists the terms that have stored sections.
func (s *CourseService) Terms(ctx context.Context) ([]string, error) {
	terms, err := s.repo.ListTerms(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list terms")
	}
	if terms == nil {
		terms = []string{}
	}
	return terms, nil
}

// Import parses a canonical course CSV and upserts every section. Rows without a term
// take defaultTerm. Cached analyses of every touched term are invalidated.
func (s *CourseService) Import(ctx context.Context, defaultTerm string, r io.Reader) (*dto.ImportCoursesResponse, error) {
	courses, err := csvio.LoadCoursesForTerm(r, defaultTerm)
	if err != nil {
		if errors.Is(err, csvio.ErrMalformed) {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidCSV.Code, appErrors.ErrInvalidCSV.Status, err.Error())
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidCSV.Code, appErrors.ErrInvalidCSV.Status, "failed to read course csv")
	}
	if len(courses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidCSV, "csv contains no sections")
	}

	termSet := make(map[string]struct{})
	for _, course := range courses {
		if course.Term == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("section %s has no term and no default term was given", course.CRN))
		}
		termSet[course.Term] = struct{}{}
	}

	upserted, err := s.repo.UpsertBatch(ctx, courses)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store courses")
	}
	s.metrics.ObserveImport(upserted)

	terms := make([]string, 0, len(termSet))
	for term := range termSet {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	for _, term := range terms {
		if s.cache == nil {
			break
		}
		if err := s.cache.Invalidate(ctx, analysisCachePattern(term)); err != nil {
			s.logger.Warn("failed to invalidate analysis cache", zap.String("term", term), zap.Error(err))
		}
	}

	s.logger.Info("courses imported", zap.Strings("terms", terms), zap.Int("sections", len(courses)), zap.Int("upserted", upserted))
	return &dto.ImportCoursesResponse{Terms: terms, Sections: len(courses), Upserted: upserted}, nil
}
