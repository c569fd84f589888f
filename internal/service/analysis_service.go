package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/dto"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/scheduling"
	appErrors "github.com/jdoner02/cyber-department-schedule-sub000/pkg/errors"
)

type courseLister interface {
	ListByTerm(ctx context.Context, term string) ([]*models.Course, error)
}

// AnalysisConfig tunes analysis caching.
type AnalysisConfig struct {
	CacheTTL time.Duration
}

// AnalysisService runs the conflict, grouping and stacked detectors over a stored term.
type AnalysisService struct {
	courses   courseLister
	cache     resultCache
	validator *validator.Validate
	logger    *zap.Logger
	cfg       AnalysisConfig
	now       func() time.Time
}

// NewAnalysisService constructs an AnalysisService.
func NewAnalysisService(courses courseLister, cache resultCache, validate *validator.Validate, logger *zap.Logger, cfg AnalysisConfig) *AnalysisService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		courses:   courses,
		cache:     cache,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func analysisCachePattern(term string) string {
	return fmt.Sprintf("analysis:%s:*", term)
}

func analysisCacheKey(term, kind string, hideStacked, hideCoreqs bool) string {
	return fmt.Sprintf("analysis:%s:%s:stacked=%t:coreqs=%t", term, kind, hideStacked, hideCoreqs)
}

// Conflicts detects instructor and room double-bookings of a term. The boolean reports a
// cache hit.
func (s *AnalysisService) Conflicts(ctx context.Context, query dto.ConflictQuery) (*dto.ConflictReport, bool, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid conflict query")
	}
	key := analysisCacheKey(query.Term, "conflicts", query.HideStacked, query.HideCoreqs)
	return remember(ctx, s, key, func(courses []*models.Course) *dto.ConflictReport {
		conflicts := scheduling.DetectAllConflicts(courses, scheduling.DetectOptions{
			HideStackedCourses:  query.HideStacked,
			HideLabCorequisites: query.HideCoreqs,
		})
		return &dto.ConflictReport{
			Term:        query.Term,
			HideStacked: query.HideStacked,
			HideCoreqs:  query.HideCoreqs,
			Total:       len(conflicts),
			ByType:      scheduling.CountConflictsByType(conflicts),
			Conflicts:   conflicts,
			GeneratedAt: s.now(),
		}
	}, query.Term)
}

// Groups merges the term's sections into display groups.
func (s *AnalysisService) Groups(ctx context.Context, query dto.TermQuery) (*dto.GroupsResponse, bool, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid group query")
	}
	key := analysisCacheKey(query.Term, "groups", false, false)
	return remember(ctx, s, key, func(courses []*models.Course) *dto.GroupsResponse {
		groups := scheduling.BuildCourseGroups(courses)
		return &dto.GroupsResponse{
			Term:        query.Term,
			Total:       len(groups),
			ByType:      countGroupsByType(groups),
			Groups:      groups,
			GeneratedAt: s.now(),
		}
	}, query.Term)
}

// Stacked lists the lower/higher-level pairs of a term.
func (s *AnalysisService) Stacked(ctx context.Context, query dto.TermQuery) (*dto.StackedPairsResponse, bool, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid stacked query")
	}
	key := analysisCacheKey(query.Term, "stacked", false, false)
	return remember(ctx, s, key, func(courses []*models.Course) *dto.StackedPairsResponse {
		pairs := sortedStackedPairs(scheduling.FindStackedPairs(courses))
		return &dto.StackedPairsResponse{
			Term:        query.Term,
			Total:       len(pairs),
			Pairs:       pairs,
			GeneratedAt: s.now(),
		}
	}, query.Term)
}

// Summary aggregates section, conflict, group and stacked counts for a term.
func (s *AnalysisService) Summary(ctx context.Context, query dto.ConflictQuery) (*dto.AnalysisSummary, bool, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid summary query")
	}
	key := analysisCacheKey(query.Term, "summary", query.HideStacked, query.HideCoreqs)
	return remember(ctx, s, key, func(courses []*models.Course) *dto.AnalysisSummary {
		conflicts := scheduling.DetectAllConflicts(courses, scheduling.DetectOptions{
			HideStackedCourses:  query.HideStacked,
			HideLabCorequisites: query.HideCoreqs,
		})
		groups := scheduling.BuildCourseGroups(courses)
		pairs := scheduling.FindStackedPairs(courses)

		scheduled := 0
		for _, course := range courses {
			if course.IsScheduled() {
				scheduled++
			}
		}
		return &dto.AnalysisSummary{
			Term:              query.Term,
			Sections:          len(courses),
			ScheduledSections: scheduled,
			Conflicts:         len(conflicts),
			ConflictsByType:   scheduling.CountConflictsByType(conflicts),
			Groups:            len(groups),
			GroupsByType:      countGroupsByType(groups),
			StackedPairs:      len(pairs),
			DisplayCourses:    len(scheduling.FilterStackedVersions(courses, pairs)),
			HideStacked:       query.HideStacked,
			HideCoreqs:        query.HideCoreqs,
			GeneratedAt:       s.now(),
		}
	}, query.Term)
}

// remember serves key from cache or builds the value from the term's courses and caches it.
// Cache failures degrade to a fresh computation.
func remember[T any](ctx context.Context, s *AnalysisService, key string, build func([]*models.Course) *T, term string) (*T, bool, error) {
	cached := new(T)
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, key, cached); err == nil && hit {
			return cached, true, nil
		}
	}

	courses, err := s.courses.ListByTerm(ctx, term)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	result := build(courses)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.cfg.CacheTTL); err != nil {
			s.logger.Debug("analysis cache write skipped", zap.String("key", key), zap.Error(err))
		}
	}
	return result, false, nil
}

func countGroupsByType(groups []models.CourseGroup) map[models.CourseGroupType]int {
	counts := map[models.CourseGroupType]int{
		models.CourseGroupStandalone:         0,
		models.CourseGroupCorequisite:        0,
		models.CourseGroupStacked:            0,
		models.CourseGroupStackedCorequisite: 0,
	}
	for _, g := range groups {
		counts[g.Type]++
	}
	return counts
}

func sortedStackedPairs(pairs models.StackedPairMap) []models.StackedPairInfo {
	keys := make([]string, 0, len(pairs))
	for crn := range pairs {
		keys = append(keys, crn)
	}
	sort.Strings(keys)
	out := make([]models.StackedPairInfo, 0, len(keys))
	for _, crn := range keys {
		out = append(out, pairs[crn])
	}
	return out
}
