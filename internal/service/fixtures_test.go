package service

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
	appErrors "github.com/jdoner02/cyber-department-schedule-sub000/pkg/errors"
)

func section(crn, number, email, days string, start, end int) *models.Course {
	c := &models.Course{
		CRN:          crn,
		Term:         "202640",
		Subject:      "CSCD",
		CourseNumber: number,
		Section:      "040",
		Title:        "Course " + number,
		Credits:      5,
		Campus:       "Cheney",
		Enrollment:   models.Enrollment{Current: 10, Maximum: 30},
	}
	if email != "" {
		c.Instructor = &models.Instructor{DisplayName: email, Email: email}
	}
	if days != "" {
		c.Meetings = []models.Meeting{{
			Days:         models.ParseDayLetters(days),
			StartMinutes: start,
			EndMinutes:   end,
			Type:         models.MeetingTypeLecture,
		}}
	}
	return c
}

// conflictingTerm has one instructor conflict between A and B.
func conflictingTerm() []*models.Course {
	return []*models.Course{
		section("A", "210", "x@ewu.edu", "M", 480, 530),
		section("B", "211", "x@ewu.edu", "M", 500, 550),
		section("C", "212", "y@ewu.edu", "M", 600, 650),
	}
}

type stubCourseRepo struct {
	mu        sync.Mutex
	courses   map[string][]*models.Course
	upserted  []*models.Course
	listCalls int
	err       error
}

func newStubCourseRepo(term string, courses ...*models.Course) *stubCourseRepo {
	return &stubCourseRepo{courses: map[string][]*models.Course{term: courses}}
}

func (s *stubCourseRepo) ListByTerm(ctx context.Context, term string) ([]*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.courses[term], nil
}

func (s *stubCourseRepo) FindByCRNs(ctx context.Context, term string, crns []string) ([]*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	wanted := make(map[string]bool, len(crns))
	for _, crn := range crns {
		wanted[crn] = true
	}
	var out []*models.Course
	for _, c := range s.courses[term] {
		if wanted[c.CRN] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubCourseRepo) ListTerms(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	terms := make([]string, 0, len(s.courses))
	for term := range s.courses {
		terms = append(terms, term)
	}
	return terms, nil
}

func (s *stubCourseRepo) UpsertBatch(ctx context.Context, courses []*models.Course) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.upserted = append(s.upserted, courses...)
	return len(courses), nil
}

// memoryCacheRepo stores JSON payloads like the Redis repository does.
type memoryCacheRepo struct {
	mu          sync.Mutex
	items       map[string][]byte
	invalidated []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{items: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = payload
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, pattern)
	removed := 0
	for key := range m.items {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.items, key)
			removed++
		}
	}
	return removed, nil
}

func (m *memoryCacheRepo) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func newTestCache(repo *memoryCacheRepo) *CacheService {
	return NewCacheService(repo, NewMetricsService(), time.Minute, nil, true)
}
