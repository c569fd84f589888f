package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/dto"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/scheduling"
	appErrors "github.com/jdoner02/cyber-department-schedule-sub000/pkg/errors"
	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/jobs"
)

const optimizerJobType = "optimize"

type courseFinder interface {
	FindByCRNs(ctx context.Context, term string, crns []string) ([]*models.Course, error)
}

type runDispatcher interface {
	Enqueue(job jobs.Job) error
	Cancel(jobID string) bool
}

// OptimizerConfig bounds searches started through the API.
type OptimizerConfig struct {
	MaxPermutations int
	MaxTime         time.Duration
}

func (c OptimizerConfig) withDefaults() OptimizerConfig {
	if c.MaxPermutations <= 0 {
		c.MaxPermutations = 10
	}
	if c.MaxTime <= 0 {
		c.MaxTime = 5 * time.Second
	}
	return c
}

// OptimizerService previews alternatives synchronously and manages async optimisation runs.
type OptimizerService struct {
	courses   courseFinder
	runs      *OptimizationRunStore
	queue     runDispatcher
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       OptimizerConfig
}

// NewOptimizerService wires optimizer dependencies.
func NewOptimizerService(courses courseFinder, runs *OptimizationRunStore, queue runDispatcher, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg OptimizerConfig) *OptimizerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if runs == nil {
		runs = NewOptimizationRunStore(30 * time.Minute)
	}
	return &OptimizerService{
		courses:   courses,
		runs:      runs,
		queue:     queue,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg.withDefaults(),
	}
}

// Preview runs a search inline, bounded by the configured time limit.
func (s *OptimizerService) Preview(ctx context.Context, req dto.OptimizeRequest) (*dto.OptimizeResponse, error) {
	req, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	courses, err := loadSelection(ctx, s.courses, req.Term, req.CRNs)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := scheduling.Optimize(ctx, courses, buildOptimizeOptions(req.OptimizeOptions, req.LockedCRNs, s.cfg))
	s.metrics.ObserveOptimizerRun("preview", previewOutcome(result), result.Evaluated, time.Since(start))

	return &dto.OptimizeResponse{
		Term:              req.Term,
		CRNs:              req.CRNs,
		OriginalConflicts: result.OriginalConflicts,
		Evaluated:         result.Evaluated,
		Interrupted:       result.Interrupted,
		Permutations:      result.Permutations,
	}, nil
}

// StartRun queues an asynchronous search and returns its initial state.
func (s *OptimizerService) StartRun(ctx context.Context, req dto.OptimizeRequest, createdBy string) (*models.OptimizationRun, error) {
	req, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "optimizer queue not configured")
	}
	if _, err := loadSelection(ctx, s.courses, req.Term, req.CRNs); err != nil {
		return nil, err
	}

	run := models.OptimizationRun{
		ID:           uuid.NewString(),
		Term:         req.Term,
		CRNs:         req.CRNs,
		LockedCRNs:   req.LockedCRNs,
		Status:       models.OptimizationStatusQueued,
		Permutations: []models.SchedulePermutation{},
		CreatedBy:    createdBy,
		CreatedAt:    time.Now().UTC(),
	}
	s.runs.Save(run, req)

	if err := s.queue.Enqueue(jobs.Job{ID: run.ID, Type: optimizerJobType, Enqueued: run.CreatedAt}); err != nil {
		s.runs.Delete(run.ID)
		if errors.Is(err, jobs.ErrQueueStopped) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "optimizer queue is not running")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue optimizer run")
	}
	s.logger.Info("optimizer run queued", zap.String("run_id", run.ID), zap.String("term", run.Term), zap.Int("crns", len(run.CRNs)))
	return &run, nil
}

// GetRun returns the current state of a run.
func (s *OptimizerService) GetRun(id string) (*models.OptimizationRun, error) {
	run, ok := s.runs.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "optimizer run not found or expired")
	}
	return &run, nil
}

// ListRuns returns live runs, newest first.
func (s *OptimizerService) ListRuns() []models.OptimizationRun {
	return s.runs.List()
}

// CancelRun stops a queued or running search. Finished runs cannot be cancelled.
func (s *OptimizerService) CancelRun(id string) (*models.OptimizationRun, error) {
	var finished bool
	run, ok := s.runs.Update(id, func(r *models.OptimizationRun) {
		if r.Finished() {
			finished = true
			return
		}
		now := time.Now().UTC()
		r.Status = models.OptimizationStatusCancelled
		r.FinishedAt = &now
	})
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "optimizer run not found or expired")
	}
	if finished {
		return nil, appErrors.Clone(appErrors.ErrRunFinished, fmt.Sprintf("optimizer run is already %s", strings.ToLower(string(run.Status))))
	}
	if s.queue != nil {
		s.queue.Cancel(id)
	}
	s.logger.Info("optimizer run cancelled", zap.String("run_id", id))
	return &run, nil
}

func (s *OptimizerService) normalize(req dto.OptimizeRequest) (dto.OptimizeRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return req, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid optimizer payload")
	}
	req.CRNs = uniqueStrings(req.CRNs)
	req.LockedCRNs = uniqueStrings(req.LockedCRNs)
	selected := make(map[string]struct{}, len(req.CRNs))
	for _, crn := range req.CRNs {
		selected[crn] = struct{}{}
	}
	for _, crn := range req.LockedCRNs {
		if _, ok := selected[crn]; !ok {
			return req, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("locked CRN %s is not part of the selection", crn))
		}
	}
	return req, nil
}

// OptimizerWorker executes queued runs.
type OptimizerWorker struct {
	courses courseFinder
	runs    *OptimizationRunStore
	metrics *MetricsService
	logger  *zap.Logger
	cfg     OptimizerConfig
}

// NewOptimizerWorker constructs a worker sharing the service's run store.
func NewOptimizerWorker(courses courseFinder, runs *OptimizationRunStore, metrics *MetricsService, logger *zap.Logger, cfg OptimizerConfig) *OptimizerWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OptimizerWorker{courses: courses, runs: runs, metrics: metrics, logger: logger, cfg: cfg.withDefaults()}
}

// Handle processes one queued run. Runs that expired or were cancelled before starting
// are skipped.
func (w *OptimizerWorker) Handle(ctx context.Context, job jobs.Job) error {
	req, ok := w.runs.Request(job.ID)
	if !ok {
		w.logger.Debug("optimizer run expired before start", zap.String("run_id", job.ID))
		return nil
	}
	started := false
	w.runs.Update(job.ID, func(r *models.OptimizationRun) {
		if r.Finished() {
			return
		}
		now := time.Now().UTC()
		r.Status = models.OptimizationStatusRunning
		r.StartedAt = &now
		r.Error = ""
		started = true
	})
	if !started {
		return nil
	}

	start := time.Now()
	courses, err := loadSelection(ctx, w.courses, req.Term, req.CRNs)
	if err != nil {
		w.fail(job.ID, err)
		w.metrics.ObserveOptimizerRun("async", "failed", 0, time.Since(start))
		return err
	}

	opts := buildOptimizeOptions(req.OptimizeOptions, req.LockedCRNs, w.cfg)
	opts.OnProgress = func(percent int) {
		w.runs.Update(job.ID, func(r *models.OptimizationRun) {
			if r.Status == models.OptimizationStatusRunning && percent > r.Progress {
				r.Progress = percent
			}
		})
	}
	result := scheduling.Optimize(ctx, courses, opts)

	outcome := "completed"
	if ctx.Err() != nil {
		outcome = "cancelled"
	}
	w.runs.Update(job.ID, func(r *models.OptimizationRun) {
		r.OriginalConflicts = result.OriginalConflicts
		r.Evaluated = result.Evaluated
		r.Interrupted = result.Interrupted
		r.Permutations = result.Permutations
		if r.Status != models.OptimizationStatusRunning {
			return
		}
		now := time.Now().UTC()
		r.FinishedAt = &now
		r.Progress = 100
		r.Status = models.OptimizationStatusCompleted
		if outcome == "cancelled" {
			r.Status = models.OptimizationStatusCancelled
		}
	})
	w.metrics.ObserveOptimizerRun("async", outcome, result.Evaluated, time.Since(start))
	w.logger.Info("optimizer run finished",
		zap.String("run_id", job.ID),
		zap.String("outcome", outcome),
		zap.Int("evaluated", result.Evaluated),
		zap.Int("permutations", len(result.Permutations)),
		zap.Bool("interrupted", result.Interrupted),
	)
	return nil
}

func (w *OptimizerWorker) fail(id string, err error) {
	w.runs.Update(id, func(r *models.OptimizationRun) {
		if r.Finished() {
			return
		}
		now := time.Now().UTC()
		r.Status = models.OptimizationStatusFailed
		r.Error = err.Error()
		r.FinishedAt = &now
	})
	w.logger.Warn("optimizer run failed", zap.String("run_id", id), zap.Error(err))
}

// loadSelection fetches the requested sections in request order and rejects unknown CRNs.
func loadSelection(ctx context.Context, finder courseFinder, term string, crns []string) ([]*models.Course, error) {
	found, err := finder.FindByCRNs(ctx, term, crns)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	byCRN := make(map[string]*models.Course, len(found))
	for _, c := range found {
		byCRN[c.CRN] = c
	}
	courses := make([]*models.Course, 0, len(crns))
	var missing []string
	for _, crn := range crns {
		c, ok := byCRN[crn]
		if !ok {
			missing = append(missing, crn)
			continue
		}
		courses = append(courses, c)
	}
	if len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown CRNs for term %s: %s", term, strings.Join(missing, ", ")))
	}
	return courses, nil
}

func buildOptimizeOptions(in dto.OptimizeOptions, locked []string, cfg OptimizerConfig) scheduling.OptimizeOptions {
	opts := scheduling.OptimizeOptions{
		MaxPermutations:       cfg.MaxPermutations,
		MaxTime:               cfg.MaxTime,
		AllowTimeChange:       true,
		AllowRoomChange:       true,
		AllowInstructorChange: in.AllowInstructorChange,
		AllowCampusChange:     in.AllowCampusChange,
		LockedCRNs:            locked,
	}
	if in.MaxPermutations > 0 {
		opts.MaxPermutations = in.MaxPermutations
	}
	if in.MaxTimeMs > 0 {
		if requested := time.Duration(in.MaxTimeMs) * time.Millisecond; requested < cfg.MaxTime {
			opts.MaxTime = requested
		}
	}
	if in.AllowTimeChange != nil {
		opts.AllowTimeChange = *in.AllowTimeChange
	}
	if in.AllowRoomChange != nil {
		opts.AllowRoomChange = *in.AllowRoomChange
	}
	return opts
}

func previewOutcome(result scheduling.OptimizeResult) string {
	if result.Interrupted {
		return "interrupted"
	}
	return "completed"
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

type storedRun struct {
	run     models.OptimizationRun
	request dto.OptimizeRequest
}

// OptimizationRunStore keeps run state in memory for a limited time after creation.
type OptimizationRunStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]*storedRun
	now   func() time.Time
}

// NewOptimizationRunStore constructs a store whose entries expire after ttl.
func NewOptimizationRunStore(ttl time.Duration) *OptimizationRunStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &OptimizationRunStore{ttl: ttl, items: make(map[string]*storedRun), now: time.Now}
}

// Save records a run and the request that produced it, dropping expired entries.
func (s *OptimizationRunStore) Save(run models.OptimizationRun, req dto.OptimizeRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, item := range s.items {
		if s.expired(item) {
			delete(s.items, id)
		}
	}
	s.items[run.ID] = &storedRun{run: run, request: req}
}

// Get returns a copy of the run.
func (s *OptimizationRunStore) Get(id string) (models.OptimizationRun, bool) {
	s.mu.RLock()
	item, ok := s.items[id]
	var run models.OptimizationRun
	if ok {
		run = item.run
	}
	s.mu.RUnlock()
	if !ok {
		return models.OptimizationRun{}, false
	}
	if s.expired(item) {
		s.Delete(id)
		return models.OptimizationRun{}, false
	}
	return run, true
}

// Request returns the request a run was created from.
func (s *OptimizationRunStore) Request(id string) (dto.OptimizeRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok || s.expired(item) {
		return dto.OptimizeRequest{}, false
	}
	return item.request, true
}

// Update applies fn to the stored run under the write lock and returns the result.
func (s *OptimizationRunStore) Update(id string, fn func(*models.OptimizationRun)) (models.OptimizationRun, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok || s.expired(item) {
		return models.OptimizationRun{}, false
	}
	fn(&item.run)
	return item.run, true
}

// Delete removes a run.
func (s *OptimizationRunStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// List returns live runs, newest first.
func (s *OptimizationRunStore) List() []models.OptimizationRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := make([]models.OptimizationRun, 0, len(s.items))
	for _, item := range s.items {
		if !s.expired(item) {
			runs = append(runs, item.run)
		}
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })
	return runs
}

func (s *OptimizationRunStore) expired(item *storedRun) bool {
	return s.now().Sub(item.run.CreatedAt) > s.ttl
}
