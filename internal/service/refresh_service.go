package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/kiosk-api/internal/models"
	"github.com/noah-isme/kiosk-api/pkg/clock"
	appErrors "github.com/noah-isme/kiosk-api/pkg/errors"
	"github.com/noah-isme/kiosk-api/pkg/jobs"
)

const reloadJobType = "snapshot.reload"

// ScheduleSource loads a schedule snapshot (JSON file or Postgres).
type ScheduleSource interface {
	Load(ctx context.Context) (*models.ScheduleSnapshot, error)
	Source() string
}

// SubstitutionSource loads the day's substitution bulletin.
type SubstitutionSource interface {
	Load(ctx context.Context) (*models.SubstitutionSnapshot, error)
	Source() string
}

// SnapshotStore publishes immutable snapshots to readers.
type SnapshotStore interface {
	Schedule() *models.ScheduleSnapshot
	Substitutions() *models.SubstitutionSnapshot
	Bells() models.BellTimetable
	ReplaceSchedule(*models.ScheduleSnapshot)
	ReplaceSubstitutions(*models.SubstitutionSnapshot)
}

// RefreshConfig tunes the reload loop.
type RefreshConfig struct {
	AutoRefresh bool
	Interval    time.Duration
	Retries     int
	RetryDelay  time.Duration
}

// RefreshService reloads snapshots on startup, on a timer and on admin request.
// A failed load keeps the previously published snapshot.
type RefreshService struct {
	schedules     ScheduleSource
	substitutions SubstitutionSource
	store         SnapshotStore
	cache         *CacheService
	metrics       *MetricsService
	validate      *validator.Validate
	clock         clock.Clock
	logger        *zap.Logger
	cfg           RefreshConfig
	queue         *jobs.Queue

	reloadMu sync.Mutex
	mu       sync.RWMutex
	status   models.ReloadStatus
}

// NewRefreshService constructs the reload orchestrator.
func NewRefreshService(schedules ScheduleSource, substitutions SubstitutionSource, store SnapshotStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, clk clock.Clock, cfg RefreshConfig, logger *zap.Logger) *RefreshService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if clk == nil {
		clk = clock.System{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 300 * time.Second
	}
	s := &RefreshService{
		schedules:     schedules,
		substitutions: substitutions,
		store:         store,
		cache:         cache,
		metrics:       metrics,
		validate:      validate,
		clock:         clk,
		logger:        logger,
		cfg:           cfg,
	}
	s.queue = jobs.NewQueue("snapshot-reload", s.handleJob, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 4,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
		Coalesce:   true,
		OnExhausted: func(job jobs.Job, err error) {
			logger.Error("snapshot reload gave up", zap.String("job_id", job.ID), zap.Int("attempts", job.Attempt), zap.Error(err))
		},
	})
	return s
}

// Start performs the initial load, then starts the worker queue and, when enabled, the refresh ticker.
func (s *RefreshService) Start(ctx context.Context) {
	if _, err := s.Reload(ctx); err != nil {
		s.logger.Warn("initial snapshot load incomplete", zap.Error(err))
	}
	s.queue.Start(ctx)
	if !s.cfg.AutoRefresh {
		return
	}
	go clock.Every(ctx, s.cfg.Interval, func(time.Time) {
		if err := s.Trigger("timer"); err != nil {
			s.logger.Warn("failed to schedule snapshot reload", zap.Error(err))
		}
	})
	s.logger.Info("snapshot auto refresh enabled", zap.Duration("interval", s.cfg.Interval))
}

// Stop drains the worker queue.
func (s *RefreshService) Stop() {
	s.queue.Stop()
}

// Trigger enqueues an asynchronous reload. Requests arriving while one is pending are merged.
func (s *RefreshService) Trigger(reason string) error {
	return s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    reloadJobType,
		Payload: reason,
	})
}

func (s *RefreshService) handleJob(ctx context.Context, job jobs.Job) error {
	s.logger.Debug("snapshot reload started", zap.String("job_id", job.ID), zap.Any("reason", job.Payload), zap.Int("attempt", job.Attempt))
	_, err := s.Reload(ctx)
	return err
}

// Reload loads both sources synchronously and publishes whatever loaded successfully.
// A missing source publishes an empty snapshot. A malformed one keeps the previous snapshot
// and is reported in the returned error.
func (s *RefreshService) Reload(ctx context.Context) (models.ReloadStatus, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	now := s.clock.Now()
	var errs []error

	schedule, err := s.loadSchedule(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	substitutions, err := s.loadSubstitutions(ctx)
	if err != nil {
		errs = append(errs, err)
	}

	bells := s.store.Bells()
	if schedule != nil {
		schedule.Version = uuid.NewString()
		schedule.LoadedAt = now
		s.store.ReplaceSchedule(schedule)
	}
	if substitutions != nil {
		substitutions.Version = uuid.NewString()
		substitutions.LoadedAt = now
		s.store.ReplaceSubstitutions(substitutions)
	}

	current := s.store.Schedule()
	currentSubs := s.store.Substitutions()
	warnings := ValidateSchedule(s.validate, current, bells)
	for _, w := range warnings {
		s.logger.Warn("schedule warning", zap.String("class", w.ClassName), zap.String("day", w.Weekday.String()), zap.Int("number", w.Number), zap.String("message", w.Message))
	}

	subCount := countSubstitutions(currentSubs)
	s.metrics.SetSnapshotSize(len(current.Schedules), subCount, len(warnings))

	if schedule != nil || substitutions != nil {
		if err := s.cache.Invalidate(ctx, "*"); err != nil {
			s.logger.Warn("cache invalidation after reload failed", zap.Error(err))
		}
	}

	joined := errors.Join(errs...)

	s.mu.Lock()
	s.status.ScheduleVersion = current.Version
	s.status.SubstitutionVersion = currentSubs.Version
	s.status.ClassCount = len(current.Schedules)
	s.status.SubstitutionCount = subCount
	s.status.LastAttemptAt = now
	s.status.Warnings = warnings
	if joined == nil {
		s.status.LastSuccessAt = now
		s.status.LastError = ""
	} else {
		s.status.LastError = joined.Error()
	}
	status := s.status
	s.mu.Unlock()

	if joined != nil {
		return status, reloadError(errs, joined)
	}
	s.logger.Info("snapshots reloaded",
		zap.String("schedule_version", status.ScheduleVersion),
		zap.String("substitution_version", status.SubstitutionVersion),
		zap.Int("classes", status.ClassCount),
		zap.Int("substitutions", status.SubstitutionCount),
		zap.Int("warnings", len(warnings)))
	return status, nil
}

// reloadError keeps the code of the first classified loader failure.
func reloadError(errs []error, joined error) error {
	kind := appErrors.ErrMalformedSource
	for _, err := range errs {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			kind = appErr
			break
		}
	}
	return appErrors.Wrap(joined, kind.Code, kind.Status, "snapshot reload failed")
}

// Status returns the outcome of the most recent reload.
func (s *RefreshService) Status() models.ReloadStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := s.status
	status.Warnings = append([]models.ScheduleWarning(nil), s.status.Warnings...)
	return status
}

func (s *RefreshService) loadSchedule(ctx context.Context) (*models.ScheduleSnapshot, error) {
	start := time.Now()
	snapshot, err := s.schedules.Load(ctx)
	s.metrics.ObserveReload("schedule", ignoreMissing(err), time.Since(start))
	if err != nil {
		if errors.Is(err, appErrors.ErrSourceMissing) {
			s.logger.Info("schedule source missing, serving empty schedule", zap.String("source", s.schedules.Source()))
			return models.EmptyScheduleSnapshot(), nil
		}
		s.logger.Error("schedule load failed, keeping previous snapshot", zap.String("source", s.schedules.Source()), zap.Error(err))
		return nil, err
	}
	return snapshot, nil
}

func (s *RefreshService) loadSubstitutions(ctx context.Context) (*models.SubstitutionSnapshot, error) {
	start := time.Now()
	snapshot, err := s.substitutions.Load(ctx)
	s.metrics.ObserveReload("substitutions", ignoreMissing(err), time.Since(start))
	if err != nil {
		if errors.Is(err, appErrors.ErrSourceMissing) {
			s.logger.Info("substitution source missing, serving empty bulletin", zap.String("source", s.substitutions.Source()))
			return models.EmptySubstitutionSnapshot(), nil
		}
		s.logger.Error("substitution load failed, keeping previous snapshot", zap.String("source", s.substitutions.Source()), zap.Error(err))
		return nil, err
	}
	if dropped := ValidateSubstitutions(s.validate, snapshot); dropped > 0 {
		s.logger.Warn("invalid substitution records dropped", zap.Int("count", dropped))
	}
	return snapshot, nil
}

func ignoreMissing(err error) error {
	if errors.Is(err, appErrors.ErrSourceMissing) {
		return nil
	}
	return err
}

func countSubstitutions(snapshot *models.SubstitutionSnapshot) int {
	if snapshot == nil {
		return 0
	}
	total := 0
	for _, section := range snapshot.Sections {
		total += len(section.Lessons)
	}
	return total
}
