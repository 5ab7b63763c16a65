package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/noah-isme/kiosk-api/internal/dto"
	"github.com/noah-isme/kiosk-api/internal/models"
	"github.com/noah-isme/kiosk-api/pkg/clock"
	"github.com/noah-isme/kiosk-api/pkg/config"
	appErrors "github.com/noah-isme/kiosk-api/pkg/errors"
)

// SnapshotReader is the read side of the snapshot store.
type SnapshotReader interface {
	Schedule() *models.ScheduleSnapshot
	Substitutions() *models.SubstitutionSnapshot
	Bells() models.BellTimetable
}

// KioskService answers the front-end's read queries from the current snapshots.
type KioskService struct {
	store    SnapshotReader
	clock    clock.Clock
	cache    *CacheService
	metrics  *MetricsService
	cfg      *config.Config
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewKioskService constructs a KioskService.
func NewKioskService(store SnapshotReader, clk clock.Clock, cache *CacheService, metrics *MetricsService, cfg *config.Config, logger *zap.Logger) *KioskService {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &KioskService{
		store:    store,
		clock:    clk,
		cache:    cache,
		metrics:  metrics,
		cfg:      cfg,
		cacheTTL: cfg.Cache.TTL,
		logger:   logger,
	}
}

// Now returns the service clock reading.
func (s *KioskService) Now() time.Time {
	return s.clock.Now()
}

// Versions reports the currently published snapshot versions.
func (s *KioskService) Versions() models.Versions {
	return models.Versions{
		Schedule:      s.store.Schedule().Version,
		Substitutions: s.store.Substitutions().Version,
	}
}

// Classes returns class names ordered by grade number, then letter.
func (s *KioskService) Classes() []string {
	names := s.store.Schedule().ClassNames()
	sort.SliceStable(names, func(i, j int) bool {
		return classLess(names[i], names[j])
	})
	return names
}

// State evaluates className at the given instant. A zero at means "now".
func (s *KioskService) State(className string, at time.Time) (models.AssistantInfo, time.Time) {
	if at.IsZero() {
		at = s.clock.Now()
	}
	info := ComputeState(s.store.Schedule(), s.store.Substitutions(), s.store.Bells(), className, at)
	s.metrics.RecordEvaluation(info.CurrentState.Kind)
	return info, at
}

// Agenda builds the lesson and break timeline for className on day.
func (s *KioskService) Agenda(ctx context.Context, className string, day time.Weekday) ([]models.AgendaItem, error) {
	snapshot := s.store.Schedule()
	schedule, ok := snapshot.Find(className)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	key := fmt.Sprintf("agenda:%s:%s:%d", snapshot.Version, className, day)
	return cached(ctx, s.cache, key, s.cacheTTL, func() ([]models.AgendaItem, error) {
		return BuildAgenda(schedule.LessonsOn(day), snapshot.BreakDurations), nil
	})
}

// Week returns the Monday..Saturday view for className with today's column highlighted.
func (s *KioskService) Week(className string) (dto.WeekResponse, error) {
	snapshot := s.store.Schedule()
	schedule, ok := snapshot.Find(className)
	if !ok {
		return dto.WeekResponse{}, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	breaks := make(map[int]int, models.MaxBreakSlot)
	for slot := 1; slot <= models.MaxBreakSlot; slot++ {
		breaks[slot] = snapshot.BreakDurations.After(slot)
	}
	return dto.WeekResponse{
		ClassName:      className,
		WeekType:       snapshot.WeekType,
		LastUpdated:    snapshot.LastUpdated,
		BreakDurations: breaks,
		Days:           DisplayDays(*schedule, s.clock.Now().Weekday()),
	}, nil
}

// Bulletin returns the full substitution bulletin.
func (s *KioskService) Bulletin() dto.SubstitutionsResponse {
	bulletin := s.store.Substitutions()
	return dto.SubstitutionsResponse{
		Date:             bulletin.Date,
		Title:            bulletin.Title,
		HasSubstitutions: bulletin.HasSubstitutions(),
		Sections:         bulletin.Sections,
	}
}

// GroupedBulletin returns the bulletin reshaped per class.
func (s *KioskService) GroupedBulletin(ctx context.Context) (dto.SubstitutionsResponse, error) {
	bulletin := s.store.Substitutions()
	key := "substitutions:grouped:" + bulletin.Version
	groups, err := cached(ctx, s.cache, key, s.cacheTTL, func() ([]models.ClassSubstitutions, error) {
		return GroupByClass(bulletin), nil
	})
	if err != nil {
		return dto.SubstitutionsResponse{}, err
	}
	return dto.SubstitutionsResponse{
		Date:             bulletin.Date,
		Title:            bulletin.Title,
		HasSubstitutions: bulletin.HasSubstitutions(),
		Classes:          groups,
	}, nil
}

// ClassSubstitutions returns today's records for one class ordered by lesson number.
func (s *KioskService) ClassSubstitutions(className string) []models.Substitution {
	return ClassSubstitutions(s.store.Substitutions(), className)
}

// Settings exposes display configuration to the front-end.
func (s *KioskService) Settings() dto.KioskSettingsResponse {
	paths := s.cfg.Banners.ImagePaths
	if paths == nil {
		paths = []string{}
	}
	return dto.KioskSettingsResponse{
		SchoolFullName:        s.cfg.School.FullName,
		SchoolShortName:       s.cfg.School.ShortName,
		MapURL:                s.cfg.School.MapURL,
		NewsURL:               s.cfg.School.NewsURL,
		BannersEnabled:        s.cfg.Banners.Enabled,
		BannerImagePaths:      paths,
		BannerURL:             s.cfg.Banners.URL,
		BannerTimeoutSeconds:  int(s.cfg.Banners.Timeout / time.Second),
		BannerSwitchSeconds:   int(s.cfg.Banners.SwitchInterval / time.Second),
		RefreshIntervalSecond: int(s.cfg.Refresh.Interval / time.Second),
		WeatherEnabled:        s.cfg.Weather.Enabled,
	}
}

// classLess orders "5А" before "10Б": leading digits compare numerically, the rest lexically.
func classLess(a, b string) bool {
	na, ra := splitGrade(a)
	nb, rb := splitGrade(b)
	if na != nb {
		return na < nb
	}
	return ra < rb
}

func splitGrade(name string) (int, string) {
	end := strings.IndexFunc(name, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(name)
	}
	if end == 0 {
		return 1 << 30, name
	}
	n, err := strconv.Atoi(name[:end])
	if err != nil {
		return 1 << 30, name
	}
	return n, name[end:]
}
