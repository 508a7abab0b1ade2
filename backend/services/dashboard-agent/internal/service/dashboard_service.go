package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"aquavigil/backend/services/dashboard-agent/internal/clients"
	"aquavigil/backend/services/dashboard-agent/internal/history"
	"aquavigil/backend/services/dashboard-agent/internal/metrics"
	"aquavigil/backend/services/dashboard-agent/internal/models"
	"aquavigil/backend/services/dashboard-agent/internal/poller"
	"aquavigil/backend/services/dashboard-agent/internal/repository"
)

// Per-view poll cadences. Fixed by design, not configuration.
const (
	AllModulesInterval   = 30 * time.Second
	ModuleDetailInterval = 15 * time.Second
	StatisticsInterval   = 60 * time.Second
)

// View identities in the poll arena.
const (
	viewAllModules   = "modules"
	viewModuleDetail = "module-detail"
	viewStatistics   = "statistics"
)

const sideEffectTimeout = 5 * time.Second

// Broadcaster pushes updates to connected dashboard views.
type Broadcaster interface {
	Broadcast(eventType string, payload interface{})
}

// DashboardService owns the standing pollers and routes successful
// module-detail polls into the view history, the reading archive and the push
// hub.
type DashboardService struct {
	client  *clients.MonitoringClient
	history *history.Cache
	archive *repository.ReadingArchive
	hub     Broadcaster
	polls   *poller.Manager
	logger  *zap.Logger

	mu        sync.Mutex
	runCtx    context.Context
	modules   *poller.Handle[[]models.ModuleSnapshot]
	stats     *poller.Handle[models.AggregateStats]
	watchedID string
	module    *poller.Handle[models.ModuleSnapshot]
}

// NewDashboardService builds the service. archive may be nil when no local
// database is configured; hub may be nil when push is disabled.
func NewDashboardService(
	client *clients.MonitoringClient,
	historyCache *history.Cache,
	archive *repository.ReadingArchive,
	hub Broadcaster,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		client:  client,
		history: historyCache,
		archive: archive,
		hub:     hub,
		polls:   poller.NewManager(),
		logger:  logger,
	}
}

// Start launches the standing all-modules and statistics pollers. The
// module-detail poller starts lazily on the first ModuleView call.
func (s *DashboardService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runCtx = ctx

	s.modules = poller.Start(ctx, viewAllModules, AllModulesInterval,
		func(ctx context.Context) (*[]models.ModuleSnapshot, error) {
			snapshots, err := s.client.FetchAllModules(ctx)
			if err != nil {
				return nil, err
			}
			return &snapshots, nil
		},
		poller.Options[[]models.ModuleSnapshot]{
			OnSuccess: func(snapshots *[]models.ModuleSnapshot) {
				metrics.PollTick(viewAllModules, metrics.ResultSuccess)
				if s.hub != nil {
					s.hub.Broadcast("modules", *snapshots)
				}
			},
			OnError: func(error) { metrics.PollTick(viewAllModules, metrics.ResultError) },
		},
		s.logger,
	)
	s.polls.Track(viewAllModules, s.modules)

	s.stats = poller.Start(ctx, viewStatistics, StatisticsInterval,
		s.client.FetchStatistics,
		poller.Options[models.AggregateStats]{
			OnSuccess: func(stats *models.AggregateStats) {
				metrics.PollTick(viewStatistics, metrics.ResultSuccess)
				if s.hub != nil {
					s.hub.Broadcast("statistics", stats)
				}
			},
			OnError: func(error) { metrics.PollTick(viewStatistics, metrics.ResultError) },
		},
		s.logger,
	)
	s.polls.Track(viewStatistics, s.stats)
}

// Stop cancels every live poller.
func (s *DashboardService) Stop() {
	s.polls.StopAll()
	s.mu.Lock()
	s.modules = nil
	s.stats = nil
	s.module = nil
	s.watchedID = ""
	s.mu.Unlock()
}

// ModulesView returns the all-modules poller state.
func (s *DashboardService) ModulesView() poller.State[[]models.ModuleSnapshot] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modules == nil {
		return poller.State[[]models.ModuleSnapshot]{Loading: true}
	}
	return s.modules.State()
}

// StatsView returns the statistics poller state.
func (s *DashboardService) StatsView() poller.State[models.AggregateStats] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stats == nil {
		return poller.State[models.AggregateStats]{Loading: true}
	}
	return s.stats.State()
}

// ModuleView returns the module-detail poller state for id, switching the
// detail poller to id first if a different module was being watched. A switch
// always yields a fresh cycle with fresh state.
func (s *DashboardService) ModuleView(id string) poller.State[models.ModuleSnapshot] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.module == nil || s.watchedID != id {
		s.watchModuleLocked(id)
	}
	return s.module.State()
}

// UnwatchModule stops the module-detail poller, e.g. when the detail view
// closes.
func (s *DashboardService) UnwatchModule() {
	s.mu.Lock()
	s.watchedID = ""
	s.module = nil
	s.mu.Unlock()
	s.polls.Stop(viewModuleDetail)
}

func (s *DashboardService) watchModuleLocked(id string) {
	ctx := s.runCtx
	if ctx == nil {
		ctx = context.Background()
	}

	s.watchedID = id
	s.module = poller.Start(ctx, viewModuleDetail, ModuleDetailInterval,
		func(ctx context.Context) (*models.ModuleSnapshot, error) {
			return s.client.FetchModule(ctx, id)
		},
		poller.Options[models.ModuleSnapshot]{
			OnSuccess: s.onModuleSnapshot,
			OnError:   func(error) { metrics.PollTick(viewModuleDetail, metrics.ResultError) },
		},
		s.logger,
	)
	s.polls.Track(viewModuleDetail, s.module)
}

func (s *DashboardService) onModuleSnapshot(snapshot *models.ModuleSnapshot) {
	metrics.PollTick(viewModuleDetail, metrics.ResultSuccess)

	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	if err := s.history.Record(ctx, *snapshot); err != nil {
		s.logger.Warn("failed to record view history", zap.String("module_id", snapshot.ID), zap.Error(err))
	} else if entries, err := s.history.List(ctx); err == nil {
		metrics.SetHistoryEntries(len(entries))
	}

	if s.archive != nil {
		if err := s.archive.Insert(ctx, snapshot); err != nil {
			s.logger.Warn("failed to archive reading", zap.String("module_id", snapshot.ID), zap.Error(err))
		}
	}

	if s.hub != nil {
		s.hub.Broadcast("module", snapshot)
	}
}

// History lists the view-history entries, most recent first.
func (s *DashboardService) History(ctx context.Context) ([]models.HistoryEntry, error) {
	entries, err := s.history.List(ctx)
	if err != nil {
		return nil, err
	}
	metrics.SetHistoryEntries(len(entries))
	return entries, nil
}

// ClearHistory wipes the view history.
func (s *DashboardService) ClearHistory(ctx context.Context) error {
	if err := s.history.Clear(ctx); err != nil {
		return err
	}
	metrics.SetHistoryEntries(0)
	return nil
}

// ModuleHistory returns recent readings for a module, serving from the local
// archive when one is configured and falling back to the remote service.
func (s *DashboardService) ModuleHistory(ctx context.Context, id string, hours int) (*models.ModuleReadings, error) {
	if hours <= 0 {
		hours = 24
	}

	if s.archive != nil {
		since := time.Now().Add(-time.Duration(hours) * time.Hour)
		points, err := s.archive.ListRange(ctx, id, since, 1000)
		if err != nil {
			s.logger.Warn("reading archive query failed, falling back to remote", zap.String("module_id", id), zap.Error(err))
		} else if len(points) > 0 {
			return &models.ModuleReadings{ModuleID: id, History: points}, nil
		}
	}

	return s.client.FetchModuleHistory(ctx, id, hours)
}
