package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kalaiprof897-eng/management/pkg/common"
	"github.com/kalaiprof897-eng/management/pkg/fallback"
	"github.com/kalaiprof897-eng/management/pkg/gateway"
	"github.com/kalaiprof897-eng/management/pkg/metrics"
	"github.com/kalaiprof897-eng/management/pkg/models"
)

type Observer func(Snapshot)

// Reconciler owns the displayed dataset of one signed in user. Cycles are
// coalesced so at most one set of reads is in flight, and the snapshot is
// replaced wholesale when a cycle settles.
type Reconciler struct {
	gateway  gateway.Gateway
	identity gateway.Identity
	fallback fallback.Dataset
	now      func() time.Time
	// base bounds every cycle. Caller contexts only contribute values.
	base context.Context

	flight singleflight.Group
	first  sync.Once

	mu        sync.RWMutex
	snapshot  Snapshot
	settled   bool
	discarded bool
	observers map[int]Observer
	nextID    int
}

func NewReconciler(g gateway.Gateway, id gateway.Identity, fb fallback.Dataset) *Reconciler {
	return &Reconciler{
		gateway:   g,
		identity:  id,
		fallback:  fb,
		now:       time.Now,
		base:      context.Background(),
		snapshot:  Snapshot{State: StateLoading, Loading: true},
		observers: make(map[int]Observer),
	}
}

func (r *Reconciler) logger(category string) *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameDashboard,
		zap.String(common.LoggerFieldCategory, category),
		zap.String("user_id", r.identity.UserID),
	)
}

func (r *Reconciler) Identity() gateway.Identity {
	return r.identity
}

// Subscribe registers o for every published snapshot and returns its
// unsubscribe func.
func (r *Reconciler) Subscribe(o Observer) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.observers[id] = o
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.observers, id)
			r.mu.Unlock()
		})
	}
}

// update applies fn to the current snapshot under the lock and publishes the
// result. Updates after Discard are dropped.
func (r *Reconciler) update(fn func(s *Snapshot)) (Snapshot, bool) {
	r.mu.Lock()
	if r.discarded {
		s := r.snapshot.clone()
		r.mu.Unlock()
		return s, false
	}
	fn(&r.snapshot)
	s := r.snapshot.clone()
	observers := make([]Observer, 0, len(r.observers))
	for _, o := range r.observers {
		observers = append(observers, o)
	}
	r.mu.Unlock()

	for _, o := range observers {
		o(s)
	}
	return s, true
}

func (r *Reconciler) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot.clone()
}

// Settled reports whether at least one cycle has completed.
func (r *Reconciler) Settled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settled
}

// Current returns the snapshot once the first cycle has run. Callers arriving
// while it is in flight wait for it.
func (r *Reconciler) Current(ctx context.Context) Snapshot {
	if r.Settled() {
		return r.Snapshot()
	}
	r.first.Do(func() {
		r.Verify(ctx)
	})
	return r.Snapshot()
}

// Verify runs one reconciliation cycle. Concurrent callers share the cycle
// already in flight, and a caller going away does not cancel it.
func (r *Reconciler) Verify(ctx context.Context) Snapshot {
	v, _, _ := r.flight.Do("verify", func() (any, error) {
		cctx, cancel := r.cycleContext(ctx)
		defer cancel()
		return r.cycle(cctx), nil
	})
	return v.(Snapshot)
}

// cycleContext keeps the values of ctx but is cancelled only with base.
func (r *Reconciler) cycleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	cctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(r.base, cancel)
	return cctx, func() {
		stop()
		cancel()
	}
}

func (r *Reconciler) cycle(ctx context.Context) Snapshot {
	start := r.now()
	r.update(func(s *Snapshot) {
		s.Loading = true
	})

	results := gateway.ReadAll(ctx, r.gateway, r.identity)
	next := Reconcile(results, r.fallback)
	next.UpdatedAt = r.now()

	s, published := r.update(func(s *Snapshot) {
		notification := s.Notification
		*s = next
		s.Notification = notification
		r.settled = true
	})
	if !published {
		return s
	}

	metrics.RecordCycle(string(s.State), time.Since(start))

	logger := r.logger(common.LoggerCategoryReconcile)
	switch s.State {
	case StateReady:
		logger.Info("Reconciled dashboard data",
			zap.String("state", string(s.State)),
			zap.Int("machines", len(s.Machines)),
			zap.Int("tools", len(s.Tools)),
			zap.Int("production_records", len(s.ProductionRecords)),
			zap.Int("cnc_time_logs", len(s.CncTimeLogs)),
			zap.Bool("time_log_unavailable", s.TimeLogUnavailable))
	case StateSetupRequired:
		logger.Warn("Database tables missing, showing sample data", zap.String("state", string(s.State)))
	default:
		logger.Error("Failed to fetch data from backend, showing sample data",
			zap.String("state", string(s.State)),
			zap.String("error", s.Error))
	}

	return s
}

// Discard drops all reconciled data and shows the fallback dataset. Cycles
// still in flight are ignored once they settle.
func (r *Reconciler) Discard() {
	r.mu.Lock()
	if r.discarded {
		r.mu.Unlock()
		return
	}
	r.discarded = true
	r.snapshot = FallbackSnapshot(StateSignedOut, r.fallback)
	r.snapshot.UpdatedAt = r.now()
	s := r.snapshot.clone()
	observers := r.observers
	r.observers = make(map[int]Observer)
	r.mu.Unlock()

	for _, o := range observers {
		o(s)
	}
}

func (r *Reconciler) Notify(message string, t NotificationType) {
	r.update(func(s *Snapshot) {
		s.Notification = &Notification{Message: message, Type: t}
	})
}

func (r *Reconciler) HideNotification() {
	r.update(func(s *Snapshot) {
		s.Notification = nil
	})
}

// AddCncTimeLog saves one time log and prepends it to the displayed list.
// It waits for the first cycle, and is refused before any backend call while
// the collection is known to be missing.
func (r *Reconciler) AddCncTimeLog(ctx context.Context, input TimeLogInput) (*models.CncTimeLog, error) {
	logger := r.logger(common.LoggerCategoryTimeLog)

	if !r.Current(ctx).CanAddTimeLog() {
		r.Notify(MessageDatabaseUpdateNeeds, NotificationError)
		metrics.RecordTimeLog("unavailable")
		return nil, ErrTimeLogUnavailable
	}

	if err := input.Validate(); err != nil {
		metrics.RecordTimeLog("invalid")
		return nil, err
	}
	if input.OutTime.Before(input.InTime) {
		logger.Warn("Time log ends before it starts",
			zap.Time("in_time", input.InTime),
			zap.Time("out_time", input.OutTime))
	}

	created, err := r.gateway.InsertCncTimeLog(ctx, r.identity, input.toModel())
	if err != nil {
		err = gateway.Classify(gateway.CollectionCncTimeLogs, err)
		if gateway.IsMissingCollection(err) {
			r.update(func(s *Snapshot) {
				s.TimeLogUnavailable = true
			})
		}
		logger.Error("Failed to add CNC time log", zap.Error(err))
		metrics.RecordTimeLog("error")
		return nil, err
	}

	r.update(func(s *Snapshot) {
		s.CncTimeLogs = append([]models.CncTimeLog{*created}, s.CncTimeLogs...)
		s.Notification = &Notification{Message: MessageTimeLogAdded, Type: NotificationSuccess}
	})
	metrics.RecordTimeLog("ok")
	logger.Info("CNC time log added", zap.String("id", created.ID), zap.String("machine_name", created.MachineName))

	return created, nil
}

// IsUnavailable reports whether err means the time log collection cannot be
// written to.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrTimeLogUnavailable) || gateway.IsMissingCollection(err)
}
