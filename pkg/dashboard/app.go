package dashboard

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kalaiprof897-eng/management/pkg/auth"
	"github.com/kalaiprof897-eng/management/pkg/common"
	"github.com/kalaiprof897-eng/management/pkg/fallback"
	"github.com/kalaiprof897-eng/management/pkg/gateway"
	"github.com/kalaiprof897-eng/management/pkg/summary"
)

type AppOptions struct {
	Gateway      gateway.Gateway
	Sessions     *auth.SessionStore
	Summarizer   summary.Summarizer
	Fallback     *fallback.Dataset
	DefaultRate  rate.Limit
	DefaultBurst int
}

// App keeps one Reconciler per signed in session. Reconcilers are created
// when a session starts, run their first cycle right away, and are discarded
// when the session ends.
type App struct {
	Gateway    gateway.Gateway
	Sessions   *auth.SessionStore
	Summarizer summary.Summarizer
	Limiters   *RateLimiterStore
	Fallback   fallback.Dataset

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	reconcilers map[string]*Reconciler
	observers   map[int]Observer
	nextID      int
	unsubscribe func()
}

func NewApp(opts AppOptions) *App {
	fb := fallback.NewDataset()
	if opts.Fallback != nil {
		fb = *opts.Fallback
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		Gateway:     opts.Gateway,
		Sessions:    opts.Sessions,
		Summarizer:  opts.Summarizer,
		Limiters:    NewRateLimiterStore(opts.DefaultRate, opts.DefaultBurst),
		Fallback:    fb,
		ctx:         ctx,
		cancel:      cancel,
		reconcilers: make(map[string]*Reconciler),
		observers:   make(map[int]Observer),
	}
	if a.Sessions != nil {
		a.unsubscribe = a.Sessions.Subscribe(a.onSessionEvent)
	}
	return a
}

func (a *App) logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameDashboard, zap.String(common.LoggerFieldCategory, common.LoggerCategorySession))
}

func (a *App) onSessionEvent(e auth.Event) {
	switch e.Type {
	case auth.SignedIn:
		r := a.reconcilerFor(e.Session)
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			r.Current(a.ctx)
		}()
	case auth.SignedOut:
		a.mu.Lock()
		r, ok := a.reconcilers[e.Session.AccessToken]
		delete(a.reconcilers, e.Session.AccessToken)
		a.mu.Unlock()

		if ok {
			r.Discard()
		}
		a.Limiters.Forget(e.Session.User.ID)
		a.logger().Info("Discarded dashboard data", zap.String("user_id", e.Session.User.ID))
	}
}

func (a *App) reconcilerFor(session auth.Session) *Reconciler {
	a.mu.Lock()
	defer a.mu.Unlock()

	if r, ok := a.reconcilers[session.AccessToken]; ok {
		return r
	}

	r := NewReconciler(a.Gateway, gateway.Identity{
		UserID:      session.User.ID,
		AccessToken: session.AccessToken,
	}, a.Fallback)
	r.base = a.ctx
	r.Subscribe(a.publish)
	a.reconcilers[session.AccessToken] = r
	return r
}

// ReconcilerFor returns the reconciler of a live session, creating one when
// the session started before the App subscribed.
func (a *App) ReconcilerFor(session *auth.Session) *Reconciler {
	return a.reconcilerFor(*session)
}

// AnonymousSnapshot is what callers without a session see.
func (a *App) AnonymousSnapshot() Snapshot {
	return FallbackSnapshot(StateSignedOut, a.Fallback)
}

// Observe registers o for the snapshots of every session.
func (a *App) Observe(o Observer) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.observers[id] = o
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.observers, id)
			a.mu.Unlock()
		})
	}
}

func (a *App) publish(s Snapshot) {
	a.mu.Lock()
	observers := make([]Observer, 0, len(a.observers))
	for _, o := range a.observers {
		observers = append(observers, o)
	}
	a.mu.Unlock()

	for _, o := range observers {
		o(s)
	}
}

func (a *App) ActiveReconcilers() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.reconcilers)
}

// Close stops listening for sessions and waits for pending first cycles.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.cancel()
	a.wg.Wait()
}
