package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bft-labs/enginewatch/internal/domain"
	"github.com/bft-labs/enginewatch/internal/ports"
)

// UpdateChecker answers whether newer releases exist. A nil answer means
// unknown.
type UpdateChecker interface {
	CheckEngine(ctx context.Context, current string) *bool
	CheckCompanion(ctx context.Context, current string) *bool
}

// Supervisor owns the engine connection. It connects, watches health, and
// reconnects with backoff, committing every observation to the Store.
type Supervisor struct {
	cfg       domain.MonitoringConfig
	client    ports.DaemonClient
	companion ports.CompanionProbe
	checker   UpdateChecker
	store     *Store
	logger    ports.Logger
	tracker   *connTracker
	policy    retryPolicy

	// connMu pairs each handle attach or detach in the store with its
	// tracker transition, so the tracker never lags the store.
	connMu sync.Mutex

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool

	reconnectCh chan struct{}
	updateCh    chan struct{}

	wg sync.WaitGroup
}

// NewSupervisor creates a supervisor. companion and checker may be nil.
func NewSupervisor(
	cfg domain.MonitoringConfig,
	client ports.DaemonClient,
	companion ports.CompanionProbe,
	checker UpdateChecker,
	store *Store,
	logger ports.Logger,
	observer ConnStateObserver,
) *Supervisor {
	return &Supervisor{
		cfg:         cfg,
		client:      client,
		companion:   companion,
		checker:     checker,
		store:       store,
		logger:      logger,
		tracker:     newConnTracker(logger, observer),
		policy:      newRetryPolicy(cfg),
		now:         time.Now,
		sleep:       sleepContext,
		reconnectCh: make(chan struct{}, 1),
		updateCh:    make(chan struct{}, 1),
	}
}

// State returns the current connection state.
func (s *Supervisor) State() ConnState {
	return s.tracker.State()
}

// Reconnect asks the loop to attempt a connection now. Requests coalesce.
func (s *Supervisor) Reconnect() {
	select {
	case s.reconnectCh <- struct{}{}:
	default:
	}
}

// RequestUpdateCheck asks the loop to run an update check now, ignoring the
// rate limit. Requests coalesce.
func (s *Supervisor) RequestUpdateCheck() {
	select {
	case s.updateCh <- struct{}{}:
	default:
	}
}

// Run executes the supervision loop until ctx is canceled.
// The first connection attempt is made immediately; the periodic timers
// start after the configured startup delay.
func (s *Supervisor) Run(ctx context.Context) {
	defer s.shutdown()

	s.attemptConnect(ctx)

	if !s.sleep(ctx, s.cfg.StartupDelay) {
		return
	}

	reconnect := time.NewTicker(s.cfg.RetryInterval)
	defer reconnect.Stop()
	health := time.NewTicker(s.cfg.HealthCheckInterval)
	defer health.Stop()
	updates := time.NewTicker(s.cfg.UpdateCheckInterval)
	defer updates.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-reconnect.C:
			s.reconnectIfNeeded(ctx)
		case <-s.reconnectCh:
			s.reconnectIfNeeded(ctx)
		case <-health.C:
			if !s.store.Connected() {
				continue
			}
			if err := s.HealthCheck(ctx); err != nil {
				s.logger.Info("health check failed", ports.Err(err))
			}
		case <-updates.C:
			s.runUpdateCheck(ctx, false)
		case <-s.updateCh:
			s.runUpdateCheck(ctx, true)
		}
	}
}

// Wait blocks until every goroutine spawned by Run has returned.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

func (s *Supervisor) shutdown() {
	if conn := s.store.detachAll(); conn != nil {
		if err := conn.Close(); err != nil {
			s.logger.Debug("close engine connection", ports.Err(err))
		}
	}
}

func (s *Supervisor) reconnectIfNeeded(ctx context.Context) {
	if s.store.Connected() {
		return
	}
	s.attemptConnect(ctx)
}

// callContext bounds a single engine call.
func (s *Supervisor) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.ConnectionTimeout)
}

func (s *Supervisor) transition(to ConnState, reason string) {
	if err := s.tracker.TransitionTo(to, reason); err != nil {
		s.logger.Debug("connection state unchanged",
			ports.String("state", s.tracker.State().String()),
			ports.String("requested", to.String()),
		)
	}
}

// attemptConnect makes one connection attempt. On failure it commits the
// classified error and sleeps for the backoff delay before returning.
func (s *Supervisor) attemptConnect(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	s.connMu.Lock()
	s.transition(StateConnecting, "connection attempt")
	s.connMu.Unlock()

	callCtx, cancel := s.callContext(ctx)
	conn, err := s.client.Connect(callCtx)
	cancel()
	if err != nil {
		s.connectFailed(ctx, classify(err, domain.KindConnectionFailed))
		return
	}

	callCtx, cancel = s.callContext(ctx)
	version, err := conn.Version(callCtx)
	cancel()
	if err != nil {
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		s.connectFailed(ctx, classify(err, domain.KindNotRunning))
		return
	}

	count := s.resourceCount(ctx, conn)
	companion := s.companionVersion(ctx)

	now := s.now()
	var (
		gen   uint64
		stale ports.DaemonConn
	)
	s.connMu.Lock()
	s.store.update(func(st *supervisorState) bool {
		stale = st.detach()
		st.conn = conn
		st.connGen++
		gen = st.connGen
		st.retryCount = 0

		st.snapshot.MarkHealthy(now)
		v := version
		st.snapshot.EngineVersion = &v
		st.snapshot.CompanionVersion = companion
		st.snapshot.ResourceCount = count
		st.snapshot.EngineUpdateAvailable = nil
		st.snapshot.CompanionUpdateAvailable = nil
		return true
	})
	s.transition(StateConnected, "engine answered")
	s.connMu.Unlock()

	if stale != nil && stale != conn {
		_ = stale.Close()
	}
	s.logger.Info("connected to engine",
		ports.String("daemon", s.cfg.DaemonName),
		ports.String("version", version.Version),
		ports.String("api_version", version.APIVersion),
	)

	s.startMonitor(ctx, conn, gen)
	s.spawnUpdatePass(ctx, gen, version.Version, companion)
}

func (s *Supervisor) connectFailed(ctx context.Context, cerr *domain.ConnectError) {
	msg := cerr.Message(s.cfg.DaemonName)
	now := s.now()

	var stale ports.DaemonConn
	s.connMu.Lock()
	s.store.update(func(st *supervisorState) bool {
		stale = st.detach()
		st.snapshot.MarkUnreachable(msg, now)
		return true
	})
	s.transition(StateReconnecting, cerr.Kind.String())
	s.connMu.Unlock()

	if stale != nil {
		_ = stale.Close()
	}

	retries := s.store.incrementRetries()
	delay := s.policy.Delay(retries)
	s.logger.Warn("connection attempt failed",
		ports.String("kind", cerr.Kind.String()),
		ports.String("detail", cerr.Detail),
		ports.Uint64("retries", uint64(retries)),
		ports.Duration("delay", delay),
	)

	s.sleep(ctx, delay)
}

// resourceCount is best-effort: any failure yields nil.
func (s *Supervisor) resourceCount(ctx context.Context, conn ports.DaemonConn) *int32 {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	n, err := conn.ListResources(callCtx)
	if err != nil {
		s.logger.Debug("resource count unavailable", ports.Err(err))
		return nil
	}
	return domain.Ptr(int32(n))
}

func (s *Supervisor) companionVersion(ctx context.Context) *string {
	if s.companion == nil {
		return nil
	}
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	v, ok := s.companion.CompanionVersion(callCtx)
	if !ok || v == "" {
		return nil
	}
	return domain.Ptr(v)
}

// HealthCheck pings the connected engine.
//
// Success refreshes the resource count and forces the snapshot healthy.
// Failure marks the engine lost if it was running and drops the connection;
// the returned error is informational and recovery is left to the reconnect
// timer.
func (s *Supervisor) HealthCheck(ctx context.Context) error {
	conn, gen := s.store.connection()
	if conn == nil {
		return domain.ErrConnectionLost
	}

	callCtx, cancel := s.callContext(ctx)
	err := conn.Ping(callCtx)
	timedOut := errors.Is(callCtx.Err(), context.DeadlineExceeded)
	cancel()

	if err == nil {
		count := s.resourceCount(ctx, conn)
		now := s.now()
		s.store.update(func(st *supervisorState) bool {
			if st.connGen != gen || st.conn == nil {
				return false
			}
			st.snapshot.ResourceCount = count
			st.snapshot.MarkHealthy(now)
			return true
		})
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	result := domain.ErrConnectionLost
	msg := domain.NotRespondingMessage(s.cfg.DaemonName)
	if timedOut {
		result = domain.ErrEngineTimeout
		msg = result.Message(s.cfg.DaemonName)
	}

	now := s.now()
	var (
		stale   ports.DaemonConn
		dropped bool
	)
	s.connMu.Lock()
	s.store.update(func(st *supervisorState) bool {
		if st.connGen != gen || st.conn == nil {
			return false
		}
		stale = st.detach()
		dropped = true
		if !st.snapshot.IsRunning {
			return false
		}
		st.snapshot.MarkLost(msg, now)
		return true
	})
	if dropped {
		s.transition(StateDisconnected, result.Kind.String())
	}
	s.connMu.Unlock()

	if stale != nil {
		_ = stale.Close()
	}
	return domain.NewConnectError(result.Kind, err.Error())
}
