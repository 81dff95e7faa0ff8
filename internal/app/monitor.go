package app

import (
	"context"

	"github.com/bft-labs/enginewatch/internal/domain"
	"github.com/bft-labs/enginewatch/internal/ports"
)

// startMonitor launches the event monitor for connection gen. Any monitor
// left over from an earlier connection is stopped first, so at most one runs.
func (s *Supervisor) startMonitor(ctx context.Context, conn ports.DaemonConn, gen uint64) {
	mctx, cancel := context.WithCancel(ctx)

	started := false
	s.store.update(func(st *supervisorState) bool {
		if st.connGen != gen || st.conn == nil {
			return false
		}
		if st.monitorCancel != nil {
			st.monitorCancel()
		}
		st.monitorCancel = cancel
		st.monitorGen = gen
		started = true
		return false
	})
	if !started {
		cancel()
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.monitor(mctx, conn, gen)
	}()
}

// monitor turns engine events into immediate health checks. It ends when the
// stream breaks, a health check fails, or ctx is canceled.
func (s *Supervisor) monitor(ctx context.Context, conn ports.DaemonConn, gen uint64) {
	stream := conn.Events(ctx)
	s.logger.Debug("event monitor started", ports.Uint64("generation", gen))

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("event monitor stopped", ports.Uint64("generation", gen))
			return
		case ev, ok := <-stream.Events:
			if !ok {
				s.streamEnded(ctx, gen, nil)
				return
			}
			s.logger.Debug("engine event",
				ports.String("type", ev.Type),
				ports.String("action", ev.Action),
				ports.String("actor", ev.Actor),
			)
			if err := s.HealthCheck(ctx); err != nil {
				s.logger.Info("health check after event failed", ports.Err(err))
				return
			}
		case err, ok := <-stream.Err:
			if !ok {
				// A closed error channel without a value behaves like a closed stream.
				s.streamEnded(ctx, gen, nil)
				return
			}
			s.streamEnded(ctx, gen, err)
			return
		}
	}
}

// streamEnded handles a broken event stream. The cause is unknown, so version
// facts are kept and only a healthy snapshot is changed.
func (s *Supervisor) streamEnded(ctx context.Context, gen uint64, cause error) {
	if ctx.Err() != nil {
		return
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
		if !st.snapshot.Healthy() {
			return false
		}
		st.snapshot.MarkLost(domain.ReconnectingMessage, now)
		return true
	})
	if dropped {
		s.transition(StateDisconnected, "event stream ended")
	}
	s.connMu.Unlock()

	if stale != nil {
		_ = stale.Close()
	}
	if !dropped {
		return
	}

	fields := []ports.Field{ports.Uint64("generation", gen)}
	if cause != nil {
		fields = append(fields, ports.Err(cause))
	}
	s.logger.Warn("event stream ended", fields...)
}
