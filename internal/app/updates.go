package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/enginewatch/internal/ports"
)

// updateResult holds the outcome of one update pass. nil fields are unknown.
type updateResult struct {
	engine    *bool
	companion *bool
}

// checkUpdates looks up both components concurrently, each under the update
// check timeout. Lookups never fail; a missing version yields nil.
func (s *Supervisor) checkUpdates(ctx context.Context, engine string, companion *string) updateResult {
	var res updateResult
	if s.checker == nil {
		return res
	}

	var g errgroup.Group
	if engine != "" {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, s.cfg.UpdateCheckTimeout)
			defer cancel()
			res.engine = s.checker.CheckEngine(cctx, engine)
			return nil
		})
	}
	if companion != nil && *companion != "" {
		current := *companion
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, s.cfg.UpdateCheckTimeout)
			defer cancel()
			res.companion = s.checker.CheckCompanion(cctx, current)
			return nil
		})
	}
	// Lookups report unknown as nil and never fail, so Wait is only a join.
	_ = g.Wait()
	return res
}

// spawnUpdatePass runs an update check for a freshly established connection
// without holding up the loop. Results are dropped if the connection they
// were computed for is gone by the time they arrive.
func (s *Supervisor) spawnUpdatePass(ctx context.Context, gen uint64, engine string, companion *string) {
	if s.checker == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		res := s.checkUpdates(ctx, engine, companion)
		if ctx.Err() != nil {
			return
		}

		now := s.now()
		s.store.update(func(st *supervisorState) bool {
			st.lastUpdateCheck = now
			if st.connGen != gen || st.conn == nil || !st.snapshot.IsRunning {
				return false
			}
			changed := false
			if res.engine != nil {
				st.snapshot.EngineUpdateAvailable = res.engine
				changed = true
			}
			if res.companion != nil {
				st.snapshot.CompanionUpdateAvailable = res.companion
				changed = true
			}
			return changed
		})
		s.logger.Debug("post-connect update check finished",
			ports.Any("engine_update", res.engine),
			ports.Any("companion_update", res.companion),
		)
	}()
}

// runUpdateCheck is the timer-driven update pass. Unless forced it is skipped
// when a check completed within the update check interval.
func (s *Supervisor) runUpdateCheck(ctx context.Context, force bool) {
	if !force && !s.store.updateCheckDue(s.cfg.UpdateCheckInterval, s.now()) {
		s.logger.Debug("update check skipped, checked recently")
		return
	}

	snap := s.store.Read()
	engine := ""
	if snap.EngineVersion != nil {
		engine = snap.EngineVersion.Version
	}

	res := s.checkUpdates(ctx, engine, snap.CompanionVersion)
	if ctx.Err() != nil {
		return
	}

	now := s.now()
	s.store.update(func(st *supervisorState) bool {
		st.lastUpdateCheck = now
		if st.snapshot.IsRunning {
			st.snapshot.EngineUpdateAvailable = res.engine
			st.snapshot.CompanionUpdateAvailable = res.companion
		} else {
			st.snapshot.EngineUpdateAvailable = nil
			st.snapshot.CompanionUpdateAvailable = nil
		}
		st.snapshot.LastChecked = &now
		return true
	})
	s.logger.Info("update check finished",
		ports.Any("engine_update", res.engine),
		ports.Any("companion_update", res.companion),
	)
}
