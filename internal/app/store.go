package app

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/bft-labs/enginewatch/internal/domain"
	"github.com/bft-labs/enginewatch/internal/ports"
)

// supervisorState is everything the store guards. Only code running inside
// Store.update may touch it.
type supervisorState struct {
	snapshot        domain.StatusSnapshot
	retryCount      uint32
	lastUpdateCheck time.Time

	// conn is present iff the engine is believed connected. connGen increases
	// with every attach so late callbacks from an older connection can be told
	// apart from the current one.
	conn    ports.DaemonConn
	connGen uint64

	monitorGen    uint64
	monitorCancel context.CancelFunc
}

// detach drops the current connection and stops its event monitor. The
// returned connection must be closed by the caller after the lock is released.
func (st *supervisorState) detach() ports.DaemonConn {
	conn := st.conn
	st.conn = nil
	if st.monitorCancel != nil {
		st.monitorCancel()
		st.monitorCancel = nil
		st.monitorGen = 0
	}
	return conn
}

// Store is the single source of truth for the engine status.
//
// The lock is never held across an engine or HTTP call: callers copy out
// what they need, release, do the slow work, then commit through update.
// Publishing is non-blocking and happens under the lock so subscribers see
// commits in order.
type Store struct {
	mu          sync.Mutex
	st          supervisorState
	broadcaster *Broadcaster
}

// NewStore creates a store holding the initial snapshot.
func NewStore(broadcaster *Broadcaster) *Store {
	return &Store{
		st:          supervisorState{snapshot: domain.InitialSnapshot()},
		broadcaster: broadcaster,
	}
}

// Read returns a copy of the current snapshot.
func (s *Store) Read() domain.StatusSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.snapshot.Clone()
}

// Mutate applies fn to the snapshot under exclusive access. fn reports
// whether it changed anything; changed snapshots are published. The committed
// snapshot is returned either way.
func (s *Store) Mutate(fn func(snapshot *domain.StatusSnapshot) bool) (domain.StatusSnapshot, bool) {
	return s.update(func(st *supervisorState) bool {
		return fn(&st.snapshot)
	})
}

func (s *Store) update(fn func(st *supervisorState) bool) (domain.StatusSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := fn(&s.st)
	out := s.st.snapshot.Clone()
	if changed && s.broadcaster != nil {
		s.broadcaster.Publish(out)
	}
	return out, changed
}

// connection returns the current connection and its generation.
func (s *Store) connection() (ports.DaemonConn, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.conn, s.st.connGen
}

// Connected reports whether a connection handle is held.
func (s *Store) Connected() bool {
	conn, _ := s.connection()
	return conn != nil
}

// RetryCount returns the number of consecutive failed connection attempts.
func (s *Store) RetryCount() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.retryCount
}

// incrementRetries records one more failure and returns the new count.
func (s *Store) incrementRetries() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.retryCount < math.MaxUint32 {
		s.st.retryCount++
	}
	return s.st.retryCount
}

// updateCheckDue reports whether interval has passed since the last update check.
func (s *Store) updateCheckDue(interval time.Duration, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.lastUpdateCheck.IsZero() {
		return true
	}
	return now.Sub(s.st.lastUpdateCheck) >= interval
}

// detachAll drops whatever connection is held. Used at shutdown.
func (s *Store) detachAll() ports.DaemonConn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.detach()
}
