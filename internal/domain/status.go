package domain

import "time"

// InitializingMessage is the error text carried by the snapshot before the
// first connection attempt completes.
const InitializingMessage = "Initializing..."

// ReconnectingMessage is set when the event stream breaks for an unknown reason.
const ReconnectingMessage = "Connection lost, attempting to reconnect..."

// EngineVersion holds the version facts reported by the engine.
type EngineVersion struct {
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	OS         string `json:"os"`
	Arch       string `json:"arch"`
}

// StatusSnapshot is the latest known status of the monitored engine.
// Optional fields are nil when unknown. Snapshots are never shared: use Clone
// before handing one to another goroutine.
type StatusSnapshot struct {
	IsRunning                bool           `json:"is_running"`
	EngineVersion            *EngineVersion `json:"engine_version"`
	CompanionVersion         *string        `json:"companion_version"`
	EngineUpdateAvailable    *bool          `json:"engine_update_available"`
	CompanionUpdateAvailable *bool          `json:"companion_update_available"`
	Error                    *string        `json:"error"`
	ResourceCount            *int32         `json:"resource_count"`
	LastChecked              *time.Time     `json:"last_checked"`
}

// InitialSnapshot returns the snapshot a fresh store starts with.
func InitialSnapshot() StatusSnapshot {
	return StatusSnapshot{Error: Ptr(InitializingMessage)}
}

// Clone returns a deep copy of the snapshot.
func (s StatusSnapshot) Clone() StatusSnapshot {
	out := s
	if s.EngineVersion != nil {
		v := *s.EngineVersion
		out.EngineVersion = &v
	}
	out.CompanionVersion = clonePtr(s.CompanionVersion)
	out.EngineUpdateAvailable = clonePtr(s.EngineUpdateAvailable)
	out.CompanionUpdateAvailable = clonePtr(s.CompanionUpdateAvailable)
	out.Error = clonePtr(s.Error)
	out.ResourceCount = clonePtr(s.ResourceCount)
	out.LastChecked = clonePtr(s.LastChecked)
	return out
}

// Healthy reports whether the snapshot describes a reachable engine.
func (s StatusSnapshot) Healthy() bool {
	return s.IsRunning && s.Error == nil
}

// ErrorText returns the error message or "" when healthy.
func (s StatusSnapshot) ErrorText() string {
	if s.Error == nil {
		return ""
	}
	return *s.Error
}

// MarkHealthy records a successful round trip to the engine.
func (s *StatusSnapshot) MarkHealthy(now time.Time) {
	s.IsRunning = true
	s.Error = nil
	s.LastChecked = Ptr(now)
}

// MarkUnreachable records a failed connection attempt. Everything learned from
// the previous connection is dropped.
func (s *StatusSnapshot) MarkUnreachable(message string, now time.Time) {
	s.IsRunning = false
	s.Error = Ptr(message)
	s.EngineVersion = nil
	s.CompanionVersion = nil
	s.EngineUpdateAvailable = nil
	s.CompanionUpdateAvailable = nil
	s.ResourceCount = nil
	s.LastChecked = Ptr(now)
}

// MarkLost records the loss of an established connection. Version fields are
// kept so consumers do not flicker through a transient reconnect.
func (s *StatusSnapshot) MarkLost(message string, now time.Time) {
	s.IsRunning = false
	s.Error = Ptr(message)
	s.EngineUpdateAvailable = nil
	s.CompanionUpdateAvailable = nil
	s.ResourceCount = nil
	s.LastChecked = Ptr(now)
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
