package ports

import "context"

// CompanionProbe looks up the version of the companion desktop application.
// Implementations are platform specific and best-effort.
type CompanionProbe interface {
	// CompanionVersion returns the installed version, or ok=false when it
	// cannot be determined.
	CompanionVersion(ctx context.Context) (version string, ok bool)
}
