// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// application needs from external systems without specifying how those needs
// are fulfilled.
//
// # Port Interfaces
//
//   - [DaemonClient] / [DaemonConn]: Talks to the engine over its control socket
//   - [CompanionProbe]: Looks up the installed companion application version
//   - [SnapshotRepository]: Persists the latest snapshot for other processes
//   - [Logger]: Structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement these interfaces
// with concrete implementations (Docker SDK, file system, HTTP, zerolog, etc.).
package ports
