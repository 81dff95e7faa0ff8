// Package domain contains the core domain entities and value objects for enginewatch.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (Docker, HTTP, file system, logging)
// and contains only pure business logic.
//
// # Entities
//
//   - [StatusSnapshot]: The latest known availability of the engine and its companion app
//   - [EngineVersion]: Version facts reported by the engine
//   - [MonitoringConfig]: Timing and retry policy for the connection supervisor
//   - [ConnectError]: Classified reason a connection attempt failed
//
// # Design Principles
//
// Snapshots are values. Every read and every publish hands out a [StatusSnapshot.Clone]
// so no consumer can observe or cause a partial update.
package domain
