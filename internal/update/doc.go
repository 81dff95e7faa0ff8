// Package update answers "is a newer version published?" for the engine and
// its companion application.
//
// Every lookup is best-effort. Transport failures, non-2xx responses and
// payloads without the expected field all produce a nil result, which means
// "could not determine", never "no update". A non-nil false means the lookup
// succeeded and the installed version is current.
//
// Lookups are composed as [Strategy] values; [FirstOf] tries them in priority
// order and returns the first determinate answer.
package update
