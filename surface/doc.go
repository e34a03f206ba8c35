// Package surface describes GPU surfaces shared across a goroutine or
// process boundary.
//
// A producer (for example an off-screen browser engine) renders into a
// texture it owns and announces each completed frame with a [Handle]. The
// handle is an opaque identifier plus the metadata needed to open the
// texture on the consumer's device: width, height and pixel format.
//
// A handle is immutable once observed. When the producer recreates its
// surface (after a resize, a GPU reset or a reconnect) it announces a new
// handle with a different ID; consumers must drop every cached copy of the
// old surface.
//
// Access to the shared texture is serialized with a keyed mutex. The key is
// carried alongside the handle as a [SyncToken].
package surface
