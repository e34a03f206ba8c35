// Package mixer composites GPU surfaces produced by asynchronous rendering
// engines into a single frame.
//
// # Overview
//
// Every video source (typically an off-screen browser view) renders into a
// shared GPU surface on its own goroutine and announces each finished frame.
// A [framesync.Synchronizer] hands those frames to the compositing goroutine
// without tearing: the producer is throttled to the consumer's pace, and the
// consumer copies the latest complete frame into a private texture once per
// tick.
//
// Layers are rectangular regions of a [composition.Composition], drawn in
// insertion order (painter's algorithm) onto the bound render target.
//
// # Packages
//
//   - surface: shared surface handles, sync tokens, pixel rectangles
//   - device: GPU capability interfaces, default effect, backend registry
//   - device/headless: a recording device used by tests and the demo
//   - framesync: the producer/consumer frame hand-off
//   - composition: layers and the ordered scene graph
//   - web: browser-backed layers, popups and the producer contract
//   - scene: YAML/JSON scene descriptions
//   - loop: the tick/render/present loop
//
// The mixer command (cmd/mixer) composites simulated pages on the headless
// device.
//
// # Logging
//
// mixer is silent by default. Use [SetLogger] to route diagnostics to any
// [log/slog] handler.
//
// # Thread Safety
//
// Synchronizer.Notify may be called from any producer goroutine. Everything
// else (Fetch, Composition, layers) belongs to the goroutine that owns the
// GPU context. Producer callbacks that change the layer set go through
// Composition.Post.
package mixer

// Version is the current version of the library.
const Version = "0.3.0"
