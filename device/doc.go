// Package device defines the GPU capabilities the compositor depends on.
//
// mixer RECEIVES a GPU device from the host application; it never creates
// one. Window, swapchain and device creation belong to the host. This
// package only names the handful of operations the compositor performs:
//
//   - Device: open a shared surface, create private textures, build quad
//     geometry and shader effects.
//   - Context: the immediate context owned by the compositing goroutine.
//     It copies textures, draws textured quads and takes the keyed mutex
//     that serializes access to shared surfaces.
//   - Target: the render target a frame is composited onto.
//
// Every operation is fallible. Callers degrade gracefully (skip a frame,
// draw nothing) instead of propagating failures through the render loop.
//
// Backends register themselves by name, following the database/sql driver
// pattern:
//
//	func init() {
//	    device.Register("headless", 10, open, nil)
//	}
//
//	b, err := device.Open("", device.Options{Width: 1280, Height: 720})
package device
