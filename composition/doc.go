// Package composition holds the ordered set of layers drawn onto a render
// target each frame.
//
// Layers are drawn back to front in insertion order (painter's
// algorithm). Each layer covers a rectangle in normalized canvas space,
// where (0, 0) is the top-left corner and (1, 1) the bottom-right corner,
// so layers keep their relative placement when the target is resized.
//
// A Composition and its layers belong to the compositing goroutine.
// Producers running on other goroutines marshal mutations with Post;
// posted functions run at the start of the next Tick.
package composition
