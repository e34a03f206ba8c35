// Package web connects off-screen rendering engines, such as a headless
// browser, to a composition.
//
// An Engine renders a page into GPU shared surfaces and reports each
// finished frame to a View through OnAcceleratedPaint. The View moves the
// frames to the compositing goroutine with a pair of synchronizers, one
// for the page and one for its popup (an open drop-down list, for
// instance). A Layer draws the page; a PopupLayer is added over it while
// the popup is visible.
//
// Engine callbacks arrive on the engine's goroutines. Everything that
// touches the composition is marshaled with Composition.Post.
package web
