package surface

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestHandleValidate(t *testing.T) {
	tests := []struct {
		name    string
		handle  Handle
		wantErr bool
	}{
		{"valid", Handle{ID: 1, Width: 100, Height: 100, Format: gputypes.TextureFormatBGRA8Unorm}, false},
		{"zero id", Handle{ID: 0, Width: 100, Height: 100}, true},
		{"zero width", Handle{ID: 1, Width: 0, Height: 100}, true},
		{"negative height", Handle{ID: 1, Width: 10, Height: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.handle.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidHandle) {
				t.Errorf("Validate() error = %v, want ErrInvalidHandle", err)
			}
		})
	}
}

func TestHandleSameSurface(t *testing.T) {
	a := Handle{ID: 7, Width: 100, Height: 100}
	b := Handle{ID: 7, Width: 200, Height: 200}
	c := Handle{ID: 8, Width: 100, Height: 100}

	if !a.SameSurface(b) {
		t.Error("handles with the same ID should be the same surface")
	}
	if a.SameSurface(c) {
		t.Error("handles with different IDs should not be the same surface")
	}
}

func TestBytesPerPixel(t *testing.T) {
	if got := BytesPerPixel(gputypes.TextureFormatBGRA8Unorm); got != 4 {
		t.Errorf("BytesPerPixel(BGRA8) = %d, want 4", got)
	}
	if got := BytesPerPixel(gputypes.TextureFormatR8Unorm); got != 1 {
		t.Errorf("BytesPerPixel(R8) = %d, want 1", got)
	}
}

func TestRect(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	if r.Empty() {
		t.Error("Empty() = true for a non-empty rect")
	}
	if !r.Contains(10, 20) || !r.Contains(39, 59) {
		t.Error("Contains() should include the top-left and bottom-right pixels")
	}
	if r.Contains(40, 20) || r.Contains(10, 60) {
		t.Error("Contains() should exclude the right and bottom edges")
	}
	if !(Rect{Width: 0, Height: 5}).Empty() {
		t.Error("Empty() = false for a zero-width rect")
	}
}

func TestKindString(t *testing.T) {
	if KindView.String() != "view" || KindPopup.String() != "popup" {
		t.Errorf("Kind strings = %q, %q", KindView, KindPopup)
	}
	if Kind(9).String() != "unknown" {
		t.Errorf("Kind(9).String() = %q", Kind(9))
	}
}
