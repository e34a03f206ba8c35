// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/mixer/device"
	"github.com/gogpu/mixer/surface"
)

func TestSharedSurfaceOpenAliasesStorage(t *testing.T) {
	dev := NewDevice()
	s, err := dev.CreateSharedSurface(2, 2, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("CreateSharedSurface() error = %v", err)
	}

	frame := bytes.Repeat([]byte{7}, 16)
	if err := s.Write(3, frame); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	tex, err := dev.OpenSharedSurface(s.Handle())
	if err != nil {
		t.Fatalf("OpenSharedSurface() error = %v", err)
	}
	ht := tex.(*Texture)
	if ht.Stamp() != 3 {
		t.Errorf("Stamp() = %d, want 3", ht.Stamp())
	}
	if !bytes.Equal(ht.Pixels(), frame) {
		t.Error("opened texture does not see producer pixels")
	}
	if !ht.Shared() {
		t.Error("opened texture should report Shared")
	}
}

func TestOpenSharedSurfaceErrors(t *testing.T) {
	dev := NewDevice()
	s, _ := dev.CreateSharedSurface(4, 4, gputypes.TextureFormatBGRA8Unorm)

	tests := []struct {
		name string
		h    surface.Handle
		want error
	}{
		{"zero id", surface.Handle{Width: 4, Height: 4}, surface.ErrInvalidHandle},
		{"unknown", surface.Handle{ID: 999, Width: 4, Height: 4}, device.ErrSurfaceNotFound},
		{"wrong size", surface.Handle{ID: s.Handle().ID, Width: 8, Height: 4}, device.ErrSizeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := dev.OpenSharedSurface(tt.h); !errors.Is(err, tt.want) {
				t.Errorf("OpenSharedSurface() error = %v, want %v", err, tt.want)
			}
		})
	}

	s.Destroy()
	if _, err := dev.OpenSharedSurface(s.Handle()); !errors.Is(err, device.ErrSurfaceNotFound) {
		t.Errorf("open after Destroy error = %v, want ErrSurfaceNotFound", err)
	}
}

func TestCopyCarriesStamp(t *testing.T) {
	dev := NewDevice()
	ctx := NewContext(dev)
	s, _ := dev.CreateSharedSurface(2, 1, gputypes.TextureFormatRGBA8Unorm)
	_ = s.Write(42, []byte{1, 2, 3, 4, 5, 6, 7, 8})

	src, _ := dev.OpenSharedSurface(s.Handle())
	dst, err := dev.CreateTexture(device.TextureDescriptor{Width: 2, Height: 1, Format: gputypes.TextureFormatRGBA8Unorm}, nil)
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}

	if err := ctx.Copy(dst, src); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if got := dst.(*Texture).Stamp(); got != 42 {
		t.Errorf("dst stamp = %d, want 42", got)
	}
	if got := dst.(*Texture).Pixels(); !bytes.Equal(got, []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("dst pixels = %v", got)
	}

	copies := Filter(dev.Commands(), CmdCopy)
	if len(copies) != 1 || copies[0].Stamp != 42 {
		t.Errorf("recorded copies = %v", copies)
	}
}

func TestCopyRejectsMismatchAndDestroyed(t *testing.T) {
	dev := NewDevice()
	ctx := NewContext(dev)
	a, _ := dev.CreateTexture(device.TextureDescriptor{Width: 2, Height: 2}, nil)
	b, _ := dev.CreateTexture(device.TextureDescriptor{Width: 4, Height: 2}, nil)

	if err := ctx.Copy(a, b); !errors.Is(err, device.ErrSizeMismatch) {
		t.Errorf("Copy(mismatch) error = %v, want ErrSizeMismatch", err)
	}

	b.Destroy()
	b.Destroy()
	if err := ctx.Copy(a, b); !errors.Is(err, device.ErrTextureDestroyed) {
		t.Errorf("Copy(destroyed) error = %v, want ErrTextureDestroyed", err)
	}
	if n := len(Filter(dev.Commands(), CmdDestroyTexture)); n != 1 {
		t.Errorf("DestroyTexture recorded %d times, want 1", n)
	}
}

func TestKeyedLockTimeout(t *testing.T) {
	dev := NewDevice()
	ctx := NewContext(dev)
	s, _ := dev.CreateSharedSurface(1, 1, gputypes.TextureFormatBGRA8Unorm)
	tex, _ := dev.OpenSharedSurface(s.Handle())

	s.SetKey(1)
	release := s.Hold()
	start := time.Now()
	if ctx.AcquireLock(tex, 1, 5*time.Millisecond) {
		t.Fatal("AcquireLock() succeeded while the producer holds the lock")
	}
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("AcquireLock() returned after %v, before the timeout", elapsed)
	}
	release()

	if !ctx.AcquireLock(tex, 1, 5*time.Millisecond) {
		t.Fatal("AcquireLock() failed on a free lock")
	}
	ctx.ReleaseLock(tex, 1)

	cmds := dev.Commands()
	if len(Filter(cmds, CmdLockTimeout)) != 1 || len(Filter(cmds, CmdAcquire)) != 1 {
		t.Errorf("commands = %v", cmds)
	}
}

func TestKeyedLockMatchesProducerKey(t *testing.T) {
	tests := []struct {
		name    string
		key     surface.SyncToken
		token   surface.SyncToken
		acquire bool
	}{
		{"default key", 0, 0, true},
		{"matching key", 1, 1, true},
		{"stale token", 1, 0, false},
		{"foreign token", 0, 7, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := NewDevice()
			ctx := NewContext(dev)
			s, _ := dev.CreateSharedSurface(1, 1, gputypes.TextureFormatBGRA8Unorm)
			s.SetKey(tt.key)
			if err := s.Write(1, nil); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			tex, _ := dev.OpenSharedSurface(s.Handle())

			if got := ctx.AcquireLock(tex, tt.token, 5*time.Millisecond); got != tt.acquire {
				t.Fatalf("AcquireLock(token %d) = %v, want %v", tt.token, got, tt.acquire)
			}
			if tt.acquire {
				ctx.ReleaseLock(tex, tt.token)
			} else {
				timeouts := Filter(dev.Commands(), CmdLockTimeout)
				if len(timeouts) != 1 || timeouts[0].Value != uint64(tt.token) {
					t.Errorf("lock timeouts = %v", timeouts)
				}
			}

			// A rejected token leaves the lock free for the producer.
			done := make(chan error, 1)
			go func() { done <- s.Write(2, nil) }()
			select {
			case err := <-done:
				if err != nil {
					t.Errorf("Write() after AcquireLock error = %v", err)
				}
			case <-time.After(time.Second):
				t.Fatal("Write() blocked on the keyed mutex")
			}
		})
	}
}

func TestPrivateTexturesAlwaysLock(t *testing.T) {
	dev := NewDevice()
	ctx := NewContext(dev)
	tex, _ := dev.CreateTexture(device.TextureDescriptor{Width: 1, Height: 1}, nil)
	if !ctx.AcquireLock(tex, 0, 0) {
		t.Error("AcquireLock() on a private texture should succeed")
	}
}

func TestInjectFault(t *testing.T) {
	dev := NewDevice()
	boom := errors.New("boom")
	dev.InjectFault(CmdCreateTexture, boom)

	desc := device.TextureDescriptor{Width: 1, Height: 1}
	if _, err := dev.CreateTexture(desc, nil); !errors.Is(err, boom) {
		t.Errorf("first CreateTexture() error = %v, want boom", err)
	}
	if _, err := dev.CreateTexture(desc, nil); err != nil {
		t.Errorf("second CreateTexture() error = %v, want nil", err)
	}
}

func TestTargetFrames(t *testing.T) {
	b, err := Open(device.Options{Width: 100, Height: 50})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if b.Out.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("default format = %v, want BGRA8Unorm", b.Out.Format())
	}

	tex, _ := b.Dev.CreateTexture(device.TextureDescriptor{Width: 1, Height: 1}, nil)
	geo, _ := b.Dev.CreateQuad(device.Quad{Width: 1, Height: 1})
	desc, err := device.DefaultEffect()
	if err != nil {
		t.Fatalf("DefaultEffect() error = %v", err)
	}
	eff, err := b.Dev.CreateEffect(desc)
	if err != nil {
		t.Fatalf("CreateEffect() error = %v", err)
	}

	b.Out.Bind(b.Ctx)
	b.Out.Clear(0, 0, 0, 1)
	if err := b.Ctx.Draw(geo, eff, tex); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if err := b.Out.Present(1); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	frame := b.Out.LastFrame()
	if len(frame) != 1 || frame[0].Texture != tex.(*Texture).ID() {
		t.Errorf("LastFrame() = %v", frame)
	}

	b.Out.Clear(0, 0, 0, 1)
	_ = b.Out.Present(0)
	if len(b.Out.LastFrame()) != 0 {
		t.Error("empty frame should have no draws")
	}
	if b.Out.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", b.Out.Frames())
	}
}

func TestRegisteredBackend(t *testing.T) {
	b, err := device.Open(Name, device.Options{Width: 8, Height: 8})
	if err != nil {
		t.Fatalf("device.Open(%q) error = %v", Name, err)
	}
	defer b.Close()
	if b.Target().Width() != 8 {
		t.Errorf("target width = %d, want 8", b.Target().Width())
	}
}

func TestLiveTextures(t *testing.T) {
	dev := NewDevice()
	s, _ := dev.CreateSharedSurface(1, 1, gputypes.TextureFormatBGRA8Unorm)
	tex, _ := dev.OpenSharedSurface(s.Handle())
	if n := dev.LiveTextures(); n != 2 {
		t.Fatalf("LiveTextures() = %d, want 2", n)
	}
	tex.Destroy()
	s.Destroy()
	if n := dev.LiveTextures(); n != 0 {
		t.Errorf("LiveTextures() = %d, want 0", n)
	}
}
