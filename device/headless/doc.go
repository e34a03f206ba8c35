// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package headless provides a device backend that keeps textures in host
// memory and records every GPU command it receives.
//
// The backend is used by tests and by the mixer command when no hardware
// backend is registered. Producers create shared surfaces on the same
// Device the compositor opens them from, which makes the whole hand-off
// path observable:
//
//	b, _ := headless.Open(device.Options{Width: 1280, Height: 720})
//	s, _ := b.Dev.CreateSharedSurface(640, 360, gputypes.TextureFormatBGRA8Unorm)
//	s.Write(1, nil)
//	tex, _ := b.Dev.OpenSharedSurface(s.Handle())
//
// Every texture carries a stamp, the number of the frame whose content it
// holds. Copies carry the stamp along with the pixels, so a draw command
// records exactly which producer frame reached the screen.
//
// The backend registers itself as "headless" with priority 10.
package headless
