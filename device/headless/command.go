// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import (
	"fmt"

	"github.com/gogpu/mixer/device"
)

// CommandType identifies a recorded GPU command.
type CommandType uint8

const (
	// Resource commands
	CmdOpenShared     CommandType = iota // Open a shared surface
	CmdCreateTexture                     // Create a private texture
	CmdCreateQuad                        // Create quad geometry
	CmdCreateEffect                      // Create a shader effect
	CmdDestroyTexture                    // Destroy a texture

	// Context commands
	CmdAcquire     // Keyed mutex acquired
	CmdLockTimeout // Keyed mutex acquisition timed out
	CmdRelease     // Keyed mutex released
	CmdCopy        // Texture copy
	CmdDraw        // Textured quad draw

	// Target commands
	CmdBind    // Target bound to a context
	CmdClear   // Target cleared
	CmdPresent // Frame presented
	CmdResize  // Target resized
)

var commandTypeNames = [...]string{
	CmdOpenShared:     "OpenShared",
	CmdCreateTexture:  "CreateTexture",
	CmdCreateQuad:     "CreateQuad",
	CmdCreateEffect:   "CreateEffect",
	CmdDestroyTexture: "DestroyTexture",
	CmdAcquire:        "Acquire",
	CmdLockTimeout:    "LockTimeout",
	CmdRelease:        "Release",
	CmdCopy:           "Copy",
	CmdDraw:           "Draw",
	CmdBind:           "Bind",
	CmdClear:          "Clear",
	CmdPresent:        "Present",
	CmdResize:         "Resize",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is one recorded operation. Fields that do not apply to the
// command type are zero.
type Command struct {
	Type CommandType

	// Texture is the ID of the texture operated on: the destination of a
	// copy, the sampled texture of a draw.
	Texture uint64

	// Source is the ID of the copy source.
	Source uint64

	// Stamp is the content stamp involved: the copied stamp for Copy, the
	// drawn stamp for Draw.
	Stamp uint64

	// Quad is the drawn quad.
	Quad device.Quad

	// Value carries the sync token of lock commands, the sync interval of
	// Present, and the packed size of Resize.
	Value uint64
}

// String returns a compact description for test failures.
func (c Command) String() string {
	switch c.Type {
	case CmdCopy:
		return fmt.Sprintf("Copy(%d<-%d stamp=%d)", c.Texture, c.Source, c.Stamp)
	case CmdDraw:
		return fmt.Sprintf("Draw(%d stamp=%d at %.3g,%.3g %.3gx%.3g)",
			c.Texture, c.Stamp, c.Quad.X, c.Quad.Y, c.Quad.Width, c.Quad.Height)
	default:
		return fmt.Sprintf("%s(%d)", c.Type, c.Texture)
	}
}

// Filter returns the commands of type t, in recording order.
func Filter(cmds []Command, t CommandType) []Command {
	var out []Command
	for _, c := range cmds {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}
