package device

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
)

//go:embed shaders/quad.wgsl
var quadShaderSource string

// EffectDescriptor describes a shader effect for drawing textured quads.
type EffectDescriptor struct {
	// Label is an optional debug label.
	Label string

	// SPIRV is the compiled shader module holding both entry points.
	SPIRV []uint32

	// VertexEntry and FragmentEntry name the shader entry points.
	VertexEntry   string
	FragmentEntry string

	// Blend is the color blend state of the effect.
	Blend gputypes.BlendState

	// Filter is the sampler filter used for minification and magnification.
	Filter gputypes.FilterMode
}

var (
	defaultEffectOnce sync.Once
	defaultEffect     EffectDescriptor
	defaultEffectErr  error
)

// DefaultEffect returns the descriptor of the default quad effect: the
// embedded WGSL shader compiled to SPIR-V, premultiplied alpha blending and
// linear filtering. The shader is compiled once per process.
func DefaultEffect() (EffectDescriptor, error) {
	defaultEffectOnce.Do(func() {
		code, err := CompileWGSL(quadShaderSource)
		if err != nil {
			defaultEffectErr = fmt.Errorf("device: default effect: %w", err)
			return
		}
		defaultEffect = EffectDescriptor{
			Label:         "mixer-quad",
			SPIRV:         code,
			VertexEntry:   "vs_main",
			FragmentEntry: "fs_main",
			Blend:         gputypes.BlendStatePremultiplied(),
			Filter:        gputypes.FilterModeLinear,
		}
	})
	return defaultEffect, defaultEffectErr
}

// QuadShaderSource returns the WGSL source of the default quad effect.
func QuadShaderSource() string {
	return quadShaderSource
}

// CompileWGSL compiles WGSL source to SPIR-V words.
func CompileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}
