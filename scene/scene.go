package scene

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/mixer/composition"
)

// Default canvas size.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// ErrNoLayerType is returned for a layer without a type.
var ErrNoLayerType = errors.New("scene: layer has no type")

// Scene is a composition description.
type Scene struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Layers []Layer `yaml:"layers"`
}

// Layer describes one layer of a scene.
type Layer struct {
	ID   string `yaml:"id,omitempty"`
	Type string `yaml:"type"`
	Src  string `yaml:"src"`

	Left   *float32 `yaml:"left,omitempty"`
	Top    *float32 `yaml:"top,omitempty"`
	Width  *float32 `yaml:"width,omitempty"`
	Height *float32 `yaml:"height,omitempty"`

	WantInput  bool `yaml:"want_input,omitempty"`
	ViewSource bool `yaml:"view_source,omitempty"`
}

// Bounds returns the normalized bounds of l with defaults applied.
func (l Layer) Bounds() composition.Rect {
	return composition.Rect{
		X:      value(l.Left, 0),
		Y:      value(l.Top, 0),
		Width:  value(l.Width, 1),
		Height: value(l.Height, 1),
	}
}

func value(p *float32, def float32) float32 {
	if p == nil {
		return def
	}
	return *p
}

// Parse decodes a YAML or JSON scene and applies defaults.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scene: parse: %w", err)
	}
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	for i, l := range s.Layers {
		if l.Type == "" {
			return nil, fmt.Errorf("scene: layer %d: %w", i, ErrNoLayerType)
		}
	}
	return &s, nil
}

// Load reads and parses the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return Parse(data)
}

// Marshal encodes s as YAML.
func (s *Scene) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("scene: marshal: %w", err)
	}
	return data, nil
}
