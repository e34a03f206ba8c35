package web

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gogpu/mixer/composition"
)

// Stats are the composition statistics pushed to pages that asked for
// them, for a HUD overlay for instance.
type Stats struct {
	Width  int     `msgpack:"width"`
	Height int     `msgpack:"height"`
	FPS    float64 `msgpack:"fps"`
	Time   float64 `msgpack:"time"`
	Vsync  bool    `msgpack:"vsync"`
}

// StatsOf snapshots the statistics of c.
func StatsOf(c *composition.Composition) Stats {
	return Stats{
		Width:  c.Width(),
		Height: c.Height(),
		FPS:    c.FPS(),
		Time:   c.Time(),
		Vsync:  c.Vsync(),
	}
}

// Encode returns the msgpack encoding of s.
func (s Stats) Encode() ([]byte, error) {
	b, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("web: encode stats: %w", err)
	}
	return b, nil
}

// DecodeStats parses a payload produced by Stats.Encode.
func DecodeStats(payload []byte) (Stats, error) {
	var s Stats
	if err := msgpack.Unmarshal(payload, &s); err != nil {
		return Stats{}, fmt.Errorf("web: decode stats: %w", err)
	}
	return s, nil
}
