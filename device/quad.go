package device

// Quad describes a textured rectangle in normalized canvas coordinates:
// (0, 0) is the top-left corner of the canvas and (1, 1) the bottom-right.
type Quad struct {
	X, Y          float32
	Width, Height float32

	// Flip samples the texture upside down. Producers that render with a
	// bottom-left origin need it.
	Flip bool
}

// Vertex is one corner of a quad in clip space with its texture coordinate.
type Vertex struct {
	X, Y, Z float32
	U, V    float32
}

// Vertices returns the four corners of q as a triangle strip: top-left,
// top-right, bottom-left, bottom-right.
//
// Normalized space maps to clip space with x' = 2x-1 and y' = 1-2y, so the
// canvas top-left lands on (-1, 1).
func (q Quad) Vertices() [4]Vertex {
	x := q.X*2 - 1
	y := 1 - q.Y*2
	w := q.Width * 2
	h := q.Height * 2
	const z = 1

	v := [4]Vertex{
		{X: x, Y: y, Z: z, U: 0, V: 0},
		{X: x + w, Y: y, Z: z, U: 1, V: 0},
		{X: x, Y: y - h, Z: z, U: 0, V: 1},
		{X: x + w, Y: y - h, Z: z, U: 1, V: 1},
	}

	if q.Flip {
		v[0].U, v[0].V, v[2].U, v[2].V = v[2].U, v[2].V, v[0].U, v[0].V
		v[1].U, v[1].V, v[3].U, v[3].V = v[3].U, v[3].V, v[1].U, v[1].V
	}
	return v
}
