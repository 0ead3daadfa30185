package tensor

import (
	"fmt"
	"math"
)

// TextureLayout selects how a tensor's buffer is linearized into a 2D
// texture grid for GPU storage.
type TextureLayout int

// Supported texture layouts.
const (
	// LayoutLinear keeps the row-major buffer as a [n/last, last] grid:
	// one grid row per trailing-axis slice.
	LayoutLinear TextureLayout = iota
	// LayoutSquare tiles the row-major buffer into the smallest square
	// grid that fits it, zero-filling the tail. Keeps both texture
	// dimensions small for large tensors.
	LayoutSquare
)

// String returns a human-readable layout name.
func (l TextureLayout) String() string {
	switch l {
	case LayoutLinear:
		return "linear"
	case LayoutSquare:
		return "square"
	default:
		return "unknown"
	}
}

// TextureGeometry returns the 2D grid dimensions the given layout produces
// for a tensor of the given shape.
func TextureGeometry(shape Shape, layout TextureLayout) (rows, cols int) {
	n := shape.NumElements()
	switch layout {
	case LayoutSquare:
		side := int(math.Ceil(math.Sqrt(float64(n))))
		return side, side
	default:
		last := shape[len(shape)-1]
		return n / last, last
	}
}

// EncodeOffsets returns the offset table the encoder would produce for a
// tensor of the given shape under the layout, without touching any data:
// entry i is the linear texel position of source element i. Both current
// layouts place elements in row-major order, so the table is the
// identity sequence.
func EncodeOffsets(shape Shape, layout TextureLayout) []int32 {
	offsets := make([]int32, shape.NumElements())
	for i := range offsets {
		offsets[i] = int32(i) //nolint:gosec // G115: element counts fit int32
	}
	return offsets
}

// Texture is a 2D encoding of a tensor's buffer, ready for GPU upload.
// Both layouts flatten in row-major element order, so the offset table
// (for each source element, its linear texel position in the grid) is
// the identity sequence; it is still materialized and consumed through
// Offsets so that encodings with non-trivial placement stay possible.
type Texture struct {
	Layout TextureLayout
	Rows   int
	Cols   int
	Source Shape   // logical shape this encoding was derived from
	Data   *Tensor // 2D [Rows, Cols] host tensor, tail zero-filled

	offsets []int32
}

// Encode2D linearizes the tensor into a [n/last, last] grid (LayoutLinear).
func (t *Tensor) Encode2D() (*Texture, error) {
	return t.encode(LayoutLinear)
}

// Encode2DSquare linearizes the tensor into a square grid (LayoutSquare).
func (t *Tensor) Encode2DSquare() (*Texture, error) {
	return t.encode(LayoutSquare)
}

// EncodeTexture linearizes the tensor with the given layout.
func (t *Tensor) EncodeTexture(layout TextureLayout) (*Texture, error) {
	return t.encode(layout)
}

func (t *Tensor) encode(layout TextureLayout) (*Texture, error) {
	if len(t.shape) == 0 {
		return nil, fmt.Errorf("cannot encode a scalar as a 2D texture")
	}

	rows, cols := TextureGeometry(t.shape, layout)
	grid, err := New(Shape{rows, cols}, t.dtype)
	if err != nil {
		return nil, fmt.Errorf("texture grid: %w", err)
	}
	copy(grid.Data(), t.Data()) // tail beyond the source stays zero

	return &Texture{
		Layout:  layout,
		Rows:    rows,
		Cols:    cols,
		Source:  t.shape.Clone(),
		Data:    grid,
		offsets: EncodeOffsets(t.shape, layout),
	}, nil
}

// Offsets returns the per-element linear texel offsets produced during
// encoding: entry i is where source element i landed in the grid.
func (tx *Texture) Offsets() []int32 {
	return tx.offsets
}

// Texels returns the total texel count of the grid.
func (tx *Texture) Texels() int {
	return tx.Rows * tx.Cols
}

// Decode reconstructs a tensor of the source shape from the grid,
// truncating the zero tail.
func (tx *Texture) Decode() (*Tensor, error) {
	out, err := New(tx.Source, tx.Data.DType())
	if err != nil {
		return nil, fmt.Errorf("texture decode: %w", err)
	}
	copy(out.Data(), tx.Data.Data())
	return out, nil
}
