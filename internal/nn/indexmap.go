package nn

import (
	"github.com/texel-ml/texel/internal/tensor"
)

// padShifts maps the canonical (before) amounts onto buffer axes for the
// given format. The channel axis never shifts.
func padShifts(pads PadSpec, format DataFormat) [4]int {
	if format == ChannelsFirst {
		return [4]int{0, pads[0][0], pads[1][0], pads[2][0]}
	}
	return [4]int{pads[0][0], pads[1][0], pads[2][0], 0}
}

// paddedShape grows each spatial axis of a rank-4 shape by its
// before+after amounts; the channel axis is untouched.
func paddedShape(in tensor.Shape, pads PadSpec, format DataFormat) tensor.Shape {
	out := in.Clone()
	if format == ChannelsFirst {
		out[1] += pads.Total(0)
		out[2] += pads.Total(1)
		out[3] += pads.Total(2)
	} else {
		out[0] += pads.Total(0)
		out[1] += pads.Total(1)
		out[2] += pads.Total(2)
	}
	return out
}

// buildIndexMap constructs the output-to-input lookup table the remap
// program reads: an Int32 tensor of the padded output shape where every
// padded-out element holds the sentinel -1 and every copy-region element
// holds the input's texel offset from the encoder's offset table, walked
// in the input's logical element order.
func buildIndexMap(in tensor.Shape, pads PadSpec, format DataFormat, offsets []int32) *tensor.Tensor {
	out := paddedShape(in, pads, format)
	im := tensor.Full(out, int32(-1))
	table := im.AsInt32()

	shift := padShifts(pads, format)
	os := out.ComputeStrides()

	// The innermost stride is 1, so the last buffer axis is walked by
	// incrementing base directly.
	src := 0
	for i := 0; i < in[0]; i++ {
		for j := 0; j < in[1]; j++ {
			for k := 0; k < in[2]; k++ {
				base := (i+shift[0])*os[0] + (j+shift[1])*os[1] + (k+shift[2])*os[2] + shift[3]
				for l := 0; l < in[3]; l++ {
					table[base+l] = offsets[src]
					src++
				}
			}
		}
	}
	return im
}
