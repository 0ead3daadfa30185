package nn

import (
	"testing"

	"github.com/texel-ml/texel/internal/tensor"
)

// TestPaddedShape tests output shape computation for both formats.
func TestPaddedShape(t *testing.T) {
	pads := PadSpec{{1, 0}, {0, 1}, {2, 2}}

	tests := []struct {
		format DataFormat
		in     tensor.Shape
		want   tensor.Shape
	}{
		{ChannelsLast, tensor.Shape{2, 2, 2, 1}, tensor.Shape{3, 3, 6, 1}},
		{ChannelsLast, tensor.Shape{4, 5, 6, 3}, tensor.Shape{5, 6, 10, 3}},
		{ChannelsFirst, tensor.Shape{1, 2, 2, 2}, tensor.Shape{1, 3, 3, 6}},
		{ChannelsFirst, tensor.Shape{3, 4, 5, 6}, tensor.Shape{3, 5, 6, 10}},
	}
	for _, tt := range tests {
		got := paddedShape(tt.in, pads, tt.format)
		if !got.Equal(tt.want) {
			t.Errorf("paddedShape(%v, %s) = %v, want %v", tt.in, tt.format, got, tt.want)
		}
	}
}

// TestPadShifts tests the copy-region origin per buffer axis.
func TestPadShifts(t *testing.T) {
	pads := PadSpec{{1, 9}, {2, 9}, {3, 9}}

	if got := padShifts(pads, ChannelsLast); got != [4]int{1, 2, 3, 0} {
		t.Errorf("channels_last shifts = %v, want [1 2 3 0]", got)
	}
	if got := padShifts(pads, ChannelsFirst); got != [4]int{0, 1, 2, 3} {
		t.Errorf("channels_first shifts = %v, want [0 1 2 3]", got)
	}
}

// checkIndexMap verifies the sentinel/offset structure of a built map:
// every copy-region element holds the next offset-table entry in input
// element order, everything else holds -1.
func checkIndexMap(t *testing.T, in tensor.Shape, pads PadSpec, format DataFormat, layout tensor.TextureLayout) {
	t.Helper()

	offsets := tensor.EncodeOffsets(in, layout)
	im := buildIndexMap(in, pads, format, offsets)

	out := paddedShape(in, pads, format)
	if !im.Shape().Equal(out) {
		t.Fatalf("index map shape = %v, want %v", im.Shape(), out)
	}

	shift := padShifts(pads, format)
	table := im.AsInt32()
	os := out.ComputeStrides()

	inRegion := func(o0, o1, o2, o3 int) bool {
		return o0 >= shift[0] && o0 < shift[0]+in[0] &&
			o1 >= shift[1] && o1 < shift[1]+in[1] &&
			o2 >= shift[2] && o2 < shift[2]+in[2] &&
			o3 >= shift[3] && o3 < shift[3]+in[3]
	}

	src := 0
	sentinels := 0
	for o0 := 0; o0 < out[0]; o0++ {
		for o1 := 0; o1 < out[1]; o1++ {
			for o2 := 0; o2 < out[2]; o2++ {
				for o3 := 0; o3 < out[3]; o3++ {
					got := table[o0*os[0]+o1*os[1]+o2*os[2]+o3]
					if !inRegion(o0, o1, o2, o3) {
						sentinels++
						if got != -1 {
							t.Fatalf("padded element (%d,%d,%d,%d) = %d, want -1", o0, o1, o2, o3, got)
						}
						continue
					}
					// The walk above visits the copy region in the
					// input's element order, so offsets apply in order.
					if got != offsets[src] {
						t.Fatalf("copy element (%d,%d,%d,%d) = %d, want offset %d", o0, o1, o2, o3, got, offsets[src])
					}
					src++
				}
			}
		}
	}

	if wantSentinels := out.NumElements() - in.NumElements(); sentinels != wantSentinels {
		t.Errorf("sentinel count = %d, want %d", sentinels, wantSentinels)
	}
	if src != in.NumElements() {
		t.Errorf("embedded offsets = %d, want %d", src, in.NumElements())
	}
}

// TestBuildIndexMap tests map structure across formats and layouts.
func TestBuildIndexMap(t *testing.T) {
	pads := PadSpec{{1, 0}, {0, 1}, {2, 0}}

	for _, format := range []DataFormat{ChannelsLast, ChannelsFirst} {
		for _, layout := range []tensor.TextureLayout{tensor.LayoutLinear, tensor.LayoutSquare} {
			checkIndexMap(t, tensor.Shape{2, 3, 4, 2}, pads, format, layout)
		}
	}
}

// TestBuildIndexMap_NoPadding tests that a zero spec embeds the whole
// offset table with no sentinels.
func TestBuildIndexMap_NoPadding(t *testing.T) {
	in := tensor.Shape{2, 2, 2, 1}
	offsets := tensor.EncodeOffsets(in, tensor.LayoutLinear)
	im := buildIndexMap(in, PadSpec{}, ChannelsLast, offsets)

	table := im.AsInt32()
	for i, v := range table {
		if v != int32(i) {
			t.Errorf("element %d = %d, want %d", i, v, i)
		}
	}
}

// TestBuildIndexMap_Concrete pins the map for the [2,2,2,1] input with
// padding [[1,0],[0,1],[0,0]]: output [3,3,2,1], slab 0 all sentinel,
// slabs 1-2 carrying rows of offsets with a trailing sentinel row.
func TestBuildIndexMap_Concrete(t *testing.T) {
	in := tensor.Shape{2, 2, 2, 1}
	pads := PadSpec{{1, 0}, {0, 1}, {0, 0}}

	im := buildIndexMap(in, pads, ChannelsLast, tensor.EncodeOffsets(in, tensor.LayoutLinear))

	want := []int32{
		// slab 0: padded out
		-1, -1, -1, -1, -1, -1,
		// slab 1: input slab 0 rows, then the padded row on axis 1
		0, 1, 2, 3, -1, -1,
		// slab 2: input slab 1 rows, then the padded row on axis 1
		4, 5, 6, 7, -1, -1,
	}
	got := im.AsInt32()
	if len(got) != len(want) {
		t.Fatalf("map has %d elements, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %d, want %d", i, got[i], want[i])
		}
	}
}
