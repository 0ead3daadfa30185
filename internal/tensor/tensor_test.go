package tensor

import (
	"testing"

	"github.com/x448/float16"
)

func TestNewZeroInitialized(t *testing.T) {
	tr, err := New(Shape{2, 3}, Float32)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for i, v := range tr.AsFloat32() {
		if v != 0 {
			t.Errorf("element %d = %f, want 0", i, v)
		}
	}
}

func TestNewRejectsInvalidShape(t *testing.T) {
	if _, err := New(Shape{2, 0}, Float32); err == nil {
		t.Error("New accepted a zero dimension")
	}
}

func TestFromSlice(t *testing.T) {
	tr, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	if tr.DType() != Float32 {
		t.Errorf("dtype = %s, want float32", tr.DType())
	}
	data := tr.AsFloat32()
	for i, want := range []float32{1, 2, 3, 4, 5, 6} {
		if data[i] != want {
			t.Errorf("element %d = %f, want %f", i, data[i], want)
		}
	}
}

func TestFromSliceLengthMismatch(t *testing.T) {
	if _, err := FromSlice([]int32{1, 2, 3}, Shape{2, 2}); err == nil {
		t.Error("FromSlice accepted mismatched element count")
	}
}

func TestTypedAccessorsZeroCopy(t *testing.T) {
	tr, _ := New(Shape{4}, Int32)
	tr.AsInt32()[2] = 42

	if tr.AsInt32()[2] != 42 {
		t.Error("AsInt32 should return a zero-copy view")
	}
}

func TestAccessorDTypeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("AsFloat32 on an int32 tensor should panic")
		}
	}()
	tr, _ := New(Shape{2}, Int32)
	tr.AsFloat32()
}

func TestFloat16Accessor(t *testing.T) {
	tr, err := FromSlice([]float16.Float16{
		float16.Fromfloat32(0.5),
		float16.Fromfloat32(1.5),
	}, Shape{2})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	if tr.DType() != Float16 {
		t.Errorf("dtype = %s, want float16", tr.DType())
	}
	if got := tr.AsFloat16()[1].Float32(); got != 1.5 {
		t.Errorf("element 1 = %f, want 1.5", got)
	}
	if tr.ByteSize() != 4 {
		t.Errorf("ByteSize = %d, want 4", tr.ByteSize())
	}
}

func TestCloneIsDeep(t *testing.T) {
	a, _ := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2})
	b := a.Clone()
	b.AsFloat32()[0] = 99

	if a.AsFloat32()[0] != 1 {
		t.Error("Clone should not share the buffer")
	}
	if !a.Shape().Equal(b.Shape()) {
		t.Error("Clone should preserve the shape")
	}
}

func TestOnesAndFull(t *testing.T) {
	ones := Ones[float32](Shape{2, 2})
	for i, v := range ones.AsFloat32() {
		if v != 1 {
			t.Errorf("Ones element %d = %f, want 1", i, v)
		}
	}

	full := Full(Shape{3}, int64(-7))
	for i, v := range full.AsInt64() {
		if v != -7 {
			t.Errorf("Full element %d = %d, want -7", i, v)
		}
	}
}

func TestRandRange(t *testing.T) {
	tr := Rand[float64](Shape{100})
	for i, v := range tr.AsFloat64() {
		if v < 0 || v >= 1 {
			t.Errorf("Rand element %d = %f, want in [0, 1)", i, v)
		}
	}
}

func TestTensorString(t *testing.T) {
	tr, _ := New(Shape{2, 2, 2, 1}, Float32)
	want := "Tensor[float32][2 2 2 1] on CPU"
	if got := tr.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDataTypeSizes(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
		name  string
	}{
		{Float32, 4, "float32"},
		{Float64, 8, "float64"},
		{Float16, 2, "float16"},
		{Int32, 4, "int32"},
		{Int64, 8, "int64"},
		{Uint8, 1, "uint8"},
		{Bool, 1, "bool"},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s Size() = %d, want %d", tt.name, got, tt.size)
		}
		if got := tt.dtype.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
	}
}
