package tensor

import "testing"

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  int
	}{
		{"scalar", Shape{}, 1},
		{"vector", Shape{7}, 7},
		{"matrix", Shape{3, 4}, 12},
		{"rank4", Shape{2, 3, 4, 5}, 120},
		{"unit dims", Shape{1, 1, 1, 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.NumElements(); got != tt.want {
				t.Errorf("NumElements() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, 3, 4, 5}).Validate(); err != nil {
		t.Errorf("valid shape rejected: %v", err)
	}
	if err := (Shape{2, 0, 4}).Validate(); err == nil {
		t.Error("zero dimension accepted")
	}
	if err := (Shape{-1, 3}).Validate(); err == nil {
		t.Error("negative dimension accepted")
	}
}

func TestShapeEqual(t *testing.T) {
	a := Shape{2, 3, 4, 1}
	if !a.Equal(Shape{2, 3, 4, 1}) {
		t.Error("identical shapes reported unequal")
	}
	if a.Equal(Shape{2, 3, 4}) {
		t.Error("shapes of different rank reported equal")
	}
	if a.Equal(Shape{2, 3, 4, 2}) {
		t.Error("shapes with different dims reported equal")
	}
}

func TestShapeClone(t *testing.T) {
	a := Shape{2, 3}
	b := a.Clone()
	b[0] = 99

	if a[0] != 2 {
		t.Error("Clone should not share backing storage")
	}
}

func TestShapeComputeStrides(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  []int
	}{
		{"matrix", Shape{3, 4}, []int{4, 1}},
		{"rank4", Shape{2, 3, 4, 5}, []int{60, 20, 5, 1}},
		{"vector", Shape{6}, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.shape.ComputeStrides()
			if len(got) != len(tt.want) {
				t.Fatalf("ComputeStrides() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("stride[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}
