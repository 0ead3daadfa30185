package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/texel-ml/texel/backend/webgpu"
	"github.com/texel-ml/texel/nn"
	"github.com/texel-ml/texel/tensor"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check WebGPU availability and run a padding self-test",
		RunE: func(_ *cobra.Command, _ []string) error {
			if !webgpu.IsAvailable() {
				_, _ = fmt.Fprintln(os.Stdout, "webgpu: not available (in-memory strategy only)")
				_, _ = fmt.Fprintln(os.Stdout, "doctor checks passed")
				return nil
			}

			eng, err := webgpu.New()
			if err != nil {
				return fmt.Errorf("webgpu bring-up failed: %w", err)
			}
			defer eng.Release()

			_, _ = fmt.Fprintf(os.Stdout, "webgpu: %s\n", eng.Name())
			if info := eng.AdapterInfo(); info != nil {
				_, _ = fmt.Fprintf(os.Stdout, "adapter: %s\n", info.Device)
				_, _ = fmt.Fprintf(os.Stdout, "vendor:  %s\n", info.Vendor)
			}

			if err := padSelfTest(eng); err != nil {
				return fmt.Errorf("self-test failed: %w", err)
			}

			_, _ = fmt.Fprintln(os.Stdout, "doctor checks passed")
			return nil
		},
	}

	return cmd
}

// padSelfTest pads a small random tensor on both strategies and compares
// the results element for element.
func padSelfTest(eng *webgpu.Engine) error {
	gpu, err := nn.NewZeroPadding3D(nn.ZeroPadding3DConfig{
		Padding:     nn.DefaultPadding,
		Engine:      eng,
		Materialize: true,
	})
	if err != nil {
		return err
	}
	defer gpu.Release()

	host, err := nn.NewZeroPadding3D(nn.ZeroPadding3DConfig{Padding: nn.DefaultPadding})
	if err != nil {
		return err
	}

	x := tensor.Rand[float32](tensor.Shape{2, 3, 4, 3})
	want := host.Apply(x.Clone()).AsFloat32()
	got := gpu.Apply(x).AsFloat32()

	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("remap mismatch at element %d: %g != %g", i, got[i], want[i])
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "remap self-test: ok (%d elements)\n", len(want))
	return nil
}
