package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/texel-ml/texel/backend/webgpu"
	"github.com/texel-ml/texel/nn"
	"github.com/texel-ml/texel/tensor"
)

func newBenchCmd() *cobra.Command {
	var (
		shapeStr string
		padBy    int
		runs     int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the padding strategies against each other",
		RunE: func(_ *cobra.Command, _ []string) error {
			if runs < 1 {
				return fmt.Errorf("--runs must be at least 1")
			}
			if padBy < 0 {
				return fmt.Errorf("--pad must be non-negative")
			}
			shape, err := parseShape(shapeStr)
			if err != nil {
				return err
			}

			x := tensor.Rand[float32](shape)
			spec := nn.PadUniform(padBy)

			host, err := nn.NewZeroPadding3D(nn.ZeroPadding3DConfig{Padding: spec})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "input %v (%s), pad %d per side, %d runs\n",
				[]int(shape), humanize.Bytes(uint64(x.ByteSize())), padBy, runs) //nolint:gosec // G115: sizes are positive
			_, _ = fmt.Fprintf(os.Stdout, "output %v (%s)\n",
				[]int(host.OutputShape(shape)), humanize.Bytes(uint64(host.OutputShape(shape).NumElements()*4))) //nolint:gosec // G115

			// Snapshot the reference: the layer reuses its output
			// buffer across the timed runs below.
			want := host.Apply(x.Clone()).Clone()
			cpuPer := timeApplies(host, x.Clone(), runs)
			_, _ = fmt.Fprintf(os.Stdout, "memory: %v per run\n", cpuPer)

			if !webgpu.IsAvailable() {
				_, _ = fmt.Fprintln(os.Stdout, "webgpu: not available")
				return nil
			}

			eng, err := webgpu.New()
			if err != nil {
				return err
			}
			defer eng.Release()

			gpu, err := nn.NewZeroPadding3D(nn.ZeroPadding3DConfig{
				Padding:     spec,
				Engine:      eng,
				Materialize: true,
			})
			if err != nil {
				return err
			}
			defer gpu.Release()

			// Warm up once so upload, plan build, and compilation stay
			// out of the timed loop.
			got := gpu.Apply(x)
			gpuPer := timeApplies(gpu, x, runs)
			_, _ = fmt.Fprintf(os.Stdout, "webgpu: %v per run (%s)\n", gpuPer, eng.Name())

			wantData, gotData := want.AsFloat32(), got.AsFloat32()
			for i := range wantData {
				if gotData[i] != wantData[i] {
					return fmt.Errorf("parity check failed at element %d: %g != %g", i, gotData[i], wantData[i])
				}
			}
			_, _ = fmt.Fprintln(os.Stdout, "parity: ok")

			return nil
		},
	}

	cmd.Flags().StringVar(&shapeStr, "shape", "8,32,32,16", "input shape as s0,s1,s2,c")
	cmd.Flags().IntVar(&padBy, "pad", 1, "uniform padding amount per side")
	cmd.Flags().IntVar(&runs, "runs", 10, "timed runs per strategy")

	return cmd
}

// parseShape parses a comma-separated rank-4 shape.
func parseShape(s string) (tensor.Shape, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("shape must have 4 comma-separated dims, got %q", s)
	}

	shape := make(tensor.Shape, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid shape dim %q", p)
		}
		shape[i] = n
	}
	return shape, nil
}

// timeApplies returns the mean wall time of runs applications.
func timeApplies(layer nn.Layer, x *tensor.Tensor, runs int) time.Duration {
	start := time.Now()
	for i := 0; i < runs; i++ {
		layer.Apply(x)
	}
	return time.Since(start) / time.Duration(runs)
}
