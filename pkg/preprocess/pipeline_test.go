package preprocess

import (
	"errors"
	"image"
	"testing"

	"lesionprep/internal/models"
)

// defaultTestPipeline builds a pipeline with the standard recipe: 128x128
// output, clip [-5, 5], rescale [0, 1].
func defaultTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	pipeline, err := NewPipeline(DefaultParams())
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	return pipeline
}

// TestPipelineEndToEnd runs the full recipe over a 256x256 RGB image with a
// centered 100x100 foreground square and checks every output invariant
func TestPipelineEndToEnd(t *testing.T) {
	img, mask := makeTestPair(256, 256, 78, 78, 100, 1)
	pipeline := defaultTestPipeline(t)

	out, err := pipeline.Apply(models.Sample{Image: img, Mask: mask})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// Shape invariance
	tensor, labels := out.Tensor, out.Labels
	if tensor == nil || labels == nil {
		t.Fatalf("Expected tensor-form output")
	}
	if tensor.Channels != 3 || tensor.Height != 128 || tensor.Width != 128 {
		t.Errorf("Expected image shape (3, 128, 128), got (%d, %d, %d)",
			tensor.Channels, tensor.Height, tensor.Width)
	}
	if labels.Height != 128 || labels.Width != 128 {
		t.Errorf("Expected mask shape (128, 128), got (%d, %d)", labels.Height, labels.Width)
	}

	// Mask stays binary {0, 1} and the square scales proportionally
	foreground := 0
	for _, v := range labels.Data {
		switch v {
		case 0:
		case 1:
			foreground++
		default:
			t.Fatalf("Expected binary mask values {0, 1}, found %f", v)
		}
	}
	if foreground < 48*48 || foreground > 52*52 {
		t.Errorf("Expected roughly 50x50 foreground pixels, got %d", foreground)
	}

	// Background-zero invariant and range bound, every channel
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			for ch := 0; ch < 3; ch++ {
				v := tensor.At(ch, y, x)
				if labels.At(y, x) == 0 && v != 0 {
					t.Fatalf("Expected exact 0 at background [%d,%d,%d], got %f", ch, y, x, v)
				}
				if v < 0 || v > 1 {
					t.Fatalf("Value %f at [%d,%d,%d] outside output range [0, 1]", v, ch, y, x)
				}
			}
		}
	}
}

// TestPipelineDeterminism verifies bit-identical output across two runs on
// the same input
func TestPipelineDeterminism(t *testing.T) {
	pipeline := defaultTestPipeline(t)

	run := func() models.Sample {
		img, mask := makeTestPair(256, 256, 78, 78, 100, 1)
		out, err := pipeline.Apply(models.Sample{Image: img, Mask: mask})
		if err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		return out
	}

	first := run()
	second := run()

	for i, v := range first.Tensor.Data {
		if second.Tensor.Data[i] != v {
			t.Fatalf("Tensor output differs between runs at index %d: %v != %v",
				i, v, second.Tensor.Data[i])
		}
	}
	for i, v := range first.Labels.Data {
		if second.Labels.Data[i] != v {
			t.Fatalf("Mask output differs between runs at index %d: %v != %v",
				i, v, second.Labels.Data[i])
		}
	}
}

// TestPipelineAllZeroMask verifies that an empty foreground aborts the
// sample with DegenerateStatisticsError and produces no output
func TestPipelineAllZeroMask(t *testing.T) {
	img, _ := makeTestPair(64, 64, 0, 0, 0, 0)
	mask := image.NewGray(image.Rect(0, 0, 64, 64))
	pipeline := defaultTestPipeline(t)

	out, err := pipeline.Apply(models.Sample{Image: img, Mask: mask})
	var statsErr *DegenerateStatisticsError
	if !errors.As(err, &statsErr) {
		t.Fatalf("Expected DegenerateStatisticsError, got %v", err)
	}
	if statsErr.ForegroundPixels != 0 {
		t.Errorf("Expected 0 foreground pixels in error, got %d", statsErr.ForegroundPixels)
	}
	if out.Tensor != nil || out.Labels != nil {
		t.Errorf("Expected no partial output for a rejected sample")
	}
}

// TestPipelineConfigurationValidation verifies eager rejection of malformed
// parameters at construction time
func TestPipelineConfigurationValidation(t *testing.T) {
	badClip := DefaultParams()
	badClip.ClipMin = 5
	badClip.ClipMax = -5
	if _, err := NewPipeline(badClip); err == nil {
		t.Errorf("Expected error for inverted clip range")
	} else {
		var rangeErr *InvalidRangeError
		if !errors.As(err, &rangeErr) {
			t.Errorf("Expected InvalidRangeError, got %v", err)
		}
	}

	badTarget := DefaultParams()
	badTarget.TargetHeight = 0
	if _, err := NewPipeline(badTarget); err == nil {
		t.Errorf("Expected error for zero target height")
	} else {
		var geomErr *InvalidGeometryError
		if !errors.As(err, &geomErr) {
			t.Errorf("Expected InvalidGeometryError, got %v", err)
		}
	}
}

// TestPipelineStageOrder verifies the fixed recipe order is held as an
// explicit stage list
func TestPipelineStageOrder(t *testing.T) {
	pipeline := defaultTestPipeline(t)

	expected := []string{"resample", "tensorize", "normalize", "clip-rescale"}
	stages := pipeline.Stages()
	if len(stages) != len(expected) {
		t.Fatalf("Expected %d stages, got %d", len(expected), len(stages))
	}
	for i, stage := range stages {
		if stage.Name() != expected[i] {
			t.Errorf("Expected stage %d to be %q, got %q", i, expected[i], stage.Name())
		}
	}
}
