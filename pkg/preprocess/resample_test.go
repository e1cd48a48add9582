package preprocess

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"lesionprep/internal/models"
)

// makeTestPair builds a width x height RGB gradient image and a mask that is
// label inside the given square and 0 elsewhere.
func makeTestPair(width, height, squareX0, squareY0, squareSize int, label uint8) (image.Image, image.Image) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: uint8((x + y) * 255 / (width + height)),
				A: 255,
			})
		}
	}

	mask := image.NewGray(image.Rect(0, 0, width, height))
	for y := squareY0; y < squareY0+squareSize && y < height; y++ {
		for x := squareX0; x < squareX0+squareSize && x < width; x++ {
			mask.SetGray(x, y, color.Gray{Y: label})
		}
	}

	return img, mask
}

// maskValues collects the set of distinct values in a greyscale mask.
func maskValues(mask image.Image) map[uint8]bool {
	values := make(map[uint8]bool)
	bounds := mask.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(mask.At(x, y)).(color.Gray)
			values[g.Y] = true
		}
	}
	return values
}

// TestResamplerTargetResolution verifies that both halves of the sample come
// out at exactly the configured resolution
func TestResamplerTargetResolution(t *testing.T) {
	img, mask := makeTestPair(256, 192, 60, 40, 100, 1)
	resampler := NewResampler(128, 128)

	out, err := resampler.Apply(models.Sample{Image: img, Mask: mask})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if got := out.Image.Bounds(); got.Dx() != 128 || got.Dy() != 128 {
		t.Errorf("Expected image resolution 128x128, got %dx%d", got.Dy(), got.Dx())
	}
	if got := out.Mask.Bounds(); got.Dx() != 128 || got.Dy() != 128 {
		t.Errorf("Expected mask resolution 128x128, got %dx%d", got.Dy(), got.Dx())
	}
}

// TestResamplerMaskLabelPreservation verifies that nearest-neighbor
// resampling never invents mask values that were not present in the input
func TestResamplerMaskLabelPreservation(t *testing.T) {
	img, mask := makeTestPair(200, 200, 50, 50, 80, 7)
	resampler := NewResampler(64, 64)

	out, err := resampler.Apply(models.Sample{Image: img, Mask: mask})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	before := maskValues(mask)
	after := maskValues(out.Mask)
	for v := range after {
		if !before[v] {
			t.Errorf("Resampling introduced mask value %d not present in input", v)
		}
	}

	// Both labels should survive a downscale of a large centered square
	if !after[0] || !after[7] {
		t.Errorf("Expected labels {0, 7} to survive resampling, got %v", after)
	}
}

// TestResamplerForegroundScalesProportionally verifies that a centered
// square keeps its relative size through a 2x downscale
func TestResamplerForegroundScalesProportionally(t *testing.T) {
	img, mask := makeTestPair(256, 256, 78, 78, 100, 1)
	resampler := NewResampler(128, 128)

	out, err := resampler.Apply(models.Sample{Image: img, Mask: mask})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	foreground := 0
	bounds := out.Mask.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(out.Mask.At(x, y)).(color.Gray)
			if g.Y > 0 {
				foreground++
			}
		}
	}

	// A 100x100 square halved in each dimension should cover about 50x50
	// pixels; allow one pixel of boundary slack per edge.
	if foreground < 48*48 || foreground > 52*52 {
		t.Errorf("Expected roughly 2500 foreground pixels after 2x downscale, got %d", foreground)
	}
}

// TestResamplerInvalidGeometry verifies the error conditions: non-positive
// target resolution and mismatched input extents
func TestResamplerInvalidGeometry(t *testing.T) {
	img, mask := makeTestPair(64, 64, 10, 10, 20, 1)

	tests := []struct {
		name   string
		sample models.Sample
		height int
		width  int
	}{
		{
			name:   "zero target height",
			sample: models.Sample{Image: img, Mask: mask},
			height: 0,
			width:  128,
		},
		{
			name:   "negative target width",
			sample: models.Sample{Image: img, Mask: mask},
			height: 128,
			width:  -1,
		},
		{
			name: "mismatched extents",
			sample: models.Sample{
				Image: image.NewRGBA(image.Rect(0, 0, 64, 64)),
				Mask:  image.NewGray(image.Rect(0, 0, 32, 64)),
			},
			height: 128,
			width:  128,
		},
		{
			name:   "missing spatial pair",
			sample: models.Sample{},
			height: 128,
			width:  128,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resampler := NewResampler(tt.height, tt.width)
			_, err := resampler.Apply(tt.sample)
			var geomErr *InvalidGeometryError
			if !errors.As(err, &geomErr) {
				t.Errorf("Expected InvalidGeometryError, got %v", err)
			}
		})
	}
}
