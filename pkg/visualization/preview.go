// Package visualization renders preprocessed samples back to PNG files so
// the effect of the preprocessing recipe can be inspected by eye.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"lesionprep/internal/models"
)

// Previewer writes preview images for preprocessed samples. Image tensors
// are assumed to lie in [outMin, outMax] and are mapped linearly onto the
// 8-bit display range; mask labels are written as-is.
type Previewer struct {
	outputDir string
	outMin    float64
	outMax    float64
}

// NewPreviewer creates a previewer writing into outputDir.
func NewPreviewer(outputDir string, outMin, outMax float64) *Previewer {
	return &Previewer{
		outputDir: outputDir,
		outMin:    outMin,
		outMax:    outMax,
	}
}

// SaveSample writes <stem>_image.png and <stem>_mask.png for one
// preprocessed sample, where the stem is derived from the sample's dataset
// index. The output directory is created on first use.
func (p *Previewer) SaveSample(sample models.Sample) error {
	if sample.Tensor == nil || sample.Labels == nil {
		return fmt.Errorf("sample %d is not in tensor form", sample.Index)
	}

	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create preview directory: %w", err)
	}

	stem := fmt.Sprintf("sample_%04d", sample.Index)

	imagePath := filepath.Join(p.outputDir, stem+"_image.png")
	if err := writePNG(imagePath, p.renderTensor(sample.Tensor)); err != nil {
		return err
	}

	maskPath := filepath.Join(p.outputDir, stem+"_mask.png")
	return writePNG(maskPath, renderLabels(sample.Labels))
}

// renderTensor maps a (3, H, W) tensor in [outMin, outMax] to an RGBA image.
func (p *Previewer) renderTensor(t *models.Tensor) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	span := p.outMax - p.outMin
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: toByte((t.At(0, y, x) - p.outMin) / span),
				G: toByte((t.At(1, y, x) - p.outMin) / span),
				B: toByte((t.At(2, y, x) - p.outMin) / span),
				A: 255,
			})
		}
	}
	return img
}

// renderLabels writes the label plane as greyscale, clamped to 8 bits.
func renderLabels(labels *models.Plane) image.Image {
	img := image.NewGray(image.Rect(0, 0, labels.Width, labels.Height))
	for y := 0; y < labels.Height; y++ {
		for x := 0; x < labels.Width; x++ {
			img.SetGray(x, y, color.Gray{Y: toByte(labels.At(y, x) / 255.0)})
		}
	}
	return img
}

// toByte maps a nominally [0, 1] value to the 8-bit range, clamping overflow.
func toByte(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v*255))))
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	return nil
}
