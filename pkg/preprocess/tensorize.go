package preprocess

import (
	"fmt"
	"image/color"

	"lesionprep/internal/models"
)

// Tensorizer converts the resampled spatial pair into canonical numeric form:
// the image becomes a channel-first (3, H, W) tensor with 8-bit intensities
// rescaled into [0, 1], and the mask becomes a single (H, W) plane with its
// label values carried over untouched. Dropping the mask's channel dimension
// here is what lets later stages broadcast one mask value across all three
// image channels.
type Tensorizer struct{}

// NewTensorizer creates the tensorization stage.
func NewTensorizer() *Tensorizer {
	return &Tensorizer{}
}

// Name identifies the stage.
func (t *Tensorizer) Name() string {
	return "tensorize"
}

// Apply converts the sample to tensor form. It fails with ShapeMismatchError
// when the sample is not in spatial form or when the converted image and mask
// dimensions disagree.
func (t *Tensorizer) Apply(s models.Sample) (models.Sample, error) {
	if s.Image == nil || s.Mask == nil {
		return models.Sample{}, &ShapeMismatchError{
			Reason: "sample has no spatial image/mask pair to tensorize",
		}
	}

	imgBounds := s.Image.Bounds()
	maskBounds := s.Mask.Bounds()
	width, height := imgBounds.Dx(), imgBounds.Dy()
	if maskBounds.Dx() != width || maskBounds.Dy() != height {
		return models.Sample{}, &ShapeMismatchError{
			Reason: fmt.Sprintf("image is %dx%d but mask is %dx%d",
				height, width, maskBounds.Dy(), maskBounds.Dx()),
		}
	}

	tensor := models.NewTensor(3, height, width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cr, cg, cb, _ := s.Image.At(imgBounds.Min.X+x, imgBounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit values; shift back to the 8-bit domain
			// before rescaling into [0, 1].
			tensor.Set(0, y, x, float64(cr>>8)/255.0)
			tensor.Set(1, y, x, float64(cg>>8)/255.0)
			tensor.Set(2, y, x, float64(cb>>8)/255.0)
		}
	}

	labels := models.NewPlane(height, width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g := color.GrayModel.Convert(s.Mask.At(maskBounds.Min.X+x, maskBounds.Min.Y+y)).(color.Gray)
			labels.Set(y, x, float64(g.Y))
		}
	}

	out := s
	out.Image = nil
	out.Mask = nil
	out.Tensor = tensor
	out.Labels = labels
	return out, nil
}
