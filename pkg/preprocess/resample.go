package preprocess

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"lesionprep/internal/models"
)

// Resampler resizes the image and mask of a sample to a fixed target
// resolution. The two are resampled with different kernels on purpose:
//
//   - The image uses bilinear interpolation, because lesion intensities are
//     continuous values and blending neighboring pixels gives a smooth,
//     artifact-free resize.
//   - The mask uses nearest-neighbor interpolation, because mask values are
//     discrete category labels. Any blending kernel would invent intermediate
//     label values that correspond to no real category and corrupt the
//     foreground/background partition every later stage depends on.
type Resampler struct {
	// targetHeight and targetWidth are the output resolution in pixels.
	targetHeight int
	targetWidth  int
}

// NewResampler creates a resampler for the given target resolution.
func NewResampler(targetHeight, targetWidth int) *Resampler {
	return &Resampler{
		targetHeight: targetHeight,
		targetWidth:  targetWidth,
	}
}

// Name identifies the stage.
func (r *Resampler) Name() string {
	return "resample"
}

// Apply resizes both halves of the sample to the target resolution. It fails
// with InvalidGeometryError when the target resolution is non-positive or the
// input image and mask do not cover the same extent.
func (r *Resampler) Apply(s models.Sample) (models.Sample, error) {
	if r.targetHeight <= 0 || r.targetWidth <= 0 {
		return models.Sample{}, &InvalidGeometryError{
			Reason: fmt.Sprintf("target resolution %dx%d is not positive", r.targetHeight, r.targetWidth),
		}
	}
	if s.Image == nil || s.Mask == nil {
		return models.Sample{}, &InvalidGeometryError{
			Reason: "sample has no spatial image/mask pair",
		}
	}

	imgBounds := s.Image.Bounds()
	maskBounds := s.Mask.Bounds()
	if imgBounds.Dx() != maskBounds.Dx() || imgBounds.Dy() != maskBounds.Dy() {
		return models.Sample{}, &InvalidGeometryError{
			Reason: fmt.Sprintf("image is %dx%d but mask is %dx%d",
				imgBounds.Dy(), imgBounds.Dx(), maskBounds.Dy(), maskBounds.Dx()),
		}
	}

	rect := image.Rect(0, 0, r.targetWidth, r.targetHeight)

	resizedImage := image.NewRGBA(rect)
	draw.BiLinear.Scale(resizedImage, rect, s.Image, imgBounds, draw.Src, nil)

	// NearestNeighbor copies source pixels without blending, so the set of
	// mask values after the resize is a subset of the set before it.
	resizedMask := image.NewGray(rect)
	draw.NearestNeighbor.Scale(resizedMask, rect, s.Mask, maskBounds, draw.Src, nil)

	out := s
	out.Image = resizedImage
	out.Mask = resizedMask
	return out, nil
}
