package preprocess

import (
	"lesionprep/internal/models"
)

// RangeClamp bounds the normalized image to a known interval, affinely
// rescales that interval onto a target output interval, and then forces every
// background pixel to exactly zero. The masking step runs last: the affine
// rescale maps clipMin to outMin, which is generally nonzero signal, so only
// an explicit re-zero after rescaling guarantees that background positions
// carry no signal at all.
type RangeClamp struct {
	clipMin float64
	clipMax float64
	outMin  float64
	outMax  float64
}

// NewRangeClamp creates the clip-and-rescale stage. Both ranges are validated
// here, at configuration time, and a malformed range (min >= max) fails with
// InvalidRangeError rather than surfacing per-sample.
func NewRangeClamp(clipMin, clipMax, outMin, outMax float64) (*RangeClamp, error) {
	if clipMin >= clipMax {
		return nil, &InvalidRangeError{Kind: "clip", Min: clipMin, Max: clipMax}
	}
	if outMin >= outMax {
		return nil, &InvalidRangeError{Kind: "output", Min: outMin, Max: outMax}
	}
	return &RangeClamp{
		clipMin: clipMin,
		clipMax: clipMax,
		outMin:  outMin,
		outMax:  outMax,
	}, nil
}

// Name identifies the stage.
func (c *RangeClamp) Name() string {
	return "clip-rescale"
}

// Apply clips, rescales and background-masks the image tensor in a cloned
// sample; the mask passes through unchanged.
func (c *RangeClamp) Apply(s models.Sample) (models.Sample, error) {
	if s.Tensor == nil || s.Labels == nil {
		return models.Sample{}, &ShapeMismatchError{
			Reason: "sample is not in tensor form",
		}
	}

	tensor := s.Tensor.Clone()
	scale := (c.outMax - c.outMin) / (c.clipMax - c.clipMin)
	for i, v := range tensor.Data {
		if v < c.clipMin {
			v = c.clipMin
		} else if v > c.clipMax {
			v = c.clipMax
		}
		tensor.Data[i] = (v-c.clipMin)*scale + c.outMin
	}

	// The (H, W) mask broadcasts across all channels: one zero label blanks
	// the same position in each of the three image planes.
	labels := s.Labels
	for y := 0; y < labels.Height; y++ {
		for x := 0; x < labels.Width; x++ {
			if labels.At(y, x) == 0 {
				for ch := 0; ch < tensor.Channels; ch++ {
					tensor.Set(ch, y, x, 0)
				}
			}
		}
	}

	out := s
	out.Tensor = tensor
	return out, nil
}
