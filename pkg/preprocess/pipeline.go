package preprocess

import (
	"fmt"

	"lesionprep/internal/models"
)

// Params holds the construction-time configuration of the pipeline. A
// pipeline's parameters are fixed at creation and applied uniformly to every
// sample it processes.
type Params struct {
	// TargetHeight and TargetWidth are the output resolution every sample is
	// resampled to.
	TargetHeight int
	TargetWidth  int

	// ClipMin and ClipMax bound the z-scored intensities before rescaling.
	ClipMin float64
	ClipMax float64

	// OutputMin and OutputMax are the interval the clipped values are
	// affinely rescaled onto.
	OutputMin float64
	OutputMax float64
}

// DefaultParams returns the standard recipe configuration: 128x128 output,
// clip to [-5, 5], rescale to [0, 1].
func DefaultParams() Params {
	return Params{
		TargetHeight: 128,
		TargetWidth:  128,
		ClipMin:      -5,
		ClipMax:      5,
		OutputMin:    0,
		OutputMax:    1,
	}
}

// Pipeline applies the full preprocessing recipe to one sample at a time:
// resample, tensorize, normalize over the foreground, clip-and-rescale. The
// order is part of the contract and is held as an explicit stage list rather
// than call-site convention: normalization statistics and the final
// background masking both require the mask to already match the image's
// post-resize geometry.
//
// A Pipeline holds no per-sample state and is safe for concurrent use by
// multiple goroutines processing different samples.
type Pipeline struct {
	stages []Stage
}

// NewPipeline builds a pipeline for the given parameters. Malformed clip or
// output ranges fail here with InvalidRangeError; a non-positive target
// resolution fails here with InvalidGeometryError.
func NewPipeline(params Params) (*Pipeline, error) {
	if params.TargetHeight <= 0 || params.TargetWidth <= 0 {
		return nil, &InvalidGeometryError{
			Reason: fmt.Sprintf("target resolution %dx%d is not positive", params.TargetHeight, params.TargetWidth),
		}
	}

	clamp, err := NewRangeClamp(params.ClipMin, params.ClipMax, params.OutputMin, params.OutputMax)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		stages: []Stage{
			NewResampler(params.TargetHeight, params.TargetWidth),
			NewTensorizer(),
			NewForegroundNormalizer(),
			clamp,
		},
	}, nil
}

// Stages returns the ordered stage list. The slice is shared; callers must
// treat it as read-only.
func (p *Pipeline) Stages() []Stage {
	return p.stages
}

// Apply runs the sample through every stage in order, returning the final
// sample or the first stage's error unmodified. A failed sample produces no
// partial output.
func (p *Pipeline) Apply(s models.Sample) (models.Sample, error) {
	for _, stage := range p.stages {
		var err error
		s, err = stage.Apply(s)
		if err != nil {
			return models.Sample{}, err
		}
	}
	return s, nil
}
