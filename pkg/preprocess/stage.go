// Package preprocess implements the fixed preprocessing recipe applied to
// lesion image / segmentation mask pairs before they are handed to a model:
// geometric resampling to a fixed resolution, conversion to channel-first
// tensor form, z-score normalization over the brain-region foreground, and
// clip-and-rescale with the non-brain background forced to zero.
//
// The recipe is deliberately not configurable in structure. The stages run
// in one fixed order because the later stages depend on geometry and value
// semantics established by the earlier ones: foreground statistics and the
// final background masking both require the mask to already match the image
// resolution, and clipping assumes z-scored values.
package preprocess

import (
	"lesionprep/internal/models"
)

// Stage transforms one sample into the next. Implementations are pure: they
// hold only construction-time configuration, keep no per-sample state, and
// may be shared by any number of goroutines processing different samples.
type Stage interface {
	// Name identifies the stage in errors and logs.
	Name() string

	// Apply produces the transformed sample or a typed error describing why
	// this sample cannot be processed. The input sample is never mutated.
	Apply(s models.Sample) (models.Sample, error)
}
