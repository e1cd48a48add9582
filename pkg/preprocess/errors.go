package preprocess

import (
	"fmt"
)

// InvalidGeometryError reports an unusable spatial configuration before
// resampling: a non-positive target resolution, or an image and mask that do
// not share the same input extent.
type InvalidGeometryError struct {
	Reason string
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("invalid geometry: %s", e.Reason)
}

// ShapeMismatchError reports image and mask spatial dimensions that disagree
// after tensorization, or a sample arriving at a stage in the wrong form.
type ShapeMismatchError struct {
	Reason string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: %s", e.Reason)
}

// DegenerateStatisticsError reports a sample whose foreground cannot yield
// usable normalization statistics: either the mask selects no pixels at all,
// or every selected pixel has the same intensity. Such a sample is rejected
// rather than normalized into NaN or Inf values.
type DegenerateStatisticsError struct {
	// ForegroundPixels is the number of mask-selected pixels.
	ForegroundPixels int

	// Std is the population standard deviation over the selected pixels.
	// Only meaningful when ForegroundPixels is nonzero.
	Std float64
}

func (e *DegenerateStatisticsError) Error() string {
	if e.ForegroundPixels == 0 {
		return "degenerate statistics: mask selects no foreground pixels"
	}
	return fmt.Sprintf("degenerate statistics: zero variance over %d foreground pixels", e.ForegroundPixels)
}

// InvalidRangeError reports a malformed clip or output range supplied at
// configuration time. Ranges must satisfy min < max.
type InvalidRangeError struct {
	// Kind names the offending range, "clip" or "output".
	Kind string

	Min float64
	Max float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid %s range: [%g, %g] (min must be < max)", e.Kind, e.Min, e.Max)
}
