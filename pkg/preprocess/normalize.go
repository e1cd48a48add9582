package preprocess

import (
	"gonum.org/v1/gonum/stat"

	"lesionprep/internal/models"
)

// statsChannel is the image channel the foreground statistics are read from.
// It must match the channel layout used when selecting foreground pixels:
// both the selection and the sampled intensities come from channel 0.
const statsChannel = 0

// ForegroundNormalizer z-score-normalizes the image using statistics computed
// from the brain region only. Background pixels (mask == 0) carry no signal
// of interest and would drag the mean toward zero, so they are excluded from
// the statistics; the resulting scalar mean and std are then applied to every
// pixel of every channel.
type ForegroundNormalizer struct{}

// NewForegroundNormalizer creates the normalization stage.
func NewForegroundNormalizer() *ForegroundNormalizer {
	return &ForegroundNormalizer{}
}

// Name identifies the stage.
func (n *ForegroundNormalizer) Name() string {
	return "normalize"
}

// Apply normalizes the image tensor in a cloned sample; the mask passes
// through unchanged. It fails with DegenerateStatisticsError when the mask
// selects no pixels or the selected pixels have zero variance, since either
// case would otherwise produce NaN or Inf values downstream.
func (n *ForegroundNormalizer) Apply(s models.Sample) (models.Sample, error) {
	if s.Tensor == nil || s.Labels == nil {
		return models.Sample{}, &ShapeMismatchError{
			Reason: "sample is not in tensor form",
		}
	}

	mean, std, count := foregroundStats(s.Tensor, s.Labels)
	if count == 0 || std == 0 {
		return models.Sample{}, &DegenerateStatisticsError{
			ForegroundPixels: count,
			Std:              std,
		}
	}

	normalized := s.Tensor.Clone()
	for i, v := range normalized.Data {
		normalized.Data[i] = (v - mean) / std
	}

	out := s
	out.Tensor = normalized
	return out, nil
}

// foregroundStats computes the mean and population standard deviation of the
// reference-channel intensities at every position where the mask is strictly
// positive, along with the number of selected pixels. It is a pure function
// of the (tensor, labels) pair.
func foregroundStats(tensor *models.Tensor, labels *models.Plane) (mean, std float64, count int) {
	values := make([]float64, 0, len(labels.Data))
	for y := 0; y < labels.Height; y++ {
		for x := 0; x < labels.Width; x++ {
			if labels.At(y, x) > 0 {
				values = append(values, tensor.At(statsChannel, y, x))
			}
		}
	}
	if len(values) == 0 {
		return 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	std = stat.PopStdDev(values, nil)
	return mean, std, len(values)
}
