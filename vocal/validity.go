package vocal

import (
	"math"

	"github.com/clairvox/vocalis/vocal/config"
)

// ConfidenceThreshold is the minimum voicing confidence for a frame to
// count as usable. Deliberately stricter than typical tracker defaults so
// breathy or noisy non-tonal frames don't leak into the metrics.
const ConfidenceThreshold = 0.3

// LowConfidenceVoicedRatio is the voiced-ratio floor below which a whole
// analysis is labeled low-confidence. The label is advisory; metrics are
// still computed.
const LowConfidenceVoicedRatio = 0.7

// ComputeValidityMask derives the per-frame usability mask for metric
// computation. A frame is valid iff its F0 is a real number, its voicing
// confidence exceeds ConfidenceThreshold, and the F0 lies inside the
// voice part's range (inclusive). Returns the mask and the voiced ratio
// (valid frames over total frames; 0 for an empty series).
func ComputeValidityMask(series *FrameSeries, profile config.VoicePartProfile) ([]bool, float64) {
	mask := make([]bool, series.Len())

	validCount := 0
	for i := range mask {
		f0 := series.F0[i]
		if math.IsNaN(f0) {
			continue
		}
		if series.Confidence[i] <= ConfidenceThreshold {
			continue
		}
		if !profile.InRange(f0) {
			continue
		}
		mask[i] = true
		validCount++
	}

	voicedRatio := 0.0
	if series.Len() > 0 {
		voicedRatio = float64(validCount) / float64(series.Len())
	}

	return mask, voicedRatio
}

// selectValid returns the F0 values of valid frames in original time order
func selectValid(series *FrameSeries, mask []bool) []float64 {
	voiced := make([]float64, 0, len(mask))
	for i, ok := range mask {
		if ok {
			voiced = append(voiced, series.F0[i])
		}
	}
	return voiced
}
