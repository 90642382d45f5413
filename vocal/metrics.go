package vocal

import (
	"fmt"
	"math"

	"github.com/clairvox/vocalis/algorithms/stats"
	"github.com/clairvox/vocalis/algorithms/tonal"
	"github.com/clairvox/vocalis/vocal/config"
)

const (
	// FailureSentinel marks a metric that could not be computed (no
	// usable voiced frames, or no target supplied for accuracy). 999 is
	// deliberately far from any real cents value so that "no pitch
	// detected" can never be confused with "perfect pitch" by display or
	// averaging code.
	FailureSentinel = 999.0

	// OnTargetToleranceCents is half a semitone: the window within which
	// a frame counts as on target.
	OnTargetToleranceCents = 50.0

	// AccuracyClampCents caps the reported mean deviation for display
	AccuracyClampCents = 200.0

	// StabilityMinPreFrames is the minimum pre-passaggio frame count for
	// the region-restricted stability statistic; at or below it the
	// statistic falls back to the whole voiced set.
	StabilityMinPreFrames = 10

	// DriftWindowFrames is the size of the start and end median windows
	// for drift. Drift needs strictly more than twice this many valid
	// frames so the two windows cannot overlap.
	DriftWindowFrames = 20
)

// Confidence labels attached to a MetricsResult
const (
	ConfidenceHigh = "High"
	ConfidenceLow  = "Low"
)

// MetricsResult is the scalar outcome of one analysis. Metrics that could
// not be computed hold FailureSentinel (accuracy, stability, drift) or 0
// (on-target ratio); see the package documentation for why silence must
// never look like a perfect score.
type MetricsResult struct {
	AccuracyCents  float64 `json:"accuracy_cents"`
	OnTargetRatio  float64 `json:"on_target_ratio"`
	StabilityCents float64 `json:"stability_cents"`
	DriftCents     float64 `json:"drift_cents"`
	MeanPitchHz    float64 `json:"mean_pitch_hz"`
	VoicedRatio    float64 `json:"voiced_ratio"`

	// TargetHz is the resolved accuracy reference, 0 when no target note
	// was supplied (accuracy and on-target ratio are then uncomputed).
	TargetHz float64 `json:"target_hz,omitempty"`

	ConfidenceLabel string `json:"confidence_label"`
}

// CalculateMetrics derives the scalar metrics from a FrameSeries and its
// validity mask. targetNote is a pitch name ("F4", "Eb4") or empty when
// the exercise has no reference pitch; accuracy and on-target ratio are
// only computed when a target is given. The function is pure: the same
// inputs always produce a bit-identical result.
//
// A malformed target note is the only error condition; every degenerate
// signal condition is absorbed into sentinel values so the caller always
// has a reportable result.
func CalculateMetrics(series *FrameSeries, mask []bool, targetNote string, profile config.VoicePartProfile) (MetricsResult, error) {
	metrics := MetricsResult{
		AccuracyCents:   FailureSentinel,
		OnTargetRatio:   0.0,
		StabilityCents:  FailureSentinel,
		DriftCents:      FailureSentinel,
		ConfidenceLabel: ConfidenceHigh,
	}

	var targetHz float64
	if targetNote != "" {
		hz, err := tonal.NoteToHz(targetNote)
		if err != nil {
			return metrics, fmt.Errorf("target note: %w", err)
		}
		targetHz = hz
		metrics.TargetHz = targetHz
	}

	voiced := selectValid(series, mask)

	if series.Len() > 0 {
		metrics.VoicedRatio = float64(len(voiced)) / float64(series.Len())
	}

	if len(voiced) == 0 {
		metrics.ConfidenceLabel = ConfidenceLow
		return metrics, nil
	}

	if metrics.VoicedRatio < LowConfidenceVoicedRatio {
		metrics.ConfidenceLabel = ConfidenceLow
	}

	metrics.MeanPitchHz = stats.Mean(voiced)

	if targetHz > 0 {
		accuracy, onTarget := accuracyAgainstTarget(voiced, targetHz)
		metrics.AccuracyCents = accuracy
		metrics.OnTargetRatio = onTarget
	}

	metrics.StabilityCents = stabilityCents(voiced, profile.PrimaryPassaggio())

	if drift, ok := driftCents(voiced); ok {
		metrics.DriftCents = drift
	} else {
		// Too few frames for non-overlapping windows; report no drift
		// rather than the failure sentinel since pitch was found.
		metrics.DriftCents = 0.0
	}

	return metrics, nil
}

// accuracyAgainstTarget computes the mean absolute cents deviation from
// the target frequency and the fraction of frames within the on-target
// window. No octave folding: singing the right pitch class an octave away
// is a miss, because the exercise asks for the literal target pitch. The
// mean (not median) is used so transient cracks and drops cost points
// instead of vanishing into a robust statistic.
func accuracyAgainstTarget(voiced []float64, targetHz float64) (accuracy, onTargetRatio float64) {
	sum := 0.0
	onTarget := 0
	for _, f := range voiced {
		dev := math.Abs(stats.Cents(f, targetHz))
		sum += dev
		if dev <= OnTargetToleranceCents {
			onTarget++
		}
	}

	accuracy = stats.Clamp(sum/float64(len(voiced)), 0, AccuracyClampCents)
	onTargetRatio = float64(onTarget) / float64(len(voiced))
	return accuracy, onTargetRatio
}

// stabilityCents measures pitch steadiness as the standard deviation, in
// cents, of frame deviations from the region's own mean frequency.
// Register-transition frames are intrinsically unsteady, so when enough
// frames sit below the primary passaggio the statistic is restricted to
// that region; otherwise (a high voice living above its passaggio) it
// covers the whole voiced set.
func stabilityCents(voiced []float64, primaryPassaggio float64) float64 {
	pre := make([]float64, 0, len(voiced))
	for _, f := range voiced {
		if f < primaryPassaggio {
			pre = append(pre, f)
		}
	}

	region := voiced
	if len(pre) > StabilityMinPreFrames {
		region = pre
	}

	ref := stats.Mean(region)
	devs := stats.CentsDeviations(region, ref)
	return stats.StandardDeviation(devs)
}

// driftCents compares phrase start to phrase end: the interval between
// the median F0 of the first and last DriftWindowFrames valid frames.
// Medians resist single-frame outliers at the clip boundaries. Negative
// means the phrase ends flat, positive sharp. ok is false when there are
// not enough frames for two non-overlapping windows.
func driftCents(voiced []float64) (drift float64, ok bool) {
	if len(voiced) <= 2*DriftWindowFrames {
		return 0, false
	}

	startMedian := stats.Median(voiced[:DriftWindowFrames])
	endMedian := stats.Median(voiced[len(voiced)-DriftWindowFrames:])
	if startMedian <= 0 || endMedian <= 0 {
		return 0, false
	}

	return stats.Cents(endMedian, startMedian), true
}
