package vocal

import (
	"fmt"

	"github.com/clairvox/vocalis/vocal/config"
)

// Diagnosis thresholds. The ordering of the ladders and the sense of each
// comparison matter more than the exact numbers; tune values against
// coaching feedback, not against individual recordings.
const (
	diagNoPitchCents          = 900.0 // at/above this accuracy is the failure sentinel
	diagAccuracyPoorCents     = 50.0
	diagAccuracyGoodCents     = 20.0
	diagStabilityWobbleCents  = 30.0
	diagStabilityStraightTone = 10.0
	diagDriftCents            = 20.0
	diagOffTargetRatio        = 0.6
	diagWanderRatio           = 0.85
)

// DiagnosisTag is one human-readable diagnostic statement derived from a
// MetricsResult. Label identifies the ladder that produced it.
type DiagnosisTag struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// GenerateDiagnosis maps a MetricsResult to an ordered list of diagnostic
// statements by evaluating the accuracy, stability, drift, and on-target
// ladders in that fixed order, at most one statement per ladder. It is a
// pure function of its inputs.
//
// When the accuracy ladder reports the hard "no pitch detected" failure,
// the remaining ladders are suppressed: every other metric also carries a
// sentinel in that case and restating the failure three more ways helps
// nobody. Accuracy and on-target ladders are skipped when no target pitch
// was requested. If every ladder stays silent a single generic statement
// is emitted.
func GenerateDiagnosis(metrics MetricsResult, part config.Part) []DiagnosisTag {
	var tags []DiagnosisTag

	// Accuracy ladder
	hadTarget := metrics.TargetHz > 0
	switch {
	case metrics.VoicedRatio == 0 || (hadTarget && metrics.AccuracyCents >= diagNoPitchCents):
		tags = append(tags, DiagnosisTag{
			Label:       "accuracy",
			Description: "No pitch detected: the recording contains no usable voiced frames, so the analysis failed.",
		})
		return tags
	case hadTarget && metrics.AccuracyCents > diagAccuracyPoorCents:
		tags = append(tags, DiagnosisTag{
			Label:       "accuracy",
			Description: fmt.Sprintf("Pitch deviates from the target by %.1f cents on average. Watch intonation.", metrics.AccuracyCents),
		})
	case hadTarget && metrics.AccuracyCents < diagAccuracyGoodCents:
		tags = append(tags, DiagnosisTag{
			Label:       "accuracy",
			Description: "Excellent pitch accuracy.",
		})
	}

	// Stability ladder
	switch {
	case metrics.StabilityCents > diagStabilityWobbleCents:
		tags = append(tags, DiagnosisTag{
			Label:       "stability",
			Description: "The tone wobbles noticeably (wide vibrato or tremolo). Check breath support.",
		})
	case metrics.StabilityCents >= 0 && metrics.StabilityCents < diagStabilityStraightTone:
		tags = append(tags, DiagnosisTag{
			Label:       "stability",
			Description: "Very stable pitch (straight tone).",
		})
	}

	// Drift ladder
	switch {
	case metrics.DriftCents < -diagDriftCents:
		tags = append(tags, DiagnosisTag{
			Label:       "drift",
			Description: "The phrase ends flat: pitch sagged toward the end of the note.",
		})
	case metrics.DriftCents > diagDriftCents:
		tags = append(tags, DiagnosisTag{
			Label:       "drift",
			Description: "The phrase ends sharp: pitch crept upward toward the end of the note.",
		})
	}

	// On-target ladder
	if hadTarget {
		switch {
		case metrics.OnTargetRatio < diagOffTargetRatio:
			tags = append(tags, DiagnosisTag{
				Label:       "on_target",
				Description: "Pitch is frequently off target (on target less than 60% of the time).",
			})
		case metrics.OnTargetRatio < diagWanderRatio:
			tags = append(tags, DiagnosisTag{
				Label:       "on_target",
				Description: "Intermittent pitch wander: the note is mostly centered but drifts off target at times.",
			})
		}
	}

	if len(tags) == 0 {
		tags = append(tags, DiagnosisTag{
			Label:       "general",
			Description: fmt.Sprintf("Overall stable production for %s. Check secondary indicators such as vibrato rate.", part),
		})
	}

	return tags
}
