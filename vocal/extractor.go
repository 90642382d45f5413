package vocal

import (
	"fmt"
	"math"

	"github.com/clairvox/vocalis/algorithms/temporal"
	"github.com/clairvox/vocalis/algorithms/tonal"
	"github.com/clairvox/vocalis/logging"
)

// ExtractorConfig holds configuration for feature extraction
type ExtractorConfig struct {
	SampleRate int `json:"sample_rate"`
	WindowSize int `json:"window_size"`
	HopSize    int `json:"hop_size"`

	// F0 search range. Defaults cover C2-C6, the plausible span of a
	// single trained voice across all parts.
	MinFreq float64 `json:"min_freq"`
	MaxFreq float64 `json:"max_freq"`

	YinThreshold float64 `json:"yin_threshold"`

	// OctaveJumpCents is the maximum interval accepted between a frame
	// and the last accepted pitch before the frame is discarded as a
	// tracker octave error.
	OctaveJumpCents float64 `json:"octave_jump_cents"`
}

// DefaultExtractorConfig returns the extraction parameters the whole
// pipeline is calibrated against. Downstream logic (stability regions,
// drift windows) is expressed in frame counts, so window and hop are
// fixed for the pipeline rather than per call.
func DefaultExtractorConfig() *ExtractorConfig {
	return &ExtractorConfig{
		SampleRate:      22050,
		WindowSize:      2048,
		HopSize:         512,
		MinFreq:         65.41,   // C2
		MaxFreq:         1046.50, // C6
		YinThreshold:    0.15,
		OctaveJumpCents: 700,
	}
}

// FeatureExtractor turns a mono waveform into a FrameSeries: a per-frame
// F0 track with voicing confidence plus RMS energy on the same frame grid.
// Extraction is a pure function of the input waveform; the extractor holds
// no per-call state and may serve concurrent clips.
type FeatureExtractor struct {
	config  *ExtractorConfig
	tracker *tonal.YinTracker
	energy  *temporal.Energy
	logger  logging.Logger
}

// NewFeatureExtractor creates a feature extractor, validating the config
func NewFeatureExtractor(config *ExtractorConfig) (*FeatureExtractor, error) {
	if config == nil {
		config = DefaultExtractorConfig()
	}
	if config.HopSize <= 0 || config.WindowSize <= 0 {
		return nil, fmt.Errorf("window size (%d) and hop size (%d) must be positive", config.WindowSize, config.HopSize)
	}

	tracker, err := tonal.NewYinTrackerWithParams(tonal.YinParams{
		SampleRate: config.SampleRate,
		WindowSize: config.WindowSize,
		Threshold:  config.YinThreshold,
		MinFreq:    config.MinFreq,
		MaxFreq:    config.MaxFreq,
	})
	if err != nil {
		return nil, fmt.Errorf("pitch tracker: %w", err)
	}

	return &FeatureExtractor{
		config:  config,
		tracker: tracker,
		energy:  temporal.NewEnergy(config.WindowSize, config.HopSize, config.SampleRate),
		logger:  logging.WithFields(logging.Fields{"component": "feature_extractor"}),
	}, nil
}

// Config returns the extractor configuration
func (fe *FeatureExtractor) Config() *ExtractorConfig {
	return fe.config
}

// ExtractFeatures produces the FrameSeries for a mono waveform sampled at
// the extractor's configured rate. An empty (or shorter-than-one-window)
// waveform yields an empty series, not an error, so silence and decode
// failures flow through the same sentinel-based metric path.
func (fe *FeatureExtractor) ExtractFeatures(pcm []float64) (*FrameSeries, error) {
	series := &FrameSeries{
		Time:       []float64{},
		F0:         []float64{},
		Energy:     []float64{},
		Confidence: []float64{},
		SampleRate: fe.config.SampleRate,
		HopSize:    fe.config.HopSize,
	}

	if len(pcm) < fe.config.WindowSize {
		return series, nil
	}

	numFrames := (len(pcm)-fe.config.WindowSize)/fe.config.HopSize + 1

	f0 := make([]float64, numFrames)
	confidence := make([]float64, numFrames)
	for i := range numFrames {
		start := i * fe.config.HopSize
		frame := pcm[start : start+fe.config.WindowSize]

		freq, conf, err := fe.tracker.DetectFrame(frame)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		f0[i] = freq
		confidence[i] = conf
	}

	energy := fe.energy.ComputeShortTimeEnergy(pcm)

	// Framing of pitch and energy can disagree by a frame at the tail;
	// clip every track to the shortest.
	minLen := numFrames
	if len(energy) < minLen {
		minLen = len(energy)
	}
	f0 = f0[:minLen]
	confidence = confidence[:minLen]
	energy = energy[:minLen]

	times := make([]float64, minLen)
	hopSeconds := float64(fe.config.HopSize) / float64(fe.config.SampleRate)
	for i := range times {
		times[i] = float64(i) * hopSeconds
	}

	suppressed := fe.suppressOctaveJumps(f0)
	if suppressed > 0 {
		fe.logger.Debug("suppressed octave jumps", logging.Fields{
			"frames":  suppressed,
			"total":   minLen,
			"max_gap": fe.config.OctaveJumpCents,
		})
	}

	series.Time = times
	series.F0 = f0
	series.Energy = energy
	series.Confidence = confidence

	return series, nil
}

// suppressOctaveJumps invalidates frames whose interval from the last
// accepted pitch exceeds the configured cents gap. Raw trackers jump an
// octave on transients; rejecting the frame outright avoids smoothing
// that would blur genuine pitch movement.
//
// The scan is strictly causal with one piece of carried state: a rejected
// frame never updates lastValid, and a frame is never revisited. That
// in-order dependency on the previous *accepted* value is the point of
// the filter and cannot be expressed as a stateless array operation.
func (fe *FeatureExtractor) suppressOctaveJumps(f0 []float64) int {
	suppressed := 0
	lastValid := 0.0

	for i := range f0 {
		if math.IsNaN(f0[i]) {
			continue
		}

		if lastValid > 0 {
			interval := 1200.0 * math.Log2(f0[i]/lastValid)
			if math.Abs(interval) > fe.config.OctaveJumpCents {
				f0[i] = math.NaN()
				suppressed++
				continue
			}
		}

		lastValid = f0[i]
	}

	return suppressed
}

// ExtractFeatures is a convenience wrapper over a default-configured
// extractor for the given sample rate.
func ExtractFeatures(pcm []float64, sampleRate int) (*FrameSeries, error) {
	config := DefaultExtractorConfig()
	config.SampleRate = sampleRate

	extractor, err := NewFeatureExtractor(config)
	if err != nil {
		return nil, err
	}
	return extractor.ExtractFeatures(pcm)
}
