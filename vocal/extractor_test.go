package vocal

import (
	"math"
	"testing"

	"github.com/clairvox/vocalis/vocal/config"
)

func makeSine(freq float64, seconds float64, sampleRate int) []float64 {
	pcm := make([]float64, int(seconds*float64(sampleRate)))
	for i := range pcm {
		pcm[i] = 0.6 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return pcm
}

func TestExtractFeatures_TrackLengthsAlwaysAgree(t *testing.T) {
	extractor, err := NewFeatureExtractor(nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg := extractor.Config()

	cases := []struct {
		name    string
		samples int
	}{
		{"empty", 0},
		{"sub-window", cfg.WindowSize - 1},
		{"one window", cfg.WindowSize},
		{"half second", cfg.SampleRate / 2},
		{"two seconds", 2 * cfg.SampleRate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			series, err := extractor.ExtractFeatures(make([]float64, tc.samples))
			if err != nil {
				t.Fatal(err)
			}

			n := series.Len()
			if len(series.F0) != n || len(series.Energy) != n || len(series.Confidence) != n {
				t.Fatalf("track lengths disagree: time=%d f0=%d energy=%d confidence=%d",
					n, len(series.F0), len(series.Energy), len(series.Confidence))
			}

			wantFrames := 0
			if tc.samples >= cfg.WindowSize {
				wantFrames = (tc.samples-cfg.WindowSize)/cfg.HopSize + 1
			}
			if n != wantFrames {
				t.Errorf("frame count = %d, want %d for %d samples", n, wantFrames, tc.samples)
			}

			hopSeconds := float64(cfg.HopSize) / float64(cfg.SampleRate)
			for i := 1; i < n; i++ {
				if math.Abs(series.Time[i]-series.Time[i-1]-hopSeconds) > 1e-12 {
					t.Fatalf("time axis step at frame %d is %v, want %v", i, series.Time[i]-series.Time[i-1], hopSeconds)
				}
			}
		})
	}
}

func TestExtractFeatures_SilenceIsUnvoiced(t *testing.T) {
	series, err := ExtractFeatures(make([]float64, 22050), 22050)
	if err != nil {
		t.Fatal(err)
	}
	if series.Len() == 0 {
		t.Fatal("expected frames for a one-second input")
	}
	for i := range series.Len() {
		if series.Voiced(i) {
			t.Fatalf("frame %d of silence reports a pitch (%.2f Hz)", i, series.F0[i])
		}
		if series.Energy[i] != 0 {
			t.Fatalf("frame %d of silence reports energy %v", i, series.Energy[i])
		}
	}
}

// End to end: a two-second sine at the soprano reference note must come out
// nearly perfect on every metric.
func TestExtractFeatures_PureSinePipeline(t *testing.T) {
	profile := mustProfile(t, config.PartSoprano)
	pcm := makeSine(349.23, 2.0, 22050)

	series, err := ExtractFeatures(pcm, 22050)
	if err != nil {
		t.Fatal(err)
	}

	mask, ratio := ComputeValidityMask(series, profile)
	if ratio < 0.95 {
		t.Fatalf("voiced ratio = %v, want nearly all frames voiced for a clean sine", ratio)
	}

	metrics, err := CalculateMetrics(series, mask, "F4", profile)
	if err != nil {
		t.Fatal(err)
	}
	if metrics.AccuracyCents > 5 {
		t.Errorf("AccuracyCents = %v, want < 5 for a sine at the target", metrics.AccuracyCents)
	}
	if metrics.OnTargetRatio < 0.99 {
		t.Errorf("OnTargetRatio = %v, want ~1", metrics.OnTargetRatio)
	}
	if metrics.StabilityCents > 5 {
		t.Errorf("StabilityCents = %v, want < 5", metrics.StabilityCents)
	}
	if math.Abs(metrics.DriftCents) > 5 {
		t.Errorf("DriftCents = %v, want ~0", metrics.DriftCents)
	}
	if metrics.ConfidenceLabel != ConfidenceHigh {
		t.Errorf("ConfidenceLabel = %q, want %q", metrics.ConfidenceLabel, ConfidenceHigh)
	}
}

func TestSuppressOctaveJumps_SingleJump(t *testing.T) {
	extractor, err := NewFeatureExtractor(nil)
	if err != nil {
		t.Fatal(err)
	}

	f0 := []float64{300, 300, 300, 600, 300, 300}
	suppressed := extractor.suppressOctaveJumps(f0)

	if suppressed != 1 {
		t.Fatalf("suppressed = %d, want 1", suppressed)
	}
	if !math.IsNaN(f0[3]) {
		t.Errorf("f0[3] = %v, want NaN (octave jump)", f0[3])
	}
	// The jump must not poison the carried reference: the frames after it
	// still compare against 300 and survive.
	for _, i := range []int{0, 1, 2, 4, 5} {
		if f0[i] != 300 {
			t.Errorf("f0[%d] = %v, want 300 untouched", i, f0[i])
		}
	}
}

func TestSuppressOctaveJumps_SustainedJumpStaysRejected(t *testing.T) {
	extractor, err := NewFeatureExtractor(nil)
	if err != nil {
		t.Fatal(err)
	}

	// Once the track leaps an octave and stays there, every frame keeps
	// being measured against the last accepted value and keeps failing.
	f0 := []float64{300, 600, 600, 600, 600}
	suppressed := extractor.suppressOctaveJumps(f0)

	if suppressed != 4 {
		t.Errorf("suppressed = %d, want 4", suppressed)
	}
	if f0[0] != 300 {
		t.Errorf("f0[0] = %v, want 300", f0[0])
	}
	for i := 1; i < len(f0); i++ {
		if !math.IsNaN(f0[i]) {
			t.Errorf("f0[%d] = %v, want NaN", i, f0[i])
		}
	}
}

func TestSuppressOctaveJumps_GradualMotionSurvives(t *testing.T) {
	extractor, err := NewFeatureExtractor(nil)
	if err != nil {
		t.Fatal(err)
	}

	// A scale-sized step per frame (well under the gap) must pass through.
	f0 := make([]float64, 50)
	for i := range f0 {
		f0[i] = 200 * math.Pow(2, float64(i)/50.0) // one octave over 50 frames
	}
	if suppressed := extractor.suppressOctaveJumps(f0); suppressed != 0 {
		t.Errorf("suppressed = %d for gradual motion, want 0", suppressed)
	}
}

func TestSuppressOctaveJumps_LeadingUnvoicedFrames(t *testing.T) {
	extractor, err := NewFeatureExtractor(nil)
	if err != nil {
		t.Fatal(err)
	}

	f0 := []float64{math.NaN(), math.NaN(), 440, 440}
	if suppressed := extractor.suppressOctaveJumps(f0); suppressed != 0 {
		t.Errorf("suppressed = %d, want 0: leading unvoiced frames carry no reference", suppressed)
	}
	if f0[2] != 440 || f0[3] != 440 {
		t.Errorf("voiced frames altered: %v", f0)
	}
}

func TestNewFeatureExtractor_InvalidConfig(t *testing.T) {
	cfg := DefaultExtractorConfig()
	cfg.HopSize = 0
	if _, err := NewFeatureExtractor(cfg); err == nil {
		t.Error("expected error for zero hop size, got nil")
	}

	cfg = DefaultExtractorConfig()
	cfg.MinFreq = 2000
	cfg.MaxFreq = 100
	if _, err := NewFeatureExtractor(cfg); err == nil {
		t.Error("expected error for inverted frequency range, got nil")
	}
}
