package tonal

import (
	"math"
	"testing"
)

func makeSineFrame(freq float64, sampleRate, length int) []float64 {
	frame := make([]float64, length)
	for i := range frame {
		frame[i] = 0.8 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return frame
}

func centsBetween(f1, f2 float64) float64 {
	return math.Abs(1200 * math.Log2(f1/f2))
}

func TestDetectFrame_PureSine(t *testing.T) {
	tracker := NewYinTracker(22050)

	cases := []struct {
		freq      float64
		tolerance float64 // cents; short lags refine less precisely
	}{
		{98.0, 5}, {220.0, 5}, {349.23, 5}, {440.0, 5}, {880.0, 15},
	}

	for _, tc := range cases {
		freq := tc.freq
		frame := makeSineFrame(freq, 22050, tracker.WindowSize())

		got, conf, err := tracker.DetectFrame(frame)
		if err != nil {
			t.Fatalf("DetectFrame(%.2f Hz): %v", freq, err)
		}
		if math.IsNaN(got) {
			t.Fatalf("DetectFrame(%.2f Hz): no pitch found", freq)
		}
		if cents := centsBetween(got, freq); cents > tc.tolerance {
			t.Errorf("DetectFrame(%.2f Hz) = %.2f Hz, off by %.2f cents (want < %.0f)", freq, got, cents, tc.tolerance)
		}
		if conf < 0.9 {
			t.Errorf("DetectFrame(%.2f Hz) confidence = %.3f, want >= 0.9 for a clean sine", freq, conf)
		}
	}
}

func TestDetectFrame_Silence(t *testing.T) {
	tracker := NewYinTracker(22050)
	frame := make([]float64, tracker.WindowSize())

	got, conf, err := tracker.DetectFrame(frame)
	if err != nil {
		t.Fatalf("DetectFrame(silence): %v", err)
	}
	if !math.IsNaN(got) {
		t.Errorf("DetectFrame(silence) = %.2f Hz, want NaN", got)
	}
	if conf > 0.3 {
		t.Errorf("DetectFrame(silence) confidence = %.3f, want <= 0.3", conf)
	}
}

func TestDetectFrame_OutOfRangeFrequency(t *testing.T) {
	tracker, err := NewYinTrackerWithParams(YinParams{
		SampleRate: 22050,
		WindowSize: 2048,
		Threshold:  0.15,
		MinFreq:    200,
		MaxFreq:    400,
	})
	if err != nil {
		t.Fatal(err)
	}

	// 880 Hz sits above the configured range; whatever the lag window
	// locks onto (a subharmonic, or nothing), the reported pitch must
	// never leave the range.
	frame := makeSineFrame(880, 22050, 2048)
	got, _, err := tracker.DetectFrame(frame)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(got) && (got < 200 || got > 400) {
		t.Errorf("DetectFrame = %.2f Hz, outside configured range [200, 400]", got)
	}
}

func TestDetectFrame_WrongFrameSize(t *testing.T) {
	tracker := NewYinTracker(22050)
	if _, _, err := tracker.DetectFrame(make([]float64, 100)); err == nil {
		t.Error("expected error for mismatched frame size, got nil")
	}
}

func TestNewYinTrackerWithParams_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		params YinParams
	}{
		{"odd window", YinParams{SampleRate: 22050, WindowSize: 2047, Threshold: 0.15, MinFreq: 65, MaxFreq: 1000}},
		{"inverted range", YinParams{SampleRate: 22050, WindowSize: 2048, Threshold: 0.15, MinFreq: 1000, MaxFreq: 65}},
		{"threshold out of range", YinParams{SampleRate: 22050, WindowSize: 2048, Threshold: 1.5, MinFreq: 65, MaxFreq: 1000}},
		{"unresolvable low freq", YinParams{SampleRate: 22050, WindowSize: 64, Threshold: 0.15, MinFreq: 20, MaxFreq: 25}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewYinTrackerWithParams(tc.params); err == nil {
				t.Errorf("NewYinTrackerWithParams(%+v): expected error, got nil", tc.params)
			}
		})
	}
}

func TestDifferenceFunction_MatchesNaive(t *testing.T) {
	tracker, err := NewYinTrackerWithParams(YinParams{
		SampleRate: 22050,
		WindowSize: 256,
		Threshold:  0.15,
		MinFreq:    200,
		MaxFreq:    2000,
	})
	if err != nil {
		t.Fatal(err)
	}

	frame := makeSineFrame(523.25, 22050, 256)
	// Add a second partial so the frame isn't trivially periodic
	for i := range frame {
		frame[i] += 0.3 * math.Sin(2*math.Pi*1046.5*float64(i)/22050.0)
	}

	got := tracker.differenceFunction(frame)

	n := 128
	for tau := range n {
		want := 0.0
		for j := range n {
			delta := frame[j] - frame[j+tau]
			want += delta * delta
		}
		if math.Abs(got[tau]-want) > 1e-6*(1+want) {
			t.Fatalf("differenceFunction[%d] = %g, naive = %g", tau, got[tau], want)
		}
	}
}
