package temporal

import (
	"math"
	"testing"
)

func TestComputeShortTimeEnergy_FrameCount(t *testing.T) {
	e := NewEnergy(2048, 512, 22050)

	cases := []struct {
		samples int
		want    int
	}{
		{0, 0},
		{2047, 0},
		{2048, 1},
		{2048 + 512, 2},
		{22050, (22050-2048)/512 + 1},
	}

	for _, tc := range cases {
		got := e.ComputeShortTimeEnergy(make([]float64, tc.samples))
		if len(got) != tc.want {
			t.Errorf("len(energies) for %d samples = %d, want %d", tc.samples, len(got), tc.want)
		}
		if n := e.NumFrames(tc.samples); n != tc.want {
			t.Errorf("NumFrames(%d) = %d, want %d", tc.samples, n, tc.want)
		}
	}
}

func TestComputeShortTimeEnergy_SineRMS(t *testing.T) {
	e := NewEnergy(2048, 512, 22050)

	amp := 0.5
	signal := make([]float64, 22050)
	for i := range signal {
		signal[i] = amp * math.Sin(2*math.Pi*220*float64(i)/22050.0)
	}

	energies := e.ComputeShortTimeEnergy(signal)
	want := amp / math.Sqrt2
	for i, rms := range energies {
		if math.Abs(rms-want) > 0.01 {
			t.Fatalf("frame %d: RMS = %.4f, want ~%.4f", i, rms, want)
		}
	}
}

func TestComputeShortTimeEnergy_Silence(t *testing.T) {
	e := NewEnergy(2048, 512, 22050)
	for i, rms := range e.ComputeShortTimeEnergy(make([]float64, 8192)) {
		if rms != 0 {
			t.Fatalf("frame %d: RMS = %v for silence, want 0", i, rms)
		}
	}
}

func TestComputeLogEnergy_Floor(t *testing.T) {
	e := NewEnergy(2048, 512, 22050)
	logs := e.ComputeLogEnergy(make([]float64, 4096), 1e-10)
	wantFloor := 20 * math.Log10(1e-10)
	for i, db := range logs {
		if db != wantFloor {
			t.Fatalf("frame %d: log energy = %v, want floor %v", i, db, wantFloor)
		}
	}
}
