package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestMean(t *testing.T) {
	if got := Mean([]float64{1, 2, 3, 4}); !almostEqual(got, 2.5, 1e-12) {
		t.Errorf("Mean = %v, want 2.5", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
}

func TestStandardDeviation(t *testing.T) {
	// Constant input must report exactly zero spread.
	constant := []float64{300, 300, 300, 300, 300}
	if got := StandardDeviation(constant); got != 0 {
		t.Errorf("StandardDeviation(constant) = %v, want exactly 0", got)
	}

	// Population std dev of {2, 4, 4, 4, 5, 5, 7, 9} is exactly 2.
	if got := StandardDeviation([]float64{2, 4, 4, 4, 5, 5, 7, 9}); !almostEqual(got, 2.0, 1e-12) {
		t.Errorf("StandardDeviation = %v, want 2", got)
	}

	if got := StandardDeviation([]float64{42}); got != 0 {
		t.Errorf("StandardDeviation(single) = %v, want 0", got)
	}
}

func TestMedian(t *testing.T) {
	odd := []float64{5, 1, 3}
	if got := Median(odd); got != 3 {
		t.Errorf("Median(odd) = %v, want 3", got)
	}
	even := []float64{4, 1, 3, 2}
	if got := Median(even); got != 2.5 {
		t.Errorf("Median(even) = %v, want 2.5", got)
	}

	// Input must stay untouched.
	if odd[0] != 5 || even[0] != 4 {
		t.Error("Median modified its input")
	}
}

func TestMinMaxClamp(t *testing.T) {
	data := []float64{3, -1, 7, 0}
	if got := Min(data); got != -1 {
		t.Errorf("Min = %v, want -1", got)
	}
	if got := Max(data); got != 7 {
		t.Errorf("Max = %v, want 7", got)
	}
	if got := Clamp(250, 0, 200); got != 200 {
		t.Errorf("Clamp(250, 0, 200) = %v, want 200", got)
	}
	if got := Clamp(-3, 0, 200); got != 0 {
		t.Errorf("Clamp(-3, 0, 200) = %v, want 0", got)
	}
	if got := Clamp(42, 0, 200); got != 42 {
		t.Errorf("Clamp(42, 0, 200) = %v, want 42", got)
	}
}

func TestCents(t *testing.T) {
	if got := Cents(880, 440); !almostEqual(got, 1200, 1e-9) {
		t.Errorf("Cents(880, 440) = %v, want 1200", got)
	}
	if got := Cents(440, 880); !almostEqual(got, -1200, 1e-9) {
		t.Errorf("Cents(440, 880) = %v, want -1200", got)
	}
	if got := Cents(440, 440); got != 0 {
		t.Errorf("Cents(440, 440) = %v, want 0", got)
	}
	// One equal-tempered semitone up.
	if got := Cents(466.1637615, 440); !almostEqual(got, 100, 1e-6) {
		t.Errorf("Cents(semitone) = %v, want 100", got)
	}
	if got := Cents(0, 440); !math.IsNaN(got) {
		t.Errorf("Cents(0, 440) = %v, want NaN", got)
	}
	if got := Cents(440, -1); !math.IsNaN(got) {
		t.Errorf("Cents(440, -1) = %v, want NaN", got)
	}
}

func TestCentsDeviations(t *testing.T) {
	devs := CentsDeviations([]float64{220, 440, 880}, 440)
	want := []float64{-1200, 0, 1200}
	for i := range want {
		if !almostEqual(devs[i], want[i], 1e-9) {
			t.Errorf("CentsDeviations[%d] = %v, want %v", i, devs[i], want[i])
		}
	}
}
