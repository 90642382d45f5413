package tonal

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// YinParams contains parameters for the YIN pitch tracker
type YinParams struct {
	SampleRate int     `json:"sample_rate"`
	WindowSize int     `json:"window_size"` // analysis window in samples
	Threshold  float64 `json:"threshold"`   // CMNDF absolute threshold (0.1-0.2 typical)
	MinFreq    float64 `json:"min_freq"`    // minimum detectable frequency (Hz)
	MaxFreq    float64 `json:"max_freq"`    // maximum detectable frequency (Hz)
}

// YinTracker estimates the fundamental frequency of a single audio frame
// using the YIN algorithm.
//
// References:
// - de Cheveigné, A., Kawahara, H. (2002). "YIN, a fundamental frequency estimator for speech and music"
// - Mauch, M., Dixon, S. (2014). "pYIN: A fundamental frequency estimator using probabilistic threshold distributions"
//
// The quadratic difference function is evaluated through an FFT-based
// cross-correlation rather than the naive O(W^2) loop, so a 2048-sample
// frame costs three FFTs instead of a million multiply-adds. The tracker
// is stateless per frame and safe for concurrent use from multiple
// goroutines as long as each goroutine uses its own instance.
type YinTracker struct {
	params YinParams

	minLag int
	maxLag int
}

// NewYinTracker creates a YIN tracker with defaults suited to solo voice
func NewYinTracker(sampleRate int) *YinTracker {
	tracker, _ := NewYinTrackerWithParams(YinParams{
		SampleRate: sampleRate,
		WindowSize: 2048,
		Threshold:  0.15,
		MinFreq:    65.41,   // C2
		MaxFreq:    1046.50, // C6
	})
	return tracker
}

// NewYinTrackerWithParams creates a YIN tracker with custom parameters
func NewYinTrackerWithParams(params YinParams) (*YinTracker, error) {
	if params.WindowSize <= 0 || params.WindowSize%2 != 0 {
		return nil, fmt.Errorf("window size must be positive and even, got %d", params.WindowSize)
	}
	if params.MinFreq <= 0 || params.MaxFreq <= params.MinFreq {
		return nil, fmt.Errorf("invalid frequency range [%.2f, %.2f]", params.MinFreq, params.MaxFreq)
	}
	if params.Threshold <= 0 || params.Threshold >= 1 {
		return nil, fmt.Errorf("threshold must be in (0, 1), got %.3f", params.Threshold)
	}

	halfWindow := params.WindowSize / 2

	minLag := int(math.Floor(float64(params.SampleRate) / params.MaxFreq))
	if minLag < 2 {
		minLag = 2
	}
	maxLag := int(math.Ceil(float64(params.SampleRate) / params.MinFreq))
	if maxLag > halfWindow-1 {
		maxLag = halfWindow - 1
	}
	if maxLag <= minLag {
		return nil, fmt.Errorf("frequency range [%.2f, %.2f] Hz is not resolvable with window %d at %d Hz",
			params.MinFreq, params.MaxFreq, params.WindowSize, params.SampleRate)
	}

	return &YinTracker{
		params: params,
		minLag: minLag,
		maxLag: maxLag,
	}, nil
}

// Params returns the tracker parameters
func (y *YinTracker) Params() YinParams {
	return y.params
}

// WindowSize returns the frame length DetectFrame expects
func (y *YinTracker) WindowSize() int {
	return y.params.WindowSize
}

// DetectFrame estimates the fundamental frequency of one frame.
//
// It returns the frequency in Hz and a voicing confidence in [0, 1].
// When no credible periodicity is found the frequency is NaN; the
// confidence still reflects the best periodicity seen so callers can
// apply their own voicing threshold.
func (y *YinTracker) DetectFrame(frame []float64) (freq, confidence float64, err error) {
	if len(frame) != y.params.WindowSize {
		return 0, 0, fmt.Errorf("frame size (%d) doesn't match window size (%d)", len(frame), y.params.WindowSize)
	}

	diff := y.differenceFunction(frame)
	cmndf := cumulativeMeanNormalize(diff)

	// First minimum below threshold within the lag range
	bestLag := -1
	for lag := y.minLag; lag <= y.maxLag; lag++ {
		if cmndf[lag] < y.params.Threshold {
			// Walk down to the bottom of this dip
			for lag+1 <= y.maxLag && cmndf[lag+1] < cmndf[lag] {
				lag++
			}
			bestLag = lag
			break
		}
	}

	if bestLag < 0 {
		// No dip below threshold: report the best periodicity seen
		// so the caller's voicing filter has something to work with.
		minVal := math.Inf(1)
		for lag := y.minLag; lag <= y.maxLag; lag++ {
			if cmndf[lag] < minVal {
				minVal = cmndf[lag]
			}
		}
		conf := 1.0 - minVal
		if conf < 0 {
			conf = 0
		}
		return math.NaN(), conf, nil
	}

	period := parabolicInterpolation(cmndf, bestLag)
	frequency := float64(y.params.SampleRate) / period

	conf := 1.0 - cmndf[bestLag]
	if conf > 1 {
		conf = 1
	}
	if conf < 0 {
		conf = 0
	}

	if frequency < y.params.MinFreq || frequency > y.params.MaxFreq {
		return math.NaN(), conf, nil
	}

	return frequency, conf, nil
}

// differenceFunction computes the YIN quadratic difference
//
//	d(tau) = sum_{j=0}^{N-1} (x[j] - x[j+tau])^2,  N = W/2
//
// expanded as d(tau) = E0 + E(tau) - 2*C(tau), where the running energies
// come from prefix sums and the cross-correlation term C comes from one
// FFT round trip.
func (y *YinTracker) differenceFunction(frame []float64) []float64 {
	w := y.params.WindowSize
	n := w / 2

	// Prefix energy: prefix[k] = sum of x[j]^2 for j < k
	prefix := make([]float64, w+1)
	for j, v := range frame {
		prefix[j+1] = prefix[j] + v*v
	}

	// C(tau) = sum_{j<n} x[j]*x[j+tau] via FFT cross-correlation.
	// Pad to 2W so lags up to n never wrap around.
	size := 2 * w
	padded := make([]float64, size)
	copy(padded, frame)
	kernel := make([]float64, size)
	copy(kernel, frame[:n])

	specFrame := fft.FFTReal(padded)
	specKernel := fft.FFTReal(kernel)

	product := make([]complex128, size)
	for i := range product {
		product[i] = specFrame[i] * cmplx.Conj(specKernel[i])
	}
	corr := fft.IFFT(product)

	diff := make([]float64, n)
	e0 := prefix[n]
	for tau := range n {
		eTau := prefix[tau+n] - prefix[tau]
		d := e0 + eTau - 2*real(corr[tau])
		if d < 0 {
			d = 0 // numerical noise from the FFT round trip
		}
		diff[tau] = d
	}
	diff[0] = 0

	return diff
}

// cumulativeMeanNormalize converts the difference function into the
// cumulative mean normalized difference function (CMNDF)
func cumulativeMeanNormalize(diff []float64) []float64 {
	cmndf := make([]float64, len(diff))
	cmndf[0] = 1.0

	runningSum := 0.0
	for tau := 1; tau < len(diff); tau++ {
		runningSum += diff[tau]
		if runningSum <= 0 {
			cmndf[tau] = 1.0
			continue
		}
		cmndf[tau] = diff[tau] * float64(tau) / runningSum
	}

	return cmndf
}

// parabolicInterpolation refines a discrete minimum location by fitting
// a parabola through the sample and its neighbors
func parabolicInterpolation(data []float64, idx int) float64 {
	if idx <= 0 || idx >= len(data)-1 {
		return float64(idx)
	}

	y1 := data[idx-1]
	y2 := data[idx]
	y3 := data[idx+1]

	a := (y1 - 2*y2 + y3) / 2
	b := (y3 - y1) / 2

	if a == 0 {
		return float64(idx)
	}

	shift := -b / (2 * a)
	if shift > 0.5 {
		shift = 0.5
	}
	if shift < -0.5 {
		shift = -0.5
	}

	return float64(idx) + shift
}
