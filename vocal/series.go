package vocal

import "math"

// FrameSeries holds the time-aligned per-frame feature tracks produced by
// the extractor: frame center time in seconds, fundamental frequency in Hz
// (NaN where no pitch was found), RMS energy, and voicing confidence in
// [0, 1]. All four slices always have identical length and the time axis
// advances by exactly HopSize/SampleRate per frame.
//
// A FrameSeries is immutable once returned by the extractor; the octave
// cleaning pass happens before it is handed out.
type FrameSeries struct {
	Time       []float64 `json:"time"`
	F0         []float64 `json:"f0"`
	Energy     []float64 `json:"energy"`
	Confidence []float64 `json:"confidence"`

	SampleRate int `json:"sample_rate"`
	HopSize    int `json:"hop_size"`
}

// Len returns the number of frames in the series
func (fs *FrameSeries) Len() int {
	return len(fs.Time)
}

// Duration returns the time of the last frame in seconds, 0 when empty
func (fs *FrameSeries) Duration() float64 {
	if len(fs.Time) == 0 {
		return 0
	}
	return fs.Time[len(fs.Time)-1]
}

// Voiced reports whether frame i carries a pitch estimate
func (fs *FrameSeries) Voiced(i int) bool {
	return !math.IsNaN(fs.F0[i])
}
