package temporal

import "math"

// Energy computes short-time energy features over a fixed frame/hop grid.
// The grid must match the pitch tracker's framing so that energy and F0
// series line up frame for frame.
type Energy struct {
	frameSize  int
	hopSize    int
	sampleRate int
}

// NewEnergy creates a new energy calculator
func NewEnergy(frameSize, hopSize, sampleRate int) *Energy {
	return &Energy{
		frameSize:  frameSize,
		hopSize:    hopSize,
		sampleRate: sampleRate,
	}
}

// ComputeShortTimeEnergy calculates RMS energy for overlapping frames
func (e *Energy) ComputeShortTimeEnergy(signal []float64) []float64 {
	if len(signal) < e.frameSize || e.hopSize <= 0 || e.frameSize <= 0 {
		return []float64{}
	}

	numFrames := (len(signal)-e.frameSize)/e.hopSize + 1
	energies := make([]float64, numFrames)

	for i := range numFrames {
		startIdx := i * e.hopSize
		endIdx := startIdx + e.frameSize

		sumSquares := 0.0
		for j := startIdx; j < endIdx; j++ {
			sumSquares += signal[j] * signal[j]
		}
		energies[i] = math.Sqrt(sumSquares / float64(e.frameSize))
	}

	return energies
}

// ComputeLogEnergy calculates log energy in dB scale with the given floor
func (e *Energy) ComputeLogEnergy(signal []float64, floor float64) []float64 {
	energies := e.ComputeShortTimeEnergy(signal)
	logEnergies := make([]float64, len(energies))

	for i, energy := range energies {
		if energy < floor {
			energy = floor
		}
		logEnergies[i] = 20.0 * math.Log10(energy)
	}

	return logEnergies
}

// NumFrames reports how many frames ComputeShortTimeEnergy will produce
// for a signal of the given length.
func (e *Energy) NumFrames(signalLen int) int {
	if signalLen < e.frameSize || e.hopSize <= 0 || e.frameSize <= 0 {
		return 0
	}
	return (signalLen-e.frameSize)/e.hopSize + 1
}
