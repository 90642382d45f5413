package tonal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Semitone offsets from C for the natural note letters
var noteSemitones = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// A4 reference frequency, equal temperament
const referenceA4 = 440.0

// NoteToHz resolves a note in scientific pitch notation ("A4", "F#4",
// "Eb3") to its equal-tempered frequency with A4 = 440 Hz.
func NoteToHz(name string) (float64, error) {
	s := strings.TrimSpace(name)
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid note name %q", name)
	}

	letter := s[0]
	if letter >= 'a' && letter <= 'g' {
		letter -= 'a' - 'A'
	}
	semitone, ok := noteSemitones[letter]
	if !ok {
		return 0, fmt.Errorf("invalid note letter %q in %q", string(s[0]), name)
	}

	rest := s[1:]
	switch {
	case strings.HasPrefix(rest, "#"), strings.HasPrefix(rest, "♯"):
		semitone++
		rest = strings.TrimPrefix(strings.TrimPrefix(rest, "#"), "♯")
	case strings.HasPrefix(rest, "b"), strings.HasPrefix(rest, "♭"):
		semitone--
		rest = strings.TrimPrefix(strings.TrimPrefix(rest, "b"), "♭")
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("invalid octave in note %q", name)
	}

	midi := 12*(octave+1) + semitone
	return referenceA4 * math.Pow(2, float64(midi-69)/12.0), nil
}

// MustNoteToHz is a convenience for static note constants; it panics on
// malformed input and is not intended for user-supplied strings.
func MustNoteToHz(name string) float64 {
	hz, err := NoteToHz(name)
	if err != nil {
		panic(err)
	}
	return hz
}
