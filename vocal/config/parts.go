package config

import (
	"fmt"
	"sort"
)

// Part is a typed voice-part key. Using a dedicated type (rather than a
// raw string into a map) makes an unknown part a load-time error instead
// of a silent wide-range default deep inside the metric math.
type Part string

const (
	PartSoprano  Part = "Soprano"
	PartAlto     Part = "Alto"
	PartTenor    Part = "Tenor"
	PartBaritone Part = "Baritone"
	PartBass     Part = "Bass"
)

// Parts lists the supported voice parts in score order
var Parts = []Part{PartSoprano, PartAlto, PartTenor, PartBaritone, PartBass}

// ParsePart resolves a user-supplied part name
func ParsePart(name string) (Part, error) {
	for _, p := range Parts {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown voice part %q (expected one of %v)", name, Parts)
}

// VoicePartProfile describes the static pitch configuration of one voice
// part: the plausible F0 window, the register-transition (passaggio)
// frequencies in ascending order, and display text.
type VoicePartProfile struct {
	Part        Part       `json:"part" yaml:"part"`
	RangeHz     [2]float64 `json:"range_hz" yaml:"range_hz"`
	PassaggioHz []float64  `json:"passaggio_hz" yaml:"passaggio_hz"`
	Desc        string     `json:"desc" yaml:"desc"`

	// DefaultTargetNote is the sustained-note reference pitch for this
	// part's before/after tests, in scientific pitch notation.
	DefaultTargetNote string `json:"default_target_note" yaml:"default_target_note"`
}

// PrimaryPassaggio returns the first (lowest) passaggio frequency, which
// bounds the pre-passaggio stability region.
func (p VoicePartProfile) PrimaryPassaggio() float64 {
	if len(p.PassaggioHz) == 0 {
		return 300.0
	}
	return p.PassaggioHz[0]
}

// InRange reports whether hz lies inside the part's F0 window (inclusive)
func (p VoicePartProfile) InRange(hz float64) bool {
	return hz >= p.RangeHz[0] && hz <= p.RangeHz[1]
}

// defaultProfiles is the built-in voice-part table. Passaggio frequencies
// use standard equal-tempered note values (F4=349.23, G4=392.00, E4=329.63,
// D4=293.66, Eb4=311.13).
var defaultProfiles = map[Part]VoicePartProfile{
	PartSoprano: {
		Part:              PartSoprano,
		RangeHz:           [2]float64{220, 1200}, // ~A3 to D6
		PassaggioHz:       []float64{349.23, 392.00},
		Desc:              "Primo (F4) / Secondo (G4)",
		DefaultTargetNote: "F4",
	},
	PartAlto: {
		Part:              PartAlto,
		RangeHz:           [2]float64{174, 700}, // ~F3 to F5
		PassaggioHz:       []float64{329.63, 349.23},
		Desc:              "Primo (E4) / Secondo (F4)",
		DefaultTargetNote: "E4",
	},
	PartTenor: {
		Part:              PartTenor,
		RangeHz:           [2]float64{130, 523}, // ~C3 to C5
		PassaggioHz:       []float64{349.23},
		Desc:              "Secondo (F4)",
		DefaultTargetNote: "F4",
	},
	PartBaritone: {
		Part:              PartBaritone,
		RangeHz:           [2]float64{98, 392}, // ~G2 to G4
		PassaggioHz:       []float64{329.63},
		Desc:              "Secondo (E4)",
		DefaultTargetNote: "E4",
	},
	PartBass: {
		Part:              PartBass,
		RangeHz:           [2]float64{65, 330}, // ~C2 to E4
		PassaggioHz:       []float64{293.66, 311.13},
		Desc:              "Primo (D4) / Secondo (Eb4)",
		DefaultTargetNote: "D4",
	},
}

// DefaultProfiles returns a copy of the built-in voice-part table
func DefaultProfiles() map[Part]VoicePartProfile {
	profiles := make(map[Part]VoicePartProfile, len(defaultProfiles))
	for part, profile := range defaultProfiles {
		profiles[part] = profile
	}
	return profiles
}

// ProfileFor looks up the built-in profile for a voice part. An unknown
// part is an error; callers that genuinely want a permissive window must
// opt into GenericProfile explicitly.
func ProfileFor(part Part) (VoicePartProfile, error) {
	profile, ok := defaultProfiles[part]
	if !ok {
		return VoicePartProfile{}, fmt.Errorf("no profile for voice part %q", part)
	}
	return profile, nil
}

// GenericProfile is the documented wide-window fallback for callers that
// cannot name a voice part. Using it should be logged by the caller; it
// disguises range misconfigurations if applied silently.
func GenericProfile() VoicePartProfile {
	return VoicePartProfile{
		Part:              Part("Generic"),
		RangeHz:           [2]float64{50, 2000},
		PassaggioHz:       []float64{300.0},
		Desc:              "Generic wide range (no part configured)",
		DefaultTargetNote: "C4",
	}
}

// ValidateProfile checks a single profile for coherence
func ValidateProfile(p VoicePartProfile) error {
	if p.Part == "" {
		return fmt.Errorf("profile has empty part name")
	}
	if p.RangeHz[0] <= 0 || p.RangeHz[1] <= p.RangeHz[0] {
		return fmt.Errorf("part %s: range_hz [%.1f, %.1f] is not a valid window", p.Part, p.RangeHz[0], p.RangeHz[1])
	}
	if len(p.PassaggioHz) == 0 {
		return fmt.Errorf("part %s: passaggio_hz must list at least one transition frequency", p.Part)
	}
	if !sort.Float64sAreSorted(p.PassaggioHz) {
		return fmt.Errorf("part %s: passaggio_hz must be in ascending order", p.Part)
	}
	for _, hz := range p.PassaggioHz {
		if hz <= 0 {
			return fmt.Errorf("part %s: passaggio frequency %.2f is not positive", p.Part, hz)
		}
	}
	return nil
}
