package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// profileFile is the on-disk shape of a voice-part override file
type profileFile struct {
	Parts []VoicePartProfile `yaml:"parts"`
}

// LoadProfiles reads a YAML voice-part table from path and returns a
// validated profile map. Parts present in the file replace the built-in
// entry; parts absent from the file keep their defaults.
func LoadProfiles(path string) (map[Part]VoicePartProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("voicepart config: open %q: %w", path, err)
	}
	defer f.Close()

	profiles, err := LoadProfilesFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("voicepart config: parse %q: %w", path, err)
	}
	return profiles, nil
}

// LoadProfilesFromReader decodes a YAML voice-part table from r and
// validates the result. Useful in tests where configs are constructed
// from string literals.
func LoadProfilesFromReader(r io.Reader) (map[Part]VoicePartProfile, error) {
	var file profileFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	profiles := DefaultProfiles()

	var errs []error
	for _, p := range file.Parts {
		if err := ValidateProfile(p); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := ParsePart(string(p.Part)); err != nil {
			errs = append(errs, err)
			continue
		}
		profiles[p.Part] = p
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return profiles, nil
}
