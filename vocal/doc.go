// Package vocal analyzes short solo-voice recordings and derives
// objective pitch and energy metrics for coaching: accuracy against a
// target note, on-target ratio, pitch stability, and start-to-end drift.
//
// The pipeline is: decode (transcode package) -> feature extraction
// (per-frame F0, RMS energy, voicing confidence with octave-jump
// cleaning) -> validity mask (confidence, range, NaN filtering) -> metric
// calculators -> diagnosis text. Each stage is a pure function over the
// previous stage's output; analyses share no state and may run in
// parallel.
//
// Failure conditions (silence, noise, decode errors, missing target) are
// absorbed into sentinel metric values rather than raised as errors: the
// system's job is to always hand the coach a displayable result, even a
// degenerate one. The sentinel for uncomputable cent metrics is 999.0 so
// that "no pitch detected" can never be mistaken for "perfect pitch".
package vocal
