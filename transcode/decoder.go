package transcode

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/clairvox/vocalis/logging"
)

// AudioData represents one decoded recording: mono PCM at the analysis
// sample rate.
type AudioData struct {
	PCM        []float64     `json:"-"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	Duration   time.Duration `json:"duration"`
	SourcePath string        `json:"source_path,omitempty"`
}

// DecoderConfig holds decoder configuration. The decoder owns resampling
// and downmixing: whatever container and rate the recording arrives in,
// the analyzer receives mono samples at its configured rate.
type DecoderConfig struct {
	TargetSampleRate int           `json:"target_sample_rate"`
	MaxDuration      time.Duration `json:"max_duration"` // 0 = no limit
	FFmpegPath       string        `json:"ffmpeg_path"`
	Timeout          time.Duration `json:"timeout"`
}

// DefaultDecoderConfig returns the decoder configuration matched to the
// analysis pipeline (22050 Hz mono).
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TargetSampleRate: 22050,
		MaxDuration:      0,
		FFmpegPath:       "ffmpeg", // assume in PATH
		Timeout:          30 * time.Second,
	}
}

// Decoder decodes audio files through ffmpeg. Decode failures surface as
// errors; nothing is retried here, since a corrupt upload will not become
// less corrupt on the second attempt.
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{"component": "audio_decoder"}),
	}
}

// DecodeFile decodes an audio file to mono float64 PCM at the target rate
func (d *Decoder) DecodeFile(ctx context.Context, filename string) (*AudioData, error) {
	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	args := append([]string{"-i", filename}, d.buildFFmpegArgs()...)
	args = append(args, "pipe:1")

	d.logger.Debug("running ffmpeg", logging.Fields{
		"args": strings.Join(args, " "),
	})

	cmd := exec.CommandContext(ctx, d.config.FFmpegPath, args...)
	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			d.logger.Error(err, "ffmpeg decode failed", logging.Fields{
				"filename": filename,
				"stderr":   string(exitError.Stderr),
			})
		}
		return nil, fmt.Errorf("ffmpeg decode %q: %w", filename, err)
	}

	pcm := bytesToFloat64(output)

	return &AudioData{
		PCM:        pcm,
		SampleRate: d.config.TargetSampleRate,
		Channels:   1,
		Duration:   time.Duration(float64(len(pcm)) / float64(d.config.TargetSampleRate) * float64(time.Second)),
		SourcePath: filename,
	}, nil
}

// buildFFmpegArgs builds the output arguments: raw little-endian float64,
// mono, at the target rate.
func (d *Decoder) buildFFmpegArgs() []string {
	args := []string{
		"-f", "f64le",
		"-ac", "1",
		"-ar", strconv.Itoa(d.config.TargetSampleRate),
	}

	if d.config.MaxDuration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.2f", d.config.MaxDuration.Seconds()))
	}

	args = append(args, "-v", "error")
	return args
}

// bytesToFloat64 reinterprets raw f64le bytes as samples
func bytesToFloat64(data []byte) []float64 {
	n := len(data) / 8
	samples := make([]float64, n)
	for i := range n {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}
	return samples
}
