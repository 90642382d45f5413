package vocal

import (
	"context"
	"fmt"
	"time"

	"github.com/clairvox/vocalis/logging"
	"github.com/clairvox/vocalis/transcode"
	"github.com/clairvox/vocalis/vocal/config"
)

// AnalyzerConfig holds configuration for a full analysis pipeline
type AnalyzerConfig struct {
	Extractor *ExtractorConfig                        `json:"extractor"`
	Decoder   *transcode.DecoderConfig                `json:"decoder"`
	Profiles  map[config.Part]config.VoicePartProfile `json:"profiles"`
}

// DefaultAnalyzerConfig returns the standard pipeline configuration
func DefaultAnalyzerConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		Extractor: DefaultExtractorConfig(),
		Decoder:   transcode.DefaultDecoderConfig(),
		Profiles:  config.DefaultProfiles(),
	}
}

// AnalysisRequest carries the per-recording inputs: which voice part to
// judge against, the optional reference pitch, and the optional battery
// test the recording belongs to. Each request is self-contained; the
// analyzer holds no state between calls.
type AnalysisRequest struct {
	Part       config.Part `json:"part"`
	TargetNote string      `json:"target_note,omitempty"` // scientific pitch notation; "" = no reference pitch
	TestID     string      `json:"test_id,omitempty"`     // battery exercise id ("T1".."T6"), optional
	AudioPath  string      `json:"audio_path,omitempty"`
}

// Analyzer runs the complete pipeline for one recording: decode ->
// extract features -> validity mask -> metrics -> diagnosis. Analyses
// share no mutable state, so one Analyzer may serve concurrent requests.
type Analyzer struct {
	config    *AnalyzerConfig
	extractor *FeatureExtractor
	decoder   *transcode.Decoder
	logger    logging.Logger
}

// NewAnalyzer creates an analyzer, validating the voice-part profiles
func NewAnalyzer(cfg *AnalyzerConfig) (*Analyzer, error) {
	if cfg == nil {
		cfg = DefaultAnalyzerConfig()
	}
	if cfg.Extractor == nil {
		cfg.Extractor = DefaultExtractorConfig()
	}
	if cfg.Profiles == nil {
		cfg.Profiles = config.DefaultProfiles()
	}

	for part, profile := range cfg.Profiles {
		if err := config.ValidateProfile(profile); err != nil {
			return nil, fmt.Errorf("profile %q: %w", part, err)
		}
	}

	extractor, err := NewFeatureExtractor(cfg.Extractor)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		config:    cfg,
		extractor: extractor,
		decoder:   transcode.NewDecoder(cfg.Decoder),
		logger:    logging.WithFields(logging.Fields{"component": "vocal_analyzer"}),
	}, nil
}

// ProfileFor resolves the profile for a request's voice part. An unknown
// part falls back to the generic wide window, loudly: the fallback is
// logged so a misconfigured part name cannot silently pass as a real one.
func (a *Analyzer) ProfileFor(part config.Part) config.VoicePartProfile {
	if profile, ok := a.config.Profiles[part]; ok {
		return profile
	}

	a.logger.Warn("unknown voice part, using generic wide-range profile", logging.Fields{
		"part": string(part),
	})
	return config.GenericProfile()
}

// AnalyzeWaveform analyzes an already-decoded mono waveform at the
// extractor's configured sample rate.
func (a *Analyzer) AnalyzeWaveform(pcm []float64, req AnalysisRequest) (*TestResult, error) {
	profile := a.ProfileFor(req.Part)

	series, err := a.extractor.ExtractFeatures(pcm)
	if err != nil {
		return nil, fmt.Errorf("extract features: %w", err)
	}

	mask, voicedRatio := ComputeValidityMask(series, profile)

	targetNote, testName := a.resolveTarget(req, profile)

	metrics, err := CalculateMetrics(series, mask, targetNote, profile)
	if err != nil {
		return nil, err
	}

	tags := GenerateDiagnosis(metrics, profile.Part)

	a.logger.Info("analysis complete", logging.Fields{
		"test_id":      req.TestID,
		"part":         string(req.Part),
		"frames":       series.Len(),
		"voiced_ratio": fmt.Sprintf("%.2f", voicedRatio),
		"confidence":   metrics.ConfidenceLabel,
	})

	return &TestResult{
		TestID:      req.TestID,
		TestName:    testName,
		AudioPath:   req.AudioPath,
		Series:      series,
		Metrics:     metrics,
		Tags:        tags,
		ProcessedAt: time.Now(),
	}, nil
}

// AnalyzeFile decodes a recording and analyzes it. A decode failure is
// logged and treated as "no waveform": the result carries empty series
// and sentinel metrics instead of an error, so the caller always has a
// reportable outcome.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string, req AnalysisRequest) (*TestResult, error) {
	req.AudioPath = path

	var pcm []float64
	audio, err := a.decoder.DecodeFile(ctx, path)
	if err != nil {
		a.logger.Warn("decode failed, analyzing as empty waveform", logging.Fields{
			"path":  path,
			"error": err.Error(),
		})
	} else {
		pcm = audio.PCM
	}

	return a.AnalyzeWaveform(pcm, req)
}

// resolveTarget picks the effective accuracy reference: an explicit
// request target wins; otherwise sustained-note battery tests use the
// part's default reference note; other exercises score no accuracy.
func (a *Analyzer) resolveTarget(req AnalysisRequest, profile config.VoicePartProfile) (targetNote, testName string) {
	targetNote = req.TargetNote

	if req.TestID != "" {
		if def, err := TestByID(req.TestID); err == nil {
			testName = def.Name
			if targetNote == "" && def.NeedsTarget {
				targetNote = profile.DefaultTargetNote
			}
		}
	}

	return targetNote, testName
}
