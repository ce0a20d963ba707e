package asr

import (
	"context"
	"fmt"
	"os"
	"time"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"

	"golos/internal/models"
)

// Recognizer handles speech recognition using Sherpa-ONNX.
// It is the real Transcriber wired into the pipeline when a model
// directory is configured.
type Recognizer struct {
	config     *Config
	recognizer *sherpa.OfflineRecognizer
}

// NewRecognizer creates a new ASR recognizer with the given configuration
func NewRecognizer(config *Config) (*Recognizer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	sherpaConfig := sherpa.OfflineRecognizerConfig{
		FeatConfig: sherpa.FeatureConfig{
			SampleRate: config.SampleRate,
			FeatureDim: 80,
		},
		ModelConfig: sherpa.OfflineModelConfig{
			Transducer: sherpa.OfflineTransducerModelConfig{
				Encoder: config.EncoderPath,
				Decoder: config.DecoderPath,
				Joiner:  config.JoinerPath,
			},
			Tokens:     config.TokensPath,
			NumThreads: config.NumThreads,
			Debug:      0,
		},
	}

	recognizer := sherpa.NewOfflineRecognizer(&sherpaConfig)
	if recognizer == nil {
		return nil, fmt.Errorf("failed to create offline recognizer")
	}

	return &Recognizer{
		config:     config,
		recognizer: recognizer,
	}, nil
}

// Transcribe transcribes audio from a WAV file (16kHz mono).
// The language hint is ignored: the loaded model determines the language.
func (r *Recognizer) Transcribe(ctx context.Context, audioPath, languageHint string) (*models.TranscriptionResult, error) {
	startTime := time.Now()

	samples, err := r.readWavFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stream := sherpa.NewOfflineStream(r.recognizer)
	defer sherpa.DeleteOfflineStream(stream)

	stream.AcceptWaveform(r.config.SampleRate, samples)
	r.recognizer.Decode(stream)

	text := stream.GetResult().Text
	audioDuration := float64(len(samples)) / float64(r.config.SampleRate)

	result := &models.TranscriptionResult{
		Text:           text,
		Segments:       []models.TranscriptionSegment{},
		ProcessingTime: time.Since(startTime).Seconds(),
	}
	if text != "" {
		// Offline decoding yields no per-token timing; expose one segment
		// spanning the whole audio so subtitle exports stay usable.
		result.Segments = append(result.Segments, models.TranscriptionSegment{
			Start: 0,
			End:   audioDuration,
			Text:  text,
		})
	}
	return result, nil
}

// Close releases resources used by the recognizer
func (r *Recognizer) Close() error {
	if r.recognizer != nil {
		sherpa.DeleteOfflineRecognizer(r.recognizer)
		r.recognizer = nil
	}
	return nil
}

// readWavFile reads a WAV file and returns the audio samples
func (r *Recognizer) readWavFile(path string) ([]float32, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	// Use sherpa-onnx's built-in WAV reader
	samples := sherpa.ReadWave(path)
	if samples == nil || len(samples.Samples) == 0 {
		return nil, fmt.Errorf("failed to read WAV file or file is empty")
	}

	return samples.Samples, nil
}
