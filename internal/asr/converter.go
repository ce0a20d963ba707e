package asr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// SupportedFormats lists media formats the converter accepts
var SupportedFormats = []string{".mp4", ".avi", ".mov", ".mkv", ".wmv", ".flv", ".webm", ".mp3", ".m4a", ".aac", ".ogg", ".flac", ".wav", ".opus"}

// IsSupportedFormat checks if the file extension is a supported media format
func IsSupportedFormat(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, format := range SupportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}

// Converter extracts the audio track from a media file via ffmpeg,
// producing WAV (16kHz, mono) ready for the recognizer. It is the real
// Extractor wired into the pipeline.
type Converter struct {
	tempDir string
}

// NewConverter creates a converter writing its output under tempDir
func NewConverter(tempDir string) *Converter {
	return &Converter{tempDir: tempDir}
}

// ExtractAudio converts mediaPath to a WAV file next to the temp dir,
// named after the input file, and returns the output path
func (c *Converter) ExtractAudio(ctx context.Context, mediaPath string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	outputPath := filepath.Join(c.tempDir, base+"_audio.wav")
	if err := ConvertToWav(ctx, mediaPath, outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

// ConvertToWav converts a media file to WAV format (16kHz, mono)
func ConvertToWav(ctx context.Context, inputPath, outputPath string) error {
	// Check if ffmpeg is available
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found: please install ffmpeg to convert media files")
	}

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// -vn: drop the video stream
	// -ar 16000: sample rate 16kHz
	// -ac 1: mono channel
	// -f wav: output format
	// -y: overwrite output file
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", inputPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-f", "wav",
		"-y",
		outputPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}
