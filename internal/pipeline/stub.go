package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golos/internal/models"
	"golos/internal/platform"
)

// Stub executors stand in for the real download/extract/transcribe
// implementations. They return canned data after a fixed delay so the
// full pipeline can be exercised without ffmpeg, models or network.

// StubDownloader fabricates metadata per platform and writes a mock
// media file instead of downloading.
type StubDownloader struct {
	Delay time.Duration
}

func (d *StubDownloader) FetchMetadata(ctx context.Context, url string) (*models.VideoMetadata, error) {
	if err := wait(ctx, d.Delay); err != nil {
		return nil, err
	}

	p := platform.Detect(url)
	meta := &models.VideoMetadata{
		Platform:    string(p),
		OriginalURL: url,
	}
	switch p {
	case platform.YouTube:
		meta.Title = "Test YouTube video"
		meta.Duration = 180
		meta.Thumbnail = "https://i.ytimg.com/vi/test/maxresdefault.jpg"
		meta.Description = "Stub YouTube video description"
	case platform.Instagram:
		meta.Title = "Instagram Reel"
		meta.Duration = 30
	case platform.VKontakte:
		meta.Title = "VK video"
		meta.Duration = 120
	case platform.TikTok:
		meta.Title = "TikTok video"
		meta.Duration = 15
	default:
		meta.Title = "Unknown video"
		meta.Duration = 60
	}
	return meta, nil
}

func (d *StubDownloader) FetchMedia(ctx context.Context, url, destPath string) (string, error) {
	if err := wait(ctx, d.Delay); err != nil {
		return "", err
	}

	path := destPath + ".mp4"
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte("mock video file"), 0644); err != nil {
		return "", fmt.Errorf("failed to write mock media: %w", err)
	}
	return path, nil
}

// StubExtractor pretends to extract the audio track and hands the media
// file straight to the transcriber.
type StubExtractor struct {
	Delay time.Duration
}

func (e *StubExtractor) ExtractAudio(ctx context.Context, mediaPath string) (string, error) {
	if err := wait(ctx, e.Delay); err != nil {
		return "", err
	}
	return mediaPath, nil
}

// StubTranscriber returns a canned transcription mentioning the input file.
type StubTranscriber struct {
	Delay time.Duration
}

func (t *StubTranscriber) Transcribe(ctx context.Context, audioPath, languageHint string) (*models.TranscriptionResult, error) {
	if err := wait(ctx, t.Delay); err != nil {
		return nil, err
	}

	name := filepath.Base(audioPath)
	lang := languageHint
	if lang == "" || lang == "auto" {
		lang = "ru"
	}
	return &models.TranscriptionResult{
		Text: fmt.Sprintf("This is a stub transcription for %s.", name),
		Segments: []models.TranscriptionSegment{
			{Start: 0, End: 5, Text: "This is a stub transcription", Confidence: 0.95},
			{Start: 5, End: 10, Text: "for " + name, Confidence: 0.92},
		},
		Language:       lang,
		Confidence:     0.93,
		ProcessingTime: t.Delay.Seconds(),
	}, nil
}

// wait sleeps for d unless the context ends first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
