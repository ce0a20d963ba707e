package pipeline

import (
	"context"

	"golos/internal/models"
)

// Downloader acquires a remote video: its metadata and its media stream.
type Downloader interface {
	// FetchMetadata returns the video attributes without downloading media.
	FetchMetadata(ctx context.Context, url string) (*models.VideoMetadata, error)
	// FetchMedia downloads the media behind url to destPath (extension may
	// be appended) and returns the final path.
	FetchMedia(ctx context.Context, url, destPath string) (string, error)
}

// Extractor turns a media file into an audio file suitable for transcription.
type Extractor interface {
	ExtractAudio(ctx context.Context, mediaPath string) (string, error)
}

// Transcriber produces a transcription from an audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, languageHint string) (*models.TranscriptionResult, error)
}
