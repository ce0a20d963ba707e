package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golos/internal/models"
)

// ErrUnsupportedFormat is returned for an unknown export format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Exporter renders a transcription result into a file under the results
// directory. Files are named {taskID}.{format}; repeated exports for the
// same id and format overwrite.
type Exporter struct {
	dir string
}

// NewExporter creates an exporter writing into dir.
func NewExporter(dir string) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &Exporter{dir: dir}, nil
}

// Export writes the result in the requested format and returns the file path.
// An empty segment list yields a structurally valid file with an empty body.
func (e *Exporter) Export(taskID string, result *models.TranscriptionResult, format models.OutputFormat) (string, error) {
	var content string

	switch format {
	case models.FormatTXT:
		content = result.Text
	case models.FormatSRT:
		content = FormatSRT(result.Segments)
	case models.FormatVTT:
		content = FormatVTT(result.Segments)
	case models.FormatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal result: %w", err)
		}
		content = string(data)
	case models.FormatDOCX:
		// TODO: real DOCX writer; plain text stands in for now
		content = result.Text
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	path := filepath.Join(e.dir, taskID+"."+string(format))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// FormatSRT renders segments as SRT subtitles. Segments are emitted in
// input order and assumed already time-ordered.
func FormatSRT(segments []models.TranscriptionSegment) string {
	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n",
			i+1,
			formatSRTTime(seg.Start),
			formatSRTTime(seg.End),
			seg.Text,
		)
	}
	return b.String()
}

// FormatVTT renders segments as WebVTT.
func FormatVTT(segments []models.TranscriptionSegment) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n")
	for _, seg := range segments {
		fmt.Fprintf(&b, "\n%s --> %s\n%s\n",
			formatVTTTime(seg.Start),
			formatVTTTime(seg.End),
			seg.Text,
		)
	}
	return b.String()
}

// formatSRTTime converts seconds to SRT time format (HH:MM:SS,mmm).
// Milliseconds are truncated, not rounded.
func formatSRTTime(seconds float64) string {
	t := int(seconds)
	h := t / 3600
	m := (t % 3600) / 60
	s := t % 60
	ms := int((seconds - float64(t)) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// formatVTTTime converts seconds to VTT time format (HH:MM:SS.sss).
func formatVTTTime(seconds float64) string {
	t := int(seconds)
	h := t / 3600
	m := (t % 3600) / 60
	s := seconds - float64(h*3600+m*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, s)
}
