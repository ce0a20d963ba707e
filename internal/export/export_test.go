package export

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"golos/internal/models"
)

func testResult() *models.TranscriptionResult {
	return &models.TranscriptionResult{
		Text: "a",
		Segments: []models.TranscriptionSegment{
			{Start: 0.0, End: 5.5, Text: "a"},
		},
		Language: "ru",
	}
}

func TestFormatSRTSingleSegment(t *testing.T) {
	got := FormatSRT(testResult().Segments)
	want := "1\n00:00:00,000 --> 00:00:05,500\na\n"
	if got != want {
		t.Errorf("srt = %q, want %q", got, want)
	}
}

func TestFormatSRTMultipleSegments(t *testing.T) {
	segments := []models.TranscriptionSegment{
		{Start: 0, End: 5, Text: "first"},
		{Start: 5, End: 10.25, Text: "second"},
		{Start: 3661.5, End: 3725.25, Text: "third"},
	}
	got := FormatSRT(segments)
	want := "1\n00:00:00,000 --> 00:00:05,000\nfirst\n" +
		"\n2\n00:00:05,000 --> 00:00:10,250\nsecond\n" +
		"\n3\n01:01:01,500 --> 01:02:05,250\nthird\n"
	if got != want {
		t.Errorf("srt = %q, want %q", got, want)
	}
}

func TestFormatVTT(t *testing.T) {
	got := FormatVTT(testResult().Segments)
	want := "WEBVTT\n\n00:00:00.000 --> 00:00:05.500\na\n"
	if got != want {
		t.Errorf("vtt = %q, want %q", got, want)
	}
}

func TestFormatEmptySegments(t *testing.T) {
	if got := FormatSRT(nil); got != "" {
		t.Errorf("empty srt = %q, want empty string", got)
	}
	if got := FormatVTT(nil); got != "WEBVTT\n" {
		t.Errorf("empty vtt = %q, want header only", got)
	}
}

func TestExportWritesFilePerFormat(t *testing.T) {
	e, err := NewExporter(t.TempDir())
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	result := testResult()

	for _, format := range []models.OutputFormat{
		models.FormatTXT, models.FormatSRT, models.FormatVTT, models.FormatJSON, models.FormatDOCX,
	} {
		path, err := e.Export("task-1", result, format)
		if err != nil {
			t.Fatalf("export %s: %v", format, err)
		}
		if !strings.HasSuffix(path, "task-1."+string(format)) {
			t.Errorf("path = %q, want suffix task-1.%s", path, format)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("export file missing for %s: %v", format, err)
		}
	}
}

func TestExportJSONRoundTrips(t *testing.T) {
	e, err := NewExporter(t.TempDir())
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}

	path, err := e.Export("task-1", testResult(), models.FormatJSON)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var decoded models.TranscriptionResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Text != "a" || len(decoded.Segments) != 1 || decoded.Segments[0].End != 5.5 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	e, err := NewExporter(t.TempDir())
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	if _, err := e.Export("task-1", testResult(), "pdf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExportOverwrites(t *testing.T) {
	e, err := NewExporter(t.TempDir())
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}

	first, err := e.Export("task-1", testResult(), models.FormatTXT)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	changed := testResult()
	changed.Text = "b"
	second, err := e.Export("task-1", changed, models.FormatTXT)
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}
	if first != second {
		t.Errorf("paths differ: %q vs %q", first, second)
	}
	data, _ := os.ReadFile(second)
	if string(data) != "b" {
		t.Errorf("content = %q, want overwritten", data)
	}
}
