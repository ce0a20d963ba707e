package pipeline

import (
	"context"
	"log"
	"path/filepath"

	"golos/internal/models"
	"golos/internal/tasks"
)

// Orchestrator drives the stage sequence for one task as a background run.
// It never mutates a task directly: every state change goes through the
// task store, so concurrent readers only ever see complete snapshots.
// Stage failures are contained here and surfaced as task state, never
// returned to the caller that scheduled the run.
type Orchestrator struct {
	store       *tasks.Store
	downloader  Downloader
	extractor   Extractor
	transcriber Transcriber
	tempDir     string
}

// NewOrchestrator creates an orchestrator using the given stage executors.
func NewOrchestrator(store *tasks.Store, d Downloader, e Extractor, t Transcriber, tempDir string) *Orchestrator {
	return &Orchestrator{
		store:       store,
		downloader:  d,
		extractor:   e,
		transcriber: t,
		tempDir:     tempDir,
	}
}

// RunFile processes an uploaded file: extraction, then transcription.
func (o *Orchestrator) RunFile(ctx context.Context, taskID, filePath string, params models.RequestParams) {
	if !o.advance(taskID, models.StatusProcessing, 10, "processing started") {
		return
	}
	if !o.advance(taskID, models.StatusProcessing, 30, "extracting audio track") {
		return
	}

	audioPath, err := o.extractor.ExtractAudio(ctx, filePath)
	if err != nil {
		o.fail(taskID, "failed to extract audio", err)
		return
	}

	if !o.advance(taskID, models.StatusTranscribing, 50, "transcribing audio") {
		return
	}

	result, err := o.transcriber.Transcribe(ctx, audioPath, params.Language)
	if err != nil {
		o.fail(taskID, "failed to transcribe audio", err)
		return
	}

	o.complete(taskID, result)
}

// RunURL processes a remote video: acquisition first, which also yields
// the video metadata, then extraction and transcription.
func (o *Orchestrator) RunURL(ctx context.Context, taskID, url string, params models.RequestParams) {
	if !o.advance(taskID, models.StatusDownloading, 5, "downloading video") {
		return
	}

	meta, err := o.downloader.FetchMetadata(ctx, url)
	if err != nil {
		o.fail(taskID, "failed to fetch video metadata", err)
		return
	}

	dest := filepath.Join(o.tempDir, taskID+"_video")
	mediaPath, err := o.downloader.FetchMedia(ctx, url, dest)
	if err != nil {
		o.fail(taskID, "failed to download video", err)
		return
	}

	status := models.StatusProcessing
	progress := 25.0
	message := "video downloaded, processing started"
	ok, err := o.store.Update(taskID, tasks.Update{
		Status:   &status,
		Progress: &progress,
		Message:  &message,
		Metadata: meta,
	})
	if err != nil || !ok {
		o.stale(taskID, err)
		return
	}

	audioPath, err := o.extractor.ExtractAudio(ctx, mediaPath)
	if err != nil {
		o.fail(taskID, "failed to extract audio", err)
		return
	}

	if !o.advance(taskID, models.StatusTranscribing, 60, "transcribing audio") {
		return
	}

	result, err := o.transcriber.Transcribe(ctx, audioPath, params.Language)
	if err != nil {
		o.fail(taskID, "failed to transcribe audio", err)
		return
	}

	o.complete(taskID, result)
}

// advance moves the task to the given stage. A false return means the run
// must stop: the task was deleted mid-run or the transition was refused.
func (o *Orchestrator) advance(taskID string, status models.TaskStatus, progress float64, message string) bool {
	ok, err := o.store.Update(taskID, tasks.Update{
		Status:   &status,
		Progress: &progress,
		Message:  &message,
	})
	if err != nil || !ok {
		o.stale(taskID, err)
		return false
	}
	return true
}

func (o *Orchestrator) complete(taskID string, result *models.TranscriptionResult) {
	status := models.StatusCompleted
	progress := 100.0
	message := "transcription completed"
	ok, err := o.store.Update(taskID, tasks.Update{
		Status:   &status,
		Progress: &progress,
		Message:  &message,
		Result:   result,
	})
	if err != nil || !ok {
		o.stale(taskID, err)
	}
}

// fail records a stage failure on the task. The progress reset to 0 marks
// non-success, not "0% done". No partial result is retained.
func (o *Orchestrator) fail(taskID, message string, cause error) {
	log.Printf("Task %s failed: %s: %v", taskID, message, cause)

	status := models.StatusFailed
	progress := 0.0
	errMsg := cause.Error()
	ok, err := o.store.Update(taskID, tasks.Update{
		Status:   &status,
		Progress: &progress,
		Message:  &message,
		Error:    &errMsg,
	})
	if err != nil || !ok {
		o.stale(taskID, err)
	}
}

// stale logs an update that no longer has a task to land on. This happens
// when the task was deleted or swept while its run was still in flight;
// the run is abandoned, the task is not recreated.
func (o *Orchestrator) stale(taskID string, err error) {
	if err != nil {
		log.Printf("Abandoning run for task %s: %v", taskID, err)
		return
	}
	log.Printf("Abandoning run for deleted task %s", taskID)
}
