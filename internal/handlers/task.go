package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"golos/internal/export"
	"golos/internal/models"
	"golos/internal/pipeline"
	"golos/internal/platform"
	"golos/internal/tasks"
	"golos/internal/worker"
)

// allowedExtensions は受け付ける動画ファイルの拡張子
var allowedExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".wmv", ".flv", ".webm"}

// contentTypes はエクスポート形式ごとのContent-Type
var contentTypes = map[models.OutputFormat]string{
	models.FormatTXT:  "text/plain",
	models.FormatSRT:  "application/x-subrip",
	models.FormatVTT:  "text/vtt",
	models.FormatJSON: "application/json",
	models.FormatDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// TaskHandler はタスクAPIのハンドラー
type TaskHandler struct {
	store       *tasks.Store
	pool        *worker.Pool
	orch        *pipeline.Orchestrator
	exporter    *export.Exporter
	validator   *platform.Validator
	uploadDir   string
	maxFileSize int64 // bytes
}

// NewTaskHandler は新しいTaskHandlerを作成
func NewTaskHandler(
	store *tasks.Store,
	pool *worker.Pool,
	orch *pipeline.Orchestrator,
	exporter *export.Exporter,
	validator *platform.Validator,
	uploadDir string,
	maxFileSizeMB int64,
) *TaskHandler {
	return &TaskHandler{
		store:       store,
		pool:        pool,
		orch:        orch,
		exporter:    exporter,
		validator:   validator,
		uploadDir:   uploadDir,
		maxFileSize: maxFileSizeMB * 1024 * 1024,
	}
}

// Upload はアップロードされたファイルの文字起こしタスクを作成
// POST /api/v1/transcription/
func (h *TaskHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "no file provided"})
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !extensionAllowed(ext) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "unsupported file format; supported: " + strings.Join(allowedExtensions, ", "),
		})
	}
	if fh.Size > h.maxFileSize {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{
			"error": fmt.Sprintf("file too large; max size: %d MB", h.maxFileSize/(1024*1024)),
		})
	}

	taskID := uuid.New().String()

	// ファイルを保存
	filePath := filepath.Join(h.uploadDir, taskID+"_"+filepath.Base(fh.Filename))
	if err := saveUpload(fh, filePath); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to save file"})
	}

	params := h.paramsFromForm(c)
	params.SourcePath = filePath

	task, err := h.store.Create(taskID, models.SourceFile, filePath, params)
	if err != nil {
		os.Remove(filePath)
		return h.createError(c, err)
	}

	// バックグラウンド実行をスケジュール
	if err := h.pool.Submit(taskID, func(ctx context.Context) {
		h.orch.RunFile(ctx, taskID, filePath, params)
	}); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusAccepted, task)
}

// urlRequest はURL指定の作成リクエスト
type urlRequest struct {
	URL                 string `json:"url"`
	Language            string `json:"language"`
	OutputFormat        string `json:"output_format"`
	IncludeTimestamps   *bool  `json:"include_timestamps"`
	MaxLineLength       int    `json:"max_line_length"`
	MaxSubtitleDuration int    `json:"max_subtitle_duration"`
}

// FromURL はURL指定の文字起こしタスクを作成
// POST /api/v1/transcription/url
func (h *TaskHandler) FromURL(c echo.Context) error {
	var req urlRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "url is required"})
	}

	// タスク作成前にURLを検証する（オーケストレーターは検証しない）
	v := h.validator.Classify(req.URL)
	if !v.IsValid {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": v.Reason})
	}

	params := models.RequestParams{
		Language:            req.Language,
		OutputFormat:        models.OutputFormat(req.OutputFormat),
		IncludeTimestamps:   true,
		MaxLineLength:       req.MaxLineLength,
		MaxSubtitleDuration: req.MaxSubtitleDuration,
	}
	if req.IncludeTimestamps != nil {
		params.IncludeTimestamps = *req.IncludeTimestamps
	}
	if params.OutputFormat == "" {
		params.OutputFormat = models.FormatSRT
	}

	taskID := uuid.New().String()
	task, err := h.store.Create(taskID, models.SourceURL, req.URL, params)
	if err != nil {
		return h.createError(c, err)
	}

	url := req.URL
	if err := h.pool.Submit(taskID, func(ctx context.Context) {
		h.orch.RunURL(ctx, taskID, url, params)
	}); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusAccepted, task)
}

// Status はタスクの進行状況を取得
// GET /api/v1/transcription/:id/status
func (h *TaskHandler) Status(c echo.Context) error {
	task, err := h.store.Get(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if task == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"task_id":  task.ID,
		"status":   task.Status,
		"progress": task.Progress,
		"message":  task.Message,
		"error":    task.Error,
	})
}

// Result は完了したタスクの結果を取得
// GET /api/v1/transcription/:id/result
func (h *TaskHandler) Result(c echo.Context) error {
	task, err := h.store.Get(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if task == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}
	if task.Status != models.StatusCompleted {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "task is not completed yet; current status: " + string(task.Status),
		})
	}

	return c.JSON(http.StatusOK, task)
}

// Download は結果ファイルを生成してダウンロードさせる
// GET /api/v1/transcription/:id/download?format=srt
func (h *TaskHandler) Download(c echo.Context) error {
	task, err := h.store.Get(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if task == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}
	if task.Status != models.StatusCompleted || task.Result == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "task is not completed yet; current status: " + string(task.Status),
		})
	}

	format := models.OutputFormat(c.QueryParam("format"))
	if format == "" {
		format = task.RequestParams.OutputFormat
	}
	if format == "" {
		format = models.FormatSRT
	}

	path, err := h.exporter.Export(task.ID, task.Result, format)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	if ct, ok := contentTypes[format]; ok {
		c.Response().Header().Set(echo.HeaderContentType, ct)
	}
	return c.Attachment(path, "transcription_"+task.ID+"."+string(format))
}

// Delete はタスクと関連ファイルを削除
// DELETE /api/v1/transcription/:id
func (h *TaskHandler) Delete(c echo.Context) error {
	ok, err := h.store.Delete(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "task deleted"})
}

// List はタスク一覧を取得
// GET /api/v1/transcription/?skip=0&limit=100&status=completed
func (h *TaskHandler) List(c echo.Context) error {
	skip := 0
	if s := c.QueryParam("skip"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil {
			skip = parsed
		}
	}
	limit := 100
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}

	var status *models.TaskStatus
	if s := c.QueryParam("status"); s != "" {
		st := models.TaskStatus(s)
		status = &st
	}

	list, err := h.store.List(skip, limit, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"tasks": list,
		"total": len(list),
		"skip":  skip,
		"limit": limit,
	})
}

// Stats はステータスごとのタスク数を取得
// GET /api/v1/transcription/stats
func (h *TaskHandler) Stats(c echo.Context) error {
	counts, err := h.store.Stats()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	total := 0
	dist := make(map[string]int)
	for status, n := range counts {
		dist[string(status)] = n
		total += n
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"total_tasks":         total,
		"status_distribution": dist,
	})
}

// paramsFromForm はフォーム値から処理オプションを組み立てる
func (h *TaskHandler) paramsFromForm(c echo.Context) models.RequestParams {
	params := models.RequestParams{
		Language:            c.FormValue("language"),
		OutputFormat:        models.OutputFormat(c.FormValue("output_format")),
		IncludeTimestamps:   true,
		MaxLineLength:       80,
		MaxSubtitleDuration: 5,
	}
	if v := c.FormValue("include_timestamps"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			params.IncludeTimestamps = b
		}
	}
	if v := c.FormValue("max_line_length"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.MaxLineLength = n
		}
	}
	if v := c.FormValue("max_subtitle_duration"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.MaxSubtitleDuration = n
		}
	}
	if params.OutputFormat == "" {
		params.OutputFormat = models.FormatSRT
	}
	return params
}

func (h *TaskHandler) createError(c echo.Context, err error) error {
	if errors.Is(err, tasks.ErrDuplicateID) {
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func extensionAllowed(ext string) bool {
	for _, e := range allowedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func saveUpload(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
