package models

import "time"

// Task は1件の文字起こしタスク
type Task struct {
	ID            string               `json:"task_id"`
	Status        TaskStatus           `json:"status"`
	SourceType    SourceType           `json:"source_type"`
	SourceRef     string               `json:"source_ref"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	Progress      float64              `json:"progress"`
	Message       string               `json:"message,omitempty"`
	Metadata      *VideoMetadata       `json:"video_metadata,omitempty"`
	Result        *TranscriptionResult `json:"result,omitempty"`
	Error         string               `json:"error,omitempty"`
	RequestParams RequestParams        `json:"request_params"`
}

// Clone はタスクの深いコピーを返す
// キャッシュの内容を呼び出し側から変更されないようにするため
func (t *Task) Clone() *Task {
	c := *t
	if t.Metadata != nil {
		m := *t.Metadata
		c.Metadata = &m
	}
	if t.Result != nil {
		r := *t.Result
		r.Segments = make([]TranscriptionSegment, len(t.Result.Segments))
		copy(r.Segments, t.Result.Segments)
		c.Result = &r
	}
	return &c
}

// TaskStatus はタスクのライフサイクル状態
type TaskStatus string

const (
	StatusPending      TaskStatus = "pending"
	StatusDownloading  TaskStatus = "downloading"
	StatusProcessing   TaskStatus = "processing"
	StatusTranscribing TaskStatus = "transcribing"
	StatusCompleted    TaskStatus = "completed"
	StatusFailed       TaskStatus = "failed"
)

// SourceType はタスクの入力種別
type SourceType string

const (
	SourceFile SourceType = "file"
	SourceURL  SourceType = "url"
)

// RequestParams は作成時に指定された処理オプション
type RequestParams struct {
	Language            string       `json:"language,omitempty"`
	OutputFormat        OutputFormat `json:"output_format,omitempty"`
	IncludeTimestamps   bool         `json:"include_timestamps"`
	MaxLineLength       int          `json:"max_line_length,omitempty"`
	MaxSubtitleDuration int          `json:"max_subtitle_duration,omitempty"`

	// SourcePath は内部処理用の解決済みファイルパス
	SourcePath string `json:"source_path,omitempty"`
}

// OutputFormat はエクスポート形式
type OutputFormat string

const (
	FormatTXT  OutputFormat = "txt"
	FormatSRT  OutputFormat = "srt"
	FormatVTT  OutputFormat = "vtt"
	FormatJSON OutputFormat = "json"
	FormatDOCX OutputFormat = "docx"
)

// VideoMetadata は取得ステージで判明した動画情報
type VideoMetadata struct {
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
	Description string  `json:"description,omitempty"`
	Platform    string  `json:"platform"`
	OriginalURL string  `json:"original_url,omitempty"`
}

// TranscriptionSegment はタイムスタンプ付きのテキスト区間
type TranscriptionSegment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"`
}

// TranscriptionResult は完了したタスクの成果物
type TranscriptionResult struct {
	Text           string                 `json:"text"`
	Segments       []TranscriptionSegment `json:"segments"`
	Language       string                 `json:"language,omitempty"`
	Confidence     float64                `json:"confidence,omitempty"`
	ProcessingTime float64                `json:"processing_time,omitempty"`
}
