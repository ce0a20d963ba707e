package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds the runtime configuration, read from environment variables.
type Config struct {
	Port string

	// DataDir is the root for all task files; the other directories
	// default to subdirectories of it.
	DataDir    string
	UploadDir  string
	TempDir    string
	ResultsDir string
	TasksDir   string

	// StoreBackend selects the snapshot backend: "file" or "sqlite".
	StoreBackend string
	SQLitePath   string

	Workers   int
	QueueSize int

	MaxAgeHours   int
	SweepInterval time.Duration

	// MaxFileSizeMB limits uploads.
	MaxFileSizeMB int64

	// StubPipeline wires the canned stage executors instead of the real
	// ones (no ffmpeg, model or network needed).
	StubPipeline bool
	StubDelay    time.Duration

	// ModelDir points at a sherpa-onnx model; required when StubPipeline
	// is off.
	ModelDir string
}

// Load reads the configuration from the environment, applying defaults.
func Load() *Config {
	dataDir := getEnv("DATA_DIR", "data")

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DataDir:       dataDir,
		UploadDir:     getEnv("UPLOAD_DIR", filepath.Join(dataDir, "uploads")),
		TempDir:       getEnv("TEMP_DIR", filepath.Join(dataDir, "temp")),
		ResultsDir:    getEnv("RESULTS_DIR", filepath.Join(dataDir, "results")),
		TasksDir:      getEnv("TASKS_DIR", filepath.Join(dataDir, "tasks")),
		StoreBackend:  getEnv("STORE_BACKEND", "file"),
		SQLitePath:    getEnv("SQLITE_PATH", filepath.Join(dataDir, "golos.db")),
		Workers:       getEnvInt("WORKERS", 4),
		QueueSize:     getEnvInt("QUEUE_SIZE", 64),
		MaxAgeHours:   getEnvInt("TASK_MAX_AGE_HOURS", 24),
		SweepInterval: getEnvDuration("SWEEP_INTERVAL", time.Hour),
		MaxFileSizeMB: int64(getEnvInt("MAX_FILE_SIZE_MB", 2048)),
		StubPipeline:  getEnvBool("STUB_PIPELINE", true),
		StubDelay:     getEnvDuration("STUB_DELAY", 2*time.Second),
		ModelDir:      getEnv("MODEL_DIR", ""),
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
