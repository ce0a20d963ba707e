package tasks

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"golos/internal/models"
)

// FileCleaner はタスクに紐づくファイルを削除する
// 対象: アップロード元ファイル、一時ファイル、エクスポート結果
// ファイル名はタスクIDのプレフィックスで対応づける
type FileCleaner struct {
	uploadDir  string
	tempDir    string
	resultsDir string
}

// NewFileCleaner は新しいFileCleanerを作成する
func NewFileCleaner(uploadDir, tempDir, resultsDir string) *FileCleaner {
	return &FileCleaner{
		uploadDir:  uploadDir,
		tempDir:    tempDir,
		resultsDir: resultsDir,
	}
}

// Remove はタスクの関連ファイルを全て削除する
// 個々の失敗はログに残して続行する（ベストエフォート）
func (c *FileCleaner) Remove(task *models.Task) {
	var paths []string

	// 解決済みのソースファイル
	if p := task.RequestParams.SourcePath; p != "" {
		paths = append(paths, p)
	}

	// タスクIDプレフィックスのファイルを各ディレクトリから収集
	for _, dir := range []string{c.uploadDir, c.tempDir, c.resultsDir} {
		if dir == "" {
			continue
		}
		paths = append(paths, prefixed(dir, task.ID)...)
	}

	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			if !os.IsNotExist(err) {
				log.Printf("Failed to remove file %s for task %s: %v", p, task.ID, err)
			}
			continue
		}
		log.Printf("Removed file %s for task %s", p, task.ID)
	}
}

// prefixed はdir直下でタスクIDから始まるファイルの一覧を返す
func prefixed(dir, taskID string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), taskID) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths
}
