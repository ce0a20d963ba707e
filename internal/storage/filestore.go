package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore はタスクごとに1つのJSONファイルを保存するスナップショットストア
type FileStore struct {
	dir string
}

// NewFileStore はファイルベースのスナップショットストアを作成する
// ディレクトリが存在しない場合は作成する
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Put はスナップショットを書き込む
// 一時ファイルに書いてからrenameすることで読み手が途中状態を見ないようにする
func (s *FileStore) Put(id string, data []byte) error {
	path := s.path(id)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", id, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to commit snapshot %s: %w", id, err)
	}
	return nil
}

// Get はスナップショットを読み込む
func (s *FileStore) Get(id string) ([]byte, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", id, err)
	}
	return data, nil
}

// Delete はスナップショットファイルを削除する
func (s *FileStore) Delete(id string) error {
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return ErrSnapshotNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", id, err)
	}
	return nil
}

// ListKeys は保存済みの全タスクIDを返す
func (s *FileStore) ListKeys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot directory: %w", err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	return keys, nil
}

// Close は何もしない（ファイルストアは接続を持たない）
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
