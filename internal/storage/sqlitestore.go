package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS task_snapshots (
	id   TEXT PRIMARY KEY,
	data BLOB NOT NULL
);
`

// SQLiteStore はSQLiteをバックエンドにしたスナップショットストア
// FileStoreと同じ契約で差し替え可能
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore はデータベースに接続し、スキーマを初期化する
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	// ディレクトリが存在しない場合は作成
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 接続確認
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite設定
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	// スキーマ初期化
	if _, err := db.Exec(snapshotSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Put はスナップショットをUPSERTで保存する
func (s *SQLiteStore) Put(id string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO task_snapshots (id, data) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		id, data,
	)
	if err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", id, err)
	}
	return nil
}

// Get はスナップショットを読み込む
func (s *SQLiteStore) Get(id string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM task_snapshots WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", id, err)
	}
	return data, nil
}

// Delete はスナップショットを削除する
func (s *SQLiteStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM task_snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}

// ListKeys は保存済みの全IDを返す
func (s *SQLiteStore) ListKeys() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM task_snapshots`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		keys = append(keys, id)
	}
	return keys, rows.Err()
}

// Close はデータベース接続を閉じる
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
