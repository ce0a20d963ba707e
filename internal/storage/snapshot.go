package storage

import "errors"

// ErrSnapshotNotFound はスナップショットが存在しない場合に返される
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore はタスクスナップショットの永続化層
// バックエンドを差し替えてもタスクストアの契約は変わらない
type SnapshotStore interface {
	// Put はIDに対応するスナップショットを保存する（上書き可）
	Put(id string, data []byte) error
	// Get はIDに対応するスナップショットを読み込む
	// 存在しない場合は ErrSnapshotNotFound を返す
	Get(id string) ([]byte, error)
	// Delete はスナップショットを削除する
	// 存在しない場合は ErrSnapshotNotFound を返す
	Delete(id string) error
	// ListKeys は保存済みの全IDを返す（順序は不定）
	ListKeys() ([]string, error)
	// Close はバックエンドを閉じる
	Close() error
}
