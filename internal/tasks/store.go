package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"golos/internal/models"
	"golos/internal/storage"
)

// ErrDuplicateID は既存IDでの作成時に返される
var ErrDuplicateID = errors.New("task id already exists")

// ErrInvalidTransition は許可されない状態遷移での更新時に返される
var ErrInvalidTransition = errors.New("invalid task state transition")

// Store はタスクのデータアクセス層
// メモリキャッシュと永続スナップショットを同期させる
// スナップショットが正であり、キャッシュは読み取りの最適化にすぎない
type Store struct {
	mu      sync.RWMutex
	cache   map[string]*models.Task
	snaps   storage.SnapshotStore
	cleaner *FileCleaner
}

// NewStore は新しいStoreを作成する
// cleanerはnil可（テスト時などファイル掃除が不要な場合）
func NewStore(snaps storage.SnapshotStore, cleaner *FileCleaner) *Store {
	return &Store{
		cache:   make(map[string]*models.Task),
		snaps:   snaps,
		cleaner: cleaner,
	}
}

// Create は新しいタスクを pending 状態で作成する
// IDが既に存在する場合は ErrDuplicateID を返す
func (s *Store) Create(id string, sourceType models.SourceType, sourceRef string, params models.RequestParams) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lookupLocked(id) != nil {
		return nil, ErrDuplicateID
	}

	now := time.Now().UTC()
	task := &models.Task{
		ID:            id,
		Status:        models.StatusPending,
		SourceType:    sourceType,
		SourceRef:     sourceRef,
		CreatedAt:     now,
		UpdatedAt:     now,
		Progress:      0,
		Message:       "task created, waiting for processing",
		RequestParams: params,
	}

	// 作成時の永続化失敗は呼び出し側にエラーとして返す
	if err := s.persist(task); err != nil {
		return nil, err
	}
	s.cache[id] = task

	return task.Clone(), nil
}

// Get はIDでタスクを取得する
// キャッシュになければスナップショットから復元し、キャッシュに載せる
// 存在しない場合は (nil, nil) を返す
func (s *Store) Get(id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.lookupLocked(id)
	if task == nil {
		return nil, nil
	}
	return task.Clone(), nil
}

// Update は指定されたフィールドだけを適用してタスクを更新する
// タスクが存在しない場合は false を返す（削除後の古い書き込みは静かに失敗する）
// 終端状態のタスクへの更新は同一終端状態の再表明のみ受け付ける
func (s *Store) Update(id string, upd Update) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.lookupLocked(id)
	if cur == nil {
		return false, nil
	}

	if IsTerminal(cur.Status) {
		if upd.Status != nil && *upd.Status == cur.Status {
			// 冪等な再表明は受け付けるが何も変えない
			return true, nil
		}
		return false, fmt.Errorf("%w: task %s is already %s", ErrInvalidTransition, id, cur.Status)
	}

	if upd.Status != nil && !ValidTransition(cur.Status, *upd.Status) {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur.Status, *upd.Status)
	}

	task := cur.Clone()
	if upd.Status != nil {
		task.Status = *upd.Status
	}
	if upd.Progress != nil {
		task.Progress = clampProgress(*upd.Progress)
	}
	if upd.Message != nil {
		task.Message = *upd.Message
	}
	if upd.Metadata != nil {
		task.Metadata = upd.Metadata
	}
	if upd.Result != nil {
		task.Result = upd.Result
	}
	if upd.Error != nil {
		task.Error = *upd.Error
	}

	// 終端状態の整合性: completed は result 必須、failed は error 必須
	if task.Status == models.StatusCompleted && task.Result == nil {
		return false, fmt.Errorf("%w: completed requires a result", ErrInvalidTransition)
	}
	if task.Status == models.StatusFailed && task.Error == "" {
		return false, fmt.Errorf("%w: failed requires an error", ErrInvalidTransition)
	}

	task.UpdatedAt = time.Now().UTC()
	if task.UpdatedAt.Before(task.CreatedAt) {
		task.UpdatedAt = task.CreatedAt
	}

	// 永続化失敗時もキャッシュは更新する（次回の書き込みで回復する）
	if err := s.persist(task); err != nil {
		log.Printf("Failed to persist task %s: %v", id, err)
	}
	s.cache[id] = task

	return true, nil
}

// Delete はタスクと関連ファイルを削除する
// 存在しない場合は false を返す
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	task := s.lookupLocked(id)
	if task == nil {
		s.mu.Unlock()
		return false, nil
	}
	delete(s.cache, id)

	if err := s.snaps.Delete(id); err != nil && !errors.Is(err, storage.ErrSnapshotNotFound) {
		log.Printf("Failed to delete snapshot for task %s: %v", id, err)
	}
	s.mu.Unlock()

	// 関連ファイルの削除はベストエフォート
	if s.cleaner != nil {
		s.cleaner.Remove(task)
	}

	return true, nil
}

// List は作成日時の降順でタスク一覧を返す
// statusが非nilの場合はフィルタし、フィルタ→ソート→ページングの順で適用する
// limitが0以下の場合は制限なし
func (s *Store) List(skip, limit int, status *models.TaskStatus) ([]*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadAllLocked(); err != nil {
		return nil, err
	}

	tasks := make([]*models.Task, 0, len(s.cache))
	for _, t := range s.cache {
		if status != nil && t.Status != *status {
			continue
		}
		tasks = append(tasks, t.Clone())
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	if skip < 0 {
		skip = 0
	}
	if skip >= len(tasks) {
		return []*models.Task{}, nil
	}
	tasks = tasks[skip:]
	if limit > 0 && limit < len(tasks) {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

// Stats はステータスごとのタスク数を返す
func (s *Store) Stats() (map[models.TaskStatus]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadAllLocked(); err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int)
	for _, t := range s.cache {
		counts[t.Status]++
	}
	return counts, nil
}

// lookupLocked はキャッシュ、なければスナップショットからタスクを探す
// 呼び出し側が s.mu を保持していること
func (s *Store) lookupLocked(id string) *models.Task {
	if t, ok := s.cache[id]; ok {
		return t
	}

	data, err := s.snaps.Get(id)
	if err != nil {
		// 読み込みエラーは NotFound 扱いに落とす
		if !errors.Is(err, storage.ErrSnapshotNotFound) {
			log.Printf("Failed to load snapshot for task %s: %v", id, err)
		}
		return nil
	}

	var task models.Task
	if err := json.Unmarshal(data, &task); err != nil {
		log.Printf("Failed to decode snapshot for task %s: %v", id, err)
		return nil
	}

	s.cache[id] = &task
	return &task
}

// loadAllLocked はまだキャッシュされていないスナップショットを全て読み込む
func (s *Store) loadAllLocked() error {
	keys, err := s.snaps.ListKeys()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	for _, id := range keys {
		if _, ok := s.cache[id]; !ok {
			s.lookupLocked(id)
		}
	}
	return nil
}

func (s *Store) persist(task *models.Task) error {
	data, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode task %s: %w", task.ID, err)
	}
	return s.snaps.Put(task.ID, data)
}

func clampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Update は部分更新で適用するフィールド群
// nilのフィールドは変更されない
type Update struct {
	Status   *models.TaskStatus
	Progress *float64
	Message  *string
	Metadata *models.VideoMetadata
	Result   *models.TranscriptionResult
	Error    *string
}
