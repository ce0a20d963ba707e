package tasks

import "golos/internal/models"

// IsTerminal は終端状態かどうかを返す
func IsTerminal(s models.TaskStatus) bool {
	return s == models.StatusCompleted || s == models.StatusFailed
}

// ValidTransition はライフサイクル上許可される遷移かどうかを返す
// 同一状態への更新（進捗の更新など）は終端状態以外では常に許可される
func ValidTransition(from, to models.TaskStatus) bool {
	if from == to {
		return !IsTerminal(from)
	}
	// failed は非終端状態からは常に到達可能
	if to == models.StatusFailed {
		return !IsTerminal(from)
	}

	switch from {
	case models.StatusPending:
		// downloading はURL由来のタスクのみ、file由来は直接 processing へ
		return to == models.StatusDownloading || to == models.StatusProcessing
	case models.StatusDownloading:
		return to == models.StatusProcessing
	case models.StatusProcessing:
		return to == models.StatusTranscribing
	case models.StatusTranscribing:
		return to == models.StatusCompleted
	default:
		return false
	}
}
