package tasks

import (
	"testing"

	"golos/internal/models"
)

func TestValidTransition(t *testing.T) {
	cases := []struct {
		from, to models.TaskStatus
		want     bool
	}{
		{models.StatusPending, models.StatusDownloading, true},
		{models.StatusPending, models.StatusProcessing, true},
		{models.StatusPending, models.StatusFailed, true},
		{models.StatusPending, models.StatusCompleted, false},
		{models.StatusDownloading, models.StatusProcessing, true},
		{models.StatusDownloading, models.StatusTranscribing, false},
		{models.StatusProcessing, models.StatusTranscribing, true},
		{models.StatusProcessing, models.StatusCompleted, false},
		{models.StatusTranscribing, models.StatusCompleted, true},
		{models.StatusTranscribing, models.StatusFailed, true},
		// same-state progress updates are allowed while non-terminal
		{models.StatusProcessing, models.StatusProcessing, true},
		{models.StatusDownloading, models.StatusDownloading, true},
		// terminal states accept nothing
		{models.StatusCompleted, models.StatusFailed, false},
		{models.StatusCompleted, models.StatusCompleted, false},
		{models.StatusFailed, models.StatusPending, false},
		{models.StatusFailed, models.StatusFailed, false},
	}

	for _, c := range cases {
		if got := ValidTransition(c.from, c.to); got != c.want {
			t.Errorf("ValidTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []models.TaskStatus{models.StatusCompleted, models.StatusFailed} {
		if !IsTerminal(s) {
			t.Errorf("IsTerminal(%s) = false, want true", s)
		}
	}
	for _, s := range []models.TaskStatus{models.StatusPending, models.StatusDownloading, models.StatusProcessing, models.StatusTranscribing} {
		if IsTerminal(s) {
			t.Errorf("IsTerminal(%s) = true, want false", s)
		}
	}
}
