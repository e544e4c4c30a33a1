package ws

import (
	"encoding/json"
	"time"

	"jobpulse/internal/repository"
)

// RunFinishedEvent is pushed to every connected client when a background run
// settles, scheduled or manual.
type RunFinishedEvent struct {
	Type          string   `json:"type"`
	Kind          string   `json:"kind"`
	Trigger       string   `json:"trigger"`
	Status        string   `json:"status"`
	Fetched       int      `json:"fetched,omitempty"`
	Inserted      int      `json:"inserted,omitempty"`
	Refreshed     int      `json:"refreshed,omitempty"`
	Unchanged     int      `json:"unchanged,omitempty"`
	Rejected      int      `json:"rejected,omitempty"`
	Affected      int64    `json:"affected,omitempty"`
	FailedSources []string `json:"failed_sources,omitempty"`
	FinishedAt    string   `json:"finished_at"`
}

// NotifyRunFinished serializes the record and broadcasts it. A nil hub is a
// no-op.
func NotifyRunFinished(h *Hub, rec repository.RunRecord) {
	if h == nil {
		return
	}
	evt := RunFinishedEvent{
		Type:          "run_finished",
		Kind:          rec.Kind,
		Trigger:       rec.Trigger,
		Status:        rec.Status,
		Fetched:       rec.Fetched,
		Inserted:      rec.Inserted,
		Refreshed:     rec.Refreshed,
		Unchanged:     rec.Unchanged,
		Rejected:      rec.Rejected,
		Affected:      rec.Affected,
		FailedSources: rec.FailedSources,
		FinishedAt:    rec.FinishedAt.UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(b)
}
