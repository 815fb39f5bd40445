package worker

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type names as registered with the queue.
const (
	TypeReminderSweep   = "reminder:sweep"
	TypeReminderCleanup = "reminder:cleanup"
	TypeCalendarSync    = "calendar:sync"
)

// DueReminder is the message published for every reminder the sweep
// delivers. Consumers subscribe to the reminder channel and render it
// however they see fit.
type DueReminder struct {
	EventID   int64     `json:"event_id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	DateStart time.Time `json:"date_start"`
	RemindAt  time.Time `json:"remind_at"`
}

func NewReminderSweepTask() *asynq.Task {
	return asynq.NewTask(TypeReminderSweep, nil)
}

func NewReminderCleanupTask() *asynq.Task {
	return asynq.NewTask(TypeReminderCleanup, nil)
}

func NewCalendarSyncTask() *asynq.Task {
	return asynq.NewTask(TypeCalendarSync, nil)
}

func (d DueReminder) Marshal() ([]byte, error) {
	return json.Marshal(d)
}
