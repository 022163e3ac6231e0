package entity

import "time"

// Notification severity levels for in-app records.
const (
	NotifyInfo    = "INFO"
	NotifyWarning = "WARNING"
	NotifySuccess = "SUCCESS"
	NotifyError   = "ERROR"
)

// Notification is a persisted in-app record. Created by the event router,
// mutated only by read-state transitions, and serialized as-is onto the
// real-time socket.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
