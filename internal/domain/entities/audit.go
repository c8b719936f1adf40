package entities

import "time"

// Audit actions recorded against a digest.
const (
	ActionCreate   = "create"
	ActionConflict = "conflict"
	ActionDelete   = "delete"
)

// IsAuditAction reports whether action is one of the recorded actions.
func IsAuditAction(action string) bool {
	switch action {
	case ActionCreate, ActionConflict, ActionDelete:
		return true
	default:
		return false
	}
}

// AuditEntry represents a logged action in the system.
type AuditEntry struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	Digest    string         `json:"digest,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
