package model

import "time"

// AuditEntry records a dashboard mutation for the audit trail. Entries are
// queued to Redis on the request path and batch-inserted by a worker.
type AuditEntry struct {
	ID           int64     `json:"id"`
	UserEmail    string    `json:"user_email"`
	UserRole     string    `json:"user_role"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id,omitempty"`
	Details      string    `json:"details,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
