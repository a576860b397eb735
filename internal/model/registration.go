package model

import "time"

// Registration is an event registration record. The forms engine only ever
// reads it — registrations are owned by the intake subsystem, and responses
// keep denormalized copies of the name/email rather than referencing it.
type Registration struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	RegistrationID string    `json:"registration_id"`
	CollegeName    string    `json:"college_name"`
	EventID        *int64    `json:"event_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
