// Package queue defines message payloads exchanged over the message broker.
package queue

import "github.com/iliyamo/theatre-volunteer-shifts/internal/repository"

// ScheduleEmailQueue is the durable queue carrying volunteer notifications.
const ScheduleEmailQueue = "schedule.email"

// ScheduleEmailEvent asks the consumer to email a volunteer their current
// schedule. The event is self-contained: it carries everything needed to
// render and send so the consumer never queries the primary database.
type ScheduleEmailEvent struct {
	VolunteerID uint64                      `json:"volunteer_id"`
	Name        string                      `json:"name"`
	Email       string                      `json:"email"`
	Reason      string                      `json:"reason"` // "assigned", "unassigned", "swapped", "login-link"
	LoginURL    string                      `json:"login_url"`
	Shifts      []repository.VolunteerShift `json:"shifts"`
	QueuedAt    string                      `json:"queued_at"`
}
