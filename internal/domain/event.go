package domain

import "engagement-dashboard/internal/calendar"

// DefaultEventType is used when an event is created without a type.
const DefaultEventType = "Event"

// EventTypes are the types offered by the event form. The column is free text.
var EventTypes = []string{"Event", "PR Release", "Article", "Webinar"}

// Event is a calendar entry (talk, PR release, webinar) whose effect on
// engagement is tracked. Corresponds to events table in PostgreSQL.
type Event struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Type      string           `json:"type"`
	StartDate calendar.DateKey `json:"start_date"`
	EndDate   calendar.DateKey `json:"end_date"`
	CreatedAt int64            `json:"created_at"`
}
