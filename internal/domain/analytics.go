package domain

import "context"

// Event is one analytics occurrence. UserEmail is absent for sessionless
// callers. No aggregation happens at write time.
type Event struct {
	Timestamp string `json:"timestamp"`
	UserEmail string `json:"user_email,omitempty"`
	UserAgent string `json:"user_agent"`
	IP        string `json:"ip"`
}

// AnalyticsRepository persists the analytics document: event name to its
// append-only occurrence list.
type AnalyticsRepository interface {
	Load(ctx context.Context) (map[string][]Event, error)
	Save(ctx context.Context, events map[string][]Event) error
}
