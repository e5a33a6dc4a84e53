package domain

import "context"

// Channel is one channel record, keyed by id in the channels document.
// Channels created implicitly by a first join carry platform/link; channels
// created by the admin endpoint carry only members and a creation time.
type Channel struct {
	ID        string   `json:"id,omitempty"`
	Platform  string   `json:"platform,omitempty"`
	Link      string   `json:"link,omitempty"`
	Members   []string `json:"members"`
	JoinCount int      `json:"joinCount"`
	CreatedAt string   `json:"join_time,omitempty"`
}

// HasMember reports whether the email is already in the member list.
func (c Channel) HasMember(email string) bool {
	for _, m := range c.Members {
		if m == email {
			return true
		}
	}
	return false
}

// ChannelRepository persists the channels document with the same wholesale
// load/save contract as UserRepository.
type ChannelRepository interface {
	Load(ctx context.Context) (map[string]Channel, error)
	Save(ctx context.Context, channels map[string]Channel) error
}
