package domain

import "context"

// User is a single account record, keyed by email in the users document.
// Password accounts carry PasswordHash; Google accounts carry GoogleID and
// leave PasswordHash empty. The two are not mutually exclusive for reads:
// a record is whatever the document says it is.
type User struct {
	Username      string        `json:"username"`
	PasswordHash  string        `json:"password_hash,omitempty"`
	GoogleID      string        `json:"google_id,omitempty"`
	ProfilePic    string        `json:"profile_pic,omitempty"`
	OAuthProvider string        `json:"oauth_provider,omitempty"`
	DownloadCount int           `json:"download_count"`
	JoinedChannels []ChannelJoin `json:"joined_channels,omitempty"`
}

// ChannelJoin records one channel joined by one user. Append-only: there is
// no operation that updates or removes a join.
type ChannelJoin struct {
	ChannelID string `json:"channelId"`
	Link      string `json:"link"`
	Platform  string `json:"platform"`
	JoinedAt  string `json:"joinedAt"`
}

// HasJoined reports whether the user already joined the given channel id.
func (u User) HasJoined(channelID string) bool {
	for _, j := range u.JoinedChannels {
		if j.ChannelID == channelID {
			return true
		}
	}
	return false
}

// FindUser looks up an account by email in a loaded users document.
func FindUser(users map[string]User, email string) (User, error) {
	user, ok := users[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

// UserRepository persists the users document. Load returns the whole mapping
// (empty, never nil, when the backing file does not exist yet) and Save
// rewrites it wholesale. Concurrent writers race: last writer wins.
type UserRepository interface {
	Load(ctx context.Context) (map[string]User, error)
	Save(ctx context.Context, users map[string]User) error
}
