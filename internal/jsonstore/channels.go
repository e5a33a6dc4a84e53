package jsonstore

import (
	"context"

	"github.com/nhasan/channelhub/internal/domain"
)

// ChannelRepo implements domain.ChannelRepository backed by a single JSON file.
type ChannelRepo struct {
	path string
}

// NewChannelRepo creates a ChannelRepo persisting to the given file path.
func NewChannelRepo(path string) *ChannelRepo {
	return &ChannelRepo{path: path}
}

func (r *ChannelRepo) Load(ctx context.Context) (map[string]domain.Channel, error) {
	channels := make(map[string]domain.Channel)
	if err := loadDocument(ctx, r.path, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

func (r *ChannelRepo) Save(ctx context.Context, channels map[string]domain.Channel) error {
	return saveDocument(ctx, r.path, channels, true)
}
