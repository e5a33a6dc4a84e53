package jsonstore

import (
	"context"

	"github.com/nhasan/channelhub/internal/domain"
)

// AnalyticsRepo implements domain.AnalyticsRepository backed by a single JSON file.
type AnalyticsRepo struct {
	path string
}

// NewAnalyticsRepo creates an AnalyticsRepo persisting to the given file path.
func NewAnalyticsRepo(path string) *AnalyticsRepo {
	return &AnalyticsRepo{path: path}
}

func (r *AnalyticsRepo) Load(ctx context.Context) (map[string][]domain.Event, error) {
	events := make(map[string][]domain.Event)
	if err := loadDocument(ctx, r.path, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *AnalyticsRepo) Save(ctx context.Context, events map[string][]domain.Event) error {
	return saveDocument(ctx, r.path, events, true)
}
