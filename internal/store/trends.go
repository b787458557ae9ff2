package store

import (
	"context"

	"shop-tracker/internal/models"
)

// AddTrend insere a tendência no início da lista e mantém apenas as MaxTrends mais recentes
func (s *Store) AddTrend(ctx context.Context, nt models.NewTrend) (models.TrendingItem, error) {
	var trend models.TrendingItem
	err := s.mutate(ctx, func(doc *models.Document) (models.Patch, error) {
		trend = models.TrendingItem{
			ID:          s.newID(),
			Keyword:     nt.Keyword,
			Category:    nt.Category,
			Growth:      nt.Growth,
			Volume:      nt.Volume,
			Competition: nt.Competition,
			DetectedAt:  s.now(),
		}
		if trend.Category == "" {
			trend.Category = "General"
		}

		trends := make([]models.TrendingItem, 0, len(doc.Trends)+1)
		trends = append(trends, trend)
		trends = append(trends, doc.Trends...)
		if len(trends) > MaxTrends {
			trends = trends[:MaxTrends]
		}
		return models.Patch{Trends: &trends}, nil
	})
	return trend, err
}

// RemoveTrend remove uma tendência. IDs inexistentes não são erro.
func (s *Store) RemoveTrend(ctx context.Context, id string) error {
	return s.mutate(ctx, func(doc *models.Document) (models.Patch, error) {
		trends := make([]models.TrendingItem, 0, len(doc.Trends))
		for _, t := range doc.Trends {
			if t.ID != id {
				trends = append(trends, t)
			}
		}
		return models.Patch{Trends: &trends}, nil
	})
}
