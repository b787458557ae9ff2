package store

import (
	"context"

	"shop-tracker/internal/models"
)

// AddCompetitor começa a seguir uma loja concorrente
func (s *Store) AddCompetitor(ctx context.Context, nc models.NewCompetitor) (models.Competitor, error) {
	var competitor models.Competitor
	err := s.mutate(ctx, func(doc *models.Document) (models.Patch, error) {
		now := s.now()
		competitor = models.Competitor{
			ID:          s.newID(),
			Name:        nc.Name,
			ShopURL:     nc.ShopURL,
			Products:    nc.Products,
			Followers:   nc.Followers,
			Rating:      nc.Rating,
			AddedAt:     now,
			LastUpdated: now,
		}
		competitors := append(doc.Competitors, competitor)
		return models.Patch{Competitors: &competitors}, nil
	})
	return competitor, err
}

// RemoveCompetitor deixa de seguir uma loja. IDs inexistentes não são erro.
func (s *Store) RemoveCompetitor(ctx context.Context, id string) error {
	return s.mutate(ctx, func(doc *models.Document) (models.Patch, error) {
		competitors := make([]models.Competitor, 0, len(doc.Competitors))
		for _, c := range doc.Competitors {
			if c.ID != id {
				competitors = append(competitors, c)
			}
		}
		return models.Patch{Competitors: &competitors}, nil
	})
}
