package store

import (
	"context"

	"shop-tracker/internal/models"
)

// AddPriceAlert cria um alerta para o produto. A direção é definida na criação:
// below quando o alvo é menor que o preço atual, above caso contrário.
func (s *Store) AddPriceAlert(ctx context.Context, productID string, targetPrice float64) (models.PriceAlert, error) {
	if targetPrice <= 0 {
		return models.PriceAlert{}, ErrInvalidTarget
	}

	var alert models.PriceAlert
	err := s.mutate(ctx, func(doc *models.Document) (models.Patch, error) {
		product, ok := doc.Product(productID)
		if !ok {
			return models.Patch{}, ErrProductNotFound
		}

		alertType := models.AlertAbove
		if targetPrice < product.Price {
			alertType = models.AlertBelow
		}

		alert = models.PriceAlert{
			ID:           s.newID(),
			ProductID:    product.ID,
			ProductName:  product.Name,
			TargetPrice:  targetPrice,
			CurrentPrice: product.Price,
			Type:         alertType,
			Triggered:    false,
			CreatedAt:    s.now(),
		}
		alerts := append(doc.PriceAlerts, alert)
		return models.Patch{PriceAlerts: &alerts}, nil
	})
	return alert, err
}

// RemovePriceAlert remove um alerta. IDs inexistentes não são erro.
func (s *Store) RemovePriceAlert(ctx context.Context, id string) error {
	return s.mutate(ctx, func(doc *models.Document) (models.Patch, error) {
		alerts := make([]models.PriceAlert, 0, len(doc.PriceAlerts))
		for _, a := range doc.PriceAlerts {
			if a.ID != id {
				alerts = append(alerts, a)
			}
		}
		return models.Patch{PriceAlerts: &alerts}, nil
	})
}

// MarkAlertsTriggered marca os alertas pendentes informados como disparados,
// em uma única gravação. Retorna quantos alertas mudaram de estado.
func (s *Store) MarkAlertsTriggered(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	flipped := 0
	err := s.mutate(ctx, func(doc *models.Document) (models.Patch, error) {
		for i := range doc.PriceAlerts {
			alert := &doc.PriceAlerts[i]
			if _, ok := wanted[alert.ID]; ok && !alert.Triggered {
				alert.Triggered = true
				flipped++
			}
		}
		if flipped == 0 {
			return models.Patch{}, nil
		}
		return models.Patch{PriceAlerts: &doc.PriceAlerts}, nil
	})
	if err != nil {
		return 0, err
	}
	return flipped, nil
}
