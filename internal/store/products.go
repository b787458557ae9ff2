package store

import (
	"context"

	"shop-tracker/internal/models"

	"github.com/sirupsen/logrus"
)

// AddTrackedProduct começa a monitorar um produto. A ordem de inserção é a ordem de monitoramento.
func (s *Store) AddTrackedProduct(ctx context.Context, np models.NewProduct) (models.TrackedProduct, error) {
	var product models.TrackedProduct
	err := s.mutate(ctx, func(doc *models.Document) (models.Patch, error) {
		now := s.now()
		product = models.TrackedProduct{
			ID:            s.newID(),
			Name:          np.Name,
			Price:         np.Price,
			OriginalPrice: np.OriginalPrice,
			Sales:         np.Sales,
			Rating:        np.Rating,
			Reviews:       np.Reviews,
			Category:      np.Category,
			Seller:        np.Seller,
			URL:           np.URL,
			ImageURL:      np.ImageURL,
			AddedAt:       now,
			LastUpdated:   now,
		}
		seedHistory(&product, now)

		products := append(doc.TrackedProducts, product)
		return models.Patch{TrackedProducts: &products}, nil
	})
	if err != nil {
		return models.TrackedProduct{}, err
	}

	s.logger.WithFields(logrus.Fields{"id": product.ID, "url": product.URL}).Info("Produto adicionado ao monitoramento")
	return product, nil
}

// UpdateTrackedProduct atualiza um produto e registra no histórico as mudanças de preço e vendas.
// Retorna false, sem erro, quando o produto não existe mais.
func (s *Store) UpdateTrackedProduct(ctx context.Context, id string, upd models.ProductUpdate) (models.TrackedProduct, bool, error) {
	var (
		updated                    models.TrackedProduct
		found                      bool
		priceChanged, salesChanged bool
	)
	err := s.mutate(ctx, func(doc *models.Document) (models.Patch, error) {
		product, ok := doc.Product(id)
		if !ok {
			return models.Patch{}, nil
		}
		found = true

		now := s.now()
		priceChanged, salesChanged = recordHistory(product, upd, now)
		applyUpdate(product, upd)
		product.LastUpdated = now

		updated = *product
		return models.Patch{TrackedProducts: &doc.TrackedProducts}, nil
	})
	if err == nil && (priceChanged || salesChanged) {
		s.logger.WithFields(logrus.Fields{
			"id":    id,
			"price": updated.Price,
			"sales": updated.Sales,
		}).Info("Histórico do produto atualizado")
	}
	return updated, found, err
}

// RemoveTrackedProduct deixa de monitorar um produto. IDs inexistentes não são erro.
func (s *Store) RemoveTrackedProduct(ctx context.Context, id string) error {
	return s.mutate(ctx, func(doc *models.Document) (models.Patch, error) {
		products := make([]models.TrackedProduct, 0, len(doc.TrackedProducts))
		for _, p := range doc.TrackedProducts {
			if p.ID != id {
				products = append(products, p)
			}
		}
		return models.Patch{TrackedProducts: &products}, nil
	})
}

// FindProductByURL retorna o produto monitorado com a URL informada
func (s *Store) FindProductByURL(ctx context.Context, url string) (models.TrackedProduct, bool, error) {
	doc, err := s.Read(ctx)
	if err != nil {
		return models.TrackedProduct{}, false, err
	}
	product, ok := doc.ProductByURL(url)
	if !ok {
		return models.TrackedProduct{}, false, nil
	}
	return *product, true, nil
}

func applyUpdate(p *models.TrackedProduct, upd models.ProductUpdate) {
	if upd.Name != nil && *upd.Name != "" {
		p.Name = *upd.Name
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.OriginalPrice != nil {
		p.OriginalPrice = upd.OriginalPrice
	}
	if upd.Sales != nil {
		p.Sales = *upd.Sales
	}
	if upd.Rating != nil {
		p.Rating = *upd.Rating
	}
	if upd.Reviews != nil {
		p.Reviews = *upd.Reviews
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.Seller != nil {
		p.Seller = *upd.Seller
	}
	if upd.ImageURL != nil {
		p.ImageURL = *upd.ImageURL
	}
}
