package store

import (
	"context"
	"time"

	"shop-tracker/internal/models"
)

// NextReset retorna o primeiro instante do mês seguinte a t, no fuso de t
func NextReset(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
}

// rollover zera o contador quando a data de virada já passou
func rollover(usage *models.UsageData, now time.Time) bool {
	if !now.After(usage.ResetDate) {
		return false
	}
	usage.AnalysesUsed = 0
	usage.ResetDate = NextReset(now)
	return true
}

// MayProceed informa se uma ação medida pode ser executada
func (s *Store) MayProceed(ctx context.Context) (bool, error) {
	doc, err := s.Read(ctx)
	if err != nil {
		return false, err
	}
	return doc.Usage.Allows(), nil
}

// Consume relê o documento, verifica a cota novamente e só então incrementa
// o contador. Retorna false quando a cota está esgotada.
func (s *Store) Consume(ctx context.Context) (bool, error) {
	granted := false
	err := s.mutate(ctx, func(doc *models.Document) (models.Patch, error) {
		if !doc.Usage.Allows() {
			return models.Patch{}, nil
		}
		usage := doc.Usage
		usage.AnalysesUsed++
		granted = true
		return models.Patch{Usage: &usage}, nil
	})
	if err != nil {
		return false, err
	}
	return granted, nil
}

// Usage retorna os dados de uso atuais
func (s *Store) Usage(ctx context.Context) (models.UsageData, error) {
	doc, err := s.Read(ctx)
	if err != nil {
		return models.UsageData{}, err
	}
	return doc.Usage, nil
}

// ResetUsage zera o contador do mês corrente sem alterar a data de virada
func (s *Store) ResetUsage(ctx context.Context) error {
	return s.mutate(ctx, func(doc *models.Document) (models.Patch, error) {
		usage := doc.Usage
		usage.AnalysesUsed = 0
		return models.Patch{Usage: &usage}, nil
	})
}
