package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"shop-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MaxTrends é o número máximo de tendências mantidas no documento
const MaxTrends = 20

// DefaultMonthlyLimit é a cota mensal do plano gratuito
const DefaultMonthlyLimit = 10

var (
	ErrProductNotFound = errors.New("produto não encontrado")
	ErrInvalidTarget   = errors.New("preço alvo deve ser positivo")
)

// Store é o único escritor do documento de monitoramento.
// Toda operação lê o documento completo, altera uma coleção e grava apenas
// o campo alterado. As operações são serializadas dentro do processo.
type Store struct {
	mu           sync.Mutex
	backend      Backend
	logger       *logrus.Logger
	now          func() time.Time
	newID        func() string
	monthlyLimit int
}

// Option configura um Store
type Option func(*Store)

// WithClock substitui o relógio (usado em testes)
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator substitui o gerador de IDs
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithMonthlyLimit define a cota mensal. Vale também para documentos já gravados.
func WithMonthlyLimit(limit int) Option {
	return func(s *Store) {
		if limit > 0 {
			s.monthlyLimit = limit
		}
	}
}

// WithLogger define o logger
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New cria um Store sobre o backend informado
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:      backend,
		logger:       logrus.StandardLogger(),
		now:          time.Now,
		newID:        uuid.NewString,
		monthlyLimit: DefaultMonthlyLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults retorna o documento usado na primeira leitura
func (s *Store) Defaults() models.Document {
	return models.Document{
		TrackedProducts: []models.TrackedProduct{},
		Competitors:     []models.Competitor{},
		Trends:          []models.TrendingItem{},
		Usage: models.UsageData{
			AnalysesUsed: 0,
			MonthlyLimit: s.monthlyLimit,
			ResetDate:    NextReset(s.now()),
			IsPro:        false,
		},
		Settings: models.Settings{
			Notifications: true,
			Currency:      "USD",
		},
		PriceAlerts: []models.PriceAlert{},
	}
}

// Read retorna o documento completo, aplicando a virada mensal da cota se necessário
func (s *Store) Read(ctx context.Context) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx)
}

// Update grava apenas os campos presentes no patch
func (s *Store) Update(ctx context.Context, patch models.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, patch)
}

func (s *Store) read(ctx context.Context) (models.Document, error) {
	doc, err := s.backend.Read(ctx, s.Defaults())
	if err != nil {
		return models.Document{}, fmt.Errorf("erro ao ler documento: %w", err)
	}
	normalize(&doc)

	changed := false
	if doc.Usage.MonthlyLimit != s.monthlyLimit {
		s.logger.WithFields(logrus.Fields{"from": doc.Usage.MonthlyLimit, "to": s.monthlyLimit}).Info("Cota mensal ajustada")
		doc.Usage.MonthlyLimit = s.monthlyLimit
		changed = true
	}
	if rollover(&doc.Usage, s.now()) {
		s.logger.WithField("reset_date", doc.Usage.ResetDate).Info("Cota mensal reiniciada")
		changed = true
	}
	if changed {
		if err := s.write(ctx, models.Patch{Usage: &doc.Usage}); err != nil {
			return models.Document{}, err
		}
	}
	return doc, nil
}

func (s *Store) write(ctx context.Context, patch models.Patch) error {
	if patch.Empty() {
		return nil
	}
	if err := s.backend.Write(ctx, patch); err != nil {
		return fmt.Errorf("erro ao gravar documento: %w", err)
	}
	return nil
}

// mutate executa uma leitura-alteração-gravação sob o lock do Store
func (s *Store) mutate(ctx context.Context, fn func(doc *models.Document) (models.Patch, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(ctx)
	if err != nil {
		return err
	}
	patch, err := fn(&doc)
	if err != nil {
		return err
	}
	return s.write(ctx, patch)
}

// ClearData remove produtos, concorrentes, tendências e alertas
func (s *Store) ClearData(ctx context.Context) error {
	return s.mutate(ctx, func(doc *models.Document) (models.Patch, error) {
		products := []models.TrackedProduct{}
		competitors := []models.Competitor{}
		trends := []models.TrendingItem{}
		alerts := []models.PriceAlert{}
		return models.Patch{
			TrackedProducts: &products,
			Competitors:     &competitors,
			Trends:          &trends,
			PriceAlerts:     &alerts,
		}, nil
	})
}

// UpdateSettings aplica uma atualização parcial das preferências
func (s *Store) UpdateSettings(ctx context.Context, upd models.SettingsUpdate) (models.Settings, error) {
	var settings models.Settings
	err := s.mutate(ctx, func(doc *models.Document) (models.Patch, error) {
		settings = doc.Settings
		if upd.APIKey != nil {
			settings.APIKey = *upd.APIKey
		}
		if upd.OnboardingComplete != nil {
			settings.OnboardingComplete = *upd.OnboardingComplete
		}
		if upd.Notifications != nil {
			settings.Notifications = *upd.Notifications
		}
		if upd.AutoTrack != nil {
			settings.AutoTrack = *upd.AutoTrack
		}
		if upd.Currency != nil && *upd.Currency != "" {
			settings.Currency = *upd.Currency
		}
		return models.Patch{Settings: &settings}, nil
	})
	return settings, err
}

func normalize(doc *models.Document) {
	if doc.TrackedProducts == nil {
		doc.TrackedProducts = []models.TrackedProduct{}
	}
	if doc.Competitors == nil {
		doc.Competitors = []models.Competitor{}
	}
	if doc.Trends == nil {
		doc.Trends = []models.TrendingItem{}
	}
	if doc.PriceAlerts == nil {
		doc.PriceAlerts = []models.PriceAlert{}
	}
}
