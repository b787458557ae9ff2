package tracker

import (
	"context"
	"errors"
	"fmt"

	"shop-tracker/internal/models"
	"shop-tracker/internal/scraper"
	"shop-tracker/internal/store"

	"github.com/sirupsen/logrus"
)

var (
	// ErrQuotaExceeded indica que a cota mensal de análises acabou
	ErrQuotaExceeded = errors.New("limite mensal de análises atingido")
	// ErrInvalidCompetition indica um nível de concorrência desconhecido
	ErrInvalidCompetition = errors.New("nível de concorrência inválido")
	// ErrNoFetcher indica que não há HTML nem fetcher para obter a página
	ErrNoFetcher = errors.New("nenhum HTML informado e download de páginas desativado")
)

// PageFetcher baixa uma página de loja
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*scraper.DocumentPage, error)
}

// Service é a fronteira de ações usada pela API e pelo bot
type Service struct {
	store    *store.Store
	registry *scraper.Registry
	fetcher  PageFetcher
	logger   *logrus.Logger
}

// New cria o serviço. fetcher pode ser nil; nesse caso só HTML enviado pelo chamador é aceito.
func New(st *store.Store, registry *scraper.Registry, fetcher PageFetcher, logger *logrus.Logger) *Service {
	return &Service{
		store:    st,
		registry: registry,
		fetcher:  fetcher,
		logger:   logger,
	}
}

// Extraction é o resultado de extrair uma página sem gravá-lo
type Extraction struct {
	Kind       string                `json:"kind"`
	Site       string                `json:"site"`
	Product    *models.NewProduct    `json:"product,omitempty"`
	Competitor *models.NewCompetitor `json:"competitor,omitempty"`
}

// Result é o resultado de monitorar uma URL
type Result struct {
	Kind       string                 `json:"kind"`
	ID         string                 `json:"id"`
	Created    bool                   `json:"created"`
	Product    *models.TrackedProduct `json:"product,omitempty"`
	Competitor *models.Competitor     `json:"competitor,omitempty"`
}

// Classify identifica a loja e o tipo de página pela URL
func (s *Service) Classify(url string) (string, scraper.Kind) {
	site, kind := s.registry.Classify(url)
	if site == nil {
		return "", scraper.KindNone
	}
	return site.Name, kind
}

// page usa o HTML informado ou baixa a página
func (s *Service) page(ctx context.Context, url, html string) (*scraper.DocumentPage, error) {
	if html != "" {
		return scraper.ParseHTML(html, url)
	}
	if s.fetcher == nil {
		return nil, ErrNoFetcher
	}
	return s.fetcher.Fetch(ctx, url)
}

func (s *Service) load(ctx context.Context, url, html string) (*scraper.Site, scraper.Kind, scraper.Page, error) {
	site, kind := s.registry.Classify(url)
	if kind == scraper.KindNone {
		return nil, kind, nil, fmt.Errorf("%w: %s", scraper.ErrUnsupportedPage, url)
	}

	page, err := s.page(ctx, url, html)
	if err != nil {
		return nil, kind, nil, err
	}
	return site, kind, page, nil
}

// Extract extrai o produto ou a loja da página sem alterar o documento
func (s *Service) Extract(ctx context.Context, url, html string) (Extraction, error) {
	site, kind, page, err := s.load(ctx, url, html)
	if err != nil {
		return Extraction{}, err
	}

	result := Extraction{Kind: kind.String(), Site: site.Name}
	switch kind {
	case scraper.KindProduct:
		p, err := site.ExtractProduct(page)
		if err != nil {
			return Extraction{}, err
		}
		np := p.NewProduct()
		result.Product = &np
	case scraper.KindSeller:
		seller, err := site.ExtractSeller(page)
		if err != nil {
			return Extraction{}, err
		}
		nc := seller.NewCompetitor()
		result.Competitor = &nc
	}
	return result, nil
}

// TrackURL extrai a página e começa a monitorar o produto ou seguir a loja.
// Um produto com a mesma URL já monitorado é atualizado, com registro no histórico.
func (s *Service) TrackURL(ctx context.Context, url, html string) (Result, error) {
	site, kind, page, err := s.load(ctx, url, html)
	if err != nil {
		return Result{}, err
	}

	if kind == scraper.KindSeller {
		seller, err := site.ExtractSeller(page)
		if err != nil {
			return Result{}, err
		}
		return s.trackSeller(ctx, seller.NewCompetitor())
	}

	p, err := site.ExtractProduct(page)
	if err != nil {
		return Result{}, err
	}

	existing, ok, err := s.store.FindProductByURL(ctx, p.URL)
	if err != nil {
		return Result{}, err
	}
	if ok {
		updated, found, err := s.store.UpdateTrackedProduct(ctx, existing.ID, p.Update())
		if err != nil {
			return Result{}, err
		}
		if found {
			return Result{Kind: kind.String(), ID: updated.ID, Product: &updated}, nil
		}
	}

	product, err := s.store.AddTrackedProduct(ctx, p.NewProduct())
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: kind.String(), ID: product.ID, Created: true, Product: &product}, nil
}

// TrackProduct monitora um produto com dados já extraídos.
// Se a URL já é monitorada, apenas os campos informados são atualizados.
func (s *Service) TrackProduct(ctx context.Context, req models.ProductRequest) (Result, error) {
	if req.URL != "" {
		existing, ok, err := s.store.FindProductByURL(ctx, req.URL)
		if err != nil {
			return Result{}, err
		}
		if ok {
			updated, found, err := s.store.UpdateTrackedProduct(ctx, existing.ID, req.Update())
			if err != nil {
				return Result{}, err
			}
			if found {
				return Result{Kind: scraper.KindProduct.String(), ID: updated.ID, Product: &updated}, nil
			}
		}
	}

	product, err := s.store.AddTrackedProduct(ctx, req.NewProduct())
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: scraper.KindProduct.String(), ID: product.ID, Created: true, Product: &product}, nil
}

// TrackSeller começa a seguir uma loja com dados já extraídos
func (s *Service) TrackSeller(ctx context.Context, nc models.NewCompetitor) (Result, error) {
	return s.trackSeller(ctx, nc)
}

func (s *Service) trackSeller(ctx context.Context, nc models.NewCompetitor) (Result, error) {
	if nc.ShopURL != "" {
		doc, err := s.store.Read(ctx)
		if err != nil {
			return Result{}, err
		}
		for _, c := range doc.Competitors {
			if c.ShopURL == nc.ShopURL {
				c := c
				return Result{Kind: scraper.KindSeller.String(), ID: c.ID, Competitor: &c}, nil
			}
		}
	}

	competitor, err := s.store.AddCompetitor(ctx, nc)
	if err != nil {
		return Result{}, err
	}
	s.logger.WithFields(logrus.Fields{"id": competitor.ID, "url": competitor.ShopURL}).Info("Concorrente adicionado")
	return Result{Kind: scraper.KindSeller.String(), ID: competitor.ID, Created: true, Competitor: &competitor}, nil
}

// RefreshProduct baixa novamente a página do produto e aplica os valores encontrados
func (s *Service) RefreshProduct(ctx context.Context, id string) (models.TrackedProduct, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return models.TrackedProduct{}, err
	}
	product, ok := doc.Product(id)
	if !ok {
		return models.TrackedProduct{}, store.ErrProductNotFound
	}

	site := s.registry.FindSite(product.URL)
	if site == nil {
		return models.TrackedProduct{}, fmt.Errorf("%w: %s", scraper.ErrUnsupportedPage, product.URL)
	}

	page, err := s.page(ctx, product.URL, "")
	if err != nil {
		return models.TrackedProduct{}, err
	}
	p, err := site.ExtractProduct(page)
	if err != nil {
		return models.TrackedProduct{}, err
	}

	updated, found, err := s.store.UpdateTrackedProduct(ctx, id, p.Update())
	if err != nil {
		return models.TrackedProduct{}, err
	}
	if !found {
		return models.TrackedProduct{}, store.ErrProductNotFound
	}

	s.logger.WithFields(logrus.Fields{
		"id":    id,
		"price": updated.Price,
	}).Debug("Produto atualizado")
	return updated, nil
}

// SetAlert cria um alerta de preço para o produto
func (s *Service) SetAlert(ctx context.Context, productID string, targetPrice float64) (models.PriceAlert, error) {
	return s.store.AddPriceAlert(ctx, productID, targetPrice)
}

// ConsumeQuota consome uma análise da cota mensal
func (s *Service) ConsumeQuota(ctx context.Context) (models.UsageData, error) {
	granted, err := s.store.Consume(ctx)
	if err != nil {
		return models.UsageData{}, err
	}
	if !granted {
		return models.UsageData{}, ErrQuotaExceeded
	}
	return s.store.Usage(ctx)
}

// RecordTrend grava o resultado de uma análise de tendência, consumindo uma análise da cota
func (s *Service) RecordTrend(ctx context.Context, nt models.NewTrend) (models.TrendingItem, error) {
	if nt.Competition == "" {
		nt.Competition = models.CompetitionMedium
	}
	if !nt.Competition.Valid() {
		return models.TrendingItem{}, fmt.Errorf("%w: %s", ErrInvalidCompetition, nt.Competition)
	}

	allowed, err := s.store.MayProceed(ctx)
	if err != nil {
		return models.TrendingItem{}, err
	}
	if !allowed {
		return models.TrendingItem{}, ErrQuotaExceeded
	}

	granted, err := s.store.Consume(ctx)
	if err != nil {
		return models.TrendingItem{}, err
	}
	if !granted {
		return models.TrendingItem{}, ErrQuotaExceeded
	}

	return s.store.AddTrend(ctx, nt)
}
