package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"shop-tracker/internal/models"
	"shop-tracker/internal/scraper"
	"shop-tracker/internal/store"

	"github.com/sirupsen/logrus"
)

const productURL = "https://shop.tiktok.com/view/product/1729"

const productHTML = `<html><body>
<h1 data-e2e="product-title">Garrafa Térmica 1L</h1>
<span data-e2e="product-price">$24.90</span>
<span data-e2e="sold-count">1.2K sold</span>
<span data-e2e="product-rating">4.7</span>
<span data-e2e="review-count">389 reviews</span>
</body></html>`

const sellerHTML = `<html><body>
<h2 data-e2e="shop-name">Loja do Zé</h2>
<span data-e2e="follower-count">12.5K followers</span>
<span data-e2e="product-count">87 products</span>
<span data-e2e="shop-rating">4.9</span>
</body></html>`

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeFetcher serve HTML fixo por URL
type fakeFetcher struct {
	pages map[string]string
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*scraper.DocumentPage, error) {
	f.calls++
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("status code: 404")
	}
	return scraper.ParseHTML(html, url)
}

func newTestService(t *testing.T, fetcher PageFetcher) (*Service, *store.Store) {
	t.Helper()
	registry, err := scraper.DefaultRegistry("")
	if err != nil {
		t.Fatalf("Failed to load registry: %v", err)
	}
	st := store.New(store.NewMemoryBackend(), store.WithLogger(quietLogger()))
	return New(st, registry, fetcher, quietLogger()), st
}

func TestTrackURLProductFromHTML(t *testing.T) {
	svc, st := newTestService(t, nil)
	ctx := context.Background()

	result, err := svc.TrackURL(ctx, productURL, productHTML)
	if err != nil {
		t.Fatalf("TrackURL failed: %v", err)
	}
	if result.Kind != "product" || !result.Created {
		t.Fatalf("Unexpected result %+v", result)
	}

	p := result.Product
	if p.Name != "Garrafa Térmica 1L" || p.Price != 24.90 || p.Sales != 1200 || p.Reviews != 389 {
		t.Errorf("Unexpected product %+v", p)
	}
	if p.Category != "General" || p.Seller != "Unknown Seller" {
		t.Errorf("Expected defaults, got category %q seller %q", p.Category, p.Seller)
	}

	doc, _ := st.Read(ctx)
	if len(doc.TrackedProducts) != 1 || len(doc.TrackedProducts[0].PriceHistory) != 1 {
		t.Errorf("Expected one product seeded with history, got %+v", doc.TrackedProducts)
	}
}

func TestTrackURLSameProductAppendsHistory(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{productURL: productHTML}}
	svc, st := newTestService(t, fetcher)
	ctx := context.Background()

	first, err := svc.TrackURL(ctx, productURL, "")
	if err != nil {
		t.Fatalf("TrackURL failed: %v", err)
	}

	cheaper := `<html><body>
<h1 data-e2e="product-title">Garrafa Térmica 1L</h1>
<span data-e2e="product-price">$19.90</span>
</body></html>`
	second, err := svc.TrackURL(ctx, productURL, cheaper)
	if err != nil {
		t.Fatalf("TrackURL failed: %v", err)
	}
	if second.Created || second.ID != first.ID {
		t.Fatalf("Expected update of %s, got %+v", first.ID, second)
	}

	doc, _ := st.Read(ctx)
	if len(doc.TrackedProducts) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(doc.TrackedProducts))
	}
	p := doc.TrackedProducts[0]
	if p.Price != 19.90 || len(p.PriceHistory) != 2 {
		t.Errorf("Expected new price appended, got %v %+v", p.Price, p.PriceHistory)
	}
	// vendas não encontradas na página não são sobrescritas
	if p.Sales != 1200 || len(p.SalesHistory) != 1 {
		t.Errorf("Sales should be kept, got %d %+v", p.Sales, p.SalesHistory)
	}
}

func TestTrackProductWithoutPriceKeepsValues(t *testing.T) {
	svc, st := newTestService(t, nil)
	ctx := context.Background()

	price, sales := 24.90, int64(100)
	first, err := svc.TrackProduct(ctx, models.ProductRequest{Name: "Garrafa", Price: &price, Sales: &sales, URL: productURL, Category: "Casa"})
	if err != nil || !first.Created {
		t.Fatalf("TrackProduct failed: %v %+v", err, first)
	}

	again, err := svc.TrackProduct(ctx, models.ProductRequest{Name: "Garrafa Térmica", URL: productURL})
	if err != nil {
		t.Fatalf("TrackProduct failed: %v", err)
	}
	if again.Created || again.ID != first.ID {
		t.Fatalf("Expected update of %s, got %+v", first.ID, again)
	}

	doc, _ := st.Read(ctx)
	p := doc.TrackedProducts[0]
	if p.Price != 24.90 || p.Sales != 100 || p.Category != "Casa" {
		t.Errorf("Missing fields must not overwrite stored values, got %+v", p)
	}
	if len(p.PriceHistory) != 1 || len(p.SalesHistory) != 1 {
		t.Errorf("Expected no new samples, got %+v %+v", p.PriceHistory, p.SalesHistory)
	}
	if p.Name != "Garrafa Térmica" {
		t.Errorf("Expected name updated, got %q", p.Name)
	}

	// preço zero informado é um valor
	zero := 0.0
	svc.TrackProduct(ctx, models.ProductRequest{Name: "Garrafa Térmica", Price: &zero, URL: productURL})
	doc, _ = st.Read(ctx)
	if p := doc.TrackedProducts[0]; p.Price != 0 || len(p.PriceHistory) != 2 {
		t.Errorf("Expected explicit zero recorded, got %v %+v", p.Price, p.PriceHistory)
	}
}

func TestTrackURLSeller(t *testing.T) {
	svc, st := newTestService(t, nil)
	ctx := context.Background()
	url := "https://www.tiktok.com/@lojadoze"

	result, err := svc.TrackURL(ctx, url, sellerHTML)
	if err != nil {
		t.Fatalf("TrackURL failed: %v", err)
	}
	c := result.Competitor
	if result.Kind != "seller" || c == nil || c.Name != "Loja do Zé" || c.Followers != 12500 || c.Products != 87 {
		t.Fatalf("Unexpected result %+v", result)
	}

	again, _ := svc.TrackURL(ctx, url, sellerHTML)
	if again.Created || again.ID != result.ID {
		t.Errorf("Same shop should not be added twice, got %+v", again)
	}
	doc, _ := st.Read(ctx)
	if len(doc.Competitors) != 1 {
		t.Errorf("Expected 1 competitor, got %d", len(doc.Competitors))
	}
}

func TestTrackURLErrors(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	testCases := []struct {
		name     string
		url      string
		html     string
		expected error
	}{
		{"Unknown host", "https://example.com/product/1", productHTML, scraper.ErrUnsupportedPage},
		{"Known host but not product or seller", "https://www.tiktok.com/foryou", productHTML, scraper.ErrUnsupportedPage},
		{"No name on page", productURL, "<html><body><p>vazio</p></body></html>", scraper.ErrExtractionUnavailable},
		{"No html and no fetcher", productURL, "", ErrNoFetcher},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.TrackURL(ctx, tc.url, tc.html); !errors.Is(err, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestExtractDoesNotPersist(t *testing.T) {
	svc, st := newTestService(t, nil)
	ctx := context.Background()

	extraction, err := svc.Extract(ctx, productURL, productHTML)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if extraction.Site != "tiktok-shop" || extraction.Product == nil || extraction.Product.Price != 24.90 {
		t.Errorf("Unexpected extraction %+v", extraction)
	}

	doc, _ := st.Read(ctx)
	if len(doc.TrackedProducts) != 0 {
		t.Error("Extract must not change the document")
	}
}

func TestRefreshProduct(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{productURL: productHTML}}
	svc, st := newTestService(t, fetcher)
	ctx := context.Background()

	tracked, _ := st.AddTrackedProduct(ctx, models.NewProduct{Name: "Garrafa", Price: 30, URL: productURL})

	updated, err := svc.RefreshProduct(ctx, tracked.ID)
	if err != nil {
		t.Fatalf("RefreshProduct failed: %v", err)
	}
	if updated.Price != 24.90 || len(updated.PriceHistory) != 2 {
		t.Errorf("Expected refreshed price with history, got %+v", updated)
	}
	if fetcher.calls != 1 {
		t.Errorf("Expected 1 fetch, got %d", fetcher.calls)
	}

	if _, err := svc.RefreshProduct(ctx, "missing"); !errors.Is(err, store.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestRecordTrendQuota(t *testing.T) {
	registry, _ := scraper.DefaultRegistry("")
	st := store.New(store.NewMemoryBackend(), store.WithMonthlyLimit(2), store.WithLogger(quietLogger()))
	svc := New(st, registry, nil, quietLogger())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.RecordTrend(ctx, models.NewTrend{Keyword: fmt.Sprintf("kw-%d", i)}); err != nil {
			t.Fatalf("RecordTrend %d failed: %v", i, err)
		}
	}

	if _, err := svc.RecordTrend(ctx, models.NewTrend{Keyword: "negado"}); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("Expected ErrQuotaExceeded, got %v", err)
	}

	doc, _ := st.Read(ctx)
	if len(doc.Trends) != 2 || doc.Usage.AnalysesUsed != 2 {
		t.Errorf("Denied trend must not be recorded, got %d trends, %d used", len(doc.Trends), doc.Usage.AnalysesUsed)
	}
	if doc.Trends[0].Keyword != "kw-1" || doc.Trends[0].Competition != models.CompetitionMedium {
		t.Errorf("Expected newest first with default competition, got %+v", doc.Trends[0])
	}
}

func TestRecordTrendInvalidCompetition(t *testing.T) {
	svc, st := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.RecordTrend(ctx, models.NewTrend{Keyword: "x", Competition: "extreme"})
	if !errors.Is(err, ErrInvalidCompetition) {
		t.Fatalf("Expected ErrInvalidCompetition, got %v", err)
	}
	usage, _ := st.Usage(ctx)
	if usage.AnalysesUsed != 0 {
		t.Error("Invalid trend must not consume quota")
	}
}

func TestConsumeQuota(t *testing.T) {
	registry, _ := scraper.DefaultRegistry("")
	st := store.New(store.NewMemoryBackend(), store.WithMonthlyLimit(1), store.WithLogger(quietLogger()))
	svc := New(st, registry, nil, quietLogger())
	ctx := context.Background()

	usage, err := svc.ConsumeQuota(ctx)
	if err != nil || usage.AnalysesUsed != 1 {
		t.Fatalf("Expected 1 used, got %+v (%v)", usage, err)
	}
	if _, err := svc.ConsumeQuota(ctx); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Expected ErrQuotaExceeded, got %v", err)
	}
}

func TestSetAlertUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t, nil)
	if _, err := svc.SetAlert(context.Background(), "missing", 10); !errors.Is(err, store.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}
