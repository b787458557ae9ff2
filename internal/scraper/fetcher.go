package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Fetcher baixa páginas de loja respeitando um limite de requisições
type Fetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewFetcher cria um fetcher que faz no máximo perMinute requisições por minuto
func NewFetcher(perMinute int, logger *logrus.Logger) *Fetcher {
	if perMinute <= 0 {
		perMinute = 20
	}

	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeaders(map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9,pt-BR;q=0.8",
	})

	return &Fetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		logger:  logger,
	}
}

// Fetch baixa e interpreta a página
func (f *Fetcher) Fetch(ctx context.Context, url string) (*DocumentPage, error) {
	cleanURL := cleanURL(url)

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	f.logger.WithField("url", cleanURL).Debug("Baixando página")
	resp, err := f.client.R().SetContext(ctx).Get(cleanURL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("status code: %d", resp.StatusCode())
	}

	return NewDocumentPage(bytes.NewReader(resp.Body()), cleanURL)
}

func cleanURL(url string) string {
	parts := strings.Split(url, "#")
	return parts[0]
}
