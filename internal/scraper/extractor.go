package scraper

import (
	"errors"

	"shop-tracker/internal/models"
)

var (
	// ErrExtractionUnavailable indica que nem o nome da entidade foi encontrado
	ErrExtractionUnavailable = errors.New("dados indisponíveis nesta página")
	// ErrUnsupportedPage indica uma URL que não é produto nem loja conhecida
	ErrUnsupportedPage = errors.New("página não suportada")
)

// Field é a lista ordenada de estratégias de um campo, da mais específica à mais genérica
type Field struct {
	Strategies []Strategy `yaml:"strategies"`
	Max        float64    `yaml:"max,omitempty"`     // valores acima são descartados
	Default    string     `yaml:"default,omitempty"` // usado por campos de texto
}

// Extractor aplica as estratégias de um perfil usando os separadores numéricos da loja
type Extractor struct {
	Locale Locale
}

// Text retorna o primeiro texto não vazio; as estratégias seguintes não são tentadas
func (e Extractor) Text(page Page, f Field) (string, bool) {
	for _, s := range f.Strategies {
		if text, ok := page.Lookup(s); ok {
			return text, true
		}
	}
	if f.Default != "" {
		return f.Default, false
	}
	return "", false
}

// Number retorna o primeiro valor numérico válido. Um texto que não normaliza
// ou passa de Max faz a busca seguir para a próxima estratégia.
func (e Extractor) Number(page Page, f Field) (float64, bool) {
	for _, s := range f.Strategies {
		text, ok := page.Lookup(s)
		if !ok {
			continue
		}
		value, ok := e.Locale.ParseNumber(text)
		if !ok {
			continue
		}
		if f.Max > 0 && value > f.Max {
			continue
		}
		return value, true
	}
	return 0, false
}

// Count é Number arredondado (contagens ausentes valem 0)
func (e Extractor) Count(page Page, f Field) (int64, bool) {
	for _, s := range f.Strategies {
		text, ok := page.Lookup(s)
		if !ok {
			continue
		}
		value, ok := e.Locale.ParseCount(text)
		if !ok {
			continue
		}
		if f.Max > 0 && float64(value) > f.Max {
			continue
		}
		return value, true
	}
	return 0, false
}

// Product é o candidato a produto extraído de uma página
type Product struct {
	Name          string
	Price         float64
	PriceFound    bool
	OriginalPrice *float64
	Sales         int64
	SalesFound    bool
	Rating        float64
	RatingFound   bool
	Reviews       int64
	ReviewsFound  bool
	Category      string
	Seller        string
	URL           string
	ImageURL      string
}

// Seller é o candidato a loja extraído de uma página
type Seller struct {
	Name      string
	ShopURL   string
	Products  int64
	Followers int64
	Rating    float64
}

// ExtractProduct monta o produto campo a campo. Apenas o nome é obrigatório.
func (e Extractor) ExtractProduct(page Page, profile ProductProfile) (Product, error) {
	name, ok := e.Text(page, profile.Name)
	if !ok {
		return Product{}, ErrExtractionUnavailable
	}

	p := Product{Name: name, URL: page.URL()}
	p.Price, p.PriceFound = e.Number(page, profile.Price)
	if original, ok := e.Number(page, profile.OriginalPrice); ok {
		p.OriginalPrice = &original
	}
	p.Sales, p.SalesFound = e.Count(page, profile.Sales)
	p.Rating, p.RatingFound = e.Number(page, profile.Rating)
	p.Reviews, p.ReviewsFound = e.Count(page, profile.Reviews)
	p.Category, _ = e.Text(page, profile.Category)
	p.Seller, _ = e.Text(page, profile.Seller)
	p.ImageURL, _ = e.Text(page, profile.Image)
	return p, nil
}

// ExtractSeller monta a loja campo a campo. Apenas o nome é obrigatório.
func (e Extractor) ExtractSeller(page Page, profile SellerProfile) (Seller, error) {
	name, ok := e.Text(page, profile.Name)
	if !ok {
		return Seller{}, ErrExtractionUnavailable
	}

	s := Seller{Name: name, ShopURL: page.URL()}
	s.Products, _ = e.Count(page, profile.Products)
	s.Followers, _ = e.Count(page, profile.Followers)
	s.Rating, _ = e.Number(page, profile.Rating)
	return s, nil
}

// NewProduct converte o candidato nos campos usados para começar o monitoramento
func (p Product) NewProduct() models.NewProduct {
	return models.NewProduct{
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Sales:         p.Sales,
		Rating:        p.Rating,
		Reviews:       p.Reviews,
		Category:      p.Category,
		Seller:        p.Seller,
		URL:           p.URL,
		ImageURL:      p.ImageURL,
	}
}

// Update converte o candidato em uma atualização. Preço e vendas só entram
// quando foram de fato encontrados na página.
func (p Product) Update() models.ProductUpdate {
	upd := models.ProductUpdate{
		Name:          &p.Name,
		OriginalPrice: p.OriginalPrice,
	}
	if p.PriceFound {
		upd.Price = &p.Price
	}
	if p.SalesFound {
		upd.Sales = &p.Sales
	}
	if p.RatingFound {
		upd.Rating = &p.Rating
	}
	if p.ReviewsFound {
		upd.Reviews = &p.Reviews
	}
	if p.ImageURL != "" {
		upd.ImageURL = &p.ImageURL
	}
	return upd
}

// NewCompetitor converte o candidato nos campos de um concorrente
func (s Seller) NewCompetitor() models.NewCompetitor {
	return models.NewCompetitor{
		Name:      s.Name,
		ShopURL:   s.ShopURL,
		Products:  s.Products,
		Followers: s.Followers,
		Rating:    s.Rating,
	}
}
