package models

import "time"

// PricePoint é uma amostra do histórico de preços
type PricePoint struct {
	Price float64   `json:"price"`
	Date  time.Time `json:"date"`
}

// SalesPoint é uma amostra do histórico de vendas
type SalesPoint struct {
	Sales int64     `json:"sales"`
	Date  time.Time `json:"date"`
}

// TrackedProduct representa um produto sendo monitorado.
// PriceHistory e SalesHistory são somente de acréscimo, em ordem cronológica.
type TrackedProduct struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Price         float64      `json:"price"`
	OriginalPrice *float64     `json:"originalPrice,omitempty"` // Preço antes do desconto
	Sales         int64        `json:"sales"`
	Rating        float64      `json:"rating"` // 0-5
	Reviews       int64        `json:"reviews"`
	Category      string       `json:"category"`
	Seller        string       `json:"seller"`
	URL           string       `json:"url"`
	ImageURL      string       `json:"imageUrl,omitempty"`
	AddedAt       time.Time    `json:"addedAt"`
	LastUpdated   time.Time    `json:"lastUpdated"`
	PriceHistory  []PricePoint `json:"priceHistory"`
	SalesHistory  []SalesPoint `json:"salesHistory"`
}

// NewProduct contém os campos brutos extraídos da página para começar a monitorar um produto
type NewProduct struct {
	Name          string   `json:"name" binding:"required"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Sales         int64    `json:"sales"`
	Rating        float64  `json:"rating"`
	Reviews       int64    `json:"reviews"`
	Category      string   `json:"category"`
	Seller        string   `json:"seller"`
	URL           string   `json:"url"`
	ImageURL      string   `json:"imageUrl,omitempty"`
}

// ProductUpdate é uma atualização parcial; campos nil não são alterados
type ProductUpdate struct {
	Name          *string  `json:"name,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Sales         *int64   `json:"sales,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	Reviews       *int64   `json:"reviews,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Seller        *string  `json:"seller,omitempty"`
	ImageURL      *string  `json:"imageUrl,omitempty"`
}

// ProductRequest é o corpo usado para monitorar um produto com dados já extraídos.
// Campos numéricos ausentes ficam nil: "sem preço" não é o mesmo que preço zero.
type ProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	Price         *float64 `json:"price,omitempty"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Sales         *int64   `json:"sales,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	Reviews       *int64   `json:"reviews,omitempty"`
	Category      string   `json:"category"`
	Seller        string   `json:"seller"`
	URL           string   `json:"url"`
	ImageURL      string   `json:"imageUrl,omitempty"`
}

// NewProduct converte o pedido nos campos de um produto novo (ausentes viram zero)
func (r ProductRequest) NewProduct() NewProduct {
	np := NewProduct{
		Name:          r.Name,
		OriginalPrice: r.OriginalPrice,
		Category:      r.Category,
		Seller:        r.Seller,
		URL:           r.URL,
		ImageURL:      r.ImageURL,
	}
	if r.Price != nil {
		np.Price = *r.Price
	}
	if r.Sales != nil {
		np.Sales = *r.Sales
	}
	if r.Rating != nil {
		np.Rating = *r.Rating
	}
	if r.Reviews != nil {
		np.Reviews = *r.Reviews
	}
	return np
}

// Update converte o pedido numa atualização que só altera os campos informados
func (r ProductRequest) Update() ProductUpdate {
	upd := ProductUpdate{
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Sales:         r.Sales,
		Rating:        r.Rating,
		Reviews:       r.Reviews,
	}
	if r.Name != "" {
		upd.Name = &r.Name
	}
	if r.Category != "" {
		upd.Category = &r.Category
	}
	if r.Seller != "" {
		upd.Seller = &r.Seller
	}
	if r.ImageURL != "" {
		upd.ImageURL = &r.ImageURL
	}
	return upd
}
