package models

import "time"

// AlertType indica a direção de um alerta de preço
type AlertType string

const (
	AlertBelow AlertType = "below"
	AlertAbove AlertType = "above"
)

// PriceAlert dispara uma única vez quando o preço do produto cruza o alvo.
// Triggered só passa de false para true.
type PriceAlert struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	ProductName  string    `json:"productName"`
	TargetPrice  float64   `json:"targetPrice"`
	CurrentPrice float64   `json:"currentPrice"` // preço no momento da criação
	Type         AlertType `json:"type"`
	Triggered    bool      `json:"triggered"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Matches informa se o preço atual satisfaz a condição do alerta
func (a PriceAlert) Matches(price float64) bool {
	switch a.Type {
	case AlertBelow:
		return price <= a.TargetPrice
	case AlertAbove:
		return price >= a.TargetPrice
	}
	return false
}
