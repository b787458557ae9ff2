package models

import "time"

// Competitor representa uma loja concorrente seguida pelo usuário
type Competitor struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ShopURL     string    `json:"shopUrl"`
	Products    int64     `json:"products"`
	Followers   int64     `json:"followers"`
	Rating      float64   `json:"rating"`
	AddedAt     time.Time `json:"addedAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// NewCompetitor contém os dados extraídos de uma página de loja
type NewCompetitor struct {
	Name      string  `json:"name" binding:"required"`
	ShopURL   string  `json:"shopUrl"`
	Products  int64   `json:"products"`
	Followers int64   `json:"followers"`
	Rating    float64 `json:"rating"`
}
