package models

import "time"

// UsageData controla a cota mensal de análises
type UsageData struct {
	AnalysesUsed int       `json:"analysesUsed"`
	MonthlyLimit int       `json:"monthlyLimit"`
	ResetDate    time.Time `json:"resetDate"` // primeiro instante do próximo mês
	IsPro        bool      `json:"isPro"`
}

// Allows informa se uma ação medida pode prosseguir
func (u UsageData) Allows() bool {
	return u.IsPro || u.AnalysesUsed < u.MonthlyLimit
}

// Settings são as preferências do usuário
type Settings struct {
	APIKey             string `json:"apiKey"`
	OnboardingComplete bool   `json:"onboardingComplete"`
	Notifications      bool   `json:"notifications"`
	AutoTrack          bool   `json:"autoTrack"`
	Currency           string `json:"currency"`
}

// SettingsUpdate é uma atualização parcial das preferências
type SettingsUpdate struct {
	APIKey             *string `json:"apiKey,omitempty"`
	OnboardingComplete *bool   `json:"onboardingComplete,omitempty"`
	Notifications      *bool   `json:"notifications,omitempty"`
	AutoTrack          *bool   `json:"autoTrack,omitempty"`
	Currency           *string `json:"currency,omitempty"`
}

// Document é o documento completo persistido
type Document struct {
	TrackedProducts []TrackedProduct `json:"trackedProducts"`
	Competitors     []Competitor     `json:"competitors"`
	Trends          []TrendingItem   `json:"trends"`
	Usage           UsageData        `json:"usage"`
	Settings        Settings         `json:"settings"`
	PriceAlerts     []PriceAlert     `json:"priceAlerts"`
}

// Product retorna o produto com o ID informado
func (d *Document) Product(id string) (*TrackedProduct, bool) {
	for i := range d.TrackedProducts {
		if d.TrackedProducts[i].ID == id {
			return &d.TrackedProducts[i], true
		}
	}
	return nil, false
}

// ProductByURL retorna o produto monitorado com a URL informada
func (d *Document) ProductByURL(url string) (*TrackedProduct, bool) {
	for i := range d.TrackedProducts {
		if d.TrackedProducts[i].URL == url {
			return &d.TrackedProducts[i], true
		}
	}
	return nil, false
}

// Patch é uma atualização rasa do documento: apenas os campos não nil são gravados
type Patch struct {
	TrackedProducts *[]TrackedProduct
	Competitors     *[]Competitor
	Trends          *[]TrendingItem
	Usage           *UsageData
	Settings        *Settings
	PriceAlerts     *[]PriceAlert
}

// Empty informa se o patch não contém nenhum campo
func (p Patch) Empty() bool {
	return p.TrackedProducts == nil && p.Competitors == nil && p.Trends == nil &&
		p.Usage == nil && p.Settings == nil && p.PriceAlerts == nil
}
