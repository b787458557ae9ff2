package models

import "time"

// Competition é o nível de concorrência de uma tendência
type Competition string

const (
	CompetitionLow    Competition = "low"
	CompetitionMedium Competition = "medium"
	CompetitionHigh   Competition = "high"
)

// Valid informa se o nível é um dos valores conhecidos
func (c Competition) Valid() bool {
	switch c {
	case CompetitionLow, CompetitionMedium, CompetitionHigh:
		return true
	}
	return false
}

// TrendingItem é uma palavra-chave em alta detectada pela análise
type TrendingItem struct {
	ID          string      `json:"id"`
	Keyword     string      `json:"keyword"`
	Category    string      `json:"category"`
	Growth      float64     `json:"growth"` // percentual
	Volume      int64       `json:"volume"`
	Competition Competition `json:"competition"`
	DetectedAt  time.Time   `json:"detectedAt"`
}

// NewTrend é o resultado (opaco) de uma análise de tendência
type NewTrend struct {
	Keyword     string      `json:"keyword" binding:"required"`
	Category    string      `json:"category"`
	Growth      float64     `json:"growth"`
	Volume      int64       `json:"volume"`
	Competition Competition `json:"competition"`
}
