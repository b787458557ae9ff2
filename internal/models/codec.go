package models

import (
	"encoding/json"
	"fmt"
)

// Chaves dos campos de primeiro nível do documento persistido
const (
	KeyTrackedProducts = "trackedProducts"
	KeyCompetitors     = "competitors"
	KeyTrends          = "trends"
	KeyUsage           = "usage"
	KeySettings        = "settings"
	KeyPriceAlerts     = "priceAlerts"
)

// Encode serializa cada campo presente no patch, indexado pela sua chave
func (p Patch) Encode() (map[string][]byte, error) {
	fields := map[string]any{}
	if p.TrackedProducts != nil {
		fields[KeyTrackedProducts] = *p.TrackedProducts
	}
	if p.Competitors != nil {
		fields[KeyCompetitors] = *p.Competitors
	}
	if p.Trends != nil {
		fields[KeyTrends] = *p.Trends
	}
	if p.Usage != nil {
		fields[KeyUsage] = *p.Usage
	}
	if p.Settings != nil {
		fields[KeySettings] = *p.Settings
	}
	if p.PriceAlerts != nil {
		fields[KeyPriceAlerts] = *p.PriceAlerts
	}

	encoded := make(map[string][]byte, len(fields))
	for key, value := range fields {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("erro ao serializar %s: %w", key, err)
		}
		encoded[key] = raw
	}
	return encoded, nil
}

// DecodeField substitui um campo do documento pelo valor serializado.
// Chaves desconhecidas são ignoradas.
func (d *Document) DecodeField(key string, raw []byte) error {
	var target any
	switch key {
	case KeyTrackedProducts:
		d.TrackedProducts = nil
		target = &d.TrackedProducts
	case KeyCompetitors:
		d.Competitors = nil
		target = &d.Competitors
	case KeyTrends:
		d.Trends = nil
		target = &d.Trends
	case KeyUsage:
		d.Usage = UsageData{}
		target = &d.Usage
	case KeySettings:
		d.Settings = Settings{}
		target = &d.Settings
	case KeyPriceAlerts:
		d.PriceAlerts = nil
		target = &d.PriceAlerts
	default:
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("erro ao ler %s: %w", key, err)
	}
	return nil
}

// Clone retorna uma cópia profunda do documento
func (d Document) Clone() Document {
	raw, err := json.Marshal(d)
	if err != nil {
		return d
	}
	var out Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return d
	}
	return out
}
