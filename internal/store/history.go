package store

import (
	"time"

	"shop-tracker/internal/models"
)

// seedHistory inicia as séries com o preço e as vendas da criação
func seedHistory(p *models.TrackedProduct, at time.Time) {
	p.PriceHistory = []models.PricePoint{{Price: p.Price, Date: at}}
	p.SalesHistory = []models.SalesPoint{{Sales: p.Sales, Date: at}}
}

// recordHistory acrescenta uma amostra para cada métrica informada na
// atualização que difere do valor atual. Deve rodar antes de sobrescrever os campos.
func recordHistory(p *models.TrackedProduct, upd models.ProductUpdate, at time.Time) (priceChanged, salesChanged bool) {
	if upd.Price != nil && *upd.Price != p.Price {
		p.PriceHistory = append(p.PriceHistory, models.PricePoint{Price: *upd.Price, Date: at})
		priceChanged = true
	}
	if upd.Sales != nil && *upd.Sales != p.Sales {
		p.SalesHistory = append(p.SalesHistory, models.SalesPoint{Sales: *upd.Sales, Date: at})
		salesChanged = true
	}
	return priceChanged, salesChanged
}

// PriceChange retorna a variação percentual entre as duas últimas amostras de preço
func PriceChange(p models.TrackedProduct) (float64, bool) {
	n := len(p.PriceHistory)
	if n < 2 {
		return 0, false
	}
	prev := p.PriceHistory[n-2].Price
	if prev == 0 {
		return 0, false
	}
	return (p.PriceHistory[n-1].Price - prev) / prev * 100, true
}
