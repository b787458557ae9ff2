package scraper

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Locale define os separadores usados pela loja ao formatar números
type Locale struct {
	Thousands string `yaml:"thousands"`
	Decimal   string `yaml:"decimal"`
}

var (
	// DefaultLocale formata 1,234.56
	DefaultLocale = Locale{Thousands: ",", Decimal: "."}
	// BrazilLocale formata 1.234,56
	BrazilLocale = Locale{Thousands: ".", Decimal: ","}
)

// O número pode começar pelo separador decimal (".99"). O sufixo só vale quando
// não é início de outra palavra ("100ml" não é 100 milhões).
var numberRe = regexp.MustCompile(`([\d.,]*\d[\d.,]*)([KkMm][A-Za-z]?)?`)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
)

// ParseNumber extrai o primeiro número do texto no formato padrão (1,234.56).
// Retorna false quando não há dígitos ou o número não pode ser lido.
func ParseNumber(text string) (float64, bool) {
	return DefaultLocale.ParseNumber(text)
}

// ParseCount é ParseNumber arredondado para inteiro (vendas, avaliações, seguidores)
func ParseCount(text string) (int64, bool) {
	return DefaultLocale.ParseCount(text)
}

// ParseNumber extrai o primeiro número do texto, aplicando o sufixo K (mil) ou M (milhão)
// quando ele vem logo após os dígitos
func (l Locale) ParseNumber(text string) (float64, bool) {
	m := numberRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	raw := strings.TrimRight(m[1], ".,")
	if digits := strings.TrimLeft(raw, ".,"); digits != raw {
		// ".99" vale 0.99; separadores de milhar no início são descartados
		if l.Decimal != "" && raw[:len(raw)-len(digits)] == l.Decimal {
			digits = "0" + l.Decimal + digits
		}
		raw = digits
	}
	if l.Thousands != "" {
		raw = strings.ReplaceAll(raw, l.Thousands, "")
	}
	if l.Decimal != "" && l.Decimal != "." {
		raw = strings.ReplaceAll(raw, l.Decimal, ".")
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, false
	}

	switch strings.ToLower(m[2]) {
	case "k":
		value = value.Mul(thousand)
	case "m":
		value = value.Mul(million)
	}

	f, _ := value.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ParseCount é ParseNumber arredondado para o inteiro mais próximo.
// Valores que não cabem em int64 contam como não encontrados.
func (l Locale) ParseCount(text string) (int64, bool) {
	f, ok := l.ParseNumber(text)
	if !ok {
		return 0, false
	}
	f = math.Round(f)
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
