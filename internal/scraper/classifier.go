package scraper

import "strings"

// Kind é o tipo de página identificado pela URL
type Kind int

const (
	KindNone Kind = iota
	KindProduct
	KindSeller
)

func (k Kind) String() string {
	switch k {
	case KindProduct:
		return "product"
	case KindSeller:
		return "seller"
	}
	return "none"
}

// Site é uma loja suportada com seus perfis de extração
type Site struct {
	Name         string         `yaml:"name"`
	Hosts        []string       `yaml:"hosts"`
	ProductPaths []string       `yaml:"productPaths"`
	SellerPaths  []string       `yaml:"sellerPaths"`
	Locale       Locale         `yaml:"locale"`
	Product      ProductProfile `yaml:"product"`
	Seller       SellerProfile  `yaml:"seller"`
}

// CanHandle verifica se a URL pertence a esta loja
func (s *Site) CanHandle(url string) bool {
	lower := strings.ToLower(url)
	for _, host := range s.Hosts {
		if strings.Contains(lower, strings.ToLower(host)) {
			return true
		}
	}
	return false
}

// Classify decide pelo endereço se a página é de produto, de loja ou nenhum dos dois.
// O conteúdo da página nunca é consultado.
func (s *Site) Classify(url string) Kind {
	if !s.CanHandle(url) {
		return KindNone
	}
	for _, fragment := range s.ProductPaths {
		if strings.Contains(url, fragment) {
			return KindProduct
		}
	}
	for _, fragment := range s.SellerPaths {
		if strings.Contains(url, fragment) {
			return KindSeller
		}
	}
	return KindNone
}

// Extractor retorna o extrator com os separadores numéricos da loja
func (s *Site) Extractor() Extractor {
	return Extractor{Locale: s.Locale}
}

// ExtractProduct aplica o perfil de produto da loja à página
func (s *Site) ExtractProduct(page Page) (Product, error) {
	return s.Extractor().ExtractProduct(page, s.Product)
}

// ExtractSeller aplica o perfil de loja à página
func (s *Site) ExtractSeller(page Page) (Seller, error) {
	return s.Extractor().ExtractSeller(page, s.Seller)
}
