package scraper

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy é uma tentativa de localizar um valor na página.
// Selector é um seletor CSS; Attr lê um atributo em vez do texto;
// JSONLD procura a chave nos blocos application/ld+json.
type Strategy struct {
	Selector string `yaml:"selector,omitempty" json:"selector,omitempty"`
	Attr     string `yaml:"attr,omitempty" json:"attr,omitempty"`
	JSONLD   string `yaml:"jsonld,omitempty" json:"jsonld,omitempty"`
}

// Page é a página renderizada consultada pelo extrator. Nunca é alterada.
type Page interface {
	// Lookup retorna o conteúdo aparado do primeiro elemento que satisfaz a estratégia
	Lookup(s Strategy) (string, bool)
	URL() string
}

// DocumentPage implementa Page sobre um documento goquery
type DocumentPage struct {
	doc *goquery.Document
	url string
}

// NewDocumentPage lê o HTML de r
func NewDocumentPage(r io.Reader, url string) (*DocumentPage, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &DocumentPage{doc: doc, url: url}, nil
}

// ParseHTML cria uma página a partir de HTML enviado pelo chamador
func ParseHTML(html, url string) (*DocumentPage, error) {
	return NewDocumentPage(strings.NewReader(html), url)
}

// URL retorna o endereço da página
func (p *DocumentPage) URL() string {
	return p.url
}

// Lookup implementa Page
func (p *DocumentPage) Lookup(s Strategy) (string, bool) {
	if s.JSONLD != "" {
		return p.lookupJSONLD(s.JSONLD)
	}
	if s.Selector == "" {
		return "", false
	}

	sel := p.doc.Find(s.Selector).First()
	if sel.Length() == 0 {
		return "", false
	}

	var text string
	if s.Attr != "" {
		text = sel.AttrOr(s.Attr, "")
	} else {
		text = sel.Text()
	}
	text = strings.TrimSpace(text)
	return text, text != ""
}

func (p *DocumentPage) lookupJSONLD(key string) (string, bool) {
	re, err := regexp.Compile(`"` + regexp.QuoteMeta(key) + `"\s*:\s*(?:"([^"]*)"|([0-9][0-9.]*))`)
	if err != nil {
		return "", false
	}

	var value string
	p.doc.Find("script[type='application/ld+json']").EachWithBreak(func(i int, s *goquery.Selection) bool {
		matches := re.FindStringSubmatch(s.Text())
		if matches == nil {
			return true
		}
		value = strings.TrimSpace(matches[1] + matches[2])
		return value == ""
	})
	return value, value != ""
}
