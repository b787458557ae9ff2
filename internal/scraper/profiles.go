package scraper

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var defaultProfiles []byte

// ProductProfile mapeia cada campo de produto para suas estratégias
type ProductProfile struct {
	Name          Field `yaml:"name"`
	Price         Field `yaml:"price"`
	OriginalPrice Field `yaml:"originalPrice"`
	Sales         Field `yaml:"sales"`
	Rating        Field `yaml:"rating"`
	Reviews       Field `yaml:"reviews"`
	Category      Field `yaml:"category"`
	Seller        Field `yaml:"seller"`
	Image         Field `yaml:"image"`
}

// SellerProfile mapeia cada campo de loja para suas estratégias
type SellerProfile struct {
	Name      Field `yaml:"name"`
	Followers Field `yaml:"followers"`
	Products  Field `yaml:"products"`
	Rating    Field `yaml:"rating"`
}

type profilesFile struct {
	Sites []Site `yaml:"sites"`
}

// LoadProfiles lê os perfis do arquivo informado ou, se path for vazio, os perfis embutidos
func LoadProfiles(path string) ([]Site, error) {
	data := defaultProfiles
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler perfis de extração: %w", err)
		}
	}
	return ParseProfiles(data)
}

// ParseProfiles interpreta um documento YAML de perfis
func ParseProfiles(data []byte) ([]Site, error) {
	var file profilesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("erro ao interpretar perfis de extração: %w", err)
	}
	if len(file.Sites) == 0 {
		return nil, fmt.Errorf("nenhuma loja configurada nos perfis de extração")
	}

	for i := range file.Sites {
		site := &file.Sites[i]
		if site.Name == "" || len(site.Hosts) == 0 {
			return nil, fmt.Errorf("loja %d sem nome ou hosts", i)
		}
		if len(site.Product.Name.Strategies) == 0 || len(site.Seller.Name.Strategies) == 0 {
			return nil, fmt.Errorf("loja %s sem estratégias para o nome", site.Name)
		}
		if site.Locale == (Locale{}) {
			site.Locale = DefaultLocale
		}
	}
	return file.Sites, nil
}
