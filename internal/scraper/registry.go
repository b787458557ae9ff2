package scraper

// Registry mantém um registro de todas as lojas suportadas
type Registry struct {
	sites []*Site
}

// NewRegistry cria um novo registro com as lojas informadas
func NewRegistry(sites []Site) *Registry {
	r := &Registry{}
	for i := range sites {
		r.sites = append(r.sites, &sites[i])
	}
	return r
}

// DefaultRegistry cria o registro a partir dos perfis em path (ou dos embutidos)
func DefaultRegistry(path string) (*Registry, error) {
	sites, err := LoadProfiles(path)
	if err != nil {
		return nil, err
	}
	return NewRegistry(sites), nil
}

// FindSite encontra a loja apropriada para uma URL
func (r *Registry) FindSite(url string) *Site {
	for _, site := range r.sites {
		if site.CanHandle(url) {
			return site
		}
	}
	return nil
}

// Classify retorna a loja e o tipo de página da URL
func (r *Registry) Classify(url string) (*Site, Kind) {
	site := r.FindSite(url)
	if site == nil {
		return nil, KindNone
	}
	return site, site.Classify(url)
}
