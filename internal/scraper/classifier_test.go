package scraper

import "testing"

func TestClassify(t *testing.T) {
	r, err := DefaultRegistry("")
	if err != nil {
		t.Fatalf("Failed to load profiles: %v", err)
	}

	testCases := []struct {
		name     string
		url      string
		expected Kind
	}{
		{"TikTok product", "https://shop.tiktok.com/view/product/1729384756", KindProduct},
		{"TikTok item", "https://www.tiktok.com/item/123", KindProduct},
		{"TikTok shop", "https://www.tiktok.com/shop/store/casa-util", KindSeller},
		{"TikTok profile", "https://www.tiktok.com/@casautil", KindSeller},
		{"TikTok feed", "https://www.tiktok.com/foryou", KindNone},
		{"Mercado Livre product", "https://produto.mercadolivre.com.br/MLB-1234-fone", KindProduct},
		{"Mercado Livre store", "https://www.mercadolivre.com.br/loja/casa-util", KindSeller},
		{"Unknown host", "https://example.com/product/1", KindNone},
		{"Empty", "", KindNone},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, kind := r.Classify(tc.url)
			if kind != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, kind)
			}
			// idempotente
			if _, again := r.Classify(tc.url); again != kind {
				t.Errorf("Classification changed between calls: %s vs %s", kind, again)
			}
		})
	}
}

func TestParseProfilesValidation(t *testing.T) {
	testCases := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{"Empty document", "sites: []", true},
		{"Missing hosts", "sites:\n  - name: x\n", true},
		{"Missing name strategies", "sites:\n  - name: x\n    hosts: [x.com]\n", true},
		{
			name: "Minimal site",
			yaml: `sites:
  - name: x
    hosts: [x.com]
    productPaths: [/p/]
    product:
      name:
        strategies:
          - selector: h1
    seller:
      name:
        strategies:
          - selector: h1
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sites, err := ParseProfiles([]byte(tc.yaml))
			if tc.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if sites[0].Locale != DefaultLocale {
				t.Errorf("Expected default locale, got %+v", sites[0].Locale)
			}
		})
	}
}

func TestEmbeddedProfilesLocale(t *testing.T) {
	r, _ := DefaultRegistry("")
	site := r.FindSite("https://www.mercadolivre.com.br/p/MLB123")
	if site == nil || site.Locale != BrazilLocale {
		t.Fatalf("Expected mercadolivre with BrazilLocale, got %+v", site)
	}
}
