package scraper

import "testing"

func TestParseNumber(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected float64
		found    bool
	}{
		{"Thousands suffix", "12.3K", 12300, true},
		{"Millions suffix", "1.2M", 1200000, true},
		{"Plain integer", "450", 450, true},
		{"Lowercase suffix", "3k sold", 3000, true},
		{"Currency with separators", "$1,299.99", 1299.99, true},
		{"Text around number", "Rating 4.8 out of 5", 4.8, true},
		{"Suffix must follow digits", "12 K", 12, true},
		{"Unit is not a suffix", "100ml", 100, true},
		{"Zero is a value", "0", 0, true},
		{"Leading decimal point", "Price: .99", 0.99, true},
		{"Leading thousands separator", ",500", 500, true},
		{"Not available", "n/a", 0, false},
		{"Empty", "", 0, false},
		{"Malformed", "1.2.3", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			value, found := ParseNumber(tc.text)
			if found != tc.found {
				t.Fatalf("Expected found=%v, got %v (value %v)", tc.found, found, value)
			}
			if value != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, value)
			}
		})
	}
}

func TestBrazilLocale(t *testing.T) {
	testCases := []struct {
		text     string
		expected float64
	}{
		{"R$ 1.299,90", 1299.90},
		{"1.299", 1299},
		{"+5 mil vendidos", 5},
		{"2,5K", 2500},
		{"R$ ,99", 0.99},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			value, found := BrazilLocale.ParseNumber(tc.text)
			if !found || value != tc.expected {
				t.Errorf("Expected %v, got %v (found=%v)", tc.expected, value, found)
			}
		})
	}
}

func TestParseCount(t *testing.T) {
	if v, ok := ParseCount("1.25K"); !ok || v != 1250 {
		t.Errorf("Expected 1250, got %d (%v)", v, ok)
	}
	if v, ok := ParseCount("10.6"); !ok || v != 11 {
		t.Errorf("Expected 11, got %d (%v)", v, ok)
	}
	if _, ok := ParseCount("sold out"); ok {
		t.Error("Expected not found")
	}
	// fora do intervalo de int64 não vira um número negativo
	for _, text := range []string{"99999999999999999999 sold", "9999999999999999999K"} {
		if v, ok := ParseCount(text); ok {
			t.Errorf("%s: expected not found, got %d", text, v)
		}
	}
}
