package category

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		label     string
		wantCat   string
		wantColor string
		wantIcon  string
	}{
		{"exact food", "Food & Groceries", FoodGroceries, "#fd5901", "🍎"},
		{"exact with spaces", "  Shopping ", Shopping, "#008083", "🛍️"},
		{"exact other", "Other", Other, "#9B9B9B", "💳"},
		{"keyword groceries", "groceries", FoodGroceries, "#fd5901", "🍎"},
		{"keyword case-insensitive", "FAST FOOD", FoodGroceries, "#fd5901", "🍎"},
		{"transport", "public transport", Transportation, "#f78104", "🚗"},
		{"gas", "Gas Station", Transportation, "#f78104", "⛽"},
		{"housing", "housing", HousingUtilities, "#faab36", "🏠"},
		{"utilities", "utilities", HousingUtilities, "#faab36", "💡"},
		{"entertainment", "entertainment", Entertainment, "#249ea0", "🎬"},
		{"health", "health insurance", Healthcare, "#96CEB4", "🏥"},
		{"education", "education", Education, "#FECA57", "📚"},
		{"transfer", "Transfer", Transfer, "#9B9B9B", "🏦"},
		{"bank", "bank fee", Transfer, "#9B9B9B", "🏦"},
		{"income", "income", Deposit, "#9B9B9B", "💰"},
		{"food wins over gas", "gas and food", FoodGroceries, "#fd5901", "🍎"},
		{"transport wins over gas", "transport gas", Transportation, "#f78104", "🚗"},
		{"unknown", "Crypto", Other, "#9B9B9B", "💳"},
		{"empty", "", Other, "#9B9B9B", "💳"},
		{"case-sensitive exact falls to keywords", "shopping", Shopping, "#008083", "🛍️"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.label)
			if got.Category != tt.wantCat || got.Color != tt.wantColor || got.Icon != tt.wantIcon {
				t.Errorf("Resolve(%q) = %+v, want {%s %s %s}", tt.label, got, tt.wantCat, tt.wantColor, tt.wantIcon)
			}
		})
	}
}

func TestResolve_Total(t *testing.T) {
	inputs := []string{"", " ", "\t\n", "??", "💳", "Food & Groceries", "x", "ÄÖÜ", "a very long label without any keyword in it at all"}
	for _, in := range inputs {
		s := Resolve(in)
		if s.Color == "" || s.Icon == "" || s.Category == "" {
			t.Errorf("Resolve(%q) = %+v, want non-empty fields", in, s)
		}
		if s != Resolve(in) {
			t.Errorf("Resolve(%q) not deterministic", in)
		}
	}
}

func TestColorAndIcon(t *testing.T) {
	if got := Color("Education"); got != "#FECA57" {
		t.Errorf("Color(Education) = %s", got)
	}
	if got := Icon("deposit"); got != "💰" {
		t.Errorf("Icon(deposit) = %s", got)
	}
}

func TestKnown(t *testing.T) {
	ks := Known()
	if len(ks) != 8 {
		t.Fatalf("Known() len = %d, want 8", len(ks))
	}
	if ks[len(ks)-1].Category != Other {
		t.Errorf("last known = %s, want Other", ks[len(ks)-1].Category)
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"dining":        "Food & Dining",
		"Groceries":     FoodGroceries,
		"gas":           Transportation,
		"housing":       HousingUtilities,
		"subscriptions": "Subscriptions",
		"":              "",
	}
	for in, want := range tests {
		if got := DisplayName(in); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}
