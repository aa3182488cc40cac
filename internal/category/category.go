// Package category resolves free-text transaction categories to the colour
// and icon used to display them.
package category

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Canonical category names.
const (
	FoodGroceries     = "Food & Groceries"
	Transportation    = "Transportation"
	HousingUtilities  = "Housing & Utilities"
	Entertainment     = "Entertainment"
	Shopping          = "Shopping"
	Healthcare        = "Healthcare"
	Education         = "Education"
	Transfer          = "Transfer"
	Deposit           = "Deposit"
	Other             = "Other"
	defaultOtherColor = "#9B9B9B"
)

// Style is how a category is drawn.
type Style struct {
	Category string
	Color    string
	Icon     string
}

var (
	foodStyle          = Style{FoodGroceries, "#fd5901", "🍎"}
	transportStyle     = Style{Transportation, "#f78104", "🚗"}
	housingStyle       = Style{HousingUtilities, "#faab36", "🏠"}
	entertainmentStyle = Style{Entertainment, "#249ea0", "🎬"}
	shoppingStyle      = Style{Shopping, "#008083", "🛍️"}
	healthStyle        = Style{Healthcare, "#96CEB4", "🏥"}
	educationStyle     = Style{Education, "#FECA57", "📚"}
	transferStyle      = Style{Transfer, defaultOtherColor, "🏦"}
	depositStyle       = Style{Deposit, defaultOtherColor, "💰"}
	otherStyle         = Style{Other, defaultOtherColor, "💳"}
)

// known is matched exactly and case-sensitively before any keyword rule.
var known = map[string]Style{
	FoodGroceries:    foodStyle,
	Transportation:   transportStyle,
	HousingUtilities: housingStyle,
	Entertainment:    entertainmentStyle,
	Shopping:         shoppingStyle,
	Healthcare:       healthStyle,
	Education:        educationStyle,
	Transfer:         transferStyle,
	Deposit:          depositStyle,
	Other:            otherStyle,
}

type rule struct {
	match func(lower string) bool
	style Style
}

func containsAny(keywords ...string) func(string) bool {
	return func(lower string) bool {
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}
}

func withIcon(s Style, icon string) Style {
	s.Icon = icon
	return s
}

// rules are evaluated in order and the first match wins, so a label
// mentioning both "food" and "gas" resolves to Food & Groceries.
var rules = []rule{
	{containsAny("food", "groceries"), foodStyle},
	{containsAny("transport"), transportStyle},
	{containsAny("gas"), withIcon(transportStyle, "⛽")},
	{containsAny("housing"), housingStyle},
	{containsAny("utilities"), withIcon(housingStyle, "💡")},
	{containsAny("entertainment"), entertainmentStyle},
	{containsAny("shopping"), shoppingStyle},
	{containsAny("health"), healthStyle},
	{containsAny("education"), educationStyle},
	{containsAny("transfer", "bank"), transferStyle},
	{containsAny("deposit", "income"), depositStyle},
}

// Resolve maps a category label to its display style. It never fails:
// labels that match nothing resolve to Other.
func Resolve(label string) Style {
	trimmed := strings.TrimSpace(label)
	if s, ok := known[trimmed]; ok {
		return s
	}
	lower := strings.ToLower(trimmed)
	for _, r := range rules {
		if r.match(lower) {
			return r.style
		}
	}
	return otherStyle
}

// Color is shorthand for Resolve(label).Color.
func Color(label string) string { return Resolve(label).Color }

// Icon is shorthand for Resolve(label).Icon.
func Icon(label string) string { return Resolve(label).Icon }

// Known returns the canonical categories in display order.
func Known() []Style {
	return []Style{
		foodStyle, transportStyle, housingStyle, entertainmentStyle,
		shoppingStyle, healthStyle, educationStyle, otherStyle,
	}
}

var pieLabels = map[string]string{
	"entertainment": Entertainment,
	"housing":       HousingUtilities,
	"dining":        "Food & Dining",
	"gas":           Transportation,
	"travel":        "Travel",
	"utilities":     "Utilities",
	"groceries":     FoodGroceries,
	"healthcare":    Healthcare,
	"shopping":      Shopping,
}

// DisplayName turns a spending-pie key such as "groceries" into its label.
// Unknown keys are returned with the first letter upper-cased.
func DisplayName(key string) string {
	if label, ok := pieLabels[strings.ToLower(key)]; ok {
		return label
	}
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}
