package domain

import "strings"

// categoryAliases maps cosmetic variants of category names onto a canonical
// key. Matching is case-insensitive; names absent from the table normalize
// to their lowercased, trimmed form and are NOT merged with anything else.
var categoryAliases = map[string]string{
	"food":          "food",
	"groceries":     "food",
	"grocery":       "food",
	"supermarket":   "food",
	"dining":        "dining",
	"restaurants":   "dining",
	"restaurant":    "dining",
	"transport":     "transport",
	"transportation": "transport",
	"commute":       "transport",
	"fuel":          "transport",
	"entertainment": "entertainment",
	"leisure":       "entertainment",
	"streaming":     "entertainment",
	"utilities":     "utilities",
	"bills":         "utilities",
	"services":      "utilities",
	"internet":      "utilities",
	"phone":         "utilities",
	"health":        "health",
	"healthcare":    "health",
	"medical":       "health",
	"housing":       "housing",
	"rent":          "housing",
	"mortgage":      "housing",
	"shopping":      "shopping",
	"clothing":      "shopping",
	"education":     "education",
	"courses":       "education",
	"savings":       "savings",
	"other":         "other",
}

// NormalizeCategory returns the canonical key for a category name
func NormalizeCategory(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := categoryAliases[key]; ok {
		return canonical
	}
	return key
}

// CategoriesMatch reports whether two category names refer to the same
// canonical category
func CategoriesMatch(a, b string) bool {
	return NormalizeCategory(a) == NormalizeCategory(b)
}

// IsSubscriptionCategory reports whether a category counts as a subscription
// bucket (entertainment and leisure style charges)
func IsSubscriptionCategory(name string) bool {
	return NormalizeCategory(name) == "entertainment"
}

// IsServiceCategory reports whether a category counts as a household service
func IsServiceCategory(name string) bool {
	key := NormalizeCategory(name)
	return key == "utilities" || key == "housing" || key == "health"
}
