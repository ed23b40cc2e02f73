package category

import "strings"

// Category is one of the fixed spending labels a transaction can be assigned.
type Category string

const (
	Housing        Category = "Housing"
	Transportation Category = "Transportation"
	Food           Category = "Food"
	Shopping       Category = "Shopping"
	Entertainment  Category = "Entertainment"
	Services       Category = "Services"
	Income         Category = "Income"
	Other          Category = "Other"
)

// Default is assigned whenever nothing better can be determined.
const Default = Other

var all = [...]Category{
	Housing,
	Transportation,
	Food,
	Shopping,
	Entertainment,
	Services,
	Income,
	Other,
}

// keywordRule maps a set of substrings to a category. Rules are checked in order.
type keywordRule struct {
	keywords []string
	category Category
}

// Only Housing and Transportation are recoverable from prose answers.
var keywordRules = []keywordRule{
	{keywords: []string{"housing", "rent"}, category: Housing},
	{keywords: []string{"transport"}, category: Transportation},
}

// All returns the categories in their canonical order.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all[:])

	return out
}

// Names returns the canonical names in order, for prompts and templates.
func Names() []string {
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = string(c)
	}

	return names
}

func (c Category) String() string {
	return string(c)
}

// IsValid reports whether c is one of the known categories, compared exactly.
func IsValid(c Category) bool {
	for _, known := range all {
		if c == known {
			return true
		}
	}

	return false
}

// Parse matches s against the known categories ignoring case and surrounding whitespace.
func Parse(s string) (Category, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(s))

	for _, c := range all {
		if cleaned == strings.ToLower(string(c)) {
			return c, true
		}
	}

	return "", false
}

// Normalize coerces arbitrary text into a Category. It never fails: an exact
// match wins, then the keyword rules, then Default.
func Normalize(text string) Category {
	if c, ok := Parse(text); ok {
		return c
	}

	cleaned := strings.ToLower(strings.TrimSpace(text))

	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(cleaned, kw) {
				return rule.category
			}
		}
	}

	return Default
}
