package listing

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AllCategories is the category value that disables category filtering.
const AllCategories = "all"

// Filter narrows a fetched collection. The zero value is normalised to the default filter.
type Filter struct {
	Category string
	Search   string
}

// Refinable is implemented by every record a listing page can refine.
type Refinable interface {
	// FilterKey is the value matched against Filter.Category. Empty keys are never matched
	// by a specific category.
	FilterKey() string
	SearchFields() []string
}

// DefaultFilter returns the filter a listing starts with.
func DefaultFilter() Filter {
	return Filter{Category: AllCategories}
}

// ParseFilter reads the category and search query parameters.
func ParseFilter(values url.Values) Filter {
	return Filter{
		Category: values.Get("category"),
		Search:   values.Get("search"),
	}.Normalize()
}

// Normalize trims both fields and maps an empty category to AllCategories.
func (f Filter) Normalize() Filter {
	f.Category = strings.TrimSpace(f.Category)
	if f.Category == "" {
		f.Category = AllCategories
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// Reset returns the default filter regardless of the receiver.
func (f Filter) Reset() Filter {
	return DefaultFilter()
}

// IsDefault reports whether the filter leaves a collection untouched.
func (f Filter) IsDefault() bool {
	return f.Normalize() == DefaultFilter()
}

// WithCategory returns a copy of the filter selecting category.
func (f Filter) WithCategory(category string) Filter {
	f.Category = category
	return f.Normalize()
}

// Query encodes the non-default fields as URL query parameters.
func (f Filter) Query() url.Values {
	f = f.Normalize()
	values := url.Values{}
	if f.Category != AllCategories {
		values.Set("category", f.Category)
	}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	return values
}

// Refine returns the items matching the filter in their original order. It never returns
// nil and never mutates items.
func Refine[T Refinable](items []T, f Filter) []T {
	f = f.Normalize()
	needle := strings.ToLower(f.Search)

	refined := make([]T, 0, len(items))
	for _, item := range items {
		if f.Category != AllCategories && item.FilterKey() != f.Category {
			continue
		}
		if needle != "" && !matches(item.SearchFields(), needle) {
			continue
		}
		refined = append(refined, item)
	}
	return refined
}

func matches(fields []string, needle string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Categories lists AllCategories followed by the distinct non-empty filter keys of items,
// in first-seen order.
func Categories[T Refinable](items []T) []string {
	categories := []string{AllCategories}
	seen := map[string]struct{}{AllCategories: {}}
	for _, item := range items {
		key := item.FilterKey()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		categories = append(categories, key)
	}
	return categories
}

// Label turns a category key such as "urban-design" into "Urban Design".
func Label(category string) string {
	spaced := strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(category))
	return cases.Title(language.English).String(spaced)
}
