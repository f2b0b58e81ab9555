package storage

import (
	"strings"

	"github.com/tdempsey/RainbowRead250813/models"
)

// filterFunc is one predicate in the composable filter chain. Filters
// compose by logical AND; an absent criterion produces no filter at all.
type filterFunc func(*models.Article) bool

// buildFilters translates the structured criteria into a predicate chain.
// Visibility is handled separately because it applies unconditionally to
// public paths, before everything else.
func buildFilters(params models.SearchParams) []filterFunc {
	var filters []filterFunc

	if params.Category != "" && !strings.EqualFold(params.Category, models.ReservedCategorySlug) {
		category := params.Category
		filters = append(filters, func(a *models.Article) bool {
			return strings.EqualFold(a.Category, category)
		})
	}

	if len(params.Tags) > 0 {
		tags := params.Tags
		filters = append(filters, func(a *models.Article) bool {
			for _, want := range tags {
				for _, have := range a.Tags {
					if have == want {
						return true
					}
				}
			}
			return false
		})
	}

	if params.Source != "" {
		source := strings.ToLower(params.Source)
		filters = append(filters, func(a *models.Article) bool {
			return strings.Contains(strings.ToLower(a.Source), source)
		})
	}

	if params.LgbtqFocused != nil {
		focused := *params.LgbtqFocused
		filters = append(filters, func(a *models.Article) bool {
			return a.IsLgbtqFocused == focused
		})
	}

	return filters
}

func matchesFilters(a *models.Article, filters []filterFunc) bool {
	for _, f := range filters {
		if !f(a) {
			return false
		}
	}
	return true
}

// matchesAllTerms is the exact substring fallback over the precomputed
// search vector: every term must be present somewhere in the vector.
func matchesAllTerms(searchVector string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(searchVector, term) {
			return false
		}
	}
	return true
}
