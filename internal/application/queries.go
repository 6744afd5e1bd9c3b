package application

import (
	"fmt"

	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
)

// Recommendations runs the engine over the catalog snapshot. An empty result
// still returns the shortlist alongside ErrNoMatches.
func Recommendations(catalog ports.Catalog, purpose domain.Purpose, budget domain.Budget) (domain.Shortlist, error) {
	if !purpose.Valid() {
		return domain.Shortlist{}, fmt.Errorf("%w: %q", domain.ErrUnknownPurpose, purpose)
	}

	var entries []domain.CatalogEntry
	if catalog != nil {
		entries = catalog.Entries()
	}

	ranked := domain.Recommend(purpose, budget, entries)
	shortlist := domain.NewShortlist(purpose, budget, ranked, domain.ShortlistSize)
	if shortlist.Empty() {
		return shortlist, domain.ErrNoMatches
	}
	return shortlist, nil
}
