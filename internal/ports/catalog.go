package ports

import "github.com/bnema/toplap/internal/domain"

// Catalog is a read-only snapshot. Callers must not modify returned entries.
type Catalog interface {
	Entries() []domain.CatalogEntry
}
