package domain

import "strings"

type CatalogEntry struct {
	ID          string
	Brand       string
	Model       string
	Processor   string
	GPU         string
	RAM         string
	Storage     string
	Display     string
	BatteryLife string
	Price       float64
	PurposeTags string
	Score       float64
}

func (e CatalogEntry) Title() string {
	return strings.TrimSpace(strings.TrimSpace(e.Brand) + " " + strings.TrimSpace(e.Model))
}

// Serves reports whether the purpose tag appears anywhere in the entry's
// free-text purpose column, ignoring case.
func (e CatalogEntry) Serves(purpose Purpose) bool {
	tag := strings.ToLower(purpose.Tag())
	if tag == "" {
		return false
	}
	return strings.Contains(strings.ToLower(e.PurposeTags), tag)
}
