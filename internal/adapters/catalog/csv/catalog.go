package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
	"go.uber.org/zap"
)

const (
	columnID        = "id"
	columnBrand     = "brand"
	columnModel     = "model"
	columnProcessor = "processor"
	columnGPU       = "gpu"
	columnRAM       = "ram"
	columnStorage   = "storage"
	columnDisplay   = "display"
	columnBattery   = "battery life"
	columnPrice     = "average price (sar)"
	columnPurpose   = "purpose"
	columnScore     = "totalscore"
)

var requiredColumns = []string{columnID, columnModel, columnPrice, columnPurpose, columnScore}

var columnAliases = map[string]string{
	"battery":     columnBattery,
	"price":       columnPrice,
	"price_sar":   columnPrice,
	"score":       columnScore,
	"total score": columnScore,
}

// Catalog is an immutable snapshot of the laptop catalog.
type Catalog struct {
	entries []domain.CatalogEntry
	skipped int
}

var _ ports.Catalog = (*Catalog)(nil)

func Load(path string, logger *zap.Logger) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	return Parse(file, logger)
}

// Parse reads a catalog CSV. Rows whose price or score cannot be parsed are
// dropped, matching the coercing load of the upstream dataset.
func Parse(r io.Reader, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("catalog")

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog is empty")
		}
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	columns := indexColumns(header)
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("catalog is missing column %q", name)
		}
	}

	catalog := &Catalog{}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read catalog line %d: %w", line, err)
		}

		entry, err := parseRecord(columns, record)
		if err != nil {
			catalog.skipped++
			logger.Debug("skipping catalog row", zap.Int("line", line), zap.Error(err))
			continue
		}
		catalog.entries = append(catalog.entries, entry)
	}

	logger.Info("catalog loaded", zap.Int("entries", len(catalog.entries)), zap.Int("skipped", catalog.skipped))
	return catalog, nil
}

func (c *Catalog) Entries() []domain.CatalogEntry {
	return c.entries
}

func (c *Catalog) Skipped() int {
	return c.skipped
}

func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if alias, ok := columnAliases[key]; ok {
			key = alias
		}
		if _, exists := columns[key]; !exists {
			columns[key] = i
		}
	}
	return columns
}

func parseRecord(columns map[string]int, record []string) (domain.CatalogEntry, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	price, err := parseNumber(field(columnPrice))
	if err != nil {
		return domain.CatalogEntry{}, fmt.Errorf("price: %w", err)
	}
	score, err := parseNumber(field(columnScore))
	if err != nil {
		return domain.CatalogEntry{}, fmt.Errorf("score: %w", err)
	}

	id := field(columnID)
	if id == "" {
		return domain.CatalogEntry{}, errors.New("id is empty")
	}

	return domain.CatalogEntry{
		ID:          id,
		Brand:       field(columnBrand),
		Model:       field(columnModel),
		Processor:   field(columnProcessor),
		GPU:         field(columnGPU),
		RAM:         field(columnRAM),
		Storage:     field(columnStorage),
		Display:     field(columnDisplay),
		BatteryLife: field(columnBattery),
		Price:       price,
		PurposeTags: field(columnPurpose),
		Score:       score,
	}, nil
}

func parseNumber(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	if cleaned == "" {
		return 0, errors.New("value is empty")
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("non-finite value %q", raw)
	}
	if value < 0 {
		return 0, fmt.Errorf("negative value %v", value)
	}
	return value, nil
}
