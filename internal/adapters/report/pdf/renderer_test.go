package pdf

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bnema/toplap/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() domain.Report {
	shortlist := domain.NewShortlist(domain.PurposeGaming, 5000, []domain.RankedResult{
		{Entry: domain.CatalogEntry{ID: "B", Brand: "Asus", Model: "ROG Strix " + strings.Repeat("Ultra ", 20), Price: 4500, Score: 90, BatteryLife: "5"}, AdjustedScore: 89.95},
		{Entry: domain.CatalogEntry{ID: "A", Brand: "Acer", Model: "Nitro", Price: 3000, Score: 80, BatteryLife: "6", Display: "15.6\" FHD – 144Hz"}, AdjustedScore: 79.8},
	}, domain.ShortlistSize)
	return domain.NewComparisonReport(shortlist)
}

type fixedClock struct{}

func (fixedClock) Now() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}

func TestRendererProducesPDF(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(fixedClock{})

	document, err := renderer.Render(context.Background(), sampleReport())
	require.NoError(t, err)

	assert.Equal(t, domain.ComparisonReportFilename, document.Filename)
	assert.Equal(t, "application/pdf", document.MimeType)
	assert.True(t, bytes.HasPrefix(document.Data, []byte("%PDF-")))
}

func TestRendererIsDeterministicForFixedClock(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(fixedClock{})

	first, err := renderer.Render(context.Background(), sampleReport())
	require.NoError(t, err)
	second, err := renderer.Render(context.Background(), sampleReport())
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
}

func TestRendererRejectsEmptyReport(t *testing.T) {
	t.Parallel()

	report := sampleReport()
	report.Rows = nil

	_, err := NewRenderer(fixedClock{}).Render(context.Background(), report)
	assert.ErrorIs(t, err, domain.ErrEmptyReport)
}

func TestRendererHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRenderer(fixedClock{}).Render(ctx, sampleReport())
	assert.ErrorIs(t, err, context.Canceled)
}
