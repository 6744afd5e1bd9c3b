package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
	"github.com/go-pdf/fpdf"
)

const (
	mimeType = "application/pdf"

	marginLeft   = 20.0
	marginRight  = 20.0
	marginTop    = 30.0
	marginBottom = 30.0

	fontFamily  = "Helvetica"
	bodySize    = 8.0
	titleSize   = 16.0
	rowHeight   = 18.0
	titleHeight = 28.0
	bestMarker  = "*"
)

type rgb struct{ r, g, b int }

var (
	headerFill = rgb{173, 216, 230}
	evenFill   = rgb{245, 245, 245}
	oddFill    = rgb{211, 211, 211}
	bestFill   = rgb{144, 238, 144}
	gridColor  = rgb{128, 128, 128}
)

var columns = []struct {
	title  string
	weight float64
}{
	{"", 10},
	{"Model", 50},
	{"Price (SAR)", 25},
	{"Processor", 40},
	{"GPU", 35},
	{"RAM", 20},
	{"Storage", 30},
	{"Display", 35},
	{"Battery", 20},
	{"Score", 20},
}

// Renderer draws a comparison report as a single landscape A4 table.
type Renderer struct {
	clock ports.Clock
}

var _ ports.ReportRenderer = (*Renderer)(nil)

func NewRenderer(clock ports.Clock) *Renderer {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Renderer{clock: clock}
}

func (r *Renderer) Render(ctx context.Context, report domain.Report) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}
	if err := report.Validate(); err != nil {
		return domain.Document{}, err
	}
	if report.PageSize != domain.PageSizeA4 {
		return domain.Document{}, fmt.Errorf("unsupported page size %q", report.PageSize)
	}

	doc := fpdf.New("L", "pt", string(report.PageSize), "")
	doc.SetCatalogSort(true)
	doc.SetCreationDate(r.clock.Now())
	doc.SetTitle(report.Title, true)
	doc.SetMargins(marginLeft, marginTop, marginRight)
	doc.SetAutoPageBreak(true, marginBottom)
	doc.AddPage()

	tr := doc.UnicodeTranslatorFromDescriptor("")
	widths := columnWidths(doc)

	doc.SetFont(fontFamily, "B", titleSize)
	doc.CellFormat(0, titleHeight, tr(report.Title), "", 1, "C", false, 0, "")
	doc.Ln(12)

	doc.SetLineWidth(0.25)
	doc.SetDrawColor(gridColor.r, gridColor.g, gridColor.b)

	writeHeader := func() {
		doc.SetFont(fontFamily, "B", bodySize)
		setFill(doc, headerFill)
		for i, column := range columns {
			doc.CellFormat(widths[i], rowHeight, column.title, "1", 0, "C", true, 0, "")
		}
		doc.Ln(-1)
		doc.SetFont(fontFamily, "", bodySize)
	}
	doc.SetHeaderFunc(func() {
		if doc.PageNo() > 1 {
			writeHeader()
		}
	})
	writeHeader()

	for i, row := range report.Rows {
		if err := ctx.Err(); err != nil {
			return domain.Document{}, err
		}

		switch {
		case row.Best:
			setFill(doc, bestFill)
		case i%2 == 0:
			setFill(doc, evenFill)
		default:
			setFill(doc, oddFill)
		}

		for j, value := range rowValues(row) {
			doc.CellFormat(widths[j], rowHeight, fit(doc, tr(value), widths[j]), "1", 0, "C", true, 0, "")
		}
		doc.Ln(-1)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return domain.Document{}, fmt.Errorf("render comparison report: %w", err)
	}

	return domain.Document{
		Filename: report.Filename,
		MimeType: mimeType,
		Data:     buf.Bytes(),
	}, nil
}

func rowValues(row domain.ReportRow) []string {
	marker := ""
	if row.Best {
		marker = bestMarker
	}

	return []string{
		marker,
		row.Model,
		formatNumber(row.Price),
		row.Processor,
		row.GPU,
		row.RAM,
		row.Storage,
		row.Display,
		row.Battery,
		formatNumber(row.Score),
	}
}

func columnWidths(doc *fpdf.Fpdf) []float64 {
	pageWidth, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	available := pageWidth - left - right

	total := 0.0
	for _, column := range columns {
		total += column.weight
	}

	widths := make([]float64, len(columns))
	for i, column := range columns {
		widths[i] = available * column.weight / total
	}
	return widths
}

// fit shortens text that would overflow its cell.
func fit(doc *fpdf.Fpdf, text string, width float64) string {
	const padding = 4.0
	if doc.GetStringWidth(text) <= width-padding {
		return text
	}

	// Translated text is single-byte cp1252, so trimming bytes is safe.
	trimmed := text
	for len(trimmed) > 0 && doc.GetStringWidth(trimmed+"..") > width-padding {
		trimmed = trimmed[:len(trimmed)-1]
	}
	return trimmed + ".."
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func setFill(doc *fpdf.Fpdf, color rgb) {
	doc.SetFillColor(color.r, color.g, color.b)
}
