package domain

import (
	"fmt"
	"strings"
)

type PageSize string

const (
	PageSizeA4 PageSize = "A4"

	ComparisonReportFilename = "Laptop_Comparison.pdf"
	comparisonReportTitle    = "Top 5 Recommended Laptops Based on Your Budget"
)

type ReportRow struct {
	Best      bool
	Model     string
	Price     float64
	Processor string
	GPU       string
	RAM       string
	Storage   string
	Display   string
	Battery   string
	Score     float64
}

type Report struct {
	Title    string
	Filename string
	PageSize PageSize
	Rows     []ReportRow
}

type Document struct {
	Filename string
	MimeType string
	Data     []byte
}

func NewComparisonReport(shortlist Shortlist) Report {
	rows := make([]ReportRow, 0, len(shortlist.Results))
	for _, result := range shortlist.Results {
		entry := result.Entry
		rows = append(rows, ReportRow{
			Best:      result.Best,
			Model:     entry.Title(),
			Price:     entry.Price,
			Processor: entry.Processor,
			GPU:       entry.GPU,
			RAM:       entry.RAM,
			Storage:   entry.Storage,
			Display:   entry.Display,
			Battery:   batteryLabel(entry.BatteryLife),
			Score:     entry.Score,
		})
	}

	return Report{
		Title:    comparisonReportTitle,
		Filename: ComparisonReportFilename,
		PageSize: PageSizeA4,
		Rows:     rows,
	}
}

func (r Report) Validate() error {
	if len(r.Rows) == 0 {
		return ErrEmptyReport
	}
	if strings.TrimSpace(string(r.PageSize)) == "" {
		return fmt.Errorf("page size is required")
	}
	if strings.TrimSpace(r.Filename) == "" {
		return fmt.Errorf("filename is required")
	}
	return nil
}

func batteryLabel(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return trimmed + "h"
}
