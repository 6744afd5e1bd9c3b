package shortlist

import (
	"fmt"
	"math"
	"strings"

	"github.com/bnema/toplap/internal/application"
	"github.com/bnema/toplap/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const scoreBarWidth = 20

type RenderOptions struct {
	Locale domain.Locale
	// MaxScore is the top of the score bar scale. Zero means 100.
	MaxScore float64
}

// Render lays a shortlist out for a terminal.
func Render(list domain.Shortlist, opts RenderOptions) string {
	return renderView(list, opts, newStyles())
}

func renderView(list domain.Shortlist, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Top Laptops"),
		s.header.Render(fmt.Sprintf(
			"purpose: %s  budget: %s SAR  matches: %d",
			list.Purpose.Label(opts.Locale),
			application.FormatPrice(float64(list.Budget)),
			list.Total,
		)),
	}

	if len(list.Results) == 0 {
		lines = append(lines, s.empty.Render("No laptops match this budget."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for i, result := range list.Results {
		lines = append(lines, s.section.Render(renderResult(i+1, result, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderResult(rank int, result domain.RankedResult, opts RenderOptions, s styles) string {
	entry := result.Entry
	title := s.entry.Render(fmt.Sprintf("%d. %s", rank, entry.Title()))
	if result.Best {
		title += " " + s.best.Render("[best]")
	}

	scoreLine := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.detail.Render("score:"),
		" ",
		renderScoreBar(entry.Score, maxScore(opts), scoreBarWidth, s),
		" ",
		s.detail.Render(fmt.Sprintf("%.1f (adjusted %.2f)", entry.Score, result.AdjustedScore)),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		s.price.Render(fmt.Sprintf("price: %s SAR", application.FormatPrice(entry.Price))),
		s.detail.Render(fmt.Sprintf("cpu: %s  gpu: %s", orNA(entry.Processor), orNA(entry.GPU))),
		s.detail.Render(fmt.Sprintf("ram: %s  storage: %s", orNA(entry.RAM), orNA(entry.Storage))),
		s.detail.Render(fmt.Sprintf("display: %s  battery: %s", orNA(entry.Display), batteryLabel(entry.BatteryLife))),
		scoreLine,
	)
}

func renderScoreBar(score, max float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	fraction := clampFraction(score / max)
	filled := int(math.Round(float64(width) * fraction))
	if filled > width {
		filled = width
	}

	fill := lipgloss.NewStyle().Foreground(interpolateColor(fraction, 0, 1))
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func maxScore(opts RenderOptions) float64 {
	if opts.MaxScore <= 0 {
		return 100
	}
	return opts.MaxScore
}

func clampFraction(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func orNA(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "n/a"
	}
	return trimmed
}

func batteryLabel(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "n/a"
	}
	return trimmed + " h"
}

// interpolateColor maps value onto the 240..255 greyscale ramp.
func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	code := int(240.0 + 15.0*normalized)
	return lipgloss.Color(fmt.Sprintf("%d", code))
}
