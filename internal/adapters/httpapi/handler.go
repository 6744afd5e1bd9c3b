// Package httpapi exposes the optional ops HTTP surface.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/bnema/toplap/internal/application"
	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Handler struct {
	catalog ports.Catalog
	stats   ports.StatsReader
	version string
	logger  *zap.Logger
}

func NewHandler(catalog ports.Catalog, stats ports.StatsReader, version string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		catalog: catalog,
		stats:   stats,
		version: version,
		logger:  logger.Named("httpapi"),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	e.GET("/v1/recommendations", h.Recommendations)
	e.GET("/v1/stats", h.Stats)
}

// Health returns health status.
// GET /healthz
func (h *Handler) Health(c echo.Context) error {
	entries := 0
	if h.catalog != nil {
		entries = len(h.catalog.Entries())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":          "healthy",
		"version":         h.version,
		"catalog_entries": entries,
	})
}

type ResultResponse struct {
	ID            string  `json:"id"`
	Brand         string  `json:"brand"`
	Model         string  `json:"model"`
	Processor     string  `json:"processor"`
	GPU           string  `json:"gpu"`
	RAM           string  `json:"ram"`
	Storage       string  `json:"storage"`
	Display       string  `json:"display"`
	BatteryLife   string  `json:"battery_life"`
	Price         float64 `json:"price"`
	Score         float64 `json:"score"`
	AdjustedScore float64 `json:"adjusted_score"`
	Best          bool    `json:"best"`
}

type ShortlistResponse struct {
	Purpose string           `json:"purpose"`
	Budget  int64            `json:"budget"`
	Total   int              `json:"total"`
	Results []ResultResponse `json:"results"`
}

// NewShortlistResponse flattens a shortlist into its JSON wire shape.
func NewShortlistResponse(list domain.Shortlist) ShortlistResponse {
	results := make([]ResultResponse, 0, len(list.Results))
	for _, result := range list.Results {
		entry := result.Entry
		results = append(results, ResultResponse{
			ID:            entry.ID,
			Brand:         entry.Brand,
			Model:         entry.Model,
			Processor:     entry.Processor,
			GPU:           entry.GPU,
			RAM:           entry.RAM,
			Storage:       entry.Storage,
			Display:       entry.Display,
			BatteryLife:   entry.BatteryLife,
			Price:         entry.Price,
			Score:         entry.Score,
			AdjustedScore: result.AdjustedScore,
			Best:          result.Best,
		})
	}

	return ShortlistResponse{
		Purpose: list.Purpose.Tag(),
		Budget:  int64(list.Budget),
		Total:   list.Total,
		Results: results,
	}
}

// Recommendations runs the engine for a purpose and budget.
// GET /v1/recommendations?purpose=gaming&budget=5000
func (h *Handler) Recommendations(c echo.Context) error {
	purpose, ok := domain.LookupPurpose(c.QueryParam("purpose"))
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown purpose"})
	}

	budget, err := domain.ParseBudget(c.QueryParam("budget"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	shortlist, err := application.Recommendations(h.catalog, purpose, budget)
	if err != nil && !errors.Is(err, domain.ErrNoMatches) {
		h.logger.Error("recommendations failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to compute recommendations"})
	}

	return c.JSON(http.StatusOK, NewShortlistResponse(shortlist))
}

// Stats serves the stats artifact as written by the stats recorder.
// GET /v1/stats
func (h *Handler) Stats(c echo.Context) error {
	if h.stats == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "stats disabled"})
	}

	doc, err := h.stats.ReadStats(c.Request().Context())
	if errors.Is(err, domain.ErrStatsNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no stats recorded yet"})
	}
	if err != nil {
		h.logger.Error("read stats failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to read stats"})
	}

	return c.Blob(http.StatusOK, doc.MimeType, doc.Data)
}
