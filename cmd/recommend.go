package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/toplap/internal/adapters/httpapi"
	shortlistadapter "github.com/bnema/toplap/internal/adapters/render/shortlist"
	"github.com/bnema/toplap/internal/application"
	"github.com/bnema/toplap/internal/domain"
	"github.com/spf13/cobra"
)

func newRecommendCmd(app *app) *cobra.Command {
	var purposeInput string
	var budgetInput string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank catalog laptops for a purpose and budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecommend(cmd, app, purposeInput, budgetInput, asJSON)
		},
	}

	cmd.Flags().StringVar(&purposeInput, "purpose", "", "Purpose: gaming, design, programming or studying")
	cmd.Flags().StringVar(&budgetInput, "budget", "", "Budget in SAR")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	_ = cmd.MarkFlagRequired("purpose")
	_ = cmd.MarkFlagRequired("budget")

	return cmd
}

func runRecommend(cmd *cobra.Command, app *app, purposeInput, budgetInput string, asJSON bool) error {
	purpose, ok := domain.LookupPurpose(purposeInput)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPurpose, purposeInput)
	}

	budget, err := domain.ParseBudget(budgetInput)
	if err != nil {
		return fmt.Errorf("budget %q: %w", budgetInput, err)
	}

	catalog, err := app.loadCatalog()
	if err != nil {
		return err
	}

	shortlist, err := application.Recommendations(catalog, purpose, budget)
	if err != nil && !errors.Is(err, domain.ErrNoMatches) {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(httpapi.NewShortlistResponse(shortlist))
	}

	rendered := shortlistadapter.Render(shortlist, shortlistadapter.RenderOptions{Locale: app.cfg.Locale})
	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
