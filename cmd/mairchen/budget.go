package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sebastiansucker/mAIrchen/pkg/cli"
	"github.com/sebastiansucker/mAIrchen/pkg/processing/costs"
	"github.com/sebastiansucker/mAIrchen/pkg/providers"
)

var budgetFlags struct {
	length int
	tier   string
	format string
}

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Show the token budget for a story length",
	Long: `Print the word range and completion token cap the generator uses for a
story of the given reading time and grade level, and what a story that
uses the whole cap would cost on the configured provider tier.

Examples:
  # Five minutes for grades 3 and 4
  mairchen budget --length 5

  # Ten minutes for grades 1 and 2
  mairchen budget --length 10 --tier 12`,
	RunE: showBudget,
}

func init() {
	rootCmd.AddCommand(budgetCmd)

	budgetCmd.Flags().IntVar(&budgetFlags.length, "length", 5, "reading time in minutes")
	budgetCmd.Flags().StringVar(&budgetFlags.tier, "tier", "34", "grade level: 12 or 34")
	budgetCmd.Flags().StringVar(&budgetFlags.format, "format", "text", "output format: text, json")
}

// budgetReport is the printable token budget.
type budgetReport struct {
	costs.TokenBudget
	ProviderTier string  `json:"provider_tier"`
	MaxCost      float64 `json:"max_cost"`
}

func (r budgetReport) Table() cli.Table {
	return cli.Table{
		Headers: []string{"SETTING", "VALUE"},
		Rows: [][]string{
			{"age_tier", string(r.AgeTier)},
			{"minutes", strconv.Itoa(r.Minutes)},
			{"words", fmt.Sprintf("%d-%d", r.MinWords, r.MaxWords)},
			{"max_tokens", strconv.Itoa(r.MaxTokens)},
			{"provider_tier", r.ProviderTier},
			{"max_cost", strconv.FormatFloat(r.MaxCost, 'f', 6, 64)},
		},
	}
}

func showBudget(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(budgetFlags.format)
	if err != nil {
		return err
	}
	if budgetFlags.length < 1 {
		return cli.NewConfigError("length", "must be at least 1 minute")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if budgetFlags.length > cfg.Story.MaxLength {
		return cli.NewConfigError("length", fmt.Sprintf("must be at most %d minutes", cfg.Story.MaxLength))
	}

	budget := costs.NewBudgetCalculator(cfg.Costs.BudgetConfig()).
		Budget(budgetFlags.length, costs.ParseAgeTier(budgetFlags.tier))
	tier := providers.ParseTier(cfg.Provider.Tier)

	report := budgetReport{
		TokenBudget:  budget,
		ProviderTier: string(tier),
		MaxCost:      costs.NewCalculator(cfg.Costs.Pricing()).ActualCost(budget.MaxTokens, tier),
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report)
}
