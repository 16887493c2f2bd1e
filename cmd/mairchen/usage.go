package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sebastiansucker/mAIrchen/pkg/cli"
	"github.com/sebastiansucker/mAIrchen/pkg/config"
	"github.com/sebastiansucker/mAIrchen/pkg/usage"
	"github.com/sebastiansucker/mAIrchen/pkg/usage/export"
	"github.com/sebastiansucker/mAIrchen/pkg/usage/retention"
	"github.com/sebastiansucker/mAIrchen/pkg/usage/storage"
)

type usageOptions struct {
	since     time.Duration
	clientKey string
	tier      string
	outcome   string
	limit     int
	offset    int
	format    string
	days      int
}

var usageFlags usageOptions

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Inspect the usage journal",
	Long: `Query, summarize and prune the journal of admitted story requests.

The journal holds one record per admitted request with its terminal outcome,
token usage and cost. It is an audit trail; the admission limits are never
rebuilt from it.

Subcommands:
  query   - List records, newest first
  totals  - Sum records, tokens and cost
  prune   - Delete records older than the retention period`,
}

var usageQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "List journal records",
	Long: `List journal records, newest first.

Examples:
  # Last 24 hours
  mairchen usage query --since 24h

  # Failures of one client as CSV
  mairchen usage query --client 203.0.113.7 --outcome upstream_failure --format csv`,
	RunE: queryUsage,
}

var usageTotalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Summarize journal records",
	Long: `Sum records, tokens and cost of matching journal records.

Examples:
  # Today's spend so far
  mairchen usage totals --since 24h`,
	RunE: usageTotals,
}

var usagePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old journal records",
	Long: `Delete records older than the retention period. --days overrides
usage.retention.days.

Examples:
  mairchen usage prune --days 7`,
	RunE: pruneUsage,
}

func init() {
	rootCmd.AddCommand(usageCmd)
	usageCmd.AddCommand(usageQueryCmd, usageTotalsCmd, usagePruneCmd)

	for _, c := range []*cobra.Command{usageQueryCmd, usageTotalsCmd} {
		c.Flags().DurationVar(&usageFlags.since, "since", 0, "only records newer than this (e.g. 24h)")
		c.Flags().StringVar(&usageFlags.clientKey, "client", "", "filter by client key")
		c.Flags().StringVar(&usageFlags.tier, "tier", "", "filter by provider tier")
		c.Flags().StringVar(&usageFlags.outcome, "outcome", "", "filter by outcome: success, upstream_failure")
	}
	usageQueryCmd.Flags().IntVar(&usageFlags.limit, "limit", usage.DefaultQueryLimit, "max results")
	usageQueryCmd.Flags().IntVar(&usageFlags.offset, "offset", 0, "pagination offset")
	usageQueryCmd.Flags().StringVar(&usageFlags.format, "format", "text", "output format: text, json, csv")
	usageTotalsCmd.Flags().StringVar(&usageFlags.format, "format", "text", "output format: text, json")
	usagePruneCmd.Flags().IntVar(&usageFlags.days, "days", 0, "retention in days (default from config)")
}

// openJournal opens the configured journal backend.
func openJournal() (usage.Storage, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Usage.Enabled {
		return nil, nil, cli.NewConfigError("usage.enabled", "usage journal is disabled")
	}
	store, err := storage.Open(cfg.Usage)
	if err != nil {
		return nil, nil, cli.NewCommandError("usage", err)
	}
	return store, cfg, nil
}

func buildUsageQuery() (*usage.Query, error) {
	q := &usage.Query{
		ClientKey: usageFlags.clientKey,
		Tier:      usageFlags.tier,
		Outcome:   usage.Outcome(usageFlags.outcome),
		Limit:     usageFlags.limit,
		Offset:    usageFlags.offset,
	}
	if q.Outcome != "" && !q.Outcome.Valid() {
		return nil, fmt.Errorf("unknown outcome %q", usageFlags.outcome)
	}
	if usageFlags.since > 0 {
		since := time.Now().Add(-usageFlags.since)
		q.Since = &since
	}
	return q, nil
}

// recordTable renders records in text output.
type recordTable []*usage.Record

func (t recordTable) Table() cli.Table {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{
			r.CreatedAt.Local().Format(time.DateTime),
			r.ClientKey,
			r.Tier,
			string(r.Outcome),
			strconv.Itoa(r.TokensUsed),
			strconv.FormatFloat(r.ActualCost, 'f', 6, 64),
			r.Duration.Round(time.Millisecond).String(),
		})
	}
	return cli.Table{
		Headers: []string{"TIME", "CLIENT", "TIER", "OUTCOME", "TOKENS", "COST", "DURATION"},
		Rows:    rows,
	}
}

func queryUsage(cmd *cobra.Command, args []string) error {
	query, err := buildUsageQuery()
	if err != nil {
		return err
	}

	store, _, err := openJournal()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	records, err := store.Query(ctx, query)
	if err != nil {
		return cli.NewCommandError("usage query", err)
	}

	out := cmd.OutOrStdout()
	if exporter, ok := export.ForFormat(usageFlags.format); ok {
		return exporter.Export(ctx, records, out)
	}
	if usageFlags.format != string(cli.FormatText) {
		return fmt.Errorf("unsupported output format %q (want text, json or csv)", usageFlags.format)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No usage records found.")
		return nil
	}
	return cli.NewFormatter(cli.FormatText).FormatTo(out, recordTable(records))
}

// totalsView renders totals in text output.
type totalsView struct {
	*usage.Totals
}

func (v totalsView) Table() cli.Table {
	return cli.Table{
		Headers: []string{"METRIC", "VALUE"},
		Rows: [][]string{
			{"records", strconv.FormatInt(v.Records, 10)},
			{"successes", strconv.FormatInt(v.Successes, 10)},
			{"failures", strconv.FormatInt(v.Failures, 10)},
			{"tokens_used", strconv.FormatInt(v.TokensUsed, 10)},
			{"estimated_cost", strconv.FormatFloat(v.EstimatedCost, 'f', 4, 64)},
			{"actual_cost", strconv.FormatFloat(v.ActualCost, 'f', 4, 64)},
		},
	}
}

func usageTotals(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(usageFlags.format)
	if err != nil {
		return err
	}
	query, err := buildUsageQuery()
	if err != nil {
		return err
	}

	store, _, err := openJournal()
	if err != nil {
		return err
	}
	defer store.Close()

	totals, err := store.Totals(context.Background(), query)
	if err != nil {
		return cli.NewCommandError("usage totals", err)
	}

	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), totals)
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), totalsView{totals})
}

func pruneUsage(cmd *cobra.Command, args []string) error {
	store, cfg, err := openJournal()
	if err != nil {
		return err
	}
	defer store.Close()

	days := usageFlags.days
	if days == 0 {
		days = cfg.Usage.Retention.Days
	}
	if days <= 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Retention is disabled; nothing to prune.")
		return nil
	}

	pruner := retention.NewPruner(store, retention.Config{RetentionDays: days})
	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		return cli.NewCommandError("usage prune", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %d records older than %s\n",
		deleted, pruner.Cutoff().Local().Format(time.DateTime))
	return nil
}
