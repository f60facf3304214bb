package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"annbridge/internal/metrics"
	"annbridge/internal/service"
	"annbridge/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Annotate, convert and upload items",
	Long: `Run the configured pipeline. For a local source, paths or glob patterns of
.txt files given here replace the configured ones.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().Bool("browse", false, "open the record browser after the run")
	runCmd.Flags().Bool("dry-run", false, "keep records in memory instead of the configured sink")
}

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
)

func runRun(cmd *cobra.Command, args []string) error {
	browse, _ := cmd.Flags().GetBool("browse")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		mctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := m.Serve(mctx, cfg.Metrics.Addr, logger); err != nil {
				logger.Error("metrics server", "error", err)
			}
		}()
	}

	p, closeSink, err := buildPipeline(ctx, cfg, m, args, dryRun)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSink(); err != nil {
			logger.Error("close sink", "error", err)
		}
	}()

	sum, runErr := p.Run(ctx)
	printSummary(sum)
	if browse && sum != nil {
		if err := browseResults(sum); err != nil {
			return err
		}
	}
	return runErr
}

func printSummary(sum *service.Summary) {
	if sum == nil {
		return
	}
	out := os.Stdout
	fmt.Fprintf(out, "run %s\n", sum.RunID)
	for _, err := range sum.BindErrors {
		_, _ = warnColor.Fprint(out, "  inactive  ")
		fmt.Fprintln(out, err)
	}
	status := okColor
	if sum.Failed > 0 {
		status = failColor
	}
	_, _ = status.Fprintf(out, "  items     %d (%d failed)\n", len(sum.Items), sum.Failed)
	fmt.Fprintf(out, "  converted %d\n  sent      %d\n  skipped   %d\n", sum.Converted, sum.Sent, sum.Skipped)
	if sum.Rejected > 0 {
		_, _ = warnColor.Fprintf(out, "  rejected  %d\n", sum.Rejected)
	}
}

func browseResults(sum *service.Summary) error {
	entries := make([]tui.Entry, 0, len(sum.Items))
	for _, it := range sum.Items {
		entries = append(entries, tui.Entry{ItemID: it.Item.ID, Text: it.Text, Records: it.Records})
	}
	header := fmt.Sprintf("run %s: %d records from %d items", sum.RunID, sum.Converted, len(sum.Items))
	_, err := tea.NewProgram(tui.New(entries, header), tea.WithAltScreen()).Run()
	return err
}
