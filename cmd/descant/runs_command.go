package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"descant/internal/runs"
)

func newRunsCommand(cmdCtx *commandContext) *cobra.Command {
	var statusFilter []string
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := parseStatusFilter(statusFilter)
			if err != nil {
				return err
			}

			store, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := store.List(cmd.Context(), statuses, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, run := range items {
				rows = append(rows, runRow(run))
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Status", "Source", "Narrations", "Updated", "Detail"},
				rows, 4))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statusFilter, "status", nil, "Only show runs with these statuses")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

func parseStatusFilter(values []string) ([]runs.Status, error) {
	statuses := make([]runs.Status, 0, len(values))
	for _, value := range values {
		status := runs.Status(strings.ToLower(strings.TrimSpace(value)))
		if !status.Valid() {
			return nil, fmt.Errorf("unknown run status %q", value)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func runRow(run *runs.Run) []string {
	detail := run.OutputPath
	if run.Status == runs.StatusFailed {
		detail = run.ErrorMessage
	}
	return []string{
		shortID(run.ID),
		string(run.Status),
		filepath.Base(run.SourcePath),
		fmt.Sprintf("%d", run.NarrationCount),
		formatTimestamp(run.UpdatedAt),
		truncate(detail, 60),
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04")
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
