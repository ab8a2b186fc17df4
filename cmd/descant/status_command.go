package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"descant/internal/preflight"
)

func newStatusCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check directories, external tools, and the model backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := false

			rows := make([][]string, 0, 8)
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				rows = append(rows, []string{result.Name, passLabel(result.Passed), result.Detail})
				if !result.Passed {
					failed = true
				}
			}
			for _, status := range preflight.CheckSystemDeps(cfg) {
				rows = append(rows, []string{status.Name, passLabel(status.Available), status.Detail})
				if !status.Available && !status.Optional {
					failed = true
				}
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "State", "Detail"}, rows))

			if failed {
				return fmt.Errorf("environment is not ready")
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}

func passLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAIL"
}
