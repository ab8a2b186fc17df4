package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"descant/internal/pipeline"
	"descant/internal/preflight"
)

func newDescribeCommand(cmdCtx *commandContext) *cobra.Command {
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "describe <video>",
		Short: "Produce an audio-described copy of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.newLogger()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if !skipPreflight {
				results := preflight.RunAll(ctx, cfg)
				if !preflight.AllPassed(results) {
					for _, r := range results {
						if !r.Passed {
							fmt.Fprintf(cmd.ErrOrStderr(), "preflight: %s: %s\n", r.Name, r.Detail)
						}
					}
					return fmt.Errorf("preflight checks failed")
				}
			}

			store, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := pipeline.New(cfg, store, logger).Process(ctx, args[0])
			if err != nil {
				if run != nil {
					return fmt.Errorf("run %s failed: %w", run.ID, err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Described video written to %s\n", run.OutputPath)
			fmt.Fprintf(out, "Narrations placed: %d\n", run.NarrationCount)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip environment checks before processing")
	return cmd
}
