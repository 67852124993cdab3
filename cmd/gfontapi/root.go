package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gfontapi/internal/fontrun"
)

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)
	var showSummary bool

	rootCmd := &cobra.Command{
		Use:           `gfontapi [flags] "<family>"`,
		Short:         "Download a font family as WOFF2 with a matching fonts.css",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				return cmd.Help()
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			summary, err := fontrun.Run(cmd.Context(), cfg, logger, args[0], fontrun.Options{
				Out:   out,
				Color: shouldColorize(out),
			})
			if err != nil {
				return err
			}
			if showSummary {
				fmt.Fprintln(out, renderRunSummary(summary))
			}
			return nil
		},
	}

	pflags := rootCmd.PersistentFlags()
	pflags.StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	pflags.StringVarP(&flags.apiKey, "api-key", "a", "", "Catalog API key (overrides GFONT_API_KEY)")
	pflags.StringVarP(&flags.targetDir, "target-dir", "t", "", "Directory that receives the <slug> font folder")
	pflags.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pflags.BoolVarP(&flags.verbose, "verbose", "v", false, "Shorthand for --log-level debug")
	rootCmd.Flags().BoolVar(&showSummary, "summary", false, "Print a per-variant table after the run")

	rootCmd.AddCommand(newVariantsCommand())
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
