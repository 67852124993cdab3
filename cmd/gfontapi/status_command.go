package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gfontapi/internal/catalog"
	"gfontapi/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var family string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check the converter, output directory, and catalog credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			opts := preflight.Options{CheckFamily: strings.TrimSpace(family)}
			if opts.CheckFamily != "" && cfg.Catalog.APIKey != "" {
				client, err := catalog.New(cfg.Catalog.APIKey, cfg.Catalog.BaseURL, catalog.WithTimeout(cfg.CatalogTimeout()))
				if err != nil {
					return err
				}
				opts.Fetcher = client
			}

			lines := renderSectionHeader("Configuration", colorize)
			configDetail := ctx.configPath
			if !ctx.configSeen {
				configDetail += " (not found, defaults used)"
			}
			lines = append(lines,
				renderStatusLine("Config file", statusInfo, configDetail, colorize),
				renderStatusLine("Stylesheet order", statusInfo, cfg.Stylesheet.Order, colorize),
				"",
			)
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			lines = append(lines, dependencyLines(preflight.CheckSystemDeps(cfg), colorize)...)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Checks", colorize)...)
			lines = append(lines, checkLines(preflight.RunAll(cmd.Context(), cfg, opts), colorize)...)

			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&family, "check-family", "", "Family looked up to verify the API key against the catalog")
	return cmd
}
