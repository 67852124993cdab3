package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVariantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "variants",
		Short:       "List the variant tokens and the style each maps to",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Token", "Style", "Slant", "Weight"},
				variantRows(),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}
