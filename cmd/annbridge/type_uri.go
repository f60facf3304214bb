package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"annbridge/internal/conversion"
)

var typeURICmd = &cobra.Command{
	Use:   "type-uri NAME...",
	Short: "Print the default external URI of type names",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, conversion.TypeURI(name))
		}
		return nil
	},
}
