package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the type system with the converter and URI of each type",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

var converterColor = color.New(color.FgCyan)

func runTypes(_ *cobra.Command, _ []string) error {
	ts, err := loadTypeSystem(cfg)
	if err != nil {
		return err
	}
	chain, err := buildChain(cfg)
	if err != nil {
		return err
	}
	for _, err := range chain.Bind(ts) {
		_, _ = warnColor.Fprint(os.Stderr, "inactive ")
		fmt.Fprintln(os.Stderr, err)
	}
	for _, name := range ts.Names() {
		conv := chain.ResolveType(name)
		fmt.Fprintf(os.Stdout, "%s\n  ", name)
		_, _ = converterColor.Fprintf(os.Stdout, "%-12s", conv.Name())
		fmt.Fprintf(os.Stdout, " %s\n", chain.TypeURIFor(name))
	}
	return nil
}
