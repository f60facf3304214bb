package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"annbridge/internal/dump"
	"annbridge/internal/service"
	"annbridge/internal/sink/memory"
	"annbridge/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse DUMP...",
	Short: "Convert dumped documents and browse the records",
	Long:  "Read msgpack dumps (files or directories), convert them through the configured chain and open the record browser.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBrowse,
}

func runBrowse(_ *cobra.Command, args []string) error {
	docs, err := dump.ReadAll(args...)
	if err != nil {
		return err
	}
	ts, err := loadTypeSystem(cfg)
	if err != nil {
		return err
	}
	chain, err := buildChain(cfg)
	if err != nil {
		return err
	}
	p := service.New(nil, nil, chain, memory.NewStorage(),
		service.WithUploadableTypes(cfg.UploadableTypes...), service.WithLogger(logger))
	p.Bind(ts)

	entries := make([]tui.Entry, 0, len(docs))
	total := 0
	for _, doc := range docs {
		recs, err := p.Convert(doc)
		if err != nil {
			return fmt.Errorf("item %s: %w", doc.ItemID, err)
		}
		total += len(recs)
		entries = append(entries, tui.Entry{ItemID: doc.ItemID, Text: doc.Text, Records: recs})
	}
	header := fmt.Sprintf("%d records from %d dumps", total, len(docs))
	_, err = tea.NewProgram(tui.New(entries, header), tea.WithAltScreen()).Run()
	return err
}
