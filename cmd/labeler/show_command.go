package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"labeler/internal/config"
	"labeler/internal/store"
	"labeler/internal/textutil"
)

type labelSummary struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var summary bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <annotation-file>",
		Short: "Print a saved annotation document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve annotation path: %w", err)
			}
			doc, err := store.Load(path)
			if err != nil {
				return err
			}

			if summary {
				counts := summarizeLabels(doc)
				if jsonOutput {
					return writeJSON(cmd, counts)
				}
				rows := make([][]string, 0, len(counts))
				for _, c := range counts {
					rows = append(rows, []string{c.Label, strconv.Itoa(c.Count)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Label", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
				return nil
			}

			if jsonOutput {
				return writeJSON(cmd, doc)
			}
			if doc.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No annotations")
				return nil
			}
			entries := doc.Entries()
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Key, e.Label.String()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Item", "Label"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "Count items per label")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}

// summarizeLabels counts items per label in collated label order.
func summarizeLabels(doc store.Document) []labelSummary {
	counts := map[string]int{}
	for _, e := range doc.Entries() {
		counts[e.Label.String()]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	textutil.SortLabels(names, language.English)

	out := make([]labelSummary, 0, len(names))
	for _, name := range names {
		out = append(out, labelSummary{Label: name, Count: counts[name]})
	}
	return out
}
