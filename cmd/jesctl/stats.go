package main

import (
	"github.com/spf13/cobra"

	"github.com/omidbimo/jeskit/jes/printer"
)

var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Print element and workspace statistics for a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	ctx, cleanup, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	stat := ctx.Stat()
	printInfo("objects: %d\nkeys:    %d\narrays:  %d\nvalues:  %d\n",
		stat.Objects, stat.Keys, stat.Arrays, stat.Values)
	printInfo("%s\n", printer.WorkspaceLine(ctx))
	return nil
}
