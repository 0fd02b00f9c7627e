package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var renderCompact bool

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Parse a document and serialize it back",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().
		BoolVarP(&renderCompact, "compact", "c", false, "Emit compact output instead of indented")
	rootCmd.AddCommand(renderCmd)
}

func runRender(_ *cobra.Command, args []string) error {
	ctx, cleanup, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	size, err := ctx.Evaluate(renderCompact)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	out := make([]byte, size)
	n, err := ctx.Render(out, renderCompact)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if _, err := os.Stdout.Write(out[:n]); err != nil {
		return err
	}
	fmt.Println()
	return nil
}
