package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omidbimo/jeskit/jes"
	"github.com/omidbimo/jeskit/jes/printer"
)

var getSeparator string

var getCmd = &cobra.Command{
	Use:   "get <file> <path>",
	Short: "Look up a key by dotted path and print its value",
	Args:  cobra.ExactArgs(2),
	RunE:  runGet,
}

func init() {
	getCmd.Flags().
		StringVar(&getSeparator, "separator", ".", "Path separator character")
	rootCmd.AddCommand(getCmd)
}

func runGet(_ *cobra.Command, args []string) error {
	ctx, cleanup, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	if len(getSeparator) != 1 {
		return fmt.Errorf("separator must be a single character")
	}
	ctx.SetPathSeparator(getSeparator[0])

	key, err := ctx.GetKey(ctx.Root(), args[1])
	if err != nil {
		return fmt.Errorf("lookup %q: %s", args[1], printer.StatusLine(ctx))
	}

	value, err := ctx.GetKeyValue(key)
	if err != nil {
		return err
	}
	if value == nil {
		printInfo("%s = (no value)\n", args[1])
		return nil
	}

	switch value.Type() {
	case jes.Object, jes.Array:
		p := printer.New(os.Stdout, printer.Options{ShowValues: true})
		return p.Subtree(ctx, value)
	default:
		fmt.Println(printer.ElementString(value))
	}
	return nil
}
