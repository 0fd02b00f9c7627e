package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omidbimo/jeskit/jes/verify"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Parse a document and check the tree invariants",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	ctx, cleanup, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	issues := verify.Tree(ctx)
	if len(issues) > 0 {
		for _, issue := range issues {
			fmt.Println(issue)
		}
		return fmt.Errorf("%d invariant violation(s)", len(issues))
	}
	printInfo("%s: ok (%d elements)\n", args[0], ctx.ElementCount())
	return nil
}
