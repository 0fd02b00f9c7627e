package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omidbimo/jeskit/internal/mmfile"
	"github.com/omidbimo/jeskit/jes"
)

var (
	// Global flags
	workspaceKB int
	hashed      bool
	quiet       bool
)

var rootCmd = &cobra.Command{
	Use:   "jesctl",
	Short: "Inspect and manipulate JSON documents with a fixed-memory workspace",
	Long: `jesctl loads JSON documents into a caller-sized workspace and exposes
the engine's operations from the command line: path lookups, compact or
indented rendering, workspace statistics, and structural validation.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().
		IntVarP(&workspaceKB, "workspace", "w", 256, "Workspace size in KiB")
	rootCmd.PersistentFlags().
		BoolVar(&hashed, "hashed", false, "Use the hashed key index instead of linear search")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors and results")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadDocument maps path and parses it into a fresh context. The caller
// must invoke cleanup after it is done with the tree: the element values
// point into the mapping.
func loadDocument(path string) (*jes.Context, func() error, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, nil, err
	}

	mode := jes.SearchLinear
	if hashed {
		mode = jes.SearchHashed
	}
	ctx, err := jes.Init(make([]byte, workspaceKB*1024), mode)
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("init workspace: %w", err)
	}
	if err := ctx.Load(data); err != nil {
		blk := ctx.StatusBlock()
		_ = cleanup()
		return nil, nil, fmt.Errorf("parse %s: %s at line %d, column %d",
			path, blk.Status, blk.Line, blk.Column)
	}
	return ctx, cleanup, nil
}

func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}
