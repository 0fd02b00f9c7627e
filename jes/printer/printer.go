// Package printer renders human-readable views of a document tree and its
// context state. It is a diagnostic surface: output format is for people,
// not for parsing, and may change between versions. Serializing back to
// JSON is the engine's own Render.
package printer

import (
	"fmt"
	"io"

	"github.com/omidbimo/jeskit/jes"
)

// Options controls what the printer emits.
type Options struct {
	// ShowValues includes the value text of string/number elements.
	ShowValues bool

	// MaxDepth stops descending below this depth; 0 means unlimited.
	MaxDepth int

	// MaxValueBytes truncates printed values; 0 means unlimited.
	MaxValueBytes int
}

// Printer writes tree dumps to a writer.
type Printer struct {
	w    io.Writer
	opts Options
}

// New creates a printer with the given options.
func New(w io.Writer, opts Options) *Printer {
	return &Printer{w: w, opts: opts}
}

// Tree dumps the whole document tree, one element per line, indented by
// depth.
func (p *Printer) Tree(ctx *jes.Context) error {
	root := ctx.Root()
	if root == nil {
		_, err := fmt.Fprintln(p.w, "(empty tree)")
		return err
	}
	return p.printSubtree(ctx, root, 0)
}

// Subtree dumps the branch rooted at el.
func (p *Printer) Subtree(ctx *jes.Context, el *jes.Element) error {
	return p.printSubtree(ctx, el, 0)
}

func (p *Printer) printSubtree(ctx *jes.Context, el *jes.Element, depth int) error {
	if p.opts.MaxDepth > 0 && depth >= p.opts.MaxDepth {
		return nil
	}

	if _, err := fmt.Fprintf(p.w, "%*s%s\n", depth*2, "", p.describe(el)); err != nil {
		return err
	}

	child, err := ctx.Child(el)
	if err != nil {
		return err
	}
	for child != nil {
		if err := p.printSubtree(ctx, child, depth+1); err != nil {
			return err
		}
		child, err = ctx.Sibling(child)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) describe(el *jes.Element) string {
	switch el.Type() {
	case jes.Key:
		return fmt.Sprintf("KEY %q", p.clip(el.Value()))
	case jes.String:
		if p.opts.ShowValues {
			return fmt.Sprintf("STRING %q", p.clip(el.Value()))
		}
		return fmt.Sprintf("STRING (%d bytes)", el.Len())
	case jes.Number:
		if p.opts.ShowValues {
			return fmt.Sprintf("NUMBER %s", p.clip(el.Value()))
		}
		return fmt.Sprintf("NUMBER (%d bytes)", el.Len())
	default:
		return el.Type().String()
	}
}

func (p *Printer) clip(s string) string {
	if p.opts.MaxValueBytes > 0 && len(s) > p.opts.MaxValueBytes {
		return s[:p.opts.MaxValueBytes] + "..."
	}
	return s
}

// ElementString formats one element the way the tree dump does.
func ElementString(el *jes.Element) string {
	if el == nil {
		return "(nil element)"
	}
	switch el.Type() {
	case jes.Key, jes.String:
		return fmt.Sprintf("%s %q", el.Type(), el.Value())
	case jes.Number:
		return fmt.Sprintf("%s %s", el.Type(), el.Value())
	default:
		return el.Type().String()
	}
}

// StatusLine summarizes the context's last outcome, including the parse
// position when a load failed.
func StatusLine(ctx *jes.Context) string {
	blk := ctx.StatusBlock()
	if blk.Status == jes.NoError {
		return "status: NO_ERROR"
	}
	return fmt.Sprintf("status: %s at line %d, column %d (token %s, element %s)",
		blk.Status, blk.Line, blk.Column, blk.TokenType, blk.ElementType)
}

// WorkspaceLine summarizes pool and hash table utilization.
func WorkspaceLine(ctx *jes.Context) string {
	ws := ctx.WorkspaceStat()
	if ws.HashTableCapacity > 0 {
		return fmt.Sprintf("workspace: %d bytes, pool %d/%d nodes, hash %d/%d entries",
			ws.WorkspaceSize, ws.NodeCount, ws.PoolCapacity,
			ws.HashTableEntryCount, ws.HashTableCapacity)
	}
	return fmt.Sprintf("workspace: %d bytes, pool %d/%d nodes",
		ws.WorkspaceSize, ws.NodeCount, ws.PoolCapacity)
}
