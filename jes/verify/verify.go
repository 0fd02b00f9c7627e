// Package verify checks a document tree against its structural invariants
// and reports violations instead of panicking. It is used by tests and by
// jesctl validate; the engine itself maintains the invariants and does not
// call into this package.
package verify

import (
	"fmt"

	"github.com/omidbimo/jeskit/jes"
)

// Issue is one detected invariant violation.
type Issue struct {
	Element *jes.Element
	Msg     string
}

func (i Issue) String() string {
	if i.Element == nil {
		return i.Msg
	}
	return fmt.Sprintf("%s: %s", i.Element.Type(), i.Msg)
}

// Tree walks the whole document and returns every violation found: child
// lists whose sibling chain does not end at the last child, illegal
// child types under objects, keys and arrays, broken parent back-links,
// duplicate key names, and keys holding more than one value.
func Tree(ctx *jes.Context) []Issue {
	root := ctx.Root()
	if root == nil {
		return nil
	}
	var issues []Issue
	if parent, err := ctx.Parent(root); err != nil || parent != nil {
		issues = append(issues, Issue{root, "root element has a parent"})
	}
	return checkSubtree(ctx, root, issues)
}

func checkSubtree(ctx *jes.Context, el *jes.Element, issues []Issue) []Issue {
	issues = checkChildren(ctx, el, issues)

	child, _ := ctx.Child(el)
	for child != nil {
		issues = checkSubtree(ctx, child, issues)
		child, _ = ctx.Sibling(child)
	}
	return issues
}

func checkChildren(ctx *jes.Context, el *jes.Element, issues []Issue) []Issue {
	first, err := ctx.Child(el)
	if err != nil {
		return append(issues, Issue{el, "first child descriptor is invalid"})
	}
	last, err := ctx.LastChild(el)
	if err != nil {
		return append(issues, Issue{el, "last child descriptor is invalid"})
	}
	if (first == nil) != (last == nil) {
		return append(issues, Issue{el, "first/last child disagree about emptiness"})
	}
	if first == nil {
		return issues
	}

	seen := map[string]bool{}
	count := 0
	var tail *jes.Element
	for it := first; it != nil; {
		count++
		issues = checkChildShape(ctx, el, it, count, issues)

		if parent, err := ctx.Parent(it); err != nil || parent != el {
			issues = append(issues, Issue{it, "parent back-reference does not match"})
		}

		if el.Type() == jes.Object && it.Type() == jes.Key {
			name := it.Value()
			if seen[name] {
				issues = append(issues, Issue{it, fmt.Sprintf("duplicate key %q", name)})
			}
			seen[name] = true
		}

		tail = it
		next, err := ctx.Sibling(it)
		if err != nil {
			issues = append(issues, Issue{it, "sibling descriptor is invalid"})
			break
		}
		it = next
	}

	if tail != last {
		issues = append(issues, Issue{el, "sibling chain does not terminate at last child"})
	}
	return issues
}

func checkChildShape(ctx *jes.Context, parent, child *jes.Element, nth int, issues []Issue) []Issue {
	switch parent.Type() {
	case jes.Object:
		if child.Type() != jes.Key {
			issues = append(issues, Issue{child, "object child is not a key"})
		}
	case jes.Key:
		if nth > 1 {
			issues = append(issues, Issue{parent, "key owns more than one value"})
		}
		if child.Type() == jes.Key {
			issues = append(issues, Issue{child, "key value is a key"})
		}
	case jes.Array:
		if child.Type() == jes.Key {
			issues = append(issues, Issue{child, "array child is a key"})
		}
	default:
		issues = append(issues, Issue{parent, "value element has children"})
	}
	return issues
}
