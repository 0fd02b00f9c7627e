// Package jes is an in-place JSON document engine over caller-supplied
// memory.
//
// A Context is initialized on a workspace buffer provided by the caller and
// never allocates afterwards: node slots, the optional key index, and all
// bookkeeping live inside that buffer. Key and value bytes held by the tree
// are borrowed views into memory the caller owns — the loaded document for
// parsed trees, the argument bytes for mutation calls — and must stay
// reachable and unchanged until the referencing nodes are deleted or the
// context is reset.
//
// A context is exclusively owned: it must not be used from more than one
// goroutine at a time.
//
// Typical use:
//
//	workspace := make([]byte, 1<<16)
//	ctx, err := jes.Init(workspace, jes.SearchHashed)
//	if err != nil { ... }
//	if err := ctx.Load(doc); err != nil { ... }
//	key, err := ctx.GetKey(ctx.Root(), "server.listen.port")
package jes
