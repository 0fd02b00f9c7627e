package jes

// Stat counts live elements by kind.
type Stat struct {
	Objects int
	Keys    int
	Arrays  int
	Values  int
}

// Stat tallies the tree in one pre-order walk.
func (c *Context) Stat() Stat {
	var stat Stat
	if c == nil || c.cookie != contextCookie {
		return stat
	}

	iter := c.rootRef
	for iter != refNone {
		switch Type(c.pool[iter].typ) {
		case Object:
			stat.Objects++
		case Key:
			stat.Keys++
		case Array:
			stat.Arrays++
		default:
			stat.Values++
		}

		el := &c.pool[iter]
		switch {
		case el.firstChild != refNone:
			iter = el.firstChild
		case el.sibling != refNone:
			iter = el.sibling
		default:
			for {
				iter = c.pool[iter].parent
				if iter == refNone {
					break
				}
				if c.pool[iter].sibling != refNone {
					iter = c.pool[iter].sibling
					break
				}
			}
		}
	}
	return stat
}

// WorkspaceStat describes how the workspace is partitioned and used.
type WorkspaceStat struct {
	WorkspaceSize int
	ContextSize   int

	PoolSize     int
	PoolCapacity int
	NodeCount    int

	HashTableSize       int
	HashTableCapacity   int
	HashTableEntryCount int
}

// WorkspaceStat reports the region sizes and utilization of the context's
// workspace.
func (c *Context) WorkspaceStat() WorkspaceStat {
	var stat WorkspaceStat
	if c == nil || c.cookie != contextCookie {
		return stat
	}
	stat.WorkspaceSize = len(c.workspace)
	stat.ContextSize = ContextHeaderSize
	stat.PoolSize = c.poolBytes
	stat.PoolCapacity = c.capacity
	stat.NodeCount = c.liveCount
	if c.table != nil {
		stat.HashTableSize = len(c.workspace) - c.tableOff
		stat.HashTableCapacity = c.table.Capacity()
		stat.HashTableEntryCount = c.table.Count()
	}
	return stat
}
