//go:build jes32

package jes

// ref addresses a node slot in the pool. The all-ones value is reserved as
// the "none" sentinel. 32-bit descriptors double the slot size in exchange
// for a pool no longer capped at 65534 nodes.
type ref = uint32

const (
	refNone ref = 0xFFFFFFFF

	maxPoolCapacity = int(refNone) - 1
)
