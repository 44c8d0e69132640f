package arena

import "sync/atomic"

// WorkCounter hands out game indices. Every Claim returns a distinct index,
// so claims past the total are simply dropped by the caller.
type WorkCounter struct {
	next atomic.Uint64
}

func (c *WorkCounter) Claim() int {
	return int(c.next.Add(1) - 1)
}

func (c *WorkCounter) Claimed() int {
	return int(c.next.Load())
}
