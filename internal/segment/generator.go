package segment

import (
	"fmt"
	"sync/atomic"
)

// Generator produces stable, sequence-derived paragraph identifiers.
// A fresh generator per transcript keeps ids deterministic: the Nth
// paragraph of any segmentation is always "p-N".
type Generator struct {
	counter uint64
}

// NewGenerator returns a generator starting at p-1.
func NewGenerator() *Generator {
	return &Generator{}
}

// Next returns the next paragraph id.
func (g *Generator) Next() string {
	n := atomic.AddUint64(&g.counter, 1)
	return fmt.Sprintf("p-%d", n)
}
