package source

import (
	"context"
	"fmt"
)

// MemorySource serves a value held in memory.
type MemorySource struct {
	Data any
}

// Read returns the held value.
func (s *MemorySource) Read(context.Context) (any, error) {
	return s.Data, nil
}

func (s *MemorySource) String() string {
	return fmt.Sprintf("MemorySource(%T)", s.Data)
}

// RangeSource reads as the integers 0..N-1.
type RangeSource struct {
	N int
}

// Read returns the range.
func (s *RangeSource) Read(context.Context) (any, error) {
	out := make([]int, s.N)
	for i := range out {
		out[i] = i
	}
	return out, nil
}

func (s *RangeSource) String() string {
	return fmt.Sprintf("RangeSource(n=%d)", s.N)
}

// Wrapper reads through another source.
type Wrapper struct {
	Inner Source
}

// Read delegates to the wrapped source.
func (w *Wrapper) Read(ctx context.Context) (any, error) {
	return w.Inner.Read(ctx)
}

func (w *Wrapper) String() string {
	return fmt.Sprintf("Wrapper(inner=%v)", w.Inner)
}
