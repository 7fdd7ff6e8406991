// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package therm

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineRing(t *testing.T) {
	r := NewLineRing(3)
	_, _ = r.Write([]byte("one\ntwo\r\n\nthree\n"))
	assert.Equal(t, []string{"one", "two", "three"}, r.LastN(5))

	_, _ = r.Write([]byte("four\n"))
	assert.Equal(t, []string{"two", "three", "four"}, r.LastN(3))
	assert.Equal(t, []string{"four"}, r.LastN(1))
	assert.Empty(t, NewLineRing(0).LastN(10))
}

func TestLineRingConcurrentWriters(t *testing.T) {
	r := NewLineRing(16)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = fmt.Fprintf(r, "writer %d line %d\n", i, j)
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, r.LastN(100), 16)
}
