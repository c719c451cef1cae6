// Command mintgc-sim drives the Mint runtime with a synthetic mutator, so the
// collector trace can be inspected or diffed without compiling a Mint
// program. It builds a well-formed stack with frame.Builder, keeps a linked
// list alive through a root slot, produces garbage on the side, and
// periodically drops the list to let a collection reclaim it.
package main

import (
	"flag"
	"fmt"

	"github.com/tinygo-org/mintrt/gc"
	"github.com/tinygo-org/mintrt/internal/frame"
	"github.com/tinygo-org/mintrt/internal/layout"
)

func main() {
	heapWords := flag.Uint64("heap-words", 512, "total heap size in words (both halves)")
	logGC := flag.Bool("log", true, "emit the collector trace")
	iterations := flag.Int("iterations", 100, "number of mutator steps to run")
	dropEvery := flag.Int("drop-every", 25, "drop the live list every n steps (0 to never drop)")
	flag.Parse()

	stack := frame.NewBuilder(64)
	base := stack.PushFrame()
	mut := stack.PushFrame(0) // root 0 holds the list head

	h := gc.InitWithConfig(gc.Config{HeapWords: *heapWords, Log: *logGC}, base)

	for i := 0; i < *iterations; i++ {
		// Garbage nobody keeps a reference to.
		block := h.Alloc(1+4, mut)
		gc.StoreWord(block, uintptr(layout.EncodeAtomicArray(4)))

		// Prepend a node to the list held in root 0. The node layout is
		// {next, value} with one leading pointer field.
		block = h.Alloc(1+2, mut)
		gc.StoreWord(block, uintptr(layout.EncodeStruct(2, 1)))
		node := block + layout.WordBytes
		gc.StoreWord(node, mut.Root(0))
		gc.StoreWord(node+layout.WordBytes, uintptr(i))
		mut.SetRoot(0, node)

		if *dropEvery > 0 && (i+1)%*dropEvery == 0 {
			mut.SetRoot(0, 0)
		}
	}

	stats := h.Stats()
	fmt.Printf("allocations: %d (%d words)\n", stats.Mallocs, stats.TotalAllocWords)
	fmt.Printf("collections: %d\n", stats.Collections)
	fmt.Printf("live words after last cycle: %d\n", stats.LiveWords)
	fmt.Printf("list length: %d\n", listLength(mut.Root(0)))
}

// listLength walks the node chain from head, rereading the heap each step:
// after a collection every node address may have changed, so nothing outside
// the root slot is cached.
func listLength(head uintptr) int {
	n := 0
	for p := head; p != 0; p = gc.LoadWord(p) {
		n++
	}
	return n
}
