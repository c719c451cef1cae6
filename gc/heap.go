// Package gc implements the Mint runtime's memory manager: a bump allocator
// over a fixed-size semispace heap, and the Cheney-style copying collector
// that reclaims it. The heap is reserved once at startup and split into two
// equal halves; allocation only ever happens in from-space, and a collection
// copies the reachable objects into to-space and swaps the two.
//
// The mutator is code emitted by the Mint compiler. It runs single threaded,
// writes object headers itself (see internal/layout) and keeps its live
// pointers in root slots at fixed frame offsets (see internal/frame), so the
// collector needs no cooperation from it beyond that calling convention.
package gc

import (
	"unsafe"

	"github.com/tinygo-org/mintrt/internal/frame"
	"github.com/tinygo-org/mintrt/internal/layout"
	"github.com/tinygo-org/mintrt/trace"
)

const wordBytes = layout.WordBytes

// gcAsserts enables internal sanity checks, at some cost in speed.
const gcAsserts = true

// MemStats holds the runtime's allocation and collection counters.
type MemStats struct {
	// Mallocs is the total number of allocation requests.
	Mallocs uint64

	// TotalAllocWords is the total number of words handed out, including
	// words that have since been reclaimed.
	TotalAllocWords uint64

	// Collections is the number of collection cycles run.
	Collections uint64

	// LiveWords is the number of words copied by the last cycle.
	LiveWords uintptr
}

// Heap owns the two semispace halves and everything the allocator and
// collector need: the bump cursor, the base frame where root scanning stops,
// and the diagnostic tracer.
type Heap struct {
	words     []uintptr // single reservation backing both halves
	halfWords uintptr

	// fromStart and toStart address the current halves; their roles swap
	// every collection cycle.
	fromStart uintptr
	toStart   uintptr

	// bump is the address of the next free word in from-space.
	bump uintptr

	base   frame.Frame
	tracer *trace.Tracer
	stats  MemStats
}

var initialized bool

// Init reads the runtime configuration, reserves the heap and records base as
// the frame where root scanning terminates. The startup code emitted by the
// compiler calls Init exactly once, before any allocation, passing its own
// frame pointer.
func Init(base frame.Frame) *Heap {
	if initialized {
		panic("gc: Init called twice")
	}
	initialized = true
	return InitWithConfig(LoadConfig(), base)
}

// InitWithConfig is Init with an explicit configuration.
func InitWithConfig(cfg Config, base frame.Frame) *Heap {
	return NewHeap(cfg, base, trace.New(cfg.Log))
}

// NewHeap is InitWithConfig with an explicit tracer, so tests and tools can
// capture the diagnostic output.
func NewHeap(cfg Config, base frame.Frame, tr *trace.Tracer) *Heap {
	if cfg.HeapWords == 0 || cfg.HeapWords%2 == 1 {
		fatal(msgBadHeapWords)
		return nil
	}
	words, ok := reserveWords(uintptr(cfg.HeapWords))
	if !ok {
		fatal(msgHeapReservation)
		return nil
	}
	h := &Heap{
		words:     words,
		halfWords: uintptr(cfg.HeapWords) / 2,
		base:      base,
		tracer:    tr,
	}
	h.fromStart = uintptr(unsafe.Pointer(&h.words[0]))
	h.toStart = h.fromStart + h.halfWords*wordBytes
	h.bump = h.fromStart
	tr.HeapInitialized(cfg.HeapWords)
	return h
}

// reserveWords reserves the heap's backing store. A size the Go runtime
// refuses to allocate reads as a reservation failure.
func reserveWords(n uintptr) (words []uintptr, ok bool) {
	defer func() {
		if recover() != nil {
			words, ok = nil, false
		}
	}()
	return make([]uintptr, n), true
}

// Stats returns a snapshot of the runtime's counters.
func (h *Heap) Stats() MemStats {
	return h.stats
}

// FreeWords returns the number of words left in from-space's free region.
func (h *Heap) FreeWords() uintptr {
	return (h.fromStart + h.halfWords*wordBytes - h.bump) / wordBytes
}

func (h *Heap) inFromSpace(addr uintptr) bool {
	return addr >= h.fromStart && addr < h.fromStart+h.halfWords*wordBytes
}

func (h *Heap) inToSpace(addr uintptr) bool {
	return addr >= h.toStart && addr < h.toStart+h.halfWords*wordBytes
}
