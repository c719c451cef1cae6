// Package trace emits the collector's diagnostic log. The log is purely
// observational: nothing in the runtime changes behavior based on it. The
// exact line formats are part of the observable contract, since compiler test
// suites diff the trace against expected output.
package trace

import (
	"fmt"
	"io"

	"github.com/inhies/go-bytesize"
	"github.com/mattn/go-colorable"

	"github.com/tinygo-org/mintrt/internal/layout"
)

// Tracer writes the collector trace. A disabled (or nil) Tracer discards
// every event.
type Tracer struct {
	w       io.Writer
	enabled bool
}

// New returns a Tracer writing to standard output. The writer goes through
// go-colorable so the trace also renders on legacy Windows consoles.
func New(enabled bool) *Tracer {
	return &Tracer{w: colorable.NewColorableStdout(), enabled: enabled}
}

// NewWithWriter returns a Tracer writing to w. Tests use this to capture the
// trace.
func NewWithWriter(enabled bool, w io.Writer) *Tracer {
	return &Tracer{w: w, enabled: enabled}
}

// Enabled reports whether events are being written.
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

// HeapInitialized logs the one-time heap reservation.
func (t *Tracer) HeapInitialized(heapWords uint64) {
	if !t.Enabled() {
		return
	}
	size := bytesize.New(float64(heapWords * uint64(layout.WordBytes)))
	fmt.Fprintf(t.w, "initgc: allocated heap of %d words (%s)\n", heapWords, size)
}

// AllocFast logs an allocation satisfied without a collection.
func (t *Tracer) AllocFast(numWords uintptr) {
	if !t.Enabled() {
		return
	}
	fmt.Fprintf(t.w, "alloc: attempting to allocate %d words...successful\n", numWords)
}

// AllocTriggerGC logs a first attempt that did not fit and is about to run a
// collection cycle.
func (t *Tracer) AllocTriggerGC(numWords uintptr) {
	if !t.Enabled() {
		return
	}
	fmt.Fprintf(t.w, "alloc: attempting to allocate %d words...triggering collection\n", numWords)
}

// AllocRetryOK logs a post-collection retry that succeeded.
func (t *Tracer) AllocRetryOK(numWords uintptr) {
	if !t.Enabled() {
		return
	}
	fmt.Fprintf(t.w, "alloc: second attempt to allocate %d words...successful\n", numWords)
}

// AllocExhausted logs a post-collection retry that still did not fit. The
// fatal out-of-memory message follows on the normal output path.
func (t *Tracer) AllocExhausted(numWords uintptr) {
	if !t.Enabled() {
		return
	}
	fmt.Fprintf(t.w, "alloc: second attempt to allocate %d words...out of memory\n", numWords)
}

// Move logs one object copy. src and dst are the header's word offsets
// relative to the start of from-space and to-space respectively.
func (t *Tracer) Move(src, dst uintptr, l layout.Layout) {
	if !t.Enabled() {
		return
	}
	fmt.Fprintf(t.w, "copy: from+%d -> to+%d\n", src, dst)
	fmt.Fprintf(t.w, "copy:   %s\n", l)
}

// Collected logs the end of a collection cycle.
func (t *Tracer) Collected(liveWords uintptr) {
	if !t.Enabled() {
		return
	}
	fmt.Fprintf(t.w, "collect: %d live words\n", liveWords)
}
