package gc

import "github.com/tinygo-org/mintrt/internal/frame"

// Alloc returns the address of a zeroed block of numWords contiguous words in
// from-space. caller must be the frame pointer of the function requesting the
// allocation: if the block does not fit, Alloc runs one collection cycle with
// that frame as the top of the root scan and retries exactly once.
// Exhaustion after the retry is fatal; no partial state is left behind for
// the mutator to observe.
func (h *Heap) Alloc(numWords uintptr, caller frame.Frame) uintptr {
	h.stats.Mallocs++

	if h.fits(numWords) {
		h.tracer.AllocFast(numWords)
		return h.take(numWords)
	}

	h.tracer.AllocTriggerGC(numWords)
	h.Collect(caller)

	// The halves swapped during the cycle; fits recomputes the bound.
	if h.fits(numWords) {
		h.tracer.AllocRetryOK(numWords)
		return h.take(numWords)
	}

	h.tracer.AllocExhausted(numWords)
	fatal(msgOutOfMemory)
	return 0
}

// fits reports whether numWords more words fit in from-space's free region.
func (h *Heap) fits(numWords uintptr) bool {
	if numWords > h.halfWords {
		// Also rejects sizes large enough to wrap the bound arithmetic.
		return false
	}
	return h.bump+numWords*wordBytes <= h.fromStart+h.halfWords*wordBytes
}

// take bumps the cursor and zero-fills the block. The caller has checked the
// bound.
func (h *Heap) take(numWords uintptr) uintptr {
	p := h.bump
	h.bump += numWords * wordBytes
	ZeroWords(p, numWords)
	h.stats.TotalAllocWords += uint64(numWords)
	return p
}
