package gc

import (
	"github.com/tinygo-org/mintrt/internal/frame"
	"github.com/tinygo-org/mintrt/internal/layout"
)

// Collect runs one stop-the-world copying collection cycle: scan the root
// slots of every frame from top down to the base frame, copy each reachable
// object into to-space, trace the copies breadth first, then swap the halves
// and park the bump cursor just past the live data.
//
// The trace uses two cursors into to-space instead of recursion: free is
// where the next copy lands, scan is the next copied object waiting to have
// its pointer fields processed. Newly discovered objects are appended at
// free, so the single loop visits every copy exactly once and terminates
// because free never shrinks and the half is finite.
func (h *Heap) Collect(top frame.Frame) {
	free := h.toStart
	scan := h.toStart

	frame.WalkRoots(top, h.base, func(slot uintptr) {
		h.process(slot, &free)
	})

	for scan < free {
		l := layout.Header(LoadWord(scan)).Decode()
		payload := scan + wordBytes
		l.ForEachPointerWord(func(i uintptr) {
			h.process(payload+i*wordBytes, &free)
		})
		scan += (1 + l.PayloadWords) * wordBytes
	}
	if gcAsserts && scan != free {
		panic("gc: scan cursor overran the copy cursor")
	}

	liveWords := (free - h.toStart) / wordBytes
	h.fromStart, h.toStart = h.toStart, h.fromStart
	h.bump = h.fromStart + liveWords*wordBytes

	h.stats.Collections++
	h.stats.LiveWords = liveWords
	h.tracer.Collected(liveWords)
}

// process forwards the pointer held in the word at slot. A pointer to a
// from-space object not yet copied causes the object (header plus payload) to
// be copied to *free; the original header is then overwritten with the copy's
// payload address, so every later reference to the same object is redirected
// without recopying. Null pointers and addresses outside from-space are left
// untouched.
func (h *Heap) process(slot uintptr, free *uintptr) {
	addr := LoadWord(slot)
	if addr == 0 || !h.inFromSpace(addr) {
		return
	}

	// The object pointer addresses the first payload word; the header is the
	// word before it.
	headerAddr := addr - wordBytes
	word := LoadWord(headerAddr)
	if h.inToSpace(word) {
		// Forwarding marker. Real header values never alias to-space
		// addresses, so a header-position word inside to-space's bounds can
		// only be the address of the relocated copy.
		StoreWord(slot, word)
		return
	}

	l := layout.Header(word).Decode()
	numWords := 1 + l.PayloadWords
	if gcAsserts && *free+numWords*wordBytes > h.toStart+h.halfWords*wordBytes {
		// Cannot happen: to-space is as large as from-space and only
		// reachable from-space data is copied.
		panic("gc: live data overflows to-space")
	}
	copyWords(*free, headerAddr, numWords)
	h.tracer.Move((headerAddr-h.fromStart)/wordBytes, (*free-h.toStart)/wordBytes, l)

	newAddr := *free + wordBytes
	StoreWord(headerAddr, newAddr)
	StoreWord(slot, newAddr)
	*free += numWords * wordBytes
}
