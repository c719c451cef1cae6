package frame

import "unsafe"

// Builder lays out well-formed synthetic frames inside a word buffer, exactly
// as the calling convention describes them. The runtime's tests and the
// mintgc-sim tool use it to stand in for a real compiled-code stack.
type Builder struct {
	words []uintptr
	next  int // index of the next frame pointer slot, moving downward
	prev  Frame
}

// NewBuilder returns a Builder with room for stackWords words of stack.
func NewBuilder(stackWords int) *Builder {
	return &Builder{
		words: make([]uintptr, stackWords),
		next:  stackWords - 1,
	}
}

// PushFrame appends a callee frame declaring the given root slot values and
// returns its frame pointer. The first frame pushed has a zero caller link
// and normally serves as the base frame.
func (b *Builder) PushFrame(roots ...uintptr) Frame {
	fp := b.next
	need := 2 + len(roots) // caller link, root count, root slots
	if fp+1 < need {
		panic("frame: synthetic stack overflow")
	}
	f := Frame(uintptr(unsafe.Pointer(&b.words[fp])))
	b.words[fp] = uintptr(b.prev)
	b.words[fp-1] = uintptr(len(roots))
	for i, r := range roots {
		b.words[fp-2-i] = r
	}
	b.prev = f
	b.next = fp - need
	return f
}

// Top returns the most recently pushed frame.
func (b *Builder) Top() Frame {
	return b.prev
}
