// Package frame gives the collector access to the stack frames of code the
// Mint compiler emits. It is the only package that performs raw address
// arithmetic on the mutator stack.
//
// The layout of every frame between an allocation call site and the base
// frame is fixed by the calling convention:
//
//	fp+0:  saved caller frame pointer
//	fp-1:  root count n
//	fp-2:  root slot 0
//	...
//	fp-1-n: root slot n-1
//
// (offsets in words). The compiler guarantees the root count is well formed
// and that following the caller links reaches the base frame after finitely
// many steps. The collector assumes this unconditionally; it is an ABI
// precondition, not something that can be validated here.
package frame

import "unsafe"

const wordBytes = unsafe.Sizeof(uintptr(0))

// Frame is the raw frame pointer of a mutator stack frame.
type Frame uintptr

// Caller returns the frame of this frame's caller, read from the saved frame
// pointer slot.
func (f Frame) Caller() Frame {
	return Frame(*(*uintptr)(unsafe.Pointer(uintptr(f))))
}

// RootCount returns the number of root slots this frame declares.
func (f Frame) RootCount() uintptr {
	return *(*uintptr)(unsafe.Pointer(uintptr(f) - wordBytes))
}

// RootSlot returns the address of root slot i.
func (f Frame) RootSlot(i uintptr) uintptr {
	return uintptr(f) - (2+i)*wordBytes
}

// Root returns the pointer value currently held in root slot i.
func (f Frame) Root(i uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(f.RootSlot(i)))
}

// SetRoot stores a pointer value into root slot i, the way a mutator store
// to a local variable would.
func (f Frame) SetRoot(i, value uintptr) {
	*(*uintptr)(unsafe.Pointer(f.RootSlot(i))) = value
}

// WalkRoots visits the address of every root slot in every frame from top
// down to base, inclusive. It never dereferences anything beyond the base
// frame.
func WalkRoots(top, base Frame, visit func(slot uintptr)) {
	for f := top; ; f = f.Caller() {
		n := f.RootCount()
		for i := uintptr(0); i < n; i++ {
			visit(f.RootSlot(i))
		}
		if f == base {
			return
		}
	}
}
