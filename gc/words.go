package gc

import "unsafe"

// Word access primitives. Compiled Mint code performs these loads and stores
// as plain machine instructions; the runtime, its tests and mintgc-sim use
// the Go equivalents below.

// LoadWord reads the word at addr.
func LoadWord(addr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(addr))
}

// StoreWord writes value to the word at addr.
func StoreWord(addr, value uintptr) {
	*(*uintptr)(unsafe.Pointer(addr)) = value
}

// ZeroWords zero-fills numWords words starting at addr, low to high.
func ZeroWords(addr, numWords uintptr) {
	if numWords == 0 {
		return
	}
	words := unsafe.Slice((*uintptr)(unsafe.Pointer(addr)), numWords)
	for i := range words {
		words[i] = 0
	}
}

// copyWords copies numWords words from src to dst. The collector only ever
// copies between the two disjoint halves, so the ranges cannot overlap.
func copyWords(dst, src, numWords uintptr) {
	d := unsafe.Slice((*uintptr)(unsafe.Pointer(dst)), numWords)
	s := unsafe.Slice((*uintptr)(unsafe.Pointer(src)), numWords)
	copy(d, s)
}
