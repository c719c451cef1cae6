// Package layout decodes and encodes the one-word header that precedes every
// heap object allocated by code the Mint compiler emits.
//
// The header is a stable binary contract between the code generator and the
// runtime. The low 3 bits hold a tag, the remaining high bits hold a length
// field whose meaning depends on the tag:
//
//	| tag | object type    | length field
//	|-----|----------------|--------------------------------------------
//	|  0  | atomic struct  | overloaded, see below
//	|  1  | pointer struct | size<<5 | d, the first d+1 fields are pointers
//	|  2  | atomic array   | element count, no pointers
//	|  3  | pointer array  | element count, every element is a pointer
//
// The atomic struct tag is overloaded. If the size sub-field (length>>5) is
// nonzero the struct actually contains pointers and the length field is
// struct-shaped: size<<5 | bitmap, where bit i of the 5-bit bitmap marks field
// i+1 (not i) as a pointer. If the size sub-field is zero the length field
// counts the payload in two-word units, so the payload is length*2 words.
// Both the overload and the off-by-one bitmap convention match what the code
// generator emits; changing either would silently corrupt pointer tracing.
package layout

import (
	"fmt"
	"unsafe"
)

// WordBytes is the size of one heap word in bytes.
const WordBytes = unsafe.Sizeof(uintptr(0))

const (
	tagBits = 3
	tagMask = 1<<tagBits - 1

	tagAtomicStruct  = 0
	tagPointerStruct = 1
	tagAtomicArray   = 2
	tagPointerArray  = 3

	descriptorBits = 5
	descriptorMask = 1<<descriptorBits - 1
)

// Header is the raw header word of a heap object.
type Header uintptr

// Kind discriminates the decoded layout of a heap object.
type Kind uint8

const (
	// Atomic is a struct with no pointer fields.
	Atomic Kind = iota
	// AtomicArray is an array whose elements are never pointers.
	AtomicArray
	// PointerArray is an array whose elements are all pointers.
	PointerArray
	// Struct has a known payload size and a subset of pointer fields.
	Struct
)

// Layout is the decoded form of a Header. Downstream code must use Layout
// instead of re-inspecting header bits: the atomic struct tag is overloaded
// and only Decode knows how to disambiguate it.
type Layout struct {
	Kind         Kind
	PayloadWords uintptr

	// PtrPrefix is nonzero for pointer structs: the first PtrPrefix payload
	// fields are pointers.
	PtrPrefix uintptr

	// PtrBitmap holds the 5-bit pointer bitmap of an atomic struct whose size
	// sub-field is nonzero. Bit i marks payload field i+1 as a pointer.
	PtrBitmap uintptr
}

// Decode unpacks a header word into its structured layout.
func (h Header) Decode() Layout {
	length := uintptr(h) >> tagBits
	switch uintptr(h) & tagMask {
	case tagPointerStruct:
		return Layout{
			Kind:         Struct,
			PayloadWords: length >> descriptorBits,
			PtrPrefix:    length&descriptorMask + 1,
		}
	case tagAtomicArray:
		return Layout{Kind: AtomicArray, PayloadWords: length}
	case tagPointerArray:
		return Layout{Kind: PointerArray, PayloadWords: length}
	default:
		// Atomic struct tag. The size sub-field decides which of the two
		// encodings this really is.
		if size := length >> descriptorBits; size != 0 {
			return Layout{
				Kind:         Struct,
				PayloadWords: size,
				PtrBitmap:    length & descriptorMask,
			}
		}
		return Layout{Kind: Atomic, PayloadWords: length * 2}
	}
}

// PointerFree reports whether the payload contains no pointers at all.
func (l Layout) PointerFree() bool {
	switch l.Kind {
	case PointerArray:
		return l.PayloadWords == 0
	case Struct:
		return l.PtrPrefix == 0 && l.PtrBitmap == 0
	default:
		return true
	}
}

// ForEachPointerWord calls visit with the payload word index of every pointer
// field, in increasing order.
func (l Layout) ForEachPointerWord(visit func(index uintptr)) {
	switch l.Kind {
	case PointerArray:
		for i := uintptr(0); i < l.PayloadWords; i++ {
			visit(i)
		}
	case Struct:
		if l.PtrPrefix != 0 {
			for i := uintptr(0); i < l.PtrPrefix; i++ {
				visit(i)
			}
			return
		}
		for i := uintptr(0); i < descriptorBits; i++ {
			if l.PtrBitmap&(1<<i) != 0 {
				visit(i + 1)
			}
		}
	}
}

// String renders the layout the way the collector trace reports it.
func (l Layout) String() string {
	switch l.Kind {
	case Atomic:
		return fmt.Sprintf("atomic struct, %d payload words", l.PayloadWords)
	case AtomicArray:
		return fmt.Sprintf("atomic array, %d elements", l.PayloadWords)
	case PointerArray:
		return fmt.Sprintf("pointer array, %d elements", l.PayloadWords)
	default:
		if l.PtrPrefix != 0 {
			return fmt.Sprintf("pointer struct, %d payload words, %d leading pointers", l.PayloadWords, l.PtrPrefix)
		}
		return fmt.Sprintf("atomic struct with pointers, %d payload words, bitmap %#05b", l.PayloadWords, l.PtrBitmap)
	}
}

// The encode constructors below build header words the same way the code
// generator does. They are used by the runtime's own tests and tools; the
// compiler has its own copy of these rules.

// EncodeAtomic returns the header of a pointer-free struct with pairs*2
// payload words. Pairs must fit below the size sub-field (pairs < 32),
// otherwise the word would decode as a struct with pointers.
func EncodeAtomic(pairs uintptr) Header {
	if pairs>>descriptorBits != 0 {
		panic("layout: atomic struct payload too large for the plain encoding")
	}
	return Header(pairs<<tagBits | tagAtomicStruct)
}

// EncodeStruct returns the header of a struct with sizeWords payload words
// whose first ptrFields fields are pointers. ptrFields must be 1..32.
func EncodeStruct(sizeWords, ptrFields uintptr) Header {
	if ptrFields == 0 || ptrFields > descriptorMask+1 {
		panic("layout: pointer struct must declare 1..32 leading pointers")
	}
	length := sizeWords<<descriptorBits | (ptrFields - 1)
	return Header(length<<tagBits | tagPointerStruct)
}

// EncodeStructBitmap returns the overloaded atomic-tag header of a struct with
// sizeWords payload words and the given 5-bit pointer bitmap (bit i marks
// field i+1). sizeWords must be nonzero or the word would decode as a plain
// atomic struct.
func EncodeStructBitmap(sizeWords, bitmap uintptr) Header {
	if sizeWords == 0 {
		panic("layout: bitmap struct needs a nonzero size sub-field")
	}
	length := sizeWords<<descriptorBits | bitmap&descriptorMask
	return Header(length<<tagBits | tagAtomicStruct)
}

// EncodeAtomicArray returns the header of an array of elems non-pointer words.
func EncodeAtomicArray(elems uintptr) Header {
	return Header(elems<<tagBits | tagAtomicArray)
}

// EncodePointerArray returns the header of an array of elems pointer words.
func EncodePointerArray(elems uintptr) Header {
	return Header(elems<<tagBits | tagPointerArray)
}
