package layout

import (
	"reflect"
	"testing"
)

// pointerWords collects the payload indices ForEachPointerWord reports.
func pointerWords(l Layout) []uintptr {
	var out []uintptr
	l.ForEachPointerWord(func(i uintptr) {
		out = append(out, i)
	})
	return out
}

func TestDecodeAtomicStruct(t *testing.T) {
	l := EncodeAtomic(3).Decode()
	if l.Kind != Atomic {
		t.Fatalf("kind = %v, want Atomic", l.Kind)
	}
	if l.PayloadWords != 6 {
		t.Errorf("payload = %d words, want 6", l.PayloadWords)
	}
	if !l.PointerFree() {
		t.Error("atomic struct reported pointer fields")
	}
	if got := pointerWords(l); got != nil {
		t.Errorf("pointer fields = %v, want none", got)
	}
}

func TestDecodePointerStruct(t *testing.T) {
	l := EncodeStruct(4, 2).Decode()
	if l.Kind != Struct {
		t.Fatalf("kind = %v, want Struct", l.Kind)
	}
	if l.PayloadWords != 4 {
		t.Errorf("payload = %d words, want 4", l.PayloadWords)
	}
	if want := []uintptr{0, 1}; !reflect.DeepEqual(pointerWords(l), want) {
		t.Errorf("pointer fields = %v, want %v", pointerWords(l), want)
	}
}

func TestDecodeArrays(t *testing.T) {
	l := EncodeAtomicArray(5).Decode()
	if l.Kind != AtomicArray || l.PayloadWords != 5 {
		t.Errorf("atomic array decoded as %+v", l)
	}
	if got := pointerWords(l); got != nil {
		t.Errorf("atomic array pointer fields = %v, want none", got)
	}

	l = EncodePointerArray(3).Decode()
	if l.Kind != PointerArray || l.PayloadWords != 3 {
		t.Errorf("pointer array decoded as %+v", l)
	}
	if want := []uintptr{0, 1, 2}; !reflect.DeepEqual(pointerWords(l), want) {
		t.Errorf("pointer array fields = %v, want %v", pointerWords(l), want)
	}
}

// The atomic struct tag is overloaded: a nonzero size sub-field switches the
// length field to the struct-shaped encoding. The payload size must come from
// the size sub-field, not from the two-word-unit rule.
func TestOverloadedAtomicTag(t *testing.T) {
	h := EncodeStructBitmap(3, 0b00101)
	if uintptr(h)&tagMask != tagAtomicStruct {
		t.Fatalf("bitmap struct must carry the atomic tag, got %d", uintptr(h)&tagMask)
	}
	l := h.Decode()
	if l.Kind != Struct {
		t.Fatalf("kind = %v, want Struct", l.Kind)
	}
	if l.PayloadWords != 3 {
		t.Errorf("payload = %d words, want 3 (size sub-field, not length*2)", l.PayloadWords)
	}
	// Bit i marks field i+1: bits 0 and 2 set mean fields 1 and 3.
	if want := []uintptr{1, 3}; !reflect.DeepEqual(pointerWords(l), want) {
		t.Errorf("pointer fields = %v, want %v", pointerWords(l), want)
	}
}

func TestBitmapOffByOne(t *testing.T) {
	l := EncodeStructBitmap(2, 0b00001).Decode()
	if want := []uintptr{1}; !reflect.DeepEqual(pointerWords(l), want) {
		t.Errorf("bit 0 must mark field 1, got fields %v", pointerWords(l))
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		header  Header
		kind    Kind
		payload uintptr
		ptrs    []uintptr
	}{
		{"empty atomic", EncodeAtomic(0), Atomic, 0, nil},
		{"atomic", EncodeAtomic(7), Atomic, 14, nil},
		{"max plain atomic", EncodeAtomic(31), Atomic, 62, nil},
		{"one pointer struct", EncodeStruct(1, 1), Struct, 1, []uintptr{0}},
		{"all pointer struct", EncodeStruct(32, 32), Struct, 32, []uintptr{
			0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
			16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31,
		}},
		{"bitmap struct", EncodeStructBitmap(5, 0b01010), Struct, 5, []uintptr{2, 4}},
		{"empty atomic array", EncodeAtomicArray(0), AtomicArray, 0, nil},
		{"atomic array", EncodeAtomicArray(100), AtomicArray, 100, nil},
		{"empty pointer array", EncodePointerArray(0), PointerArray, 0, nil},
		{"pointer array", EncodePointerArray(2), PointerArray, 2, []uintptr{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.header.Decode()
			if l.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", l.Kind, tt.kind)
			}
			if l.PayloadWords != tt.payload {
				t.Errorf("payload = %d words, want %d", l.PayloadWords, tt.payload)
			}
			if got := pointerWords(l); !reflect.DeepEqual(got, tt.ptrs) {
				t.Errorf("pointer fields = %v, want %v", got, tt.ptrs)
			}
		})
	}
}

func TestString(t *testing.T) {
	if got, want := EncodeAtomic(1).Decode().String(), "atomic struct, 2 payload words"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := EncodePointerArray(4).Decode().String(), "pointer array, 4 elements"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := EncodeStruct(3, 2).Decode().String(), "pointer struct, 3 payload words, 2 leading pointers"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
