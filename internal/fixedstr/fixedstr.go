// Package fixedstr provides a fixed-capacity, pointer-free string used for
// names stored inside shared memory records.
package fixedstr

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Capacity is the maximum number of bytes a Name can hold.
const Capacity = 100

// Name is a string of at most Capacity bytes stored inline. The zero value is
// the empty name. It contains no pointers and can be placed in a mapped region.
type Name struct {
	buf [Capacity]byte
	n   uint8
}

// NewName builds a Name from s. The input is NFC-normalized so that names
// spelled with different code point sequences compare equal byte-wise, then
// truncated to Capacity on a rune boundary.
func NewName(s string) Name {
	var name Name
	name.Set(s)
	return name
}

// Set replaces the contents of the name in place.
func (s *Name) Set(v string) {
	v = norm.NFC.String(v)
	if len(v) > Capacity {
		cut := Capacity
		for cut > 0 && !utf8.RuneStart(v[cut]) {
			cut--
		}
		v = v[:cut]
	}
	s.buf = [Capacity]byte{}
	s.n = uint8(copy(s.buf[:], v))
}

// String returns the name as a Go string.
func (s *Name) String() string {
	return string(s.buf[:s.n])
}

// Len returns the length in bytes.
func (s *Name) Len() int {
	return int(s.n)
}

// Empty reports whether the name has no content.
func (s *Name) Empty() bool {
	return s.n == 0
}

// Equal reports whether both names hold the same bytes.
func (s *Name) Equal(o *Name) bool {
	return s.n == o.n && s.buf == o.buf
}

// CopyTo writes the name into buf as a NUL-terminated string, truncating on a
// rune boundary if buf is too small, and returns the full length of the name.
// An empty buf receives nothing and yields 0.
func (s *Name) CopyTo(buf []byte) int {
	if len(buf) == 0 {
		return 0
	}
	n := min(int(s.n), len(buf)-1)
	for n < int(s.n) && n > 0 && !utf8.RuneStart(s.buf[n]) {
		n--
	}
	copy(buf, s.buf[:n])
	buf[n] = 0
	return int(s.n)
}
