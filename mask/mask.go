// Package mask provides operations to extract and manipulate bits and
// nibbles of a byte.
//
// Last and First take a 1-indexed byteIndex; the nibble helpers are built on
// them.
//
// The LSB0 family (TestBitLSB0, SetBitLSB0, ClearBitLSB0) is the exception: it
// numbers bits 0-indexed from the least significant bit, matching the bit
// index operand encoded in BIT/RES/SET instructions.

package mask

// A byteIndex provides compile-time safety when indexing into a byte.
type byteIndex byte

const (
	I1 byteIndex = iota + 1
	I2
	I3
	I4
	I5
	I6
	I7
	I8
)

// https://pkg.go.dev/golang.org/x/text/internal/gen/bitfield
// https://cs.opensource.google/go/x/text/+/refs/tags/v0.18.0:internal/gen/bitfield/bitfield_test.go;l=16

// func checkByteIndex(n byteIndex) {
// 	// https://github.com/golang/go/issues/29649#issuecomment-454585328
// 	// https://github.com/golang/go/issues/29649#issuecomment-454820179
// 	//
// 	// Go does not allow us to model a constrained int with a type, hence
// 	// this helper func
// 	if n < 1 || n > 8 {
// 		panic("Invalid byte index provided -- must fall in the range [1,8].")
// 	}
// }

// Last extracts the last n bits of b.
func Last(b byte, n byteIndex) byte {
	// this and lastLoop are about 0.0000015 ns/op, in the worst case

	// https://stackoverflow.com/a/15255834
	return b & ((1 << n) - 1)
}

func lastLoop(b byte, n byteIndex) byte {
	var last byte
	for bit := range n {
		last += (1 << bit)
	}
	return b & last
}

// First extracts the first n bits of b.
func First(b byte, n byteIndex) byte {
	// push the bits down, then apply the mask as usual
	return Last(b>>(8-n), n)
	// var first byte
	// for bit := range n {
	// 	first += (1 << bit)
	// }
	// return (b >> (8 - n)) & (first)
}

// LowNibble returns the low 4 bits of b.
func LowNibble(b byte) byte { return Last(b, I4) }

// HighNibble returns the high 4 bits of b, shifted down into the low nibble.
func HighNibble(b byte) byte { return First(b, I4) }

// SwapNibbles exchanges the high and low nibbles of b, as used by the CB-prefixed
// SWAP instruction.
func SwapNibbles(b byte) byte { return b<<4 | b>>4 }

// TestBitLSB0 reports whether bit n of b is set, using 0-indexed-from-the-LSB
// numbering (bit 0 is the least significant bit). This is the numbering opcode
// operands such as BIT/RES/SET use, as opposed to the 1-indexed-from-the-MSB
// numbering used by the rest of this package.
func TestBitLSB0(b byte, n byte) bool {
	return b&(1<<n) != 0
}

// SetBitLSB0 sets bit n of b (0-indexed from the LSB) and returns the result.
func SetBitLSB0(b byte, n byte) byte {
	return b | (1 << n)
}

// ClearBitLSB0 clears bit n of b (0-indexed from the LSB) and returns the result.
func ClearBitLSB0(b byte, n byte) byte {
	return b &^ (1 << n)
}
