// Package cpu implements the Sharp LR35902, the hybrid Intel 8080/Z80 core at
// the heart of the Game Boy. It is a pure instruction-set simulator: given a
// mem.Memory to read and write, it fetches, decodes, and executes one
// instruction at a time, and knows nothing about video, audio, timers, or
// cartridges.
package cpu

import "github.com/bobbobbio/lr35902core/mem"

// A RegID names an operand of an instruction: one of the eight 8080-style
// register-field values (0-7), or one of a handful of pseudo-registers used
// for 16-bit operands and pair instructions.
//
// The 8080 packs its 8-bit registers into a 3-bit field. Value 6 never means
// "the FLAGS register" -- it means "memory pointed to by HL" (M, in 8080
// mnemonics). This is easy to get backwards, and getting it backwards is a
// classic source of Game Boy core bugs.
type RegID byte

const (
	RegB RegID = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	RegM // (HL), not a register at all; occupies field value 6
	RegA

	// Pseudo-registers for 16-bit operands. These never appear in the 3-bit
	// register field of an opcode; they are named explicitly by Instruction
	// operands that address a register pair.
	RegBC
	RegDE
	RegHL
	RegSP
	RegAF // AF as pushed/popped by PUSH/POP; "PSW" in 8080 terms
)

func (r RegID) String() string {
	switch r {
	case RegB:
		return "B"
	case RegC:
		return "C"
	case RegD:
		return "D"
	case RegE:
		return "E"
	case RegH:
		return "H"
	case RegL:
		return "L"
	case RegM:
		return "M"
	case RegA:
		return "A"
	case RegBC:
		return "BC"
	case RegDE:
		return "DE"
	case RegHL:
		return "HL"
	case RegSP:
		return "SP"
	case RegAF:
		return "PSW"
	}
	return "?"
}

// registerFile holds the eight architectural byte registers, laid out as a
// flat array indexed in register-pair order: B,C / D,E / H,L / FLAGS,A. This
// matches the LR35902's actual pairing (and the original's layout) and means
// a register pair is just two adjacent array slots -- for BC, DE and HL the
// high byte first, i.e. big-endian, which is the opposite of how 16-bit
// values are laid out in memory (little-endian). AF is the exception: A
// (slot 7) is its high byte and FLAGS (slot 6) its low byte. Mixing these up
// is the single easiest mistake to make in this package.
type registerFile [8]byte

const (
	idxB = 0
	idxC = 1
	idxD = 2
	idxE = 3
	idxH = 4
	idxL = 5
	idxF = 6
	idxA = 7
)

// pairBase returns the array index of the high byte of the pair named by r
// (one of RegBC, RegDE, RegHL; readPair and writePair handle RegAF
// themselves).
func pairBase(r RegID) int {
	switch r {
	case RegBC:
		return idxB
	case RegDE:
		return idxD
	case RegHL:
		return idxH
	}
	panic("cpu: not a register pair")
}

// readReg8 returns the value of the single byte register named by r. r must
// not be RegM; memory-indirect reads go through the Memory interface and are
// handled by the caller.
func (rf *registerFile) readReg8(r RegID) byte {
	switch r {
	case RegB:
		return rf[idxB]
	case RegC:
		return rf[idxC]
	case RegD:
		return rf[idxD]
	case RegE:
		return rf[idxE]
	case RegH:
		return rf[idxH]
	case RegL:
		return rf[idxL]
	case RegA:
		return rf[idxA]
	}
	panic("cpu: not an 8-bit register")
}

func (rf *registerFile) writeReg8(r RegID, v byte) {
	switch r {
	case RegB:
		rf[idxB] = v
	case RegC:
		rf[idxC] = v
	case RegD:
		rf[idxD] = v
	case RegE:
		rf[idxE] = v
	case RegH:
		rf[idxH] = v
	case RegL:
		rf[idxL] = v
	case RegA:
		rf[idxA] = v
	default:
		panic("cpu: not an 8-bit register")
	}
}

// readPair returns the 16-bit value of the named register pair: high byte
// first, low byte second, as stored in the array. For RegAF, the high byte is
// A and the low byte is the FLAGS register with its unused bits already
// masked to zero.
func (rf *registerFile) readPair(r RegID) uint16 {
	if r == RegAF {
		return uint16(rf[idxA])<<8 | uint16(rf[idxF])
	}
	base := pairBase(r)
	return uint16(rf[base])<<8 | uint16(rf[base+1])
}

func (rf *registerFile) writePair(r RegID, v uint16) {
	if r == RegAF {
		rf[idxA] = byte(v >> 8)
		rf[idxF] = byte(v) & 0xF0
		return
	}
	base := pairBase(r)
	rf[base] = byte(v >> 8)
	rf[base+1] = byte(v)
}

// Flag bits within the FLAGS register (the low byte of AF). The low nibble
// is always zero; the LR35902 has no other condition bits.
const (
	FlagZ byte = 1 << 7 // Zero
	FlagN byte = 1 << 6 // Subtract (also called N, as in Z80 convention)
	FlagH byte = 1 << 5 // Half Carry
	FlagC byte = 1 << 4 // Carry
)

func (rf *registerFile) flag(mask byte) bool {
	return rf[idxF]&mask != 0
}

func (rf *registerFile) setFlag(mask byte, set bool) {
	if set {
		rf[idxF] |= mask
	} else {
		rf[idxF] &^= mask
	}
	rf[idxF] &= 0xF0
}

// regPairForField maps an 8080-style 2-bit register-pair field (as used by
// LXI, INX/DCX, DAD, PUSH/POP) to a RegID. usePSW selects whether field 3
// means SP (LXI/DAD/INX/DCX) or AF (PUSH/POP).
func regPairForField(field byte, usePSW bool) RegID {
	switch field & 0x3 {
	case 0:
		return RegBC
	case 1:
		return RegDE
	case 2:
		return RegHL
	default:
		if usePSW {
			return RegAF
		}
		return RegSP
	}
}

// readMemOperand reads the operand named by r: a register, or the byte at
// (HL) if r is RegM.
func readMemOperand(rf *registerFile, m mem.Memory, r RegID) byte {
	if r == RegM {
		return m.Read(rf.readPair(RegHL))
	}
	return rf.readReg8(r)
}

func writeMemOperand(rf *registerFile, m mem.Memory, r RegID, v byte) {
	if r == RegM {
		m.Write(rf.readPair(RegHL), v)
		return
	}
	rf.writeReg8(r, v)
}
