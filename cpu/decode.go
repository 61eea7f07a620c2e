package cpu

import "github.com/bobbobbio/lr35902core/mem"

// regForField recovers the RegID named by an 8080-style 3-bit register
// field. Conveniently, the RegID constants were chosen to equal the field
// values they represent (RegB=0 ... RegM=6, RegA=7), so this is the
// identity function; it exists anyway so call sites read as "this byte is a
// register field", not "this byte happens to equal a RegID".
func regForField(field byte) RegID {
	return RegID(field & 0x7)
}

func fieldForReg(r RegID) byte {
	return byte(r)
}

// Decode reads one instruction from m starting at addr and reports it
// together with whether the opcode (and, for STOP, its trailing byte) was
// recognized. A false result means the byte at addr does not name a valid
// LR35902 instruction; the caller (Step) turns this into crashed state
// rather than decoding garbage.
func Decode(m mem.Memory, addr uint16) (Instruction, bool) {
	b := m.Read(addr)

	switch {
	case b == 0xCB:
		return decodeCB(m.Read(addr + 1)), true

	case b == 0x00:
		return Instruction{Kind: KindNOP}, true
	case b == 0x10:
		// STOP is formally a 2-byte opcode; every real ROM emits 0x10 0x00,
		// and the emulator this core was distilled from treats any other
		// trailing byte as unknown rather than guessing at intent.
		if m.Read(addr+1) != 0x00 {
			return Instruction{}, false
		}
		return Instruction{Kind: KindSTOP}, true
	case b == 0x76:
		return Instruction{Kind: KindHALT}, true
	case b == 0xF3:
		return Instruction{Kind: KindDI}, true
	case b == 0xFB:
		return Instruction{Kind: KindEI}, true
	case b == 0x27:
		return Instruction{Kind: KindDAA}, true
	case b == 0x2F:
		return Instruction{Kind: KindCPL}, true
	case b == 0x37:
		return Instruction{Kind: KindSCF}, true
	case b == 0x3F:
		return Instruction{Kind: KindCCF}, true
	case b == 0x07:
		return Instruction{Kind: KindRLCA}, true
	case b == 0x0F:
		return Instruction{Kind: KindRRCA}, true
	case b == 0x17:
		return Instruction{Kind: KindRLA}, true
	case b == 0x1F:
		return Instruction{Kind: KindRRA}, true
	case b == 0xE9:
		return Instruction{Kind: KindJPHL}, true
	case b == 0xF9:
		return Instruction{Kind: KindLDSPHL}, true
	case b == 0xC9:
		return Instruction{Kind: KindRET}, true
	case b == 0xD9:
		return Instruction{Kind: KindRETI}, true

	case b == 0xC3:
		return Instruction{Kind: KindJPNN, Imm16: readU16(m, addr+1)}, true
	case b == 0xCD:
		return Instruction{Kind: KindCALLNN, Imm16: readU16(m, addr+1)}, true
	case b == 0x18:
		return Instruction{Kind: KindJRN, Imm8: m.Read(addr + 1)}, true
	case b == 0xE8:
		return Instruction{Kind: KindADDSPN, Imm8: m.Read(addr + 1)}, true
	case b == 0xF8:
		return Instruction{Kind: KindLDHLSPN, Imm8: m.Read(addr + 1)}, true
	case b == 0x08:
		return Instruction{Kind: KindLDNNSP, Imm16: readU16(m, addr+1)}, true
	case b == 0xEA:
		return Instruction{Kind: KindLDNNA, Imm16: readU16(m, addr+1)}, true
	case b == 0xFA:
		return Instruction{Kind: KindLDANN, Imm16: readU16(m, addr+1)}, true
	case b == 0xE0:
		return Instruction{Kind: KindLDHNA, Imm8: m.Read(addr + 1)}, true
	case b == 0xF0:
		return Instruction{Kind: KindLDHAN, Imm8: m.Read(addr + 1)}, true
	case b == 0xE2:
		return Instruction{Kind: KindLDCA}, true
	case b == 0xF2:
		return Instruction{Kind: KindLDAC}, true

	case b == 0x22:
		return Instruction{Kind: KindLDIHLA}, true
	case b == 0x32:
		return Instruction{Kind: KindLDDHLA}, true
	case b == 0x2A:
		return Instruction{Kind: KindLDIAHL}, true
	case b == 0x3A:
		return Instruction{Kind: KindLDDAHL}, true

	case b == 0x02 || b == 0x12:
		return Instruction{Kind: KindLDIndPairA, Reg2: regPairForField(b>>4, false)}, true
	case b == 0x0A || b == 0x1A:
		return Instruction{Kind: KindLDAIndPair, Reg2: regPairForField(b>>4, false)}, true

	case b&0xC7 == 0x06:
		return Instruction{Kind: KindLDRN, Reg: regForField(b >> 3), Imm8: m.Read(addr + 1)}, true

	case b >= 0x40 && b <= 0x7F:
		return Instruction{Kind: KindLDRR, Reg: regForField(b >> 3), Reg2: regForField(b)}, true

	case b&0xC0 == 0x80:
		return decodeALURegOp(b, regForField(b)), true

	case b&0xC7 == 0xC6:
		return decodeALUImmOp(b, m.Read(addr+1)), true

	case b&0xC7 == 0x04:
		return Instruction{Kind: KindINCR, Reg: regForField(b >> 3)}, true
	case b&0xC7 == 0x05:
		return Instruction{Kind: KindDECR, Reg: regForField(b >> 3)}, true

	case b&0xCF == 0x01:
		return Instruction{Kind: KindLDRRNN, Reg: regPairForField(b>>4, false), Imm16: readU16(m, addr+1)}, true
	case b&0xCF == 0x03:
		return Instruction{Kind: KindINCRR, Reg: regPairForField(b>>4, false)}, true
	case b&0xCF == 0x0B:
		return Instruction{Kind: KindDECRR, Reg: regPairForField(b>>4, false)}, true
	case b&0xCF == 0x09:
		return Instruction{Kind: KindADDHLRR, Reg2: regPairForField(b>>4, false)}, true

	case b&0xE7 == 0x20:
		return Instruction{Kind: KindJRCC, Cond: conditionForField(b >> 3), Imm8: m.Read(addr + 1)}, true
	case b&0xE7 == 0xC0:
		return Instruction{Kind: KindRETCC, Cond: conditionForField(b >> 3)}, true
	case b&0xE7 == 0xC2:
		return Instruction{Kind: KindJPCC, Cond: conditionForField(b >> 3), Imm16: readU16(m, addr+1)}, true
	case b&0xE7 == 0xC4:
		return Instruction{Kind: KindCALLCC, Cond: conditionForField(b >> 3), Imm16: readU16(m, addr+1)}, true

	case b&0xC7 == 0xC7:
		return Instruction{Kind: KindRSTN, Imm8: (b >> 3) & 0x7}, true

	case b&0xCF == 0xC5:
		return Instruction{Kind: KindPUSH, Reg: regPairForField(b>>4, true)}, true
	case b&0xCF == 0xC1:
		return Instruction{Kind: KindPOP, Reg: regPairForField(b>>4, true)}, true
	}

	return Instruction{}, false
}

// aluRegKinds and aluImmKinds are indexed by the 3-bit ALU group field
// occupying bits 3-5 of 0x80-0xBF (register operand) and bits 3-5 of
// 0xC6/CE/D6/DE/E6/EE/F6/FE (immediate operand).
var aluRegKinds = [8]Kind{KindADDR, KindADCR, KindSUBR, KindSBCR, KindANDR, KindXORR, KindORR, KindCPR}
var aluImmKinds = [8]Kind{KindADDN, KindADCN, KindSUBN, KindSBCN, KindANDN, KindXORN, KindORN, KindCPN}

func decodeALURegOp(b byte, reg RegID) Instruction {
	group := (b >> 3) & 0x7
	return Instruction{Kind: aluRegKinds[group], Reg: reg}
}

func decodeALUImmOp(b byte, imm byte) Instruction {
	group := (b >> 3) & 0x7
	return Instruction{Kind: aluImmKinds[group], Imm8: imm}
}

// cbShiftKinds is indexed by the 3-bit subgroup occupying bits 3-5 of the
// 0x00-0x3F range of the CB page (rotates, shifts, and swap).
var cbShiftKinds = [8]Kind{KindRLC, KindRRC, KindRL, KindRR, KindSLA, KindSRA, KindSWAP, KindSRL}

func decodeCB(cb byte) Instruction {
	reg := regForField(cb)
	switch cb >> 6 {
	case 0:
		return Instruction{Kind: cbShiftKinds[(cb>>3)&0x7], Reg: reg}
	case 1:
		return Instruction{Kind: KindBIT, Bit: (cb >> 3) & 0x7, Reg: reg}
	case 2:
		return Instruction{Kind: KindRES, Bit: (cb >> 3) & 0x7, Reg: reg}
	default:
		return Instruction{Kind: KindSET, Bit: (cb >> 3) & 0x7, Reg: reg}
	}
}

func readU16(m mem.Memory, addr uint16) uint16 {
	return m.ReadU16(addr)
}
