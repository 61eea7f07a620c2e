package cpu

import (
	"encoding/binary"
	"fmt"
)

// Encode is the inverse of Decode: it renders an Instruction back into the
// bytes it was decoded from. It exists chiefly so tests can assert the
// round-trip property decode(encode(i)) == i and encode(decode(bs)) == bs,
// but Serialize also uses it to store the last fetched instruction.
func Encode(i Instruction) []byte {
	switch i.Kind {
	case KindNOP:
		return []byte{0x00}
	case KindSTOP:
		return []byte{0x10, 0x00}
	case KindHALT:
		return []byte{0x76}
	case KindDI:
		return []byte{0xF3}
	case KindEI:
		return []byte{0xFB}
	case KindDAA:
		return []byte{0x27}
	case KindCPL:
		return []byte{0x2F}
	case KindSCF:
		return []byte{0x37}
	case KindCCF:
		return []byte{0x3F}
	case KindRLCA:
		return []byte{0x07}
	case KindRRCA:
		return []byte{0x0F}
	case KindRLA:
		return []byte{0x17}
	case KindRRA:
		return []byte{0x1F}
	case KindJPHL:
		return []byte{0xE9}
	case KindLDSPHL:
		return []byte{0xF9}
	case KindRET:
		return []byte{0xC9}
	case KindRETI:
		return []byte{0xD9}

	case KindJPNN:
		return append([]byte{0xC3}, u16le(i.Imm16)...)
	case KindCALLNN:
		return append([]byte{0xCD}, u16le(i.Imm16)...)
	case KindJRN:
		return []byte{0x18, i.Imm8}
	case KindADDSPN:
		return []byte{0xE8, i.Imm8}
	case KindLDHLSPN:
		return []byte{0xF8, i.Imm8}
	case KindLDNNSP:
		return append([]byte{0x08}, u16le(i.Imm16)...)
	case KindLDNNA:
		return append([]byte{0xEA}, u16le(i.Imm16)...)
	case KindLDANN:
		return append([]byte{0xFA}, u16le(i.Imm16)...)
	case KindLDHNA:
		return []byte{0xE0, i.Imm8}
	case KindLDHAN:
		return []byte{0xF0, i.Imm8}
	case KindLDCA:
		return []byte{0xE2}
	case KindLDAC:
		return []byte{0xF2}

	case KindLDIHLA:
		return []byte{0x22}
	case KindLDDHLA:
		return []byte{0x32}
	case KindLDIAHL:
		return []byte{0x2A}
	case KindLDDAHL:
		return []byte{0x3A}

	case KindLDIndPairA:
		return []byte{0x02 | pairFieldOf(i.Reg2)<<4}
	case KindLDAIndPair:
		return []byte{0x0A | pairFieldOf(i.Reg2)<<4}

	case KindLDRN:
		return []byte{0x06 | fieldForReg(i.Reg)<<3, i.Imm8}

	case KindLDRR:
		return []byte{0x40 | fieldForReg(i.Reg)<<3 | fieldForReg(i.Reg2)}

	case KindADDR, KindADCR, KindSUBR, KindSBCR, KindANDR, KindXORR, KindORR, KindCPR:
		return []byte{0x80 | aluGroupOf(i.Kind, aluRegKinds)<<3 | fieldForReg(i.Reg)}

	case KindADDN, KindADCN, KindSUBN, KindSBCN, KindANDN, KindXORN, KindORN, KindCPN:
		return []byte{0xC6 | aluGroupOf(i.Kind, aluImmKinds)<<3, i.Imm8}

	case KindINCR:
		return []byte{0x04 | fieldForReg(i.Reg)<<3}
	case KindDECR:
		return []byte{0x05 | fieldForReg(i.Reg)<<3}

	case KindLDRRNN:
		return append([]byte{0x01 | pairFieldOf(i.Reg)<<4}, u16le(i.Imm16)...)
	case KindINCRR:
		return []byte{0x03 | pairFieldOf(i.Reg)<<4}
	case KindDECRR:
		return []byte{0x0B | pairFieldOf(i.Reg)<<4}
	case KindADDHLRR:
		return []byte{0x09 | pairFieldOf(i.Reg2)<<4}

	case KindJRCC:
		return []byte{0x20 | byte(i.Cond)<<3, i.Imm8}
	case KindRETCC:
		return []byte{0xC0 | byte(i.Cond)<<3}
	case KindJPCC:
		return append([]byte{0xC2 | byte(i.Cond)<<3}, u16le(i.Imm16)...)
	case KindCALLCC:
		return append([]byte{0xC4 | byte(i.Cond)<<3}, u16le(i.Imm16)...)

	case KindRSTN:
		return []byte{0xC7 | i.Imm8<<3}

	case KindPUSH:
		return []byte{0xC5 | pushPopFieldOf(i.Reg)<<4}
	case KindPOP:
		return []byte{0xC1 | pushPopFieldOf(i.Reg)<<4}

	case KindRLC, KindRRC, KindRL, KindRR, KindSLA, KindSRA, KindSWAP, KindSRL:
		return []byte{0xCB, cbShiftGroupOf(i.Kind)<<3 | fieldForReg(i.Reg)}
	case KindBIT:
		return []byte{0xCB, 0x40 | i.Bit<<3 | fieldForReg(i.Reg)}
	case KindRES:
		return []byte{0xCB, 0x80 | i.Bit<<3 | fieldForReg(i.Reg)}
	case KindSET:
		return []byte{0xCB, 0xC0 | i.Bit<<3 | fieldForReg(i.Reg)}
	}

	panic("cpu: cannot encode instruction")
}

// EncodeChecked behaves like Encode but is meant for instructions a caller
// built by hand rather than ones that came back from Decode: it reports an
// illegal register id or pair (one with no opcode encoding in this
// instruction's shape) as an error instead of panicking.
func EncodeChecked(i Instruction) (encoded []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			encoded = nil
			err = fmt.Errorf("illegal instruction: %v", r)
		}
	}()
	return Encode(i), nil
}

func u16le(v uint16) []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, v)
	return buf
}

// pairFieldOf recovers the 2-bit register-pair field for BC/DE/HL/SP pairs
// (never AF; PUSH/POP use pushPopFieldOf instead).
func pairFieldOf(r RegID) byte {
	switch r {
	case RegBC:
		return 0
	case RegDE:
		return 1
	case RegHL:
		return 2
	case RegSP:
		return 3
	}
	panic("cpu: not a DAD/LXI-style register pair")
}

func pushPopFieldOf(r RegID) byte {
	switch r {
	case RegBC:
		return 0
	case RegDE:
		return 1
	case RegHL:
		return 2
	case RegAF:
		return 3
	}
	panic("cpu: not a PUSH/POP register pair")
}

func aluGroupOf(k Kind, table [8]Kind) byte {
	for idx, candidate := range table {
		if candidate == k {
			return byte(idx)
		}
	}
	panic("cpu: not an ALU instruction kind")
}

func cbShiftGroupOf(k Kind) byte {
	for idx, candidate := range cbShiftKinds {
		if candidate == k {
			return byte(idx)
		}
	}
	panic("cpu: not a CB shift/rotate instruction kind")
}
