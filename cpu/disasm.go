package cpu

import "fmt"

// Disassemble renders instr as 8080-style assembly text, in the style the
// LR35902 is traditionally documented with: MOV/MVI/LXI/STAX and friends,
// rather than the LD-everything syntax more common in Game Boy literature.
// Register pairs used by LXI/DAD/INX/DCX are named by their high-byte
// register (B, D, H, SP); PUSH/POP name the fourth pair PSW rather than SP.
func Disassemble(instr Instruction) string {
	switch instr.Kind {
	case KindNOP:
		return "NOP"
	case KindHALT:
		return "HLT"
	case KindSTOP:
		return "STOP"
	case KindDI:
		return "DI"
	case KindEI:
		return "EI"
	case KindDAA:
		return "DAA"
	case KindCPL:
		return "CPL"
	case KindSCF:
		return "SCF"
	case KindCCF:
		return "CCF"
	case KindRLCA:
		return "RLC"
	case KindRRCA:
		return "RRC"
	case KindRLA:
		return "RAL"
	case KindRRA:
		return "RAR"
	case KindJPHL:
		return "PCHL"
	case KindLDSPHL:
		return "SPHL"
	case KindRET:
		return "RET"
	case KindRETI:
		return "RETI"
	case KindLDAC:
		return "LDAC"
	case KindLDCA:
		return "STAC"

	case KindJPNN:
		return fmt.Sprintf("JMP  $%02x", instr.Imm16)
	case KindCALLNN:
		return fmt.Sprintf("CALL $%02x", instr.Imm16)
	case KindJRN:
		return fmt.Sprintf("JR   #$%02x", instr.Imm8)
	case KindADDSPN:
		return fmt.Sprintf("ADDS #$%02x", instr.Imm8)
	case KindLDHLSPN:
		return fmt.Sprintf("STSP #$%02x", instr.Imm8)
	case KindLDNNSP:
		return fmt.Sprintf("SSPD $%02x", instr.Imm16)
	case KindLDNNA:
		return fmt.Sprintf("STA  $%02x", instr.Imm16)
	case KindLDANN:
		return fmt.Sprintf("LDAD $%02x", instr.Imm16)
	case KindLDHNA:
		return fmt.Sprintf("STAB #$%02x", instr.Imm8)
	case KindLDHAN:
		return fmt.Sprintf("LDAB #$%02x", instr.Imm8)

	case KindLDIndPairA:
		return fmt.Sprintf("STAX %s", pairLetter(instr.Reg2))
	case KindLDAIndPair:
		return fmt.Sprintf("LDAX %s", pairLetter(instr.Reg2))
	case KindLDIHLA:
		return "MVM+ M A"
	case KindLDDHLA:
		return "MVM- M A"
	case KindLDIAHL:
		return "MVM+ A M"
	case KindLDDAHL:
		return "MVM- A M"

	case KindLDRN:
		return fmt.Sprintf("MVI  %s #$%02x", instr.Reg, instr.Imm8)
	case KindLDRR:
		return fmt.Sprintf("MOV  %s %s", instr.Reg, instr.Reg2)

	case KindADDR:
		return fmt.Sprintf("ADD  %s", instr.Reg)
	case KindADCR:
		return fmt.Sprintf("ADC  %s", instr.Reg)
	case KindSUBR:
		return fmt.Sprintf("SUB  %s", instr.Reg)
	case KindSBCR:
		return fmt.Sprintf("SBB  %s", instr.Reg)
	case KindANDR:
		return fmt.Sprintf("ANA  %s", instr.Reg)
	case KindXORR:
		return fmt.Sprintf("XRA  %s", instr.Reg)
	case KindORR:
		return fmt.Sprintf("ORA  %s", instr.Reg)
	case KindCPR:
		return fmt.Sprintf("CMP  %s", instr.Reg)

	case KindADDN:
		return fmt.Sprintf("ADI  #$%02x", instr.Imm8)
	case KindADCN:
		return fmt.Sprintf("ACI  #$%02x", instr.Imm8)
	case KindSUBN:
		return fmt.Sprintf("SUI  #$%02x", instr.Imm8)
	case KindSBCN:
		return fmt.Sprintf("SBI  #$%02x", instr.Imm8)
	case KindANDN:
		return fmt.Sprintf("ANI  #$%02x", instr.Imm8)
	case KindXORN:
		return fmt.Sprintf("XRI  #$%02x", instr.Imm8)
	case KindORN:
		return fmt.Sprintf("ORI  #$%02x", instr.Imm8)
	case KindCPN:
		return fmt.Sprintf("CPI  #$%02x", instr.Imm8)

	case KindINCR:
		return fmt.Sprintf("INR  %s", instr.Reg)
	case KindDECR:
		return fmt.Sprintf("DCR  %s", instr.Reg)

	case KindLDRRNN:
		return fmt.Sprintf("LXI  %s #$%02x", pairLetter(instr.Reg), instr.Imm16)
	case KindINCRR:
		return fmt.Sprintf("INX  %s", pairLetter(instr.Reg))
	case KindDECRR:
		return fmt.Sprintf("DCX  %s", pairLetter(instr.Reg))
	case KindADDHLRR:
		return fmt.Sprintf("DAD  %s", pairLetter(instr.Reg2))

	case KindPUSH:
		return fmt.Sprintf("PUSH %s", pushPopLetter(instr.Reg))
	case KindPOP:
		return fmt.Sprintf("POP  %s", pushPopLetter(instr.Reg))

	case KindRLC:
		return fmt.Sprintf("RLC  %s", instr.Reg)
	case KindRRC:
		return fmt.Sprintf("RRC  %s", instr.Reg)
	case KindRL:
		return fmt.Sprintf("RL   %s", instr.Reg)
	case KindRR:
		return fmt.Sprintf("RR   %s", instr.Reg)
	case KindSLA:
		return fmt.Sprintf("SLA  %s", instr.Reg)
	case KindSRA:
		return fmt.Sprintf("SRA  %s", instr.Reg)
	case KindSWAP:
		return fmt.Sprintf("SWAP %s", instr.Reg)
	case KindSRL:
		return fmt.Sprintf("SRL  %s", instr.Reg)
	case KindBIT:
		return fmt.Sprintf("BIT  %d %s", instr.Bit, instr.Reg)
	case KindRES:
		return fmt.Sprintf("RES  %d %s", instr.Bit, instr.Reg)
	case KindSET:
		return fmt.Sprintf("SET  %d %s", instr.Bit, instr.Reg)

	case KindJPCC:
		return fmt.Sprintf("%-4s $%02x", "J"+instr.Cond.String(), instr.Imm16)
	case KindJRCC:
		return fmt.Sprintf("%-4s #$%02x", "JR"+instr.Cond.String(), instr.Imm8)
	case KindCALLCC:
		return fmt.Sprintf("%-4s $%02x", callCCMnemonic(instr.Cond), instr.Imm16)
	case KindRETCC:
		return retCCMnemonic(instr.Cond)
	case KindRSTN:
		return fmt.Sprintf("RST  %d", instr.Imm8)
	}

	return "-"
}

// pairLetter names a register pair the way LXI/DAD/INX/DCX do: by its
// high-byte register, with SP spelled out.
func pairLetter(r RegID) string {
	switch r {
	case RegBC:
		return "B"
	case RegDE:
		return "D"
	case RegHL:
		return "H"
	case RegSP:
		return "SP"
	}
	panic("cpu: not a register pair")
}

// pushPopLetter is pairLetter, except the fourth pair is PSW (AF) rather
// than SP, matching PUSH/POP's own operand set.
func pushPopLetter(r RegID) string {
	if r == RegAF {
		return "PSW"
	}
	return pairLetter(r)
}

// callCCMnemonic and retCCMnemonic depart from the J-prefix pattern: CALL cc
// and RET cc are spelled "C" or "R" followed by the condition (CNZ, CZ, CNC,
// CC; RNZ, RZ, RNC, RC), with no "CALL"/"RET" stem.
func callCCMnemonic(cond Condition) string {
	switch cond {
	case CondNZ:
		return "CNZ"
	case CondZ:
		return "CZ"
	case CondNC:
		return "CNC"
	default:
		return "CC"
	}
}

func retCCMnemonic(cond Condition) string {
	switch cond {
	case CondNZ:
		return "RNZ"
	case CondZ:
		return "RZ"
	case CondNC:
		return "RNC"
	default:
		return "RC"
	}
}
