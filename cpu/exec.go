package cpu

import "github.com/bobbobbio/lr35902core/mask"

// execute performs the state change named by instr. By the time execute
// runs, the program counter has already been advanced past instr (see
// Step), so relative jumps are computed from the post-fetch PC, exactly as
// a real LR35902 would see it.
func (c *CPU) execute(instr Instruction) {
	switch instr.Kind {
	case KindNOP:
		// nothing to do

	case KindHALT:
		c.halted = true

	case KindSTOP:
		// Real hardware stops the clock until a button is pressed; wiring
		// that up requires the joypad and interrupt controller, neither of
		// which this core has access to. The enclosing emulator is expected
		// to intercept STOP before it ever reaches Execute.
		panic("cpu: STOP has no core-level implementation")

	case KindDI:
		c.mem.SetInterruptsEnabled(false)
	case KindEI:
		c.mem.SetInterruptsEnabled(true)

	case KindDAA:
		c.daa()
	case KindCPL:
		c.regs.writeReg8(RegA, ^c.regs.readReg8(RegA))
		c.regs.setFlag(FlagN, true)
		c.regs.setFlag(FlagH, true)
	case KindSCF:
		c.regs.setFlag(FlagC, true)
		c.regs.setFlag(FlagN, false)
		c.regs.setFlag(FlagH, false)
	case KindCCF:
		c.regs.setFlag(FlagC, !c.regs.flag(FlagC))
		c.regs.setFlag(FlagN, false)
		c.regs.setFlag(FlagH, false)

	case KindLDRR:
		v := readMemOperand(&c.regs, c.mem, instr.Reg2)
		writeMemOperand(&c.regs, c.mem, instr.Reg, v)
	case KindLDRN:
		writeMemOperand(&c.regs, c.mem, instr.Reg, instr.Imm8)
	case KindLDAIndPair:
		c.regs.writeReg8(RegA, c.mem.Read(c.regs.readPair(instr.Reg2)))
	case KindLDIndPairA:
		c.mem.Write(c.regs.readPair(instr.Reg2), c.regs.readReg8(RegA))
	case KindLDIHLA:
		addr := c.regs.readPair(RegHL)
		c.mem.Write(addr, c.regs.readReg8(RegA))
		c.regs.writePair(RegHL, addr+1)
	case KindLDDHLA:
		addr := c.regs.readPair(RegHL)
		c.mem.Write(addr, c.regs.readReg8(RegA))
		c.regs.writePair(RegHL, addr-1)
	case KindLDIAHL:
		addr := c.regs.readPair(RegHL)
		c.regs.writeReg8(RegA, c.mem.Read(addr))
		c.regs.writePair(RegHL, addr+1)
	case KindLDDAHL:
		addr := c.regs.readPair(RegHL)
		c.regs.writeReg8(RegA, c.mem.Read(addr))
		c.regs.writePair(RegHL, addr-1)
	case KindLDANN:
		c.regs.writeReg8(RegA, c.mem.Read(instr.Imm16))
	case KindLDNNA:
		c.mem.Write(instr.Imm16, c.regs.readReg8(RegA))
	case KindLDHAN:
		c.regs.writeReg8(RegA, c.mem.Read(0xFF00+uint16(instr.Imm8)))
	case KindLDHNA:
		c.mem.Write(0xFF00+uint16(instr.Imm8), c.regs.readReg8(RegA))
	case KindLDAC:
		c.regs.writeReg8(RegA, c.mem.Read(0xFF00+uint16(c.regs.readReg8(RegC))))
	case KindLDCA:
		c.mem.Write(0xFF00+uint16(c.regs.readReg8(RegC)), c.regs.readReg8(RegA))

	case KindLDRRNN:
		c.writePair16(instr.Reg, instr.Imm16)
	case KindLDSPHL:
		c.sp = c.regs.readPair(RegHL)
	case KindLDHLSPN:
		c.regs.writePair(RegHL, c.addSignedToSP(instr.Imm8))
	case KindLDNNSP:
		c.mem.WriteU16(instr.Imm16, c.sp)
	case KindPUSH:
		c.sp -= 2
		c.mem.WriteU16(c.sp, c.regs.readPair(instr.Reg))
	case KindPOP:
		v := c.mem.ReadU16(c.sp)
		c.sp += 2
		c.regs.writePair(instr.Reg, v)

	case KindADDHLRR:
		c.doubleAdd(instr.Reg2)
	case KindINCRR:
		c.writePair16(instr.Reg, c.readPair16(instr.Reg)+1)
	case KindDECRR:
		c.writePair16(instr.Reg, c.readPair16(instr.Reg)-1)
	case KindADDSPN:
		c.sp = c.addSignedToSP(instr.Imm8)

	case KindADDR:
		c.addToA(readMemOperand(&c.regs, c.mem, instr.Reg), false)
	case KindADCR:
		c.addToA(readMemOperand(&c.regs, c.mem, instr.Reg), true)
	case KindSUBR:
		c.subFromA(readMemOperand(&c.regs, c.mem, instr.Reg), false, false)
	case KindSBCR:
		c.subFromA(readMemOperand(&c.regs, c.mem, instr.Reg), true, false)
	case KindANDR:
		c.andA(readMemOperand(&c.regs, c.mem, instr.Reg))
	case KindXORR:
		c.xorA(readMemOperand(&c.regs, c.mem, instr.Reg))
	case KindORR:
		c.orA(readMemOperand(&c.regs, c.mem, instr.Reg))
	case KindCPR:
		c.subFromA(readMemOperand(&c.regs, c.mem, instr.Reg), false, true)

	case KindADDN:
		c.addToA(instr.Imm8, false)
	case KindADCN:
		c.addToA(instr.Imm8, true)
	case KindSUBN:
		c.subFromA(instr.Imm8, false, false)
	case KindSBCN:
		c.subFromA(instr.Imm8, true, false)
	case KindANDN:
		c.andA(instr.Imm8)
	case KindXORN:
		c.xorA(instr.Imm8)
	case KindORN:
		c.orA(instr.Imm8)
	case KindCPN:
		c.subFromA(instr.Imm8, false, true)

	case KindINCR:
		v := readMemOperand(&c.regs, c.mem, instr.Reg)
		nv := v + 1
		c.regs.setFlag(FlagH, v&0x0F == 0x0F)
		c.regs.setFlag(FlagN, false)
		c.regs.setFlag(FlagZ, nv == 0)
		writeMemOperand(&c.regs, c.mem, instr.Reg, nv)
	case KindDECR:
		v := readMemOperand(&c.regs, c.mem, instr.Reg)
		nv := v - 1
		c.regs.setFlag(FlagH, v&0x0F == 0x00)
		c.regs.setFlag(FlagN, true)
		c.regs.setFlag(FlagZ, nv == 0)
		writeMemOperand(&c.regs, c.mem, instr.Reg, nv)

	case KindRLCA:
		c.regs.writeReg8(RegA, c.rotateLeft(c.regs.readReg8(RegA)))
		c.regs.setFlag(FlagN, false)
		c.regs.setFlag(FlagH, false)
		c.regs.setFlag(FlagZ, false)
	case KindRRCA:
		c.regs.writeReg8(RegA, c.rotateRight(c.regs.readReg8(RegA)))
		c.regs.setFlag(FlagN, false)
		c.regs.setFlag(FlagH, false)
		c.regs.setFlag(FlagZ, false)
	case KindRLA:
		c.regs.writeReg8(RegA, c.rotateLeftThroughCarry(c.regs.readReg8(RegA)))
		c.regs.setFlag(FlagN, false)
		c.regs.setFlag(FlagH, false)
		c.regs.setFlag(FlagZ, false)
	case KindRRA:
		c.regs.writeReg8(RegA, c.rotateRightThroughCarry(c.regs.readReg8(RegA)))
		c.regs.setFlag(FlagN, false)
		c.regs.setFlag(FlagH, false)
		c.regs.setFlag(FlagZ, false)

	case KindRLC:
		c.rotateOperand(instr.Reg, c.rotateLeft)
	case KindRRC:
		c.rotateOperand(instr.Reg, c.rotateRight)
	case KindRL:
		c.rotateOperand(instr.Reg, c.rotateLeftThroughCarry)
	case KindRR:
		c.rotateOperand(instr.Reg, c.rotateRightThroughCarry)
	case KindSLA:
		c.shiftOperand(instr.Reg, c.shiftLeft)
	case KindSRA:
		c.shiftOperand(instr.Reg, c.shiftRightSigned)
	case KindSRL:
		c.shiftOperand(instr.Reg, c.shiftRightLogical)
	case KindSWAP:
		v := readMemOperand(&c.regs, c.mem, instr.Reg)
		nv := mask.SwapNibbles(v)
		c.regs.setFlag(FlagZ, nv == 0)
		c.regs.setFlag(FlagN, false)
		c.regs.setFlag(FlagH, false)
		c.regs.setFlag(FlagC, false)
		writeMemOperand(&c.regs, c.mem, instr.Reg, nv)
	case KindBIT:
		v := readMemOperand(&c.regs, c.mem, instr.Reg)
		c.regs.setFlag(FlagZ, !mask.TestBitLSB0(v, instr.Bit))
		c.regs.setFlag(FlagN, false)
		c.regs.setFlag(FlagH, true)
	case KindRES:
		v := readMemOperand(&c.regs, c.mem, instr.Reg)
		writeMemOperand(&c.regs, c.mem, instr.Reg, mask.ClearBitLSB0(v, instr.Bit))
	case KindSET:
		v := readMemOperand(&c.regs, c.mem, instr.Reg)
		writeMemOperand(&c.regs, c.mem, instr.Reg, mask.SetBitLSB0(v, instr.Bit))

	case KindJPNN:
		c.pc = instr.Imm16
	case KindJPCC:
		if c.condHolds(instr.Cond) {
			c.pc = instr.Imm16
		}
	case KindJPHL:
		c.pc = c.regs.readPair(RegHL)
	case KindJRN:
		c.pc = c.relativeAddress(instr.Imm8)
	case KindJRCC:
		if c.condHolds(instr.Cond) {
			c.pc = c.relativeAddress(instr.Imm8)
		}
	case KindCALLNN:
		c.call(instr.Imm16)
	case KindCALLCC:
		if c.condHolds(instr.Cond) {
			c.call(instr.Imm16)
		}
	case KindRET:
		c.returnUnconditionally()
	case KindRETCC:
		if c.condHolds(instr.Cond) {
			c.returnUnconditionally()
		}
	case KindRETI:
		c.returnUnconditionally()
		c.mem.SetInterruptsEnabled(true)
	case KindRSTN:
		c.call(uint16(instr.Imm8) * 8)

	default:
		panic("cpu: execute does not know this instruction kind")
	}
}

// relativeAddress computes the target of a JR, relative to the current PC
// (which, by the time execute runs, already points past the JR itself).
func (c *CPU) relativeAddress(n byte) uint16 {
	return c.pc + uint16(int16(int8(n)))
}

func (c *CPU) condHolds(cond Condition) bool {
	switch cond {
	case CondNZ:
		return !c.regs.flag(FlagZ)
	case CondZ:
		return c.regs.flag(FlagZ)
	case CondNC:
		return !c.regs.flag(FlagC)
	default:
		return c.regs.flag(FlagC)
	}
}

func (c *CPU) call(addr uint16) {
	c.sp -= 2
	c.mem.WriteU16(c.sp, c.pc)
	c.PushFrame(addr)
	c.pc = addr
}

func (c *CPU) returnUnconditionally() {
	c.pc = c.mem.ReadU16(c.sp)
	c.sp += 2
	c.PopFrame()
}

// addToA adds value (plus the carry flag, if withCarry) into A.
func (c *CPU) addToA(value byte, withCarry bool) {
	a := c.regs.readReg8(RegA)
	var cin byte
	if withCarry && c.regs.flag(FlagC) {
		cin = 1
	}
	sum := uint16(a) + uint16(value) + uint16(cin)
	result := byte(sum)
	c.regs.setFlag(FlagH, (a&0x0F)+(value&0x0F)+cin > 0x0F)
	c.regs.setFlag(FlagC, sum > 0xFF)
	c.regs.setFlag(FlagN, false)
	c.regs.setFlag(FlagZ, result == 0)
	c.regs.writeReg8(RegA, result)
}

// subFromA subtracts value (plus the carry flag, if withBorrow) from A. If
// discard is set (CP), flags are updated but A is left untouched.
func (c *CPU) subFromA(value byte, withBorrow bool, discard bool) {
	a := c.regs.readReg8(RegA)
	var bin byte
	if withBorrow && c.regs.flag(FlagC) {
		bin = 1
	}
	result := a - value - bin
	c.regs.setFlag(FlagH, (a&0x0F) < (value&0x0F)+bin)
	c.regs.setFlag(FlagC, uint16(a) < uint16(value)+uint16(bin))
	c.regs.setFlag(FlagN, true)
	c.regs.setFlag(FlagZ, result == 0)
	if !discard {
		c.regs.writeReg8(RegA, result)
	}
}

func (c *CPU) andA(value byte) {
	result := c.regs.readReg8(RegA) & value
	c.regs.setFlag(FlagZ, result == 0)
	c.regs.setFlag(FlagN, false)
	c.regs.setFlag(FlagH, true)
	c.regs.setFlag(FlagC, false)
	c.regs.writeReg8(RegA, result)
}

func (c *CPU) xorA(value byte) {
	result := c.regs.readReg8(RegA) ^ value
	c.regs.setFlag(FlagZ, result == 0)
	c.regs.setFlag(FlagN, false)
	c.regs.setFlag(FlagH, false)
	c.regs.setFlag(FlagC, false)
	c.regs.writeReg8(RegA, result)
}

func (c *CPU) orA(value byte) {
	result := c.regs.readReg8(RegA) | value
	c.regs.setFlag(FlagZ, result == 0)
	c.regs.setFlag(FlagN, false)
	c.regs.setFlag(FlagH, false)
	c.regs.setFlag(FlagC, false)
	c.regs.writeReg8(RegA, result)
}

// readPair16 reads a 16-bit pair operand (BC/DE/HL/AF or SP). Unlike
// registerFile.readPair, which only knows the four pairs stored in the
// register array, this also handles RegSP -- INC SP, DEC SP, LD SP,nn, and
// ADD HL,SP all decode their pair operand to RegSP, which has no array
// slot of its own.
func (c *CPU) readPair16(r RegID) uint16 {
	if r == RegSP {
		return c.sp
	}
	return c.regs.readPair(r)
}

func (c *CPU) writePair16(r RegID, v uint16) {
	if r == RegSP {
		c.sp = v
		return
	}
	c.regs.writePair(r, v)
}

// doubleAdd implements ADD HL,rr: a 16-bit add whose half-carry and carry
// are measured at the bit-11 and bit-15 boundaries, not the 8-bit ones.
func (c *CPU) doubleAdd(pair RegID) {
	value := c.readPair16(pair)
	old := c.regs.readPair(RegHL)
	newValue := old + value

	c.regs.setFlag(FlagC, value > 0xFFFF-old)
	c.regs.setFlag(FlagH, value&0x0FFF > 0x0FFF-(old&0x0FFF))
	c.regs.setFlag(FlagN, false)

	c.regs.writePair(RegHL, newValue)
}

// addSignedToSP implements the shared arithmetic behind ADD SP,n and
// LD HL,SP+n: n is sign-extended, flags are computed on the low byte only
// (this is the one place in the instruction set where that happens), and
// Zero is unconditionally cleared.
func (c *CPU) addSignedToSP(n byte) uint16 {
	value := uint16(int16(int8(n)))
	old := c.sp
	newValue := old + value

	c.regs.setFlag(FlagC, value&0x00FF > 0x00FF-(old&0x00FF))
	c.regs.setFlag(FlagH, value&0x000F > 0x000F-(old&0x000F))
	c.regs.setFlag(FlagN, false)
	c.regs.setFlag(FlagZ, false)

	return newValue
}

func (c *CPU) daa() {
	a := c.regs.readReg8(RegA)
	if !c.regs.flag(FlagN) {
		if mask.LowNibble(a) > 9 || c.regs.flag(FlagH) {
			a += 6
			c.regs.setFlag(FlagZ, a == 0)
		}
		if mask.HighNibble(a) > 9 || c.regs.flag(FlagC) {
			a += 0x60
			c.regs.setFlag(FlagC, true)
			c.regs.setFlag(FlagZ, a == 0)
		}
	} else {
		var adjust byte
		if c.regs.flag(FlagC) {
			adjust |= 0x60
		}
		if c.regs.flag(FlagH) {
			adjust |= 0x06
		}
		a -= adjust
		c.regs.setFlag(FlagC, adjust&0x60 != 0)
		c.regs.setFlag(FlagZ, a == 0)
	}
	c.regs.setFlag(FlagH, false)
	c.regs.writeReg8(RegA, a)
}

func (c *CPU) rotateLeft(v byte) byte {
	c.regs.setFlag(FlagC, v&0x80 != 0)
	return v<<1 | v>>7
}

func (c *CPU) rotateRight(v byte) byte {
	c.regs.setFlag(FlagC, v&0x01 != 0)
	return v>>1 | v<<7
}

func (c *CPU) rotateLeftThroughCarry(v byte) byte {
	var carryIn byte
	if c.regs.flag(FlagC) {
		carryIn = 1
	}
	c.regs.setFlag(FlagC, v&0x80 != 0)
	return v<<1 | carryIn
}

func (c *CPU) rotateRightThroughCarry(v byte) byte {
	var carryIn byte
	if c.regs.flag(FlagC) {
		carryIn = 1 << 7
	}
	c.regs.setFlag(FlagC, v&0x01 != 0)
	return v>>1 | carryIn
}

// rotateOperand applies a rotate primitive (which has already updated the
// Carry flag) to a CB-prefixed register/memory operand and derives Z/N/H
// from the result, matching the accumulator rotates minus the forced-zero
// Zero flag.
func (c *CPU) rotateOperand(reg RegID, rotate func(byte) byte) {
	v := readMemOperand(&c.regs, c.mem, reg)
	nv := rotate(v)
	c.regs.setFlag(FlagZ, nv == 0)
	c.regs.setFlag(FlagN, false)
	c.regs.setFlag(FlagH, false)
	writeMemOperand(&c.regs, c.mem, reg, nv)
}

func (c *CPU) shiftLeft(v byte) byte {
	c.regs.setFlag(FlagC, v&0x80 != 0)
	return v << 1
}

func (c *CPU) shiftRightSigned(v byte) byte {
	c.regs.setFlag(FlagC, v&0x01 != 0)
	return byte(int8(v) >> 1)
}

func (c *CPU) shiftRightLogical(v byte) byte {
	c.regs.setFlag(FlagC, v&0x01 != 0)
	return v >> 1
}

func (c *CPU) shiftOperand(reg RegID, shift func(byte) byte) {
	v := readMemOperand(&c.regs, c.mem, reg)
	nv := shift(v)
	c.regs.setFlag(FlagZ, nv == 0)
	c.regs.setFlag(FlagN, false)
	c.regs.setFlag(FlagH, false)
	writeMemOperand(&c.regs, c.mem, reg, nv)
}
