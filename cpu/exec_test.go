package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddWithCarryIncludesIncomingCarry(t *testing.T) {
	c, bus := newTestCPU()
	c.SetReg8(RegA, 0x0F)
	c.SetFlag(FlagC, true)
	bus.LoadAt(0, []byte{0x89}) // ADC C (C defaults to 0)
	c.SetReg8(RegC, 0x00)

	c.Step()

	assert.Equal(t, byte(0x10), c.Reg8(RegA))
	assert.True(t, c.Flag(FlagH))
	assert.False(t, c.Flag(FlagC))
}

func TestSubWithBorrowIncludesIncomingCarry(t *testing.T) {
	c, bus := newTestCPU()
	c.SetReg8(RegA, 0x00)
	c.SetReg8(RegB, 0x00)
	c.SetFlag(FlagC, true)
	bus.LoadAt(0, []byte{0x98}) // SBB B

	c.Step()

	assert.Equal(t, byte(0xFF), c.Reg8(RegA))
	assert.True(t, c.Flag(FlagC))
	assert.True(t, c.Flag(FlagH))
	assert.True(t, c.Flag(FlagN))
}

func TestCompareLeavesAccumulatorUnchanged(t *testing.T) {
	c, bus := newTestCPU()
	c.SetReg8(RegA, 0x10)
	c.SetReg8(RegB, 0x10)
	bus.LoadAt(0, []byte{0xB8}) // CMP B

	c.Step()

	assert.Equal(t, byte(0x10), c.Reg8(RegA), "CP must not modify A")
	assert.True(t, c.Flag(FlagZ))
	assert.True(t, c.Flag(FlagN))
}

func TestAndAlwaysSetsHalfCarry(t *testing.T) {
	c, bus := newTestCPU()
	c.SetReg8(RegA, 0xFF)
	c.SetReg8(RegB, 0x00)
	bus.LoadAt(0, []byte{0xA0}) // ANA B

	c.Step()

	assert.Equal(t, byte(0x00), c.Reg8(RegA))
	assert.True(t, c.Flag(FlagZ))
	assert.True(t, c.Flag(FlagH))
	assert.False(t, c.Flag(FlagC))
}

func TestOrAlwaysClearsHalfCarryAndCarry(t *testing.T) {
	c, bus := newTestCPU()
	c.SetReg8(RegA, 0x0F)
	c.SetReg8(RegB, 0xF0)
	c.SetFlag(FlagH, true)
	c.SetFlag(FlagC, true)
	bus.LoadAt(0, []byte{0xB0}) // ORA B

	c.Step()

	assert.Equal(t, byte(0xFF), c.Reg8(RegA))
	assert.False(t, c.Flag(FlagH))
	assert.False(t, c.Flag(FlagC))
}

func TestAddHLDoesNotTouchZero(t *testing.T) {
	c, bus := newTestCPU()
	c.SetReg16(RegHL, 0xFFFF)
	c.SetReg16(RegBC, 0x0001)
	c.SetFlag(FlagZ, true)
	bus.LoadAt(0, []byte{0x09}) // DAD B

	c.Step()

	assert.Equal(t, uint16(0x0000), c.Reg16(RegHL))
	assert.True(t, c.Flag(FlagZ), "ADD HL,rr must leave Zero alone")
	assert.True(t, c.Flag(FlagC))
	assert.True(t, c.Flag(FlagH))
}

func TestSwapExchangesNibblesAndClearsCarry(t *testing.T) {
	c, bus := newTestCPU()
	c.SetReg8(RegA, 0x12)
	c.SetFlag(FlagC, true)
	bus.LoadAt(0, []byte{0xCB, 0x37}) // SWAP A

	c.Step()

	assert.Equal(t, byte(0x21), c.Reg8(RegA))
	assert.False(t, c.Flag(FlagC))
}

func TestResAndSetDoNotTouchFlags(t *testing.T) {
	c, bus := newTestCPU()
	c.SetReg8(RegA, 0x00)
	c.SetFlag(FlagZ, true)
	c.SetFlag(FlagC, true)
	bus.LoadAt(0, []byte{0xCB, 0xC7}) // SET 0,A

	c.Step()

	assert.Equal(t, byte(0x01), c.Reg8(RegA))
	assert.True(t, c.Flag(FlagZ))
	assert.True(t, c.Flag(FlagC))
}

func TestBitSetsZeroWhenBitIsClear(t *testing.T) {
	c, bus := newTestCPU()
	c.SetReg8(RegA, 0x00)
	bus.LoadAt(0, []byte{0xCB, 0x47}) // BIT 0,A

	c.Step()

	assert.True(t, c.Flag(FlagZ))
	assert.True(t, c.Flag(FlagH))
	assert.False(t, c.Flag(FlagN))
}

func TestSRAPreservesSignBitSRLDoesNot(t *testing.T) {
	c, bus := newTestCPU()
	c.SetReg8(RegA, 0x81) // 1000_0001
	bus.LoadAt(0, []byte{0xCB, 0x2F}) // SRA A

	c.Step()

	assert.Equal(t, byte(0xC0), c.Reg8(RegA)) // 1100_0000
	assert.True(t, c.Flag(FlagC))

	c.SetReg8(RegA, 0x81)
	bus.LoadAt(2, []byte{0xCB, 0x3F}) // SRL A
	c.SetPC(2)
	c.Step()

	assert.Equal(t, byte(0x40), c.Reg8(RegA)) // 0100_0000
	assert.True(t, c.Flag(FlagC))
}

func TestJPCCSkipsTargetWhenConditionFails(t *testing.T) {
	c, bus := newTestCPU()
	c.SetFlag(FlagZ, false)
	bus.LoadAt(0, []byte{0xCA, 0x00, 0x90}) // JZ $9000

	c.Step()

	assert.Equal(t, uint16(0x0003), c.PC(), "condition false: falls through to the next instruction")
}

func TestJPCCJumpsWhenConditionHolds(t *testing.T) {
	c, bus := newTestCPU()
	c.SetFlag(FlagZ, true)
	bus.LoadAt(0, []byte{0xCA, 0x00, 0x90}) // JZ $9000

	c.Step()

	assert.Equal(t, uint16(0x9000), c.PC())
}

// The SP pair has no slot in the register array -- LD SP,nn, INC SP, DEC SP,
// and ADD HL,SP must all route it through the stack pointer field directly
// rather than the array-only register-pair helpers.

func TestLoadSPImmediate(t *testing.T) {
	c, bus := newTestCPU()
	bus.LoadAt(0, []byte{0x31, 0x34, 0x12}) // LD SP,0x1234

	c.Step()

	assert.Equal(t, uint16(0x1234), c.SP())
}

func TestIncSP(t *testing.T) {
	c, bus := newTestCPU()
	c.SetSP(0xFFFF)
	bus.LoadAt(0, []byte{0x33}) // INC SP

	c.Step()

	assert.Equal(t, uint16(0x0000), c.SP(), "INC SP wraps at 16 bits")
}

func TestDecSP(t *testing.T) {
	c, bus := newTestCPU()
	c.SetSP(0x0000)
	bus.LoadAt(0, []byte{0x3B}) // DEC SP

	c.Step()

	assert.Equal(t, uint16(0xFFFF), c.SP(), "DEC SP wraps at 16 bits")
}

func TestAddHLSP(t *testing.T) {
	c, bus := newTestCPU()
	c.SetReg16(RegHL, 0x0FFF)
	c.SetSP(0x0001)
	bus.LoadAt(0, []byte{0x39}) // ADD HL,SP

	c.Step()

	assert.Equal(t, uint16(0x1000), c.Reg16(RegHL))
	assert.True(t, c.Flag(FlagH))
	assert.False(t, c.Flag(FlagC))
}
