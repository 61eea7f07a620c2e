package cpu

import (
	"fmt"
	"time"

	"github.com/bobbobbio/lr35902core/mem"
)

// https://gbdev.io/pandocs/Specifications.html
// the LR35902 runs its instruction clock at 4.194304 MHz; Tick is the
// wall-clock duration of a single clock cycle, for callers that want to
// pace execution against real time rather than stepping as fast as possible.
var (
	tick = 1e9 / 4194304 // cannot be inlined into time.Duration, even with cast
	Tick = time.Nanosecond * time.Duration(tick)
)

// defaultElapsedCycles is the cycle count a freshly booted console has
// already burned running its internal boot ROM before handing control to
// the cartridge. Callers that model the boot ROM themselves, or that don't
// care, are free to overwrite it after calling New.
const defaultElapsedCycles = 102348

// A CPU is a Sharp LR35902 instruction-set simulator. It has no memory of
// its own beyond its small register file; all reads and writes go through
// the attached mem.Memory, which is also where interrupt-enable state
// lives.
type CPU struct {
	mem mem.Memory

	regs registerFile
	sp   uint16
	pc   uint16

	halted   bool
	crashMsg *string

	// ElapsedCycles is the running total of clock cycles this CPU has
	// consumed since it was created, including the boot ROM baseline New
	// seeds it with.
	ElapsedCycles uint64

	// callStack is advisory only: it lets a debugger show a call stack, but
	// nothing in Execute reads it back, and it plays no part in how CALL,
	// RET, or RST behave.
	callStack []uint16

	lastInstruction *Instruction
}

// New returns a reset CPU wired to m: SP=0xFFFE, PC=0x0100, every register
// and flag zero, and its elapsed cycle count seeded to the point a real
// console would be at once its boot ROM finishes and hands off to the
// cartridge.
func New(m mem.Memory) *CPU {
	return &CPU{
		mem:           m,
		sp:            0xFFFE,
		pc:            0x0100,
		ElapsedCycles: defaultElapsedCycles,
	}
}

// Mem returns the memory this CPU is attached to.
func (c *CPU) Mem() mem.Memory { return c.mem }

// Crashed reports whether the CPU has hit an opcode Decode could not
// recognize. Calling Step or Fetch on a crashed CPU panics.
func (c *CPU) Crashed() bool {
	return c.crashMsg != nil
}

// CrashMessage returns the reason Crashed is true, or "" if it is not.
func (c *CPU) CrashMessage() string {
	if c.crashMsg == nil {
		return ""
	}
	return *c.crashMsg
}

// Halted reports whether the CPU has executed a HALT and is waiting for an
// interrupt.
func (c *CPU) Halted() bool {
	return c.halted
}

// Resume clears Halted, as if an interrupt had just woken the CPU. It has
// no effect if the CPU was not halted.
func (c *CPU) Resume() {
	c.halted = false
}

// PC returns the program counter.
func (c *CPU) PC() uint16 { return c.pc }

// SetPC sets the program counter, for a debugger placing the CPU at a
// specific address.
func (c *CPU) SetPC(addr uint16) { c.pc = addr }

// SP returns the stack pointer.
func (c *CPU) SP() uint16 { return c.sp }

// SetSP sets the stack pointer.
func (c *CPU) SetSP(addr uint16) { c.sp = addr }

// Reg8 returns the value of an 8-bit register (RegB..RegA, not RegM).
func (c *CPU) Reg8(r RegID) byte { return c.regs.readReg8(r) }

// SetReg8 sets the value of an 8-bit register.
func (c *CPU) SetReg8(r RegID, v byte) { c.regs.writeReg8(r, v) }

// Reg16 returns the value of a register pair (RegBC, RegDE, RegHL, RegAF).
func (c *CPU) Reg16(r RegID) uint16 { return c.regs.readPair(r) }

// SetReg16 sets the value of a register pair.
func (c *CPU) SetReg16(r RegID, v uint16) { c.regs.writePair(r, v) }

// Flag reports whether the named flag bit is set.
func (c *CPU) Flag(mask byte) bool { return c.regs.flag(mask) }

// SetFlag sets or clears the named flag bit.
func (c *CPU) SetFlag(mask byte, set bool) { c.regs.setFlag(mask, set) }

// CallStack returns the advisory call stack maintained by CALL/RST and
// popped by RET/RETI. It is purely a debugging aid; the caller must not
// mutate the returned slice.
func (c *CPU) CallStack() []uint16 {
	return c.callStack
}

// PushFrame records addr on the advisory call stack. Execute calls this
// itself for CALL/RST/CALL cc; it is exported so a debugger can simulate a
// call (e.g. stepping into an interrupt handler) without going through
// Execute.
func (c *CPU) PushFrame(addr uint16) {
	c.callStack = append(c.callStack, addr)
}

// PopFrame removes the most recent frame pushed by PushFrame, if any.
func (c *CPU) PopFrame() {
	if len(c.callStack) == 0 {
		return
	}
	c.callStack = c.callStack[:len(c.callStack)-1]
}

// LastInstruction returns the most recently fetched instruction, or nil if
// Fetch (or Step) has never successfully decoded one.
func (c *CPU) LastInstruction() *Instruction {
	return c.lastInstruction
}

// Step fetches, decodes, and executes exactly one instruction at the
// current program counter, then advances ElapsedCycles by its cost.
//
// If the byte at PC does not name a recognized instruction, Step does not
// panic: it records the failure as crashed state (see Crashed and
// CrashMessage) and returns, exactly as a malformed ROM would wedge a real
// console rather than the core's own logic failing. Calling Step again
// while the CPU is already crashed or halted is a programmer error, not an
// architectural one, and does panic.
func (c *CPU) Step() {
	if !c.Fetch() {
		return
	}
	c.Execute()
}

// Fetch decodes the instruction at the current PC, advances PC past it, and
// stashes it for a following call to Execute -- the split form a caller
// doing its own interleaved bus emulation wants instead of Step. It reports
// false (after recording crash state) if the byte at PC is not a
// recognized opcode.
//
// Fetch panics if called on a CPU that is already crashed or halted, the
// same as Step.
func (c *CPU) Fetch() bool {
	if c.crashMsg != nil {
		panic("cpu: Fetch called on a crashed CPU")
	}
	if c.halted {
		panic("cpu: Fetch called while halted; call Resume first")
	}

	instr, ok := Decode(c.mem, c.pc)
	if !ok {
		msg := fmt.Sprintf("illegal opcode at 0x%04X", c.pc)
		c.crashMsg = &msg
		return false
	}

	c.pc += instr.Size()
	c.lastInstruction = &instr
	return true
}

// Execute dispatches the instruction most recently stored by Fetch and
// advances ElapsedCycles by its cost. It panics only if no instruction has
// ever been fetched; it does not track whether the stored instruction has
// already been executed, so a second Execute without a new successful Fetch
// runs the same instruction again.
func (c *CPU) Execute() {
	if c.lastInstruction == nil {
		panic("cpu: Execute called with no fetched instruction pending")
	}
	instr := *c.lastInstruction
	c.execute(instr)
	c.ElapsedCycles += uint64(instr.Duration())
}

// Jump sets PC to addr and pushes addr onto the advisory call stack, as if
// a CALL had landed there. A debugger uses this to simulate the enclosing
// system dispatching an interrupt handler without forging a CALL opcode.
func (c *CPU) Jump(addr uint16) {
	c.pc = addr
	c.PushFrame(addr)
}
