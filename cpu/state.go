package cpu

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Serialize renders the CPU's entire architectural state -- register file,
// SP, PC, elapsed cycle count, halted/crashed status, the advisory call
// stack, and the last fetched instruction -- as a byte record with a fixed
// field order and fixed-width fields, so a snapshot taken by one build of
// this core can be restored by another. It does not touch the attached
// mem.Memory: memory contents and how a snapshot reaches disk or the wire
// are the enclosing system's concern, not this core's.
func (c *CPU) Serialize() []byte {
	var buf bytes.Buffer

	buf.Write(c.regs[:])
	binary.Write(&buf, binary.BigEndian, c.sp)
	binary.Write(&buf, binary.BigEndian, c.pc)
	binary.Write(&buf, binary.BigEndian, c.ElapsedCycles)

	buf.WriteByte(boolByte(c.halted))

	buf.WriteByte(boolByte(c.crashMsg != nil))
	writeString(&buf, c.CrashMessage())

	binary.Write(&buf, binary.BigEndian, uint16(len(c.callStack)))
	for _, addr := range c.callStack {
		binary.Write(&buf, binary.BigEndian, addr)
	}

	if c.lastInstruction != nil {
		encoded := Encode(*c.lastInstruction)
		buf.WriteByte(byte(len(encoded)))
		buf.Write(encoded)
	} else {
		buf.WriteByte(0)
	}

	return buf.Bytes()
}

// Restore overwrites the CPU's architectural state from a record produced
// by Serialize. The mem.Memory this CPU was constructed with is left
// untouched; the caller is responsible for restoring memory contents
// separately, if it needs to.
func (c *CPU) Restore(data []byte) error {
	r := bytes.NewReader(data)

	if _, err := r.Read(c.regs[:]); err != nil {
		return fmt.Errorf("cpu: restore: reading registers: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &c.sp); err != nil {
		return fmt.Errorf("cpu: restore: reading sp: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &c.pc); err != nil {
		return fmt.Errorf("cpu: restore: reading pc: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &c.ElapsedCycles); err != nil {
		return fmt.Errorf("cpu: restore: reading elapsed cycles: %w", err)
	}

	halted, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("cpu: restore: reading halted flag: %w", err)
	}
	c.halted = halted != 0

	crashed, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("cpu: restore: reading crashed flag: %w", err)
	}
	msg, err := readString(r)
	if err != nil {
		return fmt.Errorf("cpu: restore: reading crash message: %w", err)
	}
	if crashed != 0 {
		c.crashMsg = &msg
	} else {
		c.crashMsg = nil
	}

	var frameCount uint16
	if err := binary.Read(r, binary.BigEndian, &frameCount); err != nil {
		return fmt.Errorf("cpu: restore: reading call stack length: %w", err)
	}
	c.callStack = make([]uint16, frameCount)
	for i := range c.callStack {
		if err := binary.Read(r, binary.BigEndian, &c.callStack[i]); err != nil {
			return fmt.Errorf("cpu: restore: reading call stack frame %d: %w", i, err)
		}
	}

	instrLen, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("cpu: restore: reading last-instruction length: %w", err)
	}
	if instrLen == 0 {
		c.lastInstruction = nil
	} else {
		raw := make([]byte, instrLen)
		if _, err := r.Read(raw); err != nil {
			return fmt.Errorf("cpu: restore: reading last instruction bytes: %w", err)
		}
		fake := &rawInstructionMemory{data: raw}
		instr, ok := Decode(fake, 0)
		if !ok {
			return fmt.Errorf("cpu: restore: last instruction bytes do not decode")
		}
		c.lastInstruction = &instr
	}

	return nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func writeString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.BigEndian, uint16(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if n > 0 {
		if _, err := r.Read(b); err != nil {
			return "", err
		}
	}
	return string(b), nil
}

// rawInstructionMemory adapts a short byte slice (the encoded form of one
// instruction) to the mem.Memory interface so Restore can run it back
// through Decode rather than duplicating decode logic.
type rawInstructionMemory struct {
	data []byte
}

func (m *rawInstructionMemory) Read(addr uint16) byte {
	if int(addr) >= len(m.data) {
		return 0
	}
	return m.data[addr]
}

func (m *rawInstructionMemory) Write(addr uint16, v byte) {}

func (m *rawInstructionMemory) ReadU16(addr uint16) uint16 {
	return uint16(m.Read(addr)) | uint16(m.Read(addr+1))<<8
}

func (m *rawInstructionMemory) WriteU16(addr uint16, v uint16) {}

func (m *rawInstructionMemory) SetInterruptsEnabled(enabled bool) {}
