package cpu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/bobbobbio/lr35902core/mem"
)

type model struct {
	cpu     *CPU
	bus     *mem.Bus
	program []byte

	offset uint16 // where Init loads program and sets PC
	prevPC uint16
	error  error
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (m model) Init() tea.Cmd {
	m.bus.LoadAt(m.offset, m.program)
	m.cpu.SetPC(m.offset)
	return nil
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit

		case " ", "j":
			m.prevPC = m.cpu.PC()
			if m.cpu.Halted() {
				m.cpu.Resume()
				return m, nil
			}
			m.cpu.Step()
			if m.cpu.Crashed() {
				m.error = fmt.Errorf("%s", m.cpu.CrashMessage())
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// renderPage renders a single page as a line. The current PC is highlighted.
func (m model) renderPage(start uint16) string {
	if start%16 != 0 {
		panic("start must be a multiple of 16")
	}
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		b := m.bus.Read(start + i)
		if start+i == m.cpu.PC() {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m model) status() string {
	var flags string
	for _, flag := range []bool{
		m.cpu.Flag(FlagZ),
		m.cpu.Flag(FlagN),
		m.cpu.Flag(FlagH),
		m.cpu.Flag(FlagC),
	} {
		if flag {
			flags += "/ "
		} else {
			flags += "  "
		}
	}
	return fmt.Sprintf(`
PC: %04x (%04x)
SP: %04x
 A: %02x   F: %02x
BC: %04x DE: %04x
HL: %04x
cycles: %d  halted: %v
Z N H C
`,
		m.cpu.PC(), m.prevPC,
		m.cpu.SP(),
		m.cpu.Reg8(RegA), byte(m.cpu.Reg16(RegAF)),
		m.cpu.Reg16(RegBC), m.cpu.Reg16(RegDE),
		m.cpu.Reg16(RegHL),
		m.cpu.ElapsedCycles, m.cpu.Halted(),
	) + flags
}

func (m model) pageTable() string {
	header := "page | "
	for b := 0; b < 16; b++ {
		header += fmt.Sprintf("  %01x  ", b)
	}

	pages := []string{header}

	pc := m.cpu.PC()
	pageStart := pc - pc%16
	offsets := []int{
		0, 16, 32, 48, 64,
		int(pageStart),
	}
	for _, i := range offsets {
		pages = append(pages, m.renderPage(uint16(i)))
	}
	return strings.Join(pages, "\n")
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m model) View() string {
	last := "no instruction executed yet"
	if instr := m.cpu.LastInstruction(); instr != nil {
		last = Disassemble(*instr)
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		last,
		spew.Sdump(m.cpu.CallStack()),
	)
}

// Debug loads program into memory at offset, attaches a CPU to a fresh Bus,
// and starts an interactive TUI: space or j steps one instruction, q quits.
func Debug(program []byte, offset uint16) {
	bus := mem.NewBus()
	c := New(bus)

	m, err := tea.NewProgram(model{
		cpu:     c,
		bus:     bus,
		program: program,
		offset:  offset,
	}).Run()
	if err != nil {
		panic(err)
	}
	x := m.(model)
	if x.error != nil {
		fmt.Println("Error:", x.error)
	}
}
