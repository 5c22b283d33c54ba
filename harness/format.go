package harness

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// State captures every architectural register the battery format can
// assert on.
type State struct {
	AF, BC, DE, HL     uint16
	AF2, BC2, DE2, HL2 uint16
	IX, IY, SP, PC     uint16
	I, R               byte
	IM                 byte
	IFF1, IFF2         bool
	Halted             bool
	WZ                 uint16
}

// MemoryBlock is a contiguous run of bytes asserted (or seeded) at a
// base address.
type MemoryBlock struct {
	Base  uint16
	Bytes []byte
}

// Case is one fully-parsed .in/.expected pair: the seed state the CPU
// is reset to, the T-state budget to run it for, and the expected final
// state, memory contents, bus events, and elapsed T-states.
type Case struct {
	Name     string
	Initial  State
	InitMem  []MemoryBlock
	Budget   uint64
	Expected State
	ExpMem   []MemoryBlock
	Events   []Event
	TStates  uint64
}

// CaseError reports a .in/.expected parse failure with file/line context.
type CaseError struct {
	File string
	Line int
	Msg  string
}

func (e *CaseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

type lineScanner struct {
	file string
	sc   *bufio.Scanner
	line int
	cur  string
}

func newLineScanner(file string, r io.Reader) *lineScanner {
	return &lineScanner{file: file, sc: bufio.NewScanner(r)}
}

func (s *lineScanner) next() (string, bool) {
	for s.sc.Scan() {
		s.line++
		s.cur = strings.TrimSpace(s.sc.Text())
		if s.cur == "" {
			continue
		}
		return s.cur, true
	}
	return "", false
}

func (s *lineScanner) err(format string, args ...interface{}) error {
	return &CaseError{File: s.file, Line: s.line, Msg: fmt.Sprintf(format, args...)}
}

func parseHex16(tok string) (uint16, error) {
	v, err := strconv.ParseUint(tok, 16, 16)
	return uint16(v), err
}

func parseHex8(tok string) (byte, error) {
	v, err := strconv.ParseUint(tok, 16, 8)
	return byte(v), err
}

func parseBool01(tok string) (bool, error) {
	switch tok {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, fmt.Errorf("expected 0 or 1, got %q", tok)
}

// parseState reads the two fixed register/flag lines (AF..PC, then
// I/R/IFF1/IFF2/IM/HALT/WZ) that follow the name line of a .in file and
// begin a .expected file.
func parseState(s *lineScanner) (State, error) {
	var st State
	line, ok := s.next()
	if !ok {
		return st, s.err("expected register line")
	}
	fields := strings.Fields(line)
	if len(fields) != 12 {
		return st, s.err("register line: want 12 fields, got %d", len(fields))
	}
	dests := []*uint16{&st.AF, &st.BC, &st.DE, &st.HL, &st.AF2, &st.BC2, &st.DE2, &st.HL2, &st.IX, &st.IY, &st.SP, &st.PC}
	for i, tok := range fields {
		v, err := parseHex16(tok)
		if err != nil {
			return st, s.err("register field %d: %v", i, err)
		}
		*dests[i] = v
	}

	line, ok = s.next()
	if !ok {
		return st, s.err("expected flags line")
	}
	fields = strings.Fields(line)
	if len(fields) != 7 {
		return st, s.err("flags line: want 7 fields, got %d", len(fields))
	}
	var err error
	if st.I, err = parseHex8(fields[0]); err != nil {
		return st, s.err("I: %v", err)
	}
	if st.R, err = parseHex8(fields[1]); err != nil {
		return st, s.err("R: %v", err)
	}
	if st.IFF1, err = parseBool01(fields[2]); err != nil {
		return st, s.err("IFF1: %v", err)
	}
	if st.IFF2, err = parseBool01(fields[3]); err != nil {
		return st, s.err("IFF2: %v", err)
	}
	if st.IM, err = parseHex8(fields[4]); err != nil {
		return st, s.err("IM: %v", err)
	}
	if st.Halted, err = parseBool01(fields[5]); err != nil {
		return st, s.err("HALT: %v", err)
	}
	if st.WZ, err = parseHex16(fields[6]); err != nil {
		return st, s.err("WZ: %v", err)
	}
	return st, nil
}

// parseMemoryBlocks reads zero or more "<addr> <byte>... -1" lines,
// stopping at the first "END" marker line.
func parseMemoryBlocks(s *lineScanner) ([]MemoryBlock, error) {
	var blocks []MemoryBlock
	for {
		line, ok := s.next()
		if !ok {
			return blocks, s.err("expected memory block or END")
		}
		if line == "END" {
			return blocks, nil
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return blocks, s.err("memory line: too few fields")
		}
		base, err := parseHex16(fields[0])
		if err != nil {
			return blocks, s.err("memory base: %v", err)
		}
		block := MemoryBlock{Base: base}
		for _, tok := range fields[1:] {
			if tok == "-1" {
				blocks = append(blocks, block)
				break
			}
			b, err := parseHex8(tok)
			if err != nil {
				return blocks, s.err("memory byte: %v", err)
			}
			block.Bytes = append(block.Bytes, b)
		}
	}
}

// ParseIn reads a .in fixture: name line, state, a T-state budget line,
// then memory blocks terminated by END.
func ParseIn(file string, r io.Reader) (*Case, error) {
	s := newLineScanner(file, r)
	name, ok := s.next()
	if !ok {
		return nil, s.err("expected name line")
	}
	st, err := parseState(s)
	if err != nil {
		return nil, err
	}
	budgetLine, ok := s.next()
	if !ok {
		return nil, s.err("expected T-state budget line")
	}
	budget, err := strconv.ParseUint(budgetLine, 10, 64)
	if err != nil {
		return nil, s.err("budget: %v", err)
	}
	mem, err := parseMemoryBlocks(s)
	if err != nil {
		return nil, err
	}
	return &Case{Name: name, Initial: st, Budget: budget, InitMem: mem}, nil
}

// ParseExpected reads a .expected fixture and fills in the Expected
// fields of c: state, memory blocks, an EVENTS section, and a final
// TSTATES line.
func ParseExpected(file string, r io.Reader, c *Case) error {
	s := newLineScanner(file, r)
	st, err := parseState(s)
	if err != nil {
		return err
	}
	c.Expected = st

	mem, err := parseMemoryBlocks(s)
	if err != nil {
		return err
	}
	c.ExpMem = mem

	line, ok := s.next()
	if !ok {
		return s.err("expected EVENTS marker")
	}
	if line != "EVENTS" {
		return s.err("expected EVENTS marker, got %q", line)
	}
	for {
		line, ok = s.next()
		if !ok {
			return s.err("expected event line or TSTATES")
		}
		if strings.HasPrefix(line, "TSTATES ") {
			n, err := strconv.ParseUint(strings.TrimPrefix(line, "TSTATES "), 10, 64)
			if err != nil {
				return s.err("TSTATES: %v", err)
			}
			c.TStates = n
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return s.err("event line: too few fields")
		}
		t, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return s.err("event time: %v", err)
		}
		kind, err := parseEventKind(fields[1])
		if err != nil {
			return s.err("event kind: %v", err)
		}
		addr, err := parseHex16(fields[2])
		if err != nil {
			return s.err("event address: %v", err)
		}
		ev := Event{Time: t, Kind: kind, Address: addr}
		if len(fields) > 3 {
			data, err := parseHex8(fields[3])
			if err != nil {
				return s.err("event data: %v", err)
			}
			ev.Data = data
			ev.HasData = true
		}
		c.Events = append(c.Events, ev)
	}
}

func parseEventKind(tok string) (EventKind, error) {
	switch tok {
	case "MC":
		return MemoryContend, nil
	case "MR":
		return MemoryRead, nil
	case "MW":
		return MemoryWrite, nil
	case "PC":
		return PortContend, nil
	case "PR":
		return PortRead, nil
	case "PW":
		return PortWrite, nil
	}
	return 0, fmt.Errorf("unknown event kind %q", tok)
}
