package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/darrenedale/Spectrum-sub003/iodevice"
	"github.com/darrenedale/Spectrum-sub003/memory"
	"github.com/darrenedale/Spectrum-sub003/z80"
)

// Failure describes one mismatched field between a case's actual and
// expected outcome.
type Failure struct {
	Case  string
	Field string
	Want  string
	Got   string
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %s: want %s, got %s", f.Case, f.Field, f.Want, f.Got)
}

// Battery is a directory of .in/.expected fixture pairs.
type Battery struct {
	Dir string
}

// Load discovers every "<name>.in" with a matching "<name>.expected" in
// dir.
func Load(dir string) (*Battery, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".in") {
			base := strings.TrimSuffix(e.Name(), ".in")
			if _, err := os.Stat(filepath.Join(dir, base+".expected")); err != nil {
				return nil, fmt.Errorf("harness: %s has no matching .expected file", e.Name())
			}
		}
	}
	return &Battery{Dir: dir}, nil
}

func (b *Battery) names() ([]string, error) {
	entries, err := os.ReadDir(b.Dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".in") {
			names = append(names, strings.TrimSuffix(e.Name(), ".in"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Run executes every case in the battery concurrently and returns every
// Failure found, ordered by file name for deterministic output. A case
// whose files cannot be opened or parsed is reported as a single "parse"
// Failure carrying the error text; the other cases still run.
func (b *Battery) Run() ([]Failure, error) {
	names, err := b.names()
	if err != nil {
		return nil, err
	}

	results := make([][]Failure, len(names))
	var g errgroup.Group
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			c, err := b.loadCase(name)
			if err != nil {
				results[i] = []Failure{{Case: name, Field: "parse", Want: "well-formed fixture", Got: err.Error()}}
				return nil
			}
			results[i] = RunCase(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var failures []Failure
	for _, r := range results {
		failures = append(failures, r...)
	}
	return failures, nil
}

func (b *Battery) loadCase(name string) (*Case, error) {
	inFile := filepath.Join(b.Dir, name+".in")
	inF, err := os.Open(inFile)
	if err != nil {
		return nil, err
	}
	defer inF.Close()
	c, err := ParseIn(inFile, inF)
	if err != nil {
		return nil, err
	}

	expFile := filepath.Join(b.Dir, name+".expected")
	expF, err := os.Open(expFile)
	if err != nil {
		return nil, err
	}
	defer expF.Close()
	if err := ParseExpected(expFile, expF, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RunCase drives one already-parsed Case to completion and diffs the
// resulting CPU/memory/event state against its expectations.
func RunCase(c *Case) []Failure {
	mem := memory.NewFlatRAM()
	io := iodevice.NewBus()
	rec := NewRecorder(mem, io)

	cpu := z80.New(rec, rec)
	cpu.Clock = rec
	seedState(cpu, c.Initial)
	for _, block := range c.InitMem {
		for i, v := range block.Bytes {
			mem.WriteByte(block.Base+uint16(i), v)
		}
	}
	rec.Events = nil // fixture seeding is not part of the observed trace

	cpu.RunFor(c.Budget)

	var failures []Failure
	failures = append(failures, diffState(c.Name, c.Expected, cpu)...)
	for _, block := range c.ExpMem {
		for i, want := range block.Bytes {
			addr := block.Base + uint16(i)
			got := mem.ReadByte(addr)
			if got != want {
				failures = append(failures, Failure{
					Case: c.Name, Field: fmt.Sprintf("memory[%04X]", addr),
					Want: fmt.Sprintf("%02X", want), Got: fmt.Sprintf("%02X", got),
				})
			}
		}
	}
	if cpu.Cycles != c.TStates {
		failures = append(failures, Failure{
			Case: c.Name, Field: "t-states",
			Want: fmt.Sprintf("%d", c.TStates), Got: fmt.Sprintf("%d", cpu.Cycles),
		})
	}
	failures = append(failures, diffEvents(c.Name, c.Events, rec.Events)...)
	return failures
}

func seedState(c *z80.CPU, st State) {
	c.SetAF(st.AF)
	c.SetBC(st.BC)
	c.SetDE(st.DE)
	c.SetHL(st.HL)
	c.SetAF2(st.AF2)
	c.SetBC2(st.BC2)
	c.SetDE2(st.DE2)
	c.SetHL2(st.HL2)
	c.IX, c.IY, c.SP, c.PC = st.IX, st.IY, st.SP, st.PC
	c.I, c.R, c.IM = st.I, st.R, st.IM
	c.IFF1, c.IFF2 = st.IFF1, st.IFF2
	c.Halted = st.Halted
	c.WZ = st.WZ
}

func diffState(name string, want State, c *z80.CPU) []Failure {
	var fs []Failure
	check := func(field string, want, got uint16) {
		if want != got {
			fs = append(fs, Failure{Case: name, Field: field, Want: fmt.Sprintf("%04X", want), Got: fmt.Sprintf("%04X", got)})
		}
	}
	check("AF", want.AF, c.AF())
	check("BC", want.BC, c.BC())
	check("DE", want.DE, c.DE())
	check("HL", want.HL, c.HL())
	check("AF'", want.AF2, c.AF2())
	check("BC'", want.BC2, c.BC2())
	check("DE'", want.DE2, c.DE2())
	check("HL'", want.HL2, c.HL2())
	check("IX", want.IX, c.IX)
	check("IY", want.IY, c.IY)
	check("SP", want.SP, c.SP)
	check("PC", want.PC, c.PC)
	check("WZ", want.WZ, c.WZ)
	if want.I != c.I {
		fs = append(fs, Failure{Case: name, Field: "I", Want: fmt.Sprintf("%02X", want.I), Got: fmt.Sprintf("%02X", c.I)})
	}
	if want.R != c.R {
		fs = append(fs, Failure{Case: name, Field: "R", Want: fmt.Sprintf("%02X", want.R), Got: fmt.Sprintf("%02X", c.R)})
	}
	if want.IM != c.IM {
		fs = append(fs, Failure{Case: name, Field: "IM", Want: fmt.Sprintf("%d", want.IM), Got: fmt.Sprintf("%d", c.IM)})
	}
	if want.IFF1 != c.IFF1 {
		fs = append(fs, Failure{Case: name, Field: "IFF1", Want: fmt.Sprintf("%v", want.IFF1), Got: fmt.Sprintf("%v", c.IFF1)})
	}
	if want.IFF2 != c.IFF2 {
		fs = append(fs, Failure{Case: name, Field: "IFF2", Want: fmt.Sprintf("%v", want.IFF2), Got: fmt.Sprintf("%v", c.IFF2)})
	}
	if want.Halted != c.Halted {
		fs = append(fs, Failure{Case: name, Field: "HALT", Want: fmt.Sprintf("%v", want.Halted), Got: fmt.Sprintf("%v", c.Halted)})
	}
	return fs
}

func diffEvents(name string, want, got []Event) []Failure {
	if len(want) == 0 {
		return nil // fixtures that don't assert events opt out entirely
	}
	if len(want) != len(got) {
		return []Failure{{
			Case: name, Field: "events",
			Want: fmt.Sprintf("%d events", len(want)), Got: fmt.Sprintf("%d events", len(got)),
		}}
	}
	var fs []Failure
	for i := range want {
		if want[i] != got[i] {
			fs = append(fs, Failure{
				Case: name, Field: fmt.Sprintf("events[%d]", i),
				Want: formatEvent(want[i]), Got: formatEvent(got[i]),
			})
		}
	}
	return fs
}

func formatEvent(e Event) string {
	if e.HasData {
		return fmt.Sprintf("%d %s %04X %02X", e.Time, e.Kind, e.Address, e.Data)
	}
	return fmt.Sprintf("%d %s %04X", e.Time, e.Kind, e.Address)
}
