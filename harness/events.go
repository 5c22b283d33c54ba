// Package harness implements the declarative test battery: parsing
// .in/.expected fixture files, driving a CPU against them, and
// reporting per-field mismatches without aborting a run.
package harness

import "github.com/darrenedale/Spectrum-sub003/z80"

// EventKind enumerates the observable bus events a Recorder timestamps.
type EventKind int

const (
	MemoryContend EventKind = iota
	MemoryRead
	MemoryWrite
	PortContend
	PortRead
	PortWrite
)

func (k EventKind) String() string {
	switch k {
	case MemoryContend:
		return "MC"
	case MemoryRead:
		return "MR"
	case MemoryWrite:
		return "MW"
	case PortContend:
		return "PC"
	case PortRead:
		return "PR"
	case PortWrite:
		return "PW"
	default:
		return "??"
	}
}

// Event is one observed bus transaction, timestamped at the T-state it
// occurred on.
type Event struct {
	Time    uint64
	Kind    EventKind
	Address uint16
	Data    byte
	HasData bool
}

// Recorder wraps a real MemoryBus and PortBus, logging every contend,
// read, and write as a timestamped Event while forwarding to the
// wrapped implementation. It also implements z80.Ticker so its clock
// stays in lockstep with the CPU that installs it.
type Recorder struct {
	mem z80.MemoryBus
	io  z80.PortBus

	clock  uint64
	Events []Event
}

// NewRecorder wraps mem and io for event capture.
func NewRecorder(mem z80.MemoryBus, io z80.PortBus) *Recorder {
	return &Recorder{mem: mem, io: io}
}

func (r *Recorder) Tick(cycles int) { r.clock += uint64(cycles) }

func (r *Recorder) Contend(addr uint16, cycles int) {
	r.Events = append(r.Events, Event{Time: r.clock, Kind: MemoryContend, Address: addr})
	r.mem.Contend(addr, cycles)
}

func (r *Recorder) ReadByte(addr uint16) byte {
	v := r.mem.ReadByte(addr)
	r.Events = append(r.Events, Event{Time: r.clock, Kind: MemoryRead, Address: addr, Data: v, HasData: true})
	return v
}

func (r *Recorder) WriteByte(addr uint16, value byte) {
	r.Events = append(r.Events, Event{Time: r.clock, Kind: MemoryWrite, Address: addr, Data: value, HasData: true})
	r.mem.WriteByte(addr, value)
}

func (r *Recorder) ContendPort(port uint16) {
	r.Events = append(r.Events, Event{Time: r.clock, Kind: PortContend, Address: port})
	r.io.ContendPort(port)
}

func (r *Recorder) In(port uint16) byte {
	v := r.io.In(port)
	r.Events = append(r.Events, Event{Time: r.clock, Kind: PortRead, Address: port, Data: v, HasData: true})
	return v
}

func (r *Recorder) Out(port uint16, value byte) {
	r.Events = append(r.Events, Event{Time: r.clock, Kind: PortWrite, Address: port, Data: value, HasData: true})
	r.io.Out(port, value)
}
