// Package memory implements the paged address space backing a Z80 core:
// a 64 KiB window assembled from 16 KiB ROM/RAM pages, with the bank
// switching used by the 128K and +2A/+3 Spectrum models.
package memory

import "log"

// Model selects the page layout and paging-port behaviour of a machine.
type Model int

const (
	Model48K Model = iota
	Model128K
	ModelPlus3
)

const pageSize = 0x4000

type page struct {
	data [pageSize]byte
	rom  bool
}

// Memory is a 64 KiB address space made of four 16 KiB windows (slots),
// each pointing at one of a fixed pool of ROM or RAM pages.
type Memory struct {
	model Model

	roms []*page
	rams []*page

	slots [4]*page

	romIndex int
	ramBank  int // slot 3 bank on 128K/+2A/+3, selected via port 0x7FFD

	special       bool // +2A/+3 "special paging" mode engaged
	specialConfig int

	// ContendFunc, when set, is invoked by Contend with the address and
	// cycle count passed to it. ReadByte and WriteByte do not invoke it.
	// It is nil (a no-op) by default.
	ContendFunc func(addr uint16, cycles int)

	logger *log.Logger
}

// plus3Configs enumerates the four all-RAM page layouts selectable via
// port 0x1FFD bits 1-2 when special paging is engaged.
var plus3Configs = [4][4]int{
	{0, 1, 2, 3},
	{4, 5, 6, 7},
	{4, 5, 6, 3},
	{4, 7, 6, 3},
}

func newMemory(model Model, romCount, ramCount int, logger *log.Logger) *Memory {
	if logger == nil {
		logger = log.Default()
	}
	m := &Memory{model: model, logger: logger}
	m.roms = make([]*page, romCount)
	for i := range m.roms {
		m.roms[i] = &page{rom: true}
	}
	m.rams = make([]*page, ramCount)
	for i := range m.rams {
		m.rams[i] = &page{}
	}
	return m
}

// New48K builds the fixed 16K ROM + 48K RAM layout of the original
// Spectrum and the 48K-compatible models.
func New48K() *Memory {
	m := newMemory(Model48K, 1, 3, nil)
	m.slots[0] = m.roms[0]
	m.slots[1] = m.rams[0]
	m.slots[2] = m.rams[1]
	m.slots[3] = m.rams[2]
	return m
}

// New128K builds the 2 ROM / 8 RAM page layout of the 128K/+2 models,
// with slot 3 switchable via the 0x7FFD paging port.
func New128K() *Memory {
	m := newMemory(Model128K, 2, 8, nil)
	m.slots[0] = m.roms[0]
	m.slots[1] = m.rams[5]
	m.slots[2] = m.rams[2]
	m.slots[3] = m.rams[0]
	return m
}

// NewPlus3 builds the 4 ROM / 8 RAM layout of the +2A/+3 models, adding
// the "special paging" all-RAM configurations selected via 0x1FFD.
func NewPlus3() *Memory {
	m := newMemory(ModelPlus3, 4, 8, nil)
	m.slots[0] = m.roms[0]
	m.slots[1] = m.rams[5]
	m.slots[2] = m.rams[2]
	m.slots[3] = m.rams[0]
	return m
}

// NewFlatRAM builds a four-page, all-RAM address space with no ROM
// protection anywhere: the layout a CPU test harness needs, since a
// real machine's ROM-locked bottom 16K would reject the arbitrary seed
// writes a battery case makes before every run.
func NewFlatRAM() *Memory {
	m := newMemory(Model48K, 0, 4, nil)
	for i, p := range m.rams {
		m.slots[i] = p
	}
	return m
}

// Model reports which machine layout this address space implements.
func (m *Memory) Model() Model { return m.model }

func (m *Memory) contend(addr uint16, cycles int) {
	if m.ContendFunc != nil {
		m.ContendFunc(addr, cycles)
	}
}

// Contend exposes the contention hook directly, for callers (such as the
// executor) that want to charge a contention opportunity without also
// performing an access.
func (m *Memory) Contend(addr uint16, cycles int) { m.contend(addr, cycles) }

func (m *Memory) slotFor(addr uint16) *page {
	return m.slots[addr>>14]
}

// ReadByte returns the byte visible at addr through the current paging.
func (m *Memory) ReadByte(addr uint16) byte {
	p := m.slotFor(addr)
	return p.data[addr&(pageSize-1)]
}

// WriteByte stores value at addr, silently discarding writes that land
// on a ROM page.
func (m *Memory) WriteByte(addr uint16, value byte) {
	p := m.slotFor(addr)
	if p.rom {
		return
	}
	p.data[addr&(pageSize-1)] = value
}

// ReadWord reads a little-endian word at addr, wrapping at the top of
// the 64 KiB address space.
func (m *Memory) ReadWord(addr uint16) uint16 {
	lo := m.ReadByte(addr)
	hi := m.ReadByte(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// WriteWord stores value little-endian at addr, wrapping at the top of
// the 64 KiB address space.
func (m *Memory) WriteWord(addr uint16, value uint16) {
	m.WriteByte(addr, byte(value))
	m.WriteByte(addr+1, byte(value>>8))
}

// PageInROM switches slot 0 to the given ROM page. An out-of-range index
// is logged and otherwise ignored.
func (m *Memory) PageInROM(index int) {
	if index < 0 || index >= len(m.roms) {
		m.logger.Printf("memory: page_in_rom: index %d out of range (have %d ROM pages)", index, len(m.roms))
		return
	}
	m.romIndex = index
	if !m.special {
		m.slots[0] = m.roms[index]
	}
}

// PageInRAM switches the given slot (0-3) to the given RAM page. An
// out-of-range slot or page index is logged and otherwise ignored.
func (m *Memory) PageInRAM(slot int, index int) {
	if slot < 0 || slot > 3 {
		m.logger.Printf("memory: page_in_ram: slot %d out of range", slot)
		return
	}
	if index < 0 || index >= len(m.rams) {
		m.logger.Printf("memory: page_in_ram: index %d out of range (have %d RAM pages)", index, len(m.rams))
		return
	}
	if slot == 3 {
		m.ramBank = index
	}
	if !m.special {
		m.slots[slot] = m.rams[index]
	}
}

// SetSpecialPaging engages or disengages the +2A/+3 all-RAM paging mode.
// While engaged, config selects one of the four page layouts in
// plus3Configs, and PageInROM and PageInRAM(3, ...) only record the ROM
// index and slot-3 bank. Disengaging restores ROM[romIndex], RAM 5,
// RAM 2 and RAM[ramBank]; a PageInRAM for slots 0-2 made while engaged
// is not kept.
func (m *Memory) SetSpecialPaging(enabled bool, config int) {
	m.special = enabled
	if !enabled {
		m.slots[0] = m.roms[m.romIndex]
		m.slots[1] = m.rams[5]
		m.slots[2] = m.rams[2]
		m.slots[3] = m.rams[m.ramBank]
		return
	}
	if config < 0 || config >= len(plus3Configs) {
		m.logger.Printf("memory: set_special_paging: config %d out of range", config)
		return
	}
	m.specialConfig = config
	pages := plus3Configs[config]
	for slot, ramIndex := range pages {
		m.slots[slot] = m.rams[ramIndex]
	}
}

// Clone returns a deep copy of the address space, including its current
// paging state. ContendFunc is not copied: a clone starts with no
// contention hook installed.
func (m *Memory) Clone() *Memory {
	clone := &Memory{
		model:         m.model,
		romIndex:      m.romIndex,
		ramBank:       m.ramBank,
		special:       m.special,
		specialConfig: m.specialConfig,
		logger:        m.logger,
	}
	clone.roms = make([]*page, len(m.roms))
	for i, p := range m.roms {
		cp := *p
		clone.roms[i] = &cp
	}
	clone.rams = make([]*page, len(m.rams))
	for i, p := range m.rams {
		cp := *p
		clone.rams[i] = &cp
	}
	for slot, p := range m.slots {
		for i, orig := range m.roms {
			if orig == p {
				clone.slots[slot] = clone.roms[i]
			}
		}
		for i, orig := range m.rams {
			if orig == p {
				clone.slots[slot] = clone.rams[i]
			}
		}
	}
	return clone
}

// LoadROM copies data into the given ROM page, truncating or zero-padding
// to the page size.
func (m *Memory) LoadROM(index int, data []byte) {
	if index < 0 || index >= len(m.roms) {
		m.logger.Printf("memory: load_rom: index %d out of range", index)
		return
	}
	n := copy(m.roms[index].data[:], data)
	for i := n; i < pageSize; i++ {
		m.roms[index].data[i] = 0
	}
}
