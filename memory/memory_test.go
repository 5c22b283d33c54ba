package memory

import "testing"

func TestNew48KLayout(t *testing.T) {
	m := New48K()

	m.WriteByte(0x0000, 0xAA) // ROM slot: write must be discarded
	if got := m.ReadByte(0x0000); got != 0 {
		t.Fatalf("ReadByte(0x0000) = 0x%02X, want 0x00 (ROM write discarded)", got)
	}

	m.WriteByte(0x8000, 0x42)
	if got := m.ReadByte(0x8000); got != 0x42 {
		t.Fatalf("ReadByte(0x8000) = 0x%02X, want 0x42", got)
	}
}

func TestReadWriteWordWraps(t *testing.T) {
	m := NewFlatRAM()

	m.WriteWord(0xFFFF, 0xABCD)
	if got := m.ReadByte(0xFFFF); got != 0xCD {
		t.Fatalf("low byte at 0xFFFF = 0x%02X, want 0xCD", got)
	}
	if got := m.ReadByte(0x0000); got != 0xAB {
		t.Fatalf("high byte wrapped to 0x0000 = 0x%02X, want 0xAB", got)
	}
	if got := m.ReadWord(0xFFFF); got != 0xABCD {
		t.Fatalf("ReadWord(0xFFFF) = 0x%04X, want 0xABCD", got)
	}
}

func TestPageInRAMSwitchesSlot3(t *testing.T) {
	m := New128K()

	m.WriteByte(0xC000, 0x11)
	m.PageInRAM(3, 3)
	m.WriteByte(0xC000, 0x22)
	m.PageInRAM(3, 0)

	if got := m.ReadByte(0xC000); got != 0x11 {
		t.Fatalf("bank 0 byte = 0x%02X, want 0x11 (banks are independent storage)", got)
	}
}

func TestPageInROMOutOfRangeIsIgnored(t *testing.T) {
	m := New48K()

	m.PageInROM(5) // only one ROM page exists

	if got := m.ReadByte(0x0000); got != 0 {
		t.Fatalf("ReadByte(0x0000) = 0x%02X after an ignored out-of-range page-in", got)
	}
}

func TestSpecialPagingAllRAMConfig(t *testing.T) {
	m := NewPlus3()

	m.SetSpecialPaging(true, 1) // config {4,5,6,7}: slot 0 becomes RAM
	m.WriteByte(0x0000, 0x99)
	if got := m.ReadByte(0x0000); got != 0x99 {
		t.Fatalf("slot 0 should be writable RAM under special paging config 1, got 0x%02X", got)
	}

	m.SetSpecialPaging(false, 0)
	m.WriteByte(0x0000, 0x55)
	if got := m.ReadByte(0x0000); got != 0 {
		t.Fatalf("slot 0 should be ROM-protected again once special paging is disengaged, got 0x%02X", got)
	}
}

func TestContendFuncInvokedOnAccess(t *testing.T) {
	m := NewFlatRAM()
	var gotAddr uint16
	var gotCycles int
	m.ContendFunc = func(addr uint16, cycles int) {
		gotAddr, gotCycles = addr, cycles
	}

	m.Contend(0x4000, 3)

	if gotAddr != 0x4000 || gotCycles != 3 {
		t.Fatalf("contend hook saw (0x%04X, %d), want (0x4000, 3)", gotAddr, gotCycles)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := New48K()
	m.WriteByte(0x8000, 0x11)

	clone := m.Clone()
	clone.WriteByte(0x8000, 0x22)

	if got := m.ReadByte(0x8000); got != 0x11 {
		t.Fatalf("original mutated via clone: got 0x%02X, want 0x11", got)
	}
	if got := clone.ReadByte(0x8000); got != 0x22 {
		t.Fatalf("clone = 0x%02X, want 0x22", got)
	}
}

func TestLoadROMZeroPads(t *testing.T) {
	m := New48K()

	m.LoadROM(0, []byte{0x01, 0x02, 0x03})

	if got := m.ReadByte(0x0000); got != 0x01 {
		t.Fatalf("ReadByte(0x0000) = 0x%02X, want 0x01", got)
	}
	if got := m.ReadByte(0x0003); got != 0 {
		t.Fatalf("ReadByte(0x0003) = 0x%02X, want 0x00 (zero-padded)", got)
	}
}
