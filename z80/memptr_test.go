package z80

import "testing"

// TestLDAIndNNSetsMEMPTR is end-to-end scenario 4.
func TestLDAIndNNSetsMEMPTR(t *testing.T) {
	r := newRig()
	r.load(0x0000, []byte{0x3A, 0x00, 0x40}) // LD A,(0x4000)
	r.bus.mem[0x4000] = 0xAA
	r.cpu.WZ = 0

	r.cpu.Step()

	requireEqualU8(t, "A", r.cpu.A, 0xAA)
	if r.cpu.WZ != 0x4001 {
		t.Fatalf("WZ = 0x%04X, want 0x4001", r.cpu.WZ)
	}
	if r.cpu.Cycles != 13 {
		t.Fatalf("Cycles = %d, want 13", r.cpu.Cycles)
	}
}

func TestLDIndNNASetsMEMPTRFromAAndLowByte(t *testing.T) {
	r := newRig()
	r.load(0x0000, []byte{0x32, 0xFF, 0x40}) // LD (0x40FF),A
	r.cpu.A = 0x12

	r.cpu.Step()

	// WZ's high byte is A itself, low byte is (nn+1)'s low byte: a
	// well-known Z80 quirk of this particular addressing form.
	if r.cpu.WZ != 0x1200 {
		t.Fatalf("WZ = 0x%04X, want 0x1200", r.cpu.WZ)
	}
}

func TestJPNNSetsMEMPTR(t *testing.T) {
	r := newRig()
	r.load(0x0000, []byte{0xC3, 0x00, 0x50}) // JP 0x5000

	r.cpu.Step()

	requireEqualU16(t, "PC", r.cpu.PC, 0x5000)
	if r.cpu.WZ != 0x5000 {
		t.Fatalf("WZ = 0x%04X, want 0x5000", r.cpu.WZ)
	}
}

func TestAddHL16SetsMEMPTRToDestPlusOne(t *testing.T) {
	r := newRig()
	r.load(0x0000, []byte{0x09}) // ADD HL,BC
	r.cpu.SetHL(0x1000)
	r.cpu.SetBC(0x0001)

	r.cpu.Step()

	if r.cpu.WZ != 0x1001 {
		t.Fatalf("WZ = 0x%04X, want 0x1001 (HL before the add, plus one)", r.cpu.WZ)
	}
}
