package z80

import "testing"

func TestED16BitSbcAdc(t *testing.T) {
	r := newRig()
	r.load(0x0000, []byte{
		0xED, 0x42, // SBC HL,BC
		0xED, 0x4A, // ADC HL,BC
	})
	r.cpu.SetHL(0x0000)
	r.cpu.SetBC(0x0001)
	r.cpu.F = FlagC

	r.cpu.Step() // SBC HL,BC with carry: 0 - 1 - 1 = 0xFFFE
	requireEqualU16(t, "HL", r.cpu.HL(), 0xFFFE)
	if r.cpu.F&FlagN == 0 {
		t.Fatalf("SBC HL,rr should set N")
	}
	if r.cpu.F&FlagS == 0 {
		t.Fatalf("result is negative, S should be set")
	}
	if r.cpu.Cycles != 15 {
		t.Fatalf("Cycles = %d, want 15", r.cpu.Cycles)
	}

	r.cpu.F &^= FlagC
	r.cpu.Step() // ADC HL,BC: 0xFFFE + 1 = 0xFFFF
	requireEqualU16(t, "HL", r.cpu.HL(), 0xFFFF)
}

func TestEDLoadWordMemory(t *testing.T) {
	r := newRig()
	r.load(0x0000, []byte{
		0xED, 0x43, 0x00, 0x20, // LD (0x2000),BC
		0xED, 0x5B, 0x00, 0x20, // LD DE,(0x2000)
	})
	r.cpu.SetBC(0xABCD)

	r.cpu.Step()
	requireEqualU8(t, "mem[0x2000]", r.bus.mem[0x2000], 0xCD)
	requireEqualU8(t, "mem[0x2001]", r.bus.mem[0x2001], 0xAB)
	if r.cpu.WZ != 0x2001 {
		t.Fatalf("WZ = 0x%04X, want 0x2001", r.cpu.WZ)
	}

	r.cpu.Step()
	requireEqualU16(t, "DE", r.cpu.DE(), 0xABCD)
	if r.cpu.Cycles != 40 {
		t.Fatalf("Cycles = %d, want 40", r.cpu.Cycles)
	}
}

func TestEDLDIR(t *testing.T) {
	r := newRig()
	r.load(0x0000, []byte{0xED, 0xB0}) // LDIR
	r.cpu.SetHL(0x2000)
	r.cpu.SetDE(0x3000)
	r.cpu.SetBC(0x0003)
	r.bus.mem[0x2000] = 0x11
	r.bus.mem[0x2001] = 0x22
	r.bus.mem[0x2002] = 0x33

	// LDIR re-executes itself (PC -= 2) until BC == 0, so loop Step calls.
	for r.cpu.BC() != 0 {
		r.cpu.Step()
	}

	requireEqualU8(t, "mem[0x3000]", r.bus.mem[0x3000], 0x11)
	requireEqualU8(t, "mem[0x3001]", r.bus.mem[0x3001], 0x22)
	requireEqualU8(t, "mem[0x3002]", r.bus.mem[0x3002], 0x33)
	requireEqualU16(t, "HL", r.cpu.HL(), 0x2003)
	requireEqualU16(t, "DE", r.cpu.DE(), 0x3003)
	requireEqualU16(t, "BC", r.cpu.BC(), 0x0000)
	if r.cpu.F&FlagPV != 0 {
		t.Fatalf("LDIR terminating with BC=0 should clear P/V")
	}
	if r.cpu.PC != 0x0002 {
		t.Fatalf("PC = 0x%04X, want 0x0002 once LDIR has fully terminated", r.cpu.PC)
	}
}

func TestEDCPIRStopsOnMatch(t *testing.T) {
	r := newRig()
	r.load(0x0000, []byte{0xED, 0xB1}) // CPIR
	r.cpu.SetHL(0x2000)
	r.cpu.SetBC(0x0003)
	r.cpu.A = 0x55
	r.bus.mem[0x2000] = 0x11
	r.bus.mem[0x2001] = 0x55
	r.bus.mem[0x2002] = 0x22

	for {
		r.cpu.Step()
		if r.cpu.Flag(FlagZ) || r.cpu.BC() == 0 {
			break
		}
	}

	if !r.cpu.Flag(FlagZ) {
		t.Fatalf("CPIR should have stopped on the matching byte at 0x2001")
	}
	requireEqualU16(t, "HL", r.cpu.HL(), 0x2002)
	requireEqualU16(t, "BC", r.cpu.BC(), 0x0001)
}

func TestEDBlockIO(t *testing.T) {
	r := newRig()
	r.load(0x0000, []byte{0xED, 0xA2}) // INI
	r.cpu.SetBC(0x0105)                // B=0x01, C=0x05
	r.cpu.SetHL(0x4000)
	r.bus.io[0x0105] = 0x42

	r.cpu.Step()

	requireEqualU8(t, "mem[0x4000]", r.bus.mem[0x4000], 0x42)
	requireEqualU8(t, "B", r.cpu.B, 0x00)
	if !r.cpu.Flag(FlagZ) {
		t.Fatalf("INI decrementing B to 0 should set Z")
	}
	requireEqualU16(t, "HL", r.cpu.HL(), 0x4001)
}

func TestEDRRD(t *testing.T) {
	r := newRig()
	r.load(0x0000, []byte{0xED, 0x67}) // RRD
	r.cpu.SetHL(0x2000)
	r.cpu.A = 0x84
	r.bus.mem[0x2000] = 0x20

	r.cpu.Step()

	requireEqualU8(t, "A", r.cpu.A, 0x80)
	requireEqualU8(t, "mem[0x2000]", r.bus.mem[0x2000], 0x42)
	if r.cpu.Cycles != 18 {
		t.Fatalf("Cycles = %d, want 18", r.cpu.Cycles)
	}
}

func TestEDSetIM(t *testing.T) {
	r := newRig()
	r.load(0x0000, []byte{
		0xED, 0x56, // IM 1
		0xED, 0x5E, // IM 2
		0xED, 0x46, // IM 0
	})

	r.cpu.Step()
	if r.cpu.IM != IM1 {
		t.Fatalf("IM = %d, want 1", r.cpu.IM)
	}
	r.cpu.Step()
	if r.cpu.IM != IM2 {
		t.Fatalf("IM = %d, want 2", r.cpu.IM)
	}
	r.cpu.Step()
	if r.cpu.IM != IM0 {
		t.Fatalf("IM = %d, want 0", r.cpu.IM)
	}
}

// TestEDUnassignedOpcodesAreNOP checks the documented behaviour of ED
// opcodes with no defined effect: an 8 T-state NOP that still bumps R.
func TestEDUnassignedOpcodesAreNOP(t *testing.T) {
	r := newRig()
	r.load(0x0000, []byte{0xED, 0x00}) // unassigned
	r.cpu.A, r.cpu.B, r.cpu.SP = 0x11, 0x22, 0x8000
	startR := r.cpu.R

	r.cpu.Step()

	requireEqualU8(t, "A", r.cpu.A, 0x11)
	requireEqualU8(t, "B", r.cpu.B, 0x22)
	if r.cpu.Cycles != 8 {
		t.Fatalf("Cycles = %d, want 8", r.cpu.Cycles)
	}
	// fetchOpcode runs twice (0xED prefix, then 0x00 sub-opcode), so R
	// advances by 2 across the pair.
	want := (startR & 0x80) | ((startR + 2) & 0x7F)
	if r.cpu.R != want {
		t.Fatalf("R = 0x%02X, want 0x%02X", r.cpu.R, want)
	}
}
