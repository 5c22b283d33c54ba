package disasm

import "testing"

func TestInstructionBaseOpcodes(t *testing.T) {
	cases := []struct {
		data []byte
		size int
		text string
	}{
		{[]byte{0x00}, 1, "NOP"},
		{[]byte{0x76}, 1, "HALT"},
		{[]byte{0x3E, 0x12}, 2, "LD A, $12"},
		{[]byte{0xC6, 0x34}, 2, "ADD A, $34"},
		{[]byte{0x21, 0x00, 0x40}, 3, "LD HL, $4000"},
		{[]byte{0xC3, 0x00, 0x80}, 3, "JP $8000"},
		{[]byte{0x18, 0x02}, 2, "JR $0004"},
		{[]byte{0x41}, 1, "LD B, C"},
		{[]byte{0xB8}, 1, "CP B"},
	}
	for _, c := range cases {
		size, text := Instruction(NewSliceReader(c.data), 0)
		if size != c.size || text != c.text {
			t.Fatalf("Instruction(%X) = (%d, %q), want (%d, %q)", c.data, size, text, c.size, c.text)
		}
	}
}

func TestInstructionCBOpcodes(t *testing.T) {
	size, text := Instruction(NewSliceReader([]byte{0xCB, 0x7E}), 0)
	if size != 2 || text != "BIT 7, (HL)" {
		t.Fatalf("got (%d, %q), want (2, %q)", size, text, "BIT 7, (HL)")
	}

	size, text = Instruction(NewSliceReader([]byte{0xCB, 0x06}), 0)
	if size != 2 || text != "RLC (HL)" {
		t.Fatalf("got (%d, %q), want (2, %q)", size, text, "RLC (HL)")
	}
}

func TestInstructionEDOpcodes(t *testing.T) {
	size, text := Instruction(NewSliceReader([]byte{0xED, 0xB0}), 0)
	if size != 2 || text != "LDIR" {
		t.Fatalf("got (%d, %q), want (2, LDIR)", size, text)
	}

	size, text = Instruction(NewSliceReader([]byte{0xED, 0x5E}), 0)
	if size != 2 || text != "IM 2" {
		t.Fatalf("got (%d, %q), want (2, IM 2)", size, text)
	}
}

func TestInstructionIndexedPrefix(t *testing.T) {
	size, text := Instruction(NewSliceReader([]byte{0xDD, 0x21, 0x00, 0x40}), 0)
	if size != 4 || text != "LD IX, $4000" {
		t.Fatalf("got (%d, %q), want (4, LD IX, $4000)", size, text)
	}

	size, text = Instruction(NewSliceReader([]byte{0xFD, 0x34, 0x05}), 0)
	if size != 3 || text != "INC (IY+5)" {
		t.Fatalf("got (%d, %q), want (3, INC (IY+5))", size, text)
	}
}

func TestInstructionIndexedCB(t *testing.T) {
	size, text := Instruction(NewSliceReader([]byte{0xDD, 0xCB, 0x01, 0x06}), 0)
	if size != 4 || text != "RLC (IX+1)" {
		t.Fatalf("got (%d, %q), want (4, RLC (IX+1))", size, text)
	}

	size, text = Instruction(NewSliceReader([]byte{0xFD, 0xCB, 0xFE, 0x46}), 0)
	if size != 4 || text != "BIT 0, (IY-2)" {
		t.Fatalf("got (%d, %q), want (4, BIT 0, (IY-2))", size, text)
	}
}

func TestListingAdvancesPastEachInstruction(t *testing.T) {
	program := []byte{0x00, 0x3E, 0x12, 0xC3, 0x00, 0x80}
	lines := Listing(NewSliceReader(program), 0, 3)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	if lines[0].Address != 0 || lines[0].Mnemonic != "NOP" {
		t.Fatalf("lines[0] = %+v", lines[0])
	}
	if lines[1].Address != 1 || lines[1].Mnemonic != "LD A, $12" {
		t.Fatalf("lines[1] = %+v", lines[1])
	}
	if lines[2].Address != 3 || lines[2].Mnemonic != "JP $8000" {
		t.Fatalf("lines[2] = %+v", lines[2])
	}
}
