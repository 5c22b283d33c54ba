package z80

func (c *CPU) initEDOps() {
	for i := range c.edOps {
		c.edOps[i] = (*CPU).opEDUnimplemented
	}

	regPairs := []struct {
		op   byte
		get  func(*CPU) uint16
		set  func(*CPU, uint16)
		name byte
	}{
		{0x40, (*CPU).BC, (*CPU).SetBC, 0},
		{0x50, (*CPU).DE, (*CPU).SetDE, 1},
		{0x60, (*CPU).HL, (*CPU).SetHL, 2},
		{0x70, func(cpu *CPU) uint16 { return cpu.SP }, func(cpu *CPU, v uint16) { cpu.SP = v }, 3},
	}
	for _, rp := range regPairs {
		rp := rp
		c.edOps[rp.op+0x02] = func(cpu *CPU) { cpu.tick(15); cpu.SetHL(cpu.sbcHL16(cpu.HL(), rp.get(cpu))) }
		c.edOps[rp.op+0x0A] = func(cpu *CPU) { cpu.tick(15); cpu.SetHL(cpu.adcHL16(cpu.HL(), rp.get(cpu))) }
		c.edOps[rp.op+0x03] = func(cpu *CPU) {
			nn := cpu.fetchWord()
			cpu.writeWord(nn, rp.get(cpu))
			cpu.WZ = nn + 1
			cpu.tick(20)
		}
		c.edOps[rp.op+0x0B] = func(cpu *CPU) {
			nn := cpu.fetchWord()
			rp.set(cpu, cpu.readWord(nn))
			cpu.WZ = nn + 1
			cpu.tick(20)
		}
	}

	for _, op := range []byte{0x40, 0x48, 0x50, 0x58, 0x60, 0x68, 0x78} {
		op := op
		reg := (op - 0x40) / 8
		c.edOps[op] = func(cpu *CPU) {
			v := cpu.in(cpu.BC())
			cpu.WZ = cpu.BC() + 1
			cpu.writeReg8(reg, v)
			cpu.setInFlags(v)
			cpu.tick(12)
		}
		c.edOps[op+1] = func(cpu *CPU) {
			cpu.out(cpu.BC(), cpu.readReg8(reg))
			cpu.WZ = cpu.BC() + 1
			cpu.tick(12)
		}
	}
	// Undocumented IN F,(C) / OUT (C),0.
	c.edOps[0x70] = func(cpu *CPU) {
		v := cpu.in(cpu.BC())
		cpu.WZ = cpu.BC() + 1
		cpu.setInFlags(v)
		cpu.tick(12)
	}
	c.edOps[0x71] = func(cpu *CPU) {
		cpu.out(cpu.BC(), 0)
		cpu.WZ = cpu.BC() + 1
		cpu.tick(12)
	}

	for _, op := range []byte{0x44, 0x4C, 0x54, 0x5C, 0x64, 0x6C, 0x74, 0x7C} {
		c.edOps[op] = (*CPU).opNEG
	}
	for _, op := range []byte{0x45, 0x4D, 0x55, 0x5D, 0x65, 0x6D, 0x75, 0x7D} {
		op := op
		c.edOps[op] = func(cpu *CPU) { cpu.opRETNI(op == 0x4D) }
	}
	imModes := map[byte]byte{0x46: 0, 0x4E: 0, 0x56: 1, 0x5E: 2, 0x66: 0, 0x6E: 0, 0x76: 1, 0x7E: 2}
	for op, mode := range imModes {
		mode := mode
		c.edOps[op] = func(cpu *CPU) { cpu.IM = mode; cpu.tick(8) }
	}
	for _, op := range []byte{0x77, 0x7F} {
		c.edOps[op] = (*CPU).opEDUnimplemented
	}

	c.edOps[0x47] = func(cpu *CPU) { cpu.I = cpu.A; cpu.tick(9) }
	c.edOps[0x4F] = func(cpu *CPU) { cpu.R = cpu.A; cpu.tick(9) }
	c.edOps[0x57] = func(cpu *CPU) { cpu.ldAFromSpecial(cpu.I); cpu.tick(9) }
	c.edOps[0x5F] = func(cpu *CPU) { cpu.ldAFromSpecial(cpu.R); cpu.tick(9) }
	c.edOps[0x67] = (*CPU).opRRD
	c.edOps[0x6F] = (*CPU).opRLD

	c.edOps[0xA0] = func(cpu *CPU) { cpu.blockTransfer(1, false) }
	c.edOps[0xA8] = func(cpu *CPU) { cpu.blockTransfer(-1, false) }
	c.edOps[0xB0] = func(cpu *CPU) { cpu.blockTransfer(1, true) }
	c.edOps[0xB8] = func(cpu *CPU) { cpu.blockTransfer(-1, true) }

	c.edOps[0xA1] = func(cpu *CPU) { cpu.blockCompare(1, false) }
	c.edOps[0xA9] = func(cpu *CPU) { cpu.blockCompare(-1, false) }
	c.edOps[0xB1] = func(cpu *CPU) { cpu.blockCompare(1, true) }
	c.edOps[0xB9] = func(cpu *CPU) { cpu.blockCompare(-1, true) }

	c.edOps[0xA2] = func(cpu *CPU) { cpu.blockIn(1, false) }
	c.edOps[0xAA] = func(cpu *CPU) { cpu.blockIn(-1, false) }
	c.edOps[0xB2] = func(cpu *CPU) { cpu.blockIn(1, true) }
	c.edOps[0xBA] = func(cpu *CPU) { cpu.blockIn(-1, true) }

	c.edOps[0xA3] = func(cpu *CPU) { cpu.blockOut(1, false) }
	c.edOps[0xAB] = func(cpu *CPU) { cpu.blockOut(-1, false) }
	c.edOps[0xB3] = func(cpu *CPU) { cpu.blockOut(1, true) }
	c.edOps[0xBB] = func(cpu *CPU) { cpu.blockOut(-1, true) }
}

// dispatchED handles the 0xED prefix, assigned to baseOps[0xED].
func (c *CPU) dispatchED() {
	op := c.fetchOpcode()
	c.edOps[op](c)
}

// opEDUnimplemented covers every ED opcode with no defined effect: the
// documented behaviour is an 8 T-state NOP.
func (c *CPU) opEDUnimplemented() { c.tick(8) }

func (c *CPU) opNEG() {
	v := c.A
	c.A = 0
	c.subA(v, false)
	c.tick(8)
}

func (c *CPU) opRETNI(isReti bool) {
	c.WZ = c.pop()
	c.PC = c.WZ
	if !isReti {
		c.IFF1 = c.IFF2
	}
	c.tick(14)
}

func (c *CPU) ldAFromSpecial(value byte) {
	c.A = value
	f := c.szFlags(value) &^ FlagPV
	if c.IFF2 {
		f |= FlagPV
	}
	f |= c.F & FlagC
	c.F = f
}

func (c *CPU) setInFlags(value byte) {
	f := c.szFlags(value)
	if parity(value) {
		f |= FlagPV
	}
	f |= c.F & FlagC
	c.F = f
}

func (c *CPU) opRRD() {
	addr := c.HL()
	m := c.readByte(addr)
	a := c.A
	c.A = (a & 0xF0) | (m & 0x0F)
	c.writeByte(addr, (m>>4)|(a<<4))
	c.WZ = addr + 1
	f := c.szFlags(c.A)
	if parity(c.A) {
		f |= FlagPV
	}
	f |= c.F & FlagC
	c.F = f
	c.tick(18)
}

func (c *CPU) opRLD() {
	addr := c.HL()
	m := c.readByte(addr)
	a := c.A
	c.A = (a & 0xF0) | (m >> 4)
	c.writeByte(addr, (m<<4)|(a&0x0F))
	c.WZ = addr + 1
	f := c.szFlags(c.A)
	if parity(c.A) {
		f |= FlagPV
	}
	f |= c.F & FlagC
	c.F = f
	c.tick(18)
}

// blockTransfer implements LDI/LDD (step=+1/-1) and, when repeat is
// true, LDIR/LDDR.
func (c *CPU) blockTransfer(step int, repeat bool) {
	hl, de, bc := c.HL(), c.DE(), c.BC()
	v := c.readByte(hl)
	c.writeByte(de, v)
	hl = uint16(int32(hl) + int32(step))
	de = uint16(int32(de) + int32(step))
	bc--
	c.SetHL(hl)
	c.SetDE(de)
	c.SetBC(bc)
	c.tick(16)

	c.blockLoadFlags(v, bc != 0)

	if repeat && bc != 0 {
		c.tick(5)
		c.PC -= 2
		c.WZ = c.PC + 1
	}
}

// blockCompare implements CPI/CPD (step=+1/-1) and, when repeat is true,
// CPIR/CPDR.
func (c *CPU) blockCompare(step int, repeat bool) {
	hl, bc := c.HL(), c.BC()
	v := c.readByte(hl)
	hl = uint16(int32(hl) + int32(step))
	bc--
	c.SetHL(hl)
	c.SetBC(bc)
	c.tick(16)

	c.blockCompareFlags(v, bc != 0)
	if step > 0 {
		c.WZ++
	} else {
		c.WZ--
	}

	if repeat && bc != 0 && !c.Flag(FlagZ) {
		c.tick(5)
		c.PC -= 2
		c.WZ = c.PC + 1
	}
}

// blockIn implements INI/IND (step=+1/-1) and, when repeat is true,
// INIR/INDR.
func (c *CPU) blockIn(step int, repeat bool) {
	bc := c.BC()
	v := c.in(bc)
	hl := c.HL()
	c.writeByte(hl, v)
	hl = uint16(int32(hl) + int32(step))
	c.SetHL(hl)
	c.B--
	c.tick(16)

	if step > 0 {
		c.WZ = c.BC() + 1
	} else {
		c.WZ = c.BC() - 1
	}
	c.blockIOFlags(v, c.B, byte(bc)+byte(step))

	if repeat && c.B != 0 {
		c.tick(5)
		c.PC -= 2
	}
}

// blockOut implements OUTI/OUTD (step=+1/-1) and, when repeat is true,
// OTIR/OTDR.
func (c *CPU) blockOut(step int, repeat bool) {
	hl := c.HL()
	v := c.readByte(hl)
	hl = uint16(int32(hl) + int32(step))
	c.SetHL(hl)
	c.B--
	c.out(c.BC(), v)
	c.tick(16)

	if step > 0 {
		c.WZ = c.BC() + 1
	} else {
		c.WZ = c.BC() - 1
	}
	c.blockIOFlags(v, c.B, c.L)

	if repeat && c.B != 0 {
		c.tick(5)
		c.PC -= 2
	}
}
