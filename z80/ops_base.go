package z80

// aluOp names the eight accumulator operations sharing one dispatch
// table slot (ADD/ADC/SUB/SBC/AND/XOR/OR/CP A,<operand>).
type aluOp byte

const (
	aluADD aluOp = iota
	aluADC
	aluSUB
	aluSBC
	aluAND
	aluXOR
	aluOR
	aluCP
)

func (c *CPU) applyALU(op aluOp, value byte) {
	switch op {
	case aluADD:
		c.addA(value, false)
	case aluADC:
		c.addA(value, c.Flag(FlagC))
	case aluSUB:
		c.subA(value, false)
	case aluSBC:
		c.subA(value, c.Flag(FlagC))
	case aluAND:
		c.andA(value)
	case aluXOR:
		c.xorA(value)
	case aluOR:
		c.orA(value)
	case aluCP:
		c.cpA(value)
	}
}

func (c *CPU) initBaseOps() {
	for i := range c.baseOps {
		c.baseOps[i] = (*CPU).opUnimplemented
	}

	c.baseOps[0x00] = (*CPU).opNOP
	c.baseOps[0x02] = (*CPU).opLDBCIndA
	c.baseOps[0x03] = func(cpu *CPU) { cpu.tick(6); cpu.SetBC(cpu.BC() + 1) }
	c.baseOps[0x07] = (*CPU).opRLCA
	c.baseOps[0x08] = (*CPU).opEXAFAF2
	c.baseOps[0x09] = func(cpu *CPU) { cpu.tick(11); cpu.setIndexReg(cpu.adcOrAddHL(cpu.BC(), false)) }
	c.baseOps[0x0A] = (*CPU).opLDAIndBC
	c.baseOps[0x0B] = func(cpu *CPU) { cpu.tick(6); cpu.SetBC(cpu.BC() - 1) }
	c.baseOps[0x0F] = (*CPU).opRRCA

	c.baseOps[0x10] = (*CPU).opDJNZ
	c.baseOps[0x12] = (*CPU).opLDDEIndA
	c.baseOps[0x13] = func(cpu *CPU) { cpu.tick(6); cpu.SetDE(cpu.DE() + 1) }
	c.baseOps[0x17] = (*CPU).opRLA
	c.baseOps[0x18] = (*CPU).opJR
	c.baseOps[0x19] = func(cpu *CPU) { cpu.tick(11); cpu.setIndexReg(cpu.adcOrAddHL(cpu.DE(), false)) }
	c.baseOps[0x1A] = (*CPU).opLDAIndDE
	c.baseOps[0x1B] = func(cpu *CPU) { cpu.tick(6); cpu.SetDE(cpu.DE() - 1) }
	c.baseOps[0x1F] = (*CPU).opRRA

	c.baseOps[0x20] = func(cpu *CPU) { cpu.opJRCond(!cpu.Flag(FlagZ)) }
	c.baseOps[0x22] = (*CPU).opLDIndNNHL
	c.baseOps[0x23] = func(cpu *CPU) { cpu.tick(6); cpu.setIndexReg(cpu.indexReg() + 1) }
	c.baseOps[0x27] = (*CPU).opDAA
	c.baseOps[0x28] = func(cpu *CPU) { cpu.opJRCond(cpu.Flag(FlagZ)) }
	c.baseOps[0x29] = func(cpu *CPU) { cpu.tick(11); cpu.setIndexReg(cpu.adcOrAddHL(cpu.indexReg(), false)) }
	c.baseOps[0x2A] = (*CPU).opLDHLIndNN
	c.baseOps[0x2B] = func(cpu *CPU) { cpu.tick(6); cpu.setIndexReg(cpu.indexReg() - 1) }
	c.baseOps[0x2F] = (*CPU).opCPL

	c.baseOps[0x30] = func(cpu *CPU) { cpu.opJRCond(!cpu.Flag(FlagC)) }
	c.baseOps[0x32] = (*CPU).opLDIndNNA
	c.baseOps[0x33] = func(cpu *CPU) { cpu.tick(6); cpu.SP++ }
	c.baseOps[0x34] = (*CPU).opINCIndexed
	c.baseOps[0x35] = (*CPU).opDECIndexed
	c.baseOps[0x36] = (*CPU).opLDIndexedImm
	c.baseOps[0x37] = (*CPU).opSCF
	c.baseOps[0x38] = func(cpu *CPU) { cpu.opJRCond(cpu.Flag(FlagC)) }
	c.baseOps[0x39] = func(cpu *CPU) { cpu.tick(11); cpu.setIndexReg(cpu.adcOrAddHL(cpu.SP, false)) }
	c.baseOps[0x3A] = (*CPU).opLDAIndNN
	c.baseOps[0x3B] = func(cpu *CPU) { cpu.tick(6); cpu.SP-- }
	c.baseOps[0x3F] = (*CPU).opCCF

	for _, pair := range [][3]byte{{0x01, 0, 0}, {0x11, 1, 0}, {0x21, 2, 0}, {0x31, 3, 0}} {
		dest := pair[1]
		c.baseOps[pair[0]] = func(cpu *CPU) {
			nn := cpu.fetchWord()
			cpu.tick(10)
			switch dest {
			case 0:
				cpu.SetBC(nn)
			case 1:
				cpu.SetDE(nn)
			case 2:
				cpu.setIndexReg(nn)
			case 3:
				cpu.SP = nn
			}
		}
	}

	for _, reg := range []byte{0, 1, 2, 3, 4, 5, 7} {
		reg := reg
		c.baseOps[4+8*reg] = func(cpu *CPU) {
			v := cpu.readReg8(reg)
			cpu.writeReg8(reg, cpu.inc8(v))
			cpu.tick(4)
		}
		c.baseOps[5+8*reg] = func(cpu *CPU) {
			v := cpu.readReg8(reg)
			cpu.writeReg8(reg, cpu.dec8(v))
			cpu.tick(4)
		}
		c.baseOps[6+8*reg] = func(cpu *CPU) {
			n := cpu.fetchByte()
			cpu.writeReg8(reg, n)
			cpu.tick(7)
		}
	}

	for dest := byte(0); dest < 8; dest++ {
		for src := byte(0); src < 8; src++ {
			if dest == 6 && src == 6 {
				continue // 0x76 is HALT
			}
			op := 0x40 + dest*8 + src
			dest, src := dest, src
			c.baseOps[op] = func(cpu *CPU) { cpu.opLDRegReg(dest, src) }
		}
	}
	c.baseOps[0x76] = (*CPU).opHALT

	for i, op := range []aluOp{aluADD, aluADC, aluSUB, aluSBC, aluAND, aluXOR, aluOR, aluCP} {
		op := op
		base := byte(0x80 + 8*i)
		for src := byte(0); src < 8; src++ {
			src := src
			c.baseOps[base+src] = func(cpu *CPU) { cpu.opALUReg(op, src) }
		}
		c.baseOps[byte(0xC6+8*i)] = func(cpu *CPU) {
			n := cpu.fetchByte()
			cpu.tick(7)
			cpu.applyALU(op, n)
		}
	}

	condOps := []struct {
		op    byte
		flag  byte
		equal bool
	}{
		{0xC0, FlagZ, false}, {0xC8, FlagZ, true},
		{0xD0, FlagC, false}, {0xD8, FlagC, true},
		{0xE0, FlagPV, false}, {0xE8, FlagPV, true},
		{0xF0, FlagS, false}, {0xF8, FlagS, true},
	}
	for _, cond := range condOps {
		cond := cond
		c.baseOps[cond.op] = func(cpu *CPU) {
			cpu.tick(5)
			if cpu.Flag(cond.flag) == cond.equal {
				cpu.WZ = cpu.pop()
				cpu.PC = cpu.WZ
				cpu.tick(6)
			}
		}
		jpOp := cond.op + 0x02
		c.baseOps[jpOp] = func(cpu *CPU) {
			nn := cpu.fetchWord()
			cpu.WZ = nn
			if cpu.Flag(cond.flag) == cond.equal {
				cpu.PC = nn
			}
			cpu.tick(10)
		}
		callOp := cond.op + 0x04
		c.baseOps[callOp] = func(cpu *CPU) {
			nn := cpu.fetchWord()
			cpu.WZ = nn
			if cpu.Flag(cond.flag) == cond.equal {
				cpu.tick(7)
				cpu.push(cpu.PC)
				cpu.PC = nn
				cpu.tick(10)
			} else {
				cpu.tick(10)
			}
		}
	}

	for _, rst := range []byte{0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF} {
		target := uint16(rst - 0xC7)
		c.baseOps[rst] = func(cpu *CPU) {
			cpu.tick(5)
			cpu.push(cpu.PC)
			cpu.WZ = target
			cpu.PC = target
			cpu.tick(6)
		}
	}

	pushPopRegs := []struct {
		op   byte
		kind byte
	}{{0xC1, 0}, {0xD1, 1}, {0xE1, 2}, {0xF1, 3}}
	for _, pr := range pushPopRegs {
		kind := pr.kind
		c.baseOps[pr.op] = func(cpu *CPU) {
			v := cpu.pop()
			cpu.tick(10)
			switch kind {
			case 0:
				cpu.SetBC(v)
			case 1:
				cpu.SetDE(v)
			case 2:
				cpu.setIndexReg(v)
			case 3:
				cpu.SetAF(v)
			}
		}
		c.baseOps[pr.op+4] = func(cpu *CPU) {
			var v uint16
			switch kind {
			case 0:
				v = cpu.BC()
			case 1:
				v = cpu.DE()
			case 2:
				v = cpu.indexReg()
			case 3:
				v = cpu.AF()
			}
			cpu.tick(5)
			cpu.push(v)
			cpu.tick(6)
		}
	}

	c.baseOps[0xC3] = (*CPU).opJPNN
	c.baseOps[0xC9] = (*CPU).opRET
	c.baseOps[0xCD] = (*CPU).opCALLNN
	c.baseOps[0xD3] = (*CPU).opOUTNA
	c.baseOps[0xD9] = (*CPU).opEXX
	c.baseOps[0xDB] = (*CPU).opINAN
	c.baseOps[0xE3] = (*CPU).opEXSPIndexed
	c.baseOps[0xE9] = func(cpu *CPU) { cpu.tick(4); cpu.PC = cpu.indexReg() }
	c.baseOps[0xEB] = (*CPU).opEXDEHL
	c.baseOps[0xF3] = (*CPU).opDI
	c.baseOps[0xF9] = func(cpu *CPU) { cpu.tick(6); cpu.SP = cpu.indexReg() }
	c.baseOps[0xFB] = (*CPU).opEI

	c.baseOps[0xCB] = (*CPU).dispatchCB
	c.baseOps[0xED] = (*CPU).dispatchED
	c.baseOps[0xDD] = func(cpu *CPU) { cpu.runIndexedPrefix(indexIX) }
	c.baseOps[0xFD] = func(cpu *CPU) { cpu.runIndexedPrefix(indexIY) }
}

func (c *CPU) opUnimplemented() { c.tick(4) }

func (c *CPU) opNOP() { c.tick(4) }

func (c *CPU) opHALT() {
	c.Halted = true
	c.PC--
	c.tick(4)
}

func (c *CPU) opLDRegReg(dest, src byte) {
	switch {
	case dest == 6:
		addr := c.hlAddr()
		v := c.readReg8Plain(src)
		c.writeByte(addr, v)
		if c.index == indexHL {
			c.tick(7)
		} else {
			c.tick(10) // hlAddr already charged the 5-cycle indexed overhead
		}
	case src == 6:
		addr := c.hlAddr()
		v := c.readByte(addr)
		c.writeReg8Plain(dest, v)
		if c.index == indexHL {
			c.tick(7)
		} else {
			c.tick(10) // hlAddr already charged the 5-cycle indexed overhead
		}
	default:
		c.writeReg8(dest, c.readReg8(src))
		c.tick(4)
	}
}

func (c *CPU) opALUReg(op aluOp, src byte) {
	if src == 6 {
		addr := c.hlAddr()
		v := c.readByte(addr)
		if c.index == indexHL {
			c.tick(7)
		} else {
			c.tick(10) // hlAddr already charged the 5-cycle indexed overhead
		}
		c.applyALU(op, v)
		return
	}
	c.applyALU(op, c.readReg8(src))
	c.tick(4)
}

func (c *CPU) opINCIndexed() {
	addr := c.hlAddr()
	v := c.readByte(addr)
	res := c.inc8(v)
	if c.index == indexHL {
		c.tick(11)
	} else {
		c.tick(14) // hlAddr already charged the 5-cycle indexed overhead
	}
	c.writeByte(addr, res)
}

func (c *CPU) opDECIndexed() {
	addr := c.hlAddr()
	v := c.readByte(addr)
	res := c.dec8(v)
	if c.index == indexHL {
		c.tick(11)
	} else {
		c.tick(14) // hlAddr already charged the 5-cycle indexed overhead
	}
	c.writeByte(addr, res)
}

func (c *CPU) opLDIndexedImm() {
	addr := c.hlAddr()
	n := c.fetchByte()
	// hlAddr already charges the 5-cycle indexed overhead when indexed,
	// so the remaining fetch-n/write cost is 10 either way.
	c.tick(10)
	c.writeByte(addr, n)
}

// adcOrAddHL implements ADD HL/IX/IY,rr (carryIn always false: ADD never
// touches the carry flag's input, only its output).
func (c *CPU) adcOrAddHL(value uint16, _ bool) uint16 {
	return c.addHL16(c.indexReg(), value)
}

func (c *CPU) opRLCA() {
	carry := c.A&0x80 != 0
	c.A = c.A<<1 | boolByte(carry)
	c.setShiftedAFlags(carry)
	c.tick(4)
}

func (c *CPU) opRRCA() {
	carry := c.A&0x01 != 0
	c.A = c.A >> 1
	if carry {
		c.A |= 0x80
	}
	c.setShiftedAFlags(carry)
	c.tick(4)
}

func (c *CPU) opRLA() {
	carryIn := c.Flag(FlagC)
	carryOut := c.A&0x80 != 0
	c.A = c.A<<1 | boolByte(carryIn)
	c.setShiftedAFlags(carryOut)
	c.tick(4)
}

func (c *CPU) opRRA() {
	carryIn := c.Flag(FlagC)
	carryOut := c.A&0x01 != 0
	c.A = c.A >> 1
	if carryIn {
		c.A |= 0x80
	}
	c.setShiftedAFlags(carryOut)
	c.tick(4)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// setShiftedAFlags applies the A-rotate flag rule: S/Z/P-V untouched, H
// and N cleared, Y/X taken from the new A, C from the bit shifted out.
func (c *CPU) setShiftedAFlags(carry bool) {
	f := c.F & (FlagS | FlagZ | FlagPV)
	f |= c.A & (FlagY | FlagX)
	if carry {
		f |= FlagC
	}
	c.F = f
}

func (c *CPU) opEXAFAF2() { c.ExAF(); c.tick(4) }
func (c *CPU) opEXX()     { c.Exx(); c.tick(4) }

// opEXDEHL is never redirected by a DD/FD prefix: real hardware always
// exchanges the plain DE/HL pair.
func (c *CPU) opEXDEHL() {
	d, e := c.D, c.E
	c.D, c.E = c.H, c.L
	c.H, c.L = d, e
	c.tick(4)
}

func (c *CPU) opEXSPIndexed() {
	v := c.readWord(c.SP)
	c.writeWord(c.SP, c.indexReg())
	c.WZ = v
	c.setIndexReg(v)
	c.tick(19)
}

func (c *CPU) opDJNZ() {
	c.tick(1)
	c.B--
	e := int8(c.fetchByte())
	if c.B != 0 {
		c.tick(5)
		c.PC = uint16(int32(c.PC) + int32(e))
		c.WZ = c.PC
		c.tick(8)
	} else {
		c.tick(8)
	}
}

func (c *CPU) opJR() {
	e := int8(c.fetchByte())
	c.tick(8)
	c.PC = uint16(int32(c.PC) + int32(e))
	c.WZ = c.PC
}

func (c *CPU) opJRCond(taken bool) {
	e := int8(c.fetchByte())
	if taken {
		c.tick(8)
		c.PC = uint16(int32(c.PC) + int32(e))
		c.WZ = c.PC
	} else {
		c.tick(7)
	}
}

func (c *CPU) opJPNN() {
	nn := c.fetchWord()
	c.WZ = nn
	c.PC = nn
	c.tick(10)
}

func (c *CPU) opCALLNN() {
	nn := c.fetchWord()
	c.WZ = nn
	c.tick(7)
	c.push(c.PC)
	c.PC = nn
	c.tick(10)
}

func (c *CPU) opRET() {
	c.WZ = c.pop()
	c.PC = c.WZ
	c.tick(10)
}

func (c *CPU) opLDIndNNHL() {
	nn := c.fetchWord()
	c.writeWord(nn, c.indexReg())
	c.WZ = nn + 1
	c.tick(16)
}

func (c *CPU) opLDHLIndNN() {
	nn := c.fetchWord()
	v := c.readWord(nn)
	c.WZ = nn + 1
	c.setIndexReg(v)
	c.tick(16)
}

func (c *CPU) opLDIndNNA() {
	nn := c.fetchWord()
	c.writeByte(nn, c.A)
	c.WZ = uint16(c.A)<<8 | uint16(byte(nn+1))
	c.tick(13)
}

func (c *CPU) opLDAIndNN() {
	nn := c.fetchWord()
	c.A = c.readByte(nn)
	c.WZ = nn + 1
	c.tick(13)
}

func (c *CPU) opLDBCIndA() {
	c.writeByte(c.BC(), c.A)
	c.WZ = uint16(c.A)<<8 | uint16(byte(c.BC()+1))
	c.tick(7)
}

func (c *CPU) opLDDEIndA() {
	c.writeByte(c.DE(), c.A)
	c.WZ = uint16(c.A)<<8 | uint16(byte(c.DE()+1))
	c.tick(7)
}

func (c *CPU) opLDAIndBC() {
	c.A = c.readByte(c.BC())
	c.WZ = c.BC() + 1
	c.tick(7)
}

func (c *CPU) opLDAIndDE() {
	c.A = c.readByte(c.DE())
	c.WZ = c.DE() + 1
	c.tick(7)
}

func (c *CPU) opDAA() {
	a := c.A
	carry := c.Flag(FlagC)
	halfCarry := c.Flag(FlagH)
	negative := c.Flag(FlagN)

	var adjust byte
	newCarry := carry
	if halfCarry || a&0x0F > 0x09 {
		adjust |= 0x06
	}
	if carry || a > 0x99 {
		adjust |= 0x60
		newCarry = true
	}

	var result byte
	var newHalf bool
	if negative {
		result = a - adjust
		newHalf = halfCarry && a&0x0F < 0x06
	} else {
		result = a + adjust
		newHalf = a&0x0F > 0x09
	}

	c.A = result
	f := c.szFlags(result) | (c.F & FlagN)
	if newHalf {
		f |= FlagH
	}
	if parity(result) {
		f |= FlagPV
	}
	if newCarry {
		f |= FlagC
	}
	c.F = f
	c.tick(4)
}

func (c *CPU) opCPL() {
	c.A = ^c.A
	c.F = (c.F & (FlagS | FlagZ | FlagPV | FlagC)) | FlagH | FlagN | (c.A & (FlagX | FlagY))
	c.tick(4)
}

func (c *CPU) opSCF() {
	c.F = (c.F & (FlagS | FlagZ | FlagPV)) | FlagC | (c.A & (FlagX | FlagY))
	c.tick(4)
}

func (c *CPU) opCCF() {
	carry := c.Flag(FlagC)
	f := (c.F & (FlagS | FlagZ | FlagPV)) | (c.A & (FlagX | FlagY))
	if carry {
		f |= FlagH
	} else {
		f |= FlagC
	}
	c.F = f
	c.tick(4)
}

func (c *CPU) opOUTNA() {
	n := c.fetchByte()
	port := uint16(c.A)<<8 | uint16(n)
	c.out(port, c.A)
	c.WZ = (uint16(c.A) << 8) | uint16(n+1)
	c.tick(11)
}

func (c *CPU) opINAN() {
	n := c.fetchByte()
	port := uint16(c.A)<<8 | uint16(n)
	c.A = c.in(port)
	c.WZ = port + 1
	c.tick(11)
}

func (c *CPU) opDI() { c.IFF1, c.IFF2 = false, false; c.iffDelay = 0; c.tick(4) }

func (c *CPU) opEI() { c.iffDelay = 2; c.tick(4) }
