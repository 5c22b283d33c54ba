package z80

// readReg8 reads one of the non-memory 8-bit register codes (0-3,7 are
// B,C,D,E,A; 4,5 are H,L or, under a DD/FD prefix, the matching index
// register half). Code 6 ((HL)/(IX+d)) is never passed here: callers
// resolve it themselves via hlAddr, since it may need a displacement
// fetched exactly once per instruction.
func (c *CPU) readReg8(code byte) byte {
	switch code {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		switch c.index {
		case indexIX:
			return byte(c.IX >> 8)
		case indexIY:
			return byte(c.IY >> 8)
		default:
			return c.H
		}
	case 5:
		switch c.index {
		case indexIX:
			return byte(c.IX)
		case indexIY:
			return byte(c.IY)
		default:
			return c.L
		}
	case 7:
		return c.A
	}
	return 0
}

// writeReg8 is the index-aware counterpart to readReg8.
func (c *CPU) writeReg8(code byte, value byte) {
	switch code {
	case 0:
		c.B = value
	case 1:
		c.C = value
	case 2:
		c.D = value
	case 3:
		c.E = value
	case 4:
		switch c.index {
		case indexIX:
			c.IX = uint16(value)<<8 | (c.IX & 0x00FF)
		case indexIY:
			c.IY = uint16(value)<<8 | (c.IY & 0x00FF)
		default:
			c.H = value
		}
	case 5:
		switch c.index {
		case indexIX:
			c.IX = (c.IX & 0xFF00) | uint16(value)
		case indexIY:
			c.IY = (c.IY & 0xFF00) | uint16(value)
		default:
			c.L = value
		}
	case 7:
		c.A = value
	}
}

// readReg8Plain/writeReg8Plain never redirect through the current index:
// they access the plain B/C/D/E/H/L/A file. Used for the register
// operand of a DD/FD-prefixed LD r,r' instruction that ALSO has a
// (IX+d)/(IY+d) operand — real hardware leaves that other operand
// referring to plain H/L in that case, not to the index-register half.
func (c *CPU) readReg8Plain(code byte) byte {
	switch code {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 7:
		return c.A
	}
	return 0
}

func (c *CPU) writeReg8Plain(code byte, value byte) {
	switch code {
	case 0:
		c.B = value
	case 1:
		c.C = value
	case 2:
		c.D = value
	case 3:
		c.E = value
	case 4:
		c.H = value
	case 5:
		c.L = value
	case 7:
		c.A = value
	}
}

// indexReg returns the 16-bit value HL normally denotes: HL itself, or
// IX/IY under the current prefix.
func (c *CPU) indexReg() uint16 {
	switch c.index {
	case indexIX:
		return c.IX
	case indexIY:
		return c.IY
	default:
		return c.HL()
	}
}

func (c *CPU) setIndexReg(value uint16) {
	switch c.index {
	case indexIX:
		c.IX = value
	case indexIY:
		c.IY = value
	default:
		c.SetHL(value)
	}
}

// hlAddr resolves the address the (HL) operand slot denotes for the
// current instruction. Under a DD/FD prefix this fetches the
// displacement byte (a plain, non-R-bumping fetch) and charges the 5
// extra T-states real hardware spends computing IX+d/IY+d.
func (c *CPU) hlAddr() uint16 {
	switch c.index {
	case indexIX:
		d := int8(c.fetchByte())
		c.tick(5)
		addr := uint16(int32(c.IX) + int32(d))
		c.WZ = addr
		return addr
	case indexIY:
		d := int8(c.fetchByte())
		c.tick(5)
		addr := uint16(int32(c.IY) + int32(d))
		c.WZ = addr
		return addr
	default:
		return c.HL()
	}
}
