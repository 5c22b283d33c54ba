package z80

// runIndexedPrefix implements the DD/FD opcode-prefix byte. Rather than
// a second and third full 256-entry dispatch table duplicating baseOps,
// it sets c.index and re-enters baseOps: every handler that reads HL via
// indexReg/hlAddr automatically becomes IX/IY-aware, and handlers that
// must never be redirected (EX DE,HL, EXX, EX AF,AF') simply don't
// consult the index. This also gives "a further prefix in a run wins,
// the earlier one contributes only a flat overhead" for free: an
// unhandled 0xDD/0xFD/0xED byte inside the indexed dispatch recurses
// into this same function (or into the ED entry point) exactly as the
// un-indexed fallback would.
func (c *CPU) runIndexedPrefix(idx indexKind) {
	c.tick(4)
	c.index = idx
	op := c.fetchOpcode()

	switch op {
	case 0xCB:
		c.execIndexedCB()
		c.index = indexHL
	case 0xDD:
		c.runIndexedPrefix(indexIX)
	case 0xFD:
		c.runIndexedPrefix(indexIY)
	case 0xED:
		c.index = indexHL
		c.dispatchED()
	default:
		c.baseOps[op](c)
		c.index = indexHL
	}
}
