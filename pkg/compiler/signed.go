package compiler

import "asuac/pkg/cpu"

// Routines below operate on 8-bit two's-complement cells. Bit 7 is the
// sign; magnitudes produced by emitAbs are in [0, 128] and are treated as
// unsigned. Each routine writes its result into dst and, on overflow or a
// zero divisor, sets error to 1 and dst to 0.

const signBit = 0x80

// emitFault raises the error flag and zeroes dst.
func (cg *CodeGen) emitFault(dst Slot) {
	cg.emit(cpu.OpMOV, regA, imm(1))
	cg.store(ErrorSlot)
	cg.emit(cpu.OpMOV, regA, imm(0))
	cg.store(dst)
}

// emitNegate replaces the value of s with its two's complement.
func (cg *CodeGen) emitNegate(s Slot) {
	cg.load(s)
	cg.emit(cpu.OpXOR, regA, imm(0xFF))
	cg.emit(cpu.OpADD, regA, imm(1))
	cg.store(s)
}

// emitAbs stores |src| into dst.
func (cg *CodeGen) emitAbs(src, dst Slot) {
	id := cg.newID()
	pos := cg.newLabel("abs_pos", id)
	end := cg.newLabel("abs_end", id)

	cg.load(src)
	cg.emit(cpu.OpAND, regA, imm(signBit))
	cg.emit(cpu.OpCMP, regA, imm(signBit))
	cg.jump(cpu.OpJNE, pos)
	cg.load(src)
	cg.emit(cpu.OpXOR, regA, imm(0xFF))
	cg.emit(cpu.OpADD, regA, imm(1))
	cg.store(dst)
	cg.jump(cpu.OpJMP, end)
	cg.label(pos)
	cg.load(src)
	cg.store(dst)
	cg.label(end)
}

// emitSignOf stores the XOR of the sign bits of x and y (0 or 128) into dst.
func (cg *CodeGen) emitSignOf(x, y, dst Slot) {
	cg.load(x)
	cg.emit(cpu.OpXOR, regA, mem(y))
	cg.emit(cpu.OpAND, regA, imm(signBit))
	cg.store(dst)
}

// emitSignCorrect negates s when sign holds 128.
func (cg *CodeGen) emitSignCorrect(sign, s Slot, skip string) {
	cg.load(sign)
	cg.emit(cpu.OpCMP, regA, imm(signBit))
	cg.jump(cpu.OpJNE, skip)
	cg.emitNegate(s)
}

// emitSignsInB leaves sign(x) in B and sign(y) in A.
func (cg *CodeGen) emitSignsInB(x, y Slot) {
	cg.load(x)
	cg.emit(cpu.OpAND, regA, imm(signBit))
	cg.emit(cpu.OpMOV, regB, regA)
	cg.load(y)
	cg.emit(cpu.OpAND, regA, imm(signBit))
}

// emitAdd computes left+right. Overflow when both operands share a sign and
// the sum's sign differs from it.
func (cg *CodeGen) emitAdd(left, right, dst Slot) {
	ok := cg.newLabel("add_ok", cg.newID())

	cg.load(left)
	cg.emit(cpu.OpADD, regA, mem(right))
	cg.store(dst)

	cg.emitSignsInB(left, right)
	cg.emit(cpu.OpCMP, regA, regB)
	cg.jump(cpu.OpJNE, ok)
	cg.load(dst)
	cg.emit(cpu.OpAND, regA, imm(signBit))
	cg.emit(cpu.OpCMP, regA, regB)
	cg.jump(cpu.OpJEQ, ok)
	cg.emitFault(dst)
	cg.label(ok)
}

// emitSub computes left-right. Overflow when the operand signs differ and
// the difference's sign differs from left's.
func (cg *CodeGen) emitSub(left, right, dst Slot) {
	ok := cg.newLabel("sub_ok", cg.newID())

	cg.load(left)
	cg.emit(cpu.OpSUB, regA, mem(right))
	cg.store(dst)

	cg.emitSignsInB(left, right)
	cg.emit(cpu.OpCMP, regA, regB)
	cg.jump(cpu.OpJEQ, ok)
	cg.load(dst)
	cg.emit(cpu.OpAND, regA, imm(signBit))
	cg.emit(cpu.OpCMP, regA, regB)
	cg.jump(cpu.OpJEQ, ok)
	cg.emitFault(dst)
	cg.label(ok)
}

// emitMul computes left*right by repeated addition of |left|, |right|
// times. A partial sum reaching 128 is an overflow and aborts the loop.
func (cg *CodeGen) emitMul(left, right, dst Slot) {
	id := cg.newID()
	loop := cg.newLabel("mul_loop", id)
	ovf := cg.newLabel("mul_overflow", id)
	done := cg.newLabel("mul_done", id)
	end := cg.newLabel("mul_end", id)

	sign := cg.temps.Alloc()
	abs1 := cg.temps.Alloc()
	abs2 := cg.temps.Alloc()
	count := cg.temps.Alloc()

	cg.emitSignOf(left, right, sign)
	cg.emitAbs(left, abs1)
	cg.emitAbs(right, abs2)

	cg.emit(cpu.OpMOV, regA, imm(0))
	cg.store(dst)
	cg.load(abs2)
	cg.store(count)

	cg.label(loop)
	cg.load(count)
	cg.emit(cpu.OpCMP, regA, imm(0))
	cg.jump(cpu.OpJEQ, done)
	cg.load(dst)
	cg.emit(cpu.OpADD, regA, mem(abs1))
	cg.emit(cpu.OpMOV, regB, regA)
	cg.emit(cpu.OpAND, regB, imm(signBit))
	cg.emit(cpu.OpCMP, regB, imm(signBit))
	cg.jump(cpu.OpJEQ, ovf)
	cg.store(dst)
	cg.load(count)
	cg.emit(cpu.OpSUB, regA, imm(1))
	cg.store(count)
	cg.jump(cpu.OpJMP, loop)

	cg.label(ovf)
	cg.emitFault(dst)
	cg.jump(cpu.OpJMP, end)

	cg.label(done)
	cg.emitSignCorrect(sign, dst, end)
	cg.label(end)
}

// emitDiv computes left/right truncated toward zero by counting
// subtractions of |right| from |left|. The quotient wraps, so -128/-1
// yields -128.
func (cg *CodeGen) emitDiv(left, right, dst Slot) {
	id := cg.newID()
	start := cg.newLabel("div_start", id)
	loop := cg.newLabel("div_loop", id)
	sgn := cg.newLabel("div_sign", id)
	end := cg.newLabel("div_end", id)

	sign := cg.temps.Alloc()
	rem := cg.temps.Alloc()
	abs2 := cg.temps.Alloc()

	cg.emitZeroDivisorCheck(right, dst, start, end)

	cg.emitSignOf(left, right, sign)
	cg.emitAbs(left, rem)
	cg.emitAbs(right, abs2)
	cg.emit(cpu.OpMOV, regA, imm(0))
	cg.store(dst)

	cg.label(loop)
	cg.load(rem)
	cg.emit(cpu.OpCMP, regA, mem(abs2))
	cg.jump(cpu.OpJLT, sgn)
	cg.emit(cpu.OpSUB, regA, mem(abs2))
	cg.store(rem)
	cg.load(dst)
	cg.emit(cpu.OpADD, regA, imm(1))
	cg.store(dst)
	cg.jump(cpu.OpJMP, loop)

	cg.label(sgn)
	cg.emitSignCorrect(sign, dst, end)
	cg.label(end)
}

// emitMod computes the floor modulo of left by |right|; the result is in
// [0, |right|).
func (cg *CodeGen) emitMod(left, right, dst Slot) {
	id := cg.newID()
	start := cg.newLabel("mod_start", id)
	neg := cg.newLabel("mod_neg", id)
	loop := cg.newLabel("mod_loop", id)
	end := cg.newLabel("mod_end", id)

	abs2 := cg.temps.Alloc()

	cg.emitZeroDivisorCheck(right, dst, start, end)

	cg.emitAbs(right, abs2)
	cg.load(left)
	cg.store(dst)

	cg.label(neg)
	cg.load(dst)
	cg.emit(cpu.OpAND, regA, imm(signBit))
	cg.emit(cpu.OpCMP, regA, imm(signBit))
	cg.jump(cpu.OpJNE, loop)
	cg.load(dst)
	cg.emit(cpu.OpADD, regA, mem(abs2))
	cg.store(dst)
	cg.jump(cpu.OpJMP, neg)

	cg.label(loop)
	cg.load(dst)
	cg.emit(cpu.OpCMP, regA, mem(abs2))
	cg.jump(cpu.OpJLT, end)
	cg.emit(cpu.OpSUB, regA, mem(abs2))
	cg.store(dst)
	cg.jump(cpu.OpJMP, loop)

	cg.label(end)
}

// emitZeroDivisorCheck faults and jumps to end when divisor is 0, and
// falls through to start otherwise.
func (cg *CodeGen) emitZeroDivisorCheck(divisor, dst Slot, start, end string) {
	cg.load(divisor)
	cg.emit(cpu.OpCMP, regA, imm(0))
	cg.jump(cpu.OpJNE, start)
	cg.emitFault(dst)
	cg.jump(cpu.OpJMP, end)
	cg.label(start)
}
