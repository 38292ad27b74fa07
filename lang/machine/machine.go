package machine

import (
	"github.com/mna/luma/lang/bytecode"
	"github.com/mna/luma/lang/value"
)

// dispatch invokes cl with args, whichever kind of closure it is: a host
// closure runs fn directly; an ordinary one recurses into run. Go's own call
// stack backs the nesting of Lua calls, guarded by MaxCallDepth.
func (th *Thread) dispatch(cl *value.ClosureVal, args []value.Value) ([]value.Value, error) {
	if cl.Host != nil {
		return cl.Host(args)
	}

	th.depth++
	if th.MaxCallDepth > 0 && th.depth > th.MaxCallDepth {
		th.depth--
		return nil, &CallDepthError{Depth: th.depth}
	}
	rets, err := th.run(cl, args)
	th.depth--
	return rets, err
}

// regGet reads register i, transparently unboxing it if some earlier Closure
// instruction turned it into a shared Cell (see makeClosure).
func (th *Thread) regGet(i uint8) value.Value {
	if cell, ok := th.registers[i].AsCell(); ok {
		return cell.V
	}
	return th.registers[i]
}

// regSet writes v to register i. If the register already holds a Cell
// (because some closure captured it), the write goes through the box so
// every capturing closure observes it; otherwise it's a plain overwrite.
func (th *Thread) regSet(i uint8, v value.Value) {
	if cell, ok := th.registers[i].AsCell(); ok {
		cell.V = v
		return
	}
	th.registers[i] = v
}

// run executes one activation of cl's bytecode function to completion: a Ret
// instruction (or falling off the end of Instrs) ends it, returning whatever
// values were accumulated by Push/MovR/VarArg's return-forwarding forms.
func (th *Thread) run(cl *value.ClosureVal, args []value.Value) ([]value.Value, error) {
	fn := th.module.Functions[cl.FuncIndex]
	regCount := int(fn.RegCount)
	paramCount := int(fn.ParamCount)

	for i := 0; i < regCount; i++ {
		if i < paramCount && i < len(args) {
			th.registers[i] = args[i]
		} else {
			th.registers[i] = value.Value{}
		}
	}
	var varargs []value.Value
	if fn.IsVararg && len(args) > paramCount {
		varargs = args[paramCount:]
	}

	var pendingRets []value.Value
	var retAcc []value.Value

	pc := 0
	for pc < len(fn.Instrs) {
		instr := fn.Instrs[pc]
		op, a, b, c := bytecode.Decode(instr)

		if op.HasExtendedOperand() {
			_, ea, arg := bytecode.DecodeExtended(instr)
			switch op {
			case bytecode.JMP:
				pc += 1 + int(arg)
				continue
			case bytecode.JMPNE:
				if !th.regGet(ea).IsTruthy() {
					pc += 1 + int(arg)
					continue
				}
			case bytecode.JMPEQ:
				if th.regGet(ea).IsTruthy() {
					pc += 1 + int(arg)
					continue
				}
			case bytecode.LDI:
				th.regSet(ea, value.IntVal(th.module.Ints[uint16(arg)]))
			case bytecode.LDF:
				th.regSet(ea, value.FloatVal(th.module.Floats[uint16(arg)]))
			case bytecode.LDS:
				th.regSet(ea, value.StringVal(th.module.Strings[uint16(arg)]))
			case bytecode.CLOSURE:
				newCl, err := th.makeClosure(cl, fn, int(uint16(arg)))
				if err != nil {
					return nil, err
				}
				th.regSet(ea, value.ClosureValOf(newCl))
			}
			pc++
			continue
		}

		switch op {
		case bytecode.MOV:
			th.regSet(a, th.regGet(b))
		case bytecode.LDN:
			th.regSet(a, value.Value{})
		case bytecode.LDT:
			th.regSet(a, value.TableValOf(value.NewTable(0)))

		case bytecode.ADD, bytecode.SUB, bytecode.MUL, bytecode.DIV, bytecode.MOD, bytecode.FDIV, bytecode.EXP:
			res, err := evalArith(op, th.regGet(b), th.regGet(c))
			if err != nil {
				return nil, err
			}
			th.regSet(a, res)

		case bytecode.EQ:
			th.regSet(a, eqOp(th.regGet(b), th.regGet(c)))
		case bytecode.NE:
			th.regSet(a, neOp(th.regGet(b), th.regGet(c)))
		case bytecode.LT, bytecode.GT, bytecode.LE, bytecode.GE:
			res, err := evalCompare(op, th.regGet(b), th.regGet(c))
			if err != nil {
				return nil, err
			}
			th.regSet(a, res)

		case bytecode.GETATTR:
			rb := th.regGet(b)
			tbl, ok := rb.AsTable()
			if !ok {
				return nil, value.AttrError(value.GetAttrErr, rb.Kind())
			}
			th.regSet(a, tbl.Get(th.regGet(c)))
		case bytecode.SETATTR:
			ra := th.regGet(a)
			tbl, ok := ra.AsTable()
			if !ok {
				return nil, value.AttrError(value.SetAttrErr, ra.Kind())
			}
			tbl.Set(th.regGet(b), th.regGet(c))

		case bytecode.GETUPATTR:
			tbl, ok := cl.Upvals[b].AsTable()
			if !ok {
				return nil, value.AttrError(value.GetAttrErr, cl.Upvals[b].Kind())
			}
			th.regSet(a, tbl.Get(th.regGet(c)))
		case bytecode.SETUPATTR:
			tbl, ok := cl.Upvals[a].AsTable()
			if !ok {
				return nil, value.AttrError(value.SetAttrErr, cl.Upvals[a].Kind())
			}
			tbl.Set(th.regGet(b), th.regGet(c))
		case bytecode.GETUPVAL:
			if cell, ok := cl.Upvals[b].AsCell(); ok {
				th.regSet(a, cell.V)
			} else {
				th.regSet(a, cl.Upvals[b])
			}
		case bytecode.SETUPVAL:
			if cell, ok := cl.Upvals[a].AsCell(); ok {
				cell.V = th.regGet(b)
			} else {
				cl.Upvals[a] = th.regGet(b)
			}

		case bytecode.SETTOP:
			th.frames = append(th.frames, frame{callee: th.regGet(a), top: len(th.stack)})
		case bytecode.PUSH:
			if c != 0 {
				retAcc = append(retAcc, th.regGet(a))
			} else {
				th.stack = append(th.stack, th.regGet(a))
			}
		case bytecode.CALL:
			rets, err := th.execCall(regCount)
			if err != nil {
				return nil, err
			}
			pendingRets = rets

		case bytecode.MOVR:
			switch c {
			case 1:
				th.stack = append(th.stack, pendingRets...)
			case 2:
				retAcc = append(retAcc, pendingRets...)
			default:
				if int(b) < len(pendingRets) {
					th.regSet(a, pendingRets[b])
				} else {
					th.regSet(a, value.Value{})
				}
			}
		case bytecode.VARARG:
			switch c {
			case 1:
				th.stack = append(th.stack, varargs...)
			case 2:
				retAcc = append(retAcc, varargs...)
			default:
				if int(b) < len(varargs) {
					th.regSet(a, varargs[b])
				} else {
					th.regSet(a, value.Value{})
				}
			}

		case bytecode.RET:
			return retAcc, nil

		default:
			panic("machine: unimplemented opcode " + op.String())
		}
		pc++
	}
	return retAcc, nil
}

func evalArith(op bytecode.Opcode, l, r value.Value) (value.Value, error) {
	switch op {
	case bytecode.ADD:
		return addOp(l, r)
	case bytecode.SUB:
		return subOp(l, r)
	case bytecode.MUL:
		return mulOp(l, r)
	case bytecode.DIV:
		return divOp(l, r)
	case bytecode.MOD:
		return modOp(l, r)
	case bytecode.FDIV:
		return fdivOp(l, r)
	case bytecode.EXP:
		return expOp(l, r)
	default:
		panic("machine: not an arithmetic opcode " + op.String())
	}
}

func evalCompare(op bytecode.Opcode, l, r value.Value) (value.Value, error) {
	switch op {
	case bytecode.LT:
		return ltOp(l, r)
	case bytecode.GT:
		return gtOp(l, r)
	case bytecode.LE:
		return leOp(l, r)
	case bytecode.GE:
		return geOp(l, r)
	default:
		panic("machine: not a comparison opcode " + op.String())
	}
}

// execCall runs the Call instruction's calling convention: it consumes the
// frame opened by the preceding SetTop, saves and restores the caller's
// register window (callerRegCount registers of it) across the callee's
// execution, and returns whatever the callee returned for the following
// MovR/VarArg peephole to distribute.
//
// spec.md §4.7 describes saving the caller's registers onto the VM stack
// (steps 4/8). This implementation saves them into a local Go slice instead
// of the shared stack — Go's own call frame already isolates it per nested
// Call, so there is no need to additionally thread it through the stack.
// Step 9's write-back on captured locals doesn't happen here at all because
// it doesn't need to: makeClosure boxes a captured register into a shared
// *value.Cell at Closure-creation time, so mutation is already visible
// through regGet/regSet and GetUpval/SetUpval without any call-boundary
// copying back.
func (th *Thread) execCall(callerRegCount int) ([]value.Value, error) {
	fr := th.frames[len(th.frames)-1]
	argsStart := fr.top
	args := append([]value.Value(nil), th.stack[argsStart:]...)
	th.stack = th.stack[:argsStart]

	callee, ok := fr.callee.AsClosure()
	if !ok {
		th.frames = th.frames[:len(th.frames)-1]
		return nil, &value.NotAClosureError{From: fr.callee.Kind()}
	}

	saved := append([]value.Value(nil), th.registers[:callerRegCount]...)
	rets, err := th.dispatch(callee, args)
	copy(th.registers[:callerRegCount], saved)

	th.frames = th.frames[:len(th.frames)-1]
	if err != nil {
		return nil, err
	}
	return rets, nil
}

// makeClosure implements the Closure instruction: it allocates the child's
// upvalue array (sized from the widest slot any of the creating function's
// provides entries for this child names), binds slot 0 to the current _ENV,
// and fills the rest from the creating function's registers or its own
// upvalues per each matching provides entry.
//
// Every non-_ENV provide is boxed into a *value.Cell rather than copied: the
// first closure to capture a given register (or upvalue) turns it into a
// Cell and shares that same box with the child; a register or upvalue that
// is already a Cell (a second sibling closure capturing the same local, or a
// grandchild capturing through an intermediate closure) shares the existing
// box instead of making a new one. From then on every read/write of that
// register (regGet/regSet) or upvalue (GetUpval/SetUpval) goes through the
// box, so mutation is visible across every closure sharing it and back in
// the enclosing activation — matching spec.md §4.7 step 9's write-back and
// §9's bidirectional-transfer requirement. See DESIGN.md for why an earlier
// capture-by-value version of this function was wrong.
func (th *Thread) makeClosure(cl *value.ClosureVal, fn *bytecode.Function, childIdx int) (*value.ClosureVal, error) {
	childFnIdx := fn.Children[childIdx]
	childFn := th.module.Functions[childFnIdx]

	slots := 1
	for _, p := range fn.Provides {
		if int(p.ChildIndex) == childIdx && int(p.Slot)+1 > slots {
			slots = int(p.Slot) + 1
		}
	}

	newCl := value.NewClosure(int(childFn.Index), int(childFn.RegCount), int(childFn.ParamCount), childFn.IsVararg, slots)
	newCl.Upvals[0] = value.TableValOf(th.env)
	for _, p := range fn.Provides {
		if int(p.ChildIndex) != childIdx {
			continue
		}
		var src value.Value
		if p.Kind == bytecode.ProviderUpval {
			cur := cl.Upvals[p.Src]
			cell, ok := cur.AsCell()
			if !ok {
				cell = value.NewCell(cur)
				cl.Upvals[p.Src] = value.CellValOf(cell)
			}
			src = value.CellValOf(cell)
		} else {
			cur := th.registers[p.Src]
			cell, ok := cur.AsCell()
			if !ok {
				cell = value.NewCell(cur)
				th.registers[p.Src] = value.CellValOf(cell)
			}
			src = value.CellValOf(cell)
		}
		newCl.Upvals[p.Slot] = src
	}
	return newCl, nil
}
