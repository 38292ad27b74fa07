package compiler

import (
	"github.com/mna/luma/lang/ast"
	"github.com/mna/luma/lang/bytecode"
	"github.com/mna/luma/lang/ir"
	"github.com/mna/luma/lang/token"
)

// lowerBlock lowers every statement of b in a fresh lexical scope.
func (fc *funcCompiler) lowerBlock(b *ast.Block) {
	fc.fn.RegMap.PushBlock()
	for _, s := range b.Stmts {
		fc.lowerStmt(s)
	}
	fc.fn.RegMap.PopBlock()
}

func (fc *funcCompiler) lowerStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.LocalStmt:
		fc.lowerLocal(n)
	case *ast.AssignStmt:
		fc.lowerAssign(n)
	case *ast.ExprStmt:
		fc.lowerExprStmt(n)
	case *ast.IfStmt:
		fc.lowerIf(n)
	case *ast.WhileStmt:
		fc.lowerWhile(n)
	case *ast.RepeatStmt:
		fc.lowerRepeat(n)
	case *ast.NumericForStmt:
		fc.lowerNumericFor(n)
	case *ast.FuncStmt:
		fc.lowerFuncStmt(n)
	case *ast.ReturnStmt:
		fc.emitReturn(n.Exprs)
	case *ast.BreakStmt:
		fc.lowerBreak(n)
	case *ast.BadStmt:
		fail(n.Start, "cannot compile a malformed statement")
	default:
		fail(token.NoPos, "unsupported statement %T", s)
	}
}

func (fc *funcCompiler) lowerLocal(n *ast.LocalStmt) {
	vals := fc.lowerExprListInto(n.Exprs, len(n.Names))
	// Names are bound only after the whole RHS is evaluated, so "local x = x"
	// reads the outer x, matching Lua's shadowing rule.
	for i, name := range n.Names {
		reg := fc.fn.RegMap.CreateReg(name.Lit)
		fc.emit(bytecode.MOV, ir.RegArg(reg), ir.RegArg(vals[i]))
	}
}

func (fc *funcCompiler) lowerAssign(n *ast.AssignStmt) {
	vals := fc.lowerExprListInto(n.Right, len(n.Left))
	for i, lhs := range n.Left {
		fc.assignTo(lhs, vals[i])
	}
}

func (fc *funcCompiler) assignTo(lhs ast.Expr, srcReg int) {
	switch e := lhs.(type) {
	case *ast.IdentExpr:
		fc.writeIdent(e.Lit, srcReg)
	case *ast.DotExpr:
		prefix := fc.lowerExprSingle(e.Left)
		key := fc.internName(e.Right.Lit)
		fc.emit(bytecode.SETATTR, ir.RegArg(prefix), ir.RegArg(key), ir.RegArg(srcReg))
	case *ast.IndexExpr:
		prefix := fc.lowerExprSingle(e.Prefix)
		key := fc.lowerExprSingle(e.Index)
		fc.emit(bytecode.SETATTR, ir.RegArg(prefix), ir.RegArg(key), ir.RegArg(srcReg))
	default:
		fail(token.NoPos, "invalid assignment target %T", lhs)
	}
}

func (fc *funcCompiler) lowerExprStmt(n *ast.ExprStmt) {
	call, ok := ast.Unwrap(n.Expr).(*ast.CallExpr)
	if !ok {
		fail(token.NoPos, "expression statement must be a call")
	}
	fc.emitCallSetup(call)
	// No MovR follows: the VM resets top without copying out any result.
}

// lowerIf lowers the if/elseif chain and optional else, one JmpNE per guard
// and a trailing Jmp from each taken branch to the shared merge block. An
// "elseif" is itself a nested IfStmt (n.ElseIf), so the recursive case below
// handles it for free; only the outermost call establishes mergeBlk.
func (fc *funcCompiler) lowerIf(n *ast.IfStmt) {
	mergeBlk := fc.fn.CreateBlock()
	fc.lowerIfClause(n, mergeBlk)
	fc.setCurrent(mergeBlk)
}

func (fc *funcCompiler) lowerIfClause(n *ast.IfStmt, mergeBlk int) {
	condReg := fc.lowerExprSingle(n.Cond)
	elseBlk := fc.fn.CreateBlock()
	fc.emitJump(bytecode.JMPNE, condReg, elseBlk)

	fc.lowerBlock(n.Body)
	fc.emitJump(bytecode.JMP, 0, mergeBlk)

	fc.setCurrent(elseBlk)
	if n.ElseIf != nil {
		// The recursive call reaches mergeBlk through its own explicit jumps.
		fc.lowerIfClause(n.ElseIf, mergeBlk)
		return
	}
	if n.ElseBody != nil {
		fc.lowerBlock(n.ElseBody)
	}
	fc.emitJump(bytecode.JMP, 0, mergeBlk)
}

// lowerWhile lowers a while loop to a single header block (condition test
// followed immediately by the body) so that the loop's back edge, which
// jumps to the header block's start, naturally re-enters at the condition.
func (fc *funcCompiler) lowerWhile(n *ast.WhileStmt) {
	headerBlk := fc.fn.CreateBlock()
	exitBlk := fc.fn.CreateBlock()
	fc.emitJump(bytecode.JMP, 0, headerBlk)

	fc.setCurrent(headerBlk)
	condReg := fc.lowerExprSingle(n.Cond)
	fc.emitJump(bytecode.JMPNE, condReg, exitBlk)

	fc.loopExits = append(fc.loopExits, exitBlk)
	fc.lowerBlock(n.Body)
	fc.loopExits = fc.loopExits[:len(fc.loopExits)-1]

	fc.emitJump(bytecode.JMP, 0, headerBlk)
	fc.setCurrent(exitBlk)
}

// lowerRepeat lowers a repeat/until loop. Cond is evaluated in the body's own
// scope, per Lua's scoping rule for repeat/until.
func (fc *funcCompiler) lowerRepeat(n *ast.RepeatStmt) {
	bodyBlk := fc.fn.CreateBlock()
	exitBlk := fc.fn.CreateBlock()
	fc.emitJump(bytecode.JMP, 0, bodyBlk)

	fc.setCurrent(bodyBlk)
	fc.loopExits = append(fc.loopExits, exitBlk)
	fc.fn.RegMap.PushBlock()
	for _, s := range n.Body.Stmts {
		fc.lowerStmt(s)
	}
	condReg := fc.lowerExprSingle(n.Cond)
	fc.fn.RegMap.PopBlock()
	fc.loopExits = fc.loopExits[:len(fc.loopExits)-1]

	fc.emitJump(bytecode.JMPNE, condReg, bodyBlk)
	// The block holding the condition is not necessarily laid out just before
	// exitBlk, so leave the loop with an explicit jump.
	fc.emitJump(bytecode.JMP, 0, exitBlk)
	fc.setCurrent(exitBlk)
}

// lowerNumericFor lowers "for name = start, stop[, step] do body end". Only
// ascending ranges are supported: the loop condition is a plain Le against
// stop whatever step's sign, so a negative step runs the body zero times when
// start > stop and never terminates when start <= stop. Lua's full semantics
// choose the comparison direction from step's runtime sign, which this
// register machine has no conditional-opcode-selection primitive for;
// descending ranges are a known gap. A step that is a literal non-positive
// constant (e.g. the extremely common "for i = n, 1, -1 do") is rejected at
// compile time; a step computed at runtime (a variable or call) can't be
// checked this way and is left as the documented gap.
func (fc *funcCompiler) lowerNumericFor(n *ast.NumericForStmt) {
	startReg := fc.lowerExprSingle(n.Start)
	stopReg := fc.lowerExprSingle(n.Stop)
	var stepReg int
	if n.Step != nil {
		if neg, zero := staticStepIsNonPositive(n.Step); neg || zero {
			pos, _ := n.Step.Span()
			fail(pos, "numeric for: a descending or zero step is not supported")
		}
		stepReg = fc.lowerExprSingle(n.Step)
	} else {
		stepReg = fc.newReg()
		fc.loadInt(stepReg, 1)
	}

	fc.fn.RegMap.PushBlock()
	loopVar := fc.fn.RegMap.CreateReg(n.Name.Lit)
	fc.emit(bytecode.MOV, ir.RegArg(loopVar), ir.RegArg(startReg))

	headerBlk := fc.fn.CreateBlock()
	exitBlk := fc.fn.CreateBlock()
	fc.emitJump(bytecode.JMP, 0, headerBlk)

	fc.setCurrent(headerBlk)
	condReg := fc.newReg()
	fc.emit(bytecode.LE, ir.RegArg(condReg), ir.RegArg(loopVar), ir.RegArg(stopReg))
	fc.emitJump(bytecode.JMPNE, condReg, exitBlk)

	fc.loopExits = append(fc.loopExits, exitBlk)
	fc.lowerBlock(n.Body)
	fc.loopExits = fc.loopExits[:len(fc.loopExits)-1]

	nextReg := fc.newReg()
	fc.emit(bytecode.ADD, ir.RegArg(nextReg), ir.RegArg(loopVar), ir.RegArg(stepReg))
	fc.emit(bytecode.MOV, ir.RegArg(loopVar), ir.RegArg(nextReg))
	fc.emitJump(bytecode.JMP, 0, headerBlk)

	fc.fn.RegMap.PopBlock()
	fc.setCurrent(exitBlk)
}

// staticStepIsNonPositive reports whether step is a literal constant (an
// int/float literal, or one negated by a leading unary minus) whose value is
// <= 0, a step that lowerNumericFor's ascending-only loop condition cannot
// count with. A step that isn't a literal (a variable, a call, ...) can't be
// judged this way; both return values are false for it, leaving the gap
// lowerNumericFor's doc comment already records.
func staticStepIsNonPositive(step ast.Expr) (neg, zero bool) {
	lit, negated := step.(*ast.LiteralExpr)
	if !negated {
		u, ok := step.(*ast.UnaryOpExpr)
		if !ok || u.Type != token.MINUS {
			return false, false
		}
		lit, negated = u.Right.(*ast.LiteralExpr)
		if !negated {
			return false, false
		}
		switch lit.Type {
		case token.INT:
			v := lit.Value.(int64)
			return v > 0, v == 0
		case token.FLOAT:
			v := lit.Value.(float64)
			return v > 0, v == 0
		}
		return false, false
	}
	switch lit.Type {
	case token.INT:
		v := lit.Value.(int64)
		return v < 0, v == 0
	case token.FLOAT:
		v := lit.Value.(float64)
		return v < 0, v == 0
	default:
		return false, false
	}
}

// lowerFuncStmt desugars "function name(...) body end" to an assignment of
// a closure to name, exactly as Lua defines it.
func (fc *funcCompiler) lowerFuncStmt(n *ast.FuncStmt) {
	closureReg := fc.lowerFuncBody(n.Body)
	fc.writeIdent(n.Name.Lit, closureReg)
}

// lowerFuncBody compiles fb as a new child function and returns the register
// holding a Closure over it. Every function's upvalue slot 0 is bound to the
// enclosing _ENV automatically by the VM's Closure instruction (for the
// top-level function, at startup instead), so the compiler never provides it
// explicitly and never reserves a register for it.
func (fc *funcCompiler) lowerFuncBody(fb *ast.FuncBody) int {
	isVararg := fb.Sig.DotDotDot.IsValid()
	child := fc.c.newFunc(len(fb.Sig.Params), isVararg)
	childIdx := fc.fn.AddChild(child)

	childFc := &funcCompiler{
		c:          fc.c,
		fn:         child,
		parent:     fc,
		childIdx:   childIdx,
		upvalSlots: make(map[string]int),
		nextUpval:  1,
	}
	childFc.fn.RegMap.PushBlock()
	childFc.block = childFc.fn.CreateBlock()
	for _, p := range fb.Sig.Params {
		childFc.fn.RegMap.CreateReg(p.Lit)
	}

	childFc.lowerBlock(fb.Body)
	childFc.emitReturn(nil)
	childFc.fn.RegMap.PopBlock()

	dst := fc.newReg()
	fc.emit(bytecode.CLOSURE, ir.RegArg(dst), ir.SomeArg(childIdx))
	return dst
}

// emitReturn lowers a return statement's expression list: every value but
// the last is pushed individually, and a trailing call or "..." forwards all
// of its values rather than just its first.
func (fc *funcCompiler) emitReturn(exprs []ast.Expr) {
	for i, e := range exprs {
		if i == len(exprs)-1 {
			if call, vararg := asMultiValue(e); call != nil || vararg != nil {
				if call != nil {
					fc.emitCallSetup(call)
					fc.emit(bytecode.MOVR, ir.SomeArg(0), ir.SomeArg(0), ir.SomeArg(2))
				} else {
					fc.emit(bytecode.VARARG, ir.SomeArg(0), ir.SomeArg(0), ir.SomeArg(2))
				}
				fc.emit(bytecode.RET)
				return
			}
		}
		reg := fc.lowerExprSingle(e)
		fc.emit(bytecode.PUSH, ir.RegArg(reg), ir.SomeArg(0), ir.SomeArg(1))
	}
	fc.emit(bytecode.RET)
}

func (fc *funcCompiler) lowerBreak(n *ast.BreakStmt) {
	if len(fc.loopExits) == 0 {
		fail(n.Start, "break outside of a loop")
	}
	fc.emitJump(bytecode.JMP, 0, fc.loopExits[len(fc.loopExits)-1])
}
