// Package peephole implements the fixed-point instruction-listing rewrite
// of spec.md §4.7: collapsing runs of zero-pushes, store-then-reload
// pairs, and multiply-by-two into cheaper equivalents. A single pass never
// crosses a Label or Comment boundary — only adjacent Instruction items
// are considered for a rewrite.
package peephole

import "github.com/voidbert/plpc/internal/ewvm"

// Optimize repeatedly runs one pass over items until a pass makes no
// change (spec.md §4.7 "Iterates a single pass until a fixed point").
func Optimize(items []ewvm.Item) []ewvm.Item {
	current := items
	for {
		next := pass(current)
		if ewvm.Equal(current, next) {
			return next
		}
		current = next
	}
}

func pass(items []ewvm.Item) []ewvm.Item {
	var out []ewvm.Item
	i := 0
	for i < len(items) {
		inst, ok := items[i].(ewvm.Instruction)
		if !ok {
			out = append(out, items[i])
			i++
			continue
		}

		if isZero(inst) {
			count := 0
			for i+count < len(items) {
				next, ok := items[i+count].(ewvm.Instruction)
				if !ok || !isZero(next) {
					break
				}
				count++
			}
			if count == 1 {
				out = append(out, ewvm.Inst("PUSHI", ewvm.IntArg(0)))
			} else {
				out = append(out, ewvm.Inst("PUSHN", ewvm.IntArg(int64(count))))
			}
			i += count
			continue
		}

		if nextInst, ok := nextInstruction(items, i); ok {
			if (inst.Op == "STOREL" || inst.Op == "STOREG") &&
				nextInst.Op == "PUSH"+inst.Op[len(inst.Op)-1:] &&
				argsEqual(inst.Args, nextInst.Args) {
				out = append(out, ewvm.Inst("DUP", ewvm.IntArg(1)), inst)
				i += 2
				continue
			}

			if isConst(inst, "PUSHI", 2) || isConst(inst, "PUSHF", 2) {
				if nextInst.Op == "MUL" || nextInst.Op == "FMUL" {
					addOp := "ADD"
					if nextInst.Op == "FMUL" {
						addOp = "FADD"
					}
					out = append(out, ewvm.Inst("DUP", ewvm.IntArg(1)), ewvm.Inst(addOp))
					i += 2
					continue
				}
			}
		}

		out = append(out, inst)
		i++
	}
	return out
}

// nextInstruction returns items[i+1] as an Instruction, or false if it
// doesn't exist or is a Label/Comment — a pattern never starts or
// continues across one of those.
func nextInstruction(items []ewvm.Item, i int) (ewvm.Instruction, bool) {
	if i+1 >= len(items) {
		return ewvm.Instruction{}, false
	}
	inst, ok := items[i+1].(ewvm.Instruction)
	return inst, ok
}

func isZero(inst ewvm.Instruction) bool {
	return isConst(inst, "PUSHI", 0) || isConst(inst, "PUSHF", 0)
}

func isConst(inst ewvm.Instruction, op string, value float64) bool {
	if inst.Op != op || len(inst.Args) != 1 {
		return false
	}
	switch a := inst.Args[0].(type) {
	case ewvm.IntArg:
		return float64(a) == value
	case ewvm.RealArg:
		return float64(a) == value
	}
	return false
}

// argsEqual compares instruction arguments that are always plain integer
// scope offsets in the contexts this package matches them (STOREL/STOREG).
func argsEqual(a, b []ewvm.Arg) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ai, aok := a[i].(ewvm.IntArg)
		bi, bok := b[i].(ewvm.IntArg)
		if !aok || !bok || ai != bi {
			return false
		}
	}
	return true
}
