// Package cfg recovers the control-flow graph from a linear statement list
// and normalizes it: merging adjacent labels, collapsing jump chains, and
// dropping unneeded labels, before building basic blocks (spec §4.2).
package cfg

import (
	"container/list"

	"tacc/internal/ir"
)

// Rebuild tears down fn's existing block arena and reconstructs it from
// fn.Stmts. No *ir.Block obtained before a Rebuild call may be used after
// it (spec §3, §5).
func Rebuild(fn *ir.Function) {
	deleteBlocks(fn.Stmts)

	for {
		changed := false
		if mergeAdjacentLabels(fn.Stmts) {
			changed = true
		}
		if eliminateJumpChains(fn.Stmts) {
			changed = true
		}
		if removeUnneededLabels(fn.Stmts) {
			changed = true
		}
		if !changed {
			break
		}
	}

	buildBasicBlocks(fn)
}

// deleteBlocks drops every Label's back-link to its (about to be
// invalidated) Block.
func deleteBlocks(stmts *ir.StmtList) {
	for e := stmts.Front(); e != nil; e = e.Next() {
		if lbl := ir.At(e).AsLabel(); lbl != nil {
			setLabelBlock(lbl, nil)
		}
	}
}

// mergeAdjacentLabels first ensures every non-fall-through or branching
// statement is followed by a Label (inserting a fresh one if not, so a
// block can never vanish), then collapses runs of consecutive labels into
// their first member, rewriting every statement's target through the
// resulting map (spec §4.2 step 2).
func mergeAdjacentLabels(stmts *ir.StmtList) bool {
	changed := false

	for e := stmts.Front(); e != nil; e = e.Next() {
		stmt := ir.At(e)
		if stmt.Target() != nil || !stmt.FallsThru() {
			next := e.Next()
			if next == nil || ir.At(next).AsLabel() == nil {
				stmts.InsertAfter(&ir.Label{}, e)
				changed = true
			}
		}
	}

	merged := map[*ir.Label]*ir.Label{}
	for e := stmts.Front(); e != nil; e = e.Next() {
		first := ir.At(e).AsLabel()
		if first == nil {
			continue
		}
		n := e.Next()
		for n != nil {
			lbl := ir.At(n).AsLabel()
			if lbl == nil {
				break
			}
			merged[lbl] = first
			toRemove := n
			n = n.Next()
			stmts.Remove(toRemove)
			changed = true
		}
	}

	if len(merged) > 0 {
		for e := stmts.Front(); e != nil; e = e.Next() {
			stmt := ir.At(e)
			if t := stmt.Target(); t != nil {
				if to, ok := merged[t]; ok {
					stmt.SetTarget(to)
				}
			}
		}
	}

	return changed
}

// eliminateJumpChains collapses "label: goto L'" sequences by forwarding
// any jump/branch to the label straight to L', then drops jumps whose
// target is the very next statement (spec §4.2 step 3).
func eliminateJumpChains(stmts *ir.StmtList) bool {
	changed := false
	forward := map[*ir.Label]*ir.Label{}

	for e := stmts.Front(); e != nil; {
		cont := e.Next()

		lbl := ir.At(e).AsLabel()
		if lbl == nil {
			e = cont
			continue
		}
		next := e.Next()
		if next == nil {
			e = cont
			continue
		}
		nextStmt := ir.At(next)
		jmp, ok := nextStmt.(*ir.Jump)
		if !ok {
			e = cont
			continue
		}
		if jmp.To == lbl {
			e = cont
			continue
		}
		forward[lbl] = jmp.To

		if e != stmts.Front() {
			prev := e.Prev()
			if prev != nil && !ir.At(prev).FallsThru() {
				cont = next.Next()
				stmts.Remove(next)
				stmts.Remove(e)
				changed = true
			}
		}

		e = cont
	}

	if len(forward) > 0 {
		for e := stmts.Front(); e != nil; e = e.Next() {
			stmt := ir.At(e)
			for {
				t := stmt.Target()
				if t == nil {
					break
				}
				fwd, ok := forward[t]
				if !ok {
					break
				}
				stmt.SetTarget(fwd)
			}
		}
	}

	var toDrop []*list.Element
	for e := stmts.Front(); e != nil; e = e.Next() {
		stmt := ir.At(e)
		next := e.Next()
		if next == nil {
			continue
		}
		if t := stmt.Target(); t != nil && ir.Statement(t) == ir.At(next) {
			toDrop = append(toDrop, e)
		}
	}
	for _, e := range toDrop {
		stmts.Remove(e)
		changed = true
	}

	return changed
}

// removeUnneededLabels drops every Label that is not a branch/jump target,
// does not immediately follow a Null, and does not immediately follow a
// non-fall-through statement (spec §4.2 step 4). The first and last
// statements are never removed, matching the original's `stmts.size() < 2`
// guard and its exclusion of the first/last element from the scan.
func removeUnneededLabels(stmts *ir.StmtList) bool {
	if stmts.Len() < 2 {
		return false
	}

	needed := map[*ir.Label]bool{}
	for e := stmts.Front().Next(); e != stmts.Back(); e = e.Next() {
		stmt := ir.At(e)
		if lbl := stmt.AsLabel(); lbl != nil {
			prevStmt := ir.At(e.Prev())
			if _, isNull := prevStmt.(*ir.Null); isNull {
				needed[lbl] = true
			} else if prevStmt.Target() != nil || !prevStmt.FallsThru() {
				needed[lbl] = true
			}
		} else if t := stmt.Target(); t != nil {
			needed[t] = true
		}
	}

	changed := false
	e := stmts.Front().Next()
	for e != stmts.Back() {
		next := e.Next()
		if lbl := ir.At(e).AsLabel(); lbl != nil && !needed[lbl] {
			stmts.Remove(e)
			changed = true
		}
		e = next
	}

	return changed
}

// buildBasicBlocks walks the normalized statement list, opening a new Block
// at every Label and linking fall-through, jump/branch, and exit edges
// (spec §4.2 step 5).
func buildBasicBlocks(fn *ir.Function) {
	stmts := fn.Stmts
	if stmts.Len() == 0 {
		panic("cfg: function has no statements")
	}

	exit := &ir.Block{}
	exitLabel := ir.At(stmts.Back()).AsLabel()
	if exitLabel == nil {
		panic("cfg: last statement is not a label")
	}
	exit.First, exit.Last = stmts.Back(), stmts.Back()
	setLabelBlock(exitLabel, exit)

	var blocks []*ir.Block
	var current *ir.Block
	labelToBlock := map[*ir.Label]*ir.Block{exitLabel: exit}

	for e := stmts.Front(); e != nil; e = e.Next() {
		stmt := ir.At(e)
		if lbl := stmt.AsLabel(); lbl != nil {
			if current != nil {
				current.Last = e
			}
			if lbl == exitLabel {
				current = exit
				continue
			}
			b := &ir.Block{First: e, Last: e}
			setLabelBlock(lbl, b)
			labelToBlock[lbl] = b
			if len(blocks) > 0 {
				blocks[len(blocks)-1].Next = b
			}
			blocks = append(blocks, b)
			current = b
		}
	}

	blocks = append(blocks, exit)

	for i, b := range blocks {
		if b == exit {
			continue
		}

		// The statement that governs this block's outgoing edges is the
		// one immediately before its trailing Label — not the Label
		// itself, which always trivially falls through. An empty block
		// (First == Last) has no such statement and so simply falls
		// through to its textual successor.
		fallsThru, target := true, (*ir.Label)(nil)
		if b.First != b.Last {
			real := ir.At(b.Last.Prev())
			fallsThru, target = real.FallsThru(), real.Target()
		}

		if fallsThru {
			link(b, blocks[i+1]) // exit is always the last element, so i+1 is always in range
		}
		if target != nil {
			link(b, labelToBlock[target])
		}
		if !fallsThru && target == nil {
			link(b, exit)
		}
	}

	fn.Blocks = blocks
	fn.Entry = blocks[0]
	fn.Exit = exit
}

func link(from, to *ir.Block) {
	if to == nil {
		return
	}
	for _, s := range from.Succs {
		if s == to {
			return
		}
	}
	from.Succs = append(from.Succs, to)
	to.Preds = append(to.Preds, from)
}

// setLabelBlock is the one place that mutates Label.Block; kept in its own
// function so the invariant ("only the CFG builder mutates this field") is
// grep-able.
func setLabelBlock(lbl *ir.Label, b *ir.Block) {
	lbl.SetBlock(b)
}
