package ir

import "container/list"

// StmtList is the statement container the translator emits into and every
// later stage mutates. It wraps container/list so that a *list.Element
// (what Block.First/Last hold) stays valid across insertion and deletion
// anywhere else in the list — the iterator-stability invariant spec §5
// requires for block endpoints to survive until the next CFG rebuild.
type StmtList struct {
	l *list.List
}

func NewStmtList() *StmtList { return &StmtList{l: list.New()} }

func (s *StmtList) PushBack(stmt Statement) *list.Element { return s.l.PushBack(stmt) }

func (s *StmtList) InsertAfter(stmt Statement, mark *list.Element) *list.Element {
	return s.l.InsertAfter(stmt, mark)
}

func (s *StmtList) Remove(e *list.Element) Statement {
	return s.l.Remove(e).(Statement)
}

// Set replaces the Statement held at e in place, keeping e's identity
// (and thus any Block.First/Last pointing at it) valid. Used by passes
// that rewrite a statement (simplify, fold, value-number) without
// touching the surrounding list structure.
func (s *StmtList) Set(e *list.Element, stmt Statement) { e.Value = stmt }

func (s *StmtList) Front() *list.Element { return s.l.Front() }
func (s *StmtList) Back() *list.Element  { return s.l.Back() }
func (s *StmtList) Len() int             { return s.l.Len() }

// At returns the Statement held by e.
func At(e *list.Element) Statement {
	if e == nil {
		return nil
	}
	return e.Value.(Statement)
}

// AllElements returns every element of the list, for passes that rewrite or
// delete statements function-wide rather than block-by-block.
func (s *StmtList) AllElements() []*list.Element {
	out := make([]*list.Element, 0, s.l.Len())
	for e := s.l.Front(); e != nil; e = e.Next() {
		out = append(out, e)
	}
	return out
}

// Slice materializes the list as a plain slice, for passes that only read.
func (s *StmtList) Slice() []Statement {
	out := make([]Statement, 0, s.l.Len())
	for e := s.l.Front(); e != nil; e = e.Next() {
		out = append(out, At(e))
	}
	return out
}

// Block is a vertex of the CFG: a maximal straight-line run of statements
// delimited by a leading and trailing Label (spec §3). First/Last are
// list.Elements into the owning Function's StmtList; both must hold
// *Label statements, and First == Last for an empty block.
type Block struct {
	First, Last *list.Element
	Preds       []*Block
	Succs       []*Block
	Next        *Block // the textually-next block, for iteration order

	// Dataflow sets, recomputed by the dataflow package on every pass.
	UEVar    map[*Symbol]bool
	VarKill  map[*Symbol]bool
	LiveOut  map[*Symbol]bool
	DECopies map[CopyPair]bool
	CopyKill map[CopyPair]bool
	AvailIn  map[CopyPair]bool
	DEExprs    map[ExprKey]bool
	ExprKill   map[ExprKey]bool
	AvailInExp map[ExprKey]bool
}

// CopyPair is the (result, source) key the available-copies analysis and
// copy propagation are keyed on.
type CopyPair struct {
	Result, Source *Symbol
}

// ExprKey is the (op, left, right) key the available-expressions analysis
// (wired only to the optional CSE pass) is keyed on.
type ExprKey struct {
	Op          Op
	Left, Right *Symbol
}

func (b *Block) Label() *Label { return At(b.First).AsLabel() }

// Stmts iterates the block's "real" statements, skipping the leading and
// trailing Label (spec §3: "iteration over a block's real statements skips
// these two labels").
func (b *Block) Stmts() []Statement {
	var out []Statement
	for e := b.First.Next(); e != nil && e != b.Last; e = e.Next() {
		out = append(out, At(e))
	}
	return out
}

// Elements is like Stmts but yields the list.Elements, for passes that
// need to replace or delete in place.
func (b *Block) Elements() []*list.Element {
	var out []*list.Element
	for e := b.First.Next(); e != nil && e != b.Last; e = e.Next() {
		out = append(out, e)
	}
	return out
}

// Function owns its statement list and all blocks reachable from it. Blocks
// are destroyed and rebuilt wholesale on every CFG rebuild (spec §3); no
// code may hold a *Block across a rebuild.
type Function struct {
	Name    *Symbol
	Params  []*Symbol
	Stmts   *StmtList
	Locals  *SymbolTable
	Entry   *Block
	Exit    *Block
	Blocks  []*Block // in textual order, Entry first
}
