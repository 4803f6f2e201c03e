package compiler

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
)

// Kind describes what storage a symbol refers to within a function's
// activation frame.
type Kind string

const (
	// Param is a symbol bound to a function parameter slot.
	Param Kind = "param"

	// Local is a symbol bound to a let-declared local slot.
	Local Kind = "local"
)

// Symbol identifies one storage slot inside a single function's frame.
type Symbol struct {
	name  string
	index uint32
	kind  Kind
}

// Name returns the symbol's source-level name.
func (s *Symbol) Name() string { return s.name }

// Index returns the symbol's storage slot index.
func (s *Symbol) Index() uint32 { return s.index }

// Kind returns whether the symbol is a parameter or a local.
func (s *Symbol) Kind() Kind { return s.kind }

func (s *Symbol) String() string {
	return fmt.Sprintf("symbol(%s %s idx: %d)", s.kind, s.name, s.index)
}

// SymbolTable is one function's flat scope. Indices are assigned
// sequentially starting at zero, parameters first and then let-declared
// locals, in textual order. There is no block scoping: a let inside an if
// or while body writes into this same table.
type SymbolTable struct {
	name    string
	symbols *orderedmap.OrderedMap[string, *Symbol]
	params  uint32
	next    uint32
}

// NewSymbolTable returns an empty symbol table for the named function.
func NewSymbolTable(name string) *SymbolTable {
	return &SymbolTable{
		name:    name,
		symbols: orderedmap.NewOrderedMap[string, *Symbol](),
	}
}

// FunctionName returns the name of the function this table belongs to.
func (t *SymbolTable) FunctionName() string { return t.name }

// InsertParam registers a parameter, assigning the next sequential index.
func (t *SymbolTable) InsertParam(name string) *Symbol {
	sym := &Symbol{name: name, index: t.next, kind: Param}
	t.symbols.Set(name, sym)
	t.next++
	t.params++
	return sym
}

// InsertLocal registers a let-declared local, assigning the next sequential
// index. Re-declaring an existing name replaces the prior symbol but keeps
// its slot, so indices always remain dense and collision free.
func (t *SymbolTable) InsertLocal(name string) *Symbol {
	if prior, ok := t.symbols.Get(name); ok {
		sym := &Symbol{name: name, index: prior.index, kind: prior.kind}
		t.symbols.Set(name, sym)
		return sym
	}
	sym := &Symbol{name: name, index: t.next, kind: Local}
	t.symbols.Set(name, sym)
	t.next++
	return sym
}

// Resolve looks up a name in this table. There is no fallback to any outer
// scope: a miss here means the identifier is undeclared.
func (t *SymbolTable) Resolve(name string) (*Symbol, bool) {
	return t.symbols.Get(name)
}

// IsDefined returns true if the name is declared in this table.
func (t *SymbolTable) IsDefined(name string) bool {
	_, ok := t.symbols.Get(name)
	return ok
}

// Count returns the total number of storage slots (parameters and locals).
func (t *SymbolTable) Count() uint32 { return t.next }

// ParamCount returns the number of parameter slots.
func (t *SymbolTable) ParamCount() uint32 { return t.params }

// LocalCount returns the number of let-declared local slots.
func (t *SymbolTable) LocalCount() uint32 { return t.next - t.params }

// Names returns the declared names in insertion order.
func (t *SymbolTable) Names() []string {
	names := make([]string, 0, t.symbols.Len())
	for el := t.symbols.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}

// ModuleScope maps function names to their symbol tables. Iteration order
// is declaration order, which is also the function index order used for
// call targets and exports.
type ModuleScope struct {
	funcs *orderedmap.OrderedMap[string, *SymbolTable]
}

// NewModuleScope returns an empty module scope.
func NewModuleScope() *ModuleScope {
	return &ModuleScope{funcs: orderedmap.NewOrderedMap[string, *SymbolTable]()}
}

// Insert registers a function name bound to a fresh empty symbol table.
// Returns false if the name is already declared.
func (m *ModuleScope) Insert(name string) (*SymbolTable, bool) {
	if _, ok := m.funcs.Get(name); ok {
		return nil, false
	}
	table := NewSymbolTable(name)
	m.funcs.Set(name, table)
	return table, true
}

// Function returns the symbol table for the named function.
func (m *ModuleScope) Function(name string) (*SymbolTable, bool) {
	return m.funcs.Get(name)
}

// FunctionIndex returns the declaration-order index of the named function.
func (m *ModuleScope) FunctionIndex(name string) (int, bool) {
	var i int
	for el := m.funcs.Front(); el != nil; el = el.Next() {
		if el.Key == name {
			return i, true
		}
		i++
	}
	return 0, false
}

// Names returns the declared function names in declaration order.
func (m *ModuleScope) Names() []string {
	names := make([]string, 0, m.funcs.Len())
	for el := m.funcs.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}

// Len returns the number of declared functions.
func (m *ModuleScope) Len() int { return m.funcs.Len() }
