package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSymbolTableIndices(t *testing.T) {
	table := NewSymbolTable("f")
	require.Equal(t, "f", table.FunctionName())

	a := table.InsertParam("a")
	b := table.InsertParam("b")
	c := table.InsertLocal("c")
	d := table.InsertLocal("d")

	require.Equal(t, uint32(0), a.Index())
	require.Equal(t, uint32(1), b.Index())
	require.Equal(t, uint32(2), c.Index())
	require.Equal(t, uint32(3), d.Index())

	require.Equal(t, Param, a.Kind())
	require.Equal(t, Local, c.Kind())

	require.Equal(t, uint32(4), table.Count())
	require.Equal(t, uint32(2), table.ParamCount())
	require.Equal(t, uint32(2), table.LocalCount())
}

func TestSymbolTableResolve(t *testing.T) {
	table := NewSymbolTable("f")
	table.InsertParam("n")
	table.InsertLocal("x")

	sym, ok := table.Resolve("x")
	require.True(t, ok)
	require.Equal(t, "x", sym.Name())
	require.Equal(t, uint32(1), sym.Index())

	_, ok = table.Resolve("y")
	require.False(t, ok)
	require.False(t, table.IsDefined("y"))
	require.True(t, table.IsDefined("n"))
}

func TestSymbolTableRedeclarationKeepsSlot(t *testing.T) {
	table := NewSymbolTable("f")
	table.InsertLocal("x")
	table.InsertLocal("y")
	again := table.InsertLocal("x")

	// Re-declaring x must not claim a fresh slot, or it would collide
	// with y's.
	require.Equal(t, uint32(0), again.Index())
	require.Equal(t, uint32(2), table.Count())

	y, ok := table.Resolve("y")
	require.True(t, ok)
	require.Equal(t, uint32(1), y.Index())
}

func TestSymbolTableNamesOrder(t *testing.T) {
	table := NewSymbolTable("f")
	table.InsertParam("b")
	table.InsertLocal("a")
	table.InsertLocal("c")
	require.Equal(t, []string{"b", "a", "c"}, table.Names())
}

func TestSymbolString(t *testing.T) {
	table := NewSymbolTable("f")
	sym := table.InsertParam("n")
	require.Equal(t, "symbol(param n idx: 0)", sym.String())
}

func TestModuleScopeDeclarationOrder(t *testing.T) {
	scope := NewModuleScope()
	_, ok := scope.Insert("zebra")
	require.True(t, ok)
	_, ok = scope.Insert("apple")
	require.True(t, ok)
	_, ok = scope.Insert("mango")
	require.True(t, ok)

	// Function indices follow declaration order, never name order.
	require.Equal(t, []string{"zebra", "apple", "mango"}, scope.Names())
	idx, ok := scope.FunctionIndex("apple")
	require.True(t, ok)
	require.Equal(t, 1, idx)
	require.Equal(t, 3, scope.Len())
}

func TestModuleScopeDuplicateInsert(t *testing.T) {
	scope := NewModuleScope()
	_, ok := scope.Insert("main")
	require.True(t, ok)
	_, ok = scope.Insert("main")
	require.False(t, ok)
	require.Equal(t, 1, scope.Len())
}

func TestModuleScopeFunctionLookup(t *testing.T) {
	scope := NewModuleScope()
	table, _ := scope.Insert("main")
	table.InsertParam("n")

	found, ok := scope.Function("main")
	require.True(t, ok)
	require.Same(t, table, found)

	_, ok = scope.Function("missing")
	require.False(t, ok)
	_, ok = scope.FunctionIndex("missing")
	require.False(t, ok)
}
