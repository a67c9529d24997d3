package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winnow/internal/rustsrc"
)

func parseSrc(t *testing.T, src string) *rustsrc.File {
	t.Helper()
	f, err := rustsrc.NewParser().Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	require.False(t, f.HasError(), "fixture must parse cleanly:\n%s", src)
	t.Cleanup(f.Close)
	return f
}

func labels(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}

func TestExtractFunction(t *testing.T) {
	f := parseSrc(t, `
fn foo<T: Copy>() where T: Clone {
    let _x: i32 = 1;
}
`)
	items := Extract(f)
	require.Len(t, items, 1)
	assert.Equal(t, "// fn foo", items[0].Label)
	assert.Equal(t, KindFunction, items[0].Kind)
	assert.Equal(t, "foo", items[0].Name)
}

func TestExtractFunctionNoBounds(t *testing.T) {
	f := parseSrc(t, `fn bar() {}`)
	assert.Empty(t, Extract(f))
}

func TestExtractFunctionInModule(t *testing.T) {
	f := parseSrc(t, `
mod outer {
    fn foo<T: Copy>() {}
}
`)
	items := Extract(f)
	require.Len(t, items, 1)
	assert.Equal(t, "// fn foo", items[0].Label)
}

func TestExtractStruct(t *testing.T) {
	f := parseSrc(t, `
struct Bar<T: Copy> where T: Clone {
    a: T,
}
`)
	items := Extract(f)
	require.Len(t, items, 1)
	assert.Equal(t, "// struct Bar", items[0].Label)
	assert.Equal(t, KindStruct, items[0].Kind)
}

func TestExtractStructNoBounds(t *testing.T) {
	f := parseSrc(t, `
struct Baz {
    a: i32,
}
`)
	assert.Empty(t, Extract(f))
}

func TestExtractEnum(t *testing.T) {
	f := parseSrc(t, `
enum Baz<T: Copy> where T: Clone {
    A(T),
    B,
}
`)
	items := Extract(f)
	require.Len(t, items, 1)
	assert.Equal(t, "// enum Baz", items[0].Label)
}

func TestExtractTraitAndMethods(t *testing.T) {
	f := parseSrc(t, `
trait Qux<T: Copy> where T: Clone {
    fn a<U>(&self) where U: Default;
    fn b(&self) -> i32;
}
`)
	got := labels(Extract(f))
	assert.Contains(t, got, "// trait Qux")
	assert.Contains(t, got, "// trait Qux::a")
	assert.NotContains(t, got, "// trait Qux::b")
}

func TestExtractTraitMethodOnlyWhenTraitUnbounded(t *testing.T) {
	// The method's own bounds are an item even when the trait has none.
	f := parseSrc(t, `
trait Storage {
    fn load<K>(&self, key: K) -> String
    where
        K: Ord;
}
`)
	items := Extract(f)
	require.Len(t, items, 1)
	assert.Equal(t, KindTraitMethod, items[0].Kind)
	assert.Equal(t, "// trait Storage::load", items[0].Label)
	assert.Equal(t, "Storage", items[0].Owner)
}

func TestExtractTraitImplAndMethods(t *testing.T) {
	f := parseSrc(t, `
trait Tr { fn m(&self); }
struct S;
impl<T: Copy> Tr for S where T: Clone {
    fn m<U: Default>(&self) {}
    fn n(&self) {}
}
`)
	got := labels(Extract(f))
	assert.Contains(t, got, "// impl Tr for S")
	assert.Contains(t, got, "// Tr for S::m")
	assert.NotContains(t, got, "// Tr for S::n")
}

func TestExtractInherentImplAndMethods(t *testing.T) {
	f := parseSrc(t, `
struct S;
impl<T: Copy> S where T: Clone {
    fn foo<U: Default>(&self) {}
    fn bar(&self) {}
}
`)
	got := labels(Extract(f))
	assert.Contains(t, got, "// impl S")
	assert.Contains(t, got, "// S::foo")
	assert.NotContains(t, got, "// S::bar")
}

func TestExtractImplNoBounds(t *testing.T) {
	f := parseSrc(t, `
struct S;
impl S {
    fn foo(&self) {}
}
`)
	assert.Empty(t, Extract(f))
}

func TestExtractSourceOrder(t *testing.T) {
	f := parseSrc(t, `
fn first<A: Clone>() {}
struct Mid<B: Copy>(B);
fn last<C: Send>() {}
`)
	got := labels(Extract(f))
	assert.Equal(t, []string{"// fn first", "// struct Mid", "// fn last"}, got)
}

func TestParamCoordinateIndices(t *testing.T) {
	// Lifetimes count toward the parameter index; only bounded type
	// parameters become coordinates.
	f := parseSrc(t, `
fn gen<'a, T: Clone + Send, U>(x: &'a T, y: U) where U: Sync {}
`)
	items := Extract(f)
	require.Len(t, items, 1)
	it := items[0]

	require.Len(t, it.Params, 1)
	assert.Equal(t, "T", it.Params[0].Ident)
	assert.Equal(t, 1, it.Params[0].ParamIndex)
	assert.Equal(t, []string{"Clone", "Send"}, it.Params[0].Bounds)

	require.Len(t, it.Wheres, 1)
	assert.Equal(t, "U", it.Wheres[0].BoundedType)
	assert.Equal(t, 0, it.Wheres[0].PredIndex)
	assert.Equal(t, []string{"Sync"}, it.Wheres[0].Bounds)
}

func TestWherePredicateIndicesCountAllPredicates(t *testing.T) {
	// The lifetime predicate occupies index 0 but is not a site.
	f := parseSrc(t, `
fn h<'a, 'b, T>(x: &'a T, y: &'b T) where 'a: 'b, T: Clone {}
`)
	items := Extract(f)
	require.Len(t, items, 1)
	require.Len(t, items[0].Wheres, 1)
	assert.Equal(t, 1, items[0].Wheres[0].PredIndex)
	assert.Equal(t, "T", items[0].Wheres[0].BoundedType)
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"function", "struct", "enum", "trait", "impl", "trait-method", "impl-method"} {
		k, ok := ParseKind(name)
		require.True(t, ok, name)
		assert.Equal(t, name, k.String())
	}
	_, ok := ParseKind("module")
	assert.False(t, ok)
}
