package rustsrc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCleanSource(t *testing.T) {
	f, err := NewParser().Parse(context.Background(), []byte("fn main() {}\n"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, f.HasError())
	assert.Equal(t, "source_file", f.Root().Type())
}

func TestParseBrokenSourceStillYieldsTree(t *testing.T) {
	f, err := NewParser().Parse(context.Background(), []byte("fn broken<T: {\n"))
	require.NoError(t, err)
	defer f.Close()
	assert.True(t, f.HasError())
}

func TestSpanEqual(t *testing.T) {
	a := Span{StartByte: 10, EndByte: 13, Start: Point{Row: 1, Column: 2}, End: Point{Row: 1, Column: 5}}

	assert.True(t, a.Equal(a))

	// Same byte range, drifted points: bytes decide.
	b := a
	b.Start.Column = 9
	assert.True(t, a.Equal(b))

	// Drifted bytes, same points: points decide.
	c := a
	c.StartByte = 20
	c.EndByte = 23
	assert.True(t, a.Equal(c))

	// Both differ: no match.
	d := c
	d.Start.Column = 9
	assert.False(t, a.Equal(d))
}

func TestGenericsNavigation(t *testing.T) {
	f, err := NewParser().Parse(context.Background(),
		[]byte("fn g<'a, T: Clone + Send, const N: usize>(x: &'a T) where T: Sync, 'a: 'a {}\n"))
	require.NoError(t, err)
	defer f.Close()
	require.False(t, f.HasError())

	decl := f.Root().NamedChild(0)
	require.Equal(t, NodeFunctionItem, decl.Type())

	params := GenericParams(TypeParams(decl))
	require.Len(t, params, 3)

	tb := ParamBoundsNode(params[1])
	require.NotNil(t, tb)
	bounds := Bounds(tb)
	require.Len(t, bounds, 2)
	assert.Equal(t, "Clone", f.Text(bounds[0]))
	assert.Equal(t, "Send", f.Text(bounds[1]))
	assert.Equal(t, "T", f.Text(ParamName(params[1])))

	assert.Nil(t, ParamBoundsNode(params[0]))

	preds := WherePredicates(WhereClause(decl))
	require.Len(t, preds, 2)
	assert.True(t, TypeShapedPredicate(preds[0]))
	assert.False(t, TypeShapedPredicate(preds[1]))
	assert.Equal(t, "T", f.Text(PredicateLeft(preds[0])))
}
