// Package rustsrc wraps the tree-sitter Rust grammar behind the small
// surface the rest of winnow needs: parsing source into a tree, addressing
// nodes by span, and navigating generic parameter lists and where clauses.
package rustsrc

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// Parser parses Rust source files. It is not safe for concurrent use;
// the engine is sequential per file, so one parser per engine suffices.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a parser configured for the Rust grammar.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(rust.GetLanguage())
	return &Parser{parser: p}
}

// File is one parsed source snapshot: the exact bytes plus the tree produced
// from them. Node byte offsets index into Src.
type File struct {
	Src  []byte
	tree *sitter.Tree
}

// Parse parses src into a fresh File.
func (p *Parser) Parse(ctx context.Context, src []byte) (*File, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing rust source: %w", err)
	}
	return &File{Src: src, tree: tree}, nil
}

// Root returns the root node of the parse tree.
func (f *File) Root() *sitter.Node {
	return f.tree.RootNode()
}

// HasError reports whether the tree contains syntax errors. tree-sitter
// always produces a tree; callers treat an erroneous one as a parse failure.
func (f *File) HasError() bool {
	return f.tree.RootNode().HasError()
}

// Close releases the underlying tree.
func (f *File) Close() {
	f.tree.Close()
}

// Text returns the source text covered by n.
func (f *File) Text(n *sitter.Node) string {
	return n.Content(f.Src)
}

// Point is a zero-based line/column position.
type Point struct {
	Row    uint32
	Column uint32
}

// Span is the structural address of one token or node: its byte range in the
// file plus the equivalent line/column range. Byte ranges are the primary
// identity; points are kept as a fallback for comparing spans produced by
// independent parses.
type Span struct {
	StartByte uint32
	EndByte   uint32
	Start     Point
	End       Point
}

// NodeSpan captures the span of n.
func NodeSpan(n *sitter.Node) Span {
	sp := n.StartPoint()
	ep := n.EndPoint()
	return Span{
		StartByte: n.StartByte(),
		EndByte:   n.EndByte(),
		Start:     Point{Row: sp.Row, Column: sp.Column},
		End:       Point{Row: ep.Row, Column: ep.Column},
	}
}

// Equal compares spans by byte range, falling back to line/column equality
// when the byte ranges disagree.
func (s Span) Equal(o Span) bool {
	if s.StartByte == o.StartByte && s.EndByte == o.EndByte {
		return true
	}
	return s.Start == o.Start && s.End == o.End
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Row+1, s.Start.Column+1, s.End.Row+1, s.End.Column+1)
}
