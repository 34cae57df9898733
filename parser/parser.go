// Package parser implements the grammar driver spec.md §4.2 describes: a
// hand-written recursive descent scan over lexer.Token that reduces each
// production by calling straight into a builder.Builder. The parser uses
// nothing from the ast package except ast.Loc; every value it passes to
// the builder, and every value it gets back, is opaque.
package parser

import (
	"fmt"

	"github.com/ledgerparse/ledgerparse/ast"
	"github.com/ledgerparse/ledgerparse/builder"
	"github.com/ledgerparse/ledgerparse/lexer"
)

// Parser drives one lexer.Lexer over one Builder for the duration of a
// single file. Like the Lexer it wraps, it is not safe for concurrent
// use.
type Parser struct {
	source   []byte
	filename string
	lx       *lexer.Lexer
	build    builder.Builder

	cur    lexer.Token
	peeked *lexer.Token

	errorCount int
}

// New returns a Parser ready to scan source. The builder b receives every
// constructor and hook call the grammar's productions make as Run
// proceeds.
func New(source []byte, filename string, b builder.Builder) *Parser {
	p := &Parser{source: source, filename: filename, lx: lexer.New(source, filename, b), build: b}
	p.cur = p.lx.Next()
	return p
}

// Parse scans source in full, driving b. It never returns a non-nil error
// for malformed input — malformed input is reported through b.Error and
// recovered from at the next line boundary, per spec.md §7. A non-nil
// error here means the parse could not run at all.
func Parse(source []byte, filename string, b builder.Builder) error {
	New(source, filename, b).Run()
	return nil
}

// ParseString is a convenience wrapper over Parse for callers holding a
// string rather than a byte slice.
func ParseString(source string, filename string, b builder.Builder) error {
	return Parse([]byte(source), filename, b)
}

// Run scans the whole token stream, reducing one top-level declaration at
// a time until EOF, then makes the single terminal StoreResult call over
// everything reduced, in source order, per spec.md §4.2's
// `store_result(declarations)` and §6.
func (p *Parser) Run() {
	var declarations any
	for {
		p.skipBlankLines()
		if p.at(lexer.EOF) {
			break
		}
		if item := p.parseDeclaration(); item != nil {
			declarations = p.build.HandleList(declarations, item)
		}
	}
	p.build.StoreResult(declarations)
}

// --- token stream navigation ---

func (p *Parser) at(k lexer.Kind) bool { return p.cur.Kind == k }

func (p *Parser) advance() lexer.Token {
	tok := p.cur
	if p.peeked != nil {
		p.cur = *p.peeked
		p.peeked = nil
	} else {
		p.cur = p.lx.Next()
	}
	return tok
}

func (p *Parser) peekNext() lexer.Token {
	if p.peeked == nil {
		t := p.lx.Next()
		p.peeked = &t
	}
	return *p.peeked
}

// match consumes and returns the current token if it has kind k.
func (p *Parser) match(k lexer.Kind) (lexer.Token, bool) {
	if p.cur.Kind == k {
		return p.advance(), true
	}
	return lexer.Token{}, false
}

// expect consumes the current token if it has kind k, reporting an error
// through the builder otherwise. On failure it returns a Token of kind k
// at the current position with a nil Value and no text, so callers can
// keep building with a sensible default.
func (p *Parser) expect(k lexer.Kind, what string) lexer.Token {
	if tok, ok := p.match(k); ok {
		return tok
	}
	p.errorf("expected %s, found %s", what, p.cur.Kind)
	return lexer.Token{Kind: k, Line: p.cur.Line, Column: p.cur.Column}
}

func (p *Parser) loc() ast.Loc {
	return ast.Loc{Filename: p.filename, Line: p.cur.Line, Column: p.cur.Column}
}

func (p *Parser) tokenLoc(tok lexer.Token) ast.Loc {
	return ast.Loc{Filename: p.filename, Line: tok.Line, Column: tok.Column}
}

func (p *Parser) errorf(format string, args ...any) {
	p.errorCount++
	p.build.Error(p.loc(), fmt.Sprintf(format, args...))
}

// skipToEOL implements spec.md §7's recovery production, declarations :=
// declarations error: discard tokens through the next EOL (or EOF) and
// resume top-level declaration parsing from there. This path reports one
// error and discards everything after the bad token on that line without
// further reports. Errors that a directive's own expect or eol calls
// raised earlier on the same line are reported separately, so a line such
// as "2014-01-01 open ???" produces more than one error report.
func (p *Parser) skipToEOL() {
	for !p.at(lexer.EOL) && !p.at(lexer.EOF) {
		p.advance()
	}
	p.match(lexer.EOL)
}

// skipBlankLines consumes every EOL, COMMENT and stray whitespace-only
// line at the top level, the grammar's empty_line alternative.
func (p *Parser) skipBlankLines() {
	for {
		switch p.cur.Kind {
		case lexer.EOL:
			p.advance()
		case lexer.COMMENT:
			p.advance()
		default:
			return
		}
	}
}

func (p *Parser) eol() {
	// The four expected shift/reduce conflicts spec.md §9 calls out all
	// live here, at the boundary between one declaration's trailing eol
	// and the next line's leading content: a COMMENT, a blank line, or
	// immediate EOF can all follow a declaration's last real token
	// before the newline. Preferring to shift (consume whatever is here
	// rather than reduce early) is what keeps inline trailing comments
	// attached to the directive that precedes them instead of starting
	// a new, empty declaration.
	for p.at(lexer.COMMENT) {
		p.advance()
	}
	if p.at(lexer.EOF) {
		return
	}
	p.expect(lexer.EOL, "end of line")
}
