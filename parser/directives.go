package parser

import (
	"github.com/ledgerparse/ledgerparse/ast"
	"github.com/ledgerparse/ledgerparse/lexer"
)

// parseDeclaration reduces the grammar's top-level `declaration`
// non-terminal, returning the directive or include it built for the
// caller to accumulate (nil for a declaration, like option or pushtag,
// that has no result of its own). A declaration that matches nothing
// recognizable falls into the error-recovery production (spec.md §7):
// one diagnostic is reported and the rest of the physical line is
// discarded.
func (p *Parser) parseDeclaration() any {
	switch p.cur.Kind {
	case lexer.DATE:
		return p.parseDatedEntry()
	case lexer.OPTION:
		p.parseOption()
	case lexer.PUSHTAG:
		p.parsePushtag()
	case lexer.POPTAG:
		p.parsePoptag()
	case lexer.PUSHMETA:
		p.parsePushmeta()
	case lexer.POPMETA:
		p.parsePopmeta()
	case lexer.INCLUDE:
		return p.parseInclude()
	default:
		p.errorf("unexpected %s at start of declaration", p.cur.Kind)
		p.skipToEOL()
	}
	return nil
}

// parseDatedEntry reduces `DATE entry_body eol`, dispatching on whichever
// keyword (or transaction-opening token) follows the date.
func (p *Parser) parseDatedEntry() any {
	loc := p.loc()
	dateTok := p.expect(lexer.DATE, "date")
	date := dateTok.Value

	switch p.cur.Kind {
	case lexer.OPEN:
		return p.parseOpen(loc, date)
	case lexer.CLOSE:
		return p.parseClose(loc, date)
	case lexer.PAD:
		return p.parsePad(loc, date)
	case lexer.CHECK:
		return p.parseCheck(loc, date)
	case lexer.PRICE:
		return p.parsePrice(loc, date)
	case lexer.EVENT:
		return p.parseEvent(loc, date)
	case lexer.NOTE:
		return p.parseNote(loc, date)
	case lexer.DOCUMENT:
		return p.parseDocument(loc, date)
	case lexer.COMMODITY:
		return p.parseCommodity(loc, date)
	case lexer.TXN, lexer.FLAG, lexer.STRING:
		return p.parseTransaction(loc, date)
	default:
		p.errorf("unexpected %s after date", p.cur.Kind)
		p.skipToEOL()
	}
	return nil
}

func (p *Parser) parseOpen(loc ast.Loc, date any) any {
	p.advance() // OPEN
	accountTok := p.expect(lexer.ACCOUNT, "account")
	currencies := p.parseCurrencyList()
	p.eol()
	metadata := p.parseMetadataLines()

	directive := p.build.Open(loc, date, accountTok.Value, currencies)
	p.build.AttachMetadata(directive, metadata)
	return directive
}

func (p *Parser) parseClose(loc ast.Loc, date any) any {
	p.advance() // CLOSE
	accountTok := p.expect(lexer.ACCOUNT, "account")
	p.eol()
	metadata := p.parseMetadataLines()

	directive := p.build.Close(loc, date, accountTok.Value)
	p.build.AttachMetadata(directive, metadata)
	return directive
}

func (p *Parser) parsePad(loc ast.Loc, date any) any {
	p.advance() // PAD
	accountTok := p.expect(lexer.ACCOUNT, "account")
	padAccountTok := p.expect(lexer.ACCOUNT, "pad source account")
	p.eol()
	metadata := p.parseMetadataLines()

	directive := p.build.Pad(loc, date, accountTok.Value, padAccountTok.Value)
	p.build.AttachMetadata(directive, metadata)
	return directive
}

func (p *Parser) parseCheck(loc ast.Loc, date any) any {
	p.advance() // CHECK
	accountTok := p.expect(lexer.ACCOUNT, "account")
	amount := p.parseAmount()
	p.eol()
	metadata := p.parseMetadataLines()

	directive := p.build.Check(loc, date, accountTok.Value, amount)
	p.build.AttachMetadata(directive, metadata)
	return directive
}

func (p *Parser) parsePrice(loc ast.Loc, date any) any {
	p.advance() // PRICE
	currencyTok := p.expect(lexer.CURRENCY, "currency")
	amount := p.parseAmount()
	p.eol()
	metadata := p.parseMetadataLines()

	directive := p.build.Price(loc, date, currencyTok.Value, amount)
	p.build.AttachMetadata(directive, metadata)
	return directive
}

func (p *Parser) parseEvent(loc ast.Loc, date any) any {
	p.advance() // EVENT
	typeTok := p.expect(lexer.STRING, "event type string")
	descTok := p.expect(lexer.STRING, "event description string")
	p.eol()
	metadata := p.parseMetadataLines()

	directive := p.build.Event(loc, date, typeTok.Value, descTok.Value)
	p.build.AttachMetadata(directive, metadata)
	return directive
}

func (p *Parser) parseNote(loc ast.Loc, date any) any {
	p.advance() // NOTE
	accountTok := p.expect(lexer.ACCOUNT, "account")
	commentTok := p.expect(lexer.STRING, "comment string")
	p.eol()
	metadata := p.parseMetadataLines()

	directive := p.build.Note(loc, date, accountTok.Value, commentTok.Value)
	p.build.AttachMetadata(directive, metadata)
	return directive
}

func (p *Parser) parseDocument(loc ast.Loc, date any) any {
	p.advance() // DOCUMENT
	accountTok := p.expect(lexer.ACCOUNT, "account")
	filenameTok := p.expect(lexer.STRING, "filename string")
	p.eol()
	metadata := p.parseMetadataLines()

	directive := p.build.Document(loc, date, accountTok.Value, filenameTok.Value)
	p.build.AttachMetadata(directive, metadata)
	return directive
}

func (p *Parser) parseCommodity(loc ast.Loc, date any) any {
	p.advance() // COMMODITY
	currencyTok := p.expect(lexer.CURRENCY, "currency")
	p.eol()
	metadata := p.parseMetadataLines()

	directive := p.build.Commodity(loc, date, currencyTok.Value)
	p.build.AttachMetadata(directive, metadata)
	return directive
}

func (p *Parser) parseOption() {
	p.advance() // OPTION
	nameTok := p.expect(lexer.STRING, "option name string")
	valueTok := p.expect(lexer.STRING, "option value string")
	p.build.Option(nameTok.Value, valueTok.Value)
	p.eol()
}

func (p *Parser) parsePushtag() {
	p.advance() // PUSHTAG
	tagTok := p.expect(lexer.TAG, "tag")
	p.build.PushTag(tagTok.Value)
	p.eol()
}

func (p *Parser) parsePoptag() {
	p.advance() // POPTAG
	tagTok := p.expect(lexer.TAG, "tag")
	p.build.PopTag(tagTok.Value)
	p.eol()
}

func (p *Parser) parsePushmeta() {
	p.advance() // PUSHMETA
	keyTok := p.expect(lexer.IDENT, "metadata key")
	p.expect(lexer.COLON, "':'")
	value := p.parseMetadataValue()
	p.build.PushMeta(keyTok.Text(p.source), value)
	p.eol()
}

func (p *Parser) parsePopmeta() {
	p.advance() // POPMETA
	keyTok := p.expect(lexer.IDENT, "metadata key")
	p.build.PopMeta(keyTok.Text(p.source))
	p.eol()
}

func (p *Parser) parseInclude() any {
	loc := p.loc()
	p.advance() // INCLUDE
	filenameTok := p.expect(lexer.STRING, "filename string")
	directive := p.build.Include(loc, filenameTok.Value)
	p.eol()
	return directive
}
