package parser

import (
	"github.com/ledgerparse/ledgerparse/ast"
	"github.com/ledgerparse/ledgerparse/lexer"
)

// parseTransaction reduces spec.md's transaction production: a flag
// (spelled out with the txn keyword, or bare), an optional payee and
// narration, any number of tags and links, an optional trailing comment,
// optional metadata lines, and then zero or more indented postings.
func (p *Parser) parseTransaction(loc ast.Loc, date any) any {
	var flag byte

	switch p.cur.Kind {
	case lexer.TXN:
		p.advance()
		if tok, ok := p.match(lexer.FLAG); ok {
			flag = flagByte(tok, p.source)
		} else {
			flag = '*'
		}
	case lexer.FLAG:
		flag = flagByte(p.advance(), p.source)
	case lexer.STRING:
		// A bare narration with no txn keyword and no flag is the
		// shorthand padding-transaction form; beancount marks these
		// with the synthetic flag 'P'.
		flag = 'P'
	default:
		p.errorf("expected txn or a flag, found %s", p.cur.Kind)
	}

	var payee, narration any
	if p.at(lexer.STRING) {
		first := p.advance()
		if _, ok := p.match(lexer.PIPE); ok {
			second := p.expect(lexer.STRING, "narration string")
			payee = first.Value
			narration = second.Value
		} else if p.at(lexer.STRING) {
			// A second STRING with no PIPE between them isn't a
			// production this grammar has. Report it, then consume the
			// second string as the narration anyway so tags, links and
			// postings still have a chance to parse instead of
			// cascading into further spurious errors.
			p.errorf("expected '|' between payee and narration, found %s", p.cur.Kind)
			second := p.advance()
			narration = second.Value
		} else {
			narration = first.Value
		}
	}

	var tags, links any
	for p.at(lexer.TAG) || p.at(lexer.LINK) {
		tok := p.advance()
		if tok.Kind == lexer.TAG {
			tags = p.build.HandleList(tags, tok.Value)
		} else {
			links = p.build.HandleList(links, tok.Value)
		}
	}

	if p.at(lexer.COMMENT) {
		p.advance()
	}
	p.eol()

	metadata := p.parseMetadataLines()
	postings := p.parsePostings()

	directive := p.build.Transaction(loc, date, flag, payee, narration, tags, links, postings)
	p.build.AttachMetadata(directive, metadata)
	return directive
}

func flagByte(tok lexer.Token, source []byte) byte {
	text := tok.Text(source)
	if len(text) == 0 {
		return 0
	}
	return text[0]
}

// parsePostings reduces the grammar's `posting_list`: every consecutive
// indented line that opens with an ACCOUNT or a posting-level FLAG
// belongs to the transaction just parsed. The first line that is either
// unindented or doesn't open that way ends the list; it is left
// unconsumed for the top-level Run loop to dispatch next.
func (p *Parser) parsePostings() any {
	var list any
	for {
		p.skipIndentedComments()
		if !(p.cur.Column > 1 && (p.at(lexer.ACCOUNT) || p.at(lexer.FLAG))) {
			break
		}
		list = p.build.HandleList(list, p.parsePosting())
	}
	return list
}

// skipIndentedComments consumes comment-only lines nested under a
// directive or transaction, so a comment between two postings (or two
// metadata lines) doesn't look like the end of the indented block.
func (p *Parser) skipIndentedComments() {
	for p.cur.Column > 1 && p.at(lexer.COMMENT) {
		p.advance()
		p.match(lexer.EOL)
	}
}

func (p *Parser) parsePosting() any {
	loc := p.loc()

	var flag byte
	if tok, ok := p.match(lexer.FLAG); ok {
		flag = flagByte(tok, p.source)
	}

	accountTok := p.expect(lexer.ACCOUNT, "account")

	var position any
	if p.at(lexer.NUMBER) {
		amount := p.parseAmount()
		var lotCostDate any
		if _, ok := p.match(lexer.LCURL); ok {
			totalCost := p.match2(lexer.LCURL)
			lotCostDate = p.parseLotCostSpec()
			p.expect(lexer.RCURL, "'}'")
			if totalCost {
				p.expect(lexer.RCURL, "'}'")
			}
		}
		position = p.build.Position(amount, lotCostDate)
	}

	var price any
	var priceIsTotal bool
	if _, ok := p.match(lexer.AT); ok {
		price = p.parseAmount()
	} else if _, ok := p.match(lexer.ATAT); ok {
		price = p.parseAmount()
		priceIsTotal = true
	}

	if p.at(lexer.COMMENT) {
		p.advance()
	}
	p.eol()

	metadata := p.parseMetadataLines()

	posting := p.build.Posting(loc, flag, accountTok.Value, position, price, priceIsTotal)
	p.build.AttachMetadata(posting, metadata)
	return posting
}

// parseLotCostSpec reduces the contents of a cost specification between
// `{` and `}`: an optional amount, followed by an optional acquisition
// date introduced by ',' or '/'.
func (p *Parser) parseLotCostSpec() any {
	var amount any
	if p.at(lexer.NUMBER) {
		amount = p.parseAmount()
	}

	var date any
	switch {
	case p.match2(lexer.COMMA):
		if tok, ok := p.match(lexer.DATE); ok {
			date = tok.Value
		}
	case p.match2(lexer.SLASH):
		if tok, ok := p.match(lexer.DATE); ok {
			date = tok.Value
		}
	}

	return p.build.LotCostDate(amount, date)
}

func (p *Parser) match2(k lexer.Kind) bool {
	_, ok := p.match(k)
	return ok
}
