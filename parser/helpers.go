package parser

import "github.com/ledgerparse/ledgerparse/lexer"

// parseAmount reduces the grammar's `amount := NUMBER CURRENCY` production.
func (p *Parser) parseAmount() any {
	numberTok := p.expect(lexer.NUMBER, "number")
	currencyTok := p.expect(lexer.CURRENCY, "currency")
	return p.build.Amount(numberTok.Value, currencyTok.Value)
}

// parseCurrencyList reduces the optional comma-separated constraint
// currency list on an open directive. It returns nil, not an empty list
// value, when no currency is present.
func (p *Parser) parseCurrencyList() any {
	if !p.at(lexer.CURRENCY) {
		return nil
	}
	var list any
	for {
		tok, ok := p.match(lexer.CURRENCY)
		if !ok {
			break
		}
		list = p.build.HandleList(list, tok.Value)
		if _, ok := p.match(lexer.COMMA); !ok {
			break
		}
	}
	return list
}

// parseMetadataValue reduces the value half of a `KEY COLON value` line.
// Only the literal kinds that can sensibly stand alone as a metadata
// value are accepted; anything else leaves the value nil and the token
// in place for the surrounding eol() call to complain about.
func (p *Parser) parseMetadataValue() any {
	switch p.cur.Kind {
	case lexer.STRING, lexer.NUMBER, lexer.CURRENCY, lexer.ACCOUNT, lexer.DATE, lexer.TAG, lexer.LINK:
		return p.advance().Value
	default:
		return nil
	}
}

// parseMetadataLines reduces zero or more indented `IDENT COLON value eol`
// lines following a directive or posting header. It must be called right
// after that header's own eol() has already run, so p.cur already holds
// the first token of whatever line follows; that token's Column tells us
// whether the line is indented at all.
func (p *Parser) parseMetadataLines() any {
	var list any
	for {
		p.skipIndentedComments()
		if !(p.cur.Column > 1 && p.at(lexer.IDENT)) {
			break
		}
		keyTok := p.advance()
		p.expect(lexer.COLON, "':'")
		value := p.parseMetadataValue()
		item := p.build.Metadata(keyTok.Text(p.source), value)
		list = p.build.HandleList(list, item)
		p.eol()
	}
	return list
}
