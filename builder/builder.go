// Package builder declares the contract the parser drives while reducing a
// ledger file, and a default implementation of that contract that produces
// ast.File values. The lexer and parser only ever see opaque values through
// this interface; neither uses anything from the ast package except ast.Loc.
package builder

import "github.com/ledgerparse/ledgerparse/ast"

// Builder is the single seam between the grammar-driving lexer/parser and
// whatever a caller wants built from a ledger file. A Builder never fails a
// construction call outright; malformed input is reported through Error and
// the parser decides how to recover. Every value returned from a
// constructor is opaque to the parser: it is stored and later handed back
// unchanged to a later constructor call or to StoreResult.
//
// Methods are grouped the way spec.md §4.3 groups them: value constructors
// the lexer calls as it recognizes a literal token, directive and list
// constructors the parser calls as it reduces a production, and
// side-effecting hooks for state that spans an entire parse session.
type Builder interface {
	// Value constructors. text is the raw lexeme; loc is its first
	// position in the source. The lexer calls exactly one of these per
	// literal token it emits, and stores the result on the Token.
	MakeDate(text string, loc ast.Loc) any
	MakeAccount(text string, loc ast.Loc) any
	MakeCurrency(text string, loc ast.Loc) any
	MakeString(text string, loc ast.Loc) any
	MakeNumber(text string, loc ast.Loc) any
	MakeTag(text string, loc ast.Loc) any
	MakeLink(text string, loc ast.Loc) any

	// HandleList is the functional list accumulator spec.md §9 calls for:
	// given the previous list value (nil for the first item) and a new
	// item, it returns the new list value. Builders commonly implement
	// this as append-and-return on a typed slice wrapped in any.
	HandleList(list any, item any) any

	// Directive and list constructors, invoked by the parser as it
	// reduces each production. Every argument is either a value produced
	// by one of the constructors above, a value returned from another
	// constructor below, or nil when the corresponding grammar element
	// was optional and absent.
	Amount(number, currency any) any
	LotCostDate(amount any, date any) any
	Position(amount any, lotCostDate any) any
	Posting(loc ast.Loc, flag byte, account any, position any, price any, priceIsTotal bool) any
	Transaction(loc ast.Loc, date any, flag byte, payee any, narration any, tags any, links any, postings any) any
	Open(loc ast.Loc, date any, account any, currencies any) any
	Close(loc ast.Loc, date any, account any) any
	Pad(loc ast.Loc, date any, account any, accountPad any) any
	Check(loc ast.Loc, date any, account any, amount any) any
	Price(loc ast.Loc, date any, currency any, amount any) any
	Event(loc ast.Loc, date any, eventType any, description any) any
	Note(loc ast.Loc, date any, account any, comment any) any
	Document(loc ast.Loc, date any, account any, filename any) any
	Commodity(loc ast.Loc, date any, currency any) any
	Include(loc ast.Loc, filename any) any
	Metadata(key string, value any) any

	// AttachMetadata folds a list of Metadata values (built via HandleList
	// over Metadata calls) onto a directive or posting already returned
	// by one of the constructors above. metadata is nil when the
	// production matched zero metadata lines.
	AttachMetadata(directive any, metadata any)

	// Side-effecting hooks. These mutate state that outlives any single
	// directive: the tag/metadata stacks, the option table, and the
	// error log.
	PushTag(tag any)
	PopTag(tag any)
	PushMeta(key string, value any)
	PopMeta(key string)
	Option(name any, value any)
	Error(loc ast.Loc, message string)

	// StoreResult is the terminal call for the whole file: declarations
	// is the list (built via HandleList, in source order) of every
	// directive and include the grammar reduced. The parser calls this
	// exactly once, after Run reaches EOF.
	StoreResult(declarations any)
}
