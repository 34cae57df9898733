// Package ast declares the host-side value and directive types a Builder
// constructs while a ledger file is lexed and parsed. Nothing in this
// package does any parsing itself; it is the concrete realization of the
// opaque values the lexer and parser pass back and forth through the
// builder.Builder contract.
package ast

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Loc is a source location: a single file/line/column point. Directives
// and tokens carry the first point of their lexical extent. Line is the
// 1-based physical line of the file; no first-line offset is applied.
type Loc struct {
	Filename string
	Line     int
	Column   int
}

func (l Loc) String() string {
	if l.Filename == "" {
		return fmt.Sprintf("line %d", l.Line)
	}
	return fmt.Sprintf("%s:%d", l.Filename, l.Line)
}

// Date is a calendar date parsed directly from its three lexeme fields,
// independent of which separator ('-' or '/') the source used.
type Date struct {
	Year, Month, Day int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Before reports whether d sorts strictly earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// Account is a colon-delimited account name, e.g. "Assets:Cash". Interned
// by the builder.
type Account string

// Currency is an uppercase currency or commodity code, e.g. "USD".
// Interned by the builder.
type Currency string

// Tag is a transaction tag with its leading '#' already stripped.
type Tag string

// Link is a transaction link with its leading '^' already stripped.
type Link string

// Number holds the exact decimal value of a NUMBER lexeme alongside the
// original source text, so re-lexing Text always reproduces the same
// token (spec.md §8, "round-trip of numeric lexemes").
type Number struct {
	Text    string
	Decimal decimal.Decimal
}

func (n Number) String() string { return n.Text }

// Amount pairs a Number with its Currency.
type Amount struct {
	Number   Number
	Currency Currency
}

func (a Amount) String() string {
	return fmt.Sprintf("%s %s", a.Number.Text, a.Currency)
}

// LotCostDate is the optional acquisition date inside a cost
// specification: `{AMOUNT/DATE}`.
type LotCostDate struct {
	Amount Amount
	Date   *Date
}

// Position is the grammar's `position` non-terminal: an amount with an
// optional lot/cost/date annotation in braces.
type Position struct {
	Amount      Amount
	LotCostDate *LotCostDate
}

// Metadata is a `key: value` line attached to a directive or posting.
type Metadata struct {
	Key   string
	Value string
}

// WithMetadata is implemented by every record type that can carry
// metadata lines.
type WithMetadata interface {
	AddMetadata(*Metadata)
}

type withMetadata struct {
	Metadata []*Metadata
}

func (w *withMetadata) AddMetadata(m *Metadata) {
	w.Metadata = append(w.Metadata, m)
}

// Directive is implemented by every top-level record the builder's
// StoreResult call receives, except Include.
type Directive interface {
	WithMetadata
	Loc() Loc
	Keyword() string
}

// Posting is a single leg of a Transaction.
type Posting struct {
	withMetadata

	Loc          Loc
	Flag         byte // 0 if absent
	Account      Account
	Position     *Position
	Price        *Amount
	PriceIsTotal bool
}

// Transaction records a dated, flagged entry with zero or more postings.
type Transaction struct {
	withMetadata

	L        Loc
	Date     Date
	Flag     byte
	Payee    *string
	Narration string
	Tags     []Tag
	Links    []Link
	Postings []*Posting
}

func (t *Transaction) Loc() Loc        { return t.L }
func (t *Transaction) Keyword() string { return "transaction" }

var _ Directive = &Transaction{}

// Open declares the opening of an account, optionally constrained to a
// set of currencies.
type Open struct {
	withMetadata

	L          Loc
	Date       Date
	Account    Account
	Currencies []Currency
}

func (o *Open) Loc() Loc        { return o.L }
func (o *Open) Keyword() string { return "open" }

var _ Directive = &Open{}

// Close declares the closing of an account.
type Close struct {
	withMetadata

	L       Loc
	Date    Date
	Account Account
}

func (c *Close) Loc() Loc        { return c.L }
func (c *Close) Keyword() string { return "close" }

var _ Directive = &Close{}

// Pad inserts an automatic balancing transaction between two accounts.
type Pad struct {
	withMetadata

	L          Loc
	Date       Date
	Account    Account
	AccountPad Account
}

func (p *Pad) Loc() Loc        { return p.L }
func (p *Pad) Keyword() string { return "pad" }

var _ Directive = &Pad{}

// Check asserts an account's balance at a date (spec.md's renaming of
// beancount's "balance" directive).
type Check struct {
	withMetadata

	L       Loc
	Date    Date
	Account Account
	Amount  Amount
}

func (c *Check) Loc() Loc        { return c.L }
func (c *Check) Keyword() string { return "check" }

var _ Directive = &Check{}

// Price records the price of a currency/commodity in terms of another.
type Price struct {
	withMetadata

	L        Loc
	Date     Date
	Currency Currency
	Amount   Amount
}

func (p *Price) Loc() Loc        { return p.L }
func (p *Price) Keyword() string { return "price" }

var _ Directive = &Price{}

// Event records a named event's value at a date.
type Event struct {
	withMetadata

	L           Loc
	Date        Date
	Type        string
	Description string
}

func (e *Event) Loc() Loc        { return e.L }
func (e *Event) Keyword() string { return "event" }

var _ Directive = &Event{}

// Note attaches a dated comment to an account.
type Note struct {
	withMetadata

	L       Loc
	Date    Date
	Account Account
	Comment string
}

func (n *Note) Loc() Loc        { return n.L }
func (n *Note) Keyword() string { return "note" }

var _ Directive = &Note{}

// Document associates an external file with an account at a date. The
// path is never touched or validated by the core (spec.md §9).
type Document struct {
	withMetadata

	L        Loc
	Date     Date
	Account  Account
	Filename string
}

func (d *Document) Loc() Loc        { return d.L }
func (d *Document) Keyword() string { return "document" }

var _ Directive = &Document{}

// Commodity declares a currency/commodity code (supplement to spec.md's
// grammar; see SPEC_FULL.md §4).
type Commodity struct {
	withMetadata

	L        Loc
	Date     Date
	Currency Currency
}

func (c *Commodity) Loc() Loc        { return c.L }
func (c *Commodity) Keyword() string { return "commodity" }

var _ Directive = &Commodity{}

// Include records a path to another ledger file. The core never reads
// it; resolving it is loader's job.
type Include struct {
	L        Loc
	Filename string
}

// File is the root of a parsed ledger file: the declaration list
// store_result hands to the caller, plus the options the builder
// collected along the way.
type File struct {
	Declarations []Directive
	Options      []Option
	Includes     []*Include
}

// Option is a single `option NAME VALUE` record.
type Option struct {
	Name  string
	Value string
}
