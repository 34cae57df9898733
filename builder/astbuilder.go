package builder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerparse/ledgerparse/ast"
)

// Diagnostic is one call to Error, kept around for a caller that wants to
// render the whole batch after a parse finishes.
type Diagnostic struct {
	Loc     ast.Loc
	Message string
}

// list is the concrete value HandleList produces: an ordered, opaque
// accumulation of whatever the parser has been handing it, unwrapped by
// the later constructor call that consumes it.
type list struct {
	items []any
}

func asItems(v any) []any {
	if v == nil {
		return nil
	}
	return v.(*list).items
}

// asType unwraps v as a T, defaulting to T's zero value when v is nil or
// holds some other type. expect() hands back a Token with a nil Value
// when a required field failed to parse, and every constructor below
// still has to produce a directive for that line; asType is what keeps
// that missing field from panicking the whole parse instead of just
// leaving it blank on a (correctly) diagnosed directive.
func asType[T any](v any) T {
	t, _ := v.(T)
	return t
}

// ASTBuilder is the default Builder implementation: it produces an
// ast.File, interning ACCOUNT and CURRENCY text and tracking the
// pushtag/pushmeta stacks across the whole session the way beancount's
// grammar actions do.
type ASTBuilder struct {
	file      *ast.File
	interner  *Interner
	diags     []Diagnostic
	activeTags  []ast.Tag
	activeMeta  map[string]string
	metaOrder   []string
}

// NewASTBuilder returns a ready-to-use ASTBuilder.
func NewASTBuilder() *ASTBuilder {
	return &ASTBuilder{
		file:       &ast.File{},
		interner:   NewInterner(256),
		activeMeta: make(map[string]string),
	}
}

// File returns the directives, options and includes collected so far.
func (b *ASTBuilder) File() *ast.File { return b.file }

// Diagnostics returns every call made to Error, in call order.
func (b *ASTBuilder) Diagnostics() []Diagnostic { return b.diags }

// --- value constructors ---

func (b *ASTBuilder) MakeDate(text string, loc ast.Loc) any {
	// Either separator may be '-' or '/', independently of the other.
	parts := strings.SplitN(strings.ReplaceAll(text, "/", "-"), "-", 3)
	if len(parts) != 3 {
		b.Error(loc, "malformed date: "+text)
		return ast.Date{}
	}
	year, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	day, _ := strconv.Atoi(parts[2])
	return ast.Date{Year: year, Month: month, Day: day}
}

func (b *ASTBuilder) MakeAccount(text string, loc ast.Loc) any {
	return ast.Account(b.interner.Intern(text))
}

func (b *ASTBuilder) MakeCurrency(text string, loc ast.Loc) any {
	return ast.Currency(b.interner.Intern(text))
}

func (b *ASTBuilder) MakeString(text string, loc ast.Loc) any {
	return text
}

func (b *ASTBuilder) MakeNumber(text string, loc ast.Loc) any {
	d, err := decimal.NewFromString(text)
	if err != nil {
		b.Error(loc, "malformed number: "+text)
	}
	return ast.Number{Text: text, Decimal: d}
}

func (b *ASTBuilder) MakeTag(text string, loc ast.Loc) any {
	return ast.Tag(text)
}

func (b *ASTBuilder) MakeLink(text string, loc ast.Loc) any {
	return ast.Link(text)
}

// --- list accumulator ---

func (b *ASTBuilder) HandleList(l any, item any) any {
	if l == nil {
		return &list{items: []any{item}}
	}
	lst := l.(*list)
	lst.items = append(lst.items, item)
	return lst
}

// --- directive and composite value constructors ---

func (b *ASTBuilder) Amount(number, currency any) any {
	return ast.Amount{Number: asType[ast.Number](number), Currency: asType[ast.Currency](currency)}
}

func (b *ASTBuilder) LotCostDate(amount any, date any) any {
	lcd := &ast.LotCostDate{}
	if amount != nil {
		lcd.Amount = asType[ast.Amount](amount)
	}
	if date != nil {
		d := asType[ast.Date](date)
		lcd.Date = &d
	}
	return lcd
}

func (b *ASTBuilder) Position(amount any, lotCostDate any) any {
	pos := &ast.Position{Amount: asType[ast.Amount](amount)}
	if lotCostDate != nil {
		pos.LotCostDate, _ = lotCostDate.(*ast.LotCostDate)
	}
	return pos
}

func (b *ASTBuilder) Posting(loc ast.Loc, flag byte, account any, position any, price any, priceIsTotal bool) any {
	p := &ast.Posting{
		Loc:          loc,
		Flag:         flag,
		Account:      asType[ast.Account](account),
		PriceIsTotal: priceIsTotal,
	}
	if position != nil {
		p.Position, _ = position.(*ast.Position)
	}
	if price != nil {
		pr := asType[ast.Amount](price)
		p.Price = &pr
	}
	return p
}

func (b *ASTBuilder) Transaction(loc ast.Loc, date any, flag byte, payee any, narration any, tags any, links any, postings any) any {
	t := &ast.Transaction{
		L:    loc,
		Date: asType[ast.Date](date),
		Flag: flag,
	}
	if payee != nil {
		p := asType[string](payee)
		t.Payee = &p
	}
	if narration != nil {
		t.Narration = asType[string](narration)
	}
	for _, item := range asItems(tags) {
		t.Tags = append(t.Tags, item.(ast.Tag))
	}
	for _, item := range asItems(links) {
		t.Links = append(t.Links, item.(ast.Link))
	}
	for _, item := range asItems(postings) {
		t.Postings = append(t.Postings, item.(*ast.Posting))
	}
	t.Tags = append(t.Tags, b.activeTags...)
	b.applyActiveMetadata(t)
	return t
}

func (b *ASTBuilder) Open(loc ast.Loc, date any, account any, currencies any) any {
	o := &ast.Open{L: loc, Date: asType[ast.Date](date), Account: asType[ast.Account](account)}
	for _, item := range asItems(currencies) {
		o.Currencies = append(o.Currencies, item.(ast.Currency))
	}
	b.applyActiveMetadata(o)
	return o
}

func (b *ASTBuilder) Close(loc ast.Loc, date any, account any) any {
	c := &ast.Close{L: loc, Date: asType[ast.Date](date), Account: asType[ast.Account](account)}
	b.applyActiveMetadata(c)
	return c
}

func (b *ASTBuilder) Pad(loc ast.Loc, date any, account any, accountPad any) any {
	p := &ast.Pad{L: loc, Date: asType[ast.Date](date), Account: asType[ast.Account](account), AccountPad: asType[ast.Account](accountPad)}
	b.applyActiveMetadata(p)
	return p
}

func (b *ASTBuilder) Check(loc ast.Loc, date any, account any, amount any) any {
	c := &ast.Check{L: loc, Date: asType[ast.Date](date), Account: asType[ast.Account](account), Amount: asType[ast.Amount](amount)}
	b.applyActiveMetadata(c)
	return c
}

func (b *ASTBuilder) Price(loc ast.Loc, date any, currency any, amount any) any {
	p := &ast.Price{L: loc, Date: asType[ast.Date](date), Currency: asType[ast.Currency](currency), Amount: asType[ast.Amount](amount)}
	b.applyActiveMetadata(p)
	return p
}

func (b *ASTBuilder) Event(loc ast.Loc, date any, eventType any, description any) any {
	e := &ast.Event{L: loc, Date: asType[ast.Date](date), Type: asType[string](eventType), Description: asType[string](description)}
	b.applyActiveMetadata(e)
	return e
}

func (b *ASTBuilder) Note(loc ast.Loc, date any, account any, comment any) any {
	n := &ast.Note{L: loc, Date: asType[ast.Date](date), Account: asType[ast.Account](account), Comment: asType[string](comment)}
	b.applyActiveMetadata(n)
	return n
}

func (b *ASTBuilder) Document(loc ast.Loc, date any, account any, filename any) any {
	d := &ast.Document{L: loc, Date: asType[ast.Date](date), Account: asType[ast.Account](account), Filename: asType[string](filename)}
	b.applyActiveMetadata(d)
	return d
}

func (b *ASTBuilder) Commodity(loc ast.Loc, date any, currency any) any {
	c := &ast.Commodity{L: loc, Date: asType[ast.Date](date), Currency: asType[ast.Currency](currency)}
	b.applyActiveMetadata(c)
	return c
}

func (b *ASTBuilder) Include(loc ast.Loc, filename any) any {
	return &ast.Include{L: loc, Filename: asType[string](filename)}
}

func (b *ASTBuilder) Metadata(key string, value any) any {
	m := &ast.Metadata{Key: key}
	switch v := value.(type) {
	case nil:
	case string:
		m.Value = v
	case ast.Account:
		m.Value = string(v)
	case ast.Currency:
		m.Value = string(v)
	case ast.Tag:
		m.Value = string(v)
	case ast.Link:
		m.Value = string(v)
	case fmt.Stringer:
		m.Value = v.String()
	}
	return m
}

func (b *ASTBuilder) AttachMetadata(directive any, metadata any) {
	wm, ok := directive.(ast.WithMetadata)
	if !ok {
		return
	}
	for _, item := range asItems(metadata) {
		wm.AddMetadata(item.(*ast.Metadata))
	}
}

// applyActiveMetadata folds the builder's pushmeta stack onto a
// newly-constructed directive, mirroring how active tags are folded onto
// every Transaction.
func (b *ASTBuilder) applyActiveMetadata(wm ast.WithMetadata) {
	for _, key := range b.metaOrder {
		wm.AddMetadata(&ast.Metadata{Key: key, Value: b.activeMeta[key]})
	}
}

// --- side-effecting hooks ---

func (b *ASTBuilder) PushTag(tag any) {
	b.activeTags = append(b.activeTags, asType[ast.Tag](tag))
}

func (b *ASTBuilder) PopTag(tag any) {
	t := asType[ast.Tag](tag)
	for i := len(b.activeTags) - 1; i >= 0; i-- {
		if b.activeTags[i] == t {
			b.activeTags = append(b.activeTags[:i], b.activeTags[i+1:]...)
			return
		}
	}
}

func (b *ASTBuilder) PushMeta(key string, value any) {
	if _, exists := b.activeMeta[key]; !exists {
		b.metaOrder = append(b.metaOrder, key)
	}
	if s, ok := value.(string); ok {
		b.activeMeta[key] = s
	}
}

func (b *ASTBuilder) PopMeta(key string) {
	delete(b.activeMeta, key)
	for i, k := range b.metaOrder {
		if k == key {
			b.metaOrder = append(b.metaOrder[:i], b.metaOrder[i+1:]...)
			return
		}
	}
}

func (b *ASTBuilder) Option(name any, value any) {
	n, _ := name.(string)
	v, _ := value.(string)
	b.file.Options = append(b.file.Options, ast.Option{Name: n, Value: v})
}

func (b *ASTBuilder) Error(loc ast.Loc, message string) {
	b.diags = append(b.diags, Diagnostic{Loc: loc, Message: message})
}

// StoreResult sorts the whole file's declarations and includes, in the
// single batch the parser hands it at EOF, into ast.File's two lists.
func (b *ASTBuilder) StoreResult(declarations any) {
	for _, item := range asItems(declarations) {
		switch d := item.(type) {
		case ast.Directive:
			b.file.Declarations = append(b.file.Declarations, d)
		case *ast.Include:
			b.file.Includes = append(b.file.Includes, d)
		}
	}
}

var _ Builder = (*ASTBuilder)(nil)
