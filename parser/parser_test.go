package parser

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/ledgerparse/ledgerparse/ast"
	"github.com/ledgerparse/ledgerparse/builder"
)

func parse(t *testing.T, source string) (*ast.File, *builder.ASTBuilder) {
	t.Helper()
	b := builder.NewASTBuilder()
	err := ParseString(source, "test.ledger", b)
	assert.NoError(t, err)
	return b.File(), b
}

func TestParserOpenAndClose(t *testing.T) {
	source := "2014-01-01 open Assets:Cash USD\n2014-06-01 close Assets:Cash\n"
	file, b := parse(t, source)
	assert.Equal(t, 0, len(b.Diagnostics()))
	assert.Equal(t, 2, len(file.Declarations))

	open, ok := file.Declarations[0].(*ast.Open)
	assert.True(t, ok)
	assert.Equal(t, ast.Account("Assets:Cash"), open.Account)
	assert.Equal(t, []ast.Currency{"USD"}, open.Currencies)

	closeDir, ok := file.Declarations[1].(*ast.Close)
	assert.True(t, ok)
	assert.Equal(t, ast.Account("Assets:Cash"), closeDir.Account)
}

func TestParserOpenWithoutCurrencyConstraint(t *testing.T) {
	file, _ := parse(t, "2014-01-01 open Assets:Cash\n")
	open := file.Declarations[0].(*ast.Open)
	assert.Equal(t, 0, len(open.Currencies))
}

func TestParserOpenWithMultipleCurrencies(t *testing.T) {
	file, _ := parse(t, "2014-01-01 open Assets:Brokerage USD,EUR,GBP\n")
	open := file.Declarations[0].(*ast.Open)
	assert.Equal(t, []ast.Currency{"USD", "EUR", "GBP"}, open.Currencies)
}

func TestParserTransactionWithTwoPostings(t *testing.T) {
	source := `2014-01-15 txn "Employer" | "Paycheck"
  Assets:Checking  1000.00 USD
  Income:Salary   -1000.00 USD
`
	file, b := parse(t, source)
	assert.Equal(t, 0, len(b.Diagnostics()))
	assert.Equal(t, 1, len(file.Declarations))

	txn := file.Declarations[0].(*ast.Transaction)
	assert.Equal(t, "Paycheck", txn.Narration)
	assert.Equal(t, "Employer", *txn.Payee)
	assert.Equal(t, 2, len(txn.Postings))
	assert.Equal(t, ast.Account("Assets:Checking"), txn.Postings[0].Account)
	assert.Equal(t, "1000.00", txn.Postings[0].Position.Amount.Number.Text)
}

func TestParserTransactionBareFlagNoTxnKeyword(t *testing.T) {
	source := `2014-01-15 * "Narration only"
  Assets:Checking  10.00 USD
  Income:Salary   -10.00 USD
`
	file, _ := parse(t, source)
	txn := file.Declarations[0].(*ast.Transaction)
	assert.Equal(t, byte('*'), txn.Flag)
	assert.Equal(t, "Narration only", txn.Narration)
}

func TestParserPendingFlagTransaction(t *testing.T) {
	source := `2014-01-15 ! "Pending"
  Assets:Checking  10.00 USD
  Income:Salary   -10.00 USD
`
	file, _ := parse(t, source)
	txn := file.Declarations[0].(*ast.Transaction)
	assert.Equal(t, byte('!'), txn.Flag)
}

func TestParserTransactionWithTagsAndLinks(t *testing.T) {
	source := `2014-01-15 txn "Narration" #trip ^invoice-1
  Assets:Checking  10.00 USD
  Income:Salary   -10.00 USD
`
	file, _ := parse(t, source)
	txn := file.Declarations[0].(*ast.Transaction)
	assert.Equal(t, []ast.Tag{"trip"}, txn.Tags)
	assert.Equal(t, []ast.Link{"invoice-1"}, txn.Links)
}

func TestParserTransactionPipedPayeeAndNarration(t *testing.T) {
	source := `2014-02-03 * "Payee" | "Narr" #tag ^link
  Assets:X  1 USD @ 2 CAD
`
	file, b := parse(t, source)
	assert.Equal(t, 0, len(b.Diagnostics()))
	assert.Equal(t, 1, len(file.Declarations))

	txn := file.Declarations[0].(*ast.Transaction)
	assert.Equal(t, "Payee", *txn.Payee)
	assert.Equal(t, "Narr", txn.Narration)
	assert.Equal(t, []ast.Tag{"tag"}, txn.Tags)
	assert.Equal(t, []ast.Link{"link"}, txn.Links)
	assert.Equal(t, 1, len(txn.Postings))
}

func TestParserTransactionTwoStringsWithoutPipeIsAnError(t *testing.T) {
	source := `2014-01-15 txn "Employer" "Paycheck"
  Assets:Checking  1000.00 USD
`
	_, b := parse(t, source)
	assert.Equal(t, 1, len(b.Diagnostics()))
}

func TestParserCommentBetweenPostingsIsIgnored(t *testing.T) {
	source := `2014-01-15 txn "Narration"
  Assets:Checking  10.00 USD
  ; a comment nested inside the transaction
  Income:Salary   -10.00 USD
`
	file, b := parse(t, source)
	assert.Equal(t, 0, len(b.Diagnostics()))
	assert.Equal(t, 1, len(file.Declarations))
	txn := file.Declarations[0].(*ast.Transaction)
	assert.Equal(t, 2, len(txn.Postings))
}

func TestParserCommentBetweenMetadataLinesIsIgnored(t *testing.T) {
	source := `2014-01-01 open Assets:Cash
  source: "bank-import"
  ; a comment nested in the metadata block
  reviewed: "yes"
`
	file, b := parse(t, source)
	assert.Equal(t, 0, len(b.Diagnostics()))
	open := file.Declarations[0].(*ast.Open)
	assert.Equal(t, 2, len(open.Metadata))
	assert.Equal(t, "source", open.Metadata[0].Key)
	assert.Equal(t, "reviewed", open.Metadata[1].Key)
}

func TestParserPostingMetadataLines(t *testing.T) {
	source := `2014-01-15 txn "Narration"
  Assets:Checking  10.00 USD
    receipt: "12345"
  Income:Salary   -10.00 USD
`
	file, _ := parse(t, source)
	txn := file.Declarations[0].(*ast.Transaction)
	assert.Equal(t, 2, len(txn.Postings))
	assert.Equal(t, 1, len(txn.Postings[0].Metadata))
	assert.Equal(t, "receipt", txn.Postings[0].Metadata[0].Key)
	assert.Equal(t, "12345", txn.Postings[0].Metadata[0].Value)
}

func TestParserCheckDirective(t *testing.T) {
	file, _ := parse(t, "2014-01-01 check Assets:Cash 500.00 USD\n")
	check := file.Declarations[0].(*ast.Check)
	assert.Equal(t, "check", check.Keyword())
	assert.Equal(t, "500.00", check.Amount.Number.Text)
}

func TestParserPadDirective(t *testing.T) {
	file, _ := parse(t, "2014-01-01 pad Assets:Cash Equity:Opening-Balances\n")
	pad := file.Declarations[0].(*ast.Pad)
	assert.Equal(t, ast.Account("Assets:Cash"), pad.Account)
	assert.Equal(t, ast.Account("Equity:Opening-Balances"), pad.AccountPad)
}

func TestParserPriceDirective(t *testing.T) {
	file, _ := parse(t, "2014-01-01 price USD 1.10 EUR\n")
	price := file.Declarations[0].(*ast.Price)
	assert.Equal(t, ast.Currency("USD"), price.Currency)
	assert.Equal(t, "1.10", price.Amount.Number.Text)
}

func TestParserEventDirective(t *testing.T) {
	file, _ := parse(t, `2014-01-01 event "location" "Paris"` + "\n")
	event := file.Declarations[0].(*ast.Event)
	assert.Equal(t, "location", event.Type)
	assert.Equal(t, "Paris", event.Description)
}

func TestParserNoteDirective(t *testing.T) {
	file, _ := parse(t, `2014-01-01 note Assets:Cash "called the bank"` + "\n")
	note := file.Declarations[0].(*ast.Note)
	assert.Equal(t, "called the bank", note.Comment)
}

func TestParserDocumentDirective(t *testing.T) {
	file, _ := parse(t, `2014-01-01 document Assets:Cash "statement.pdf"` + "\n")
	doc := file.Declarations[0].(*ast.Document)
	assert.Equal(t, "statement.pdf", doc.Filename)
}

func TestParserCommodityDirective(t *testing.T) {
	file, _ := parse(t, "2014-01-01 commodity USD\n")
	commodity := file.Declarations[0].(*ast.Commodity)
	assert.Equal(t, ast.Currency("USD"), commodity.Currency)
}

func TestParserIncludeDirectiveGoesToIncludesNotDeclarations(t *testing.T) {
	file, _ := parse(t, `include "other.ledger"` + "\n")
	assert.Equal(t, 0, len(file.Declarations))
	assert.Equal(t, 1, len(file.Includes))
	assert.Equal(t, "other.ledger", file.Includes[0].Filename)
}

func TestParserOptionDirective(t *testing.T) {
	file, _ := parse(t, `option "title" "My Ledger"` + "\n")
	assert.Equal(t, 1, len(file.Options))
	assert.Equal(t, ast.Option{Name: "title", Value: "My Ledger"}, file.Options[0])
}

func TestParserPushtagPoptagAffectLaterTransactions(t *testing.T) {
	source := `pushtag #quarter
2014-01-15 txn "Tagged"
  Assets:Checking  10.00 USD
  Income:Salary   -10.00 USD
poptag #quarter
2014-01-16 txn "Untagged"
  Assets:Checking  10.00 USD
  Income:Salary   -10.00 USD
`
	file, _ := parse(t, source)
	assert.Equal(t, 2, len(file.Declarations))
	first := file.Declarations[0].(*ast.Transaction)
	second := file.Declarations[1].(*ast.Transaction)
	assert.Equal(t, []ast.Tag{"quarter"}, first.Tags)
	assert.Equal(t, 0, len(second.Tags))
}

func TestParserPushmetaPopmetaAffectLaterDirectives(t *testing.T) {
	source := `pushmeta project: "suitcase"
2014-01-01 open Assets:Cash
popmeta project
2014-01-02 open Assets:Savings
`
	file, _ := parse(t, source)
	withMeta := file.Declarations[0].(*ast.Open)
	withoutMeta := file.Declarations[1].(*ast.Open)
	assert.Equal(t, 1, len(withMeta.Metadata))
	assert.Equal(t, "project", withMeta.Metadata[0].Key)
	assert.Equal(t, "suitcase", withMeta.Metadata[0].Value)
	assert.Equal(t, 0, len(withoutMeta.Metadata))
}

func TestParserPositionWithLotCost(t *testing.T) {
	source := `2014-01-15 txn "Buy stock"
  Assets:Brokerage  10 HOOL {500.00 USD}
  Assets:Cash      -5000.00 USD
`
	file, b := parse(t, source)
	assert.Equal(t, 0, len(b.Diagnostics()))
	txn := file.Declarations[0].(*ast.Transaction)
	pos := txn.Postings[0].Position
	assert.Equal(t, "500.00", pos.LotCostDate.Amount.Number.Text)
}

func TestParserPositionWithLotCostAndDate(t *testing.T) {
	source := `2014-01-15 txn "Buy stock"
  Assets:Brokerage  10 HOOL {500.00 USD, 2013-11-01}
  Assets:Cash      -5000.00 USD
`
	file, _ := parse(t, source)
	txn := file.Declarations[0].(*ast.Transaction)
	pos := txn.Postings[0].Position
	assert.Equal(t, ast.Date{Year: 2013, Month: 11, Day: 1}, *pos.LotCostDate.Date)
}

func TestParserPostingWithPricePerUnit(t *testing.T) {
	source := `2014-01-15 txn "Convert currency"
  Assets:Cash  100 EUR @ 1.10 USD
  Assets:Cash  -110.00 USD
`
	file, _ := parse(t, source)
	txn := file.Declarations[0].(*ast.Transaction)
	assert.Equal(t, "1.10", txn.Postings[0].Price.Number.Text)
	assert.False(t, txn.Postings[0].PriceIsTotal)
}

func TestParserPostingWithTotalPrice(t *testing.T) {
	source := `2014-01-15 txn "Convert currency"
  Assets:Cash  100 EUR @@ 110.00 USD
  Assets:Cash  -110.00 USD
`
	file, _ := parse(t, source)
	txn := file.Declarations[0].(*ast.Transaction)
	assert.True(t, txn.Postings[0].PriceIsTotal)
}

func TestParserPostingWithFlag(t *testing.T) {
	source := `2014-01-15 txn "Narration"
  ! Assets:Checking  10.00 USD
  Income:Salary     -10.00 USD
`
	file, _ := parse(t, source)
	txn := file.Declarations[0].(*ast.Transaction)
	assert.Equal(t, byte('!'), txn.Postings[0].Flag)
}

func TestParserErrorRecoverySkipsOneLineAndContinues(t *testing.T) {
	source := `2014-01-01 open Assets:Cash
@@@ garbage line that matches nothing
2014-01-02 open Assets:Savings
`
	file, b := parse(t, source)
	assert.Equal(t, 2, len(file.Declarations))
	assert.Equal(t, 1, len(b.Diagnostics()))
}

// A heading line's flag-disambiguation byte is never an error: it's
// silently folded into SKIPPED even when it's a byte that would
// otherwise open a posting flag, so the directive after it parses
// clean.
func TestParserHeadingLineIsSkippedNotAnError(t *testing.T) {
	source := `* This is a heading
2014-01-01 close Assets:Cash
`
	file, b := parse(t, source)
	assert.Equal(t, 0, len(b.Diagnostics()))
	assert.Equal(t, 1, len(file.Declarations))
}

func TestParserCloseWithMissingAccountDoesNotPanic(t *testing.T) {
	source := "2014-01-01 close\n2014-01-02 close Assets:Savings\n"
	file, b := parse(t, source)
	assert.Equal(t, 1, len(b.Diagnostics()))
	assert.Equal(t, 2, len(file.Declarations))
	assert.Equal(t, ast.Account("Assets:Savings"), file.Declarations[1].(*ast.Close).Account)
}

func TestParserCheckWithMissingAmountDoesNotPanic(t *testing.T) {
	source := "2014-01-01 check Assets:Cash USD\n"
	_, b := parse(t, source)
	assert.True(t, len(b.Diagnostics()) > 0)
}

func TestParserUnexpectedTopLevelTokenReportsAndRecovers(t *testing.T) {
	source := "USD\n2014-01-01 open Assets:Cash\n"
	file, b := parse(t, source)
	assert.Equal(t, 1, len(file.Declarations))
	assert.Equal(t, 1, len(b.Diagnostics()))
}

func TestParserBlankLinesAndTopLevelCommentsAreSkipped(t *testing.T) {
	source := "\n; a file header comment\n\n2014-01-01 open Assets:Cash\n"
	file, b := parse(t, source)
	assert.Equal(t, 0, len(b.Diagnostics()))
	assert.Equal(t, 1, len(file.Declarations))
}

func TestParserTrailingCommentOnDirectiveLine(t *testing.T) {
	source := "2014-01-01 open Assets:Cash ; trailing note\n"
	file, b := parse(t, source)
	assert.Equal(t, 0, len(b.Diagnostics()))
	assert.Equal(t, 1, len(file.Declarations))
}

func TestParserDateSlashSeparatorAccepted(t *testing.T) {
	file, _ := parse(t, "2014/01/01 open Assets:Cash\n")
	open := file.Declarations[0].(*ast.Open)
	assert.Equal(t, ast.Account("Assets:Cash"), open.Account)
}
