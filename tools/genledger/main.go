// Command genledger generates a large ledger file for performance testing
// and profiling the lexer and parser. Unlike a fixed-percentage switch, the
// directive mix is a weighted table so new directive kinds can be dropped in
// by adding a row rather than renumbering case labels.
//
// Usage:
//
//	go run ./tools/genledger > large.ledger
//	go run ./tools/genledger 20000000 > large.ledger       # target size in bytes
//	go run ./tools/genledger -includes 3 20000000 > large.ledger  # split across N included files
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultTargetSize = 10 * 1024 * 1024 // 10MB

var (
	accounts = []string{
		"Assets:Bank:Checking",
		"Assets:Bank:Savings",
		"Assets:Brokerage:Cash",
		"Assets:Brokerage:AAPL",
		"Assets:Brokerage:MSFT",
		"Assets:Brokerage:GOOGL",
		"Assets:Brokerage:VTI",
		"Assets:Brokerage:VXUS",
		"Assets:Crypto:BTC",
		"Assets:Crypto:ETH",
		"Liabilities:CreditCard:Visa",
		"Liabilities:CreditCard:Amex",
		"Income:Salary",
		"Income:Bonus",
		"Income:Investments:Dividends",
		"Income:Investments:Interest",
		"Expenses:Food:Groceries",
		"Expenses:Food:Restaurant",
		"Expenses:Housing:Rent",
		"Expenses:Housing:Utilities",
		"Expenses:Transport:Gas",
		"Expenses:Transport:Transit",
		"Expenses:Shopping:Clothing",
		"Expenses:Shopping:Electronics",
		"Expenses:Entertainment:Movies",
		"Expenses:Entertainment:Concerts",
		"Expenses:Healthcare:Medical",
		"Expenses:Healthcare:Dental",
		"Expenses:Taxes:Federal",
		"Expenses:Taxes:State",
		"Expenses:Commissions",
		"Equity:Opening-Balances",
	}

	payees = []string{
		"Whole Foods", "Safeway", "Trader Joe's", "Costco",
		"Shell Gas", "Chevron", "BART", "Uber",
		"Landlord", "PG&E", "Comcast", "AT&T",
		"Amazon", "Target", "Best Buy", "Apple Store",
		"Netflix", "Spotify", "AMC Theaters",
		"Employer Inc", "Fidelity", "Vanguard",
	}

	narrations = []string{
		"Grocery shopping", "Fuel purchase", "Rent payment",
		"Salary deposit", "Stock purchase", "Utility bill",
		"Online purchase", "Restaurant dinner", "Coffee",
		"Monthly subscription", "Medical appointment",
		"Investment contribution", "Dividend payment",
		"Tax payment", "Insurance premium", "Gift",
	}

	tags = []string{
		"personal", "business", "vacation", "tax-deductible",
		"reimbursable", "investment", "savings",
	}

	links = []string{
		"invoice-2023-001", "receipt-march", "annual-review",
		"rebalance-q1", "tax-2023", "bonus-cycle",
	}

	currencies = []string{"USD", "EUR", "GBP", "CAD"}
	stocks     = []string{"AAPL", "MSFT", "GOOGL", "TSLA", "AMZN", "VTI", "VXUS"}

	eventTypes = []string{"location", "employer", "mood"}
	eventVals  = []string{"San Francisco", "Remote", "New York", "Acme Corp", "content", "stressed"}

	docAccounts = []string{"Assets:Brokerage:Cash", "Liabilities:CreditCard:Visa", "Expenses:Healthcare:Medical"}
)

// weightedGenerator is one row of the directive mix: generate produces the
// text for a single directive at date, and weight is its relative share of
// rand.Intn(totalWeight).
type weightedGenerator struct {
	name     string
	weight   int
	generate func(date time.Time) string
	counts   bool // true if this kind should be tallied as a transaction
}

var generators = []weightedGenerator{
	{"simple transaction", 5, generateSimpleTransaction, true},
	{"transaction with metadata", 4, generateTransactionWithMetadata, true},
	{"investment transaction", 4, generateInvestmentTransaction, true},
	{"multi-currency transaction", 2, generateMultiCurrencyTransaction, true},
	{"complex transaction", 2, generateComplexTransaction, true},
	{"check", 2, generateCheck, false},
	{"price directive", 2, generatePriceDirective, false},
	{"note", 1, generateNoteDirective, false},
	{"document", 1, generateDocumentDirective, false},
	{"event", 1, generateEventDirective, false},
}

func totalWeight() int {
	total := 0
	for _, g := range generators {
		total += g.weight
	}
	return total
}

func pickGenerator() weightedGenerator {
	n := rand.Intn(totalWeight())
	for _, g := range generators {
		if n < g.weight {
			return g
		}
		n -= g.weight
	}
	return generators[0]
}

func main() {
	var includeCount int
	flag.IntVar(&includeCount, "includes", 0, "split the generated transactions across N included files")
	flag.Parse()

	targetSize := defaultTargetSize
	if args := flag.Args(); len(args) > 0 {
		if size, err := strconv.Atoi(args[0]); err == nil {
			targetSize = size
		}
	}

	writeHeader(includeCount)

	if includeCount > 0 {
		generateIncludedFiles(includeCount, targetSize)
		return
	}

	generateInline(targetSize, os.Stdout)
}

// generateInline writes directives directly to w until targetSize bytes
// have been produced.
func generateInline(targetSize int, w *os.File) int {
	startDate := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	currentDate := startDate

	bytesWritten := 0
	transactionCount := 0

	for bytesWritten < targetSize {
		g := pickGenerator()
		output := g.generate(currentDate)
		fmt.Fprint(w, output)
		bytesWritten += len(output)
		if g.counts {
			transactionCount++
		}

		currentDate = currentDate.AddDate(0, 0, rand.Intn(5)+1)
	}

	fmt.Fprintf(os.Stderr, "\ngenerated %d bytes with %d transactions\n", bytesWritten, transactionCount)
	return bytesWritten
}

// generateIncludedFiles splits the target size evenly across n side files
// (already referenced by `include` directives written by writeHeader) and
// fills each one independently.
func generateIncludedFiles(n int, targetSize int) {
	perFile := targetSize / n
	for i := 0; i < n; i++ {
		name := includeFilename(i)
		f, err := os.Create(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "genledger: %v\n", err)
			os.Exit(1)
		}
		generateInline(perFile, f)
		f.Close()
	}
}

func includeFilename(i int) string {
	return fmt.Sprintf("large-part-%02d.ledger", i)
}

func writeHeader(includeCount int) {
	fmt.Println("; large ledger file for performance testing")
	fmt.Println()
	fmt.Println(`option "title" "Performance Test Ledger"`)
	fmt.Println(`option "operating_currency" "USD"`)
	fmt.Println()

	fmt.Println("; commodity declarations")
	openDate := "2020-01-01"
	for _, currency := range currencies {
		fmt.Printf("%s commodity %s\n", openDate, currency)
	}
	for _, stock := range stocks {
		fmt.Printf("%s commodity %s\n", openDate, stock)
	}
	fmt.Println()

	fmt.Println("; account declarations")
	for _, account := range accounts {
		fmt.Printf("%s open %s\n", openDate, account)
	}
	fmt.Println()

	if includeCount > 0 {
		fmt.Println("; included files")
		for i := 0; i < includeCount; i++ {
			fmt.Printf("include %q\n", includeFilename(i))
		}
		fmt.Println()
	}
}

func dateStr(d time.Time) string {
	return d.Format("2006-01-02")
}

func generateSimpleTransaction(date time.Time) string {
	payee := payees[rand.Intn(len(payees))]
	narration := narrations[rand.Intn(len(narrations))]
	amount := randAmount(10, 500)

	acc1 := accounts[rand.Intn(len(accounts))]
	acc2 := accounts[rand.Intn(len(accounts))]

	return fmt.Sprintf(`%s * "%s" | "%s"
  %s  %s USD
  %s  %s USD

`, dateStr(date), payee, narration, acc1, amount, acc2, negateAmount(amount))
}

func generateTransactionWithMetadata(date time.Time) string {
	payee := payees[rand.Intn(len(payees))]
	narration := narrations[rand.Intn(len(narrations))]
	amount := randAmount(50, 1000)

	acc1 := accounts[rand.Intn(len(accounts))]
	acc2 := accounts[rand.Intn(len(accounts))]

	metaKeys := []string{"invoice", "category", "approved-by", "cost-center"}
	key := metaKeys[rand.Intn(len(metaKeys))]

	return fmt.Sprintf(`%s * "%s" | "%s"
  %s: "INV-%d"
  category: "shopping"
  %s  %s USD
    memo: "Purchase from vendor"
  %s  %s USD

`, dateStr(date), payee, narration, key, rand.Intn(10000), acc1, amount, acc2, negateAmount(amount))
}

func generateInvestmentTransaction(date time.Time) string {
	stock := stocks[rand.Intn(len(stocks))]
	shares := rand.Intn(50) + 1
	pricePerShare := randAmount(50, 500)
	totalCost := calculateTotal(shares, pricePerShare)
	commission := "9.99"

	return fmt.Sprintf(`%s * "Buy %s"
  Assets:Brokerage:Cash  -%s USD
  Assets:Brokerage:%s  %d %s {%s USD}
  Expenses:Commissions  %s USD

`, dateStr(date), stock, addAmounts(totalCost, commission), stock, shares, stock, pricePerShare, commission)
}

func generateMultiCurrencyTransaction(date time.Time) string {
	amount1 := randAmount(100, 2000)
	currency1 := currencies[0]
	currency2 := currencies[rand.Intn(len(currencies))]
	exchangeRate := randAmount(1, 2)
	amount2 := fmt.Sprintf("%.2f", parseAmount(amount1)*parseAmount(exchangeRate))

	return fmt.Sprintf(`%s * "Currency exchange"
  Assets:Bank:Checking  -%s %s @ %s %s
  Assets:Bank:Savings  %s %s

`, dateStr(date), amount1, currency1, exchangeRate, currency2, amount2, currency2)
}

func generateComplexTransaction(date time.Time) string {
	payee := payees[rand.Intn(len(payees))]
	narration := narrations[rand.Intn(len(narrations))]

	tag1 := tags[rand.Intn(len(tags))]
	tag2 := tags[rand.Intn(len(tags))]
	link := links[rand.Intn(len(links))]

	amounts := []string{
		randAmount(100, 500),
		randAmount(50, 200),
		randAmount(20, 100),
	}

	total := addAmounts(amounts[0], addAmounts(amounts[1], amounts[2]))

	return fmt.Sprintf(`%s * "%s" | "%s" ^%s #%s #%s
  receipt: "RCP-%d"
  Expenses:Food:Restaurant  %s USD
  Expenses:Food:Groceries  %s USD
  Expenses:Transport:Gas  %s USD
  Assets:Bank:Checking  -%s USD

`, dateStr(date), payee, narration, link, tag1, tag2, rand.Intn(100000), amounts[0], amounts[1], amounts[2], total)
}

func generateCheck(date time.Time) string {
	account := accounts[rand.Intn(len(accounts))]
	balance := randAmount(1000, 50000)

	return fmt.Sprintf("%s check %s  %s USD\n\n", dateStr(date), account, balance)
}

func generatePriceDirective(date time.Time) string {
	stock := stocks[rand.Intn(len(stocks))]
	price := randAmount(50, 500)

	return fmt.Sprintf("%s price %s %s USD\n\n", dateStr(date), stock, price)
}

func generateNoteDirective(date time.Time) string {
	account := accounts[rand.Intn(len(accounts))]
	comments := []string{
		"Called support about a pending charge",
		"Reconciled against statement",
		"Closed out old promotional rate",
		"Flagged for year-end review",
	}
	comment := comments[rand.Intn(len(comments))]
	return fmt.Sprintf("%s note %s %q\n\n", dateStr(date), account, comment)
}

func generateDocumentDirective(date time.Time) string {
	account := docAccounts[rand.Intn(len(docAccounts))]
	doc := fmt.Sprintf("statements/%s-%d.pdf", strings.ToLower(strings.ReplaceAll(account, ":", "-")), rand.Intn(9999))
	return fmt.Sprintf("%s document %s %q\n\n", dateStr(date), account, doc)
}

func generateEventDirective(date time.Time) string {
	typ := eventTypes[rand.Intn(len(eventTypes))]
	val := eventVals[rand.Intn(len(eventVals))]
	return fmt.Sprintf("%s event %q %q\n\n", dateStr(date), typ, val)
}

func randAmount(min, max float64) string {
	amount := min + rand.Float64()*(max-min)
	return fmt.Sprintf("%.2f", amount)
}

func parseAmount(amountStr string) float64 {
	val, _ := strconv.ParseFloat(amountStr, 64)
	return val
}

func negateAmount(amountStr string) string {
	val := parseAmount(amountStr)
	return fmt.Sprintf("%.2f", -val)
}

func addAmounts(a, b string) string {
	return fmt.Sprintf("%.2f", parseAmount(a)+parseAmount(b))
}

func calculateTotal(shares int, pricePerShare string) string {
	price := parseAmount(pricePerShare)
	return fmt.Sprintf("%.2f", float64(shares)*price)
}
