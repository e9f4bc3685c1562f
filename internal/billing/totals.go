package billing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	// Plain decimal literals only; exponent forms like 1e9 would expand to huge values.
	plainNumber = regexp.MustCompile(`^\d{1,18}(\.\d{1,18})?$`)
)

// Amounts is the rs/cts pair the calculator reads from each line.
type Amounts struct {
	Rs  string `json:"rs"`
	Cts string `json:"cts"`
}

// Totals is the calculator output, each value rendered with two decimals.
type Totals struct {
	Amount  string `json:"amount"`
	Balance string `json:"balance"`
}

// ComputeTotals sums rs + cts/100 over items and subtracts advance. Cents are
// always hundredths, so cts "5" adds 0.05. Blank, non-numeric, signed or exponent
// inputs count as zero and a negative balance is returned as is.
func ComputeTotals(items []Amounts, advance string) Totals {
	amount := decimal.Zero
	for _, it := range items {
		amount = amount.Add(toNumber(it.Rs)).Add(toNumber(it.Cts).Div(hundred))
	}
	balance := amount.Sub(toNumber(advance))
	return Totals{Amount: amount.StringFixed(2), Balance: balance.StringFixed(2)}
}

// TotalsFor computes totals for stored line items.
func TotalsFor(items []LineItem, advance string) Totals {
	amounts := make([]Amounts, len(items))
	for i, it := range items {
		amounts[i] = Amounts{Rs: it.Rs, Cts: it.Cts}
	}
	return ComputeTotals(amounts, advance)
}

func toNumber(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if !plainNumber.MatchString(s) {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
