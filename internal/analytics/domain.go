// Package analytics aggregates invoice activity for the shop dashboard.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
	// MaxDailyRange bounds a daily query to roughly one year of buckets.
	MaxDailyRange = 366
	// SummaryDays is the trailing window shown on the dashboard.
	SummaryDays = 30
)

// Totals is the money summary of a set of invoices.
type Totals struct {
	Invoices int    `json:"invoices"`
	Amount   string `json:"amount"`
	Advance  string `json:"advance"`
	Balance  string `json:"balance"`
}

type DailyBucket struct {
	Date string `json:"date"`
	Totals
}

type MonthlyBucket struct {
	Month string `json:"month"`
	Totals
}

type Summary struct {
	AsOf    string          `json:"asOf"`
	Overall Totals          `json:"overall"`
	Daily   []DailyBucket   `json:"daily"`
	Monthly []MonthlyBucket `json:"monthly"`
}

// Row is one aggregated group as returned by the repository. Period is the
// start of the day or month.
type Row struct {
	Period   time.Time
	Invoices int
	Amount   decimal.Decimal
	Advance  decimal.Decimal
	Balance  decimal.Decimal
}

func (r Row) totals() Totals {
	return Totals{
		Invoices: r.Invoices,
		Amount:   r.Amount.StringFixed(2),
		Advance:  r.Advance.StringFixed(2),
		Balance:  r.Balance.StringFixed(2),
	}
}

func zeroTotals() Totals {
	return Row{}.totals()
}
