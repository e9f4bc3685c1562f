// Package billing implements invoices: bill number issuance, line items, totals
// and the create/list/correct/delete lifecycle.
package billing

import "time"

// LineItem is one ordered entry on an invoice. Rs and Cts are digit strings.
type LineItem struct {
	Item        string `json:"item"`
	Description string `json:"description,omitempty"`
	Rs          string `json:"rs"`
	Cts         string `json:"cts"`
}

// Invoice is a persisted bill. BillNo never changes after creation.
type Invoice struct {
	ID        int64      `json:"id"`
	OrderNo   string     `json:"orderNo"`
	Date      time.Time  `json:"date"`
	BillNo    string     `json:"billNo"`
	Name      string     `json:"name"`
	Tel       string     `json:"tel"`
	Address   string     `json:"address"`
	Items     []LineItem `json:"items"`
	Amount    string     `json:"amount"`
	Advance   string     `json:"advance"`
	Balance   string     `json:"balance"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// SortField is a whitelisted listing order column.
type SortField string

const (
	SortByDate   SortField = "date"
	SortByBillNo SortField = "billNo"
)

// ListFilter narrows and orders an invoice listing.
type ListFilter struct {
	Search string
	From   *time.Time
	To     *time.Time
	Sort   SortField
	Asc    bool
	Limit  int
	Offset int
}

// Lifecycle events reported to the metrics recorder.
const (
	EventPreviewed = "previewed"
	EventCreated   = "created"
	EventUpdated   = "updated"
	EventDeleted   = "deleted"
	EventRejected  = "rejected"
)
