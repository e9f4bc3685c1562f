package billing

import (
	"bytes"
	"encoding/json"
	"strings"
)

// LineItemInput is a line item as submitted for persistence.
type LineItemInput struct {
	Item        string `json:"item" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
	Rs          string `json:"rs" validate:"required,digits"`
	Cts         string `json:"cts" validate:"required,digits"`
}

// CreateInvoiceRequest is the invoice form payload. BillNo carries the value the
// form obtained from the preview; when blank a new number is issued. Amount and
// Balance are accepted for compatibility but recomputed.
type CreateInvoiceRequest struct {
	OrderNo string          `json:"orderNo" validate:"max=64"`
	Date    string          `json:"date"`
	BillNo  string          `json:"billNo" validate:"max=64"`
	Name    string          `json:"name" validate:"required,max=120"`
	Tel     string          `json:"tel" validate:"required,lktel"`
	Address string          `json:"address" validate:"required,max=255"`
	Items   []LineItemInput `json:"items" validate:"required,min=1,dive"`
	Advance string          `json:"advance" validate:"omitempty,amount"`
	Amount  string          `json:"amount"`
	Balance string          `json:"balance"`
}

// UpdateInvoiceRequest patches an invoice. Nil fields are left unchanged.
type UpdateInvoiceRequest struct {
	OrderNo *string          `json:"orderNo" validate:"omitempty,max=64"`
	Date    *string          `json:"date"`
	BillNo  *string          `json:"billNo"`
	Name    *string          `json:"name" validate:"omitempty,min=1,max=120"`
	Tel     *string          `json:"tel" validate:"omitempty,lktel"`
	Address *string          `json:"address" validate:"omitempty,min=1,max=255"`
	Items   *[]LineItemInput `json:"items" validate:"omitempty,min=1,dive"`
	Advance *string          `json:"advance" validate:"omitempty,amount"`
}

// TotalsRequest is the live form state sent to the calculator. Values may be
// strings, numbers, null or missing.
type TotalsRequest struct {
	Items   []TotalsItem `json:"items"`
	Advance looseString  `json:"advance"`
}

type TotalsItem struct {
	Rs  looseString `json:"rs"`
	Cts looseString `json:"cts"`
}

// Amounts converts the request into calculator input.
func (r TotalsRequest) Amounts() []Amounts {
	out := make([]Amounts, len(r.Items))
	for i, it := range r.Items {
		out[i] = Amounts{Rs: string(it.Rs), Cts: string(it.Cts)}
	}
	return out
}

// looseString accepts any JSON scalar. Objects and arrays decode to "" so the
// calculator treats them as zero.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*s = ""
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
	case data[0] == '{', data[0] == '[':
		*s = ""
	default:
		*s = looseString(strings.Trim(string(data), " "))
	}
	return nil
}

func toLineItems(in []LineItemInput) []LineItem {
	out := make([]LineItem, len(in))
	for i, it := range in {
		out[i] = LineItem{
			Item:        strings.TrimSpace(it.Item),
			Description: strings.TrimSpace(it.Description),
			Rs:          it.Rs,
			Cts:         it.Cts,
		}
	}
	return out
}

func trimPtr(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}

func (r *CreateInvoiceRequest) normalize() {
	r.OrderNo = strings.TrimSpace(r.OrderNo)
	r.Date = strings.TrimSpace(r.Date)
	r.BillNo = strings.TrimSpace(r.BillNo)
	r.Name = strings.TrimSpace(r.Name)
	r.Tel = strings.TrimSpace(r.Tel)
	r.Address = strings.TrimSpace(r.Address)
	r.Advance = strings.TrimSpace(r.Advance)
	for i := range r.Items {
		r.Items[i].Rs = strings.TrimSpace(r.Items[i].Rs)
		r.Items[i].Cts = strings.TrimSpace(r.Items[i].Cts)
	}
}

func (r *UpdateInvoiceRequest) normalize() {
	trimPtr(r.OrderNo)
	trimPtr(r.Date)
	trimPtr(r.BillNo)
	trimPtr(r.Name)
	trimPtr(r.Tel)
	trimPtr(r.Address)
	trimPtr(r.Advance)
	if r.Advance != nil && *r.Advance == "" {
		zero := "0"
		r.Advance = &zero
	}
	if r.Items != nil {
		items := *r.Items
		for i := range items {
			items[i].Rs = strings.TrimSpace(items[i].Rs)
			items[i].Cts = strings.TrimSpace(items[i].Cts)
		}
	}
}
