// Package customers keeps the shop's customer records.
package customers

import "time"

type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Tel       string    `json:"tel"`
	TelE164   string    `json:"telE164"`
	Address   string    `json:"address"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ListFilter struct {
	Search string
	Limit  int
	Offset int
}
