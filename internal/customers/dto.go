package customers

import "strings"

type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Tel     string `json:"tel" validate:"required,lktel"`
	Address string `json:"address" validate:"max=255"`
	Email   string `json:"email" validate:"omitempty,email,max=254"`
	Notes   string `json:"notes" validate:"max=1000"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=120"`
	Tel     *string `json:"tel" validate:"omitempty,lktel"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	Email   *string `json:"email" validate:"omitempty,email,max=254"`
	Notes   *string `json:"notes" validate:"omitempty,max=1000"`
}

func (r *CreateCustomerRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Tel = strings.TrimSpace(r.Tel)
	r.Address = strings.TrimSpace(r.Address)
	r.Email = strings.TrimSpace(r.Email)
	r.Notes = strings.TrimSpace(r.Notes)
}

func (r *UpdateCustomerRequest) normalize() {
	for _, p := range []*string{r.Name, r.Tel, r.Address, r.Email, r.Notes} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}
