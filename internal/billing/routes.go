package billing

import "github.com/go-chi/chi/v5"

// MountRoutes registers the invoice API under the caller's prefix.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/invoices", func(r chi.Router) {
		r.Get("/next-bill-no", h.NextBillNo)
		r.Get("/next-bill-no/peek", h.PeekBillNo)
		r.Post("/totals", h.Totals)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
