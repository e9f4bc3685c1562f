package billing

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wellvision/wellvision/internal/platform/httpx"
	"github.com/wellvision/wellvision/internal/shared"
)

// Handler exposes the invoice API.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

func (h *Handler) NextBillNo(w http.ResponseWriter, r *http.Request) {
	billNo, err := h.service.NextBillNoPreview(r.Context())
	if err != nil {
		h.fail(w, r, "next bill number", err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"nextBillNo": billNo})
}

func (h *Handler) PeekBillNo(w http.ResponseWriter, r *http.Request) {
	billNo, err := h.service.PeekBillNo(r.Context())
	if err != nil {
		h.fail(w, r, "peek bill number", err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"nextBillNo": billNo})
}

func (h *Handler) Totals(w http.ResponseWriter, r *http.Request) {
	var req TotalsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "totals", err)
		return
	}
	totals := h.service.Totals(req)
	httpx.Success(w, http.StatusOK, map[string]any{"amount": totals.Amount, "balance": totals.Balance})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "create invoice", err)
		return
	}
	inv, err := h.service.CreateInvoice(r.Context(), req)
	if err != nil {
		h.fail(w, r, "create invoice", err)
		return
	}
	httpx.Success(w, http.StatusCreated, map[string]any{"invoice": inv})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, page, perPage, err := parseListQuery(r)
	if err != nil {
		h.fail(w, r, "list invoices", err)
		return
	}
	invoices, total, err := h.service.ListInvoices(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "list invoices", err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{
		"invoices":   invoices,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.fail(w, r, "get invoice", err)
		return
	}
	inv, err := h.service.GetInvoice(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get invoice", err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"invoice": inv})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.fail(w, r, "update invoice", err)
		return
	}
	var req UpdateInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "update invoice", err)
		return
	}
	inv, err := h.service.UpdateInvoice(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, "update invoice", err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"invoice": inv})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.fail(w, r, "delete invoice", err)
		return
	}
	if err := h.service.DeleteInvoice(r.Context(), id); err != nil {
		h.fail(w, r, "delete invoice", err)
		return
	}
	httpx.Success(w, http.StatusOK, nil)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if status := httpx.StatusFor(err); status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), op+" failed", slog.Any("error", err), slog.Int("status", status))
	} else {
		h.logger.DebugContext(r.Context(), op+" rejected", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, shared.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

func parseListQuery(r *http.Request) (ListFilter, int, int, error) {
	q := r.URL.Query()
	page, perPage := shared.PageParams(q)
	filter := ListFilter{
		Search: strings.TrimSpace(q.Get("q")),
		Sort:   SortField(q.Get("sort")),
		Asc:    strings.EqualFold(q.Get("order"), "asc"),
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	}
	from, err := parseDay(q.Get("from"))
	if err != nil {
		return ListFilter{}, 0, 0, shared.NewValidationError("from", "must be YYYY-MM-DD")
	}
	to, err := parseDay(q.Get("to"))
	if err != nil {
		return ListFilter{}, 0, 0, shared.NewValidationError("to", "must be YYYY-MM-DD")
	}
	if from != nil && to != nil && to.Before(*from) {
		return ListFilter{}, 0, 0, shared.NewValidationError("to", "must not be before from")
	}
	filter.From = from
	// The repository treats To as exclusive, so cover the whole requested day.
	if to != nil {
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}
	return filter, page, perPage, nil
}

func parseDay(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
