package customers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wellvision/wellvision/internal/platform/httpx"
	"github.com/wellvision/wellvision/internal/shared"
)

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageParams(r.URL.Query())
	out, total, err := h.service.List(r.Context(), ListFilter{
		Search: strings.TrimSpace(r.URL.Query().Get("q")),
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	})
	if err != nil {
		h.fail(w, r, "list customers", err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{
		"customers":  out,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "create customer", err)
		return
	}
	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.fail(w, r, "create customer", err)
		return
	}
	httpx.Success(w, http.StatusCreated, map[string]any{"customer": c})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get customer", err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"customer": c})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var req UpdateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "update customer", err)
		return
	}
	c, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, "update customer", err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"customer": c})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "delete customer", err)
		return
	}
	httpx.Success(w, http.StatusOK, nil)
}

func (h *Handler) id(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, shared.NewValidationError("id", "must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if httpx.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), op+" failed", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
