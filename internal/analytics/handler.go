package analytics

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

// Handler exposes the dashboard endpoints.
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

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/summary", h.summary)
		r.Get("/daily", h.daily)
		r.Get("/monthly", h.monthly)
	})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	asOf, err := queryDay(r, "asOf", h.service.now())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	summary, err := h.service.Summary(r.Context(), asOf)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"summary": summary})
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	today := truncateDay(h.service.now())
	to, err := queryDay(r, "to", today)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	from, err := queryDay(r, "from", to.AddDate(0, 0, -(SummaryDays-1)))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	buckets, err := h.service.Daily(r.Context(), from, to)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"buckets": buckets})
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	year := h.service.now().Year()
	if raw := strings.TrimSpace(r.URL.Query().Get("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(w, r, shared.NewValidationError("year", "must be a number"))
			return
		}
		year = parsed
	}
	buckets, err := h.service.Monthly(r.Context(), year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"buckets": buckets})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if httpx.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "dashboard query failed", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func queryDay(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	t, err := time.Parse(dayLayout, raw)
	if err != nil {
		return time.Time{}, shared.NewValidationError(name, "must be YYYY-MM-DD")
	}
	return t, nil
}
