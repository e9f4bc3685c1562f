package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/wellvision/wellvision/internal/sequence"
	"github.com/wellvision/wellvision/internal/shared"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

// Recorder receives invoice lifecycle events.
type Recorder interface {
	InvoiceEvent(event string)
}

// Invalidator drops cached aggregates that depend on invoices.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// ServiceConfig carries optional collaborators. Zero values are valid.
type ServiceConfig struct {
	Formatter   sequence.Formatter
	Recorder    Recorder
	Invalidator Invalidator
	Logger      *slog.Logger
	Validator   *validator.Validate
	Now         func() time.Time
}

// Service implements the invoice lifecycle.
type Service struct {
	repo        Repository
	seq         sequence.Store
	formatter   sequence.Formatter
	recorder    Recorder
	invalidator Invalidator
	logger      *slog.Logger
	validate    *validator.Validate
	now         func() time.Time
}

func NewService(repo Repository, seq sequence.Store, cfg ServiceConfig) *Service {
	if cfg.Formatter == (sequence.Formatter{}) {
		cfg.Formatter = sequence.DefaultFormatter()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Validator == nil {
		cfg.Validator = shared.NewValidator()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		repo:        repo,
		seq:         seq,
		formatter:   cfg.Formatter,
		recorder:    cfg.Recorder,
		invalidator: cfg.Invalidator,
		logger:      cfg.Logger,
		validate:    cfg.Validator,
		now:         cfg.Now,
	}
}

// NextBillNoPreview reserves and renders the next bill number. Every call
// consumes a counter value whether or not an invoice is saved with it.
func (s *Service) NextBillNoPreview(ctx context.Context) (string, error) {
	billNo, err := s.issueBillNo(ctx)
	if err != nil {
		return "", err
	}
	s.event(EventPreviewed)
	return billNo, nil
}

// PeekBillNo renders the number the next reservation would produce without
// consuming it. Concurrent callers may see the same value.
func (s *Service) PeekBillNo(ctx context.Context) (string, error) {
	value, err := s.seq.Peek(ctx, sequence.BillNo)
	if err != nil {
		return "", fmt.Errorf("peek bill number: %w", err)
	}
	return s.formatter.Render(value)
}

func (s *Service) issueBillNo(ctx context.Context) (string, error) {
	value, err := s.seq.NextValue(ctx, sequence.BillNo)
	if err != nil {
		return "", fmt.Errorf("issue bill number: %w", err)
	}
	return s.formatter.Render(value)
}

// Totals runs the lenient calculator over in-progress form state.
func (s *Service) Totals(req TotalsRequest) Totals {
	return ComputeTotals(req.Amounts(), string(req.Advance))
}

// CreateInvoice validates and stores a new invoice. A supplied billNo is stored
// verbatim; otherwise a fresh number is issued. Amount and balance are always
// recomputed from the validated items.
func (s *Service) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error) {
	req.normalize()
	if err := shared.ValidateStruct(s.validate, req); err != nil {
		s.event(EventRejected)
		return nil, err
	}
	date, err := s.parseDate("date", req.Date)
	if err != nil {
		s.event(EventRejected)
		return nil, err
	}
	advance := req.Advance
	if advance == "" {
		advance = "0"
	}

	billNo := req.BillNo
	if billNo == "" {
		if billNo, err = s.issueBillNo(ctx); err != nil {
			return nil, err
		}
	}

	items := toLineItems(req.Items)
	totals := TotalsFor(items, advance)
	inv := Invoice{
		OrderNo: req.OrderNo,
		Date:    date,
		BillNo:  billNo,
		Name:    req.Name,
		Tel:     req.Tel,
		Address: req.Address,
		Items:   items,
		Amount:  totals.Amount,
		Advance: advance,
		Balance: totals.Balance,
	}

	created, err := s.repo.Create(ctx, inv)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicateKey) {
			return nil, fmt.Errorf("bill number %s already exists, request a new one: %w", billNo, err)
		}
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	s.logger.InfoContext(ctx, "invoice created", slog.Int64("id", created.ID), slog.String("bill_no", created.BillNo))
	s.event(EventCreated)
	s.invalidate(ctx)
	return created, nil
}

func (s *Service) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// ListInvoices returns a page of invoices and the total matching count.
func (s *Service) ListInvoices(ctx context.Context, filter ListFilter) ([]Invoice, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Sort != SortByBillNo {
		filter.Sort = SortByDate
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, 0, shared.NewValidationError("to", "must not be before from")
	}
	invoices, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, total, nil
}

// UpdateInvoice applies a correction. The bill number never changes and the
// counter is never touched.
func (s *Service) UpdateInvoice(ctx context.Context, id int64, req UpdateInvoiceRequest) (*Invoice, error) {
	req.normalize()
	if err := shared.ValidateStruct(s.validate, req); err != nil {
		s.event(EventRejected)
		return nil, err
	}
	var date *time.Time
	if req.Date != nil {
		parsed, err := s.parseDate("date", *req.Date)
		if err != nil {
			s.event(EventRejected)
			return nil, err
		}
		date = &parsed
	}

	var updated *Invoice
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		existing, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req.BillNo != nil && *req.BillNo != existing.BillNo {
			return shared.NewValidationError("billNo", "cannot be changed after creation")
		}
		applyPatch(existing, req, date)
		totals := TotalsFor(existing.Items, existing.Advance)
		existing.Amount = totals.Amount
		existing.Balance = totals.Balance
		updated, err = repo.Update(ctx, *existing)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update invoice %d: %w", id, err)
	}

	s.event(EventUpdated)
	s.invalidate(ctx)
	return updated, nil
}

func applyPatch(inv *Invoice, req UpdateInvoiceRequest, date *time.Time) {
	if req.OrderNo != nil {
		inv.OrderNo = *req.OrderNo
	}
	if date != nil {
		inv.Date = *date
	}
	if req.Name != nil {
		inv.Name = *req.Name
	}
	if req.Tel != nil {
		inv.Tel = *req.Tel
	}
	if req.Address != nil {
		inv.Address = *req.Address
	}
	if req.Items != nil {
		inv.Items = toLineItems(*req.Items)
	}
	if req.Advance != nil {
		inv.Advance = *req.Advance
	}
}

// DeleteInvoice hard-deletes an invoice. Its bill number is never reissued.
func (s *Service) DeleteInvoice(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	s.logger.InfoContext(ctx, "invoice deleted", slog.Int64("id", id))
	s.event(EventDeleted)
	s.invalidate(ctx)
	return nil
}

func (s *Service) parseDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return s.now(), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, shared.NewValidationError(field, "must be an ISO-8601 date")
}

func (s *Service) event(name string) {
	if s.recorder != nil {
		s.recorder.InvoiceEvent(name)
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Bump(ctx); err != nil {
		s.logger.WarnContext(ctx, "dashboard cache invalidation failed", slog.Any("error", err))
	}
}
