package customers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/wellvision/wellvision/internal/shared"
)

const (
	defaultLimit = 20
	maxLimit     = 200
)

type Service struct {
	repo     Repository
	validate *validator.Validate
	logger   *slog.Logger
}

func NewService(repo Repository, validate *validator.Validate, logger *slog.Logger) *Service {
	if validate == nil {
		validate = shared.NewValidator()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, validate: validate, logger: logger}
}

func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	req.normalize()
	if err := shared.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}
	e164, err := NormalizePhone(req.Tel)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, Customer{
		Name:    req.Name,
		Tel:     req.Tel,
		TelE164: e164,
		Address: req.Address,
		Email:   req.Email,
		Notes:   req.Notes,
	})
	if err != nil {
		return nil, phoneConflict(e164, err, "create customer")
	}
	s.logger.InfoContext(ctx, "customer created", slog.Int64("id", created.ID))
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Customer, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	out, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	return out, total, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	req.normalize()
	clearEmail := req.Email != nil && *req.Email == ""
	if clearEmail {
		req.Email = nil
	}
	if err := shared.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Tel != nil {
		e164, err := NormalizePhone(*req.Tel)
		if err != nil {
			return nil, err
		}
		c.Tel = *req.Tel
		c.TelE164 = e164
	}
	if req.Address != nil {
		c.Address = *req.Address
	}
	switch {
	case clearEmail:
		c.Email = ""
	case req.Email != nil:
		c.Email = *req.Email
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}

	updated, err := s.repo.Update(ctx, *c)
	if err != nil {
		return nil, phoneConflict(c.TelE164, err, "update customer")
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

func phoneConflict(e164 string, err error, op string) error {
	if errors.Is(err, shared.ErrDuplicateKey) {
		return fmt.Errorf("%w: phone %s is already registered: %w", shared.ErrConflict, e164, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
