package request

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tenderops/tender-management/internal"
)

type RepositoryAPI interface {
	Create(req *Request) error
	GetByID(id int64) (*Request, error)
	GetByReferenceNumber(ref string) (*Request, error)
	List(limit, offset int) ([]*Request, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateRequest registers a payment requirement and assigns its reference
// number.
func (s *Service) CreateRequest(dto CreateRequestDTO, requestedBy string) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	req := &Request{
		ReferenceNumber: newReferenceNumber(),
		TenderReference: dto.TenderReference,
		Purpose:         dto.Purpose,
		Amount:          dto.Amount,
		RequestedBy:     requestedBy,
		NeededBy:        dto.NeededBy,
	}

	if err := s.repo.Create(req); err != nil {
		s.logger.Error("failed to create payment request", "error", err, "tender_reference", dto.TenderReference)
		return nil, err
	}

	s.logger.Info("payment request created",
		"request_id", req.ID,
		"reference_number", req.ReferenceNumber,
		"amount", req.Amount)

	return req, nil
}

func (s *Service) GetRequest(id int64) (*Request, error) {
	return s.repo.GetByID(id)
}

func (s *Service) GetRequestByReference(ref string) (*Request, error) {
	return s.repo.GetByReferenceNumber(ref)
}

func (s *Service) ListRequests(limit, offset int) ([]*Request, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(limit, offset)
}

func newReferenceNumber() string {
	return fmt.Sprintf("PR-%s-%s", time.Now().Format("20060102"), uuid.New().String()[:8])
}
