package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/highrangestar/quotation-api/internal/domain"
	"github.com/highrangestar/quotation-api/internal/mapper"
	"github.com/highrangestar/quotation-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// serialFormatPattern accepts formats like "H##": a letter prefix followed
// by the digit placeholders
var serialFormatPattern = regexp.MustCompile(`^[A-Za-z]+#+$`)

// VesselService manages vessel reference data
type VesselService struct {
	vesselRepo *repository.VesselRepository
	logger     *zap.Logger
}

// NewVesselService creates a new vessel service
func NewVesselService(vesselRepo *repository.VesselRepository, logger *zap.Logger) *VesselService {
	return &VesselService{
		vesselRepo: vesselRepo,
		logger:     logger,
	}
}

// Create adds a vessel. The code is derived from the name's first letter and
// the vessel number, e.g. "Al Safliya" 2 -> "A2".
func (s *VesselService) Create(ctx context.Context, req *domain.CreateVesselRequest) (*domain.VesselDTO, error) {
	format := req.SerialFormat
	if format == "" {
		format = domain.DefaultSerialFormat
	}
	if !serialFormatPattern.MatchString(format) {
		return nil, fmt.Errorf("%w: %q, expected letters followed by '#' placeholders", ErrInvalidSerialFormat, format)
	}

	vessel := &domain.Vessel{
		Name:         strings.TrimSpace(req.Name),
		Number:       req.Number,
		Code:         deriveVesselCode(req.Name, req.Number),
		SerialFormat: format,
		Aliases:      req.Aliases,
	}
	if err := s.vesselRepo.Create(ctx, vessel); err != nil {
		return nil, storeErr("create vessel", err)
	}

	s.logger.Info("Created vessel",
		zap.String("vesselId", vessel.ID.String()),
		zap.String("name", vessel.Name),
		zap.String("code", vessel.Code))

	dto := mapper.ToVesselDTO(vessel)
	return &dto, nil
}

// GetByID returns a vessel
func (s *VesselService) GetByID(ctx context.Context, id uuid.UUID) (*domain.VesselDTO, error) {
	vessel, err := s.getVessel(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToVesselDTO(vessel)
	return &dto, nil
}

// List returns all vessels ordered by name
func (s *VesselService) List(ctx context.Context) ([]domain.VesselDTO, error) {
	vessels, err := s.vesselRepo.List(ctx)
	if err != nil {
		return nil, storeErr("list vessels", err)
	}
	dtos := make([]domain.VesselDTO, 0, len(vessels))
	for i := range vessels {
		dtos = append(dtos, mapper.ToVesselDTO(&vessels[i]))
	}
	return dtos, nil
}

// Update applies a partial update; the code is re-derived when the name or
// number changes
func (s *VesselService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateVesselRequest) (*domain.VesselDTO, error) {
	vessel, err := s.getVessel(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		vessel.Name = strings.TrimSpace(*req.Name)
	}
	if req.Number != nil {
		vessel.Number = *req.Number
	}
	if req.SerialFormat != nil {
		if !serialFormatPattern.MatchString(*req.SerialFormat) {
			return nil, fmt.Errorf("%w: %q, expected letters followed by '#' placeholders", ErrInvalidSerialFormat, *req.SerialFormat)
		}
		vessel.SerialFormat = *req.SerialFormat
	}
	if req.Aliases != nil {
		vessel.Aliases = *req.Aliases
	}
	vessel.Code = deriveVesselCode(vessel.Name, vessel.Number)

	if err := s.vesselRepo.Update(ctx, vessel); err != nil {
		return nil, storeErr("update vessel", err)
	}

	dto := mapper.ToVesselDTO(vessel)
	return &dto, nil
}

// Delete removes a vessel
func (s *VesselService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.getVessel(ctx, id); err != nil {
		return err
	}
	if err := s.vesselRepo.Delete(ctx, id); err != nil {
		return storeErr("delete vessel", err)
	}
	return nil
}

func (s *VesselService) getVessel(ctx context.Context, id uuid.UUID) (*domain.Vessel, error) {
	vessel, err := s.vesselRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVesselNotFound
		}
		return nil, storeErr("get vessel", err)
	}
	return vessel, nil
}

func deriveVesselCode(name string, number int) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Sprintf("%d", number)
	}
	return fmt.Sprintf("%s%d", strings.ToUpper(name[:1]), number)
}
