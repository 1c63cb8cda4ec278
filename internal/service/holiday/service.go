package holiday

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

type HolidayServiceImpl struct {
	holiday.HolidayRepository
	logger *slog.Logger
}

// List implements holiday.HolidayService.
func (s *HolidayServiceImpl) List(ctx context.Context) ([]holiday.HolidayResponse, error) {
	holidays, err := s.HolidayRepository.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	resp := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		resp = append(resp, holiday.ToResponse(h))
	}
	return resp, nil
}

// Create implements holiday.HolidayService.
func (s *HolidayServiceImpl) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	date, err := dateutil.Parse(req.Date)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	h := holiday.Holiday{
		Name:           req.Name,
		Date:           date,
		Type:           holiday.Type(req.Type),
		ManualOverride: req.IsManualOverride(),
	}
	if h.Type == "" {
		h.Type = holiday.TypeRegular
	}

	created, err := s.HolidayRepository.Create(ctx, h)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}
	return holiday.ToResponse(created), nil
}

// Delete implements holiday.HolidayService.
func (s *HolidayServiceImpl) Delete(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return holiday.ErrHolidayNotFound
	}
	return s.HolidayRepository.Delete(ctx, id)
}

// Import implements holiday.HolidayService.
func (s *HolidayServiceImpl) Import(ctx context.Context, holidays []holiday.Holiday) (holiday.ImportResult, error) {
	var result holiday.ImportResult
	for _, h := range holidays {
		h.ManualOverride = false
		written, err := s.HolidayRepository.Upsert(ctx, h)
		if err != nil {
			return result, fmt.Errorf("failed to import holiday %q on %s: %w", h.Name, h.Date, err)
		}
		if written {
			result.Written++
		} else {
			result.Kept++
		}
	}

	s.logger.Info("Holiday calendar imported", "written", result.Written, "kept", result.Kept)
	return result, nil
}

func NewHolidayService(holidayRepository holiday.HolidayRepository, logger *slog.Logger) holiday.HolidayService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HolidayServiceImpl{
		HolidayRepository: holidayRepository,
		logger:            logger,
	}
}
