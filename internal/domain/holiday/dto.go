package holiday

import (
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

// CreateHolidayRequest adds a holiday by hand. ManualOverride defaults to true
// so the entry survives later seed imports; send false to let the seed file
// replace it.
type CreateHolidayRequest struct {
	Name           string `json:"name"`
	Date           string `json:"date"`
	Type           string `json:"type"`
	ManualOverride *bool  `json:"manual_override,omitempty"`
}

func (r *CreateHolidayRequest) IsManualOverride() bool {
	return r.ManualOverride == nil || *r.ManualOverride
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.Type != "" && !Type(r.Type).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of regular, special, local",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type HolidayResponse struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Date           dateutil.Date `json:"date"`
	Type           Type          `json:"type"`
	ManualOverride bool          `json:"manual_override"`
}

func ToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:             h.ID,
		Name:           h.Name,
		Date:           h.Date,
		Type:           h.Type,
		ManualOverride: h.ManualOverride,
	}
}

// ImportResult reports the outcome of a seed import.
type ImportResult struct {
	Written int `json:"written"`
	Kept    int `json:"kept"`
}
