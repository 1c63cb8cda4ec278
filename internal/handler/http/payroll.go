package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Preview(w http.ResponseWriter, r *http.Request)

	CreateManual(w http.ResponseWriter, r *http.Request)
	UpdateManual(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	RunPayday(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService payroll.PayrollService
	paydayService  payroll.PaydayService
	loc            *time.Location
	now            func() time.Time
}

func (h *PayrollHandlerImpl) filter(r *http.Request) (payroll.PayrollFilter, error) {
	q := r.URL.Query()

	employeeID, err := scopeEmployee(r, q.Get("employee_id"))
	if err != nil {
		return payroll.PayrollFilter{}, err
	}
	return payroll.ParseFilter(employeeID, q.Get("status"), q.Get("period_start"), q.Get("period_end"))
}

// List implements PayrollHandler.
func (h *PayrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter, err := h.filter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.payrollService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// Get implements PayrollHandler.
func (h *PayrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll record ID is required", nil)
		return
	}

	record, err := h.payrollService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Hide other employees' records behind a 404 rather than a 403.
	if _, err := scopeEmployee(r, record.EmployeeID); err != nil {
		response.HandleError(w, payroll.ErrPayrollRecordNotFound)
		return
	}

	response.Success(w, record)
}

// Summary implements PayrollHandler.
func (h *PayrollHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	filter, err := h.filter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.payrollService.Summary(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// Preview implements PayrollHandler.
func (h *PayrollHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	employeeID, err := scopeEmployee(r, q.Get("employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if employeeID == "" {
		response.HandleError(w, validator.ValidationErrors{{Field: "employee_id", Message: "employee_id is required"}})
		return
	}
	if !validator.IsValidUUID(employeeID) {
		response.HandleError(w, validator.ValidationErrors{{Field: "employee_id", Message: "employee_id must be a valid UUID"}})
		return
	}

	period, err := dateutil.ParseRange(q.Get("period_start"), q.Get("period_end"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.payrollService.ComputeForEmployee(r.Context(), employeeID, period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// CreateManual implements PayrollHandler.
func (h *PayrollHandlerImpl) CreateManual(w http.ResponseWriter, r *http.Request) {
	var req payroll.ManualPayrollRequest
	if !decodeJSON(w, r, "CreateManualPayroll", &req) {
		return
	}

	record, err := h.payrollService.CreateManual(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll record created successfully", record)
}

// UpdateManual implements PayrollHandler.
func (h *PayrollHandlerImpl) UpdateManual(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll record ID is required", nil)
		return
	}

	var req payroll.ManualPayrollRequest
	if !decodeJSON(w, r, "UpdateManualPayroll", &req) {
		return
	}

	record, err := h.payrollService.UpdateManual(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record updated successfully", record)
}

// MarkPaid implements PayrollHandler.
func (h *PayrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll record ID is required", nil)
		return
	}

	record, err := h.payrollService.MarkPaid(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record marked as paid", record)
}

// Delete implements PayrollHandler.
func (h *PayrollHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll record ID is required", nil)
		return
	}

	if err := h.payrollService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

// RunPayday implements PayrollHandler. The optional date query evaluates the
// payday rules as of noon on that day; partial failures are reported in the
// body, not as an error status.
func (h *PayrollHandlerImpl) RunPayday(w http.ResponseWriter, r *http.Request) {
	now := h.now().In(h.loc)
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := dateutil.Parse(raw)
		if err != nil {
			response.HandleError(w, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}})
			return
		}
		now = d.At(12, 0, h.loc)
	}

	result, err := h.paydayService.RunPaydayIfDue(r.Context(), now)
	if err != nil && len(result.Failures) == 0 {
		response.HandleError(w, err)
		return
	}

	resp := payroll.ToPaydayRunResponse(result)
	switch {
	case !result.Due:
		response.SuccessWithMessage(w, "Not a payday", resp)
	case len(result.Failures) > 0:
		response.SuccessWithMessage(w, "Payday run completed with failures", resp)
	default:
		response.SuccessWithMessage(w, "Payday run completed", resp)
	}
}

func NewPayrollHandler(payrollService payroll.PayrollService, paydayService payroll.PaydayService, loc *time.Location) PayrollHandler {
	return &PayrollHandlerImpl{
		payrollService: payrollService,
		paydayService:  paydayService,
		loc:            loc,
		now:            time.Now,
	}
}
