package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	ListBalances(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)

	ListRequests(w http.ResponseWriter, r *http.Request)
	SubmitRequest(w http.ResponseWriter, r *http.Request)
	EditRequest(w http.ResponseWriter, r *http.Request)
	DecideRequest(w http.ResponseWriter, r *http.Request)
	DeleteRequest(w http.ResponseWriter, r *http.Request)

	GetPolicy(w http.ResponseWriter, r *http.Request)
	UpdatePolicy(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
	loc          *time.Location
	now          func() time.Time
}

// asOf reads the optional as_of query date. Balances are computed at noon of
// that day in the company timezone.
func (l *LeaveHandlerImpl) asOf(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return l.now().In(l.loc), nil
	}
	d, err := dateutil.Parse(raw)
	if err != nil {
		return time.Time{}, validator.ValidationErrors{{Field: "as_of", Message: "as_of must be in YYYY-MM-DD format"}}
	}
	return d.At(12, 0, l.loc), nil
}

// ListBalances implements LeaveHandler. Employees only see their own balance.
func (l *LeaveHandlerImpl) ListBalances(w http.ResponseWriter, r *http.Request) {
	now, err := l.asOf(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	employeeID, err := scopeEmployee(r, "")
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if employeeID != "" {
		balance, err := l.leaveService.GetBalance(r.Context(), employeeID, now)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, []leave.Balance{balance})
		return
	}

	balances, err := l.leaveService.ListBalances(r.Context(), now)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// GetBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	employeeID, err := scopeEmployee(r, chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	now, err := l.asOf(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	balance, err := l.leaveService.GetBalance(r.Context(), employeeID, now)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	employeeID, err := scopeEmployee(r, q.Get("employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter, err := leave.ParseRequestFilter(employeeID, q.Get("status"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	requests, err := l.leaveService.ListRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// SubmitRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.SubmitRequest
	if !decodeJSON(w, r, "SubmitLeaveRequest", &req) {
		return
	}

	employeeID, err := scopeEmployee(r, req.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.EmployeeID = employeeID

	created, err := l.leaveService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", created)
}

// EditRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) EditRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	var req leave.SubmitRequest
	if !decodeJSON(w, r, "EditLeaveRequest", &req) {
		return
	}

	updated, err := l.leaveService.Edit(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request updated successfully", updated)
}

// DecideRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) DecideRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	var req leave.DecideRequest
	if !decodeJSON(w, r, "DecideLeaveRequest", &req) {
		return
	}

	decided, err := l.leaveService.Decide(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request "+string(decided.Status), decided)
}

// DeleteRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	if err := l.leaveService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

// GetPolicy implements LeaveHandler.
func (l *LeaveHandlerImpl) GetPolicy(w http.ResponseWriter, r *http.Request) {
	policy, err := l.leaveService.GetPolicy(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, policy)
}

// UpdatePolicy implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	var req leave.PolicyRequest
	if !decodeJSON(w, r, "UpdateLeavePolicy", &req) {
		return
	}

	policy, err := l.leaveService.UpdatePolicy(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave policy updated successfully", policy)
}

func NewLeaveHandler(leaveService leave.LeaveService, loc *time.Location) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
		loc:          loc,
		now:          time.Now,
	}
}
