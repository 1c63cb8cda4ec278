package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/sse"
	attendanceService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/attendance"
	holidayService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/holiday"
	leaveService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routerTestSecret = "test-secret-key-for-jwt"

var manila = time.FixedZone("PHT", 8*60*60)

const (
	emp1 = "0190c3a0-0000-7000-8000-000000000001"
	emp2 = "0190c3a0-0000-7000-8000-000000000002"
	emp3 = "0190c3a0-0000-7000-8000-000000000003"
)

// Unimplemented methods of the embedded interfaces panic, which fails the
// test that reached them.

type fakeAttendanceService struct {
	attendance.AttendanceService
	filter    attendance.Filter
	deleted   string
	deleteErr error
}

func (f *fakeAttendanceService) Delete(ctx context.Context, id string) error {
	f.deleted = id
	return f.deleteErr
}

func (f *fakeAttendanceService) ListViews(ctx context.Context, filter attendance.Filter) ([]attendance.View, error) {
	f.filter = filter
	return []attendance.View{}, nil
}

type fakeLeaveService struct {
	leave.LeaveService
	balanceFor string
	balanceAt  time.Time
	decideErr  error
	deleteErr  error
}

func (f *fakeLeaveService) Delete(ctx context.Context, id string) error {
	return f.deleteErr
}

func (f *fakeLeaveService) GetBalance(ctx context.Context, employeeID string, now time.Time) (leave.Balance, error) {
	f.balanceFor, f.balanceAt = employeeID, now
	return leave.Balance{EmployeeID: employeeID, VacationLeave: 7.5}, nil
}

func (f *fakeLeaveService) Decide(ctx context.Context, id string, req leave.DecideRequest) (leave.RequestResponse, error) {
	if f.decideErr != nil {
		return leave.RequestResponse{}, f.decideErr
	}
	return leave.RequestResponse{ID: id, Status: leave.RequestStatus(req.Status)}, nil
}

type fakeHolidayService struct {
	holiday.HolidayService
	deleteErr error
}

func (f *fakeHolidayService) Delete(ctx context.Context, id string) error {
	return f.deleteErr
}

type fakePayrollService struct {
	payroll.PayrollService
	filter  payroll.PayrollFilter
	records map[string]payroll.PayrollRecordResponse
	created int
}

func (f *fakePayrollService) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecordResponse, error) {
	f.filter = filter
	return []payroll.PayrollRecordResponse{}, nil
}

func (f *fakePayrollService) Get(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	rec, ok := f.records[id]
	if !ok {
		return payroll.PayrollRecordResponse{}, payroll.ErrPayrollRecordNotFound
	}
	return rec, nil
}

func (f *fakePayrollService) CreateManual(ctx context.Context, req payroll.ManualPayrollRequest) (payroll.PayrollRecordResponse, error) {
	f.created++
	return payroll.PayrollRecordResponse{ID: "p-new", EmployeeID: req.EmployeeID}, nil
}

type fakePaydayService struct {
	calledAt time.Time
	result   payroll.RunResult
	err      error
}

func (f *fakePaydayService) RunPaydayIfDue(ctx context.Context, now time.Time) (payroll.RunResult, error) {
	f.calledAt = now
	return f.result, f.err
}

type routerFixture struct {
	jwt        jwt.Service
	attendance *fakeAttendanceService
	leave      *fakeLeaveService
	holiday    *fakeHolidayService
	payroll    *fakePayrollService
	payday     *fakePaydayService
	hub        *sse.Hub
	events     *PaydayEvents
	handler    http.Handler
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		jwt:        jwt.NewJWTService(routerTestSecret),
		attendance: &fakeAttendanceService{},
		leave:      &fakeLeaveService{},
		holiday:    &fakeHolidayService{},
		payroll:    &fakePayrollService{records: map[string]payroll.PayrollRecordResponse{}},
		payday:     &fakePaydayService{},
		hub:        sse.NewHub(),
	}
	f.events = NewPaydayEvents(f.hub, slog.New(slog.NewTextHandler(io.Discard, nil)))
	f.handler = NewRouter(RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}}, f.jwt, Handlers{
		Attendance: NewAttendanceHandler(f.attendance),
		Leave:      NewLeaveHandler(f.leave, manila),
		Holiday:    NewHolidayHandler(f.holiday),
		Payroll:    NewPayrollHandler(f.payroll, f.payday, manila),
		Events:     f.events,
	})
	return f
}

func (f *routerFixture) token(t *testing.T, subject string, role jwt.Role) string {
	t.Helper()
	token, _, err := f.jwt.IssueAccessToken(subject, role, time.Hour)
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(t *testing.T, method, target, token, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestRouter_RequiresToken(t *testing.T) {
	f := newRouterFixture()

	rec, _ := f.do(t, http.MethodGet, "/api/v1/payroll/records", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/payroll/records", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RejectsNonAccessToken(t *testing.T) {
	f := newRouterFixture()
	_, token, err := f.jwt.JWTAuth().Encode(map[string]interface{}{
		"sub":  "admin-1",
		"role": "admin",
		"type": "refresh",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	rec, _ := f.do(t, http.MethodGet, "/api/v1/holidays", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ManagerRoutesForbiddenToEmployees(t *testing.T) {
	f := newRouterFixture()
	token := f.token(t, emp1, jwt.RoleEmployee)

	rec, body := f.do(t, http.MethodPost, "/api/v1/payroll/records", token, `{"employee_id":"`+emp1+`","basic_salary":"1000"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Zero(t, f.payroll.created)

	rec, _ = f.do(t, http.MethodPost, "/api/v1/payroll/payday/run", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/api/v1/payroll/records", f.token(t, "m1", jwt.RoleManager), `{"employee_id":"`+emp1+`","basic_salary":"1000"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, f.payroll.created)
}

func TestPayrollHandler_ListScopesEmployees(t *testing.T) {
	f := newRouterFixture()
	employee := f.token(t, emp1, jwt.RoleEmployee)

	rec, _ := f.do(t, http.MethodGet, "/api/v1/payroll/records?status=paid", employee, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.payroll.filter.EmployeeID)
	assert.Equal(t, emp1, *f.payroll.filter.EmployeeID)
	require.NotNil(t, f.payroll.filter.Status)
	assert.Equal(t, payroll.PayrollStatusPaid, *f.payroll.filter.Status)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/payroll/records?employee_id="+emp2, employee, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/payroll/records", f.token(t, "a1", jwt.RoleAdmin), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, f.payroll.filter.EmployeeID)
}

func TestPayrollHandler_ListRejectsBadFilter(t *testing.T) {
	f := newRouterFixture()

	rec, body := f.do(t, http.MethodGet, "/api/v1/payroll/records?period_start=16-10-2026", f.token(t, "a1", jwt.RoleAdmin), "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	details := body["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Contains(t, details, "period_start")
}

func TestPayrollHandler_GetHidesOtherEmployeesRecords(t *testing.T) {
	f := newRouterFixture()
	f.payroll.records["p1"] = payroll.PayrollRecordResponse{ID: "p1", EmployeeID: emp2}

	rec, _ := f.do(t, http.MethodGet, "/api/v1/payroll/records/p1", f.token(t, emp1, jwt.RoleEmployee), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/payroll/records/p1", f.token(t, emp2, jwt.RoleEmployee), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPayrollHandler_RunPaydayUsesDateAtNoon(t *testing.T) {
	f := newRouterFixture()
	f.payday.result = payroll.RunResult{
		RunID:   "run-1",
		Due:     true,
		PayDate: dateutil.MustParse("2026-10-16"),
		Period:  dateutil.Range{Start: dateutil.MustParse("2026-10-01"), End: dateutil.MustParse("2026-10-15")},
		Skipped: 2,
	}

	rec, body := f.do(t, http.MethodPost, "/api/v1/payroll/payday/run?date=2026-10-16", f.token(t, "m1", jwt.RoleManager), "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, time.Date(2026, 10, 16, 12, 0, 0, 0, manila), f.payday.calledAt)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["due"])
	assert.Equal(t, "2026-10-16", data["pay_date"])
	assert.Equal(t, float64(2), data["skipped"])
}

func TestPayrollHandler_RunPaydayReportsPartialFailure(t *testing.T) {
	f := newRouterFixture()
	failure := payroll.EmployeeFailure{EmployeeID: emp3, Err: assert.AnError}
	f.payday.result = payroll.RunResult{Due: true, Failures: []payroll.EmployeeFailure{failure}}
	f.payday.err = payroll.ErrBatchPartialFailure

	rec, body := f.do(t, http.MethodPost, "/api/v1/payroll/payday/run?date=2026-11-01", f.token(t, "a1", jwt.RoleAdmin), "")
	require.Equal(t, http.StatusOK, rec.Code)

	failures := body["data"].(map[string]interface{})["failures"].([]interface{})
	require.Len(t, failures, 1)
	assert.Equal(t, emp3, failures[0].(map[string]interface{})["employee_id"])
}

func TestPayrollHandler_RunPaydayErrors(t *testing.T) {
	f := newRouterFixture()
	token := f.token(t, "a1", jwt.RoleAdmin)

	rec, _ := f.do(t, http.MethodPost, "/api/v1/payroll/payday/run?date=tomorrow", token, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	f.payday.err = payroll.ErrPaydayRunInProgress
	rec, _ = f.do(t, http.MethodPost, "/api/v1/payroll/payday/run", token, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPayrollHandler_InvalidJSON(t *testing.T) {
	f := newRouterFixture()

	rec, body := f.do(t, http.MethodPost, "/api/v1/payroll/records", f.token(t, "a1", jwt.RoleAdmin), `{"basic_salary":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", body["error"].(map[string]interface{})["code"])
}

func TestLeaveHandler_EmployeeBalanceAsOf(t *testing.T) {
	f := newRouterFixture()

	rec, body := f.do(t, http.MethodGet, "/api/v1/leave/balances?as_of=2026-06-30", f.token(t, emp1, jwt.RoleEmployee), "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, emp1, f.leave.balanceFor)
	assert.Equal(t, time.Date(2026, 6, 30, 12, 0, 0, 0, manila), f.leave.balanceAt)
	assert.Len(t, body["data"].([]interface{}), 1)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/leave/balances/"+emp2, f.token(t, emp1, jwt.RoleEmployee), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLeaveHandler_DecideAlreadyProcessed(t *testing.T) {
	f := newRouterFixture()
	f.leave.decideErr = leave.ErrLeaveRequestAlreadyProcessed

	rec, _ := f.do(t, http.MethodPost, "/api/v1/leave/requests/lr1/decision", f.token(t, "m1", jwt.RoleManager), `{"status":"approved"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHolidayHandler_Delete(t *testing.T) {
	f := newRouterFixture()
	token := f.token(t, "m1", jwt.RoleManager)

	rec, _ := f.do(t, http.MethodDelete, "/api/v1/holidays/h1", token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	f.holiday.deleteErr = holiday.ErrHolidayNotFound
	rec, _ = f.do(t, http.MethodDelete, "/api/v1/holidays/h1", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttendanceHandler_ListParsesFilter(t *testing.T) {
	f := newRouterFixture()
	token := f.token(t, "m1", jwt.RoleManager)

	rec, _ := f.do(t, http.MethodGet, "/api/v1/attendance?employee_id="+emp1+"&from=2026-10-01&to=2026-10-15", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.attendance.filter.From)
	assert.Equal(t, "2026-10-01", f.attendance.filter.From.String())
	assert.Equal(t, emp1, *f.attendance.filter.EmployeeID)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/attendance?from=2026-10-15&to=2026-10-01", token, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAttendanceHandler_Delete(t *testing.T) {
	f := newRouterFixture()
	token := f.token(t, "m1", jwt.RoleManager)

	rec, _ := f.do(t, http.MethodDelete, "/api/v1/attendance/att-9", token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "att-9", f.attendance.deleted)

	f.attendance.deleteErr = attendance.ErrAttendanceNotFound
	rec, _ = f.do(t, http.MethodDelete, "/api/v1/attendance/att-9", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = f.do(t, http.MethodDelete, "/api/v1/attendance/att-9", f.token(t, emp1, jwt.RoleEmployee), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLeaveHandler_DeleteRequest(t *testing.T) {
	f := newRouterFixture()
	token := f.token(t, "m1", jwt.RoleManager)

	rec, _ := f.do(t, http.MethodDelete, "/api/v1/leave/requests/lr1", token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	f.leave.deleteErr = leave.ErrLeaveRequestAlreadyProcessed
	rec, _ = f.do(t, http.MethodDelete, "/api/v1/leave/requests/lr1", token, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandlers_RejectMalformedEmployeeFilter(t *testing.T) {
	f := newRouterFixture()
	token := f.token(t, "a1", jwt.RoleAdmin)

	for _, target := range []string{
		"/api/v1/attendance?employee_id=abc",
		"/api/v1/attendance/summary?employee_id=abc&from=2026-10-01&to=2026-10-15",
		"/api/v1/payroll/records?employee_id=abc",
		"/api/v1/payroll/summary?employee_id=abc",
		"/api/v1/payroll/preview?employee_id=abc&period_start=2026-10-01&period_end=2026-10-15",
	} {
		rec, body := f.do(t, http.MethodGet, target, token, "")
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, target)
		details := body["error"].(map[string]interface{})["details"].(map[string]interface{})
		assert.Contains(t, details, "employee_id", target)
	}
}

// Malformed ids are rejected by the services before any store is touched,
// so the stores can be left nil.
func TestHandlers_MalformedIDsNeverReachStores(t *testing.T) {
	f := newRouterFixture()
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewRouter(RouterConfig{}, f.jwt, Handlers{
		Attendance: NewAttendanceHandler(attendanceService.NewAttendanceService(nil, nil, nil, nil, nil)),
		Leave:      NewLeaveHandler(leaveService.NewLeaveService(nil, nil, nil, nil), manila),
		Holiday:    NewHolidayHandler(holidayService.NewHolidayService(nil, discard)),
		Payroll:    NewPayrollHandler(payrollService.NewPayrollService(nil, nil, nil, nil, nil, manila), f.payday, manila),
		Events:     f.events,
	})
	token := f.token(t, "m1", jwt.RoleManager)

	cases := []struct {
		method, target, body string
		want                 int
	}{
		{http.MethodGet, "/api/v1/payroll/records/abc", "", http.StatusNotFound},
		{http.MethodPost, "/api/v1/payroll/records/abc/pay", "", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/payroll/records/abc", "", http.StatusNotFound},
		{http.MethodPost, "/api/v1/payroll/records", `{"employee_id":"abc","basic_salary":"1000"}`, http.StatusUnprocessableEntity},
		{http.MethodGet, "/api/v1/leave/balances/abc", "", http.StatusNotFound},
		{http.MethodPost, "/api/v1/leave/requests", `{"employee_id":"abc","leave_type":"Sick","start_date":"2026-10-05","end_date":"2026-10-05"}`, http.StatusUnprocessableEntity},
		{http.MethodPost, "/api/v1/leave/requests/abc/decision", `{"status":"approved"}`, http.StatusNotFound},
		{http.MethodDelete, "/api/v1/leave/requests/abc", "", http.StatusNotFound},
		{http.MethodPut, "/api/v1/attendance/abc", `{"date":"2026-10-05"}`, http.StatusNotFound},
		{http.MethodDelete, "/api/v1/attendance/abc", "", http.StatusNotFound},
		{http.MethodPost, "/api/v1/attendance", `{"employee_id":"abc","date":"2026-10-05"}`, http.StatusUnprocessableEntity},
		{http.MethodDelete, "/api/v1/holidays/abc", "", http.StatusNotFound},
	}
	for _, c := range cases {
		req := httptest.NewRequest(c.method, c.target, strings.NewReader(c.body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, c.want, rec.Code, "%s %s", c.method, c.target)
	}
}
