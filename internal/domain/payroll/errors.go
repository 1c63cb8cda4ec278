package payroll

import "errors"

var (
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrPayrollRecordAlreadyPaid   = errors.New("payroll record already paid, cannot modify")
	ErrCannotDeletePaidRecord     = errors.New("cannot delete paid payroll record")
	ErrNotManualRecord            = errors.New("only manual payroll records can be edited")
	ErrInvalidPeriod              = errors.New("invalid payroll period")
	ErrBatchPartialFailure        = errors.New("payday run finished with failures")
	ErrPaydayRunInProgress        = errors.New("a payday run is already in progress")
)
