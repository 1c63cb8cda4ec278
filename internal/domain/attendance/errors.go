package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrClockOutBeforeIn   = errors.New("time out must be after time in")
)
