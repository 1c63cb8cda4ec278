package holiday

import "errors"

var (
	ErrHolidayNotFound      = errors.New("holiday not found")
	ErrHolidayAlreadyExists = errors.New("holiday with this name already exists on this date")
)
