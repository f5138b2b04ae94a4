package employeeerrors

import (
	"net/http"
	"shiftsync/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"No employee with that PIN",
		http.StatusNotFound,
	)
	ErrDuplicatePin = apperror.New(
		apperror.CodeConflict,
		"An employee with that PIN already exists",
		http.StatusConflict,
	)
	ErrNegativeRate = apperror.New(
		apperror.CodeInvalidInput,
		"Hourly rate must not be negative",
		http.StatusBadRequest,
	)
	ErrMissingRequiredFields = apperror.New(
		apperror.CodeInvalidInput,
		"PIN and name are required",
		http.StatusBadRequest,
	)
)
