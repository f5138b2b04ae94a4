package kioskerrors

import (
	"net/http"
	"shiftsync/internal/shared/apperror"
)

var (
	ErrKioskNotFound = apperror.New(
		apperror.CodeNotFound,
		"No kiosk with that ID",
		http.StatusNotFound,
	)
	ErrKioskIDExhausted = apperror.New(
		apperror.CodeInternalError,
		"Could not allocate a kiosk ID",
		http.StatusInternalServerError,
	)
)
