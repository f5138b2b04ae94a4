package timeclockerrors

import (
	"net/http"
	"shiftsync/internal/shared/apperror"
)

var (
	ErrUnknownPin = apperror.New(
		apperror.CodeNotFound,
		"No employee with that PIN",
		http.StatusNotFound,
	)
	ErrAlreadyClockedIn = apperror.New(
		apperror.CodeInvalidState,
		"Already clocked in",
		http.StatusConflict,
	)
	ErrNotClockedIn = apperror.New(
		apperror.CodeInvalidState,
		"No open session for that PIN",
		http.StatusConflict,
	)
	ErrSessionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Session not found",
		http.StatusNotFound,
	)
	ErrInvalidRange = apperror.New(
		apperror.CodeInvalidInput,
		"Clock-out must be after clock-in",
		http.StatusBadRequest,
	)
	ErrUnknownRangeKeyword = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown date range keyword",
		http.StatusBadRequest,
	)
)
