package reporterrors

import (
	"net/http"

	"crewtrack/internal/shared/apperror"
)

var (
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid month, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid year",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrNoData = apperror.New(
		apperror.CodeNotFound,
		"No data for the requested period",
		http.StatusNotFound,
	)
	ErrGenerateFailed = apperror.New(
		apperror.CodeInternalError,
		"Report generation failed",
		http.StatusInternalServerError,
	)
)
