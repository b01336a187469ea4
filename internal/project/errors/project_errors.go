package projecterrors

import (
	"net/http"

	"crewtrack/internal/shared/apperror"
)

var (
	ErrProjectNotFound = apperror.New(
		apperror.CodeNotFound,
		"Project not found",
		http.StatusNotFound,
	)
	ErrProjectNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Project number already exists",
		http.StatusConflict,
	)
	ErrInvalidProjectID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid project ID",
		http.StatusBadRequest,
	)
	ErrInvalidUploaderID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid uploader ID",
		http.StatusBadRequest,
	)
)
