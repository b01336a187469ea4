package vehicleerrors

import (
	"net/http"

	"crewtrack/internal/shared/apperror"
)

var (
	ErrVehicleNotFound = apperror.New(
		apperror.CodeNotFound,
		"Vehicle not found",
		http.StatusNotFound,
	)
	ErrBookingNotFound = apperror.New(
		apperror.CodeNotFound,
		"Vehicle booking not found",
		http.StatusNotFound,
	)
	ErrPlateAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Vehicle with the same plate already exists",
		http.StatusConflict,
	)
	ErrVehicleInactive = apperror.New(
		apperror.CodeInvalidState,
		"Vehicle is not active",
		http.StatusConflict,
	)
	ErrBookingOverlap = apperror.New(
		apperror.CodeConflict,
		"Vehicle is already booked in this period",
		http.StatusConflict,
	)
	ErrInvalidBookingPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"ends_at must be after starts_at",
		http.StatusBadRequest,
	)
	ErrInvalidTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid time format, expected RFC3339",
		http.StatusBadRequest,
	)
	ErrInvalidVehicleID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid vehicle ID",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrBookingAlreadyClosed = apperror.New(
		apperror.CodeInvalidState,
		"Vehicle booking is already closed",
		http.StatusConflict,
	)
)
