package balanceerrors

import (
	"fmt"
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"invalid year",
		http.StatusBadRequest,
	)
	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"days must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidReservationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid reservation id",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"insufficient leave balance",
		http.StatusUnprocessableEntity,
	)
	ErrNegativeAllocation = apperror.New(
		apperror.CodeInvalidAllocation,
		"allocation would leave a negative remaining balance",
		http.StatusUnprocessableEntity,
	)
	ErrAllocationBelowHolds = apperror.New(
		apperror.CodeInvalidAllocation,
		"allocation would not cover days already reserved by pending requests",
		http.StatusUnprocessableEntity,
	)
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave balance not found",
		http.StatusNotFound,
	)
	ErrReservationNotFound = apperror.New(
		apperror.CodeNotFound,
		"reservation not found",
		http.StatusNotFound,
	)
	ErrReservationReleased = apperror.New(
		apperror.CodeInvalidState,
		"reservation was already released",
		http.StatusConflict,
	)
	ErrReservationCommitted = apperror.New(
		apperror.CodeInvalidState,
		"reservation was already committed",
		http.StatusConflict,
	)
	ErrBalanceConflict = apperror.New(
		apperror.CodeConflict,
		"leave balance was modified concurrently, please retry",
		http.StatusConflict,
	)
	ErrDuplicateLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"each leave type may appear only once",
		http.StatusBadRequest,
	)
	ErrUserListUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"user directory is not available",
		http.StatusServiceUnavailable,
	)
	ErrYearResetUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"year reset scheduling is not available",
		http.StatusServiceUnavailable,
	)
)

// InsufficientBalance carries the figures the client shows next to the form.
func InsufficientBalance(remaining, available, requested int) *apperror.AppError {
	return apperror.Wrap(
		ErrInsufficientBalance,
		apperror.CodeInsufficientBalance,
		fmt.Sprintf("Insufficient leave balance: you have %d days available, but requested %d days", available, requested),
		http.StatusUnprocessableEntity,
	).WithDetails(map[string]int{
		"remaining_days": remaining,
		"available_days": available,
		"requested_days": requested,
	})
}
