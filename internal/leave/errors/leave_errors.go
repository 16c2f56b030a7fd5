package leaveerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrStartDateInPast = apperror.New(
		apperror.CodeInvalidInput,
		"start_date cannot be in the past",
		http.StatusBadRequest,
	)
	ErrInsufficientNotice = apperror.New(
		apperror.CodeInvalidInput,
		"start_date does not give the minimum notice for this leave type",
		http.StatusBadRequest,
	)
	ErrExceedsMaxConsecutiveDays = apperror.New(
		apperror.CodeInvalidInput,
		"leave period exceeds the maximum consecutive days for this leave type",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeInvalidInput,
		"a leave request already exists in an overlapping period",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"invalid year",
		http.StatusBadRequest,
	)
	ErrInvalidScope = apperror.New(
		apperror.CodeInvalidInput,
		"scope must be mine or all",
		http.StatusBadRequest,
	)
	ErrInvalidApprovalType = apperror.New(
		apperror.CodeInvalidInput,
		"type must be one of team-lead, hr, management",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to act on this leave request",
		http.StatusForbidden,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"leave request cannot move to the requested status",
		http.StatusConflict,
	)
	ErrNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"only pending leave requests can be edited",
		http.StatusConflict,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"you have already decided an earlier step of this leave request",
		http.StatusConflict,
	)
	ErrNoPendingStep = apperror.New(
		apperror.CodeInvalidState,
		"leave request has no step awaiting a decision",
		http.StatusConflict,
	)
	ErrConcurrentModification = apperror.New(
		apperror.CodeConflict,
		"leave request was modified concurrently, please reload and retry",
		http.StatusConflict,
	)
)
