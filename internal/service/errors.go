package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/splitit/internal/auth"
	"github.com/mmynk/splitit/internal/storage"
)

var (
	ErrGroupIDRequired      = errors.New("group_id required")
	ErrExpenseIDRequired    = errors.New("expense_id required")
	ErrNameRequired         = errors.New("name required")
	ErrDescriptionRequired  = errors.New("description required")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrTooFewParticipants   = errors.New("a group needs at least two participants")
	ErrDuplicateParticipant = errors.New("participant names must be unique")
	ErrPayerNotParticipant  = errors.New("payer must be a participant of the group")
	ErrParticipantInUse     = errors.New("participant is referenced by an expense")
	ErrGroupNotFound        = errors.New("group not found")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrParticipantNotFound  = errors.New("participant not found")
)

// connectError maps service and storage errors onto connect codes.
func connectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, ErrGroupIDRequired),
		errors.Is(err, ErrExpenseIDRequired),
		errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrDescriptionRequired),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrTooFewParticipants),
		errors.Is(err, ErrPayerNotParticipant),
		errors.Is(err, auth.ErrWeakPassword):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ErrGroupNotFound),
		errors.Is(err, ErrExpenseNotFound),
		errors.Is(err, ErrParticipantNotFound),
		errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ErrDuplicateParticipant),
		errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, ErrParticipantInUse):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return connect.NewError(connect.CodeUnauthenticated, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
