package errors

import (
	"errors"
	"net/http"
)

// Domain error kinds. Repositories return these; usecases wrap them in
// AppError variants so callers can match on either.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrLimitReached       = errors.New("limit reached")
	ErrExpiredOrInactive  = errors.New("expired or inactive")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Machine readable error codes
const (
	CodeNotFound             = "NOT_FOUND"
	CodeAlreadyExists        = "ALREADY_EXISTS"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeLimitReached         = "LIMIT_REACHED"
	CodeExpiredOrInactive    = "EXPIRED_OR_INACTIVE"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeAccountDisabled      = "ACCOUNT_DISABLED"
	CodeTokenExpired         = "TOKEN_EXPIRED"
	CodeTokenInvalid         = "TOKEN_INVALID"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeDealNotFound         = "DEAL_NOT_FOUND"
	CodeRestaurantNotFound   = "RESTAURANT_NOT_FOUND"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeRedemptionNotFound   = "REDEMPTION_NOT_FOUND"
	CodeDealLimitReached     = "DEAL_LIMIT_REACHED"
	CodeDealExhausted        = "DEAL_EXHAUSTED"
	CodePerUserLimitReached  = "PER_USER_LIMIT_REACHED"
	CodeDealExpired          = "DEAL_EXPIRED"
	CodeDealInactive         = "DEAL_INACTIVE"
	CodeRedemptionNotPending = "REDEMPTION_NOT_PENDING"
	CodeVerificationMismatch = "VERIFICATION_MISMATCH"
	CodeEmailAlreadyExists   = "EMAIL_ALREADY_EXISTS"
	CodeCodeCollision        = "CODE_COLLISION"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Variants returned by the usecases
var (
	ErrDealNotFound       = NewAppError(http.StatusNotFound, CodeDealNotFound, "deal not found", ErrNotFound)
	ErrRestaurantNotFound = NewAppError(http.StatusNotFound, CodeRestaurantNotFound, "restaurant not found", ErrNotFound)
	ErrUserNotFound       = NewAppError(http.StatusNotFound, CodeUserNotFound, "user not found", ErrNotFound)
	ErrRedemptionNotFound = NewAppError(http.StatusNotFound, CodeRedemptionNotFound, "redemption not found", ErrNotFound)

	ErrDealLimitReached    = NewAppError(http.StatusConflict, CodeDealLimitReached, "active deal limit reached for subscription tier", ErrLimitReached)
	ErrDealExhausted       = NewAppError(http.StatusConflict, CodeDealExhausted, "deal has no remaining uses", ErrLimitReached)
	ErrPerUserLimitReached = NewAppError(http.StatusConflict, CodePerUserLimitReached, "per-user redemption limit reached", ErrLimitReached)

	ErrDealExpired          = NewAppError(http.StatusGone, CodeDealExpired, "deal is not within its validity window", ErrExpiredOrInactive)
	ErrDealInactive         = NewAppError(http.StatusGone, CodeDealInactive, "deal is inactive", ErrExpiredOrInactive)
	ErrRedemptionNotPending = NewAppError(http.StatusConflict, CodeRedemptionNotPending, "redemption is not pending", ErrExpiredOrInactive)

	ErrVerificationMismatch = NewAppError(http.StatusForbidden, CodeVerificationMismatch, "verification code does not match", ErrForbidden)
	ErrNotOwner             = NewAppError(http.StatusForbidden, CodeForbidden, "not allowed to manage this restaurant", ErrForbidden)

	ErrEmailAlreadyExists = NewAppError(http.StatusConflict, CodeEmailAlreadyExists, "email already registered", ErrAlreadyExists)
	ErrCodeCollision      = NewAppError(http.StatusConflict, CodeCodeCollision, "could not generate a unique code", ErrAlreadyExists)

	ErrBadCredentials  = NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password", ErrInvalidCredentials)
	ErrAccountInactive = NewAppError(http.StatusForbidden, CodeAccountDisabled, "account is disabled", ErrAccountDisabled)
	ErrTokenIsExpired  = NewAppError(http.StatusUnauthorized, CodeTokenExpired, "token expired", ErrTokenExpired)
	ErrTokenIsInvalid  = NewAppError(http.StatusUnauthorized, CodeTokenInvalid, "token invalid", ErrTokenInvalid)
)

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeAlreadyExists, message, ErrAlreadyExists)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

var kinds = []struct {
	err    error
	status int
	code   string
}{
	{ErrNotFound, http.StatusNotFound, CodeNotFound},
	{ErrAlreadyExists, http.StatusConflict, CodeAlreadyExists},
	{ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput},
	{ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
	{ErrForbidden, http.StatusForbidden, CodeForbidden},
	{ErrLimitReached, http.StatusConflict, CodeLimitReached},
	{ErrExpiredOrInactive, http.StatusGone, CodeExpiredOrInactive},
	{ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
	{ErrAccountDisabled, http.StatusForbidden, CodeAccountDisabled},
	{ErrTokenExpired, http.StatusUnauthorized, CodeTokenExpired},
	{ErrTokenInvalid, http.StatusUnauthorized, CodeTokenInvalid},
}

// Classify resolves err to an AppError: an AppError in the chain wins,
// then a bare kind, then a generic internal error.
func Classify(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return NewAppError(k.status, k.code, k.err.Error(), err)
		}
	}
	return InternalError(err)
}
