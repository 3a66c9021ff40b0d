package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Constructors(t *testing.T) {
	err := NewAppError(http.StatusBadRequest, CodeInvalidInput, "bad", ErrInvalidInput)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, CodeInvalidInput, err.Code)
	assert.Equal(t, "bad", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)

	notFound := NotFound("missing")
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.Equal(t, CodeNotFound, notFound.Code)

	conflict := Conflict("exists")
	assert.Equal(t, http.StatusConflict, conflict.Status)
	assert.Equal(t, CodeAlreadyExists, conflict.Code)

	internal := InternalError(stderrors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, CodeInternalError, internal.Code)

	unauth := Unauthorized("unauthorized")
	assert.Equal(t, http.StatusUnauthorized, unauth.Status)
	assert.Equal(t, CodeUnauthorized, unauth.Code)

	forbidden := Forbidden("forbidden")
	assert.Equal(t, http.StatusForbidden, forbidden.Status)
	assert.Equal(t, CodeForbidden, forbidden.Code)

	bare := &AppError{Err: ErrForbidden}
	assert.Equal(t, ErrForbidden.Error(), bare.Error())
	assert.Equal(t, "X", (&AppError{Code: "X"}).Error())
}

func TestVariantsWrapKinds(t *testing.T) {
	cases := []struct {
		variant *AppError
		kind    error
	}{
		{ErrDealNotFound, ErrNotFound},
		{ErrRestaurantNotFound, ErrNotFound},
		{ErrUserNotFound, ErrNotFound},
		{ErrRedemptionNotFound, ErrNotFound},
		{ErrDealLimitReached, ErrLimitReached},
		{ErrDealExhausted, ErrLimitReached},
		{ErrPerUserLimitReached, ErrLimitReached},
		{ErrDealExpired, ErrExpiredOrInactive},
		{ErrDealInactive, ErrExpiredOrInactive},
		{ErrRedemptionNotPending, ErrExpiredOrInactive},
		{ErrVerificationMismatch, ErrForbidden},
		{ErrEmailAlreadyExists, ErrAlreadyExists},
		{ErrCodeCollision, ErrAlreadyExists},
		{ErrBadCredentials, ErrInvalidCredentials},
		{ErrAccountInactive, ErrAccountDisabled},
		{ErrTokenIsExpired, ErrTokenExpired},
		{ErrTokenIsInvalid, ErrTokenInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.variant.Code, func(t *testing.T) {
			wrapped := fmt.Errorf("usecase: %w", tc.variant)
			assert.ErrorIs(t, wrapped, tc.kind)
			assert.ErrorIs(t, wrapped, tc.variant)
		})
	}

	assert.False(t, stderrors.Is(ErrTokenIsExpired, ErrTokenInvalid))
	assert.False(t, stderrors.Is(ErrDealExhausted, ErrPerUserLimitReached))
}

func TestClassify(t *testing.T) {
	got := Classify(fmt.Errorf("wrap: %w", ErrDealExhausted))
	assert.Same(t, ErrDealExhausted, got)

	got = Classify(fmt.Errorf("repo: %w", ErrNotFound))
	assert.Equal(t, http.StatusNotFound, got.Status)
	assert.Equal(t, CodeNotFound, got.Code)

	got = Classify(ErrTokenExpired)
	assert.Equal(t, CodeTokenExpired, got.Code)

	got = Classify(stderrors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Equal(t, CodeInternalError, got.Code)
	assert.Equal(t, "internal server error", got.Message)
}
