package authflow

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MrEthical07/authflow/token"
)

// Classifier maps any flow error to the (status, message) pair written to
// the response. It is an ordered chain: the validation matcher runs first,
// then the adapter's own matchers, then the token matcher, then the flow
// matcher. The first matcher that recognizes the error wins; an error no
// matcher recognizes maps to 500 "Internal server error" and never leaks
// internal error text.
type Classifier struct {
	matchers []ErrorMatcher
}

func newClassifier(adapterMatchers []ErrorMatcher) *Classifier {
	matchers := make([]ErrorMatcher, 0, len(adapterMatchers)+3)
	matchers = append(matchers, matchValidation)
	matchers = append(matchers, adapterMatchers...)
	matchers = append(matchers, matchToken, matchFlow)

	return &Classifier{matchers: matchers}
}

// Classify describes the classify operation and its observable behavior.
//
// Classify may return an error when input validation, dependency calls, or security checks fail.
// Classify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Classifier) Classify(err error) (int, string) {
	for _, match := range c.matchers {
		if status, message, ok := match(err); ok {
			return status, message
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

func matchValidation(err error) (int, string, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, strings.Join(verr.Messages(), "; "), true
	}
	return 0, "", false
}

func matchToken(err error) (int, string, bool) {
	switch {
	case errors.Is(err, token.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired", true
	case errors.Is(err, token.ErrNoToken), errors.Is(err, token.ErrTokenInvalid):
		return http.StatusUnauthorized, "Invalid auth token", true
	}
	return 0, "", false
}

func matchFlow(err error) (int, string, bool) {
	var dup *DuplicateKeyError
	if errors.As(err, &dup) {
		return http.StatusBadRequest, dup.Error(), true
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid login credentials.", true
	case errors.Is(err, ErrUserNotFound):
		return http.StatusBadRequest, "User not found.", true
	case errors.Is(err, ErrInvalidVerificationCode):
		return http.StatusBadRequest, "Invalid verification code.", true
	case errors.Is(err, ErrInvalidResetCode):
		return http.StatusBadRequest, "Invalid reset code.", true
	case errors.Is(err, ErrAlreadyVerified):
		return http.StatusBadRequest, "Account already verified.", true
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden, "Unauthorized (Missing permission)", true
	case errors.Is(err, ErrVerificationDisabled):
		return http.StatusBadRequest, "Email verification disabled.", true
	}
	return 0, "", false
}
