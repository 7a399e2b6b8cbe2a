package http

import (
	"errors"
	"net/http"
	"strings"

	loanDomain "smart-loan-recovery/internal/domain/loan"
	userDomain "smart-loan-recovery/internal/domain/user"
)

// errStatus maps domain error kinds to transport codes. Anything
// unrecognized is a storage failure surfaced as 500.
func errStatus(err error) int {
	switch {
	case errors.Is(err, loanDomain.ErrNotFound), errors.Is(err, userDomain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, loanDomain.ErrInvalidDuration),
		errors.Is(err, loanDomain.ErrInvalidParty),
		errors.Is(err, userDomain.ErrUnknownRole):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
