package vaulthandlers

import (
	"errors"
	"net/http"

	vaultservice "github.com/acain89/SkillGrid/app/modules/vault/application"
	vaultdomain "github.com/acain89/SkillGrid/app/modules/vault/domain"
	"github.com/acain89/SkillGrid/internal/httpx"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, vaultservice.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, vaultdomain.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, vaultdomain.ErrInvalidAmount),
		errors.Is(err, vaultdomain.ErrInvalidUser),
		errors.Is(err, vaultdomain.ErrInvalidKind),
		errors.Is(err, vaultdomain.ErrMissingReference):
		return http.StatusBadRequest
	case errors.Is(err, vaultdomain.ErrIdempotencyConflict):
		return http.StatusConflict
	}
	return http.StatusUnprocessableEntity
}

func writeFailure(w http.ResponseWriter, err error) {
	httpx.WriteError(w, statusFor(err), err.Error())
}
