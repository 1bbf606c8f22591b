package tournamenthandlers

import (
	"errors"
	"net/http"

	tournamentservice "github.com/acain89/SkillGrid/app/modules/tournament/application"
	tournamentdomain "github.com/acain89/SkillGrid/app/modules/tournament/domain"
	"github.com/acain89/SkillGrid/internal/httpx"
)

// statusFor maps a service failure to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tournamentservice.ErrTournamentNotFound),
		errors.Is(err, tournamentdomain.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, tournamentservice.ErrEntryFeeDeclined):
		return http.StatusPaymentRequired
	case errors.Is(err, tournamentdomain.ErrInvalidTier),
		errors.Is(err, tournamentdomain.ErrInvalidFormat),
		errors.Is(err, tournamentdomain.ErrInvalidEntryFee),
		errors.Is(err, tournamentdomain.ErrInvalidPlayers),
		errors.Is(err, tournamentdomain.ErrInvalidSeat):
		return http.StatusBadRequest
	case errors.Is(err, tournamentdomain.ErrDuplicatePlayer),
		errors.Is(err, tournamentdomain.ErrTournamentFull),
		errors.Is(err, tournamentdomain.ErrNotWaiting),
		errors.Is(err, tournamentdomain.ErrNotRunning),
		errors.Is(err, tournamentdomain.ErrMatchNotReady),
		errors.Is(err, tournamentdomain.ErrMatchAlreadyDecided):
		return http.StatusConflict
	}
	return http.StatusUnprocessableEntity
}

func writeFailure(w http.ResponseWriter, err error) {
	httpx.WriteError(w, statusFor(err), err.Error())
}
