package matchhandlers

import (
	"errors"
	"net/http"

	gamedomain "github.com/acain89/SkillGrid/app/modules/game/domain"
	matchservice "github.com/acain89/SkillGrid/app/modules/match/application"
	matchdomain "github.com/acain89/SkillGrid/app/modules/match/domain"
	matchkv "github.com/acain89/SkillGrid/app/modules/match/infrastructure/kvstore"
	"github.com/acain89/SkillGrid/internal/httpx"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, matchservice.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, matchdomain.ErrInvalidMatchID),
		errors.Is(err, matchdomain.ErrInvalidResult),
		errors.Is(err, gamedomain.ErrUnknownGame):
		return http.StatusBadRequest
	case errors.Is(err, gamedomain.ErrNotYourTurn),
		errors.Is(err, matchdomain.ErrMatchDecided),
		errors.Is(err, matchdomain.ErrSeriesNotStarted),
		errors.Is(err, matchdomain.ErrGameNumberAhead),
		errors.Is(err, matchservice.ErrBracketRejected),
		errors.Is(err, matchkv.ErrConcurrentUpdate):
		return http.StatusConflict
	}
	return http.StatusUnprocessableEntity
}

func writeFailure(w http.ResponseWriter, err error) {
	httpx.WriteError(w, statusFor(err), err.Error())
}
