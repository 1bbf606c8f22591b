package matchkv

import (
	"context"

	matchdomain "github.com/acain89/SkillGrid/app/modules/match/domain"
)

// Store persists live sessions. Sessions carry the revision they were read
// at, and Update only succeeds against that revision.
type Store interface {
	Get(ctx context.Context, id matchdomain.MatchID) (matchdomain.Session, error)
	Create(ctx context.Context, s matchdomain.Session) (matchdomain.Session, error)
	Update(ctx context.Context, s matchdomain.Session) (matchdomain.Session, error)
}
