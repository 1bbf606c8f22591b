package matchhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authdomain "github.com/acain89/SkillGrid/app/modules/auth/domain"
	authmiddleware "github.com/acain89/SkillGrid/app/modules/auth/infrastructure/middleware"
	gamedomain "github.com/acain89/SkillGrid/app/modules/game/domain"
	matchservice "github.com/acain89/SkillGrid/app/modules/match/application"
	matchdomain "github.com/acain89/SkillGrid/app/modules/match/domain"
	matchkv "github.com/acain89/SkillGrid/app/modules/match/infrastructure/kvstore"
	"github.com/acain89/SkillGrid/internal/results"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	testMatchID = matchdomain.NewMatchID(uuid.MustParse("2f1d7a3e-8f0b-4a52-9a4e-0d5f3b1c9e77"), 1, 3)

	operator = &authdomain.Claims{UserID: "ops", Role: authdomain.RoleOperator}
	playerA  = &authdomain.Claims{UserID: "p1", Role: authdomain.RolePlayer}
	playerB  = &authdomain.Claims{UserID: "p2", Role: authdomain.RolePlayer}
	stranger = &authdomain.Claims{UserID: "p9", Role: authdomain.RolePlayer}
)

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func testSession() matchdomain.Session {
	return matchdomain.Session{MatchID: testMatchID, Round: 1, Match: 3, PlayerA: "p1", PlayerB: "p2"}
}

func sessionFound(context.Context, matchdomain.MatchID) (matchservice.SessionResult, error) {
	return results.SuccessResult[matchdomain.Session, error](testSession()), nil
}

func fakeAuth(claims *authdomain.Claims) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(authmiddleware.WithClaims(r.Context(), claims)))
		})
	}
}

func serve(svc *FakeService, claims *authdomain.Claims, method, target, body string) *httptest.ResponseRecorder {
	h := NewMatchHandlers(svc, testLogger(), noop.NewTracerProvider().Tracer("test"))
	r := chi.NewRouter()
	r.Route("/api/matches", Routes(h, fakeAuth(claims)))

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(method, target, reader))
	return rr
}

func TestMatchHandlers_HandleGetSession(t *testing.T) {
	tests := []struct {
		name     string
		get      func(context.Context, matchdomain.MatchID) (matchservice.SessionResult, error)
		wantCode int
	}{
		{name: "found", get: sessionFound, wantCode: http.StatusOK},
		{
			name: "missing",
			get: func(context.Context, matchdomain.MatchID) (matchservice.SessionResult, error) {
				return results.FailureResult[matchdomain.Session, error](matchservice.ErrSessionNotFound), nil
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "malformed id",
			get: func(context.Context, matchdomain.MatchID) (matchservice.SessionResult, error) {
				return results.FailureResult[matchdomain.Session, error](matchdomain.ErrInvalidMatchID), nil
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "store outage",
			get: func(context.Context, matchdomain.MatchID) (matchservice.SessionResult, error) {
				return matchservice.SessionResult{}, errors.New("nats: no responders")
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{GetSessionFunc: tt.get}
			rr := serve(svc, playerA, http.MethodGet, "/api/matches/"+testMatchID.String(), "")

			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantCode == http.StatusOK {
				var got matchdomain.Session
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
				assert.Equal(t, testMatchID, got.MatchID)
			}
		})
	}
}

func TestMatchHandlers_HandleApplyMove(t *testing.T) {
	target := "/api/matches/" + testMatchID.String() + "/moves"

	tests := []struct {
		name      string
		claims    *authdomain.Claims
		body      string
		failure   error
		wantCode  int
		wantSeat  gamedomain.Seat
		wantTrace []string
	}{
		{
			name:      "seat A moves",
			claims:    playerA,
			body:      `{"game_type":"connect_four","move":{"column":3}}`,
			wantCode:  http.StatusOK,
			wantSeat:  gamedomain.SeatA,
			wantTrace: []string{"GetSession", "ApplyGameMove"},
		},
		{
			name:      "seat B moves",
			claims:    playerB,
			body:      `{"game_type":"connect_four","move":{"column":0}}`,
			wantCode:  http.StatusOK,
			wantSeat:  gamedomain.SeatB,
			wantTrace: []string{"GetSession", "ApplyGameMove"},
		},
		{
			name:      "spectators cannot move",
			claims:    stranger,
			body:      `{"game_type":"connect_four","move":{"column":3}}`,
			wantCode:  http.StatusForbidden,
			wantTrace: []string{"GetSession"},
		},
		{
			name:      "operators are not seated",
			claims:    operator,
			body:      `{"game_type":"connect_four","move":{"column":3}}`,
			wantCode:  http.StatusForbidden,
			wantTrace: []string{"GetSession"},
		},
		{
			name:     "unknown game",
			claims:   playerA,
			body:     `{"game_type":"chess","move":{}}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown field",
			claims:   playerA,
			body:     `{"game_type":"connect_four","move":{"column":3},"seat":"B"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:      "out of turn",
			claims:    playerB,
			body:      `{"game_type":"connect_four","move":{"column":3}}`,
			failure:   gamedomain.ErrNotYourTurn,
			wantCode:  http.StatusConflict,
			wantSeat:  gamedomain.SeatB,
			wantTrace: []string{"GetSession", "ApplyGameMove"},
		},
		{
			name:      "full column",
			claims:    playerA,
			body:      `{"game_type":"connect_four","move":{"column":3}}`,
			failure:   gamedomain.ErrColumnFull,
			wantCode:  http.StatusUnprocessableEntity,
			wantSeat:  gamedomain.SeatA,
			wantTrace: []string{"GetSession", "ApplyGameMove"},
		},
		{
			name:      "match already decided",
			claims:    playerA,
			body:      `{"game_type":"connect_four","move":{"column":3}}`,
			failure:   matchdomain.ErrMatchDecided,
			wantCode:  http.StatusConflict,
			wantSeat:  gamedomain.SeatA,
			wantTrace: []string{"GetSession", "ApplyGameMove"},
		},
		{
			name:      "lost update",
			claims:    playerA,
			body:      `{"game_type":"connect_four","move":{"column":3}}`,
			failure:   matchkv.ErrConcurrentUpdate,
			wantCode:  http.StatusConflict,
			wantSeat:  gamedomain.SeatA,
			wantTrace: []string{"GetSession", "ApplyGameMove"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSeat gamedomain.Seat
			var gotMove gamedomain.Move
			svc := &FakeService{
				GetSessionFunc: sessionFound,
				ApplyGameMoveFunc: func(_ context.Context, id matchdomain.MatchID, seat gamedomain.Seat, move gamedomain.Move) (matchservice.MoveResult, error) {
					assert.Equal(t, testMatchID, id)
					gotSeat, gotMove = seat, move
					if tt.failure != nil {
						return results.FailureResult[matchservice.MoveOutcome, error](tt.failure), nil
					}
					return results.SuccessResult[matchservice.MoveOutcome, error](matchservice.MoveOutcome{
						Session: testSession(),
						Game:    gamedomain.GameConnectFour,
						Number:  1,
					}), nil
				},
			}

			rr := serve(svc, tt.claims, http.MethodPost, target, tt.body)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantTrace, svc.Trace())
			if tt.wantSeat != gamedomain.SeatNone {
				assert.Equal(t, tt.wantSeat, gotSeat)
				assert.IsType(t, gamedomain.ConnectFourMove{}, gotMove)
			}
		})
	}
}

func TestMatchHandlers_HandleReportResult(t *testing.T) {
	target := "/api/matches/" + testMatchID.String() + "/results"

	tests := []struct {
		name       string
		claims     *authdomain.Claims
		body       string
		failure    error
		wantCode   int
		wantWinner gamedomain.Seat
		wantCalled bool
	}{
		{
			name:       "forfeit to B",
			claims:     operator,
			body:       `{"game_type":"checkers","game_number":2,"winning_seat":"B"}`,
			wantCode:   http.StatusOK,
			wantWinner: gamedomain.SeatB,
			wantCalled: true,
		},
		{
			name:       "draw",
			claims:     operator,
			body:       `{"game_type":"grid_trap","game_number":0,"winning_seat":""}`,
			wantCode:   http.StatusOK,
			wantWinner: gamedomain.SeatNone,
			wantCalled: true,
		},
		{
			name:     "players cannot report",
			claims:   playerA,
			body:     `{"game_type":"checkers","game_number":2,"winning_seat":"A"}`,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "bad seat",
			claims:   operator,
			body:     `{"game_type":"checkers","game_number":2,"winning_seat":"C"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:       "game not yet played",
			claims:     operator,
			body:       `{"game_type":"checkers","game_number":9,"winning_seat":"A"}`,
			failure:    matchdomain.ErrGameNumberAhead,
			wantCode:   http.StatusConflict,
			wantWinner: gamedomain.SeatA,
			wantCalled: true,
		},
		{
			name:       "bracket refuses",
			claims:     operator,
			body:       `{"game_type":"checkers","game_number":0,"winning_seat":"A"}`,
			failure:    matchservice.ErrBracketRejected,
			wantCode:   http.StatusConflict,
			wantWinner: gamedomain.SeatA,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotWinner gamedomain.Seat
			svc := &FakeService{
				ReportSeriesGameResultFunc: func(_ context.Context, _ matchdomain.MatchID, _ gamedomain.GameType, _ int, winner gamedomain.Seat) (matchservice.TriathlonReportResult, error) {
					gotWinner = winner
					if tt.failure != nil {
						return results.FailureResult[matchservice.TriathlonReport, error](tt.failure), nil
					}
					return results.SuccessResult[matchservice.TriathlonReport, error](matchservice.TriathlonReport{
						MatchID: testMatchID,
						Status:  matchservice.StatusContinue,
					}), nil
				},
			}

			rr := serve(svc, tt.claims, http.MethodPost, target, tt.body)

			assert.Equal(t, tt.wantCode, rr.Code)
			if !tt.wantCalled {
				assert.Empty(t, svc.Trace())
				return
			}
			assert.Equal(t, tt.wantWinner, gotWinner)
		})
	}
}
