// internal/httpserver/routes_duel.go
//
// HTTP routes for two-player duels. All require auth; the caller is the
// authenticated user.
//   - POST /duel/start   → challenge an opponent (caller sets, opponent guesses)
//   - POST /duel/word    → choose the secret for the caller's duel
//   - POST /duel/guess   → guess in the duel where the caller is guesser
//   - POST /duel/reset   → abandon the caller's duel
//   - GET  /duel/mine    → the caller's live duels
//   - GET  /duel/history → the caller's finished duels
//
// The other participant is told about every step through the notify hub.
// Finished duels are written to history best effort: a failed write is
// logged and never fails the request.

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordle/apps/duel-server/internal/auth"
	"github.com/robalobadob/wordle/apps/duel-server/internal/duel"
	"github.com/robalobadob/wordle/apps/duel-server/internal/game"
	"github.com/robalobadob/wordle/apps/duel-server/internal/history"
	"github.com/robalobadob/wordle/apps/duel-server/internal/notify"
	"github.com/robalobadob/wordle/apps/duel-server/internal/render"
)

// mountDuel registers all /duel routes except the event stream.
func (s *Server) mountDuel(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(s.Auth.Require())
		r.Post("/duel/start", s.handleStart)
		r.Post("/duel/word", s.handleSetWord)
		r.Post("/duel/guess", s.handleGuess)
		r.Post("/duel/reset", s.handleReset)
		r.Get("/duel/mine", s.handleMine)
		r.Get("/duel/history", s.handleHistory)
	})
}

// caller returns the authenticated player. Require guarantees it is set.
func caller(r *http.Request) duel.PlayerID {
	return duel.PlayerID(auth.FromContext(r.Context()).ID)
}

// -----------------------------------------------------------------------------
// /duel/start

// startReq names the opponent by id or by username.
type startReq struct {
	OpponentID       string `json:"opponentId"`
	OpponentUsername string `json:"opponentUsername"`
}

type startRes struct {
	Duel duel.Handle `json:"duel"`
}

// handleStart resolves the opponent and creates the duel.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startReq
	if !decode(w, r, &req) {
		return
	}
	me := auth.FromContext(r.Context())

	var (
		opp *auth.User
		err error
	)
	switch {
	case strings.TrimSpace(req.OpponentID) != "":
		opp, err = s.Auth.Users.ByID(strings.TrimSpace(req.OpponentID))
	case strings.TrimSpace(req.OpponentUsername) != "":
		opp, err = s.Auth.Users.ByUsername(strings.TrimSpace(req.OpponentUsername))
	default:
		writeError(w, http.StatusBadRequest, "missing_opponent", "opponentId or opponentUsername is required")
		return
	}
	if errors.Is(err, auth.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "unknown_player", "no such player")
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("resolve opponent")
		writeError(w, http.StatusInternalServerError, "internal", "")
		return
	}

	h, err := s.Duels.Create(duel.PlayerID(me.ID), duel.PlayerID(opp.ID))
	if err != nil {
		writeDuelError(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().Str("duel", h.ID).Str("setter", me.ID).Str("guesser", opp.ID).Msg("duel created")

	s.Hub.Publish(opp.ID, notify.Event{
		Kind:   notify.KindDuelStarted,
		DuelID: h.ID,
		From:   me.ID,
		Text:   fmt.Sprintf("%s challenged you to a duel. Waiting for them to choose the word.", me.Username),
	})
	writeJSON(w, http.StatusCreated, startRes{Duel: h})
}

// -----------------------------------------------------------------------------
// /duel/word

type wordReq struct {
	Word string `json:"word"`
}

type setWordRes struct {
	DuelID    string `json:"duelId"`
	GuesserID string `json:"guesserId"`
	Word      string `json:"word"` // echoed to the setter only
}

// handleSetWord stores the secret and tells the guesser to start.
func (s *Server) handleSetWord(w http.ResponseWriter, r *http.Request) {
	var req wordReq
	if !decode(w, r, &req) {
		return
	}
	me := caller(r)
	ack, err := s.Duels.SetSecret(me, strings.TrimSpace(req.Word))
	if err != nil {
		writeDuelError(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().Str("duel", ack.Handle.ID).Msg("secret set")

	s.Hub.Publish(string(ack.Guesser), notify.Event{
		Kind:   notify.KindSecretSet,
		DuelID: ack.Handle.ID,
		From:   string(me),
		Text:   "📢 The word is set. You can start guessing now!",
	})
	writeJSON(w, http.StatusOK, setWordRes{
		DuelID:    ack.Handle.ID,
		GuesserID: string(ack.Guesser),
		Word:      string(ack.Secret),
	})
}

// -----------------------------------------------------------------------------
// /duel/guess

type guessRes struct {
	DuelID      string                      `json:"duelId"`
	Word        game.Word                   `json:"word"`
	Marks       game.Feedback               `json:"marks"`
	Attempts    int                         `json:"attempts"`
	MaxAttempts int                         `json:"maxAttempts"`
	Keyboard    map[string]game.LetterState `json:"keyboard"`
	Outcome     duel.Outcome                `json:"outcome"`
	Secret      game.Word                   `json:"secret,omitempty"`
	Text        string                      `json:"text"`
}

func newGuessRes(res duel.GuessResult) guessRes {
	return guessRes{
		DuelID:      res.Handle.ID,
		Word:        res.Word,
		Marks:       res.Feedback,
		Attempts:    res.Attempts,
		MaxAttempts: duel.MaxAttempts,
		Keyboard:    res.Keyboard.Map(),
		Outcome:     res.Outcome,
		Secret:      res.Secret,
		Text:        render.Guess(res),
	}
}

// handleGuess scores a guess, tells the setter, and records finished duels.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req wordReq
	if !decode(w, r, &req) {
		return
	}
	res, err := s.Duels.SubmitGuess(caller(r), strings.TrimSpace(req.Word))
	if err != nil {
		writeDuelError(w, r, err)
		return
	}
	out := newGuessRes(res)

	kind := notify.KindGuess
	switch res.Outcome {
	case duel.OutcomeWon:
		kind = notify.KindDuelWon
		hlog.FromRequest(r).Info().Str("duel", res.Handle.ID).Int("attempts", res.Attempts).Msg("duel won")
		s.record(r.Context(), res.Handle, history.OutcomeWon, res.Attempts, res.Word)
	case duel.OutcomeLost:
		kind = notify.KindDuelLost
		hlog.FromRequest(r).Info().Str("duel", res.Handle.ID).Msg("duel lost")
		s.record(r.Context(), res.Handle, history.OutcomeLost, res.Attempts, res.Secret)
	}
	s.Hub.Publish(string(res.Handle.Setter), notify.Event{
		Kind:    kind,
		DuelID:  res.Handle.ID,
		From:    string(res.Handle.Guesser),
		Text:    out.Text,
		Payload: out,
	})
	writeJSON(w, http.StatusOK, out)
}

// -----------------------------------------------------------------------------
// /duel/reset

type resetRes struct {
	DuelID string `json:"duelId"`
	Reset  bool   `json:"reset"`
}

// handleReset abandons the caller's duel without confirmation.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	me := caller(r)
	v, err := s.Duels.Reset(me)
	if err != nil {
		writeDuelError(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().Str("duel", v.Handle.ID).Str("by", string(me)).Msg("duel reset")
	s.record(r.Context(), v.Handle, history.OutcomeReset, v.Attempts, "")

	s.Hub.Publish(string(v.Handle.Other(me)), notify.Event{
		Kind:   notify.KindDuelReset,
		DuelID: v.Handle.ID,
		From:   string(me),
		Text:   "🔄 The duel was reset.",
	})
	writeJSON(w, http.StatusOK, resetRes{DuelID: v.Handle.ID, Reset: true})
}

// -----------------------------------------------------------------------------
// /duel/mine

type viewRes struct {
	Duel     duel.Handle                 `json:"duel"`
	Role     string                      `json:"role"` // setter | guesser
	State    duel.State                  `json:"state"`
	Attempts int                         `json:"attempts"`
	Keyboard map[string]game.LetterState `json:"keyboard"`
}

func (s *Server) handleMine(w http.ResponseWriter, r *http.Request) {
	me := caller(r)
	views := s.Duels.Sessions(me)
	out := make([]viewRes, 0, len(views))
	for _, v := range views {
		role := "guesser"
		if v.Handle.Setter == me {
			role = "setter"
		}
		out = append(out, viewRes{
			Duel:     v.Handle,
			Role:     role,
			State:    v.State,
			Attempts: v.Attempts,
			Keyboard: v.Keyboard.Map(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// -----------------------------------------------------------------------------
// /duel/history

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		writeJSON(w, http.StatusOK, []history.Result{})
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	rows, err := s.History.ForPlayer(r.Context(), string(caller(r)), limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("load history")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// historyWriteTimeout bounds a history write once it is detached from the request.
const historyWriteTimeout = 5 * time.Second

// record writes a finished duel to history (best effort). The registry has
// already dropped the duel, so the write outlives a cancelled request.
func (s *Server) record(ctx context.Context, h duel.Handle, outcome string, attempts int, secret game.Word) {
	if s.History == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyWriteTimeout)
	defer cancel()
	err := s.History.Record(ctx, history.Result{
		SessionID:  h.ID,
		SetterID:   string(h.Setter),
		GuesserID:  string(h.Guesser),
		Secret:     string(secret),
		Attempts:   attempts,
		Outcome:    outcome,
		StartedAt:  h.CreatedAt,
		FinishedAt: time.Now(),
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("duel", h.ID).Msg("record history")
	}
}
