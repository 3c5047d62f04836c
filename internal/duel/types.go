// internal/duel/types.go
//
// Type definitions for two-player duels.
// Defines:
//   - PlayerID / PairKey: who is playing and how a duel is addressed.
//   - Handle: the public identity of a duel.
//   - Result records returned by Registry operations.

package duel

import (
	"errors"
	"time"

	"github.com/robalobadob/wordle/apps/duel-server/internal/game"
)

// MaxAttempts is the number of guesses before a duel is lost.
const MaxAttempts = 6

// Errors reported by Registry operations. None of them mutate state.
var (
	ErrInvalidPair        = errors.New("setter and guesser must be different players")
	ErrDuplicateSession   = errors.New("these players already have a duel in progress")
	ErrNoSessionForCaller = errors.New("no duel found for this player")
	ErrNotSetter          = errors.New("only the setter may choose the secret")
	ErrSecretAlreadySet   = errors.New("the secret for this duel is already set")
	ErrNoGuessableSession = errors.New("no duel is waiting for this player's guess")
	ErrInvalidWord        = game.ErrInvalidWord
)

// PlayerID identifies a player as resolved by the caller (user id, chat id, ...).
type PlayerID string

// PairKey is an unordered pair of players; A <= B.
type PairKey struct {
	A PlayerID
	B PlayerID
}

// NewPairKey normalizes x and y so that NewPairKey(x, y) == NewPairKey(y, x).
func NewPairKey(x, y PlayerID) PairKey {
	if y < x {
		x, y = y, x
	}
	return PairKey{A: x, B: y}
}

// Has reports whether p is one of the two players.
func (k PairKey) Has(p PlayerID) bool { return k.A == p || k.B == p }

// String renders the key as "A|B".
func (k PairKey) String() string { return string(k.A) + "|" + string(k.B) }

// Outcome is the state of a duel after a guess.
type Outcome string

const (
	OutcomeActive Outcome = "active"
	OutcomeWon    Outcome = "won"
	OutcomeLost   Outcome = "lost"
)

// State is the lifecycle stage of a live duel.
type State string

const (
	StateAwaitingSecret State = "awaiting_secret"
	StateActive         State = "active"
)

// Handle is the public identity of a duel.
type Handle struct {
	ID        string    `json:"id"`
	Setter    PlayerID  `json:"setterId"`
	Guesser   PlayerID  `json:"guesserId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Key returns the pair key the duel is registered under.
func (h Handle) Key() PairKey { return NewPairKey(h.Setter, h.Guesser) }

// Other returns the participant that is not p.
func (h Handle) Other(p PlayerID) PlayerID {
	if p == h.Setter {
		return h.Guesser
	}
	return h.Setter
}

// SecretSet acknowledges SetSecret; Guesser is the player to notify.
// Secret is the normalized word and is meant for the setter only.
type SecretSet struct {
	Handle  Handle
	Guesser PlayerID
	Secret  game.Word
}

// GuessResult is returned by SubmitGuess.
type GuessResult struct {
	Handle   Handle
	Word     game.Word
	Feedback game.Feedback
	Attempts int
	Keyboard game.Keyboard
	Outcome  Outcome
	// Secret is only set when Outcome is OutcomeLost.
	Secret game.Word
}

// View is a read-only snapshot of a live duel. It never carries the secret.
type View struct {
	Handle   Handle
	State    State
	Attempts int
	Keyboard game.Keyboard
}
