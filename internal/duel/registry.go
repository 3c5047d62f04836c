// internal/duel/registry.go
//
// In-memory registry of live duels.
// Responsibilities:
//   - One duel per unordered pair of players.
//   - Create, arm (set secret), advance (guess) and destroy duels.
//   - Aggregate keyboard state across a duel's guesses.
//
// Concurrency:
//   - r.mu guards the key→session map and the player index, and is only held
//     for lookup/insert/delete.
//   - Each session has its own mutex; every mutation of a duel happens under
//     it, so operations on the same pair are serialized while different
//     pairs proceed independently.
//   - Lock order is session → registry. Nothing takes a session lock while
//     holding r.mu.
//   - Duels are lost when the process restarts.

package duel

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/robalobadob/wordle/apps/duel-server/internal/game"
)

type session struct {
	handle Handle // immutable

	// armed flips false→true once the secret is stored; closed flips
	// false→true when the duel leaves the registry. Both are readable
	// without mu so lookups can filter under r.mu alone.
	armed  atomic.Bool
	closed atomic.Bool

	mu       sync.Mutex
	secret   game.Word
	attempts int
	letters  game.Tracker
}

func (s *session) view() View {
	st := StateAwaitingSecret
	if s.secret != "" {
		st = StateActive
	}
	return View{Handle: s.handle, State: st, Attempts: s.attempts, Keyboard: s.letters.Keyboard()}
}

// Registry owns every live duel.
type Registry struct {
	mu       sync.Mutex
	sessions map[PairKey]*session
	byPlayer map[PlayerID][]PairKey // creation order
	now      func() time.Time
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[PairKey]*session),
		byPlayer: make(map[PlayerID][]PairKey),
		now:      time.Now,
	}
}

// Create registers a new duel where setter picks the secret and guesser plays.
func (r *Registry) Create(setter, guesser PlayerID) (Handle, error) {
	if setter == guesser {
		return Handle{}, ErrInvalidPair
	}
	key := NewPairKey(setter, guesser)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[key]; ok {
		return Handle{}, ErrDuplicateSession
	}
	s := &session{handle: Handle{
		ID:        uuid.NewString(),
		Setter:    setter,
		Guesser:   guesser,
		CreatedAt: r.now().UTC(),
	}}
	r.sessions[key] = s
	r.byPlayer[setter] = append(r.byPlayer[setter], key)
	r.byPlayer[guesser] = append(r.byPlayer[guesser], key)
	return s.handle, nil
}

// SetSecret stores the secret of the caller's duel.
//
// The first duel (in creation order) where the caller is setter and no
// secret is set yet is chosen. Errors, in order of precedence:
// ErrNoSessionForCaller, ErrNotSetter, ErrSecretAlreadySet, ErrInvalidWord.
func (r *Registry) SetSecret(caller PlayerID, word string) (SecretSet, error) {
	awaiting := func(s *session) bool { return s.handle.Setter == caller && !s.armed.Load() }

	s := r.acquire(caller, awaiting)
	for s == nil {
		if err := r.whyNoSecretTarget(caller, awaiting); err != nil {
			return SecretSet{}, err
		}
		// A matching duel appeared after acquire gave up.
		s = r.acquire(caller, awaiting)
	}
	defer s.mu.Unlock()

	w, err := game.ParseWord(word)
	if err != nil {
		return SecretSet{}, ErrInvalidWord
	}
	s.secret = w
	s.armed.Store(true)
	return SecretSet{Handle: s.handle, Guesser: s.handle.Guesser, Secret: w}, nil
}

// SubmitGuess scores a guess in the first armed duel where caller is guesser.
//
// A winning guess or the MaxAttempts-th guess ends the duel and removes it.
func (r *Registry) SubmitGuess(caller PlayerID, word string) (GuessResult, error) {
	s := r.acquire(caller, func(s *session) bool { return s.handle.Guesser == caller && s.armed.Load() })
	if s == nil {
		return GuessResult{}, ErrNoGuessableSession
	}
	defer s.mu.Unlock()

	w, err := game.ParseWord(word)
	if err != nil {
		return GuessResult{}, ErrInvalidWord
	}

	s.attempts++
	fb := game.Score(w, s.secret)
	s.letters.Apply(w, fb)

	res := GuessResult{
		Handle:   s.handle,
		Word:     w,
		Feedback: fb,
		Attempts: s.attempts,
		Keyboard: s.letters.Keyboard(),
		Outcome:  OutcomeActive,
	}
	switch {
	case fb.AllHit():
		res.Outcome = OutcomeWon
		r.closeLocked(s)
	case s.attempts >= MaxAttempts:
		res.Outcome = OutcomeLost
		res.Secret = s.secret
		r.closeLocked(s)
	}
	return res, nil
}

// Reset destroys the first duel containing caller, whatever its state, and
// returns its last snapshot.
func (r *Registry) Reset(caller PlayerID) (View, error) {
	s := r.acquire(caller, func(*session) bool { return true })
	if s == nil {
		return View{}, ErrNoSessionForCaller
	}
	defer s.mu.Unlock()
	r.closeLocked(s)
	return s.view(), nil
}

// Sessions returns snapshots of every live duel the player takes part in.
func (r *Registry) Sessions(p PlayerID) []View {
	r.mu.Lock()
	live := make([]*session, 0, len(r.byPlayer[p]))
	for _, k := range r.byPlayer[p] {
		if s := r.sessions[k]; s != nil {
			live = append(live, s)
		}
	}
	r.mu.Unlock()

	out := make([]View, 0, len(live))
	for _, s := range live {
		s.mu.Lock()
		if !s.closed.Load() {
			out = append(out, s.view())
		}
		s.mu.Unlock()
	}
	return out
}

// Len reports the number of live duels.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// acquire returns the first live session of p accepted by match, with its
// mutex held, or nil. match must only read immutable or atomic fields. It
// may flip between lookup and lock (SetSecret's predicate does once the duel
// is armed); acquire re-checks under the session lock and looks again.
func (r *Registry) acquire(p PlayerID, match func(*session) bool) *session {
	for {
		r.mu.Lock()
		s := r.firstLocked(p, match)
		r.mu.Unlock()
		if s == nil {
			return nil
		}
		s.mu.Lock()
		if !s.closed.Load() && match(s) {
			return s
		}
		// Closed or armed between lookup and lock; look again.
		s.mu.Unlock()
	}
}

// whyNoSecretTarget classifies a failed SetSecret lookup. It returns nil if
// an awaiting duel does exist by now.
func (r *Registry) whyNoSecretTarget(caller PlayerID, awaiting func(*session) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.firstLocked(caller, awaiting) != nil:
		return nil
	case r.firstLocked(caller, func(s *session) bool { return s.handle.Setter == caller }) != nil:
		return ErrSecretAlreadySet
	case r.firstLocked(caller, func(*session) bool { return true }) != nil:
		return ErrNotSetter
	default:
		return ErrNoSessionForCaller
	}
}

// firstLocked scans p's duels in creation order. Caller holds r.mu.
func (r *Registry) firstLocked(p PlayerID, match func(*session) bool) *session {
	for _, k := range r.byPlayer[p] {
		s, ok := r.sessions[k]
		if ok && !s.closed.Load() && match(s) {
			return s
		}
	}
	return nil
}

// closeLocked marks s closed and drops it from the registry. Caller holds s.mu.
func (r *Registry) closeLocked(s *session) {
	s.closed.Store(true)
	key := s.handle.Key()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[key] == s {
		delete(r.sessions, key)
	}
	for _, p := range []PlayerID{key.A, key.B} {
		keys := lo.Without(r.byPlayer[p], key)
		if len(keys) == 0 {
			delete(r.byPlayer, p)
		} else {
			r.byPlayer[p] = keys
		}
	}
}
