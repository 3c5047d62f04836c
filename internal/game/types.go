// internal/game/types.go
//
// Core type definitions for the duel feedback engine.
// Defines:
//   - Word: a validated five-letter uppercase word.
//   - Mark / Feedback: per-letter result of a guess (hit/present/miss).
//   - LetterState / Keyboard: aggregated per-letter view across guesses.

package game

import "errors"

// WordLength is the number of letters in every secret and guess.
const WordLength = 5

// ErrInvalidWord is returned for anything that is not exactly five letters A–Z.
var ErrInvalidWord = errors.New("word must be exactly 5 letters A-Z")

// Word is a five-letter word normalized to uppercase A–Z.
// Only ParseWord produces valid values.
type Word string

// Mark represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "hit":     letter is correct and in the correct position.
//   - "present": letter exists in the secret but in a different position.
//   - "miss":    letter has no unclaimed instance left in the secret.
type Mark string

const (
	MarkHit     Mark = "hit"
	MarkPresent Mark = "present"
	MarkMiss    Mark = "miss"
)

// Feedback is the ordered list of marks for one guess, one per position.
type Feedback [WordLength]Mark

// AllHit reports whether every position is MarkHit.
func (f Feedback) AllHit() bool {
	for _, m := range f {
		if m != MarkHit {
			return false
		}
	}
	return true
}

// LetterState is the keyboard classification of a single letter.
type LetterState string

const (
	LetterUnknown LetterState = "unknown"
	LetterAbsent  LetterState = "absent"
	LetterPresent LetterState = "present"
	LetterCorrect LetterState = "correct"
)

// Keyboard holds one LetterState per letter A..Z.
type Keyboard [26]LetterState

// State returns the classification of letter c (either case).
// Non-letters report LetterUnknown.
func (k Keyboard) State(c byte) LetterState {
	i := idx(upper(c))
	if i < 0 || i >= 26 {
		return LetterUnknown
	}
	return k[i]
}

// Map returns the keyboard as a letter → state map, convenient for JSON.
func (k Keyboard) Map() map[string]LetterState {
	out := make(map[string]LetterState, len(k))
	for i, s := range k {
		out[string(rune('A'+i))] = s
	}
	return out
}
