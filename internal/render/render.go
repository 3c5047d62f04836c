// Package render turns duel results into chat-style plain text:
// emoji rows for feedback and a QWERTY keyboard for letter state.
package render

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/robalobadob/wordle/apps/duel-server/internal/duel"
	"github.com/robalobadob/wordle/apps/duel-server/internal/game"
)

const (
	tileHit     = "🟩"
	tilePresent = "🟨"
	tileMiss    = "⬛"
)

var qwertyRows = []string{"QWERTYUIOP", "ASDFGHJKL", "ZXCVBNM"}

// Marks renders feedback as a row of five emoji tiles.
func Marks(fb game.Feedback) string {
	var b strings.Builder
	for _, m := range fb {
		switch m {
		case game.MarkHit:
			b.WriteString(tileHit)
		case game.MarkPresent:
			b.WriteString(tilePresent)
		default:
			b.WriteString(tileMiss)
		}
	}
	return b.String()
}

// Keyboard renders the three QWERTY rows, each key prefixed by its state tile
// (a space when the letter has not been tried).
func Keyboard(kb game.Keyboard) string {
	rows := lo.Map(qwertyRows, func(row string, _ int) string {
		keys := lo.Map([]byte(row), func(c byte, _ int) string {
			return keyPrefix(kb.State(c)) + string(c)
		})
		return strings.Join(keys, " ")
	})
	return strings.Join(rows, "\n")
}

func keyPrefix(s game.LetterState) string {
	switch s {
	case game.LetterCorrect:
		return tileHit
	case game.LetterPresent:
		return tilePresent
	case game.LetterAbsent:
		return tileMiss
	default:
		return " "
	}
}

// Guess renders one guess: the scored row with the attempt counter, the
// keyboard, and a closing line when the duel is over.
func Guess(res duel.GuessResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s ➤ %s (%d/%d)\n", res.Word, Marks(res.Feedback), res.Attempts, duel.MaxAttempts)
	b.WriteString(Keyboard(res.Keyboard))
	switch res.Outcome {
	case duel.OutcomeWon:
		fmt.Fprintf(&b, "\n🎉 Solved in %d %s. Game over!", res.Attempts, plural(res.Attempts, "try", "tries"))
	case duel.OutcomeLost:
		fmt.Fprintf(&b, "\n❌ Out of guesses. The word was %s.", res.Secret)
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
