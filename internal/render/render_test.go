package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/duel-server/internal/duel"
	"github.com/robalobadob/wordle/apps/duel-server/internal/game"
)

func TestMarks(t *testing.T) {
	fb := game.Feedback{game.MarkHit, game.MarkPresent, game.MarkMiss, game.MarkMiss, game.MarkHit}
	assert.Equal(t, "🟩🟨⬛⬛🟩", Marks(fb))
}

func TestKeyboard(t *testing.T) {
	var tr game.Tracker
	w, err := game.ParseWord("NACRE")
	require.NoError(t, err)
	secret, err := game.ParseWord("CRANE")
	require.NoError(t, err)
	tr.Apply(w, game.Score(w, secret))
	guess2, err := game.ParseWord("FOLKS")
	require.NoError(t, err)
	tr.Apply(guess2, game.Score(guess2, secret))

	rows := strings.Split(Keyboard(tr.Keyboard()), "\n")
	require.Len(t, rows, 3)
	assert.Equal(t, " Q  W 🟩E 🟨R  T  Y  U  I ⬛O  P", rows[0])
	assert.Equal(t, "🟨A ⬛S  D ⬛F  G  H  J ⬛K ⬛L", rows[1])
	assert.Equal(t, " Z  X 🟨C  V  B 🟨N  M", rows[2])
}

func TestGuess(t *testing.T) {
	r := duel.NewRegistry()
	_, err := r.Create("1", "2")
	require.NoError(t, err)
	_, err = r.SetSecret("1", "CRANE")
	require.NoError(t, err)

	res, err := r.SubmitGuess("2", "NACRE")
	require.NoError(t, err)
	out := Guess(res)
	assert.True(t, strings.HasPrefix(out, "NACRE ➤ 🟨🟨🟨🟨🟩 (1/6)\n"), out)
	assert.NotContains(t, out, "Game over")

	res, err = r.SubmitGuess("2", "CRANE")
	require.NoError(t, err)
	assert.Contains(t, Guess(res), "Solved in 2 tries")

	res.Attempts = 1
	assert.Contains(t, Guess(res), "Solved in 1 try.")

	lost := duel.GuessResult{
		Word:     "FOLKS",
		Attempts: 6,
		Outcome:  duel.OutcomeLost,
		Secret:   "CRANE",
	}
	assert.Contains(t, Guess(lost), "The word was CRANE.")
	assert.Contains(t, Guess(lost), "(6/6)")
}
