package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func play(t *testing.T, secret string, guesses ...string) Tracker {
	t.Helper()
	var tr Tracker
	s := mustWord(t, secret)
	for _, g := range guesses {
		w := mustWord(t, g)
		tr.Apply(w, Score(w, s))
	}
	return tr
}

func assertDisjoint(t *testing.T, tr Tracker) {
	t.Helper()
	assert.Zero(t, tr.Correct&tr.Present, "correct∩present")
	assert.Zero(t, tr.Correct&tr.Absent, "correct∩absent")
	assert.Zero(t, tr.Present&tr.Absent, "present∩absent")
}

func TestTracker_MissThenHitInSameGuess(t *testing.T) {
	tr := play(t, "ABIDE", "EERIE")
	assert.Equal(t, "E", tr.Correct.String())
	assert.Equal(t, "I", tr.Present.String())
	assert.Equal(t, "R", tr.Absent.String())
	assertDisjoint(t, tr)
}

func TestTracker_PresentPromotesToCorrect(t *testing.T) {
	tr := play(t, "CRANE", "NACRE")
	assert.Equal(t, "E", tr.Correct.String())
	assert.Equal(t, "ACNR", tr.Present.String())

	tr = play(t, "CRANE", "NACRE", "CRANE")
	assert.Equal(t, "ACENR", tr.Correct.String())
	assert.Zero(t, tr.Present)
	assert.Zero(t, tr.Absent)
}

func TestTracker_CorrectNeverDemoted(t *testing.T) {
	// E is a hit first, then only present/miss in later guesses.
	tr := play(t, "THREE", "ABIDE", "EERIE", "EXPEL")
	assert.True(t, tr.Correct.Has('E'))
	assert.False(t, tr.Present.Has('E'))
	assert.False(t, tr.Absent.Has('E'))
	assertDisjoint(t, tr)
}

func TestTracker_DisjointAfterAnySequence(t *testing.T) {
	secrets := []string{"CRANE", "ERASE", "THREE", "LLAMA", "PAPAL"}
	guesses := []string{"SPEED", "EERIE", "LEMMA", "APPLE", "ALLAY", "NACRE", "EEEEE", "PLAPP"}
	for _, s := range secrets {
		var tr Tracker
		secret := mustWord(t, s)
		var everCorrect Letters
		for _, g := range guesses {
			w := mustWord(t, g)
			tr.Apply(w, Score(w, secret))
			assertDisjoint(t, tr)

			assert.Equal(t, everCorrect, everCorrect&tr.Correct, "secret %s after %s", s, g)
			everCorrect |= tr.Correct
		}
	}
}

func TestTracker_Keyboard(t *testing.T) {
	tr := play(t, "ABIDE", "EERIE")
	kb := tr.Keyboard()
	assert.Equal(t, LetterCorrect, kb.State('E'))
	assert.Equal(t, LetterCorrect, kb.State('e'))
	assert.Equal(t, LetterPresent, kb.State('I'))
	assert.Equal(t, LetterAbsent, kb.State('R'))
	assert.Equal(t, LetterUnknown, kb.State('Z'))
	assert.Equal(t, LetterUnknown, kb.State('!'))

	m := kb.Map()
	assert.Len(t, m, 26)
	assert.Equal(t, LetterCorrect, m["E"])
}
