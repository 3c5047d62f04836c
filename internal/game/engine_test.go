package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWord(t *testing.T, s string) Word {
	t.Helper()
	w, err := ParseWord(s)
	require.NoError(t, err, s)
	return w
}

func TestParseWord(t *testing.T) {
	w, err := ParseWord("crane")
	require.NoError(t, err)
	assert.Equal(t, Word("CRANE"), w)

	w, err = ParseWord("CrAnE")
	require.NoError(t, err)
	assert.Equal(t, Word("CRANE"), w)

	for _, bad := range []string{"", "cran", "cranes", "cr4ne", " rane", "cran ", "cráne", "ab-cd"} {
		_, err := ParseWord(bad)
		assert.ErrorIs(t, err, ErrInvalidWord, "%q", bad)
	}
}

func TestScore(t *testing.T) {
	H, P, M := MarkHit, MarkPresent, MarkMiss
	cases := []struct {
		guess, secret string
		want          Feedback
	}{
		{"CRANE", "CRANE", Feedback{H, H, H, H, H}},
		{"FOLKS", "CRANE", Feedback{M, M, M, M, M}},
		{"NACRE", "CRANE", Feedback{P, P, P, P, H}},
		// ERASE holds two E's, so both guessed E's find a partner.
		{"SPEED", "ERASE", Feedback{P, M, P, P, M}},
		// ABIDE holds one E: only the first non-hit E is present.
		{"SPEED", "ABIDE", Feedback{M, M, P, M, P}},
		// Hits claim their letter before any present is handed out.
		{"EERIE", "THREE", Feedback{P, M, H, M, H}},
		{"EERIE", "ABIDE", Feedback{M, M, M, P, H}},
	}
	for _, c := range cases {
		got := Score(mustWord(t, c.guess), mustWord(t, c.secret))
		assert.Equal(t, c.want, got, "%s vs %s", c.guess, c.secret)
	}
}

func TestScore_CountsNeverExceedSecret(t *testing.T) {
	words := []string{"CRANE", "SPEED", "ERASE", "ABIDE", "EERIE", "THREE", "LLAMA", "APPLE", "PAPAL", "EEEEE", "XYLEM"}
	for _, g := range words {
		for _, s := range words {
			guess, secret := mustWord(t, g), mustWord(t, s)
			fb := Score(guess, secret)

			hits := 0
			for i := 0; i < WordLength; i++ {
				if guess[i] == secret[i] {
					hits++
				}
			}
			gotHits := 0
			claimed := map[byte]int{}
			for i, m := range fb {
				if m == MarkHit {
					gotHits++
				}
				if m != MarkMiss {
					claimed[guess[i]]++
				}
			}
			assert.Equal(t, hits, gotHits, "%s vs %s", g, s)

			inSecret := map[byte]int{}
			for i := 0; i < WordLength; i++ {
				inSecret[secret[i]]++
			}
			for c, n := range claimed {
				assert.LessOrEqual(t, n, inSecret[c], "%s vs %s letter %c", g, s, c)
			}
		}
	}
}

func TestFeedback_AllHit(t *testing.T) {
	assert.True(t, Feedback{MarkHit, MarkHit, MarkHit, MarkHit, MarkHit}.AllHit())
	assert.False(t, Feedback{MarkHit, MarkHit, MarkPresent, MarkHit, MarkHit}.AllHit())
	assert.False(t, Feedback{}.AllHit())
}
