// internal/game/engine.go
//
// Feedback engine for a single guess against a secret.
// Responsibilities:
//   - Validate and normalize words (exactly five letters, A–Z, uppercased).
//   - Score guesses using the two-pass Wordle algorithm.
//
// Nothing here keeps state; every function is deterministic.
package game

// ParseWord normalizes s to uppercase and validates it.
// It does not trim whitespace or consult any dictionary.
func ParseWord(s string) (Word, error) {
	if len(s) != WordLength {
		return "", ErrInvalidWord
	}
	b := []byte(s)
	for i, c := range b {
		c = upper(c)
		if c < 'A' || c > 'Z' {
			return "", ErrInvalidWord
		}
		b[i] = c
	}
	return Word(b), nil
}

// Score implements the standard Wordle two-pass scoring algorithm.
//
// Pass 1:
//   - Mark exact matches as Hit.
//   - Count remaining (non-hit) secret letters by letter index.
//
// Pass 2:
//   - For each non-hit guess letter, left to right: if there is remaining
//     count for that letter, mark Present and decrement; otherwise Miss.
//
// Both words must be valid (see ParseWord).
func Score(guess, secret Word) Feedback {
	var res Feedback
	var counts [26]int

	for i := 0; i < WordLength; i++ {
		if guess[i] == secret[i] {
			res[i] = MarkHit
		} else {
			counts[idx(secret[i])]++
		}
	}

	for i := 0; i < WordLength; i++ {
		if res[i] == MarkHit {
			continue
		}
		j := idx(guess[i])
		if counts[j] > 0 {
			res[i] = MarkPresent
			counts[j]--
		} else {
			res[i] = MarkMiss
		}
	}
	return res
}

// idx maps an uppercase ASCII letter to 0..25.
func idx(c byte) int { return int(c) - 'A' }

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
