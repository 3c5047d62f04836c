// internal/game/keyboard.go
//
// Keyboard aggregation across the guesses of one game.
//   - Letters: a set over A–Z.
//   - Tracker: correct/present/absent sets folded from each Feedback.
//   - Keyboard(): the per-letter view derived from the three sets.

package game

// Letters is a set over the letters A..Z.
type Letters uint32

func bit(c byte) Letters { return 1 << uint(idx(c)) }

// Has reports whether uppercase letter c is in the set.
func (l Letters) Has(c byte) bool { return l&bit(c) != 0 }

func (l *Letters) add(c byte)    { *l |= bit(c) }
func (l *Letters) remove(c byte) { *l &^= bit(c) }

// String lists the members in alphabetical order.
func (l Letters) String() string {
	out := make([]byte, 0, 26)
	for c := byte('A'); c <= 'Z'; c++ {
		if l.Has(c) {
			out = append(out, c)
		}
	}
	return string(out)
}

// Tracker aggregates feedback across every guess of one game.
//
// The three sets are pairwise disjoint. A letter only moves
// absent → present → correct, never back.
type Tracker struct {
	Correct Letters
	Present Letters
	Absent  Letters
}

// Apply folds the feedback for guess into the tracker.
func (t *Tracker) Apply(guess Word, fb Feedback) {
	for i := 0; i < WordLength; i++ {
		c := guess[i]
		switch fb[i] {
		case MarkHit:
			t.Correct.add(c)
			t.Present.remove(c)
			t.Absent.remove(c)
		case MarkPresent:
			if !t.Correct.Has(c) {
				t.Present.add(c)
				t.Absent.remove(c)
			}
		case MarkMiss:
			if !t.Correct.Has(c) && !t.Present.Has(c) {
				t.Absent.add(c)
			}
		}
	}
}

// Keyboard derives the per-letter view from the three sets.
func (t Tracker) Keyboard() Keyboard {
	var k Keyboard
	for i := range k {
		c := byte('A' + i)
		switch {
		case t.Correct.Has(c):
			k[i] = LetterCorrect
		case t.Present.Has(c):
			k[i] = LetterPresent
		case t.Absent.Has(c):
			k[i] = LetterAbsent
		default:
			k[i] = LetterUnknown
		}
	}
	return k
}
