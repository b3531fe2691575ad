package game

import (
	"errors"

	"github.com/user/starwave/internal/economy"
)

// TapSession is the mastering mini-game: a slider bounces between 0 and 100,
// speeding up after every tap, and each tap scores by distance from center.
// The average of the five tap scores feeds the mastering quality formula.
type TapSession struct {
	Title string

	pos       float64
	direction float64
	scores    []float64
}

// NewTapSession starts a mini-game session for the named draft.
func NewTapSession(title string) *TapSession {
	return &TapSession{
		Title:     title,
		pos:       0,
		direction: 1,
		scores:    make([]float64, 0, economy.TapsPerSession),
	}
}

// Position returns the current slider position in [0,100].
func (ts *TapSession) Position() float64 {
	return ts.pos
}

// Step advances the slider one animation tick, bouncing at both bounds.
func (ts *TapSession) Step() {
	speed := economy.TapSpeed(len(ts.scores))
	ts.pos += ts.direction * speed

	if ts.pos >= 100 {
		ts.pos = 100 - (ts.pos - 100)
		ts.direction = -1
	}
	if ts.pos <= 0 {
		ts.pos = -ts.pos
		ts.direction = 1
	}
}

// Tap scores the current slider position and records it.
func (ts *TapSession) Tap() (float64, error) {
	if ts.Complete() {
		return 0, errors.New("recording session already complete")
	}
	score := economy.TapScore(ts.pos)
	ts.scores = append(ts.scores, score)
	return score, nil
}

// Remaining returns how many taps the session still needs.
func (ts *TapSession) Remaining() int {
	return economy.TapsPerSession - len(ts.scores)
}

// Complete reports whether all taps have been taken.
func (ts *TapSession) Complete() bool {
	return len(ts.scores) >= economy.TapsPerSession
}

// Scores returns the collected tap scores.
func (ts *TapSession) Scores() []float64 {
	out := make([]float64, len(ts.scores))
	copy(out, ts.scores)
	return out
}
