// Package scan reconstructs barcode tokens from a keyboard-wedge scanner and
// routes them against the live product projection.
package scan

import (
	"time"
)

const (
	// interKeyGap separates scanner bursts from human typing. A hardware
	// scanner emits the whole code well inside this window; a person cannot.
	interKeyGap = 100 * time.Millisecond

	// minTokenLength filters stray Enter presses and fragments.
	minTokenLength = 3
)

// KeyEvent is one raw key press. Commit marks the scanner's trailing Enter.
type KeyEvent struct {
	Rune   rune
	Commit bool
	At     time.Time
}

// Decoder accumulates key events into barcode tokens. It is a small state
// machine advanced one event at a time, with no timers of its own: the gap
// decision uses only the timestamps carried by the events, so it can be
// driven by synthetic sequences.
//
// Decoder is not safe for concurrent use; the input surface feeds it from a
// single goroutine.
type Decoder struct {
	buf       []rune
	last      time.Time
	suspended bool
	closed    bool
}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// Suspend stops event processing while a modal owns the keyboard, so
// in-progress form typing is never swallowed into a token.
func (d *Decoder) Suspend() { d.suspended = true }

func (d *Decoder) Resume() { d.suspended = false }

// Close halts the decoder permanently. Events fed after Close never emit.
func (d *Decoder) Close() { d.closed = true }

// Feed advances the decoder by one event. It returns the decoded token and
// true when the event completes a scan.
//
// A gap longer than interKeyGap discards the old buffer: whatever was
// accumulated came from a different (human or abandoned) run and must never
// be concatenated with the new one. Commits with fewer than minTokenLength
// accumulated characters are discarded silently.
func (d *Decoder) Feed(ev KeyEvent) (string, bool) {
	if d.closed || d.suspended {
		return "", false
	}

	if !d.last.IsZero() && ev.At.Sub(d.last) > interKeyGap {
		d.buf = d.buf[:0]
	}
	d.last = ev.At

	if ev.Commit {
		token := string(d.buf)
		d.buf = d.buf[:0]
		if len(token) >= minTokenLength {
			return token, true
		}
		return "", false
	}

	d.buf = append(d.buf, ev.Rune)
	return "", false
}
