package session

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/nsoz/arrowcaptcha/captcha/sequence"
)

// ErrDisposed is returned by resource accessors on a disposed challenge.
var ErrDisposed = errors.New("challenge disposed")

// Challenge is one live arrow-sequence puzzle bound to a session
// identifier. All methods are safe for concurrent use.
type Challenge struct {
	id     string
	answer sequence.Sequence
	zoom   int

	inputMu   sync.Mutex
	entered   []sequence.Symbol
	failCount int

	resourceMu sync.Mutex
	image      []byte

	disposed atomic.Bool
}

// NewChallenge creates a fully formed challenge. The image bytes are
// copied; the caller keeps no ownership of the challenge's buffer.
func NewChallenge(id string, answer sequence.Sequence, zoom int, image []byte) *Challenge {
	img := make([]byte, len(image))
	copy(img, image)
	return &Challenge{
		id:      id,
		answer:  answer,
		zoom:    zoom,
		entered: make([]sequence.Symbol, 0, sequence.Length),
		image:   img,
	}
}

// ID returns the session identifier the challenge is bound to.
func (c *Challenge) ID() string { return c.id }

// Zoom returns the scale the challenge image was rendered at, needed for
// same-scale regeneration.
func (c *Challenge) Zoom() int { return c.zoom }

// InputOutcome is the result of a single AddInput call.
type InputOutcome struct {
	// Accepted is false when the input was rejected (disposed challenge)
	// or silently ignored (out-of-alphabet symbol).
	Accepted bool
	// Completed is true when this input completed the answer; the
	// challenge disposed itself.
	Completed bool
	// BufferFull is true when the buffer held a full-length sequence
	// after this input was accepted.
	BufferFull bool
}

// AddInput appends one symbol to the entered buffer. The buffer is a
// sliding window: once it holds a full-length sequence, the oldest symbol
// is dropped before the new one is appended, so an early typo can be
// corrected by continuing to type. When the buffer is full and matches the
// answer, the challenge disposes itself and the outcome reports
// completion. Out-of-alphabet symbols are ignored without error; input on
// a disposed challenge is rejected with no side effects.
func (c *Challenge) AddInput(sym sequence.Symbol) InputOutcome {
	if c.disposed.Load() {
		return InputOutcome{}
	}

	c.inputMu.Lock()
	if !sym.Valid() {
		c.inputMu.Unlock()
		return InputOutcome{}
	}
	if len(c.entered) >= sequence.Length {
		c.entered = append(c.entered[:0], c.entered[1:]...)
	}
	c.entered = append(c.entered, sym)
	full := len(c.entered) == sequence.Length
	completed := full && c.answer.Equal(c.entered)
	c.inputMu.Unlock()

	if completed {
		c.Dispose()
	}
	return InputOutcome{Accepted: true, Completed: completed, BufferFull: full}
}

// Verify reports whether the current buffer holds the full answer.
func (c *Challenge) Verify() bool {
	c.inputMu.Lock()
	defer c.inputMu.Unlock()
	return c.answer.Equal(c.entered)
}

// ImageBytes returns a defensive copy of the encoded challenge image, or
// ErrDisposed once the challenge has been disposed.
func (c *Challenge) ImageBytes() ([]byte, error) {
	if c.disposed.Load() {
		return nil, ErrDisposed
	}
	c.resourceMu.Lock()
	defer c.resourceMu.Unlock()
	out := make([]byte, len(c.image))
	copy(out, c.image)
	return out, nil
}

// EnteredValue returns a snapshot of the entered buffer.
func (c *Challenge) EnteredValue() []sequence.Symbol {
	c.inputMu.Lock()
	defer c.inputMu.Unlock()
	out := make([]sequence.Symbol, len(c.entered))
	copy(out, c.entered)
	return out
}

// FailCount returns the current failure count.
func (c *Challenge) FailCount() int {
	c.inputMu.Lock()
	defer c.inputMu.Unlock()
	return c.failCount
}

// RecordFailure increments the failure count and returns the new value.
// The manager calls this on every full-but-wrong buffer state.
func (c *Challenge) RecordFailure() int {
	c.inputMu.Lock()
	defer c.inputMu.Unlock()
	c.failCount++
	return c.failCount
}

// Dispose releases the challenge's resources. It is idempotent: the first
// caller to win the flag transition clears the image and the entered
// buffer; later calls, including concurrent ones, are no-ops.
func (c *Challenge) Dispose() {
	if !c.disposed.CompareAndSwap(false, true) {
		return
	}
	c.resourceMu.Lock()
	c.image = nil
	c.resourceMu.Unlock()

	c.inputMu.Lock()
	c.entered = c.entered[:0]
	c.inputMu.Unlock()
}

// Disposed reports whether the challenge has been disposed.
func (c *Challenge) Disposed() bool {
	return c.disposed.Load()
}
