// Package sequence generates and represents the secret answer of an
// arrow-sequence challenge: six independent, uniformly distributed draws
// from the three-symbol alphabet {left, up, right}.
package sequence

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	mrand "math/rand/v2"
)

// Length is the number of symbols in every challenge answer.
const Length = 6

// Symbol is one arrow direction. The numeric codes are part of the host
// protocol: 0 = left, 1 = up, 2 = right.
type Symbol int8

const (
	Left Symbol = iota
	Up
	Right
)

const alphabetSize = 3

// Valid reports whether s is within the challenge alphabet.
func (s Symbol) Valid() bool {
	return s >= Left && s <= Right
}

// String returns the symbol's digit code, or "?" for out-of-alphabet values.
func (s Symbol) String() string {
	if !s.Valid() {
		return "?"
	}
	return string(rune('0' + s))
}

// Sequence is a fixed-length challenge answer.
type Sequence [Length]Symbol

// String renders the sequence as digit codes, e.g. "021102".
func (q Sequence) String() string {
	b := make([]byte, Length)
	for i, s := range q {
		b[i] = byte('0' + s)
	}
	return string(b)
}

// Equal reports whether the given symbols match the sequence in order.
func (q Sequence) Equal(symbols []Symbol) bool {
	if len(symbols) != Length {
		return false
	}
	for i, s := range symbols {
		if s != q[i] {
			return false
		}
	}
	return true
}

// ErrInvalidSequence is returned by Parse for malformed input.
var ErrInvalidSequence = errors.New("invalid sequence")

// Parse is the inverse of Sequence.String. It accepts exactly Length digit
// codes, each in the challenge alphabet.
func Parse(s string) (Sequence, error) {
	var q Sequence
	if len(s) != Length {
		return q, fmt.Errorf("%w: expected %d symbols, got %d", ErrInvalidSequence, Length, len(s))
	}
	for i := 0; i < Length; i++ {
		sym := Symbol(s[i] - '0')
		if !sym.Valid() {
			return q, fmt.Errorf("%w: symbol %q at position %d", ErrInvalidSequence, s[i], i)
		}
		q[i] = sym
	}
	return q, nil
}

// Generator draws challenge answers from a random source.
type Generator struct {
	rng *mrand.Rand
}

// New creates a generator backed by the given source. A nil source yields a
// non-deterministic generator seeded from the operating system's entropy
// pool; tests pass a seeded source for reproducible output.
func New(rng *mrand.Rand) *Generator {
	if rng == nil {
		rng = NewRand()
	}
	return &Generator{rng: rng}
}

// Generate returns a fresh answer. No state is shared between calls beyond
// the underlying source.
func (g *Generator) Generate() Sequence {
	var q Sequence
	for i := range q {
		q[i] = Symbol(g.rng.IntN(alphabetSize))
	}
	return q
}

// NewRand returns a PCG source seeded from crypto/rand. Challenge answers
// are not reproducible in production by design.
func NewRand() *mrand.Rand {
	var seed [16]byte
	if _, err := rand.Read(seed[:]); err != nil {
		// crypto/rand failing is unrecoverable misconfiguration.
		panic(fmt.Sprintf("sequence: reading entropy: %v", err))
	}
	return mrand.New(mrand.NewPCG(
		binary.LittleEndian.Uint64(seed[:8]),
		binary.LittleEndian.Uint64(seed[8:]),
	))
}
