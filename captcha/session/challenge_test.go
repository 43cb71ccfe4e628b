package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsoz/arrowcaptcha/captcha/sequence"
)

func newTestChallenge(t *testing.T, answer string) *Challenge {
	t.Helper()
	seq, err := sequence.Parse(answer)
	require.NoError(t, err)
	return NewChallenge("session-1", seq, 1, []byte{0xFF, 0xD8, 0x01, 0x02})
}

func feed(ch *Challenge, symbols ...sequence.Symbol) InputOutcome {
	var out InputOutcome
	for _, sym := range symbols {
		out = ch.AddInput(sym)
	}
	return out
}

func TestChallenge_AddInput(t *testing.T) {
	t.Run("completes on exact answer", func(t *testing.T) {
		ch := newTestChallenge(t, "021102")

		out := feed(ch, 0, 2, 1, 1, 0)
		assert.False(t, out.Completed)
		assert.False(t, out.BufferFull)

		out = ch.AddInput(2)
		assert.True(t, out.Accepted)
		assert.True(t, out.Completed)
		assert.True(t, ch.Disposed(), "completion disposes the challenge")
	})

	t.Run("sliding window corrects an early typo", func(t *testing.T) {
		// First symbol wrong; the trailing six of the seven inputs are the
		// answer, so the final keystroke solves it.
		ch := newTestChallenge(t, "021102")

		out := feed(ch, 1, 0, 2, 1, 1, 0)
		assert.True(t, out.BufferFull)
		assert.False(t, out.Completed)

		out = ch.AddInput(2)
		assert.True(t, out.Completed)
	})

	t.Run("full but wrong reports BufferFull only", func(t *testing.T) {
		ch := newTestChallenge(t, "021102")
		out := feed(ch, 0, 0, 0, 0, 0, 0)
		assert.True(t, out.Accepted)
		assert.True(t, out.BufferFull)
		assert.False(t, out.Completed)
		assert.False(t, ch.Disposed())
	})

	t.Run("out-of-alphabet symbols are silently ignored", func(t *testing.T) {
		ch := newTestChallenge(t, "021102")
		feed(ch, 0, 2)

		out := ch.AddInput(sequence.Symbol(7))
		assert.False(t, out.Accepted)
		assert.False(t, out.Completed)
		assert.Equal(t, []sequence.Symbol{0, 2}, ch.EnteredValue())

		out = ch.AddInput(-1)
		assert.False(t, out.Accepted)
		assert.Equal(t, []sequence.Symbol{0, 2}, ch.EnteredValue())
	})

	t.Run("rejected after disposal", func(t *testing.T) {
		ch := newTestChallenge(t, "021102")
		ch.Dispose()

		out := ch.AddInput(0)
		assert.False(t, out.Accepted)
		assert.Empty(t, ch.EnteredValue())
	})
}

func TestChallenge_Verify(t *testing.T) {
	ch := newTestChallenge(t, "021102")
	assert.False(t, ch.Verify(), "empty buffer never verifies")

	feed(ch, 0, 2, 1, 1, 0)
	assert.False(t, ch.Verify(), "partial buffer never verifies")
}

func TestChallenge_ImageBytes(t *testing.T) {
	t.Run("defensive copies both ways", func(t *testing.T) {
		src := []byte{1, 2, 3}
		seq, err := sequence.Parse("000000")
		require.NoError(t, err)
		ch := NewChallenge("s", seq, 1, src)

		src[0] = 99
		img, err := ch.ImageBytes()
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, img, "constructor must copy")

		img[1] = 99
		again, err := ch.ImageBytes()
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, again, "accessor must copy")
	})

	t.Run("disposed challenges report ErrDisposed", func(t *testing.T) {
		ch := newTestChallenge(t, "021102")
		ch.Dispose()

		_, err := ch.ImageBytes()
		assert.ErrorIs(t, err, ErrDisposed)
	})
}

func TestChallenge_FailCount(t *testing.T) {
	ch := newTestChallenge(t, "021102")
	assert.Equal(t, 0, ch.FailCount())
	assert.Equal(t, 1, ch.RecordFailure())
	assert.Equal(t, 2, ch.RecordFailure())
	assert.Equal(t, 2, ch.FailCount())
}

func TestChallenge_Dispose_Idempotent(t *testing.T) {
	ch := newTestChallenge(t, "021102")
	feed(ch, 0, 1, 2)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch.Dispose()
		}()
	}
	wg.Wait()

	assert.True(t, ch.Disposed())
	assert.Empty(t, ch.EnteredValue(), "disposal empties the buffer")
	_, err := ch.ImageBytes()
	assert.ErrorIs(t, err, ErrDisposed)

	// A late call is still a no-op.
	ch.Dispose()
	assert.True(t, ch.Disposed())
}
