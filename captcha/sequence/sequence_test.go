package sequence

import (
	mrand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	t.Run("symbols stay in the alphabet", func(t *testing.T) {
		gen := New(nil)
		for i := 0; i < 200; i++ {
			seq := gen.Generate()
			for _, sym := range seq {
				if !sym.Valid() {
					t.Fatalf("out-of-alphabet symbol %d in %s", sym, seq)
				}
			}
		}
	})

	t.Run("same seed reproduces the answer", func(t *testing.T) {
		a := New(mrand.New(mrand.NewPCG(7, 7))).Generate()
		b := New(mrand.New(mrand.NewPCG(7, 7))).Generate()
		assert.Equal(t, a, b)
	})

	t.Run("every symbol eventually appears", func(t *testing.T) {
		gen := New(mrand.New(mrand.NewPCG(1, 1)))
		seen := make(map[Symbol]bool)
		for i := 0; i < 100; i++ {
			for _, sym := range gen.Generate() {
				seen[sym] = true
			}
		}
		assert.Len(t, seen, 3)
	})
}

func TestSequence_String(t *testing.T) {
	seq := Sequence{Left, Right, Up, Up, Left, Right}
	assert.Equal(t, "021102", seq.String())
}

func TestSequence_Equal(t *testing.T) {
	seq := Sequence{Left, Right, Up, Up, Left, Right}

	assert.True(t, seq.Equal([]Symbol{Left, Right, Up, Up, Left, Right}))
	assert.False(t, seq.Equal([]Symbol{Left, Right, Up, Up, Left, Left}))
	assert.False(t, seq.Equal([]Symbol{Left, Right, Up}), "short buffer never matches")
	assert.False(t, seq.Equal(nil))
}

func TestParse(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		seq, err := Parse("021102")
		require.NoError(t, err)
		assert.Equal(t, "021102", seq.String())
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := Parse("0211")
		assert.ErrorIs(t, err, ErrInvalidSequence)

		_, err = Parse("0211020")
		assert.ErrorIs(t, err, ErrInvalidSequence)
	})

	t.Run("rejects out-of-alphabet symbols", func(t *testing.T) {
		_, err := Parse("021103")
		assert.ErrorIs(t, err, ErrInvalidSequence)

		_, err = Parse("02110a")
		assert.ErrorIs(t, err, ErrInvalidSequence)
	})
}

func TestSymbol_String(t *testing.T) {
	assert.Equal(t, "0", Left.String())
	assert.Equal(t, "1", Up.String())
	assert.Equal(t, "2", Right.String())
	assert.Equal(t, "?", Symbol(9).String())
}
