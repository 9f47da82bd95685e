package sequence_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/pacp/sequence"
	"github.com/stretchr/testify/require"
)

// TestParse_Symbols checks both symbol alphabets and whitespace trimming.
func TestParse_Symbols(t *testing.T) {
	s, err := sequence.Parse("  +-01\n")
	require.NoError(t, err)
	require.Equal(t, sequence.Sequence{1, -1, -1, 1}, s)
	require.Equal(t, "+--+", s.String())
}

// TestParse_Errors covers every rejection path.
func TestParse_Errors(t *testing.T) {
	_, err := sequence.Parse("+")
	require.ErrorIs(t, err, sequence.ErrTooShort)

	_, err = sequence.Parse("+x-")
	require.ErrorIs(t, err, sequence.ErrBadSymbol)

	require.ErrorIs(t, sequence.Sequence{1, 0, -1}.Validate(), sequence.ErrBadSymbol)
	require.ErrorIs(t, sequence.ValidatePair(sequence.Sequence{1, 1}, sequence.Sequence{1, 1, 1}), sequence.ErrLengthMismatch)
}

// TestParsePair_Layouts accepts both the seed layout and the record layout.
func TestParsePair_Layouts(t *testing.T) {
	a, b, err := sequence.ParsePair("++-, +-+")
	require.NoError(t, err)
	require.Equal(t, "++-", a.String())
	require.Equal(t, "+-+", b.String())

	a, b, err = sequence.ParsePair("3,4,++-,+-+")
	require.NoError(t, err)
	require.Equal(t, "++-,+-+", sequence.FormatPair(a, b))

	_, _, err = sequence.ParsePair("4,4,++-,+-+")
	require.ErrorIs(t, err, sequence.ErrLengthMismatch)

	_, _, err = sequence.ParsePair("x,4,++-,+-+")
	require.ErrorIs(t, err, sequence.ErrMalformedPair)

	_, _, err = sequence.ParsePair("++-")
	require.ErrorIs(t, err, sequence.ErrMalformedPair)

	_, _, err = sequence.ParsePair("++-,+-")
	require.ErrorIs(t, err, sequence.ErrLengthMismatch)
}

// TestRotateLeft_Definition checks s'[i] = s[(i+k) mod L] including reduced shifts.
func TestRotateLeft_Definition(t *testing.T) {
	s, err := sequence.Parse("+--+-")
	require.NoError(t, err)

	require.Equal(t, "-+-+-", s.Rotated(2).String())
	require.Equal(t, s.Rotated(2), s.Rotated(7))
	require.Equal(t, s.Rotated(4), s.Rotated(-1))
	require.Equal(t, s, s.Rotated(5))

	s.RotateLeft(2)
	require.Equal(t, "-+-+-", s.String())
}

// TestTransforms checks Negated, Reversed, Mirror and Sum.
func TestTransforms(t *testing.T) {
	s, err := sequence.Parse("++-+-")
	require.NoError(t, err)

	require.Equal(t, "--+-+", s.Negated().String())
	require.Equal(t, "-+-++", s.Reversed().String())
	require.Equal(t, 1, s.Sum())
	require.Equal(t, -1, s.Negated().Sum())

	m := s.Clone()
	sequence.Mirror(m)
	require.Equal(t, "++-++", m.String())
	require.True(t, m.Equal(m.Reversed()))
	require.False(t, s.Equal(m))
	require.Equal(t, "++-+-", s.String(), "Clone must isolate the original")
}

// TestAutocorrelation_Small checks a hand-computed vector.
func TestAutocorrelation_Small(t *testing.T) {
	s, err := sequence.Parse("++-")
	require.NoError(t, err)
	require.Equal(t, []int{3, -1, -1}, sequence.Autocorrelation(s))
}

// TestAutocorrelation_Invariants checks rho[0]=L, symmetry and shift/negation invariance.
func TestAutocorrelation_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var n, u, k int
	for n = 2; n <= 33; n++ {
		s := sequence.Random(n, rng)
		require.NoError(t, s.Validate())
		rho := sequence.Autocorrelation(s)
		require.Equal(t, n, rho[0])
		for u = 1; u < n; u++ {
			require.Equal(t, rho[u], rho[n-u])
		}
		k = rng.Intn(n)
		require.Equal(t, rho, sequence.Autocorrelation(s.Rotated(k)))
		require.Equal(t, rho, sequence.Autocorrelation(s.Negated()))
		require.Equal(t, rho, sequence.Autocorrelation(s.Reversed()))
	}
}

// TestRandom_SeedDeterminism locks the random stream to the seed.
func TestRandom_SeedDeterminism(t *testing.T) {
	a := sequence.Random(64, rand.New(rand.NewSource(42)))
	b := sequence.Random(64, rand.New(rand.NewSource(42)))
	require.Equal(t, a, b)
}
