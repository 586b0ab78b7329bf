package sonify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionMatrixRowsSumToOne(t *testing.T) {
	rng := NewRNG(11)
	for _, n := range []int{5, 6, 7} {
		matrix := buildTransitionMatrix(n, rng)
		require.Len(t, matrix, n)
		for i, row := range matrix {
			sum := 0.0
			for _, p := range row {
				assert.GreaterOrEqual(t, p, 0.0)
				sum += p
			}
			assert.InDelta(t, 1.0, sum, 1e-5, "n=%d row %d", n, i)
		}
	}
}

func TestTransitionMatrixFavorsSteps(t *testing.T) {
	rng := NewRNG(21)
	matrix := buildTransitionMatrix(7, rng)
	// From the middle degree, staying close must beat the largest leap.
	assert.Greater(t, matrix[3][3], matrix[3][0])
	assert.Greater(t, matrix[3][4], matrix[3][0])
}

func TestGeneratePhraseDeterministic(t *testing.T) {
	cfg := testConfig("dorian")
	a, err := GeneratePhrase(cfg, NewRNG(99), 12)
	require.NoError(t, err)
	b, err := GeneratePhrase(cfg, NewRNG(99), 12)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGeneratePhraseInvariants(t *testing.T) {
	cfg := testConfig("mixolydian")
	for seed := uint32(1); seed <= 25; seed++ {
		p, err := GeneratePhrase(cfg, NewRNG(seed), 16)
		require.NoError(t, err)
		require.Len(t, p.Notes, 16)
		require.Len(t, p.Durations, 16)
		require.Len(t, p.Velocities, 16)

		for i := range p.Notes {
			assert.GreaterOrEqual(t, p.Notes[i], MinPitch)
			assert.LessOrEqual(t, p.Notes[i], MaxPitch)
			assert.Contains(t, durationChoices, p.Durations[i])
			assert.GreaterOrEqual(t, p.Velocities[i], 0.0)
			assert.LessOrEqual(t, p.Velocities[i], 1.0)
			assert.GreaterOrEqual(t, p.Velocities[i], minVelocity)
			assert.LessOrEqual(t, p.Velocities[i], maxVelocity)
		}
	}
}

func TestGeneratePhraseBadInput(t *testing.T) {
	_, err := GeneratePhrase(testConfig("ionian"), NewRNG(1), 0)
	assert.Error(t, err)

	cfg := testConfig("ionian")
	cfg.Scale = Scale{Name: "broken"}
	_, err = GeneratePhrase(cfg, NewRNG(1), 8)
	assert.Error(t, err)
}

func TestPhraseCopyIsDeep(t *testing.T) {
	p, err := GeneratePhrase(testConfig("ionian"), NewRNG(4), 8)
	require.NoError(t, err)

	c := p.Copy()
	c.Notes[0] = 127
	c.Durations[0] = 99
	c.Velocities[0] = 0.01
	assert.NotEqual(t, p.Notes[0], c.Notes[0])
	assert.NotEqual(t, p.Durations[0], c.Durations[0])
	assert.NotEqual(t, p.Velocities[0], c.Velocities[0])
}

func TestPhraseDurationBeats(t *testing.T) {
	p := Phrase{Durations: []float64{0.5, 1.0, 2.0}}
	assert.InDelta(t, 3.5, p.DurationBeats(), 1e-9)
}
