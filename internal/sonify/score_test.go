package sonify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(sirius, 42)
	require.NoError(t, err)
	b, err := Generate(sirius, 42)
	require.NoError(t, err)

	// bit-for-bit equal, including every note, duration and velocity
	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, ja, jb)
}

func TestGenerateSeedSensitivity(t *testing.T) {
	for seed := uint32(100); seed < 120; seed++ {
		a, err := Generate(sirius, seed)
		require.NoError(t, err)
		b, err := Generate(sirius, seed+1)
		require.NoError(t, err)

		ja, _ := json.Marshal(a)
		jb, _ := json.Marshal(b)
		assert.NotEqual(t, ja, jb, "seeds %d and %d produced identical scores", seed, seed+1)
	}
}

func TestGenerateStarSensitivity(t *testing.T) {
	vega := Star{ID: "HIP 91262", RA: 279.234, Dec: 38.783, Mag: 0.03, Dist: 7.68, Spec: "A0V", Temp: 9602}
	proxima := Star{ID: "HIP 70890", RA: 217.428, Dec: -62.679, Mag: 11.13, Dist: 1.30, Spec: "M5V", Temp: 3042}

	differ := 0
	pairs := [][2]Star{{sirius, vega}, {sirius, proxima}, {vega, proxima}}
	for _, pair := range pairs {
		a, err := Generate(pair[0], 7)
		require.NoError(t, err)
		b, err := Generate(pair[1], 7)
		require.NoError(t, err)
		if a.Config.BaseNote != b.Config.BaseNote ||
			a.Config.Scale.Name != b.Config.Scale.Name ||
			a.Config.Tempo != b.Config.Tempo {
			differ++
		}
	}
	assert.GreaterOrEqual(t, differ, 2, "different stars should mostly differ in base note, scale, or tempo")
}

func TestGenerateSiriusScenario(t *testing.T) {
	score, err := Generate(sirius, 42)
	require.NoError(t, err)

	// hot-star bucket
	assert.Contains(t, []string{"ionian", "mixolydian", "lydian"}, score.Config.Scale.Name)
	assert.Greater(t, score.Config.Tempo, (minTempo+maxTempo)/2)

	again, err := Generate(sirius, 42)
	require.NoError(t, err)
	assert.Equal(t, score, again)

	other, err := Generate(sirius, 43)
	require.NoError(t, err)
	assert.NotEqual(t, score.Events, other.Events, "re-seeding must change at least one note")
}

func TestGenerateRangeInvariants(t *testing.T) {
	for seed := uint32(1); seed <= 20; seed++ {
		score, err := Generate(sirius, seed)
		require.NoError(t, err)

		require.NotEmpty(t, score.Events)
		require.NotEmpty(t, score.ChordProgression)
		require.NotEmpty(t, score.Voices)
		assert.Greater(t, score.CycleDurationBeats, 0.0)
		assert.Greater(t, score.WindowSeconds, 0.0)

		for _, ev := range score.Events {
			assert.GreaterOrEqual(t, ev.Pitch, MinPitch)
			assert.LessOrEqual(t, ev.Pitch, MaxPitch)
			assert.GreaterOrEqual(t, ev.Velocity, 0.0)
			assert.LessOrEqual(t, ev.Velocity, 1.0)
			assert.GreaterOrEqual(t, ev.Onset, 0.0)
			assert.Greater(t, ev.Duration, 0.0)
		}
		for _, n := range score.Melody.Notes {
			assert.GreaterOrEqual(t, n, MinPitch)
			assert.LessOrEqual(t, n, MaxPitch)
		}
	}
}

func TestGenerateDefaultStarStable(t *testing.T) {
	a, err := GenerateDefault(sirius)
	require.NoError(t, err)
	b, err := GenerateDefault(sirius)
	require.NoError(t, err)
	assert.Equal(t, a, b, "seedless generation must be star-stable")
	assert.Equal(t, StarSeed(sirius.ID, sirius.RA, sirius.Dec), a.Seed)
}

func TestGenerateSparseStar(t *testing.T) {
	score, err := Generate(Star{ID: "minimal", RA: 12.5, Dec: -40, Mag: 5.5}, 9)
	require.NoError(t, err)
	assert.NotEmpty(t, score.Events)
}

func TestGenerateConcurrentCallsIndependent(t *testing.T) {
	// Each call constructs its own RNG; parallel generation must not interact.
	const n = 8
	results := make([]*Score, n)
	done := make(chan int, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			s, err := Generate(sirius, 42)
			if err == nil {
				results[i] = s
			}
			done <- i
		}(i)
	}
	for i := 0; i < n; i++ {
		<-done
	}
	for i := 1; i < n; i++ {
		require.NotNil(t, results[i])
		assert.Equal(t, results[0], results[i])
	}
}
