package sonify

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sirius = Star{
	ID:   "HIP 32349",
	RA:   101.287,
	Dec:  -16.716,
	Mag:  -1.46,
	Dist: 2.64,
	Spec: "A1V",
	Temp: 9940,
}

func TestStarToConfigSirius(t *testing.T) {
	cfg := StarToConfig(sirius)

	// 8000-12000 K bucket
	assert.Contains(t, []string{"ionian", "mixolydian", "lydian"}, cfg.Scale.Name)

	// bright star: upper half of the ambient tempo band
	assert.Greater(t, cfg.Tempo, (minTempo+maxTempo)/2)
	assert.LessOrEqual(t, cfg.Tempo, maxTempo)
}

func TestStarToConfigCoolStar(t *testing.T) {
	cfg := StarToConfig(Star{ID: "cool", RA: 10, Dec: 5, Mag: 8, Temp: 3200})
	assert.Contains(t, []string{"pentatonic_minor", "aeolian"}, cfg.Scale.Name)
}

func TestStarToConfigTempBuckets(t *testing.T) {
	tests := []struct {
		temp    float64
		allowed []string
	}{
		{15000, []string{"lydian", "ionian"}},
		{9000, []string{"ionian", "mixolydian", "lydian"}},
		{7000, []string{"mixolydian", "dorian", "ionian"}},
		{5800, []string{"dorian", "aeolian", "mixolydian"}},
		{4500, []string{"aeolian", "dorian", "pentatonic_minor"}},
		{3000, []string{"pentatonic_minor", "aeolian"}},
	}
	for _, tt := range tests {
		cfg := StarToConfig(Star{ID: "t", RA: 100, Dec: 0, Mag: 3, Temp: tt.temp})
		assert.Contains(t, tt.allowed, cfg.Scale.Name, "temp %.0f", tt.temp)
	}
}

func TestScaleStableAcrossReseed(t *testing.T) {
	// Mode family depends on the star's identity, not the generation seed.
	cfg1 := StarToConfig(sirius)
	cfg2 := StarToConfig(sirius)
	assert.Equal(t, cfg1.Scale.Name, cfg2.Scale.Name)
	assert.Equal(t, cfg1, cfg2)
}

func TestSparseInputDefaults(t *testing.T) {
	cfg := StarToConfig(Star{ID: "bare", RA: 50, Dec: 10, Mag: 4})
	// sun-like default temperature lands in the 5200-6500 bucket
	assert.Contains(t, []string{"dorian", "aeolian", "mixolydian"}, cfg.Scale.Name)
	assertConfigSane(t, cfg)
}

func TestSpectralClassFallback(t *testing.T) {
	tests := []struct {
		spec    string
		allowed []string
	}{
		{"O5V", []string{"lydian", "ionian"}},
		{"A0", []string{"ionian", "mixolydian", "lydian"}},
		{"M3III", []string{"pentatonic_minor", "aeolian"}},
		{"G2V", []string{"dorian", "aeolian", "mixolydian"}},
	}
	for _, tt := range tests {
		cfg := StarToConfig(Star{ID: "s", RA: 80, Dec: -30, Mag: 2, Spec: tt.spec})
		assert.Contains(t, tt.allowed, cfg.Scale.Name, "spec %s", tt.spec)
	}
}

func TestConfigClampedForExtremes(t *testing.T) {
	extremes := []Star{
		{ID: "hot", RA: 0, Dec: 90, Mag: -2, Temp: 200000, Dist: 0.001},
		{ID: "cold", RA: 359.9, Dec: -90, Mag: 20, Temp: 1, Dist: 1e9},
		{ID: "nan-ish", RA: 180, Dec: 0, Mag: 0},
	}
	for _, star := range extremes {
		cfg := StarToConfig(star)
		assertConfigSane(t, cfg)
	}
}

func TestWarmthInverseToTemperature(t *testing.T) {
	hot := StarToConfig(Star{ID: "a", RA: 10, Dec: 0, Mag: 1, Temp: 11000})
	cool := StarToConfig(Star{ID: "b", RA: 10, Dec: 0, Mag: 1, Temp: 3500})
	assert.Greater(t, cool.Warmth, hot.Warmth)
}

func TestMagnitudeDrivesTempo(t *testing.T) {
	bright := StarToConfig(Star{ID: "a", RA: 10, Dec: 0, Mag: -1, Temp: 5800})
	dim := StarToConfig(Star{ID: "b", RA: 10, Dec: 0, Mag: 6, Temp: 5800})
	assert.Greater(t, bright.Tempo, dim.Tempo)
	assert.Greater(t, bright.Density, dim.Density)
}

func TestRightAscensionSpreadsKeys(t *testing.T) {
	seen := map[int]bool{}
	for ra := 0.0; ra < 360; ra += 30 {
		cfg := StarToConfig(Star{ID: "k", RA: ra, Dec: 0, Mag: 3, Temp: 5800})
		seen[cfg.BaseNote] = true
	}
	assert.GreaterOrEqual(t, len(seen), 6, "expected RA to spread stars over keys")
}

func assertConfigSane(t *testing.T, cfg GeneratorConfig) {
	t.Helper()
	require.NotEmpty(t, cfg.Scale.Intervals)
	assert.GreaterOrEqual(t, cfg.BaseNote, minBaseNote)
	assert.LessOrEqual(t, cfg.BaseNote, maxBaseNote)
	assert.GreaterOrEqual(t, cfg.Tempo, minTempo)
	assert.LessOrEqual(t, cfg.Tempo, maxTempo)
	for _, v := range []float64{cfg.Density, cfg.Warmth, cfg.Spaciousness} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.NotEmpty(t, cfg.Emotion)
}
