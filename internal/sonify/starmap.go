package sonify

import (
	"math"
	"strings"
)

// Star is the core's input record. RA in [0,360), Dec in [-90,90], Mag is
// apparent magnitude (lower = brighter). Dist, Spec and Temp are optional;
// zero values fall back to sun-like defaults.
type Star struct {
	ID   string  `json:"id"`
	RA   float64 `json:"ra"`
	Dec  float64 `json:"dec"`
	Mag  float64 `json:"mag"`
	Dist float64 `json:"dist,omitempty"`
	Spec string  `json:"spec,omitempty"`
	Temp float64 `json:"temp,omitempty"`
}

// Emotion is the broad mood category a configuration falls into.
type Emotion string

const (
	EmotionHopeful     Emotion = "hopeful"
	EmotionMelancholic Emotion = "melancholic"
	EmotionSerene      Emotion = "serene"
	EmotionMysterious  Emotion = "mysterious"
)

// GeneratorConfig is the musical configuration derived from one star. Created
// once per generation call, read-only thereafter.
type GeneratorConfig struct {
	Scale        Scale   `json:"scale"`
	BaseNote     int     `json:"baseNote"`
	Tempo        float64 `json:"tempo"` // BPM
	Density      float64 `json:"density"`
	Warmth       float64 `json:"warmth"`
	Spaciousness float64 `json:"spaciousness"`
	Emotion      Emotion `json:"emotion"`
}

const (
	defaultTemp = 5800.0 // sun-like
	defaultDist = 10.0

	minTempo = 52.0
	maxTempo = 80.0

	minBaseNote = 36
	maxBaseNote = 72
)

// spectralTemps maps a spectral class letter to a representative temperature.
var spectralTemps = map[byte]float64{
	'O': 35000,
	'B': 18000,
	'A': 9000,
	'F': 7000,
	'G': 5700,
	'K': 4500,
	'M': 3200,
}

// tempBucket is a temperature band and the scale families it admits.
// Hotter stars get brighter modes.
type tempBucket struct {
	minTemp float64
	scales  []string
}

var tempBuckets = []tempBucket{
	{12000, []string{"lydian", "ionian"}},
	{8000, []string{"ionian", "mixolydian", "lydian"}},
	{6500, []string{"mixolydian", "dorian", "ionian"}},
	{5200, []string{"dorian", "aeolian", "mixolydian"}},
	{4000, []string{"aeolian", "dorian", "pentatonic_minor"}},
	{0, []string{"pentatonic_minor", "aeolian"}},
}

// scaleEmotions assigns a mood to each mode family.
var scaleEmotions = map[string]Emotion{
	"lydian":           EmotionHopeful,
	"ionian":           EmotionHopeful,
	"mixolydian":       EmotionSerene,
	"dorian":           EmotionSerene,
	"pentatonic_major": EmotionSerene,
	"aeolian":          EmotionMelancholic,
	"phrygian":         EmotionMelancholic,
	"pentatonic_minor": EmotionMelancholic,
	"whole_tone":       EmotionMysterious,
	"locrian":          EmotionMysterious,
}

// StarToConfig maps a star record to a musical configuration. The mapping is
// pure and deterministic: the scale family depends only on the star's own
// identity (via StarSeed), so re-seeding generation never changes a star's
// mode, while the remaining parameters follow the documented physical rules.
func StarToConfig(star Star) GeneratorConfig {
	temp := resolveTemp(star)
	dist := star.Dist
	if dist <= 0 {
		dist = defaultDist
	}

	scale := scaleForTemp(temp, star)

	// Right ascension spreads stars across the twelve keys; declination adds
	// a +/-2 semitone micro-shift.
	ra := clampFloat(star.RA, 0, 360)
	dec := clampFloat(star.Dec, -90, 90)
	pitchClass := int(ra/30) % 12
	microShift := clampInt(int(math.Round(dec/45)), -2, 2)

	// Hotter stars sit higher on the keyboard, compressed so extremes stay in
	// a playable register.
	register := clampInt(48+int((temp-defaultTemp)/1500), 42, 60)
	baseNote := clampInt(register+pitchClass+microShift, minBaseNote, maxBaseNote)

	// Brighter (lower magnitude) stars run faster and denser, in a narrow
	// ambient band.
	mag := clampFloat(star.Mag, -2, 8)
	tempo := clampFloat(maxTempo-(mag+2)*3.2, minTempo, maxTempo)
	density := clampFloat(0.85-(mag+2)*0.06, 0.2, 0.85)

	// Distance pushes reverberant space up and activity down.
	spaciousness := clampFloat(0.3+0.18*math.Log10(1+dist), 0.2, 0.95)
	density = clampFloat(density-0.04*math.Log10(1+dist), 0.15, 0.85)

	warmth := clampFloat(1.15-temp/12000, 0.25, 0.85)

	emotion, ok := scaleEmotions[scale.Name]
	if !ok {
		emotion = EmotionSerene
	}

	return GeneratorConfig{
		Scale:        scale,
		BaseNote:     baseNote,
		Tempo:        tempo,
		Density:      density,
		Warmth:       warmth,
		Spaciousness: spaciousness,
		Emotion:      emotion,
	}
}

// resolveTemp returns the star's temperature, falling back to the spectral
// class letter and then to a sun-like default. Sparse input never errors.
func resolveTemp(star Star) float64 {
	if star.Temp > 0 && !math.IsInf(star.Temp, 0) && !math.IsNaN(star.Temp) {
		return star.Temp
	}
	spec := strings.ToUpper(strings.TrimSpace(star.Spec))
	if len(spec) > 0 {
		if t, ok := spectralTemps[spec[0]]; ok {
			return t
		}
	}
	return defaultTemp
}

// scaleForTemp buckets the temperature and picks one admitted mode using the
// star's identity hash, so the same star keeps its mode across re-seeds.
func scaleForTemp(temp float64, star Star) Scale {
	for _, bucket := range tempBuckets {
		if temp > bucket.minTemp {
			idx := int(StarSeed(star.ID, star.RA, star.Dec) % uint32(len(bucket.scales)))
			return Scales[bucket.scales[idx]]
		}
	}
	return Scales["pentatonic_minor"]
}

func clampFloat(v, min, max float64) float64 {
	if math.IsNaN(v) {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
