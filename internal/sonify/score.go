package sonify

import "fmt"

// Score is the complete output of one generation call: configuration, the
// harmonic and melodic material, the voice loops, and the flattened event
// list for one rendering window. Plain data, no behavior; serialization is
// the caller's concern.
type Score struct {
	Seed               uint32          `json:"seed"`
	Config             GeneratorConfig `json:"config"`
	ChordProgression   []ChordVoicing  `json:"chordProgression"`
	Melody             Phrase          `json:"melody"`
	Voices             []VoiceLoop     `json:"voices"`
	Events             []NoteEvent     `json:"events"`
	CycleDurationBeats float64         `json:"cycleDurationBeats"`
	WindowSeconds      float64         `json:"windowSeconds"`
}

const (
	progressionLength = 4
	beatsPerChord     = 4.0

	minPhraseLength = 8
	maxPhraseLength = 16
)

// Generate maps a star and seed to a fully specified score. Pure and
// deterministic: the same (star, seed) pair always yields a bit-identical
// score, and each call owns its RNG so concurrent calls never interact.
func Generate(star Star, seed uint32) (*Score, error) {
	rng := NewRNG(seed)
	config := StarToConfig(star)

	progression, err := GenerateProgression(config, rng, progressionLength)
	if err != nil {
		return nil, fmt.Errorf("harmonic generation: %w", err)
	}

	phraseLen := minPhraseLength + int(config.Density*float64(maxPhraseLength-minPhraseLength))
	melody, err := EvolvePhrase(config, rng, phraseLen)
	if err != nil {
		return nil, fmt.Errorf("melodic generation: %w", err)
	}

	voices, err := ScheduleVoices(config, progression, melody, rng)
	if err != nil {
		return nil, fmt.Errorf("voice scheduling: %w", err)
	}

	window := 0.0
	for _, v := range voices {
		if v.CycleSeconds > window {
			window = v.CycleSeconds
		}
	}

	events, err := FlattenEvents(voices, window)
	if err != nil {
		return nil, fmt.Errorf("event flattening: %w", err)
	}

	return &Score{
		Seed:               seed,
		Config:             config,
		ChordProgression:   progression,
		Melody:             melody,
		Voices:             voices,
		Events:             events,
		CycleDurationBeats: float64(progressionLength) * beatsPerChord,
		WindowSeconds:      window,
	}, nil
}

// GenerateDefault generates with the star-stable default seed derived from
// the star's identity fields.
func GenerateDefault(star Star) (*Score, error) {
	return Generate(star, StarSeed(star.ID, star.RA, star.Dec))
}
