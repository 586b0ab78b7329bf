package sonify

import (
	"fmt"
	"sort"
)

// VoiceName labels the ambient layers.
type VoiceName string

const (
	VoicePad     VoiceName = "pad"
	VoiceMelody  VoiceName = "melody"
	VoiceShimmer VoiceName = "shimmer"
	VoiceBass    VoiceName = "bass"
)

// VoiceLoop is one independent repeating layer: pitches at fractional
// positions within its own cycle. Distinct voices in one configuration get
// mutually non-commensurate cycle lengths so their onsets phase-drift
// indefinitely instead of locking into a repeat (the Eno technique).
type VoiceLoop struct {
	Voice         VoiceName `json:"voice"`
	NotePitches   []int     `json:"notePitches"`
	NotePositions []float64 `json:"notePositions"` // fraction of cycle, sorted
	CycleSeconds  float64   `json:"cycleSeconds"`
	Velocity      float64   `json:"velocity"`
}

// NoteEvent is the flat output unit: an absolute onset in seconds against the
// rendering window's start. Immutable once emitted.
type NoteEvent struct {
	Pitch    int       `json:"pitch"`
	Onset    float64   `json:"onset"`    // seconds
	Duration float64   `json:"duration"` // seconds
	Velocity float64   `json:"velocity"`
	Voice    VoiceName `json:"voice"`
}

const (
	minVoices = 3
	maxVoices = 5

	minBaseCycleSeconds = 12.0
	maxBaseCycleSeconds = 16.0
)

// cycleRatios are deliberately irrational-looking multipliers: no pair forms
// a small-integer ratio, and per-voice jitter pushes them further apart.
var cycleRatios = [maxVoices]float64{1.0, 1.17, 1.31, 1.47, 1.59}

var voiceOrder = [maxVoices]VoiceName{VoicePad, VoiceBass, VoiceMelody, VoiceShimmer, VoicePad}

// voiceRegister offsets each layer's register relative to the config base.
var voiceRegister = map[VoiceName]int{
	VoicePad:     0,
	VoiceBass:    -24,
	VoiceMelody:  12,
	VoiceShimmer: 24,
}

// ScheduleVoices assigns harmonic and melodic material to 3-5 independent
// loops. Each voice carries 1-3 consonant pitches scattered across its own
// cycle. Construction guarantees every voice has at least one note; anything
// less is a generator bug surfaced as an error, not a recoverable state.
func ScheduleVoices(config GeneratorConfig, progression []ChordVoicing, phrase Phrase, rng *RNG) ([]VoiceLoop, error) {
	if len(progression) == 0 {
		return nil, fmt.Errorf("schedule requires a non-empty progression")
	}
	if len(phrase.Notes) == 0 {
		return nil, fmt.Errorf("schedule requires a non-empty phrase")
	}

	voiceCount := rng.NextInt(minVoices, maxVoices)
	baseCycle := rng.NextFloat(minBaseCycleSeconds, maxBaseCycleSeconds)

	tonic := progression[0]
	loops := make([]VoiceLoop, 0, voiceCount)

	for i := 0; i < voiceCount; i++ {
		name := voiceOrder[i]
		cycle := baseCycle * cycleRatios[i] * rng.NextFloat(0.995, 1.005)

		noteCount := rng.NextInt(1, 3)
		if name == VoiceMelody {
			noteCount = rng.NextInt(2, 3)
		}

		pitches := make([]int, 0, noteCount)
		positions := make([]float64, 0, noteCount)
		for j := 0; j < noteCount; j++ {
			pitch, err := voicePitch(config, tonic, phrase, name, rng)
			if err != nil {
				return nil, err
			}
			pitches = append(pitches, pitch)
			positions = append(positions, rng.Next())
		}
		sort.Float64s(positions)

		velocity := clampFloat(rng.NextFloat(0.45, 0.65)*(0.7+0.5*config.Density), minVelocity, maxVelocity)

		loops = append(loops, VoiceLoop{
			Voice:         name,
			NotePitches:   pitches,
			NotePositions: positions,
			CycleSeconds:  cycle,
			Velocity:      velocity,
		})
	}

	return loops, nil
}

// voicePitch picks one pitch for a voice: melody samples the evolved phrase,
// the others draw chord tones weighted root > fifth > third, shifted into the
// voice's register.
func voicePitch(config GeneratorConfig, tonic ChordVoicing, phrase Phrase, name VoiceName, rng *RNG) (int, error) {
	register := voiceRegister[name]

	if name == VoiceMelody {
		p, err := Pick(rng, phrase.Notes)
		if err != nil {
			return 0, err
		}
		return clampInt(p+register-12, MinPitch, MaxPitch), nil
	}

	intervals := chordIntervals[tonic.Quality]
	candidates := make([]int, 0, 3)
	weights := make([]float64, 0, 3)
	for idx, iv := range intervals[:3] {
		candidates = append(candidates, tonic.RootMidi+iv)
		switch idx {
		case 0:
			weights = append(weights, 3.0) // root
		case 1:
			weights = append(weights, 1.0) // third
		default:
			weights = append(weights, 2.0) // fifth
		}
	}

	p, err := WeightedPick(rng, candidates, weights)
	if err != nil {
		return 0, err
	}
	return clampInt(p+register, MinPitch, MaxPitch), nil
}

// FlattenEvents renders each loop's pattern at multiples of its own cycle
// across one window, producing the flat time-stamped event list. One window
// is all the core guarantees; the playback engine repeats loops itself for
// anything longer.
func FlattenEvents(loops []VoiceLoop, windowSeconds float64) ([]NoteEvent, error) {
	if len(loops) == 0 {
		return nil, fmt.Errorf("no voice loops to flatten")
	}

	events := make([]NoteEvent, 0, 64)
	for _, loop := range loops {
		if len(loop.NotePitches) == 0 || len(loop.NotePitches) != len(loop.NotePositions) {
			return nil, fmt.Errorf("voice %s has malformed note set", loop.Voice)
		}
		if loop.CycleSeconds <= 0 {
			return nil, fmt.Errorf("voice %s has non-positive cycle length %f", loop.Voice, loop.CycleSeconds)
		}

		noteDur := loop.CycleSeconds / float64(len(loop.NotePitches)) * 0.9
		for cycleStart := 0.0; cycleStart < windowSeconds; cycleStart += loop.CycleSeconds {
			for i, pos := range loop.NotePositions {
				onset := cycleStart + pos*loop.CycleSeconds
				if onset >= windowSeconds {
					break
				}
				events = append(events, NoteEvent{
					Pitch:    loop.NotePitches[i],
					Onset:    onset,
					Duration: noteDur,
					Velocity: loop.Velocity,
					Voice:    loop.Voice,
				})
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Onset < events[j].Onset
	})
	return events, nil
}
