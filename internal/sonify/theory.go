package sonify

import (
	"fmt"
	"strings"
)

// Scale is an ordered set of semitone offsets from a root, defining one
// octave's pitch classes. Defined once in the static table below, never
// mutated.
type Scale struct {
	Name      string `json:"name"`
	Intervals []int  `json:"intervals"`
}

// Scales holds the supported modes. Seven diatonic modes plus the pentatonics
// and whole tone.
var Scales = map[string]Scale{
	"ionian":           {Name: "ionian", Intervals: []int{0, 2, 4, 5, 7, 9, 11}},
	"dorian":           {Name: "dorian", Intervals: []int{0, 2, 3, 5, 7, 9, 10}},
	"phrygian":         {Name: "phrygian", Intervals: []int{0, 1, 3, 5, 7, 8, 10}},
	"lydian":           {Name: "lydian", Intervals: []int{0, 2, 4, 6, 7, 9, 11}},
	"mixolydian":       {Name: "mixolydian", Intervals: []int{0, 2, 4, 5, 7, 9, 10}},
	"aeolian":          {Name: "aeolian", Intervals: []int{0, 2, 3, 5, 7, 8, 10}},
	"locrian":          {Name: "locrian", Intervals: []int{0, 1, 3, 5, 6, 8, 10}},
	"pentatonic_major": {Name: "pentatonic_major", Intervals: []int{0, 2, 4, 7, 9}},
	"pentatonic_minor": {Name: "pentatonic_minor", Intervals: []int{0, 3, 5, 7, 10}},
	"whole_tone":       {Name: "whole_tone", Intervals: []int{0, 2, 4, 6, 8, 10}},
}

// ChordQuality identifies a chord's interval structure.
type ChordQuality string

const (
	QualityMajor ChordQuality = "major"
	QualityMinor ChordQuality = "minor"
	QualitySus4  ChordQuality = "sus4"
	QualityDim   ChordQuality = "dim"
	QualityAug   ChordQuality = "aug"
	QualityMaj7  ChordQuality = "maj7"
	QualityMin7  ChordQuality = "min7"
	QualityDom7  ChordQuality = "dom7"
	QualitySus47 ChordQuality = "sus4_7"
	QualityDim7  ChordQuality = "dim7"
	QualityAug7  ChordQuality = "aug7"
)

// chordIntervals maps each quality to semitones from the root.
var chordIntervals = map[ChordQuality][]int{
	QualityMajor: {0, 4, 7},
	QualityMinor: {0, 3, 7},
	QualitySus4:  {0, 5, 7},
	QualityDim:   {0, 3, 6},
	QualityAug:   {0, 4, 8},
	QualityMaj7:  {0, 4, 7, 11},
	QualityMin7:  {0, 3, 7, 10},
	QualityDom7:  {0, 4, 7, 10},
	QualitySus47: {0, 5, 7, 10},
	QualityDim7:  {0, 3, 6, 9},
	QualityAug7:  {0, 4, 8, 10},
}

// ChordVoicing is a realized chord: absolute pitches built from a root and
// quality. Immutable after construction.
type ChordVoicing struct {
	RootMidi int          `json:"rootMidi"`
	Pitches  []int        `json:"pitches"`
	Quality  ChordQuality `json:"quality"`
}

// consonanceWeights scores an interval class (mod 12) for harmonic stability.
// Unison/octave and perfect fifth highest, tritone and semitone lowest.
var consonanceWeights = [12]float64{
	1.0,  // unison
	0.1,  // minor 2nd
	0.35, // major 2nd
	0.7,  // minor 3rd
	0.75, // major 3rd
	0.8,  // perfect 4th
	0.1,  // tritone
	0.9,  // perfect 5th
	0.65, // minor 6th
	0.7,  // major 6th
	0.4,  // minor 7th
	0.3,  // major 7th
}

// Consonance returns the stability weight for the interval between two
// pitches, in [0, 1].
func Consonance(a, b int) float64 {
	iv := a - b
	if iv < 0 {
		iv = -iv
	}
	return consonanceWeights[iv%12]
}

// BuildChord constructs a voicing from an absolute root and quality.
func BuildChord(root int, quality ChordQuality) (ChordVoicing, error) {
	intervals, ok := chordIntervals[quality]
	if !ok {
		return ChordVoicing{}, fmt.Errorf("unknown chord quality: %s", quality)
	}

	pitches := make([]int, 0, len(intervals))
	for _, iv := range intervals {
		p := root + iv
		if p < 0 || p > 127 {
			continue
		}
		pitches = append(pitches, p)
	}
	if len(pitches) == 0 {
		return ChordVoicing{}, fmt.Errorf("chord root %d out of MIDI range", root)
	}

	return ChordVoicing{RootMidi: root, Pitches: pitches, Quality: quality}, nil
}

// OpenVoicing spreads a chord across at least two octaves: root at the bottom,
// fifth in the middle register, third (and any seventh) on top. Close-position
// voicings sound muddy in the low registers this generator favors.
func OpenVoicing(chord ChordVoicing, octaveSpread int) []int {
	if octaveSpread < 2 {
		octaveSpread = 2
	}

	intervals := chordIntervals[chord.Quality]
	root := chord.RootMidi

	voiced := []int{root}
	if len(intervals) > 2 {
		voiced = append(voiced, root+intervals[2]) // fifth, mid
	}
	if len(intervals) > 1 {
		voiced = append(voiced, root+12+intervals[1]) // third, high
	}
	if len(intervals) > 3 {
		voiced = append(voiced, root+(octaveSpread-1)*12+intervals[3])
	} else {
		voiced = append(voiced, root+(octaveSpread-1)*12)
	}

	out := voiced[:0]
	for _, p := range voiced {
		if p >= 0 && p <= 127 {
			out = append(out, p)
		}
	}
	return out
}

// DegreeToInterval maps a scale degree to a semitone offset, wrapping degrees
// past the scale length into upper octaves.
func DegreeToInterval(scale Scale, degree int) (int, error) {
	n := len(scale.Intervals)
	if n == 0 {
		return 0, fmt.Errorf("empty scale: %s", scale.Name)
	}
	if degree < 0 {
		return 0, fmt.Errorf("negative scale degree: %d", degree)
	}
	return scale.Intervals[degree%n] + 12*(degree/n), nil
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// MIDIToName converts a MIDI note number to a name like "C4" (middle C = 60).
// Sharps only, so the conversion is a bijection with NameToMIDI.
func MIDIToName(midi int) (string, error) {
	if midi < 0 || midi > 127 {
		return "", fmt.Errorf("MIDI note %d out of range", midi)
	}
	octave := midi/12 - 1
	return fmt.Sprintf("%s%d", noteNames[midi%12], octave), nil
}

// NameToMIDI converts a note name like "E1", "C4", "F#3", "Bb2" to a MIDI
// note number. C4 = 60 = middle C.
func NameToMIDI(noteName string) (int, error) {
	if len(noteName) < 2 {
		return 0, fmt.Errorf("note name too short: %s", noteName)
	}

	noteChar := strings.ToUpper(string(noteName[0]))
	noteOffsets := map[string]int{
		"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
	}
	semitone, ok := noteOffsets[noteChar]
	if !ok {
		return 0, fmt.Errorf("invalid note letter: %s", noteChar)
	}

	idx := 1
	if idx < len(noteName) {
		if noteName[idx] == '#' {
			semitone++
			idx++
		} else if noteName[idx] == 'b' {
			semitone--
			idx++
		}
	}

	if idx >= len(noteName) {
		return 0, fmt.Errorf("missing octave in note name: %s", noteName)
	}

	var octave int
	if _, err := fmt.Sscanf(noteName[idx:], "%d", &octave); err != nil {
		return 0, fmt.Errorf("invalid octave in note name %s: %w", noteName, err)
	}

	midiNote := (octave+1)*12 + semitone
	if midiNote < 0 || midiNote > 127 {
		return 0, fmt.Errorf("note %s outside MIDI range", noteName)
	}
	return midiNote, nil
}
