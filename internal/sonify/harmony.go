package sonify

import "fmt"

// Chord progressions are sampled from a fixed Markov transition table over
// diatonic scale degrees. The weights below are constants so behavior is
// auditable: the tonic favors subdominant/dominant/submediant motion, the
// dominant resolves strongly to the tonic with a minority deceptive
// resolution to the submediant.
var chordTransitions = [7][7]float64{
	// from I: strong pull toward IV, V, vi
	{0.5, 1.5, 0.5, 3.0, 3.0, 2.0, 0.2},
	// from ii: predominant, moves to V or vii
	{1.0, 0.3, 0.5, 0.5, 3.0, 0.5, 1.0},
	// from iii: drifts to vi or IV
	{0.5, 0.5, 0.2, 2.0, 0.5, 2.5, 0.2},
	// from IV: to V, I, or ii
	{2.0, 1.5, 0.3, 0.3, 3.0, 0.5, 0.5},
	// from V: resolves to I, deceptive to vi
	{4.0, 0.3, 0.2, 0.5, 0.3, 1.5, 0.2},
	// from vi: to ii, IV, or V
	{0.5, 2.0, 0.5, 2.0, 1.5, 0.3, 0.2},
	// from vii: resolves to I or iii
	{3.0, 0.3, 1.5, 0.3, 0.5, 0.5, 0.2},
}

// emotionDegreeBias nudges the transition weights per mood. Melancholic
// material leans on the submediant, hopeful on the subdominant/dominant axis.
var emotionDegreeBias = map[Emotion][7]float64{
	EmotionHopeful:     {1.0, 1.0, 0.8, 1.3, 1.3, 0.8, 0.8},
	EmotionMelancholic: {1.0, 1.0, 1.1, 0.9, 0.8, 1.5, 0.9},
	EmotionSerene:      {1.2, 1.0, 1.0, 1.1, 0.9, 1.0, 0.7},
	EmotionMysterious:  {0.9, 1.1, 1.2, 0.9, 0.9, 1.1, 1.2},
}

// GenerateProgression builds a chord progression of the given length on the
// scale, rooted at baseNote. Progressions always start on the tonic; later
// chords follow the Markov table above. Chords come back open-voiced.
func GenerateProgression(config GeneratorConfig, rng *RNG, length int) ([]ChordVoicing, error) {
	if length < 1 {
		return nil, fmt.Errorf("progression length must be >= 1, got %d", length)
	}

	scaleLen := len(config.Scale.Intervals)
	if scaleLen == 0 {
		return nil, fmt.Errorf("empty scale: %s", config.Scale.Name)
	}

	bias, ok := emotionDegreeBias[config.Emotion]
	if !ok {
		bias = [7]float64{1, 1, 1, 1, 1, 1, 1}
	}

	degrees := []int{0, 1, 2, 3, 4, 5, 6}
	progression := make([]ChordVoicing, 0, length)
	degree := 0 // tonic start

	for i := 0; i < length; i++ {
		chord, err := diatonicChord(config.Scale, config.BaseNote, degree)
		if err != nil {
			return nil, err
		}
		chord.Pitches = OpenVoicing(chord, 2)
		progression = append(progression, chord)

		row := chordTransitions[degree%7]
		weights := make([]float64, 7)
		for j := 0; j < 7; j++ {
			weights[j] = row[j] * bias[j]
		}
		next, err := WeightedPick(rng, degrees, weights)
		if err != nil {
			return nil, err
		}
		degree = next % scaleLen
	}

	return progression, nil
}

// diatonicChord stacks scale thirds on the given degree and classifies the
// resulting triad quality.
func diatonicChord(scale Scale, baseNote, degree int) (ChordVoicing, error) {
	rootIv, err := DegreeToInterval(scale, degree)
	if err != nil {
		return ChordVoicing{}, err
	}
	thirdIv, err := DegreeToInterval(scale, degree+2)
	if err != nil {
		return ChordVoicing{}, err
	}
	fifthIv, err := DegreeToInterval(scale, degree+4)
	if err != nil {
		return ChordVoicing{}, err
	}

	third := thirdIv - rootIv
	fifth := fifthIv - rootIv

	quality := QualitySus4
	switch {
	case third == 4 && fifth == 7:
		quality = QualityMajor
	case third == 3 && fifth == 7:
		quality = QualityMinor
	case third == 3 && fifth == 6:
		quality = QualityDim
	case third == 4 && fifth == 8:
		quality = QualityAug
	}

	return BuildChord(baseNote+rootIv, quality)
}
