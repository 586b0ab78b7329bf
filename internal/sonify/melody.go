package sonify

import (
	"fmt"
	"math"
)

// Phrase is a candidate melody: parallel pitch/duration/velocity sequences.
// Mutated in place only during evolution; the generated Score receives a
// finished copy.
type Phrase struct {
	Notes      []int     `json:"notes"`
	Durations  []float64 `json:"durations"` // beats
	Velocities []float64 `json:"velocities"`
	Fitness    float64   `json:"fitness"`
}

// Copy returns a deep copy; evolution never aliases a parent into a child.
func (p Phrase) Copy() Phrase {
	out := Phrase{
		Notes:      make([]int, len(p.Notes)),
		Durations:  make([]float64, len(p.Durations)),
		Velocities: make([]float64, len(p.Velocities)),
		Fitness:    p.Fitness,
	}
	copy(out.Notes, p.Notes)
	copy(out.Durations, p.Durations)
	copy(out.Velocities, p.Velocities)
	return out
}

const (
	// Safe register: pitches outside this band get clamped, never emitted.
	MinPitch = 24
	MaxPitch = 96

	octaveLiftChance = 0.25

	minVelocity = 0.4
	maxVelocity = 0.8
)

// durationChoices is the discrete duration set in beats, weighted toward the
// half-beat-to-two-beat ambient range.
var durationChoices = []float64{0.5, 1.0, 1.5, 2.0, 3.0}
var durationWeights = []float64{3.0, 4.0, 2.0, 3.0, 1.0}

// buildTransitionMatrix creates an n x n scale-degree transition matrix.
// Weights decay with interval distance so stepwise motion dominates and leaps
// stay rare; a small seeded perturbation varies the walk between calls. Every
// row is normalized to sum to 1.
func buildTransitionMatrix(n int, rng *RNG) [][]float64 {
	matrix := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		sum := 0.0
		for j := 0; j < n; j++ {
			dist := math.Abs(float64(i - j))
			w := 1.0/(1.0+dist*dist) + rng.NextFloat(0, 0.06)
			row[j] = w
			sum += w
		}
		for j := 0; j < n; j++ {
			row[j] /= sum
		}
		matrix[i] = row
	}
	return matrix
}

// GeneratePhrase produces a melody of the given length by a weighted Markov
// walk over scale degrees. Starts on a consonant degree weighted toward the
// root; pitches are clamped to the safe register.
func GeneratePhrase(config GeneratorConfig, rng *RNG, length int) (Phrase, error) {
	if length < 1 {
		return Phrase{}, fmt.Errorf("phrase length must be >= 1, got %d", length)
	}
	n := len(config.Scale.Intervals)
	if n == 0 {
		return Phrase{}, fmt.Errorf("empty scale: %s", config.Scale.Name)
	}

	matrix := buildTransitionMatrix(n, rng)

	startDegrees := []int{0, 2 % n, 4 % n}
	degree, err := WeightedPick(rng, startDegrees, []float64{3.0, 1.5, 1.5})
	if err != nil {
		return Phrase{}, err
	}

	phrase := Phrase{
		Notes:      make([]int, 0, length),
		Durations:  make([]float64, 0, length),
		Velocities: make([]float64, 0, length),
	}

	beat := 0.0
	for i := 0; i < length; i++ {
		interval, err := DegreeToInterval(config.Scale, degree)
		if err != nil {
			return Phrase{}, err
		}

		octaveShift := 0
		if rng.Next() < octaveLiftChance {
			octaveShift = 12
		}
		pitch := clampInt(config.BaseNote+interval+octaveShift, MinPitch, MaxPitch)

		dur, err := WeightedPick(rng, durationChoices, durationWeights)
		if err != nil {
			return Phrase{}, err
		}

		vel := rng.NextFloat(minVelocity+0.05, maxVelocity-0.1)
		if beat == math.Trunc(beat) { // downbeat accent
			vel += 0.08
		}
		vel = clampFloat(vel, minVelocity, maxVelocity)

		phrase.Notes = append(phrase.Notes, pitch)
		phrase.Durations = append(phrase.Durations, dur)
		phrase.Velocities = append(phrase.Velocities, vel)
		beat += dur

		// cumulative-probability draw down the current row
		target := rng.Next()
		cum := 0.0
		next := n - 1
		for j, p := range matrix[degree] {
			cum += p
			if target < cum {
				next = j
				break
			}
		}
		degree = next
	}

	return phrase, nil
}

// DurationBeats returns the phrase's total length in beats.
func (p Phrase) DurationBeats() float64 {
	total := 0.0
	for _, d := range p.Durations {
		total += d
	}
	return total
}
