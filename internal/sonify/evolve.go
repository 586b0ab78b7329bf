package sonify

import (
	"fmt"
	"math"
	"sort"
)

// Genetic refinement of Markov-generated phrases. The plain walk already
// produces a playable phrase; evolution trades a few fixed generations for a
// smoother contour.
const (
	populationSize = 12
	generations    = 8

	tournamentSize  = 3
	crossoverChance = 0.7
	eliteCount      = 2

	mutateDegreeChance   = 0.12
	mutateDurationChance = 0.1
	mutateVelocityChance = 0.1
)

// Fitness weights, in order of importance: stepwise motion first, then
// interval consonance, contour balance, rhythmic variety, dynamic range.
const (
	weightStepwise   = 3.0
	weightConsonance = 2.5
	weightContour    = 1.5
	weightRhythm     = 1.0
	weightDynamics   = 0.75
	stableEndBonus   = 1.5
)

// PhraseFitness scores a phrase against the config's scale. Higher is better.
func PhraseFitness(config GeneratorConfig, p Phrase) float64 {
	n := len(p.Notes)
	if n < 2 {
		return 0
	}

	stepwise := 0.0
	consonance := 0.0
	directionChanges := 0
	lastDir := 0
	for i := 1; i < n; i++ {
		leap := p.Notes[i] - p.Notes[i-1]
		abs := leap
		if abs < 0 {
			abs = -abs
		}
		if abs <= 2 {
			stepwise++
		}
		consonance += Consonance(p.Notes[i], p.Notes[i-1])

		dir := 0
		if leap > 0 {
			dir = 1
		} else if leap < 0 {
			dir = -1
		}
		if dir != 0 && lastDir != 0 && dir != lastDir {
			directionChanges++
		}
		if dir != 0 {
			lastDir = dir
		}
	}

	score := weightStepwise * (stepwise / float64(n-1))
	score += weightConsonance * (consonance / float64(n-1))

	// Contour: too static and too jagged both penalized; reward a band of
	// moderate direction changes.
	changeRatio := float64(directionChanges) / float64(n-1)
	contour := 1.0 - math.Abs(changeRatio-0.4)/0.4
	score += weightContour * clampFloat(contour, 0, 1)

	// Rhythmic variety: distinct duration values used.
	distinct := map[float64]bool{}
	for _, d := range p.Durations {
		distinct[d] = true
	}
	score += weightRhythm * float64(len(distinct)) / float64(len(durationChoices))

	// Dynamic range.
	minV, maxV := 1.0, 0.0
	for _, v := range p.Velocities {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	score += weightDynamics * (maxV - minV) / (maxVelocity - minVelocity)

	// Terminal bonus: end on a stable degree (root, third, or fifth).
	if isStablePitch(config, p.Notes[n-1]) {
		score += stableEndBonus
	}

	return score
}

func isStablePitch(config GeneratorConfig, pitch int) bool {
	scale := config.Scale
	for _, deg := range []int{0, 2, 4} {
		iv, err := DegreeToInterval(scale, deg%len(scale.Intervals))
		if err != nil {
			return false
		}
		if ((pitch-config.BaseNote)%12+12)%12 == iv%12 {
			return true
		}
	}
	return false
}

// EvolvePhrase runs the genetic refinement: seeds a population with the
// Markov generator, applies tournament selection, single-point crossover,
// per-note mutation and top-2 elitism for a fixed number of generations, and
// returns the best individual.
func EvolvePhrase(config GeneratorConfig, rng *RNG, length int) (Phrase, error) {
	population := make([]Phrase, 0, populationSize)
	for i := 0; i < populationSize; i++ {
		p, err := GeneratePhrase(config, rng, length)
		if err != nil {
			return Phrase{}, err
		}
		p.Fitness = PhraseFitness(config, p)
		population = append(population, p)
	}

	for gen := 0; gen < generations; gen++ {
		sort.SliceStable(population, func(i, j int) bool {
			return population[i].Fitness > population[j].Fitness
		})

		next := make([]Phrase, 0, populationSize)
		for i := 0; i < eliteCount && i < len(population); i++ {
			next = append(next, population[i].Copy())
		}

		for len(next) < populationSize {
			parentA := tournament(population, rng)
			parentB := tournament(population, rng)

			var child Phrase
			if rng.Next() < crossoverChance {
				child = crossover(parentA, parentB, rng)
			} else {
				child = parentA.Copy()
			}
			mutate(config, &child, rng)
			child.Fitness = PhraseFitness(config, child)
			next = append(next, child)
		}
		population = next
	}

	best := population[0]
	for _, p := range population[1:] {
		if p.Fitness > best.Fitness {
			best = p
		}
	}
	if len(best.Notes) == 0 {
		return Phrase{}, fmt.Errorf("evolution produced an empty phrase")
	}
	return best, nil
}

// tournament samples tournamentSize candidates and keeps the fittest.
func tournament(population []Phrase, rng *RNG) Phrase {
	best := population[rng.NextInt(0, len(population)-1)]
	for i := 1; i < tournamentSize; i++ {
		c := population[rng.NextInt(0, len(population)-1)]
		if c.Fitness > best.Fitness {
			best = c
		}
	}
	return best
}

// crossover splices two parents at a single point. Both children would be
// valid; we keep one.
func crossover(a, b Phrase, rng *RNG) Phrase {
	n := len(a.Notes)
	if len(b.Notes) < n {
		n = len(b.Notes)
	}
	if n < 2 {
		return a.Copy()
	}
	point := rng.NextInt(1, n-1)

	child := Phrase{
		Notes:      make([]int, n),
		Durations:  make([]float64, n),
		Velocities: make([]float64, n),
	}
	copy(child.Notes[:point], a.Notes[:point])
	copy(child.Durations[:point], a.Durations[:point])
	copy(child.Velocities[:point], a.Velocities[:point])
	copy(child.Notes[point:], b.Notes[point:n])
	copy(child.Durations[point:], b.Durations[point:n])
	copy(child.Velocities[point:], b.Velocities[point:n])
	return child
}

// mutate applies the three per-note mutations, each with its own probability:
// nudge to an adjacent scale degree, re-roll duration, nudge velocity.
func mutate(config GeneratorConfig, p *Phrase, rng *RNG) {
	for i := range p.Notes {
		if rng.Next() < mutateDegreeChance {
			dir := 1
			if rng.Next() < 0.5 {
				dir = -1
			}
			p.Notes[i] = adjacentScalePitch(config, p.Notes[i], dir)
		}
		if rng.Next() < mutateDurationChance {
			if d, err := WeightedPick(rng, durationChoices, durationWeights); err == nil {
				p.Durations[i] = d
			}
		}
		if rng.Next() < mutateVelocityChance {
			p.Velocities[i] = clampFloat(p.Velocities[i]+rng.NextFloat(-0.08, 0.08), minVelocity, maxVelocity)
		}
	}
}

// adjacentScalePitch moves a pitch to the next scale member above or below,
// staying inside the safe register.
func adjacentScalePitch(config GeneratorConfig, pitch, dir int) int {
	for step := 1; step <= 12; step++ {
		candidate := pitch + dir*step
		if candidate < MinPitch || candidate > MaxPitch {
			return pitch
		}
		if inScale(config, candidate) {
			return candidate
		}
	}
	return pitch
}

func inScale(config GeneratorConfig, pitch int) bool {
	pc := ((pitch-config.BaseNote)%12 + 12) % 12
	for _, iv := range config.Scale.Intervals {
		if pc == iv%12 {
			return true
		}
	}
	return false
}
