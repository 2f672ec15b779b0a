package domain

// difficultyOrder lists levels from easiest to hardest.
var difficultyOrder = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// NextDifficulty applies the adaptive-difficulty step function.
// Ratings above 7.0 step up one level, ratings below 4.0 step down one level,
// and the neutral band [4.0, 7.0] keeps the current level. Steps saturate at
// Easy and Hard. Deterministic; no error conditions.
func NextDifficulty(current Difficulty, rating float64) Difficulty {
	idx := 0
	for i, d := range difficultyOrder {
		if d == current {
			idx = i
			break
		}
	}
	switch {
	case rating > 7.0:
		if idx < len(difficultyOrder)-1 {
			idx++
		}
	case rating < 4.0:
		if idx > 0 {
			idx--
		}
	}
	return difficultyOrder[idx]
}
