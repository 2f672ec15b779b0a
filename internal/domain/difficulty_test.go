package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextDifficulty_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		current Difficulty
		rating  float64
		want    Difficulty
	}{
		{"step up from easy", DifficultyEasy, 8.0, DifficultyMedium},
		{"step up from medium", DifficultyMedium, 7.01, DifficultyHard},
		{"ceiling no-op", DifficultyHard, 9.0, DifficultyHard},
		{"step down from hard", DifficultyHard, 2.0, DifficultyMedium},
		{"step down from medium", DifficultyMedium, 3.99, DifficultyEasy},
		{"floor no-op", DifficultyEasy, 2.0, DifficultyEasy},
		{"neutral band middle", DifficultyMedium, 5.5, DifficultyMedium},
		{"neutral band lower bound inclusive", DifficultyMedium, 4.0, DifficultyMedium},
		{"neutral band upper bound inclusive", DifficultyMedium, 7.0, DifficultyMedium},
		{"perfect score at hard stays", DifficultyHard, 10.0, DifficultyHard},
		{"minimum score at easy stays", DifficultyEasy, 1.0, DifficultyEasy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextDifficulty(tt.current, tt.rating))
		})
	}
}

func TestNextDifficulty_Pure(t *testing.T) {
	// Same inputs always produce the same output, with no state between calls.
	for i := 0; i < 3; i++ {
		assert.Equal(t, DifficultyMedium, NextDifficulty(DifficultyEasy, 8.2))
	}
}

func TestDifficulty_Valid(t *testing.T) {
	assert.True(t, DifficultyEasy.Valid())
	assert.True(t, DifficultyMedium.Valid())
	assert.True(t, DifficultyHard.Valid())
	assert.False(t, Difficulty("Extreme").Valid())
	assert.False(t, Difficulty("").Valid())
}
