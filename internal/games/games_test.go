package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Dota 2", "dota 2"},
		{"strips diacritics", "Pokémon", "pokemon"},
		{"strips symbols", "Counter-Strike: Global Offensive", "counter strike global offensive"},
		{"collapses whitespace", "  Half   Life\t2 ", "half life 2"},
		{"trademark runes", "Sid Meier's Civilization® VI", "sid meier s civilization vi"},
		{"empty", "", ""},
		{"symbols only", "™®©", ""},
		{"whitespace only", "   ", ""},
		{"digits survive", "FIFA 23", "fifa 23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNewPopulatesNormalized(t *testing.T) {
	g := New(570, "Dota 2")
	assert.Equal(t, 570, g.ID)
	assert.Equal(t, "Dota 2", g.Name)
	assert.Equal(t, "dota 2", g.Normalized)
}
