package view

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarunjain15/codenames-local/internal/game"
)

func newGame(t *testing.T) *game.Game {
	t.Helper()
	pool := make([]string, 30)
	for i := range pool {
		pool[i] = fmt.Sprintf("WORD%02d", i)
	}
	g, err := game.New(pool, game.WithStartingTeam(game.Red))
	require.NoError(t, err)
	return g
}

func revealOne(t *testing.T, g *game.Game, owner game.Owner) game.Position {
	t.Helper()
	for _, row := range g.Board {
		for _, tile := range row {
			if tile.Owner == owner && !tile.Revealed {
				require.NoError(t, g.Reveal(tile.Position))
				return tile.Position
			}
		}
	}
	t.Fatalf("no unrevealed %s tile", owner)
	return game.Position{}
}

func TestPublicView_StripsUnrevealedOwners(t *testing.T) {
	g := newGame(t)
	pos := revealOne(t, g, game.OwnerRed)

	v := PublicView(g)
	for _, row := range v.Words {
		for _, tile := range row {
			if tile.Revealed {
				assert.NotEmpty(t, tile.Owner, "revealed ownership is public")
			} else {
				assert.Empty(t, tile.Owner, "unrevealed ownership must not leak")
			}
		}
	}
	assert.True(t, v.Words[pos.Row][pos.Col].Revealed)
	assert.Equal(t, game.OwnerRed, v.Words[pos.Row][pos.Col].Owner)
}

func TestPublicView_SerializationLeaksNothing(t *testing.T) {
	g := newGame(t)
	revealOne(t, g, game.OwnerNeutral)

	raw, err := json.Marshal(PublicView(g))
	require.NoError(t, err)
	body := string(raw)

	// One revealed neutral tile: exactly one belongsTo field on the wire.
	assert.Equal(t, 1, strings.Count(body, `"belongsTo"`))
	assert.NotContains(t, body, `"ASSASSIN"`)
	assert.NotContains(t, body, g.Teams[game.Red].SpymasterKey)
	assert.NotContains(t, body, g.Teams[game.Blue].SpymasterKey)
}

func TestPublicView_ScoreAndClue(t *testing.T) {
	g := newGame(t)

	v := PublicView(g)
	assert.Equal(t, 0, v.Score.Red)
	assert.Equal(t, 0, v.Score.Blue)
	assert.Nil(t, v.LastClue)
	assert.Empty(t, v.Winner)

	require.NoError(t, g.AddClue("OCEAN", 2, game.Red))
	revealOne(t, g, game.OwnerRed)
	revealOne(t, g, game.OwnerBlue)

	v = PublicView(g)
	assert.Equal(t, 1, v.Score.Red, "score is cards found, not remaining")
	assert.Equal(t, 1, v.Score.Blue)
	require.NotNil(t, v.LastClue)
	assert.Equal(t, "OCEAN", v.LastClue.Word)
}

func TestPublicView_DeepCopies(t *testing.T) {
	g := newGame(t)
	v := PublicView(g)
	v.Words[0][0].Text = "TAMPERED"
	v.Words[0][0].Revealed = true
	assert.NotEqual(t, "TAMPERED", g.Board[0][0].Text)
	assert.False(t, g.Board[0][0].Revealed)
}

func TestSpymasterView_FullOwnership(t *testing.T) {
	g := newGame(t)
	v := SpymasterView(g, game.Blue)

	assert.Equal(t, game.Blue, v.TeamColor)
	counts := map[game.Owner]int{}
	for _, row := range v.Words {
		for _, tile := range row {
			assert.NotEmpty(t, tile.Owner, "spymaster sees every owner")
			counts[tile.Owner]++
		}
	}
	assert.Equal(t, 9, counts[game.OwnerRed])
	assert.Equal(t, 8, counts[game.OwnerBlue])
	assert.Equal(t, 7, counts[game.OwnerNeutral])
	assert.Equal(t, 1, counts[game.OwnerAssassin])
}

func TestValidateSpymasterAccess(t *testing.T) {
	g := newGame(t)
	redKey := g.Teams[game.Red].SpymasterKey

	tests := []struct {
		name string
		team game.TeamColor
		key  string
		want bool
	}{
		{name: "exact match", team: game.Red, key: redKey, want: true},
		{name: "other team's key", team: game.Blue, key: redKey, want: false},
		{name: "one char off", team: game.Red, key: redKey[:len(redKey)-1] + "!", want: false},
		{name: "truncated", team: game.Red, key: redKey[:len(redKey)-1], want: false},
		{name: "empty", team: game.Red, key: "", want: false},
		{name: "unknown team", team: game.TeamColor("GREEN"), key: redKey, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSpymasterAccess(g, tt.team, tt.key))
		})
	}
}
