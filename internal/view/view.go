// internal/view/view.go
//
// View projection for game state.
// Responsibilities:
//   - Public(g): the player-safe projection. Unrevealed tiles have their
//     owner stripped; revealed tiles keep it (ownership becomes public the
//     moment a tile is flipped). This is the ONLY representation sent to
//     non-spymaster consumers or broadcast over the notification channel.
//   - Spymaster(g, team): the public view plus full ownership for every
//     tile and the requesting team's color tag.
//   - ValidateSpymasterAccess: exact-match check of the presented key
//     against the team's stored secret, in constant time.
//
// The projector itself performs no authorization; callers must validate
// access before building a spymaster view.

package view

import (
	"crypto/subtle"
	"errors"

	"github.com/tarunjain15/codenames-local/internal/game"
)

// ErrInvalidAccessKey: a spymaster view was requested with a key that does
// not match the team's stored secret.
var ErrInvalidAccessKey = errors.New("invalid spymaster key")

// Score is per-team cards found so far (starting count minus remaining).
type Score struct {
	Red  int `json:"RED"`
	Blue int `json:"BLUE"`
}

// Public is the player-safe projection of a game.
type Public struct {
	ID          string         `json:"id"`
	Status      game.Status    `json:"status"`
	Words       [][]game.Tile  `json:"words"`
	CurrentTeam game.TeamColor `json:"currentTeam"`
	Score       Score          `json:"score"`
	LastClue    *game.Clue     `json:"lastClue,omitempty"`
	Winner      game.TeamColor `json:"winner,omitempty"`
}

// Spymaster is the full-visibility projection for one team's spymaster.
type Spymaster struct {
	Public
	TeamColor game.TeamColor `json:"teamColor"`
}

// PublicView derives the player-safe view from g. The board is deep-copied;
// mutating the view never touches the authoritative state.
func PublicView(g *game.Game) Public {
	words := copyBoard(g, false)
	return Public{
		ID:          g.ID,
		Status:      g.Status,
		Words:       words,
		CurrentTeam: g.CurrentTeam,
		Score: Score{
			Red:  g.Teams[game.Red].StartingCards - g.Teams[game.Red].RemainingCards,
			Blue: g.Teams[game.Blue].StartingCards - g.Teams[game.Blue].RemainingCards,
		},
		LastClue: g.LastClue(),
		Winner:   g.Winner,
	}
}

// SpymasterView derives the full-ownership view for team. Call
// ValidateSpymasterAccess first.
func SpymasterView(g *game.Game, team game.TeamColor) Spymaster {
	v := PublicView(g)
	v.Words = copyBoard(g, true)
	return Spymaster{Public: v, TeamColor: team}
}

// ValidateSpymasterAccess reports whether key matches the stored spymaster
// secret for team. The comparison is constant-time.
func ValidateSpymasterAccess(g *game.Game, team game.TeamColor, key string) bool {
	t, ok := g.Teams[team]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(t.SpymasterKey), []byte(key)) == 1
}

// copyBoard clones the grid. With withOwners false, owners of unrevealed
// tiles are blanked so they serialize away.
func copyBoard(g *game.Game, withOwners bool) [][]game.Tile {
	out := make([][]game.Tile, len(g.Board))
	for r, row := range g.Board {
		out[r] = make([]game.Tile, len(row))
		copy(out[r], row)
		if withOwners {
			continue
		}
		for c := range out[r] {
			if !out[r][c].Revealed {
				out[r][c].Owner = ""
			}
		}
	}
	return out
}
