// internal/game/types.go
//
// Core type definitions for the Codenames game engine.
// Defines:
//   - TeamColor: the two guessing teams (RED/BLUE).
//   - Owner: hidden affiliation of a board tile (team, neutral, assassin).
//   - Status: lifecycle of a game (waiting → in progress → finished).
//   - Tile / Position: one cell of the 5×5 board.
//   - Team, Clue, Game: the aggregate state for a single game session.

package game

import "time"

// TeamColor identifies one of the two guessing teams.
type TeamColor string

const (
	Red  TeamColor = "RED"
	Blue TeamColor = "BLUE"
)

// Other returns the opposing team color.
func (c TeamColor) Other() TeamColor {
	if c == Red {
		return Blue
	}
	return Red
}

// Valid reports whether c is one of the two playable colors.
func (c TeamColor) Valid() bool { return c == Red || c == Blue }

// Owner is the hidden affiliation of a tile.
// Possible values:
//   - "RED"/"BLUE": the tile scores for that team when revealed.
//   - "NEUTRAL":    the tile belongs to nobody; revealing it ends the turn.
//   - "ASSASSIN":   revealing it loses the game for the revealing team.
type Owner string

const (
	OwnerRed      Owner = Owner(Red)
	OwnerBlue     Owner = Owner(Blue)
	OwnerNeutral  Owner = "NEUTRAL"
	OwnerAssassin Owner = "ASSASSIN"
)

// Status is the coarse lifecycle state of a game.
type Status string

const (
	StatusWaiting    Status = "WAITING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinished   Status = "FINISHED"
)

// Position addresses one cell of the board in row-major order.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Tile is a single board cell. Owner is fixed at creation and never
// reassigned; Revealed transitions false→true exactly once.
type Tile struct {
	Text     string   `json:"text"`
	Position Position `json:"position"`
	Revealed bool     `json:"revealed"`
	Owner    Owner    `json:"belongsTo,omitempty"`
}

// Team tracks per-team game state. SpymasterKey gates the full-board view
// and is generated once at game creation; it never rotates.
type Team struct {
	Color          TeamColor `json:"color"`
	RemainingCards int       `json:"remainingCards"`
	SpymasterKey   string    `json:"-"`
	StartingCards  int       `json:"-"`
}

// Clue is one spymaster hint. The clue history is append-only and doubles
// as the audit trail of the game.
type Clue struct {
	Word      string    `json:"word"`
	Count     int       `json:"count"`
	Team      TeamColor `json:"team"`
	Timestamp time.Time `json:"timestamp"`
}

// Game holds the authoritative state of a single Codenames session.
// Exactly one copy exists per id; all client-facing representations are
// derived views (see the view package), never stored separately.
type Game struct {
	ID          string              `json:"id"`
	Status      Status              `json:"status"`
	Board       [][]Tile            `json:"words"`
	CurrentTeam TeamColor           `json:"currentTeam"`
	Teams       map[TeamColor]*Team `json:"teams"`
	ClueHistory []Clue              `json:"clueHistory"`
	Winner      TeamColor           `json:"winner,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// Finished reports whether the game has reached its terminal state.
func (g *Game) Finished() bool { return g.Status == StatusFinished }

// Clone returns a deep copy of the game. Readers work on clones taken
// under the game's lock, so a view is never projected from a
// half-applied mutation.
func (g *Game) Clone() *Game {
	out := *g
	out.Board = make([][]Tile, len(g.Board))
	for r, row := range g.Board {
		out.Board[r] = append([]Tile(nil), row...)
	}
	out.Teams = make(map[TeamColor]*Team, len(g.Teams))
	for c, t := range g.Teams {
		cp := *t
		out.Teams[c] = &cp
	}
	out.ClueHistory = append([]Clue(nil), g.ClueHistory...)
	return &out
}

// LastClue returns the most recent clue, or nil if none has been given.
func (g *Game) LastClue() *Clue {
	if len(g.ClueHistory) == 0 {
		return nil
	}
	return &g.ClueHistory[len(g.ClueHistory)-1]
}

// RevealedCount returns the number of revealed tiles across the board.
func (g *Game) RevealedCount() int {
	n := 0
	for _, row := range g.Board {
		for _, t := range row {
			if t.Revealed {
				n++
			}
		}
	}
	return n
}
