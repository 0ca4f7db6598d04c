// internal/game/engine.go
//
// Core game engine for a single Codenames session.
// Responsibilities:
//   - Create new games: draw 25 words, assign hidden owners (9/8/7/1 split),
//     shuffle words and owners independently, pair them into a 5×5 grid.
//   - Apply reveals: scoring, turn switching, win/loss detection.
//   - Append clues to the audit history.
//
// Notes:
//   - Word pools are normalized (trim/uppercase/dedupe) before drawing.
//   - randomID()/randomKey() use crypto/rand; the board shuffles use
//     math/rand, the only non-determinism in board generation.
//   - Mutations either complete fully or fail validation with the state
//     unchanged; callers persist and re-broadcast on success.

package game

import (
	"crypto/rand"
	"encoding/hex"
	mrand "math/rand"
	"strings"
	"time"
)

const (
	// GridSize is the board edge length; the board is always GridSize².
	GridSize = 5

	firstTeamCards  = 9
	secondTeamCards = 8
	neutralCards    = 7
	assassinCards   = 1

	// BoardWords is the number of words a game consumes.
	BoardWords = GridSize * GridSize
)

// Option adjusts game creation; used by callers that need a fixed
// starting team (tests, rematches).
type Option func(*settings)

type settings struct {
	startingTeam TeamColor
}

// WithStartingTeam forces the starting team instead of flipping a coin.
func WithStartingTeam(c TeamColor) Option {
	return func(s *settings) { s.startingTeam = c }
}

// New constructs a game from a word pool.
// The pool is normalized first; fewer than 25 unique words is an
// ErrInsufficientWords. The starting team gets 9 cards, the other 8.
func New(pool []string, opts ...Option) (*Game, error) {
	var s settings
	for _, o := range opts {
		o(&s)
	}

	words := NormalizePool(pool)
	if len(words) < BoardWords {
		return nil, ErrInsufficientWords
	}

	starting := s.startingTeam
	if !starting.Valid() {
		starting = Red
		if mrand.Intn(2) == 0 {
			starting = Blue
		}
	}

	// Draw 25 without replacement, then shuffle owner labels independently
	// of the word order before pairing positionally.
	mrand.Shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })
	selected := words[:BoardWords]
	owners := ownerDeck(starting)
	mrand.Shuffle(len(owners), func(i, j int) { owners[i], owners[j] = owners[j], owners[i] })

	board := make([][]Tile, GridSize)
	for row := 0; row < GridSize; row++ {
		board[row] = make([]Tile, GridSize)
		for col := 0; col < GridSize; col++ {
			i := row*GridSize + col
			board[row][col] = Tile{
				Text:     selected[i],
				Position: Position{Row: row, Col: col},
				Owner:    owners[i],
			}
		}
	}

	now := time.Now().UTC()
	g := &Game{
		ID:          randomID(),
		Status:      StatusWaiting,
		Board:       board,
		CurrentTeam: starting,
		Teams: map[TeamColor]*Team{
			Red:  newTeam(Red, starting),
			Blue: newTeam(Blue, starting),
		},
		ClueHistory: []Clue{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return g, nil
}

// newTeam builds the initial per-team state for color, given the team that
// opens the game.
func newTeam(color, starting TeamColor) *Team {
	cards := secondTeamCards
	if color == starting {
		cards = firstTeamCards
	}
	return &Team{
		Color:          color,
		RemainingCards: cards,
		StartingCards:  cards,
		SpymasterKey:   randomKey(),
	}
}

// ownerDeck builds the unshuffled owner multiset: 9 for the starting team,
// 8 for the other, 7 neutral, 1 assassin.
func ownerDeck(starting TeamColor) []Owner {
	deck := make([]Owner, 0, BoardWords)
	for i := 0; i < firstTeamCards; i++ {
		deck = append(deck, Owner(starting))
	}
	for i := 0; i < secondTeamCards; i++ {
		deck = append(deck, Owner(starting.Other()))
	}
	for i := 0; i < neutralCards; i++ {
		deck = append(deck, OwnerNeutral)
	}
	for i := 0; i < assassinCards; i++ {
		deck = append(deck, OwnerAssassin)
	}
	return deck
}

// NormalizePool trims, uppercases, and de-duplicates a word pool, dropping
// empties. Order of first occurrence is preserved.
func NormalizePool(pool []string) []string {
	seen := make(map[string]struct{}, len(pool))
	out := make([]string, 0, len(pool))
	for _, w := range pool {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Reveal flips the tile at pos and applies scoring and turn transitions.
//
// Rules:
//   - Team tile: that team's remaining count drops by one. Reaching zero
//     finishes the game with that team as winner and keeps the turn as-is.
//     Otherwise the turn flips only when the tile did not belong to the
//     guessing team.
//   - Neutral tile: the turn always flips.
//   - Assassin tile: the guessing team loses immediately.
//
// The first successful reveal moves a WAITING game to IN_PROGRESS.
// Validation failures leave the state untouched.
func (g *Game) Reveal(pos Position) error {
	if g.Finished() {
		return ErrGameFinished
	}
	if pos.Row < 0 || pos.Row >= GridSize || pos.Col < 0 || pos.Col >= GridSize {
		return ErrInvalidPosition
	}
	tile := &g.Board[pos.Row][pos.Col]
	if tile.Revealed {
		return ErrAlreadyRevealed
	}

	tile.Revealed = true
	if g.Status == StatusWaiting {
		g.Status = StatusInProgress
	}
	g.UpdatedAt = time.Now().UTC()

	switch tile.Owner {
	case OwnerRed, OwnerBlue:
		team := g.Teams[TeamColor(tile.Owner)]
		team.RemainingCards--
		if team.RemainingCards == 0 {
			g.Winner = team.Color
			g.Status = StatusFinished
			return nil
		}
		if TeamColor(tile.Owner) != g.CurrentTeam {
			g.CurrentTeam = g.CurrentTeam.Other()
		}
	case OwnerNeutral:
		g.CurrentTeam = g.CurrentTeam.Other()
	case OwnerAssassin:
		g.Winner = g.CurrentTeam.Other()
		g.Status = StatusFinished
	}
	return nil
}

// AddClue appends a clue with a server-generated timestamp. Beyond the team
// color being RED or BLUE no legality checks are applied; the history is a
// plain audit log.
func (g *Game) AddClue(word string, count int, team TeamColor) error {
	if g.Finished() {
		return ErrGameFinished
	}
	if !team.Valid() {
		return ErrInvalidTeam
	}
	g.ClueHistory = append(g.ClueHistory, Clue{
		Word:      word,
		Count:     count,
		Team:      team,
		Timestamp: time.Now().UTC(),
	})
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// randomID returns a compact 16-hex-char game identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// randomKey returns a 20-hex-char spymaster access key.
func randomKey() string {
	var b [10]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
