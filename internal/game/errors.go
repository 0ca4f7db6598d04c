// internal/game/errors.go
//
// Sentinel errors surfaced by the game engine. The HTTP layer maps each of
// these to a distinct client-facing status and JSON body; none of them carry
// hidden board information.

package game

import "errors"

var (
	// ErrInsufficientWords: fewer than 25 unique normalized words were
	// available; no game is created.
	ErrInsufficientWords = errors.New("need at least 25 words to create a game")

	// ErrInvalidPosition: reveal coordinates outside the 5×5 board.
	ErrInvalidPosition = errors.New("position outside the board")

	// ErrAlreadyRevealed: the targeted tile was revealed earlier.
	ErrAlreadyRevealed = errors.New("word already revealed")

	// ErrGameFinished: a mutating operation was attempted on a finished game.
	ErrGameFinished = errors.New("game already finished")

	// ErrInvalidTeam: a team value other than RED or BLUE was supplied.
	ErrInvalidTeam = errors.New("invalid team color")
)
