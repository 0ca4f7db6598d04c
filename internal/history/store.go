// internal/history/store.go
//
// Durable game history on SQLite. The in-memory store owns live state;
// this package records outcomes so a restarted server can still show what
// was played. All writes are best-effort from the handlers' point of view:
// a failed history write is logged, never surfaced to the client.

package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/tarunjain15/codenames-local/internal/game"
)

// Row is one recorded game.
type Row struct {
	ID           string `json:"id"`
	StartingTeam string `json:"startingTeam"`
	WordList     string `json:"wordList"`
	Status       string `json:"status"`
	Winner       string `json:"winner,omitempty"`
	Reveals      int    `json:"reveals"`
	Clues        int    `json:"clues"`
	CreatedAt    string `json:"createdAt"`
	FinishedAt   string `json:"finishedAt,omitempty"`
}

// Store wraps the games table.
type Store struct{ db *sql.DB }

// NewStore builds a history store over db.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// RecordCreated inserts the row for a freshly created game.
func (s *Store) RecordCreated(ctx context.Context, g *game.Game, wordList string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO games(id, starting_team, word_list, status, created_at)
		 VALUES(?,?,?,?,?)`,
		g.ID, string(g.CurrentTeam), wordList, string(g.Status),
		g.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// RecordReveal bumps the reveal counter and mirrors status/winner. Called
// after every successful reveal, including the finishing one.
func (s *Store) RecordReveal(ctx context.Context, g *game.Game) error {
	if g.Finished() {
		_, err := s.db.ExecContext(ctx,
			`UPDATE games SET reveals = reveals + 1, status=?, winner=?, finished_at=? WHERE id=?`,
			string(g.Status), string(g.Winner),
			g.UpdatedAt.Format(time.RFC3339), g.ID,
		)
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE games SET reveals = reveals + 1, status=? WHERE id=?`,
		string(g.Status), g.ID,
	)
	return err
}

// RecordClue bumps the clue counter.
func (s *Store) RecordClue(ctx context.Context, g *game.Game) error {
	_, err := s.db.ExecContext(ctx, `UPDATE games SET clues = clues + 1 WHERE id=?`, g.ID)
	return err
}

// Recent returns the latest recorded games, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, starting_team, word_list, status, COALESCE(winner,''),
		        reveals, clues, created_at, COALESCE(finished_at,'')
		 FROM games ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.StartingTeam, &r.WordList, &r.Status, &r.Winner,
			&r.Reveals, &r.Clues, &r.CreatedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
