// internal/words/words.go
//
// Word list acquisition for the board generator.
//
// Responsibilities:
//   - Serve the embedded default Codenames list.
//   - Load named lists from $WORD_LISTS_DIR/<name>.txt (one word per line,
//     trimmed and uppercased), falling back to the default list when a
//     named list is missing or too small to fill a board.
//
// Lists returned here are pools, not boards: the game engine re-normalizes
// and draws 25 from whatever it is given.

package words

import (
	"bufio"
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tarunjain15/codenames-local/internal/game"
)

//go:embed default_words.txt
var embeddedDefault string

// DefaultListName selects the embedded list.
const DefaultListName = "default"

// defaultDir is used when WORD_LISTS_DIR is unset.
const defaultDir = "data/words"

// Default returns the embedded default word pool.
func Default() []string {
	return game.NormalizePool(strings.Split(embeddedDefault, "\n"))
}

// Load returns the pool for a named list. Unknown or undersized lists fall
// back to the default pool; the caller always gets something playable.
func Load(name string) []string {
	if name == "" || name == DefaultListName {
		return Default()
	}

	dir := os.Getenv("WORD_LISTS_DIR")
	if dir == "" {
		dir = defaultDir
	}
	pool, err := readWordFile(filepath.Join(dir, name+".txt"))
	if err != nil {
		log.Warn().Err(err).Str("list", name).Msg("word list unavailable, using default")
		return Default()
	}
	if len(pool) < game.BoardWords {
		log.Warn().Str("list", name).Int("words", len(pool)).Msg("word list too small, using default")
		return Default()
	}
	return pool
}

// readWordFile loads one word per line, trimmed and uppercased, skipping
// blanks and #-comments.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.ToUpper(strings.TrimSpace(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		out = append(out, w)
	}
	return game.NormalizePool(out), sc.Err()
}
