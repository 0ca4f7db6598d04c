// internal/words/generator.go
//
// Themed word generation.
//
// A Generator tops a theme's base words up to a full pool. Two
// implementations:
//   - ClaudeGenerator: asks the Anthropic messages API for theme words,
//     filtered to single uppercase tokens. Any API trouble degrades to the
//     theme's base words so game creation never blocks on the network.
//   - StaticGenerator: base words only, used when no API key is configured
//     and as the test double.

package words

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tarunjain15/codenames-local/internal/game"
)

// Generator supplies words for a theme, avoiding an exclude list.
type Generator interface {
	GenerateWords(ctx context.Context, theme Theme, exclude []string, count int) ([]string, error)
}

// StaticGenerator returns only the theme's predefined base words.
type StaticGenerator struct{}

// GenerateWords filters the theme's base words against exclude and returns
// up to count of them.
func (StaticGenerator) GenerateWords(_ context.Context, theme Theme, exclude []string, count int) ([]string, error) {
	used := make(map[string]struct{}, len(exclude))
	for _, w := range game.NormalizePool(exclude) {
		used[w] = struct{}{}
	}
	var out []string
	for _, w := range game.NormalizePool(theme.BaseWords) {
		if _, dup := used[w]; dup {
			continue
		}
		out = append(out, w)
		if len(out) == count {
			break
		}
	}
	return out, nil
}

const (
	anthropicURL     = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
	anthropicModel   = "claude-3-haiku-20240307"
)

// ClaudeGenerator generates theme words via the Anthropic messages API.
type ClaudeGenerator struct {
	APIKey string
	// BaseURL overrides the API endpoint; tests point it at a local server.
	BaseURL string
	Client  *http.Client
}

// NewClaudeGenerator builds a generator with a bounded HTTP client.
func NewClaudeGenerator(apiKey string) *ClaudeGenerator {
	return &ClaudeGenerator{
		APIKey: apiKey,
		Client: &http.Client{Timeout: 20 * time.Second},
	}
}

// GenerateWords prompts the model for count theme words and parses one word
// per response line. Falls back to the theme's base words on any failure.
func (g *ClaudeGenerator) GenerateWords(ctx context.Context, theme Theme, exclude []string, count int) ([]string, error) {
	if g.APIKey == "" {
		return StaticGenerator{}.GenerateWords(ctx, theme, exclude, count)
	}

	words, err := g.requestWords(ctx, theme, exclude, count)
	if err != nil {
		log.Warn().Err(err).Str("theme", theme.ID).Msg("AI word generation failed, using base words")
		return StaticGenerator{}.GenerateWords(ctx, theme, exclude, count)
	}
	return words, nil
}

func (g *ClaudeGenerator) requestWords(ctx context.Context, theme Theme, exclude []string, count int) ([]string, error) {
	prompt := buildPrompt(theme, exclude, count)

	body, _ := json.Marshal(map[string]any{
		"model":      anthropicModel,
		"max_tokens": 300,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	})

	url := g.BaseURL
	if url == "" {
		url = anthropicURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", g.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	client := g.Client
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anthropic API status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Content) == 0 {
		return nil, fmt.Errorf("anthropic API returned no content")
	}

	var out []string
	for _, line := range strings.Split(parsed.Content[0].Text, "\n") {
		w := strings.ToUpper(strings.TrimSpace(line))
		if w == "" || strings.Contains(w, " ") {
			continue
		}
		out = append(out, w)
		if len(out) == count {
			break
		}
	}
	return game.NormalizePool(out), nil
}

// buildPrompt composes the generation prompt: the theme's own prompt plus
// the qualities that make a word work on a Codenames board.
func buildPrompt(theme Theme, exclude []string, count int) string {
	var b strings.Builder
	b.WriteString(theme.AIPrompt)
	b.WriteString("\n\nIMPORTANT: These words are for the board game Codenames. Good Codenames words have these qualities:\n")
	b.WriteString("- Multiple meanings or associations\n")
	b.WriteString("- Not too similar to other words in the set\n")
	b.WriteString("- Can be connected in creative, non-obvious ways\n")
	b.WriteString("- Familiar to the target audience\n")
	b.WriteString("- Mix of concrete and abstract concepts\n")
	fmt.Fprintf(&b, "\nRequirements:\n- Generate exactly %d words\n- Single words only (no phrases)\n- All UPPERCASE\n", count)
	if len(exclude) > 0 {
		fmt.Fprintf(&b, "- Avoid these already used words: %s\n", strings.Join(exclude, ", "))
	}
	fmt.Fprintf(&b, "- Words should be recognizable and relevant to: %s\n", theme.Description)
	b.WriteString("\nReturn only the words, one per line, no numbers or explanations.")
	return b.String()
}
