// internal/words/themes.go
//
// Theme catalog for themed boards. Each theme carries a set of starter
// words and a prompt the AI generator can use to top the pool up to a full
// board. Base words are sanitized the same way as every other pool.

package words

import "github.com/tarunjain15/codenames-local/internal/game"

// Theme describes one themed word source.
type Theme struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	BaseWords   []string `json:"baseWords,omitempty"`
	AIPrompt    string   `json:"-"`
}

var themes = []Theme{
	{
		ID:          "family",
		Name:        "North Indian Jain Family",
		Description: "North Indian Jain family culture with love for vegetarian food, kids, music, TV shows, and movies",
		AIPrompt:    "Generate words related to North Indian Jain family life including: Jain vegetarian dishes (no onion/garlic), Bollywood movies/actors, Indian festivals, family relationships, household items, TV shows, music, cultural traditions. Mix Hindi/cultural words with English. Words should be familiar to all ages.",
		BaseWords: []string{
			"PANEER", "DOSA", "ROTI", "SAMOSA", "MITHAI", "LASSI", "CHAI",
			"DIWALI", "HOLI", "NAVRATRI", "FAMILY", "TEMPLE", "PUJA", "AARTI",
		},
	},
	{
		ID:          "python-typescript",
		Name:        "Python & TypeScript",
		Description: "Programming concepts, tools, and patterns specific to Python and TypeScript development",
		AIPrompt:    "Generate words related to Python and TypeScript programming including: language features, frameworks, design patterns, development tools, and programming concepts.",
		BaseWords: []string{
			"PYTHON", "TYPESCRIPT", "ASYNC", "DECORATOR", "TYPING", "PANDAS", "NUMPY",
			"REACT", "NODE", "EXPRESS", "DJANGO", "FLASK", "INTERFACE", "CLASS",
		},
	},
	{
		ID:          "domain-driven",
		Name:        "Domain-Driven Design",
		Description: "Architecture patterns and concepts from domain-driven design and software architecture",
		AIPrompt:    "Generate words related to domain-driven design, software architecture, and system design including: DDD patterns, architectural concepts, and design principles.",
		BaseWords: []string{
			"DOMAIN", "AGGREGATE", "ENTITY", "REPOSITORY", "SERVICE", "FACTORY",
			"BOUNDED", "CONTEXT", "EVENT", "COMMAND", "QUERY", "SAGA",
		},
	},
	{
		ID:          "shell-cli",
		Name:        "Shell Scripts & CLI",
		Description: "Command line tools, shell scripting concepts, and terminal commands",
		AIPrompt:    "Generate words related to shell scripting, command line interfaces, and terminal usage including: common commands, shell concepts, and CLI tools. Focus on bash/zsh and general Unix-like systems.",
		BaseWords: []string{
			"BASH", "GREP", "PIPE", "ALIAS", "EXPORT", "SOURCE", "CHMOD",
			"CURL", "SSH", "AWK", "SED", "FIND", "ECHO", "PATH",
		},
	},
	{
		ID:          "macbook-workflow",
		Name:        "MacBook Power User",
		Description: "macOS features, productivity tools, and workflows for MacBook power users",
		AIPrompt:    "Generate words related to macOS, MacBook productivity, and Apple ecosystem including: system features, popular Mac apps, keyboard shortcuts concepts, and workflow tools.",
		BaseWords: []string{
			"FINDER", "SPOTLIGHT", "TERMINAL", "HOMEBREW", "ALFRED", "MISSION",
			"SPACES", "DOCK", "LAUNCHPAD", "AIRDROP", "HANDOFF", "SAFARI",
		},
	},
}

// Themes returns the theme catalog.
func Themes() []Theme { return themes }

// GetTheme looks up a theme by id, with base words sanitized. The second
// return is false for unknown ids.
func GetTheme(id string) (Theme, bool) {
	for _, t := range themes {
		if t.ID == id {
			t.BaseWords = game.NormalizePool(t.BaseWords)
			return t, true
		}
	}
	return Theme{}, false
}

// ThemeIDs returns the ids of all catalog themes.
func ThemeIDs() []string {
	ids := make([]string, len(themes))
	for i, t := range themes {
		ids[i] = t.ID
	}
	return ids
}
