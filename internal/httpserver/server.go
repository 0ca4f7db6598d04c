// internal/httpserver/server.go
//
// HTTP server wiring for the Codenames backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", theme catalog.
//   - Game endpoints: create, list active, public view, spymaster view,
//     reveal, clue, QR join codes, recent history.
//   - WebSocket subscription route delegating to the ws hub.
//
// Notes:
//   - Mutations (reveal, clue) run inside store.Update, which serializes
//     them per game id; the broadcast happens inside the same critical
//     section so subscribers see updates in mutation order.
//   - Spymaster keys never appear in error payloads or the public view.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/tarunjain15/codenames-local/internal/game"
	"github.com/tarunjain15/codenames-local/internal/history"
	"github.com/tarunjain15/codenames-local/internal/store"
	"github.com/tarunjain15/codenames-local/internal/view"
	"github.com/tarunjain15/codenames-local/internal/words"
	"github.com/tarunjain15/codenames-local/internal/ws"
)

// Server bundles the router with the game store, word supply, broadcast
// hub, and the optional sqlite history.
type Server struct {
	r         *chi.Mux
	store     store.Store
	selector  *words.Selector
	generator words.Generator
	hub       *ws.Hub
	history   *history.Store // nil disables durable history
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, sel *words.Selector, gen words.Generator, hub *ws.Hub, hist *history.Store) *Server {
	s := &Server{r: chi.NewRouter(), store: st, selector: sel, generator: gen, hub: hub, history: hist}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"codenames-local","endpoints":["/health","POST /api/games","GET /api/games/{id}/public","/ws/game/{id}"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// --- game API ---
	s.r.Route("/api", func(api chi.Router) {
		api.With(chimw.Timeout(30 * time.Second)).Post("/games", s.handleCreateGame)
		api.With(chimw.Timeout(10 * time.Second)).Group(func(g chi.Router) {
			g.Get("/games", s.handleListActive)
			g.Get("/games/{id}/public", s.handlePublicView)
			g.Get("/games/{id}/spymaster/{team}/{key}", s.handleSpymasterView)
			g.Post("/games/{id}/reveal", s.handleReveal)
			g.Post("/games/{id}/clue", s.handleClue)
			g.Get("/games/{id}/qr", s.handleQR)
			g.Get("/themes", s.handleThemes)
			g.Get("/history", s.handleHistory)
		})
	})

	// --- websocket subscription ---
	s.r.Get("/ws/game/{id}", s.handleSubscribe)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Router exposes the internal router; main wraps it in an http.Server for
// graceful shutdown, and tests mount it on httptest servers.
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
// Handlers producing other types (QR PNGs, websocket upgrade) override it.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to "*" which suits LAN party play.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ create -------------------------------------

// createGameReq is the POST /api/games payload. All fields optional:
// customWords wins over theme, theme wins over wordListName.
type createGameReq struct {
	WordListName string   `json:"wordListName"`
	CustomWords  []string `json:"customWords"`
	Theme        string   `json:"theme"`
}

// createGameRes echoes what a host needs to hand out: the board URL for
// players and one secret URL per spymaster.
type createGameRes struct {
	GameID           string         `json:"gameId"`
	BoardURL         string         `json:"boardUrl"`
	RedSpymasterURL  string         `json:"redSpymasterUrl"`
	BlueSpymasterURL string         `json:"blueSpymasterUrl"`
	StartingTeam     game.TeamColor `json:"startingTeam"`
}

// handleCreateGame assembles a word pool, draws a board through the
// anti-repetition selector, and stores the new game.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	pool, listName := s.resolvePool(r.Context(), req)
	selected, err := s.selector.Select(pool, game.BoardWords)
	if err != nil {
		writeError(w, err)
		return
	}

	g, err := game.New(selected)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	if s.history != nil {
		if err := s.history.RecordCreated(r.Context(), g, listName); err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("record game creation")
		}
	}

	log.Info().Str("gameId", g.ID).Str("startingTeam", string(g.CurrentTeam)).
		Str("wordList", listName).Msg("game created")

	base := publicBaseURL()
	_ = json.NewEncoder(w).Encode(createGameRes{
		GameID:           g.ID,
		BoardURL:         base + "/board/" + g.ID,
		RedSpymasterURL:  base + "/spymaster/" + g.ID + "/RED/" + g.Teams[game.Red].SpymasterKey,
		BlueSpymasterURL: base + "/spymaster/" + g.ID + "/BLUE/" + g.Teams[game.Blue].SpymasterKey,
		StartingTeam:     g.CurrentTeam,
	})
}

// resolvePool produces the word pool for a creation request and a label
// for the history record. Themed pools that come up short are topped up
// from the default list rather than failing the request.
func (s *Server) resolvePool(ctx context.Context, req createGameReq) ([]string, string) {
	if len(req.CustomWords) > 0 {
		return req.CustomWords, "custom"
	}

	if req.Theme != "" {
		theme, ok := words.GetTheme(req.Theme)
		if !ok {
			log.Warn().Str("theme", req.Theme).Msg("unknown theme, using default list")
			return words.Default(), words.DefaultListName
		}
		pool := append([]string{}, theme.BaseWords...)
		generated, err := s.generator.GenerateWords(ctx, theme, pool, 2*game.BoardWords)
		if err != nil {
			log.Warn().Err(err).Str("theme", theme.ID).Msg("word generation failed")
		}
		pool = game.NormalizePool(append(pool, generated...))
		if len(pool) < game.BoardWords {
			log.Warn().Str("theme", theme.ID).Int("words", len(pool)).
				Msg("themed pool too small, topping up from default list")
			pool = game.NormalizePool(append(pool, words.Default()...))
		}
		return pool, "theme:" + theme.ID
	}

	name := req.WordListName
	if name == "" {
		name = words.DefaultListName
	}
	return words.Load(name), name
}

// ------------------------------ views --------------------------------------

// handleListActive returns public views of all non-finished games,
// newest first.
func (s *Server) handleListActive(w http.ResponseWriter, r *http.Request) {
	active, err := s.store.ListActive(r.Context())
	if err != nil {
		http.Error(w, `{"error":"store_error"}`, http.StatusInternalServerError)
		return
	}
	out := make([]view.Public, 0, len(active))
	for _, g := range active {
		out = append(out, view.PublicView(g))
	}
	_ = json.NewEncoder(w).Encode(out)
}

// handlePublicView returns the player-safe view of one game.
func (s *Server) handlePublicView(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(view.PublicView(g))
}

// handleSpymasterView validates the per-team key and, only then, returns
// the full-ownership view. A bad key leaks nothing about the board.
func (s *Server) handleSpymasterView(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	team := game.TeamColor(strings.ToUpper(chi.URLParam(r, "team")))
	key := chi.URLParam(r, "key")
	if !team.Valid() || !view.ValidateSpymasterAccess(g, team, key) {
		writeError(w, view.ErrInvalidAccessKey)
		return
	}
	_ = json.NewEncoder(w).Encode(view.SpymasterView(g, team))
}

// ---------------------------- mutations ------------------------------------

// handleReveal flips one tile. The state transition, the view projection,
// and the broadcast all run under the game's own lock.
func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	var pos game.Position
	if err := json.NewDecoder(r.Body).Decode(&pos); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")

	g, err := s.store.Update(r.Context(), id, func(g *game.Game) error {
		if err := g.Reveal(pos); err != nil {
			return err
		}
		s.hub.Notify(id, view.PublicView(g))
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if s.history != nil {
		if err := s.history.RecordReveal(r.Context(), g); err != nil {
			log.Warn().Err(err).Str("gameId", id).Msg("record reveal")
		}
	}
	if g.Finished() {
		log.Info().Str("gameId", id).Str("winner", string(g.Winner)).Msg("game finished")
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// clueReq is the POST /api/games/{id}/clue payload.
type clueReq struct {
	Word  string         `json:"word"`
	Count int            `json:"count"`
	Team  game.TeamColor `json:"team"`
}

// handleClue appends a clue to the game's audit history and re-broadcasts.
func (s *Server) handleClue(w http.ResponseWriter, r *http.Request) {
	var req clueReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")

	g, err := s.store.Update(r.Context(), id, func(g *game.Game) error {
		if err := g.AddClue(req.Word, req.Count, req.Team); err != nil {
			return err
		}
		s.hub.Notify(id, view.PublicView(g))
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if s.history != nil {
		if err := s.history.RecordClue(r.Context(), g); err != nil {
			log.Warn().Err(err).Str("gameId", id).Msg("record clue")
		}
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// ------------------------------ extras -------------------------------------

// handleQR renders a QR PNG for a game's join URL. ?view=board (default)
// encodes the public board URL. ?view=red|blue encodes that team's secret
// spymaster URL and therefore demands the team's key via ?key=; anyone
// holding only the game id gets a 403, same as the spymaster view route.
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	base := publicBaseURL()
	var target string
	switch strings.ToLower(r.URL.Query().Get("view")) {
	case "", "board":
		target = base + "/board/" + g.ID
	case "red", "blue":
		team := game.Red
		if strings.EqualFold(r.URL.Query().Get("view"), "blue") {
			team = game.Blue
		}
		if !view.ValidateSpymasterAccess(g, team, r.URL.Query().Get("key")) {
			writeError(w, view.ErrInvalidAccessKey)
			return
		}
		target = base + "/spymaster/" + g.ID + "/" + string(team) + "/" + g.Teams[team].SpymasterKey
	default:
		http.Error(w, `{"error":"invalid_view"}`, http.StatusBadRequest)
		return
	}

	png, err := qrcode.Encode(target, qrcode.Medium, 256)
	if err != nil {
		log.Error().Err(err).Str("gameId", g.ID).Msg("encode qr")
		http.Error(w, `{"error":"qr_failed"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// handleThemes lists the theme catalog.
func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(words.Themes())
}

// handleHistory returns the most recent recorded games from sqlite.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		_ = json.NewEncoder(w).Encode([]history.Row{})
		return
	}
	rows, err := s.history.Recent(r.Context(), 50)
	if err != nil {
		log.Error().Err(err).Msg("load history")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(rows)
}

// handleSubscribe attaches a websocket subscriber to a game's update feed.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.Get(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	s.hub.Subscribe(id, w, r)
}

// ------------------------------ helpers ------------------------------------

// writeError maps domain error kinds to status codes and stable JSON
// bodies. Unknown errors become opaque 500s.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, `{"error":"game_not_found"}`, http.StatusNotFound)
	case errors.Is(err, view.ErrInvalidAccessKey):
		http.Error(w, `{"error":"invalid_spymaster_key"}`, http.StatusForbidden)
	case errors.Is(err, game.ErrInsufficientWords):
		http.Error(w, `{"error":"insufficient_words"}`, http.StatusBadRequest)
	case errors.Is(err, game.ErrAlreadyRevealed):
		http.Error(w, `{"error":"word_already_revealed"}`, http.StatusBadRequest)
	case errors.Is(err, game.ErrInvalidPosition):
		http.Error(w, `{"error":"invalid_position"}`, http.StatusBadRequest)
	case errors.Is(err, game.ErrGameFinished):
		http.Error(w, `{"error":"game_finished"}`, http.StatusBadRequest)
	case errors.Is(err, game.ErrInvalidTeam):
		http.Error(w, `{"error":"invalid_team"}`, http.StatusBadRequest)
	default:
		http.Error(w, `{"error":"internal_error"}`, http.StatusInternalServerError)
	}
}

// publicBaseURL is the externally reachable base for join URLs and QR
// codes; on a LAN this is typically the host machine's address.
func publicBaseURL() string {
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	return "http://localhost:" + port
}
