// internal/httpserver/routes_sync.go
//
// Remote sync for signed-in players.
//   - PUT  /sync/save                          {gameMode, game} → store a guarded save
//   - GET  /sync/save/{gameMode}/{challenge}    → {game}
//   - POST /sync/stats                         {history} → upsert at most SYNC_BATCH_SIZE entries
//   - GET  /sync/stats                         → {history} (normalized)
//   - GET  /sync/stats/summary?gameMode=&challenge=
//
// Payloads pass through the serial guards, so malformed saves are refused and
// malformed history entries are dropped.
package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/robalobadob/duotrigordle/internal/puzzle"
	"github.com/robalobadob/duotrigordle/internal/serial"
	"github.com/robalobadob/duotrigordle/internal/stats"
	"github.com/robalobadob/duotrigordle/internal/store"
)

const maxSyncBody = 1 << 20

func (s *Server) mountSync(r chi.Router) {
	r.Put("/sync/save", s.handlePutSave)
	r.Get("/sync/save/{gameMode}/{challenge}", s.handleGetSave)
	r.Post("/sync/stats", s.handlePostStats)
	r.Get("/sync/stats", s.handleGetStats)
	r.Get("/sync/stats/summary", s.handleStatsSummary)
}

type putSaveReq struct {
	GameMode string `json:"gameMode"`
	Game     any    `json:"game"`
}

type saveRes struct {
	GameMode stats.GameMode         `json:"gameMode"`
	Game     *serial.GameSerialized `json:"game"`
}

func (s *Server) handlePutSave(w http.ResponseWriter, r *http.Request) {
	var req putSaveReq
	if err := json.NewDecoder(io.LimitReader(r.Body, maxSyncBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g := serial.AssertGameSerialized(req.Game)
	if g == nil {
		writeError(w, http.StatusBadRequest, "invalid_save")
		return
	}
	mode := stats.GameMode(req.GameMode)
	switch {
	case mode == stats.Daily && puzzle.IsPracticeID(g.ID),
		mode == stats.Practice && !puzzle.IsPracticeID(g.ID):
		writeError(w, http.StatusBadRequest, "game_mode_mismatch")
		return
	case mode != stats.Daily && mode != stats.Practice:
		writeError(w, http.StatusBadRequest, "invalid_game_mode")
		return
	}

	k := store.SaveKey{Player: currentUser(r).ID, GameMode: mode, Challenge: g.Challenge}
	if err := s.saves.Put(r.Context(), k, *g); err != nil {
		s.log.Error().Err(err).Str("slot", k.String()).Msg("sync save")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, saveRes{GameMode: mode, Game: g})
}

func (s *Server) handleGetSave(w http.ResponseWriter, r *http.Request) {
	c, ok := puzzle.ParseChallenge(chi.URLParam(r, "challenge"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_challenge")
		return
	}
	mode := stats.GameMode(chi.URLParam(r, "gameMode"))
	if mode != stats.Daily && mode != stats.Practice {
		writeError(w, http.StatusBadRequest, "invalid_game_mode")
		return
	}
	k := store.SaveKey{Player: currentUser(r).ID, GameMode: mode, Challenge: c}
	g, err := s.saves.Get(r.Context(), k)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no_save")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("slot", k.String()).Msg("sync load")
		writeError(w, http.StatusInternalServerError, "store_error")
		return
	}
	writeJSON(w, http.StatusOK, saveRes{GameMode: mode, Game: g})
}

type upsertRes struct {
	Upserted int `json:"upserted"`
}

func (s *Server) handlePostStats(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSyncBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_body")
		return
	}
	in := serial.ParseStats(body)
	if in == nil {
		writeError(w, http.StatusBadRequest, "invalid_stats")
		return
	}
	if len(in.History) > s.cfg.Sync.BatchSize {
		writeError(w, http.StatusRequestEntityTooLarge, "batch_too_large")
		return
	}
	u := currentUser(r)
	n, err := s.db.UpsertHistory(r.Context(), u.ID, in.History)
	if err != nil {
		s.log.Error().Err(err).Str("user", u.ID).Msg("upsert history")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	s.metrics.historyRows.Add(float64(n))
	writeJSON(w, http.StatusOK, upsertRes{Upserted: n})
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	h, err := s.db.History(r.Context(), currentUser(r).ID)
	if err != nil {
		s.log.Error().Err(err).Msg("load history")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, serial.StatsSerialized{History: h})
}

type summaryRes struct {
	GameMode  stats.GameMode   `json:"gameMode"`
	Challenge puzzle.Challenge `json:"challenge"`
	stats.Summary
}

func (s *Server) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := stats.Daily
	if v := q.Get("gameMode"); v != "" {
		mode = stats.GameMode(v)
	}
	c := puzzle.Normal
	if v := q.Get("challenge"); v != "" {
		var ok bool
		if c, ok = puzzle.ParseChallenge(v); !ok {
			writeError(w, http.StatusBadRequest, "invalid_challenge")
			return
		}
	}
	if mode != stats.Daily && mode != stats.Practice {
		writeError(w, http.StatusBadRequest, "invalid_game_mode")
		return
	}

	h, err := s.db.History(r.Context(), currentUser(r).ID)
	if err != nil {
		s.log.Error().Err(err).Msg("load history")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	// streaks only expire for daily play
	current := 0
	if mode == stats.Daily {
		current = puzzle.DailyID(s.now())
	}
	writeJSON(w, http.StatusOK, summaryRes{GameMode: mode, Challenge: c, Summary: stats.Compute(h, mode, c, current)})
}
