// internal/httpserver/routes_game.go
//
// Server-side play. Each player (user or anonymous id) has one save slot per game
// mode and challenge; every request loads the slot, applies one engine operation
// and acts on the emitted effects.
//   - POST /game/start     {gameMode, challenge, id?} → start or resume
//   - POST /game/guess     {gameMode, challenge, word}
//   - POST /game/pause     {gameMode, challenge}
//   - POST /game/unpause   {gameMode, challenge}
//   - GET  /game/{gameMode}/{challenge}
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/robalobadob/duotrigordle/internal/game"
	"github.com/robalobadob/duotrigordle/internal/puzzle"
	"github.com/robalobadob/duotrigordle/internal/stats"
	"github.com/robalobadob/duotrigordle/internal/store"
	"github.com/robalobadob/duotrigordle/internal/words"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/start", s.handleStart)
	r.Post("/game/guess", s.handleGuess)
	r.Post("/game/pause", s.handlePause(true))
	r.Post("/game/unpause", s.handlePause(false))
	r.Get("/game/{gameMode}/{challenge}", s.handleGetGame)
}

type slotReq struct {
	GameMode  string `json:"gameMode"`
	Challenge string `json:"challenge"`
	ID        *int   `json:"id,omitempty"`
	Word      string `json:"word,omitempty"`
}

// slot resolves the request's save key, writing a 400 when it is malformed.
func (s *Server) slot(w http.ResponseWriter, r *http.Request, mode, challenge string) (store.SaveKey, bool) {
	c, ok := puzzle.ParseChallenge(challenge)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_challenge")
		return store.SaveKey{}, false
	}
	gm := stats.GameMode(mode)
	if gm == "" {
		gm = stats.Daily
	}
	if gm != stats.Daily && gm != stats.Practice {
		writeError(w, http.StatusBadRequest, "invalid_game_mode")
		return store.SaveKey{}, false
	}
	return store.SaveKey{Player: s.playerID(w, r), GameMode: gm, Challenge: c}, true
}

func decodeSlotReq(w http.ResponseWriter, r *http.Request) (slotReq, bool) {
	var req slotReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return req, false
	}
	return req, true
}

// loadSession reads the slot and rebuilds the session. ok=false means a response
// was already written.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request, k store.SaveKey) (game.Session, bool) {
	save, err := s.saves.Get(r.Context(), k)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no_game")
		return game.Session{}, false
	}
	if err != nil {
		s.log.Error().Err(err).Str("slot", k.String()).Msg("load save")
		writeError(w, http.StatusInternalServerError, "store_error")
		return game.Session{}, false
	}
	return s.engine.Load(*save), true
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSlotReq(w, r)
	if !ok {
		return
	}
	k, ok := s.slot(w, r, req.GameMode, req.Challenge)
	if !ok {
		return
	}

	var id int
	switch {
	case k.GameMode == stats.Daily:
		id = puzzle.DailyID(s.now())
		if req.ID != nil && *req.ID != id {
			writeError(w, http.StatusBadRequest, "daily_id_mismatch")
			return
		}
	case req.ID != nil:
		if !puzzle.IsPracticeID(*req.ID) {
			writeError(w, http.StatusBadRequest, "invalid_practice_id")
			return
		}
		id = *req.ID
	default:
		id = puzzle.RandomPracticeID()
	}

	// today's daily resumes; anything else starts over
	if k.GameMode == stats.Daily {
		if save, err := s.saves.Get(r.Context(), k); err == nil && save.ID == id {
			sess := s.engine.Load(*save)
			writeJSON(w, http.StatusOK, s.view(k, sess, nil))
			return
		}
	}

	sess := s.engine.Start(id, k.Challenge, k.GameMode == stats.Practice)
	if err := s.saves.Put(r.Context(), k, sess.Serialized()); err != nil {
		s.log.Error().Err(err).Str("slot", k.String()).Msg("save new game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.metrics.gamesStarted.WithLabelValues(string(k.GameMode), string(k.Challenge)).Inc()
	writeJSON(w, http.StatusCreated, s.view(k, sess, nil))
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSlotReq(w, r)
	if !ok {
		return
	}
	word := strings.ToUpper(strings.TrimSpace(req.Word))
	if len(word) != game.WordLen || !words.IsAlpha(word) {
		writeError(w, http.StatusBadRequest, "invalid_word")
		return
	}
	k, ok := s.slot(w, r, req.GameMode, req.Challenge)
	if !ok {
		return
	}
	sess, ok := s.loadSession(w, r, k)
	if !ok {
		return
	}
	if sess.Status() == game.GameOver {
		writeJSON(w, http.StatusConflict, s.view(k, sess, nil))
		return
	}

	for _, letter := range word {
		sess = s.engine.InputLetter(sess, letter)
	}
	sess, effects := s.engine.InputEnter(sess, s.nowMs())
	if len(effects) == 1 && effects[0].Kind == game.EffectInvalidWord {
		s.metrics.guesses.WithLabelValues("false").Inc()
		writeError(w, http.StatusUnprocessableEntity, "not_in_word_list")
		return
	}
	s.metrics.guesses.WithLabelValues("true").Inc()
	if err := s.applyEffects(r.Context(), currentUser(r), k, sess, effects); err != nil {
		s.log.Error().Err(err).Str("slot", k.String()).Msg("apply effects")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, s.view(k, sess, effects))
}

func (s *Server) handlePause(pause bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeSlotReq(w, r)
		if !ok {
			return
		}
		k, ok := s.slot(w, r, req.GameMode, req.Challenge)
		if !ok {
			return
		}
		sess, ok := s.loadSession(w, r, k)
		if !ok {
			return
		}
		var effects []game.Effect
		if pause {
			sess, effects = s.engine.Pause(sess, s.nowMs())
		} else {
			sess, effects = s.engine.Unpause(sess, s.nowMs())
		}
		if err := s.applyEffects(r.Context(), currentUser(r), k, sess, effects); err != nil {
			s.log.Error().Err(err).Str("slot", k.String()).Msg("apply effects")
			writeError(w, http.StatusInternalServerError, "save_failed")
			return
		}
		writeJSON(w, http.StatusOK, s.view(k, sess, effects))
	}
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	k, ok := s.slot(w, r, chi.URLParam(r, "gameMode"), chi.URLParam(r, "challenge"))
	if !ok {
		return
	}
	sess, ok := s.loadSession(w, r, k)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.view(k, sess, nil))
}

// applyEffects performs the engine's requested side effects. History is only kept
// server-side for signed-in players; guests keep theirs on the client.
func (s *Server) applyEffects(ctx context.Context, u *authUser, k store.SaveKey, sess game.Session, effects []game.Effect) error {
	for _, e := range effects {
		switch e.Kind {
		case game.EffectSaveGame:
			if err := s.saves.Put(ctx, k, sess.Serialized()); err != nil {
				return err
			}
		case game.EffectRecordHistory:
			result := "lost"
			if e.Entry.Won() {
				result = "won"
			}
			s.metrics.gamesFinished.WithLabelValues(string(k.GameMode), string(k.Challenge), result).Inc()
			if u == nil {
				continue
			}
			n, err := s.db.UpsertHistory(ctx, u.ID, []stats.Entry{*e.Entry})
			if err != nil {
				return err
			}
			s.metrics.historyRows.Add(float64(n))
		}
	}
	return nil
}

// ------------------------------- views -------------------------------------

type boardView struct {
	Complete bool `json:"complete"`
	Won      bool `json:"won"`
	SolvedAt int  `json:"solvedAt"`
	// Target is only revealed once the board is won or the game is over.
	Target string   `json:"target,omitempty"`
	Rows   []string `json:"rows"`
}

type sessionView struct {
	ID          int              `json:"id"`
	GameMode    stats.GameMode   `json:"gameMode"`
	Challenge   puzzle.Challenge `json:"challenge"`
	Status      string           `json:"status"`
	Guesses     []string         `json:"guesses"`
	GuessBudget int              `json:"guessBudget"`
	Remaining   int              `json:"remaining"`
	StartTime   int64            `json:"startTime"`
	EndTime     int64            `json:"endTime"`
	Paused      bool             `json:"paused"`
	ElapsedMs   int64            `json:"elapsedMs"`
	ActiveBoard int              `json:"activeBoard"`
	Boards      []boardView      `json:"boards"`
	Effects     []string         `json:"effects,omitempty"`
}

// view renders a session for the client. In sequence mode boards after the active
// one stay hidden until the game ends.
func (s *Server) view(k store.SaveKey, sess game.Session, effects []game.Effect) sessionView {
	boards := sess.Boards()
	active := sess.ActiveBoard()
	v := sessionView{
		ID:          sess.ID,
		GameMode:    k.GameMode,
		Challenge:   sess.Challenge,
		Status:      sess.Status().String(),
		Guesses:     sess.Guesses,
		GuessBudget: sess.Budget(),
		Remaining:   max(sess.Budget()-len(sess.Guesses), 0),
		StartTime:   sess.StartTime,
		EndTime:     sess.EndTime,
		Paused:      sess.Paused(),
		ElapsedMs:   sess.Elapsed(s.nowMs()),
		ActiveBoard: active,
		Boards:      make([]boardView, len(boards)),
	}
	for i, b := range boards {
		bv := boardView{Complete: b.Complete, Won: b.Won, SolvedAt: b.SolvedAt, Rows: []string{}}
		hidden := sess.Challenge == puzzle.Sequence && !sess.Over && active >= 0 && i > active
		if !hidden {
			for _, row := range sess.Rows(i) {
				bv.Rows = append(bv.Rows, row.String())
			}
		}
		if b.Won || sess.Over {
			bv.Target = b.Target
		}
		v.Boards[i] = bv
	}
	for _, e := range effects {
		v.Effects = append(v.Effects, string(e.Kind))
	}
	return v
}
