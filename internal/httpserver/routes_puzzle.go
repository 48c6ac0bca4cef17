// internal/httpserver/routes_puzzle.go
//
// Read-only puzzle routes:
//   - GET /puzzle/daily                 → today's daily id
//   - GET /puzzle/{challenge}/{id}      → puzzle preview (never the targets)
//   - GET /daily/leaderboard            → fastest wins for a daily puzzle (default today, normal)
package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/duotrigordle/internal/puzzle"
	"github.com/robalobadob/duotrigordle/internal/store"
)

func (s *Server) mountPuzzle() {
	s.r.Get("/puzzle/daily", s.handleDailyID)
	s.r.Get("/puzzle/{challenge}/{id}", s.handlePuzzle)
	s.r.Get("/daily/leaderboard", s.handleLeaderboard)
}

type dailyRes struct {
	ID   int    `json:"id"`
	Date string `json:"date"`
}

func (s *Server) handleDailyID(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	writeJSON(w, http.StatusOK, dailyRes{ID: puzzle.DailyID(now), Date: now.Format("2006-01-02")})
}

type puzzleRes struct {
	ID          int              `json:"id"`
	Challenge   puzzle.Challenge `json:"challenge"`
	Practice    bool             `json:"practice"`
	TargetCount int              `json:"targetCount"`
	GuessBudget int              `json:"guessBudget"`
	Starters    []string         `json:"starters,omitempty"`
}

func (s *Server) handlePuzzle(w http.ResponseWriter, r *http.Request) {
	c, ok := puzzle.ParseChallenge(chi.URLParam(r, "challenge"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_challenge")
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	gen := s.engine.Generator()
	targets := gen.Targets(id, c)
	res := puzzleRes{
		ID:          id,
		Challenge:   c,
		Practice:    puzzle.IsPracticeID(id),
		TargetCount: len(targets),
		GuessBudget: c.GuessBudget(),
	}
	if c == puzzle.Jumble {
		res.Starters = gen.JumbleStarters(targets, id)
	}
	writeJSON(w, http.StatusOK, res)
}

type leaderboardRes struct {
	ID        int                    `json:"id"`
	Challenge puzzle.Challenge       `json:"challenge"`
	Top       []store.LeaderboardRow `json:"top"`
}

// handleLeaderboard accepts optional ?id= and ?challenge= query parameters.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id := puzzle.DailyID(s.now())
	if v := q.Get("id"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || puzzle.IsPracticeID(n) {
			writeError(w, http.StatusBadRequest, "invalid_id")
			return
		}
		id = n
	}
	c := puzzle.Normal
	if v := q.Get("challenge"); v != "" {
		var ok bool
		if c, ok = puzzle.ParseChallenge(v); !ok {
			writeError(w, http.StatusBadRequest, "invalid_challenge")
			return
		}
	}

	top, err := s.db.Leaderboard(r.Context(), c, id, 20)
	if err != nil {
		s.log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, leaderboardRes{ID: id, Challenge: c, Top: top})
}
