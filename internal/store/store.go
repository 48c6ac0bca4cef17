// internal/store/store.go
//
// Persistence collaborators for the sync backend.
//   - SaveStore: the latest in-progress or finished game per player, game mode and challenge.
//     Backed by memory (memory.go) or valkey (valkey.go).
//   - DB: SQLite users and game history (sqlite.go, users.go, history.go).
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/robalobadob/duotrigordle/internal/puzzle"
	"github.com/robalobadob/duotrigordle/internal/serial"
	"github.com/robalobadob/duotrigordle/internal/stats"
)

var (
	ErrNotFound       = errors.New("store: not found")
	ErrUsernameTaken  = errors.New("store: username taken")
	ErrInvalidSaveKey = errors.New("store: invalid save key")
)

// SaveKey addresses one save slot. Player is a user id or an anonymous id.
type SaveKey struct {
	Player    string
	GameMode  stats.GameMode
	Challenge puzzle.Challenge
}

func (k SaveKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.Player, k.GameMode, k.Challenge)
}

func (k SaveKey) validate() error {
	if k.Player == "" || !k.Challenge.Valid() {
		return ErrInvalidSaveKey
	}
	if k.GameMode != stats.Daily && k.GameMode != stats.Practice {
		return ErrInvalidSaveKey
	}
	return nil
}

// SaveStore persists serialized games.
type SaveStore interface {
	// Put replaces the save in slot k.
	Put(ctx context.Context, k SaveKey, g serial.GameSerialized) error

	// Get returns the save in slot k or ErrNotFound.
	Get(ctx context.Context, k SaveKey) (*serial.GameSerialized, error)

	// Delete clears slot k. Deleting an empty slot is not an error.
	Delete(ctx context.Context, k SaveKey) error
}

func cloneSave(g serial.GameSerialized) *serial.GameSerialized {
	out := g
	out.Guesses = append([]string(nil), g.Guesses...)
	if g.PauseTime != nil {
		p := *g.PauseTime
		out.PauseTime = &p
	}
	return &out
}
