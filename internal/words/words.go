// internal/words/words.go
//
// Versioned word tables for puzzle generation and guess validation.
//
// Responsibilities:
//   - Load the target pool, the valid-only guess list and the retirement schedule from
//     files named in config, falling back to the embedded assets.
//   - Serve the target pool that was in force for a given puzzle id. Retired words are
//     removed from the pool itself (not skipped when drawn), so older ids keep their
//     original pool and stay reproducible.
//   - Answer membership queries (valid guess / target word).
//
// Tables are read-only after construction and safe for concurrent use.
package words

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/robalobadob/duotrigordle/assets"
)

// MinPoolSize is the smallest target pool able to fill a 32-board puzzle.
const MinPoolSize = 32

var ErrEmptyPool = errors.New("words: target pool is empty")

// Sources names optional override files. Empty fields use the embedded lists.
type Sources struct {
	TargetsFile string
	ValidFile   string
}

// Tables holds the word lists. Build it with Load or New.
type Tables struct {
	targets   []string
	valid     []string            // targets followed by valid-only words
	validSet  map[string]struct{} // every guessable word
	targetSet map[string]struct{} // every word that was ever a target
	versions  []poolVersion       // ascending by fromID; versions[0].fromID == 0
}

type poolVersion struct {
	fromID int
	pool   []string
}

// Load reads the word lists described by src.
func Load(src Sources) (*Tables, error) {
	var (
		targets, validOnly []string
		err                error
	)
	if src.TargetsFile != "" {
		targets, err = readWordFile(src.TargetsFile)
	} else {
		targets, err = assets.TargetList()
	}
	if err != nil {
		return nil, fmt.Errorf("load targets: %w", err)
	}
	if src.ValidFile != "" {
		validOnly, err = readWordFile(src.ValidFile)
	} else {
		validOnly, err = assets.ValidList()
	}
	if err != nil {
		return nil, fmt.Errorf("load valid words: %w", err)
	}
	retired, err := assets.RetiredList()
	if err != nil {
		return nil, fmt.Errorf("load retired words: %w", err)
	}
	return New(targets, validOnly, retired)
}

// New builds tables from in-memory lists. Words are upper-cased; anything that is
// not exactly five letters A–Z is dropped. Target order is preserved.
func New(targets, validOnly []string, retired []assets.Retirement) (*Tables, error) {
	t := &Tables{
		validSet:  make(map[string]struct{}),
		targetSet: make(map[string]struct{}),
	}
	for _, w := range normalize(targets) {
		if _, dup := t.targetSet[w]; dup {
			continue
		}
		t.targetSet[w] = struct{}{}
		t.targets = append(t.targets, w)
	}
	if len(t.targets) == 0 {
		return nil, ErrEmptyPool
	}

	t.valid = append(t.valid, t.targets...)
	for _, w := range t.targets {
		t.validSet[w] = struct{}{}
	}
	for _, w := range normalize(validOnly) {
		if _, dup := t.validSet[w]; dup {
			continue
		}
		t.validSet[w] = struct{}{}
		t.valid = append(t.valid, w)
	}

	if err := t.buildVersions(retired); err != nil {
		return nil, err
	}
	return t, nil
}

// buildVersions precomputes one pool per retirement cutoff.
func (t *Tables) buildVersions(retired []assets.Retirement) error {
	sorted := append([]assets.Retirement(nil), retired...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].FromID < sorted[j].FromID })

	t.versions = []poolVersion{{fromID: 0, pool: t.targets}}
	gone := make(map[string]struct{})
	for _, r := range sorted {
		for _, w := range normalize(r.Words) {
			gone[w] = struct{}{}
		}
		pool := make([]string, 0, len(t.targets))
		for _, w := range t.targets {
			if _, ok := gone[w]; !ok {
				pool = append(pool, w)
			}
		}
		if len(pool) < MinPoolSize {
			return fmt.Errorf("words: pool from id %d has %d words, need %d", r.FromID, len(pool), MinPoolSize)
		}
		last := &t.versions[len(t.versions)-1]
		if last.fromID == r.FromID {
			last.pool = pool
			continue
		}
		t.versions = append(t.versions, poolVersion{fromID: r.FromID, pool: pool})
	}
	if len(t.targets) < MinPoolSize {
		return fmt.Errorf("words: target pool has %d words, need %d", len(t.targets), MinPoolSize)
	}
	return nil
}

// TargetPool returns the ordered target pool in force for puzzle id.
// The returned slice must not be modified.
func (t *Tables) TargetPool(id int) []string {
	i := sort.Search(len(t.versions), func(i int) bool { return t.versions[i].fromID > id })
	if i == 0 {
		return t.versions[0].pool
	}
	return t.versions[i-1].pool
}

// ValidPool returns every guessable word: the targets first, then valid-only words.
// The returned slice must not be modified.
func (t *Tables) ValidPool() []string { return t.valid }

// IsValid reports whether w is an accepted guess.
func (t *Tables) IsValid(w string) bool {
	_, ok := t.validSet[strings.ToUpper(w)]
	return ok
}

// IsTarget reports whether w appears in any version of the target pool.
func (t *Tables) IsTarget(w string) bool {
	_, ok := t.targetSet[strings.ToUpper(w)]
	return ok
}

// Stats returns the number of target words and guessable words.
func (t *Tables) Stats() (targetCount int, validCount int) {
	return len(t.targets), len(t.valid)
}

// readWordFile loads one word per line, skipping blanks and # comments.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

// normalize upper-cases and keeps only five-letter A–Z words.
func normalize(list []string) []string {
	out := make([]string, 0, len(list))
	for _, w := range list {
		w = strings.ToUpper(strings.TrimSpace(w))
		if len(w) == 5 && IsAlpha(w) {
			out = append(out, w)
		}
	}
	return out
}

// IsAlpha reports whether s is all uppercase ASCII letters.
func IsAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
