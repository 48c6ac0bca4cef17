// assets/embed.go
//
// Embedded word tables shipped with the binary.
//   - targets.txt: ordered target pool (puzzle draws index into it, so order matters).
//   - valid.txt:   guessable words that are never targets.
//   - retired.txt: target words withdrawn from puzzles starting at a given id.
package assets

import (
	"bufio"
	"embed"
	"fmt"
	"strconv"
	"strings"
)

//go:embed targets.txt valid.txt retired.txt
var FS embed.FS

// Retirement lists target words excluded from every puzzle with id >= FromID.
type Retirement struct {
	FromID int
	Words  []string
}

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToUpper(s))
	}
	return out, sc.Err()
}

func TargetList() ([]string, error) {
	return readLines("targets.txt")
}

func ValidList() ([]string, error) {
	return readLines("valid.txt")
}

// RetiredList parses retired.txt; each line is "<fromID> WORD WORD ...".
func RetiredList() ([]Retirement, error) {
	lines, err := readLines("retired.txt")
	if err != nil {
		return nil, err
	}
	out := make([]Retirement, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("retired.txt: malformed line %q", line)
		}
		from, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("retired.txt: bad id %q: %w", fields[0], err)
		}
		out = append(out, Retirement{FromID: from, Words: fields[1:]})
	}
	return out, nil
}
