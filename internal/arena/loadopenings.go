package arena

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ChizhovVadim/enginematch/pkg/common"
)

// LoadOpenings reads one opening per line as LAN moves from the start position.
// Empty lines and lines starting with // are skipped.
func LoadOpenings(r io.Reader) ([][]string, error) {
	var result [][]string
	var scanner = bufio.NewScanner(r)
	var lineNumber = 0
	for scanner.Scan() {
		lineNumber++
		var line = strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		var moves = strings.Fields(line)
		if err := checkOpening(moves); err != nil {
			return nil, fmt.Errorf("opening line %v: %w", lineNumber, err)
		}
		result = append(result, moves)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func checkOpening(moves []string) error {
	var pos = common.InitialPosition()
	for i, move := range moves {
		var child, err = applyMove(&pos, i, move)
		if err != nil {
			return err
		}
		pos = child
	}
	return nil
}

// openingFor gives both games of a pair the same opening.
func openingFor(openings [][]string, index int) []string {
	if len(openings) == 0 {
		return nil
	}
	return openings[(index/2)%len(openings)]
}
