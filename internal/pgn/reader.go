package pgn

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ChizhovVadim/enginematch/pkg/common"
)

func WalkPgn(
	r io.Reader,
	onGame func(GameRaw) error,
) error {
	var tags []string
	var body = &strings.Builder{}
	var hasBody bool

	var scanner = bufio.NewScanner(r)
	for scanner.Scan() {
		var line = scanner.Text()
		if strings.HasPrefix(line, "[") {
			if hasBody {
				if body.Len() != 0 {
					var err = onGame(GameRaw{
						Tags:    tags,
						BodyRaw: body.String(),
					})
					if err != nil {
						return err
					}
				}
				hasBody = false
				tags = nil
				body.Reset()
			}
			tags = append(tags, line)
		} else if strings.TrimSpace(line) != "" {
			hasBody = true
			body.WriteString(line)
			body.WriteString(" ")
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if hasBody && body.Len() != 0 {
		return onGame(GameRaw{
			Tags:    tags,
			BodyRaw: body.String(),
		})
	}
	return nil
}

func ParsePgnBody(bodyRaw string) []Token {
	var result []Token
	var inComment = false
	var body string
	for _, rune := range bodyRaw {
		if inComment {
			if rune == '}' {
				if len(result) != 0 {
					result[len(result)-1].Comment = body
				}
				inComment = false
				body = ""
			} else {
				body = body + string(rune)
			}
		} else if rune == '.' {
			body = ""
		} else if unicode.IsSpace(rune) {
			if body != "" {
				result = append(result, Token{Value: body})
				body = ""
			}
		} else if rune == '{' {
			if body != "" {
				result = append(result, Token{Value: body})
				body = ""
			}
			inComment = true
			body = ""
		} else {
			body = body + string(rune)
		}
	}
	if body != "" {
		result = append(result, Token{Value: body})
	}
	return result
}

// ParseMoves converts SAN tokens played from the start position into LAN.
// A result token ends the game.
func ParseMoves(tokens []Token) ([]string, error) {
	var pos = common.InitialPosition()
	var result []string
	for i := range tokens {
		var san = tokens[i].Value
		if isResultToken(san) {
			break
		}
		var move, err = common.ParseMoveSAN(&pos, san)
		if err != nil {
			return nil, fmt.Errorf("move %v: %w", i+1, err)
		}
		child, err := pos.Apply(move)
		if err != nil {
			return nil, err
		}
		result = append(result, move.String())
		pos = child
	}
	return result, nil
}

// LoadOpenings reads every game of a PGN stream as an opening line.
func LoadOpenings(r io.Reader) ([][]string, error) {
	var result [][]string
	var err = WalkPgn(r, func(g GameRaw) error {
		var moves, err = ParseMoves(ParsePgnBody(g.BodyRaw))
		if err != nil {
			return fmt.Errorf("opening %v: %w", len(result)+1, err)
		}
		if len(moves) != 0 {
			result = append(result, moves)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
