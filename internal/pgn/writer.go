package pgn

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ChizhovVadim/enginematch/internal/arena"
	"github.com/ChizhovVadim/enginematch/pkg/common"
)

const lineWidth = 80

type Game struct {
	Tags   []Tag
	Moves  []string
	Result string
}

func NewGame(event string, date time.Time, msg arena.CompletionMessage) Game {
	var result = msg.Result.Outcome.String()
	return Game{
		Tags: []Tag{
			{"Event", event},
			{"Site", "?"},
			{"Date", date.Format("2006.01.02")},
			{"Round", strconv.Itoa(msg.Index + 1)},
			{"White", msg.White},
			{"Black", msg.Black},
			{"Result", result},
			{"Termination", msg.Result.Reason},
			{"PlyCount", strconv.Itoa(msg.Result.Plies())},
		},
		Moves:  msg.Result.Moves,
		Result: result,
	}
}

// Format renders the game with SAN movetext.
func (g Game) Format() (string, error) {
	var sb = &strings.Builder{}
	for _, tag := range g.Tags {
		fmt.Fprintf(sb, "[%v %q]\n", tag.Key, tag.Value)
	}
	sb.WriteString("\n")

	var pos = common.InitialPosition()
	var line = &strings.Builder{}
	var write = func(token string) {
		if line.Len() != 0 && line.Len()+1+len(token) > lineWidth {
			sb.WriteString(line.String())
			sb.WriteString("\n")
			line.Reset()
		}
		if line.Len() != 0 {
			line.WriteString(" ")
		}
		line.WriteString(token)
	}

	for i, lan := range g.Moves {
		var parsed, err = common.ParseLAN(lan)
		if err != nil {
			return "", fmt.Errorf("move %v: %w", i+1, err)
		}
		mv, err := pos.Resolve(parsed)
		if err != nil {
			return "", fmt.Errorf("move %v: %w", i+1, err)
		}
		child, err := pos.Apply(mv)
		if err != nil {
			return "", fmt.Errorf("move %v: %w", i+1, err)
		}
		var san = common.MoveToSAN(&pos, mv)
		if pos.WhiteMove {
			write(strconv.Itoa(pos.FullMove) + ". " + san)
		} else if i == 0 {
			write(strconv.Itoa(pos.FullMove) + "... " + san)
		} else {
			write(san)
		}
		pos = child
	}
	write(g.Result)
	sb.WriteString(line.String())
	sb.WriteString("\n\n")
	return sb.String(), nil
}

// Writer appends finished games to a PGN stream.
type Writer struct {
	mu    sync.Mutex
	w     io.Writer
	event string
	date  time.Time
}

func NewWriter(w io.Writer, event string) *Writer {
	return &Writer{w: w, event: event, date: time.Now()}
}

func (w *Writer) Save(ctx context.Context, msg arena.CompletionMessage) error {
	var text, err = NewGame(w.event, w.date, msg).Format()
	if err != nil {
		return fmt.Errorf("game %v: %w", msg.Index, err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = io.WriteString(w.w, text)
	return err
}
