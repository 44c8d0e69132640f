package arena

import (
	"errors"
	"fmt"
	"time"

	"github.com/ChizhovVadim/enginematch/pkg/uci"
)

type Outcome int

const (
	Draw Outcome = iota
	WhiteWins
	BlackWins
)

func (o Outcome) String() string {
	switch o {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	}
	return "*"
}

const (
	ReasonCheckmate            = "checkmate"
	ReasonStalemate            = "stalemate"
	ReasonInsufficientMaterial = "insufficient material"
	ReasonFiftyMoves           = "fifty-move rule"
	ReasonMaxMoves             = "max moves"
	ReasonResignation          = "resignation"
)

// Player is the part of an engine session the game runner drives.
type Player interface {
	Name() string
	NewGame() error
	SetPosition(moves []string) error
	BestMove(moveTime time.Duration) (string, error)
}

// Engine is a Player owned by a worker for its whole lifetime.
type Engine interface {
	Player
	Quit() error
}

type GameResult struct {
	Outcome Outcome
	Reason  string
	// Moves holds the full game in LAN, opening moves first.
	Moves        []string
	OpeningPlies int
}

func (r GameResult) Plies() int {
	return len(r.Moves)
}

type CompletionMessage struct {
	Index        int
	Worker       int
	FirstIsWhite bool
	White        string
	Black        string
	Result       GameResult
	Duration     time.Duration
}

type Config struct {
	Games            int
	Engine1          uci.EngineConfig
	Engine2          uci.EngineConfig
	MoveTime         time.Duration
	MaxMoves         int
	Workers          int
	ProgressInterval time.Duration
	Openings         [][]string
}

const DefaultProgressInterval = 10 * time.Second

var errBadConfig = errors.New("bad config")

func (c *Config) Validate() error {
	if c.Games <= 0 {
		return fmt.Errorf("%w: games must be positive, got %v", errBadConfig, c.Games)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %v", errBadConfig, c.Workers)
	}
	if c.MoveTime < time.Millisecond {
		return fmt.Errorf("%w: move time must be at least 1ms, got %v", errBadConfig, c.MoveTime)
	}
	if c.MaxMoves <= 0 {
		return fmt.Errorf("%w: max moves must be positive, got %v", errBadConfig, c.MaxMoves)
	}
	if c.Engine1.Path == "" || c.Engine2.Path == "" {
		return fmt.Errorf("%w: both engine paths are required", errBadConfig)
	}
	if c.Engine1.Name == "" {
		c.Engine1.Name = "engine1"
	}
	if c.Engine2.Name == "" {
		c.Engine2.Name = "engine2"
	}
	if c.ProgressInterval <= 0 {
		c.ProgressInterval = DefaultProgressInterval
	}
	return nil
}
