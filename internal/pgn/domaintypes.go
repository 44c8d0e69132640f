package pgn

const (
	GameResultNone     = "*"
	GameResultWhiteWin = "1-0"
	GameResultBlackWin = "0-1"
	GameResultDraw     = "1/2-1/2"
)

type Tag struct {
	Key   string
	Value string
}

type GameRaw struct {
	Tags    []string
	BodyRaw string
}

type Token struct {
	Value   string
	Comment string
}

func isResultToken(s string) bool {
	switch s {
	case GameResultNone, GameResultWhiteWin, GameResultBlackWin, GameResultDraw:
		return true
	}
	return false
}
