package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ChizhovVadim/enginematch/internal/arena"
)

var ErrRunNotFound = errors.New("run not found")

type Run struct {
	ID         uuid.UUID
	Engine1    string
	Engine2    string
	Games      int
	MoveTime   time.Duration
	MaxMoves   int
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Completed  int64
	Failed     int64
}

type Game struct {
	RunID    uuid.UUID
	Index    int
	Worker   int
	White    string
	Black    string
	Result   string
	Reason   string
	Plies    int
	Moves    []string
	Duration time.Duration
}

// Store keeps match runs and their games in SQLite.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	var location = &url.URL{Path: path}
	var dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", location.EscapedPath())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	var s = &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	var stmts = []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			engine1 TEXT NOT NULL,
			engine2 TEXT NOT NULL,
			games INTEGER NOT NULL,
			movetime_ms INTEGER NOT NULL,
			max_moves INTEGER NOT NULL,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP,
			completed INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS games (
			run_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			worker INTEGER NOT NULL,
			white TEXT NOT NULL,
			black TEXT NOT NULL,
			result TEXT NOT NULL,
			reason TEXT NOT NULL,
			plies INTEGER NOT NULL,
			moves TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			PRIMARY KEY(run_id, idx),
			FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);`,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// StartRun records a new run and returns a recorder for its games.
func (s *Store) StartRun(ctx context.Context, config arena.Config) (*Recorder, error) {
	var id = uuid.New()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs(id, engine1, engine2, games, movetime_ms, max_moves, started_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		id.String(), config.Engine1.Name, config.Engine2.Name, config.Games,
		config.MoveTime.Milliseconds(), config.MaxMoves, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &Recorder{store: s, runID: id}, nil
}

func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (Run, error) {
	var r Run
	var idStr string
	var moveTimeMs int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, engine1, engine2, games, movetime_ms, max_moves, started_at, finished_at, completed, failed
		FROM runs WHERE id=?`, id.String()).
		Scan(&idStr, &r.Engine1, &r.Engine2, &r.Games, &moveTimeMs, &r.MaxMoves,
			&r.StartedAt, &r.FinishedAt, &r.Completed, &r.Failed)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, err
	}
	r.ID, err = uuid.Parse(idStr)
	if err != nil {
		return Run{}, err
	}
	r.MoveTime = time.Duration(moveTimeMs) * time.Millisecond
	return r, nil
}

// ListGames returns the games of a run ordered by index.
func (s *Store) ListGames(ctx context.Context, runID uuid.UUID) ([]Game, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, worker, white, black, result, reason, plies, moves, duration_ms
		FROM games WHERE run_id=? ORDER BY idx`, runID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Game
	for rows.Next() {
		var g = Game{RunID: runID}
		var moves string
		var durationMs int64
		if err := rows.Scan(&g.Index, &g.Worker, &g.White, &g.Black, &g.Result, &g.Reason,
			&g.Plies, &moves, &durationMs); err != nil {
			return nil, err
		}
		g.Moves = strings.Fields(moves)
		g.Duration = time.Duration(durationMs) * time.Millisecond
		result = append(result, g)
	}
	return result, rows.Err()
}

// Recorder saves the games of one run.
type Recorder struct {
	store *Store
	runID uuid.UUID
}

func (r *Recorder) RunID() uuid.UUID {
	return r.runID
}

func (r *Recorder) Save(ctx context.Context, msg arena.CompletionMessage) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO games(run_id, idx, worker, white, black, result, reason, plies, moves, duration_ms)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.runID.String(), msg.Index, msg.Worker, msg.White, msg.Black,
		msg.Result.Outcome.String(), msg.Result.Reason, msg.Result.Plies(),
		strings.Join(msg.Result.Moves, " "), msg.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("insert game %v: %w", msg.Index, err)
	}
	return nil
}

// Finish stores the final counters of the run.
func (r *Recorder) Finish(ctx context.Context, s arena.Snapshot) error {
	_, err := r.store.db.ExecContext(ctx,
		`UPDATE runs SET finished_at=?, completed=?, failed=? WHERE id=?`,
		time.Now().UTC(), s.Completed, s.Failed, r.runID.String())
	return err
}
