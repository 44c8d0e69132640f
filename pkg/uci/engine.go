package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

const quitGracePeriod = 2 * time.Second

type Option struct {
	Name  string
	Value string
}

type EngineConfig struct {
	Name    string
	Path    string
	Args    []string
	Env     []string
	Options []Option
}

// Engine is a client session with one engine process.
// It is not safe for concurrent use.
type Engine struct {
	name    string
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	writer  *bufio.Writer
	scanner *bufio.Scanner
	logger  zerolog.Logger
}

// Start spawns the engine, performs the uci handshake and sends the configured options.
func Start(ctx context.Context, config EngineConfig, logger zerolog.Logger) (*Engine, error) {
	var cmd = exec.CommandContext(ctx, config.Path, config.Args...)
	if len(config.Env) != 0 {
		cmd.Env = append(os.Environ(), config.Env...)
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &SpawnError{Path: config.Path, Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Path: config.Path, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Path: config.Path, Err: err}
	}

	var name = config.Name
	if name == "" {
		name = config.Path
	}
	var e = newEngine(name, stdin, stdout, logger)
	e.cmd = cmd
	e.logger.Debug().Int("pid", cmd.Process.Pid).Msg("engine started")

	if err := e.handshake(config.Options); err != nil {
		e.Kill()
		return nil, err
	}
	return e, nil
}

func newEngine(name string, stdin io.WriteCloser, stdout io.Reader, logger zerolog.Logger) *Engine {
	var scanner = bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	return &Engine{
		name:    name,
		stdin:   stdin,
		writer:  bufio.NewWriter(stdin),
		scanner: scanner,
		logger:  logger.With().Str("engine", name).Logger(),
	}
}

func (e *Engine) Name() string {
	return e.name
}

func (e *Engine) handshake(options []Option) error {
	if err := e.send("uci"); err != nil {
		return e.wrap("handshake", err)
	}
	if _, err := e.readUntil(isToken("uciok")); err != nil {
		return e.wrap("handshake", err)
	}
	for _, option := range options {
		if err := e.send(setOptionCommand(option)); err != nil {
			return e.wrap("setoption", err)
		}
	}
	return nil
}

// NewGame resets engine state and blocks until the engine is ready.
func (e *Engine) NewGame() error {
	if err := e.send("ucinewgame"); err != nil {
		return e.wrap("newgame", err)
	}
	if err := e.send("isready"); err != nil {
		return e.wrap("newgame", err)
	}
	if _, err := e.readUntil(isToken("readyok")); err != nil {
		return e.wrap("newgame", err)
	}
	return nil
}

// SetPosition sends the move history from the standard starting position.
func (e *Engine) SetPosition(moves []string) error {
	if err := e.send(positionCommand(moves)); err != nil {
		return e.wrap("position", err)
	}
	return nil
}

// BestMove asks for a move under a fixed time and returns the announced move verbatim.
// The sentinels NoMove and NullMove are returned as is.
func (e *Engine) BestMove(moveTime time.Duration) (string, error) {
	if err := e.send(goCommand(moveTime)); err != nil {
		return "", e.wrap("go", err)
	}
	var move string
	var parseErr error
	_, err := e.readUntil(func(line string) bool {
		m, ok, err := parseBestMove(line)
		if !ok {
			return false
		}
		move, parseErr = m, err
		return true
	})
	if err == nil {
		err = parseErr
	}
	if err != nil {
		return "", e.wrap("go", err)
	}
	return move, nil
}

// Quit asks the engine to exit and releases the session without waiting for the process.
func (e *Engine) Quit() error {
	var err = e.send("quit")
	if closeErr := e.stdin.Close(); err == nil && !errors.Is(closeErr, os.ErrClosed) {
		err = closeErr
	}
	if e.cmd != nil {
		go e.reap()
	}
	if err != nil {
		return e.wrap("quit", err)
	}
	return nil
}

// Kill terminates the engine process immediately.
func (e *Engine) Kill() {
	e.stdin.Close()
	if e.cmd != nil && e.cmd.Process != nil {
		e.cmd.Process.Kill()
		go e.cmd.Wait()
	}
}

func (e *Engine) reap() {
	var done = make(chan error, 1)
	go func() {
		done <- e.cmd.Wait()
	}()
	select {
	case err := <-done:
		e.logger.Debug().Err(err).Msg("engine exited")
	case <-time.After(quitGracePeriod):
		e.logger.Warn().Msg("engine did not exit after quit, killing")
		e.cmd.Process.Kill()
	}
}

func (e *Engine) send(command string) error {
	e.logger.Trace().Str("cmd", command).Msg(">")
	if _, err := e.writer.WriteString(command + "\n"); err != nil {
		return e.writeErr(err)
	}
	if err := e.writer.Flush(); err != nil {
		return e.writeErr(err)
	}
	return nil
}

func (e *Engine) writeErr(err error) error {
	if errors.Is(err, io.ErrClosedPipe) || errors.Is(err, os.ErrClosed) || errors.Is(err, syscall.EPIPE) {
		return fmt.Errorf("%w: %v", ErrEngineDisconnected, err)
	}
	return err
}

// readUntil discards lines until match accepts one.
func (e *Engine) readUntil(match func(string) bool) (string, error) {
	for e.scanner.Scan() {
		var line = e.scanner.Text()
		e.logger.Trace().Str("line", line).Msg("<")
		if match(line) {
			return line, nil
		}
	}
	if err := e.scanner.Err(); err != nil {
		return "", err
	}
	return "", ErrEngineDisconnected
}

func (e *Engine) wrap(op string, err error) error {
	return &EngineError{Engine: e.name, Op: op, Err: err}
}
