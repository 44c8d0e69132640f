package uci

import (
	"errors"
	"fmt"
)

var (
	ErrEngineDisconnected = errors.New("engine closed its output")
	ErrProtocolViolation  = errors.New("protocol violation")
)

// SpawnError is returned when the engine process could not be started.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn engine %v: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// EngineError names the engine and the protocol step that failed.
type EngineError struct {
	Engine string
	Op     string
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine %v %v: %v", e.Engine, e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}
