package main

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ChizhovVadim/enginematch/internal/arena"
)

func TestRandomOpeningIsLegal(t *testing.T) {
	var rnd = rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		var moves, ok = randomOpening(rnd, 8)
		if !ok {
			continue
		}
		if len(moves) != 8 {
			t.Fatalf("got %v moves", len(moves))
		}
		var openings, err = arena.LoadOpenings(strings.NewReader(strings.Join(moves, " ")))
		if err != nil || len(openings) != 1 {
			t.Fatalf("%v: %v", moves, err)
		}
	}
}

func TestRandomPipelineDeduplicates(t *testing.T) {
	var output = filepath.Join(t.TempDir(), "openings.txt")
	// one ply from the start position has only 20 distinct lines
	var err = generateOpeningsRandomPipeline(context.Background(), zerolog.Nop(), output, 1, 200, 3)
	if err != nil {
		t.Fatal(err)
	}
	var data, _ = os.ReadFile(output)
	var lines = strings.Fields(strings.TrimSpace(string(data)))
	if len(lines) == 0 || len(lines) > 20 {
		t.Errorf("got %v lines", len(lines))
	}
}

func TestPgnPipeline(t *testing.T) {
	var dir = t.TempDir()
	var input = filepath.Join(dir, "games.pgn")
	var output = filepath.Join(dir, "openings.txt")
	var games = `[Event "a"]

1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 1-0

[Event "b"]

1. d4 d5 0-1

[Event "c"]

1. e4 e5 2. Nf3 Nc6 3. Bc4 Bc5 1/2-1/2
`
	if err := os.WriteFile(input, []byte(games), 0644); err != nil {
		t.Fatal(err)
	}
	if err := generateOpeningsPipeline(context.Background(), zerolog.Nop(), 2, input, output, 4); err != nil {
		t.Fatal(err)
	}
	var data, _ = os.ReadFile(output)
	var lines = strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 || lines[0] != "e2e4 e7e5 g1f3 b8c6" {
		t.Errorf("got %q", lines)
	}
}
