package main

import (
	"bufio"
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

func saveOpenings(
	ctx context.Context,
	logger zerolog.Logger,
	filepath string,
	openings <-chan []string,
) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()
	var w = bufio.NewWriter(file)

	var ticker = time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	var totalCount int
	var uniqueCount int
	var repeats = make(map[string]struct{})

	var showProgress = func() {
		logger.Info().Int("total", totalCount).Int("unique", uniqueCount).Msg("openings")
	}

LOOP:
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			showProgress()
		case moves, ok := <-openings:
			if !ok {
				break LOOP
			}
			totalCount++
			var line = strings.Join(moves, " ")
			if _, found := repeats[line]; found {
				continue
			}
			repeats[line] = struct{}{}
			uniqueCount++
			if _, err := w.WriteString(line + "\n"); err != nil {
				return err
			}
		}
	}

	showProgress()
	return w.Flush()
}
