// Package cli implements the interactive edit and play surfaces.
//
// Both surfaces are plain line REPLs driven by one event queue: user input
// lines and timer ticks arrive on a single channel and are processed one at
// a time, so the editor and engine always see strictly serialized events.
package cli

import (
	"bufio"
	"context"
	"io"
	"time"
)

type eventKind int

const (
	eventLine eventKind = iota
	eventTick
	eventEOF
)

type event struct {
	kind eventKind
	line string
}

// pump merges scanned input lines and timer ticks into one channel. It stops
// when the context is canceled or the input ends.
func pump(ctx context.Context, in io.Reader, tick time.Duration) <-chan event {
	if tick <= 0 {
		tick = time.Hour
	}
	events := make(chan event)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		defer close(events)
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case line, ok := <-lines:
				if !ok {
					select {
					case events <- event{kind: eventEOF}:
					case <-ctx.Done():
					}
					return
				}
				select {
				case events <- event{kind: eventLine, line: line}:
				case <-ctx.Done():
					return
				}
			case <-ticker.C:
				select {
				case events <- event{kind: eventTick}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events
}
