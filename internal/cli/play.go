package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/parley-dev/parley/internal/presentation/tui"
	"github.com/parley-dev/parley/pkg/playback"
)

const playHelp = `Commands:
  start        begin the dialogue at the entry node
  <1..5>       pick an answer by number
  restart      start over
  stop         end the dialogue
  history      show the visited path
  help         show this help
  quit         exit`

// PlaySession is the playback REPL over one Engine.
type PlaySession struct {
	Engine   *playback.Engine
	Renderer *tui.Renderer
	Out      io.Writer
	// PollInterval is the availability poll cadence.
	PollInterval time.Duration
}

// Run drives the session until quit, input end, or context cancellation.
func (s *PlaySession) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.Out, "start begins the dialogue; help lists commands")

	for ev := range pump(ctx, in, s.PollInterval) {
		switch ev.kind {
		case eventTick:
			if s.Engine.State() == playback.StatePresenting && !s.Engine.Poll(ctx) {
				fmt.Fprintln(s.Out, "dialogue stopped: audience no longer available")
			}
		case eventLine:
			if quit := s.exec(ctx, ev.line); quit {
				return nil
			}
		case eventEOF:
			return nil
		}
	}
	return nil
}

func (s *PlaySession) exec(ctx context.Context, line string) bool {
	verb := splitFirst(line)
	if verb == "" {
		return false
	}

	if index, err := strconv.Atoi(verb); err == nil {
		s.choose(ctx, index)
		return false
	}

	switch verb {
	case "quit", "exit", "q":
		s.Engine.Stop()
		return true
	case "help":
		fmt.Fprintln(s.Out, playHelp)
	case "start":
		if err := s.Engine.Start(ctx); err != nil {
			fmt.Fprintf(s.Out, "error: %v\n", err)
			break
		}
		s.showCurrent()
	case "restart":
		if err := s.Engine.Restart(ctx); err != nil {
			fmt.Fprintf(s.Out, "error: %v\n", err)
			break
		}
		s.showCurrent()
	case "stop":
		s.Engine.Stop()
		fmt.Fprintln(s.Out, "dialogue stopped")
	case "history":
		for i, id := range s.Engine.History() {
			fmt.Fprintf(s.Out, "%d. %s\n", i+1, id)
		}
	default:
		fmt.Fprintf(s.Out, "unknown command %q (try help)\n", verb)
	}
	return false
}

func (s *PlaySession) choose(ctx context.Context, index int) {
	warnings, err := s.Engine.SelectAnswer(ctx, index)
	for _, w := range warnings {
		fmt.Fprintf(s.Out, "warning: %s\n", w)
	}
	if err != nil {
		fmt.Fprintf(s.Out, "error: %v\n", err)
	}

	if s.Engine.State() == playback.StatePresenting {
		s.showCurrent()
		return
	}
	if err == nil {
		fmt.Fprintln(s.Out, "the dialogue has ended")
	}
}

func (s *PlaySession) showCurrent() {
	if node, ok := s.Engine.Current(); ok {
		fmt.Fprint(s.Out, s.Renderer.Node(node))
	}
}

func splitFirst(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
