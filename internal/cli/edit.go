package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/parley-dev/parley/internal/presentation/tui"
	"github.com/parley-dev/parley/pkg/domain"
	"github.com/parley-dev/parley/pkg/editor"
)

// clearWord is the command-surface spelling for "unset". It never reaches
// the domain; the editor has explicit clear operations.
const clearWord = "none"

const editHelp = `Commands:
  new <id>              create a node and select it
  select <id>           change the selected node
  title <text>          set the selected node's title
  ans <slot> <text>     set answer text (slot 1..5, gaps are filled)
  next <slot> <id|none> link an answer to a node, or clear the link
  fn <slot> <name|none> bind a callback to an answer, or clear it
  del <id>              delete a node
  list                  list all nodes
  save                  save now (edits also autosave)
  help                  show this help
  quit                  save and exit`

// EditSession is the edit REPL over one Editor.
type EditSession struct {
	Editor   *editor.Editor
	Renderer *tui.Renderer
	Out      io.Writer
	// TickInterval is the autosave driver cadence.
	TickInterval time.Duration
}

// Run drives the session until quit, input end, or context cancellation.
// Unsaved changes are flushed on the way out.
func (s *EditSession) Run(ctx context.Context, in io.Reader) error {
	for ev := range pump(ctx, in, s.TickInterval) {
		switch ev.kind {
		case eventTick:
			if _, err := s.Editor.Tick(ctx); err != nil {
				fmt.Fprintf(s.Out, "autosave failed: %v\n", err)
			}
		case eventLine:
			if quit := s.exec(ctx, ev.line); quit {
				return s.flush(ctx)
			}
		case eventEOF:
			return s.flush(ctx)
		}
	}
	return s.flush(ctx)
}

// exec handles one command line and reports whether the session should end.
func (s *EditSession) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	verb, args := fields[0], fields[1:]

	var err error
	switch verb {
	case "quit", "exit", "q":
		return true

	case "help":
		fmt.Fprintln(s.Out, editHelp)

	case "new":
		if len(args) != 1 {
			err = fmt.Errorf("usage: new <id>")
			break
		}
		if err = s.Editor.CreateNode(ctx, args[0]); err == nil {
			s.showCurrent()
		}

	case "select":
		if len(args) != 1 {
			err = fmt.Errorf("usage: select <id>")
			break
		}
		if err = s.Editor.Select(ctx, args[0]); err == nil {
			s.showCurrent()
		}

	case "title":
		if len(args) == 0 {
			err = fmt.Errorf("usage: title <text>")
			break
		}
		if err = s.requireCurrent(); err != nil {
			break
		}
		err = s.Editor.SetTitle(ctx, s.Editor.Current(), strings.Join(args, " "))

	case "ans":
		var slot int
		slot, err = s.slotArg(args, "ans <slot> <text>")
		if err != nil {
			break
		}
		var warnings []domain.Warning
		warnings, err = s.Editor.SetAnswerText(ctx, s.Editor.Current(), slot, strings.Join(args[1:], " "))
		s.printWarnings(warnings)

	case "next":
		var slot int
		slot, err = s.slotArg(args, "next <slot> <id|none>")
		if err != nil {
			break
		}
		if args[1] == clearWord {
			err = s.Editor.ClearAnswerNext(ctx, s.Editor.Current(), slot)
		} else {
			err = s.Editor.SetAnswerNext(ctx, s.Editor.Current(), slot, args[1])
		}

	case "fn":
		var slot int
		slot, err = s.slotArg(args, "fn <slot> <name|none>")
		if err != nil {
			break
		}
		if args[1] == clearWord {
			err = s.Editor.ClearAnswerCallback(ctx, s.Editor.Current(), slot)
		} else {
			err = s.Editor.SetAnswerCallback(ctx, s.Editor.Current(), slot, args[1])
		}

	case "del":
		if len(args) != 1 {
			err = fmt.Errorf("usage: del <id>")
			break
		}
		var warnings []domain.Warning
		warnings, err = s.Editor.DeleteNode(ctx, args[0])
		s.printWarnings(warnings)

	case "list":
		fmt.Fprint(s.Out, s.Renderer.Summary(s.Editor.ListNodes(ctx)))

	case "save":
		if err = s.Editor.Save(ctx); err == nil {
			fmt.Fprintln(s.Out, "saved")
		}

	default:
		err = fmt.Errorf("unknown command %q (try help)", verb)
	}

	if err != nil {
		fmt.Fprintf(s.Out, "error: %v\n", err)
	}
	return false
}

func (s *EditSession) slotArg(args []string, usage string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	if err := s.requireCurrent(); err != nil {
		return 0, err
	}
	slot, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("slot must be a number, got %q", args[0])
	}
	return slot, nil
}

func (s *EditSession) requireCurrent() error {
	if s.Editor.Current() == "" {
		return fmt.Errorf("no node selected (use new or select)")
	}
	return nil
}

func (s *EditSession) showCurrent() {
	if node, ok := s.Editor.Node(s.Editor.Current()); ok {
		fmt.Fprint(s.Out, s.Renderer.Node(node))
	}
}

func (s *EditSession) printWarnings(warnings []domain.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(s.Out, "warning: %s\n", w)
	}
}

func (s *EditSession) flush(ctx context.Context) error {
	if !s.Editor.Dirty() {
		return nil
	}
	return s.Editor.Save(ctx)
}
