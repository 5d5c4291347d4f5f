package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"labeler/internal/annotation"
	"labeler/internal/labels"
	"labeler/internal/render"
	"labeler/internal/services"
)

// LineResult summarizes a line-mode run.
type LineResult struct {
	Completed bool
}

// RunLines drives session from line-oriented input. Each line is either a
// command (":next", ":prev", ":skip", ":add <label>", ":quit", ":help") or a
// label for the current item. Input ending before completion is treated as
// quitting.
func RunLines(ctx context.Context, session *annotation.Session, views Views, in io.Reader, out io.Writer) (LineResult, error) {
	lr := &lineRunner{session: session, views: views, out: out}
	session.Subscribe(lr.handleEvent)
	if err := Start(session); err != nil {
		return LineResult{}, err
	}
	if cur, ok := session.Current(); ok && lr.shown == 0 {
		lr.show(cur, session.Progress())
	}

	scanner := bufio.NewScanner(in)
	for !session.Done() {
		if err := ctx.Err(); err != nil {
			return LineResult{}, err
		}
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return LineResult{}, scanner.Err()
		}
		quit, err := lr.handle(scanner.Text())
		if err != nil {
			return LineResult{}, err
		}
		if quit {
			return LineResult{}, nil
		}
	}
	return LineResult{Completed: true}, nil
}

type lineRunner struct {
	session *annotation.Session
	views   Views
	out     io.Writer
	shown   int
}

func (lr *lineRunner) handleEvent(ev annotation.Event) {
	switch ev.Kind {
	case annotation.EventShown:
		lr.show(ev.Current, ev.Progress)
	case annotation.EventLabelAdded:
		fmt.Fprintf(lr.out, "Added label %q\n", ev.Label.String())
		lr.printControls(ev.Current)
	case annotation.EventCompleted:
		fmt.Fprintln(lr.out, "Annotation done.")
		fmt.Fprintln(lr.out, progressLine(ev.Progress))
	}
}

func (lr *lineRunner) show(cur annotation.Current, progress annotation.Progress) {
	lr.shown++
	fmt.Fprintln(lr.out)
	fmt.Fprintln(lr.out, progressLine(progress))
	var view render.View
	if lr.views != nil {
		view = lr.views.View()
	}
	if view.Title != "" {
		fmt.Fprintln(lr.out, view.Title)
	}
	if view.Detail != "" {
		fmt.Fprintf(lr.out, "  (%s)\n", view.Detail)
	}
	body := view.Body
	if body == "" {
		body = cur.Item.Key()
	}
	for _, line := range strings.Split(body, "\n") {
		fmt.Fprintf(lr.out, "  %s\n", line)
	}
	lr.printControls(cur)
}

func (lr *lineRunner) printControls(cur annotation.Current) {
	cfg := lr.session.Config()
	switch cfg.Kind() {
	case labels.KindEnumerated:
		for i, opt := range lr.session.LabelOptions() {
			marker := " "
			if cur.Labeled && cur.Previous.String() == opt {
				marker = "*"
			}
			fmt.Fprintf(lr.out, " %s%d) %s\n", marker, i+1, opt)
		}
	case labels.KindRanged:
		rng := cfg.Range()
		fmt.Fprintf(lr.out, "  value in [%s, %s], step %s\n",
			labels.Float(rng.Min).String(), labels.Float(rng.Max).String(), labels.Float(rng.Step).String())
		if cur.Labeled {
			fmt.Fprintf(lr.out, "  current: %s\n", cur.Previous.String())
		}
	default:
		if cur.Labeled {
			fmt.Fprintf(lr.out, "  current: %s\n", cur.Previous.String())
		}
	}
}

func (lr *lineRunner) handle(line string) (bool, error) {
	trimmed := strings.TrimSpace(line)
	var err error
	switch {
	case trimmed == ":quit" || trimmed == ":q":
		return true, nil
	case trimmed == ":next":
		err = lr.session.Advance()
	case trimmed == ":prev":
		err = lr.session.Retreat()
	case trimmed == ":skip":
		err = lr.session.Skip()
	case strings.HasPrefix(trimmed, ":add "):
		err = lr.session.AddLabel(strings.TrimPrefix(trimmed, ":add "))
	case trimmed == ":help":
		lr.printHelp()
		return false, nil
	case trimmed == "" && lr.session.Config().Kind() != labels.KindFreeform:
		return false, nil
	default:
		var label labels.Value
		label, err = lr.session.Config().ParseInput(line, lr.session.ExtraLabels())
		if err == nil {
			err = lr.session.Submit(label)
		}
	}
	if err == nil {
		return false, nil
	}
	if recoverable(err) {
		fmt.Fprintln(lr.out, err.Error())
		return false, nil
	}
	return false, err
}

func (lr *lineRunner) printHelp() {
	fmt.Fprintln(lr.out, "Type a label (or its number) and press enter.")
	fmt.Fprintln(lr.out, "Commands: :next :prev :skip :add <label> :quit")
}

func recoverable(err error) bool {
	return errors.Is(err, services.ErrValidation) ||
		errors.Is(err, services.ErrSkipDisabled) ||
		errors.Is(err, services.ErrInvalidConfiguration) ||
		errors.Is(err, services.ErrNotStarted)
}
