// Package render turns annotation items into terminal-friendly views. The
// Renderer doubles as the session display callback: every time the cursor
// lands on an item it rebuilds the View that the UI then draws.
package render

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"labeler/internal/annotation"
	"labeler/internal/items"
	"labeler/internal/textutil"
)

// View is what the UI shows for one item.
type View struct {
	Title string
	Body  string
	// Detail is a single metadata line such as dimensions and size.
	Detail  string
	Missing bool
}

// Renderer builds views for items of a single source.
type Renderer struct {
	kind  items.Kind
	root  string
	width int
	last  View
}

// New constructs a Renderer. Text items are wrapped at width cells.
func New(src items.Source, width int) *Renderer {
	return &Renderer{kind: src.Kind, root: src.Root, width: width}
}

// Render rebuilds the current view for item. Image files that disappeared
// are reported in the view rather than as an error so labeling can go on.
func (r *Renderer) Render(item annotation.Item) error {
	view, err := r.Describe(item)
	if err != nil {
		return err
	}
	r.last = view
	return nil
}

// View returns the view built by the last Render call.
func (r *Renderer) View() View { return r.last }

// Describe builds the view for item without changing the current view.
func (r *Renderer) Describe(item annotation.Item) (View, error) {
	if r.kind == items.KindText {
		return View{Body: textutil.Wrap(item.Key(), r.width)}, nil
	}
	return describeImage(filepath.Join(r.root, filepath.FromSlash(item.Key())), item.Key())
}

func describeImage(path, key string) (View, error) {
	view := View{Title: key, Body: path}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			view.Missing = true
			view.Detail = "file missing"
			return view, nil
		}
		return View{}, err
	}

	size := humanize.IBytes(uint64(info.Size()))
	file, err := os.Open(path)
	if err != nil {
		return View{}, err
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		view.Detail = fmt.Sprintf("%s, unrecognized image format", size)
		return view, nil
	}
	view.Detail = fmt.Sprintf("%dx%d %s, %s", cfg.Width, cfg.Height, format, size)
	return view, nil
}
