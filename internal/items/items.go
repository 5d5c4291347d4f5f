// Package items builds annotation item lists from the sources the CLI accepts:
// a directory of images, a text file with one item per line, or a JSON array
// of strings.
package items

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"labeler/internal/annotation"
	"labeler/internal/services"
)

// Kind tells renderers how to present items.
type Kind int

const (
	// KindImage items are file paths relative to Source.Root.
	KindImage Kind = iota
	// KindText items are the text to label.
	KindText
)

func (k Kind) String() string {
	if k == KindText {
		return "text"
	}
	return "image"
}

// Source is a loaded item list.
type Source struct {
	Kind  Kind
	Root  string
	Items []annotation.Item
}

// Load reads items from path. Directories are walked recursively for files
// accepted by isImage; keys are slash-separated paths relative to the
// directory in lexical order. A .json file must hold an array of strings.
// Any other file contributes one item per non-blank line.
func Load(path string, isImage func(name string) bool) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Source{}, services.Wrap(services.ErrSourceNotFound, "items", "load", fmt.Sprintf("%s does not exist", path), err)
		}
		return Source{}, services.Wrap(services.ErrTransient, "items", "load", path, err)
	}

	var src Source
	switch {
	case info.IsDir():
		src, err = loadDirectory(path, isImage)
	case strings.EqualFold(filepath.Ext(path), ".json"):
		src, err = loadJSON(path)
	default:
		src, err = loadLines(path)
	}
	if err != nil {
		return Source{}, err
	}
	if len(src.Items) == 0 {
		return Source{}, services.Wrap(services.ErrValidation, "items", "load", fmt.Sprintf("no items found in %s", path), nil)
	}
	return src, nil
}

func loadDirectory(root string, isImage func(string) bool) (Source, error) {
	var found []annotation.Item
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || (isImage != nil && !isImage(d.Name())) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		found = append(found, annotation.Item(filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return Source{}, services.Wrap(services.ErrTransient, "items", "walk directory", root, err)
	}
	slices.Sort(found)
	return Source{Kind: KindImage, Root: root, Items: found}, nil
}

func loadJSON(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, services.Wrap(services.ErrTransient, "items", "read", path, err)
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return Source{}, services.Wrap(services.ErrValidation, "items", "decode", fmt.Sprintf("%s must hold a JSON array of strings", path), err)
	}
	src := Source{Kind: KindText, Root: filepath.Dir(path)}
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			src.Items = append(src.Items, annotation.Item(v))
		}
	}
	return src, nil
}

func loadLines(path string) (Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return Source{}, services.Wrap(services.ErrTransient, "items", "read", path, err)
	}
	defer file.Close()

	src := Source{Kind: KindText, Root: filepath.Dir(path)}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) != "" {
			src.Items = append(src.Items, annotation.Item(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return Source{}, services.Wrap(services.ErrTransient, "items", "read", path, err)
	}
	return src, nil
}

// WithoutLabeled drops items whose key already has a label in labeled.
func WithoutLabeled(list []annotation.Item, labeled func(key string) bool) []annotation.Item {
	if labeled == nil {
		return list
	}
	out := make([]annotation.Item, 0, len(list))
	for _, item := range list {
		if !labeled(item.Key()) {
			out = append(out, item)
		}
	}
	return out
}
