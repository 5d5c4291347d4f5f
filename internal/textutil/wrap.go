package textutil

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Wrap breaks text into lines no wider than width terminal cells, splitting
// on whitespace. Words wider than width are hard-split. Existing newlines are
// kept. A width below one returns text unchanged.
func Wrap(text string, width int) string {
	if width < 1 {
		return text
	}
	paragraphs := strings.Split(text, "\n")
	for i, paragraph := range paragraphs {
		paragraphs[i] = wrapParagraph(paragraph, width)
	}
	return strings.Join(paragraphs, "\n")
}

func wrapParagraph(paragraph string, width int) string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	lineWidth := 0
	for _, word := range words {
		for runewidth.StringWidth(word) > width {
			if lineWidth > 0 {
				b.WriteByte('\n')
				lineWidth = 0
			}
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				_, size := utf8.DecodeRuneInString(word)
				head = word[:size]
			}
			b.WriteString(head)
			b.WriteByte('\n')
			word = word[len(head):]
		}
		w := runewidth.StringWidth(word)
		if w == 0 {
			continue
		}
		switch {
		case lineWidth == 0:
		case lineWidth+1+w > width:
			b.WriteByte('\n')
			lineWidth = 0
		default:
			b.WriteByte(' ')
			lineWidth++
		}
		b.WriteString(word)
		lineWidth += w
	}
	return strings.TrimRight(b.String(), "\n")
}
