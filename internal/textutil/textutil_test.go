package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestLabelDirName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cat", "cat"},
		{"  dog ", "dog"},
		{"a/b", "a-b"},
		{"..", "__"},
		{".", "_"},
		{"", "_"},
		{"what?", "what"},
		{"3.5", "3.5"},
		{"café", "café"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LabelDirName(tt.in), "LabelDirName(%q)", tt.in)
	}
}

func TestSortLabelsNumericAware(t *testing.T) {
	labels := []string{"10", "b", "2", "A", "1"}
	SortLabels(labels, language.English)
	assert.Equal(t, []string{"1", "2", "10", "A", "b"}, labels)
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "the quick\nbrown fox\njumps", Wrap("the quick brown fox jumps", 10))
	for _, line := range strings.Split(Wrap("abcdefghijkl xy", 5), "\n") {
		assert.LessOrEqual(t, len(line), 5, "line %q exceeds width", line)
	}
	assert.Equal(t, "keep\n\nbreaks", Wrap("keep\n\nbreaks", 20), "paragraph breaks survive")
	assert.Equal(t, "unchanged", Wrap("unchanged", 0), "width 0 disables wrapping")
}
