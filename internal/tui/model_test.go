package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labeler/internal/annotation"
	"labeler/internal/labels"
	"labeler/internal/render"
)

type staticViews struct{ view render.View }

func (s staticViews) View() render.View { return s.view }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func newModel(t *testing.T, cfg labels.Config, opts ...annotation.Option) (*Model, *annotation.Session, *[]annotation.Annotation) {
	t.Helper()
	saved := &[]annotation.Annotation{}
	opts = append(opts, annotation.WithPersister(annotation.PersisterFunc(func(list []annotation.Annotation) error {
		*saved = list
		return nil
	})))
	s := annotation.New([]annotation.Item{"a.jpg", "b.jpg", "c.jpg"}, cfg, opts...)
	require.NoError(t, Start(s))
	return NewModel(s, staticViews{}), s, saved
}

func send(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestButtonsDigitSubmits(t *testing.T) {
	cfg, err := labels.Enumerated("cat", "dog")
	require.NoError(t, err)
	m, s, saved := newModel(t, cfg)

	assert.Contains(t, m.View(), "0 examples annotated, 3 examples left")
	send(m, runes("2"))
	assert.Equal(t, 1, s.Cursor())
	require.Len(t, *saved, 1)
	assert.Equal(t, "dog", (*saved)[0].Label.String())
	assert.Contains(t, m.View(), "1 examples annotated, 2 examples left")
}

func TestButtonsEnterSubmitsFocused(t *testing.T) {
	cfg, err := labels.Enumerated("cat", "dog", "fox")
	require.NoError(t, err)
	m, _, saved := newModel(t, cfg)

	send(m, key(tea.KeyRight), key(tea.KeyRight), key(tea.KeyEnter))
	require.Len(t, *saved, 1)
	assert.Equal(t, "fox", (*saved)[0].Label.String())
}

func TestButtonsWithoutOptionsIgnoreNavigation(t *testing.T) {
	cfg, err := labels.FromValue([]string{})
	require.NoError(t, err)
	m, s, saved := newModel(t, cfg)

	require.NotPanics(t, func() {
		send(m, key(tea.KeyRight), key(tea.KeyLeft), key(tea.KeyTab), runes("1"), key(tea.KeyEnd))
	})
	assert.Equal(t, 0, s.Cursor())
	assert.Empty(t, *saved)

	send(m, key(tea.KeyEnter))
	assert.Contains(t, m.View(), "no label selected")

	send(m, key(tea.KeyCtrlA), runes("cat"), key(tea.KeyEnter), key(tea.KeyRight), key(tea.KeyEnter))
	require.Len(t, *saved, 1)
	assert.Equal(t, "cat", (*saved)[0].Label.String())
}

func TestRetreatFocusesPreviousLabel(t *testing.T) {
	cfg, err := labels.Enumerated("cat", "dog", "fox")
	require.NoError(t, err)
	m, s, _ := newModel(t, cfg)

	send(m, runes("3"), key(tea.KeyPgUp))
	assert.Equal(t, 0, s.Cursor())
	assert.Equal(t, 2, m.focus)
	assert.Contains(t, m.View(), "Labeled: fox")
}

func TestChoiceListNavigation(t *testing.T) {
	cfg, err := labels.Enumerated("a", "b", "c")
	require.NoError(t, err)
	m, _, saved := newModel(t, cfg, annotation.WithChoiceThreshold(2))

	send(m, key(tea.KeyDown), key(tea.KeyDown), key(tea.KeyDown), key(tea.KeyUp), key(tea.KeyEnter))
	require.Len(t, *saved, 1)
	assert.Equal(t, "b", (*saved)[0].Label.String())
}

func TestSliderAdjustsAndSubmits(t *testing.T) {
	cfg, err := labels.Ranged(labels.Range{Min: 0, Max: 10, Step: 2, Integer: true})
	require.NoError(t, err)
	m, _, saved := newModel(t, cfg)

	send(m, key(tea.KeyRight), key(tea.KeyRight), key(tea.KeyLeft), key(tea.KeyRight), key(tea.KeyRight), key(tea.KeyEnter))
	require.Len(t, *saved, 1)
	assert.Equal(t, labels.Int(6), (*saved)[0].Label)
}

func TestTextInputTyping(t *testing.T) {
	m, _, saved := newModel(t, labels.Freeform())

	send(m, runes("hel"), runes("p"), key(tea.KeyBackspace), runes("lo"), key(tea.KeySpace), runes("x"), key(tea.KeyEnter))
	require.Len(t, *saved, 1)
	assert.Equal(t, "hello x", (*saved)[0].Label.String())
}

func TestAddLabelMode(t *testing.T) {
	cfg, err := labels.Enumerated("cat")
	require.NoError(t, err)
	m, s, _ := newModel(t, cfg)

	send(m, key(tea.KeyCtrlA), runes("bird"), key(tea.KeyEnter))
	assert.Equal(t, []string{"cat", "bird"}, s.LabelOptions())
	assert.Equal(t, modeLabel, m.mode)
	assert.Contains(t, m.View(), "2 bird")
}

func TestSkipDisabledShowsStatus(t *testing.T) {
	cfg, err := labels.Enumerated("cat")
	require.NoError(t, err)
	m, s, _ := newModel(t, cfg, annotation.WithIncludeSkip(false))

	cmd := send(m, key(tea.KeyCtrlS))
	assert.Nil(t, cmd)
	assert.Equal(t, 0, s.Cursor())
	assert.Contains(t, m.View(), "skip")
	assert.NotContains(t, m.helpLine(), "ctrl+s")
}

func TestCompletionQuits(t *testing.T) {
	cfg, err := labels.Enumerated("cat")
	require.NoError(t, err)
	m, s, _ := newModel(t, cfg)

	send(m, runes("1"), key(tea.KeyPgDown))
	cmd := send(m, runes("1"))
	require.NotNil(t, cmd)
	assert.True(t, s.Done())
	assert.False(t, m.Quit())
	assert.True(t, strings.HasPrefix(m.View(), "Annotation done."))
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestEscQuitsEarly(t *testing.T) {
	cfg, err := labels.Enumerated("cat")
	require.NoError(t, err)
	m, _, _ := newModel(t, cfg)

	cmd := send(m, key(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.True(t, m.Quit())
}
