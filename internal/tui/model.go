// Package tui drives an annotation session from a terminal. Model is a
// bubbletea program for interactive terminals; RunLines is a line-oriented
// fallback for pipes, dumb terminals and scripted input. Both are thin
// adapters: every state change goes through the annotation.Session and the
// UI redraws from the events it emits.
package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"labeler/internal/annotation"
	"labeler/internal/labels"
	"labeler/internal/render"
	"labeler/internal/services"
)

// Views supplies the rendered form of the current item.
type Views interface {
	View() render.View
}

const sliderWidth = 30

type inputMode int

const (
	modeLabel inputMode = iota
	modeAddLabel
)

// Model is the bubbletea model for a session.
type Model struct {
	session *annotation.Session
	views   Views

	current  annotation.Current
	progress annotation.Progress
	view     render.View

	mode     inputMode
	focus    int
	slider   float64
	input    string
	addInput string
	status   string
	err      error
	done     bool
	quit     bool
	width    int
}

// NewModel wires a Model to session. The session should already be started
// (see Start) so the first item is on screen.
func NewModel(session *annotation.Session, views Views) *Model {
	m := &Model{session: session, views: views}
	session.Subscribe(m.handleEvent)
	if cur, ok := session.Current(); ok {
		m.handleEvent(annotation.Event{Kind: annotation.EventShown, Current: cur, Progress: session.Progress()})
	}
	m.done = session.Done()
	m.progress = session.Progress()
	return m
}

// Start shows the first item unless the session is already running.
func Start(session *annotation.Session) error {
	if session.Cursor() >= 0 || session.Done() {
		return nil
	}
	return session.Advance()
}

// Quit reports whether the user left before the session completed.
func (m *Model) Quit() bool { return m.quit && !m.done }

// Err returns the last error that ended the program, if any.
func (m *Model) Err() error { return m.err }

func (m *Model) handleEvent(ev annotation.Event) {
	m.progress = ev.Progress
	switch ev.Kind {
	case annotation.EventShown:
		m.current = ev.Current
		if m.views != nil {
			m.view = m.views.View()
		}
		m.resetControls()
	case annotation.EventLabelAdded:
		m.status = fmt.Sprintf("Added label %q", ev.Label.String())
	case annotation.EventCompleted:
		m.done = true
	}
}

// resetControls positions every control on the label previously recorded
// for the current item, or on its default.
func (m *Model) resetControls() {
	m.mode = modeLabel
	m.focus = 0
	m.input = ""
	cfg := m.session.Config()
	rng := cfg.Range()
	if n, ok := rng.Initial().Number(); ok {
		m.slider = n
	}
	if !m.current.Labeled {
		return
	}
	prev := m.current.Previous
	switch m.session.Affordance() {
	case labels.Buttons, labels.ChoiceList:
		for i, opt := range m.session.LabelOptions() {
			if opt == prev.String() {
				m.focus = i
			}
		}
	case labels.Slider:
		if n, ok := prev.Number(); ok {
			m.slider = rng.Clamp(n)
		}
	case labels.TextInput:
		m.input = prev.String()
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.done {
		return tea.Quit
	}
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		m.quit = true
		return tea.Quit
	}
	if m.done {
		return tea.Quit
	}
	m.status = ""

	if m.mode == modeAddLabel {
		return m.handleAddKey(msg)
	}

	switch key {
	case "esc":
		m.quit = true
		return tea.Quit
	case "pgdown", "ctrl+n":
		return m.apply(m.session.Advance())
	case "pgup", "ctrl+p":
		return m.apply(m.session.Retreat())
	case "ctrl+s":
		return m.apply(m.session.Skip())
	case "ctrl+a":
		if m.session.Config().Kind() != labels.KindEnumerated {
			m.status = "Only labeled choices can be extended"
			return nil
		}
		m.mode = modeAddLabel
		m.addInput = ""
		return nil
	case "enter":
		label, err := m.selectedLabel()
		if err != nil {
			m.status = err.Error()
			return nil
		}
		return m.apply(m.session.Submit(label))
	}

	switch m.session.Affordance() {
	case labels.Buttons:
		return m.handleButtons(msg)
	case labels.ChoiceList:
		m.handleChoiceList(key)
	case labels.Slider:
		m.handleSlider(key)
	case labels.TextInput:
		m.handleText(msg)
	}
	return nil
}

func (m *Model) handleButtons(msg tea.KeyMsg) tea.Cmd {
	options := m.session.LabelOptions()
	if len(options) == 0 {
		return nil
	}
	switch msg.String() {
	case "left", "shift+tab":
		m.focus = (m.focus - 1 + len(options)) % len(options)
	case "right", "tab":
		m.focus = (m.focus + 1) % len(options)
	default:
		if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
			return nil
		}
		r := msg.Runes[0]
		if r < '1' || r > '9' {
			return nil
		}
		idx := int(r - '1')
		if idx >= len(options) {
			return nil
		}
		m.focus = idx
		return m.apply(m.session.Submit(labels.Text(options[idx])))
	}
	return nil
}

func (m *Model) handleChoiceList(key string) {
	n := len(m.session.LabelOptions())
	if n == 0 {
		return
	}
	switch key {
	case "up", "k":
		if m.focus > 0 {
			m.focus--
		}
	case "down", "j":
		if m.focus < n-1 {
			m.focus++
		}
	case "home":
		m.focus = 0
	case "end":
		m.focus = n - 1
	}
}

func (m *Model) handleSlider(key string) {
	rng := m.session.Config().Range()
	switch key {
	case "left", "h":
		m.slider = rng.Clamp(m.slider - rng.Step)
	case "right", "l":
		m.slider = rng.Clamp(m.slider + rng.Step)
	case "home":
		m.slider = rng.Min
	case "end":
		m.slider = rng.Max
	}
}

func (m *Model) handleText(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
}

func (m *Model) handleAddKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeLabel
	case tea.KeyEnter:
		if err := m.session.AddLabel(m.addInput); err != nil {
			m.status = err.Error()
			return nil
		}
		m.mode = modeLabel
		m.addInput = ""
	case tea.KeyBackspace:
		if r := []rune(m.addInput); len(r) > 0 {
			m.addInput = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.addInput += " "
	case tea.KeyRunes:
		m.addInput += string(msg.Runes)
	}
	return nil
}

func (m *Model) selectedLabel() (labels.Value, error) {
	cfg := m.session.Config()
	switch m.session.Affordance() {
	case labels.Buttons, labels.ChoiceList:
		options := m.session.LabelOptions()
		if m.focus < 0 || m.focus >= len(options) {
			return labels.Value{}, errors.New("no label selected")
		}
		return labels.Text(options[m.focus]), nil
	case labels.Slider:
		return cfg.Range().Value(m.slider), nil
	default:
		return cfg.ParseInput(m.input, nil)
	}
}

// apply records the outcome of a session call. Navigation errors such as
// skip being disabled stay on screen; anything else ends the program.
func (m *Model) apply(err error) tea.Cmd {
	switch {
	case err == nil:
	case errors.Is(err, services.ErrSkipDisabled),
		errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrNotStarted):
		m.status = err.Error()
		return nil
	default:
		m.err = err
		return tea.Quit
	}
	if m.done {
		return tea.Quit
	}
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.done {
		return doneStyle.Render("Annotation done.") + "\n" + progressStyle.Render(progressLine(m.progress)) + "\n"
	}
	if m.err != nil {
		return errorStyle.Render(m.err.Error()) + "\n"
	}

	var b strings.Builder
	b.WriteString(progressStyle.Render(progressLine(m.progress)))
	b.WriteString("\n\n")
	b.WriteString(m.renderItem())
	b.WriteString("\n\n")
	b.WriteString(m.renderControls())
	b.WriteString("\n")
	if m.mode == modeAddLabel {
		b.WriteString("\nNew label: ")
		b.WriteString(inputStyle.Render(m.addInput + " "))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderItem() string {
	var parts []string
	if m.view.Title != "" {
		parts = append(parts, titleStyle.Render(m.view.Title))
	}
	if m.view.Detail != "" {
		style := detailStyle
		if m.view.Missing {
			style = missingStyle
		}
		parts = append(parts, style.Render(m.view.Detail))
	}
	body := m.view.Body
	if body == "" {
		body = m.current.Item.Key()
	}
	parts = append(parts, bodyStyle.Render(body))
	if m.current.Labeled {
		parts = append(parts, detailStyle.Render("Labeled: "+m.current.Previous.String()))
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderControls() string {
	switch m.session.Affordance() {
	case labels.Buttons:
		options := m.session.LabelOptions()
		rendered := make([]string, 0, len(options))
		for i, opt := range options {
			rendered = append(rendered, m.optionStyle(i, opt).Render(fmt.Sprintf("%d %s", i+1, opt)))
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	case labels.ChoiceList:
		var b strings.Builder
		for i, opt := range m.session.LabelOptions() {
			cursor := "  "
			if i == m.focus {
				cursor = "> "
			}
			line := cursor + opt
			if m.current.Labeled && opt == m.current.Previous.String() {
				line = labeledLineStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		return strings.TrimRight(b.String(), "\n")
	case labels.Slider:
		return m.renderSlider()
	default:
		return "Label: " + inputStyle.Render(m.input+" ")
	}
}

func (m *Model) optionStyle(i int, opt string) lipgloss.Style {
	switch {
	case m.current.Labeled && opt == m.current.Previous.String():
		return labeledOptionStyle
	case i == m.focus:
		return focusedOptionStyle
	default:
		return optionStyle
	}
}

func (m *Model) renderSlider() string {
	rng := m.session.Config().Range()
	pos := 0
	if span := rng.Max - rng.Min; span > 0 {
		pos = int((m.slider - rng.Min) / span * float64(sliderWidth-1))
	}
	track := sliderTrackStyle.Render(strings.Repeat("─", pos)) +
		sliderThumbStyle.Render("●") +
		sliderTrackStyle.Render(strings.Repeat("─", sliderWidth-1-pos))
	value := rng.Value(m.slider)
	return fmt.Sprintf("%s %s %s  %s", labels.Float(rng.Min).String(), track, labels.Float(rng.Max).String(), titleStyle.Render(value.String()))
}

func (m *Model) helpLine() string {
	var keys []string
	switch m.session.Affordance() {
	case labels.Buttons:
		keys = append(keys, "1-9 label", "←/→ select")
	case labels.ChoiceList:
		keys = append(keys, "↑/↓ select")
	case labels.Slider:
		keys = append(keys, "←/→ adjust")
	}
	keys = append(keys, "enter submit", "pgup prev", "pgdn next")
	if m.session.IncludeSkip() {
		keys = append(keys, "ctrl+s skip")
	}
	if m.session.Config().Kind() == labels.KindEnumerated {
		keys = append(keys, "ctrl+a add label")
	}
	keys = append(keys, "esc quit")
	return strings.Join(keys, " · ")
}

func progressLine(p annotation.Progress) string {
	return fmt.Sprintf("%d examples annotated, %d examples left", p.Annotated, p.Remaining)
}
