package annotation

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"labeler/internal/labels"
	"labeler/internal/logging"
	"labeler/internal/services"
)

// Option customizes a Session at construction time.
type Option func(*settings)

type settings struct {
	shuffle     bool
	rng         *rand.Rand
	includeSkip bool
	threshold   int
	render      Renderer
	persist     Persister
	logger      *slog.Logger
	prior       []Annotation
	id          string
}

// WithShuffle shuffles the items before the session starts. A nil rng uses
// the global source.
func WithShuffle(rng *rand.Rand) Option {
	return func(s *settings) {
		s.shuffle = true
		s.rng = rng
	}
}

// WithIncludeSkip controls whether Skip is offered. Defaults to true.
func WithIncludeSkip(include bool) Option {
	return func(s *settings) { s.includeSkip = include }
}

// WithChoiceThreshold sets the largest option count shown as buttons.
func WithChoiceThreshold(threshold int) Option {
	return func(s *settings) { s.threshold = threshold }
}

// WithRenderer sets the display callback.
func WithRenderer(render Renderer) Option {
	return func(s *settings) { s.render = render }
}

// WithPersister sets where the annotation list is saved.
func WithPersister(p Persister) Option {
	return func(s *settings) { s.persist = p }
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithPrior seeds the session with annotations read back from an earlier
// document so their items show as already labeled.
func WithPrior(prior []Annotation) Option {
	return func(s *settings) { s.prior = append([]Annotation(nil), prior...) }
}

// WithSessionID tags log lines with the given identifier.
func WithSessionID(id string) Option {
	return func(s *settings) { s.id = id }
}

// Session tracks annotation progress over an item sequence.
type Session struct {
	id          string
	items       []Item
	cfg         labels.Config
	threshold   int
	includeSkip bool

	cursor      int
	state       State
	annotations []Annotation
	byKey       map[string]int
	extra       []string

	render      Renderer
	persist     Persister
	logger      *slog.Logger
	subscribers []func(Event)
}

// New constructs an Active session positioned before the first item.
func New(items []Item, cfg labels.Config, opts ...Option) *Session {
	st := settings{includeSkip: true, threshold: labels.DefaultChoiceThreshold}
	for _, opt := range opts {
		opt(&st)
	}

	copied := append([]Item(nil), items...)
	if st.shuffle {
		swap := func(i, j int) { copied[i], copied[j] = copied[j], copied[i] }
		if st.rng != nil {
			st.rng.Shuffle(len(copied), swap)
		} else {
			rand.Shuffle(len(copied), swap)
		}
	}

	logger := st.logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "session")
	if st.id != "" {
		logger = logger.With(logging.String(logging.FieldSessionID, st.id))
	}

	s := &Session{
		id:          st.id,
		items:       copied,
		cfg:         cfg,
		threshold:   st.threshold,
		includeSkip: st.includeSkip,
		cursor:      -1,
		state:       StateActive,
		byKey:       make(map[string]int),
		render:      st.render,
		persist:     st.persist,
		logger:      logger,
	}
	for _, a := range st.prior {
		s.record(a.Item, a.Label)
		if cfg.Kind() == labels.KindEnumerated && a.Label.Kind() == labels.ValueText {
			s.addOption(a.Label.String())
		}
	}
	s.logger.Debug("annotation session created",
		logging.Int("item_count", len(copied)),
		logging.String("label_kind", cfg.Kind().String()),
		logging.String("affordance", s.Affordance().String()),
		logging.Int("prior_annotations", len(st.prior)),
	)
	return s
}

// NewFromValue constructs a session from a loosely typed label description
// (see labels.FromValue). Unrecognized shapes fail with
// services.ErrInvalidConfiguration and no session is created.
func NewFromValue(items []Item, options any, opts ...Option) (*Session, error) {
	cfg, err := labels.FromValue(options)
	if err != nil {
		return nil, err
	}
	return New(items, cfg, opts...), nil
}

// Subscribe registers fn to receive every subsequent event.
func (s *Session) Subscribe(fn func(Event)) {
	if fn != nil {
		s.subscribers = append(s.subscribers, fn)
	}
}

// Advance moves to the next item. Passing the last item completes the
// session and persists the final annotation list.
func (s *Session) Advance() error {
	if s.state == StateDone {
		return s.doneErr("advance")
	}
	s.cursor++
	if s.cursor >= len(s.items) {
		return s.complete()
	}
	return s.show()
}

// Retreat moves to the previous item, stopping at the first one.
func (s *Session) Retreat() error {
	if s.state == StateDone {
		return s.doneErr("retreat")
	}
	if s.cursor < 0 {
		return services.Wrap(services.ErrNotStarted, "session", "retreat", "advance to the first item before navigating back", nil)
	}
	s.cursor--
	if s.cursor < 0 {
		s.cursor = 0
	}
	return s.show()
}

// Submit records label for the current item, persists the annotation list,
// and advances. A persistence failure leaves the cursor and the recorded
// annotations as they were.
func (s *Session) Submit(label labels.Value) error {
	if s.state == StateDone {
		return s.doneErr("submit")
	}
	if s.cursor < 0 {
		return services.Wrap(services.ErrNotStarted, "session", "submit", "no item is shown yet", nil)
	}
	item := s.items[s.cursor]
	candidate, added := s.withLabel(item, label)
	if err := s.saveList("submit", candidate); err != nil {
		return err
	}
	s.commit(item, candidate, added)
	s.logger.Debug("label recorded",
		logging.Int(logging.FieldItemIndex, s.cursor),
		logging.Item(item.Key()),
		logging.Label(label),
	)
	s.emit(Event{Kind: EventSubmitted, Current: s.currentAt(s.cursor), Label: label, Progress: s.Progress()})
	return s.Advance()
}

// Skip advances without recording a label.
func (s *Session) Skip() error {
	if s.state == StateDone {
		return s.doneErr("skip")
	}
	if !s.includeSkip {
		return services.Wrap(services.ErrSkipDisabled, "session", "skip", "this session was started without skip", nil)
	}
	return s.Advance()
}

// AddLabel makes text selectable for later submissions. Only enumerated
// sessions accept new labels; adding an existing label is a no-op.
func (s *Session) AddLabel(text string) error {
	if s.state == StateDone {
		return s.doneErr("add label")
	}
	if s.cfg.Kind() != labels.KindEnumerated {
		return services.Wrap(services.ErrInvalidConfiguration, "session", "add label",
			fmt.Sprintf("%s sessions do not take extra labels", s.cfg.Kind()), nil)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return services.Wrap(services.ErrValidation, "session", "add label", "label must not be blank", nil)
	}
	if !s.addOption(text) {
		return nil
	}
	s.logger.Info("label added", logging.String(logging.FieldLabel, text))
	ev := Event{Kind: EventLabelAdded, Label: labels.Text(text), Progress: s.Progress()}
	if cur, ok := s.Current(); ok {
		ev.Current = cur
	}
	s.emit(ev)
	return nil
}

// ID returns the session identifier, empty when none was set.
func (s *Session) ID() string { return s.id }

// State reports whether the session is Active or Done.
func (s *Session) State() State { return s.state }

// Done reports whether the session has completed.
func (s *Session) Done() bool { return s.state == StateDone }

// Cursor returns the current index: -1 before the first advance and
// len(items) once done.
func (s *Session) Cursor() int { return s.cursor }

// Config returns the label configuration.
func (s *Session) Config() labels.Config { return s.cfg }

// Affordance returns the control the UI should offer.
func (s *Session) Affordance() labels.Affordance { return s.cfg.Affordance(s.threshold) }

// IncludeSkip reports whether Skip is offered.
func (s *Session) IncludeSkip() bool { return s.includeSkip }

// Items returns the (possibly shuffled) item sequence.
func (s *Session) Items() []Item { return append([]Item(nil), s.items...) }

// Annotations returns a copy of the recorded annotations in first-record
// order.
func (s *Session) Annotations() []Annotation { return append([]Annotation(nil), s.annotations...) }

// LabelOptions returns the configured labels followed by labels added during
// the session.
func (s *Session) LabelOptions() []string {
	return append(s.cfg.Options(), s.extra...)
}

// ExtraLabels returns only the labels added during the session.
func (s *Session) ExtraLabels() []string { return append([]string(nil), s.extra...) }

// LabelFor returns the label recorded for item, if any.
func (s *Session) LabelFor(item Item) (labels.Value, bool) {
	idx, ok := s.byKey[item.Key()]
	if !ok {
		return labels.Value{}, false
	}
	return s.annotations[idx].Label, true
}

// Current returns the item under the cursor. ok is false before the first
// advance and after completion.
func (s *Session) Current() (Current, bool) {
	if s.state == StateDone || s.cursor < 0 || s.cursor >= len(s.items) {
		return Current{Index: s.cursor}, false
	}
	return s.currentAt(s.cursor), true
}

// Progress returns the annotated and remaining counters.
func (s *Session) Progress() Progress {
	total := len(s.items)
	remaining := total - s.cursor
	if remaining > total {
		remaining = total
	}
	if remaining < 0 {
		remaining = 0
	}
	position := s.cursor + 1
	if position > total {
		position = total
	}
	if position < 0 {
		position = 0
	}
	return Progress{
		Annotated: len(s.annotations),
		Remaining: remaining,
		Total:     total,
		Position:  position,
	}
}

func (s *Session) complete() error {
	s.cursor = len(s.items)
	s.state = StateDone
	progress := s.Progress()
	s.logger.Info("annotation done",
		logging.Int("annotated", progress.Annotated),
		logging.Int("item_count", progress.Total),
	)
	err := s.save("complete")
	s.emit(Event{Kind: EventCompleted, Current: Current{Index: s.cursor}, Progress: progress})
	return err
}

func (s *Session) show() error {
	cur := s.currentAt(s.cursor)
	if s.render != nil {
		if err := s.render(cur.Item); err != nil {
			return services.Wrap(services.ErrTransient, "session", "render", fmt.Sprintf("Failed to display %q", cur.Item.Key()), err)
		}
	}
	s.logger.Debug("item shown",
		logging.Int(logging.FieldItemIndex, cur.Index),
		logging.Item(cur.Item.Key()),
		logging.Bool("labeled", cur.Labeled),
	)
	s.emit(Event{Kind: EventShown, Current: cur, Progress: s.Progress()})
	return nil
}

func (s *Session) currentAt(idx int) Current {
	item := s.items[idx]
	cur := Current{Index: idx, Item: item}
	if label, ok := s.LabelFor(item); ok {
		cur.Previous = label
		cur.Labeled = true
	}
	return cur
}

// withLabel returns a copy of the annotation list with label recorded for
// item. An earlier label for the same item is overwritten in place so the
// list never grows past one entry per item; added reports a new entry.
func (s *Session) withLabel(item Item, label labels.Value) (list []Annotation, added bool) {
	list = s.Annotations()
	if idx, ok := s.byKey[item.Key()]; ok {
		list[idx].Label = label
		return list, false
	}
	return append(list, Annotation{Item: item, Label: label}), true
}

func (s *Session) commit(item Item, list []Annotation, added bool) {
	s.annotations = list
	if added {
		s.byKey[item.Key()] = len(list) - 1
	}
}

func (s *Session) record(item Item, label labels.Value) {
	list, added := s.withLabel(item, label)
	s.commit(item, list, added)
}

func (s *Session) addOption(text string) bool {
	for _, opt := range s.cfg.Options() {
		if opt == text {
			return false
		}
	}
	for _, opt := range s.extra {
		if opt == text {
			return false
		}
	}
	s.extra = append(s.extra, text)
	return true
}

func (s *Session) save(operation string) error {
	return s.saveList(operation, s.Annotations())
}

func (s *Session) saveList(operation string, list []Annotation) error {
	if s.persist == nil {
		return nil
	}
	if err := s.persist.Save(list); err != nil {
		logging.ErrorWithContext(s.logger, "annotation save failed", "annotation_save_failed",
			logging.String("operation", operation),
			logging.Error(err),
		)
		return services.Wrap(services.ErrTransient, "session", operation, "Failed to persist annotations", err)
	}
	return nil
}

func (s *Session) emit(ev Event) {
	for _, fn := range s.subscribers {
		fn(ev)
	}
}

func (s *Session) doneErr(operation string) error {
	return services.Wrap(services.ErrSessionDone, "session", operation, "all items have been shown", nil)
}
