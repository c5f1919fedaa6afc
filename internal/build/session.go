package build

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
)

// State is the lifecycle position of a build session.
type State string

const (
	StateLoading State = "loading"
	StateFailed  State = "failed"
	StateEmpty   State = "empty"
	StatePartial State = "partial"
	StateFull    State = "full"
	StateSaved   State = "saved"
	StateClosed  State = "closed"
)

// Loader fetches the static data a session needs before it accepts input.
type Loader interface {
	LoadChampion(ctx context.Context, championID string) (*ChampionProfile, *Catalog, error)
}

// Persister stores builds on behalf of the session.
type Persister interface {
	CreateBuild(ctx context.Context, token, championID, items string) (*SavedBuild, error)
	UpdateBuild(ctx context.Context, token, buildID, items string) (*SavedBuild, error)
}

// TokenFunc supplies the bearer token forwarded on every persistence call.
// An empty token means the user is not authenticated.
type TokenFunc func() string

// EventKind names a session notification.
type EventKind string

const (
	EventReady      EventKind = "ready"
	EventLoadFailed EventKind = "load_failed"
	EventChanged    EventKind = "changed"
	EventSaved      EventKind = "saved"
	EventSaveFailed EventKind = "save_failed"
)

// Event is delivered to listeners after every state change.
type Event struct {
	Kind     EventKind
	State    State
	Items    []string
	Snapshot *Snapshot
	Saved    *SavedBuild
	Err      error
}

// Listener observes a session.
type Listener func(Event)

// SessionConfig wires a session to its collaborators.
type SessionConfig struct {
	ChampionID string
	Loader     Loader
	Persister  Persister
	Token      TokenFunc

	// Seed is set when editing a previously persisted build.
	Seed *SavedBuild
}

// Session holds one in-progress build for one champion.
type Session struct {
	mu sync.Mutex

	cfg      SessionConfig
	ctx      context.Context
	cancel   context.CancelFunc
	champion *ChampionProfile
	catalog  *Catalog

	items   []string
	level   int
	ranks   AbilityRanks
	buildID string

	ready  bool
	failed error
	saving bool
	saved  bool
	closed bool

	snapshot  Snapshot
	listeners []Listener
}

// NewSession creates an unloaded session. Call Load before any other
// operation; until it completes every mutation returns ErrNotReady.
func NewSession(cfg SessionConfig) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		level:  MinLevel,
	}
	if cfg.Seed != nil {
		s.buildID = cfg.Seed.ID
	}
	return s
}

// Subscribe registers a listener. Listeners run on the goroutine that
// caused the change, after the session lock is released.
func (s *Session) Subscribe(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Load fetches the champion and catalog. A response arriving after Close
// is discarded.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.mu.Unlock()

	ctx, stop := mergeCancel(ctx, s.ctx)
	defer stop()

	champion, catalog, err := s.cfg.Loader.LoadChampion(ctx, s.cfg.ChampionID)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if err != nil {
		s.failed = err
		ev := Event{Kind: EventLoadFailed, State: StateFailed, Err: err}
		s.mu.Unlock()
		s.emit(ev)
		return &loadError{err: err}
	}

	s.champion = champion
	s.catalog = catalog
	s.ready = true
	if s.cfg.Seed != nil {
		s.items = s.seedItems(s.cfg.Seed)
	}
	s.recompute()
	ev := s.eventLocked(EventReady)
	s.mu.Unlock()

	s.emit(ev)
	return nil
}

type loadError struct{ err error }

func (e *loadError) Error() string { return ErrLoadFailed.Error() + ": " + e.err.Error() }
func (e *loadError) Unwrap() []error { return []error{ErrLoadFailed, e.err} }

// seedItems replays a persisted item list through the validator, dropping
// entries the current catalog does not know or no longer accepts.
func (s *Session) seedItems(seed *SavedBuild) []string {
	ids, err := ParseItems(seed.Items)
	if err != nil {
		log.Printf("WARN [build.Session] build=%s unreadable items: %v", seed.ID, err)
		return nil
	}
	var items []string
	for _, id := range ids {
		item, ok := s.catalog.Get(id)
		if !ok {
			log.Printf("WARN [build.Session] build=%s dropping unknown item %s", seed.ID, id)
			continue
		}
		if err := CanAdd(item, items, s.catalog); err != nil {
			log.Printf("WARN [build.Session] build=%s dropping item: %v", seed.ID, err)
			continue
		}
		items = append(items, id)
	}
	return items
}

// State reports the current lifecycle position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	switch {
	case s.closed:
		return StateClosed
	case s.failed != nil:
		return StateFailed
	case !s.ready:
		return StateLoading
	case s.saved:
		return StateSaved
	case len(s.items) == 0:
		return StateEmpty
	case len(s.items) >= MaxItems:
		return StateFull
	}
	return StatePartial
}

// Items returns the build in insertion order.
func (s *Session) Items() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.items...)
}

// Snapshot returns the latest derived stats.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Champion returns the loaded champion, or nil before Load completes.
func (s *Session) Champion() *ChampionProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.champion
}

// Catalog returns the loaded catalog, or nil before Load completes.
func (s *Session) Catalog() *Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// Level returns the selected champion level.
func (s *Session) Level() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// Ranks returns the learned ability ranks.
func (s *Session) Ranks() AbilityRanks {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ranks
}

// checkMutable must be called with the lock held.
func (s *Session) checkMutable() error {
	switch {
	case s.closed:
		return ErrSessionClosed
	case s.failed != nil:
		return ErrLoadFailed
	case !s.ready:
		return ErrNotReady
	case s.saved:
		return ErrAlreadySaved
	case s.saving:
		return ErrSaveInProgress
	}
	return nil
}

// Add appends an item after validating it against the build.
func (s *Session) Add(id string) error {
	return s.mutate(func() error {
		item, ok := s.catalog.Get(id)
		if !ok {
			return ErrUnknownItem
		}
		if err := CanAdd(item, s.items, s.catalog); err != nil {
			return err
		}
		s.items = append(append([]string(nil), s.items...), id)
		return nil
	})
}

// Remove drops an item. Removing an id that is not in the build is a
// no-op and emits no event.
func (s *Session) Remove(id string) error {
	return s.mutate(func() error {
		if !contains(s.items, id) {
			return errNoChange
		}
		s.items = Remove(s.items, id)
		return nil
	})
}

// Toggle removes id when present and adds it otherwise.
func (s *Session) Toggle(id string) error {
	s.mu.Lock()
	present := contains(s.items, id)
	s.mu.Unlock()
	if present {
		return s.Remove(id)
	}
	return s.Add(id)
}

// SetLevel selects the champion level used for growth.
func (s *Session) SetLevel(level int) error {
	if level < MinLevel || level > MaxLevel {
		return ErrInvalidLevel
	}
	return s.mutate(func() error {
		if s.level == level {
			return errNoChange
		}
		s.level = level
		return nil
	})
}

// RankUp raises an ability by one rank, saturating at its max rank.
func (s *Session) RankUp(slot int) error {
	return s.changeRank(slot, 1)
}

// RankDown lowers an ability by one rank, saturating at zero.
func (s *Session) RankDown(slot int) error {
	return s.changeRank(slot, -1)
}

func (s *Session) changeRank(slot, delta int) error {
	if slot < 0 || slot >= AbilityCount {
		return ErrInvalidSlot
	}
	return s.mutate(func() error {
		next := s.ranks[slot] + delta
		if next < 0 || next > MaxRankFor(slot) {
			return errNoChange
		}
		s.ranks[slot] = next
		return nil
	})
}

// mutate runs fn under the lock and, when it changed state, recomputes
// the snapshot and notifies listeners.
func (s *Session) mutate(fn func() error) error {
	s.mu.Lock()
	if err := s.checkMutable(); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := fn(); err != nil {
		s.mu.Unlock()
		if err == errNoChange {
			return nil
		}
		return err
	}
	s.recompute()
	ev := s.eventLocked(EventChanged)
	s.mu.Unlock()

	s.emit(ev)
	return nil
}

// Save persists the build ordered by catalog display order. Only one save
// runs at a time; a call made while another is pending returns
// ErrSaveInProgress without contacting the persister. On failure the build
// is left untouched so the caller can retry.
func (s *Session) Save(ctx context.Context) (*SavedBuild, error) {
	s.mu.Lock()
	if err := s.checkMutable(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if len(s.items) == 0 {
		s.mu.Unlock()
		return nil, ErrEmptyBuild
	}
	token := ""
	if s.cfg.Token != nil {
		token = s.cfg.Token()
	}
	if token == "" {
		s.mu.Unlock()
		return nil, ErrAuthRequired
	}

	payload, err := EncodeItems(s.catalog.SortIDs(s.items))
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	buildID := s.buildID
	championID := s.cfg.ChampionID
	s.saving = true
	s.mu.Unlock()

	ctx, stop := mergeCancel(ctx, s.ctx)
	defer stop()

	var saved *SavedBuild
	op := "create"
	if buildID != "" {
		op = "update"
		saved, err = s.cfg.Persister.UpdateBuild(ctx, token, buildID, payload)
	} else {
		saved, err = s.cfg.Persister.CreateBuild(ctx, token, championID, payload)
	}

	s.mu.Lock()
	s.saving = false
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if err != nil {
		perr := &PersistenceError{Op: op, Err: err}
		ev := s.eventLocked(EventSaveFailed)
		ev.Err = perr
		s.mu.Unlock()
		s.emit(ev)
		return nil, perr
	}

	s.saved = true
	s.buildID = saved.ID
	ev := s.eventLocked(EventSaved)
	ev.Saved = saved
	s.mu.Unlock()

	s.emit(ev)
	return saved, nil
}

// Close tears the session down. In-flight loads and saves are cancelled
// and their late results discarded.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.listeners = nil
	s.mu.Unlock()
	s.cancel()
}

func (s *Session) recompute() {
	s.snapshot = ComputeStats(s.champion, s.level, s.ranks, s.items, s.catalog)
}

func (s *Session) eventLocked(kind EventKind) Event {
	snap := s.snapshot
	return Event{
		Kind:     kind,
		State:    s.stateLocked(),
		Items:    append([]string(nil), s.items...),
		Snapshot: &snap,
	}
}

func (s *Session) emit(ev Event) {
	s.mu.Lock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()
	for _, l := range listeners {
		l(ev)
	}
}

type sentinel string

func (e sentinel) Error() string { return string(e) }

const errNoChange = sentinel("no change")

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// mergeCancel derives a context from parent that is also cancelled when
// owner is done.
func mergeCancel(parent, owner context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(owner, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// EncodeItems serializes an ordered id list into the persisted items field.
func EncodeItems(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseItems decodes a persisted items field. Ids may be JSON strings or
// numbers; null and blank ids are rejected. An empty field is an empty build.
func ParseItems(items string) ([]string, error) {
	if items == "" {
		return nil, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(items), &raw); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if string(bytes.TrimSpace(r)) == "null" {
			return nil, ErrInvalidItemID
		}
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			if strings.TrimSpace(s) == "" {
				return nil, ErrInvalidItemID
			}
			out = append(out, s)
			continue
		}
		var n json.Number
		if err := json.Unmarshal(r, &n); err != nil {
			return nil, ErrInvalidItemID
		}
		out = append(out, n.String())
	}
	return out, nil
}
