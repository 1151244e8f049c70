// Package story builds a consistent temporal graph from typed, cross-
// referencing records: timelines, places, events, characters, and combiners.
// Every event lands on an absolute clock, every character's movement becomes
// a chronological chain, and parallel transitions between the same two
// events are merged into the fewest possible named group transitions.
package story

import (
	"fmt"
	"strings"
)

// timedLine is the shared view over the two timed sequences.
type timedLine interface {
	Owner
	info() *line
	chain() *sequence
}

func (t *Timeline) info() *line      { return &t.line }
func (t *Timeline) chain() *sequence { return &t.sequence }
func (p *Place) info() *line         { return &p.line }
func (p *Place) chain() *sequence    { return &p.sequence }

// eventPair keys the covering worklists: one per (origin, destination).
type eventPair struct {
	from, to *Event
}

// Story is the build context owning every registry. Records are created in
// two passes: structural entities during load, then one Finalize call that
// caps the timelines, sorts every chain, and runs the covering engine.
// Nothing is mutated after Finalize.
type Story struct {
	name string

	lineByKey  map[string]timedLine
	timelines  []*Timeline
	places     []*Place
	eventByKey map[string]*Event
	eventOrder []*Event

	charByKey  map[string]*Character
	characters []*Character

	combiners     []*Combiner
	combinerSets  map[string]*Combiner
	explicitCount int

	// bridge processing state
	linkOrder []eventPair
	links     map[eventPair][]*Bridge
	bridges   []*Bridge // final render queue

	finalized bool
}

// New creates an empty story with the given display name.
func New(name string) *Story {
	return &Story{
		name:         name,
		lineByKey:    make(map[string]timedLine),
		eventByKey:   make(map[string]*Event),
		charByKey:    make(map[string]*Character),
		combinerSets: make(map[string]*Combiner),
		links:        make(map[eventPair][]*Bridge),
	}
}

// Name returns the story's display name.
func (s *Story) Name() string { return s.name }

// Finalized reports whether Finalize has completed.
func (s *Story) Finalized() bool { return s.finalized }

// Timelines, Places, Characters, Combiners: registration-order accessors.
func (s *Story) Timelines() []*Timeline   { return s.timelines }
func (s *Story) Places() []*Place         { return s.places }
func (s *Story) Characters() []*Character { return s.characters }
func (s *Story) Combiners() []*Combiner   { return s.combiners }

// Events returns the attendable leaf events in registration order.
func (s *Story) Events() []*Event {
	var out []*Event
	for _, e := range s.eventOrder {
		if e.CanAttend() {
			out = append(out, e)
		}
	}
	return out
}

// Timeboxen returns the anchors created by the story, ignoring the synthetic
// start/finish caps.
func (s *Story) Timeboxen() []*Event {
	var out []*Event
	for _, e := range s.eventOrder {
		if e.isAnchor && !e.opener && !e.closer {
			out = append(out, e)
		}
	}
	return out
}

// Bridges returns the full render queue: line-owned bridges in emission
// order followed by combiner-owned bridges in declaration order. Empty
// before Finalize.
func (s *Story) Bridges() []*Bridge { return s.bridges }

// GroupedCount returns how many declared (multi-member) combiners exist.
func (s *Story) GroupedCount() int { return s.explicitCount }

// LookupLine resolves a timeline or place by name or short name.
func (s *Story) LookupLine(name string) (Owner, bool) {
	l, ok := s.lineByKey[key(name)]
	if !ok {
		return nil, false
	}
	return l, true
}

// LookupEvent resolves an event (leaf or anchor) by name.
func (s *Story) LookupEvent(name string) (*Event, bool) {
	e, ok := s.eventByKey[key(name)]
	return e, ok
}

// LookupCharacter resolves a character by name or short name.
func (s *Story) LookupCharacter(name string) (*Character, bool) {
	c, ok := s.charByKey[strings.TrimSpace(name)]
	return c, ok
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// registerLine claims a line's name and short name in the shared pool.
func (s *Story) registerLine(l timedLine) error {
	nk, sk := key(l.Name()), key(l.ShortName())
	if _, exists := s.lineByKey[nk]; exists {
		return fmt.Errorf("line %q: %w", l.Name(), ErrDuplicateName)
	}
	s.lineByKey[nk] = l
	if sk != nk {
		if _, exists := s.lineByKey[sk]; exists {
			return fmt.Errorf("line %q short name %q: %w", l.Name(), l.ShortName(), ErrDuplicateName)
		}
		s.lineByKey[sk] = l
	}
	return nil
}

// NewTimeline declares a world clock and its places. A trailing +N/-N on the
// short name sets the timeline offset; each place name may carry its own
// suffix, shifting it relative to the timeline. A timeline declared with no
// places gets a single place carrying the timeline's name, and the timeline
// itself is renamed "<name>-tl".
func (s *Story) NewTimeline(name, shortName, color string, placeNames ...string) (*Timeline, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("timeline with empty name: %w", ErrUnknownReference)
	}
	short, offset, err := ParseNameOffset(shortName)
	if err != nil {
		return nil, err
	}
	var places []string
	for _, p := range placeNames {
		if strings.TrimSpace(p) != "" {
			places = append(places, p)
		}
	}
	tlName := strings.TrimSpace(name)
	if len(places) == 0 {
		places = []string{tlName}
		tlName += "-tl"
	}
	if short == "" {
		short = tlName
	}
	t := &Timeline{line: line{
		name:      tlName,
		shortName: short,
		color:     color,
		offset:    offset,
		byTime:    make(map[int]*Event),
	}}
	if err := s.registerLine(t); err != nil {
		return nil, err
	}
	s.timelines = append(s.timelines, t)
	for _, pn := range places {
		if _, err := s.newPlace(t, pn, color); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (s *Story) newPlace(t *Timeline, name, color string) (*Place, error) {
	base, offset, err := ParseNameOffset(name)
	if err != nil {
		return nil, err
	}
	if color == "" {
		color = t.color
	}
	p := &Place{
		line: line{
			name:      base,
			shortName: base,
			color:     color,
			offset:    t.offset + offset,
			byTime:    make(map[int]*Event),
		},
		timeline: t,
	}
	if err := s.registerLine(p); err != nil {
		return nil, err
	}
	s.places = append(s.places, p)
	t.places = append(t.places, p)
	return p, nil
}

// registerEvent claims an event name in the global pool.
func (s *Story) registerEvent(e *Event) error {
	k := key(e.name)
	if k == "" {
		return fmt.Errorf("event with empty name: %w", ErrUnknownReference)
	}
	if _, exists := s.eventByKey[k]; exists {
		return fmt.Errorf("event %q: %w", e.name, ErrDuplicateName)
	}
	s.eventByKey[k] = e
	s.eventOrder = append(s.eventOrder, e)
	return nil
}

// NewEvent places an event on the named line. On a place it creates a leaf
// event, reusing or creating the timeline anchor at the resolved absolute
// time. On a timeline it creates an anchor and fans out one universal child
// per currently-registered place, which is why all places must be declared
// before any timeline-level event.
func (s *Story) NewEvent(name, timeCode, lineName, color string, skipFriendship bool) (*Event, error) {
	l, ok := s.lineByKey[key(lineName)]
	if !ok {
		return nil, fmt.Errorf("event %q on line %q: %w", name, lineName, ErrUnknownReference)
	}
	tc, err := ParseTimeCode(timeCode)
	if err != nil {
		return nil, fmt.Errorf("event %q: %w", name, err)
	}
	switch owner := l.(type) {
	case *Place:
		return s.newLeafEvent(owner, name, tc, color, skipFriendship, false, false, false)
	case *Timeline:
		return s.newAnchor(owner, name, tc, color, anchorOpts{fanOut: true, skipFriendship: skipFriendship})
	}
	return nil, fmt.Errorf("event %q on line %q: %w", name, lineName, ErrUnknownReference)
}

// resolveTimes applies the offset chain: total = event offset + line offset.
// Relative codes resolve absolute = counter - total; absolute codes ('~')
// keep the stated value and derive the local counter instead.
func resolveTimes(tc TimeCode, lineOffset int) (counter, abs int) {
	total := tc.Offset + lineOffset
	if tc.Absolute {
		return tc.Counter + total, tc.Counter
	}
	return tc.Counter, tc.Counter - total
}

func (s *Story) newLeafEvent(p *Place, name string, tc TimeCode, color string, skipFriendship, universal, opener, closer bool) (*Event, error) {
	counter, abs := resolveTimes(tc, p.offset)
	if prev, ok := p.byTime[abs]; ok {
		return nil, fmt.Errorf("event %q at %d in %s (taken by %q): %w",
			name, abs, p.name, prev.name, ErrTimestampCollision)
	}
	e := &Event{
		name:           strings.TrimSpace(name),
		shortName:      strings.TrimSpace(name),
		color:          color,
		place:          p,
		counter:        counter,
		localOffset:    tc.Offset,
		abs:            abs,
		universal:      universal,
		opener:         opener,
		closer:         closer,
		skipFriendship: skipFriendship || opener || closer,
	}
	if err := s.registerEvent(e); err != nil {
		return nil, err
	}
	p.byTime[abs] = e
	p.add(e, true, true)

	// Attach to the timeline anchor at this absolute time, creating a
	// single-place anchor when none exists yet.
	t := p.timeline
	anchor, ok := t.byTime[abs]
	if !ok {
		var err error
		anchor, err = s.newAnchor(t, fmt.Sprintf("%s-%d", p.shortName, abs),
			TimeCode{Counter: abs, Absolute: true}, color, anchorOpts{})
		if err != nil {
			return nil, err
		}
	}
	e.anchor = anchor
	anchor.children = append(anchor.children, e)
	return e, nil
}

// anchorOpts gathers the optional anchor attributes.
type anchorOpts struct {
	fanOut         bool
	opener         bool
	closer         bool
	skipFriendship bool
}

func (s *Story) newAnchor(t *Timeline, name string, tc TimeCode, color string, opts anchorOpts) (*Event, error) {
	counter, abs := resolveTimes(tc, t.offset)
	if prev, ok := t.byTime[abs]; ok {
		return nil, fmt.Errorf("anchor %q at %d on %s (taken by %q): %w",
			name, abs, t.name, prev.name, ErrTimestampCollision)
	}
	if (opts.opener || opts.closer) && color == "" {
		color = t.color
	}
	a := &Event{
		name:           strings.TrimSpace(name),
		shortName:      strings.TrimSpace(name),
		color:          color,
		timeline:       t,
		counter:        counter,
		abs:            abs,
		isAnchor:       true,
		opener:         opts.opener,
		closer:         opts.closer,
		skipFriendship: true,
	}
	if err := s.registerEvent(a); err != nil {
		return nil, err
	}
	t.byTime[abs] = a
	t.add(a, true, true)
	if opts.fanOut {
		if err := s.fanOut(a, t.places, opts.skipFriendship); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// fanOut materializes one universal child event per place at the locally
// equivalent time. One-shot: places registered later are not backfilled.
// The children attach themselves to the anchor through the normal leaf-event
// path, since the anchor is already indexed at this absolute time.
func (s *Story) fanOut(a *Event, places []*Place, suppress bool) error {
	for _, p := range places {
		_, err := s.newLeafEvent(p, fmt.Sprintf("%s-%s", a.name, p.name),
			TimeCode{Counter: a.abs, Absolute: true}, a.color, suppress, true, a.opener, a.closer)
		if err != nil {
			return err
		}
	}
	return nil
}
