package story

import "sort"

// OwnerKind tags the four bridge-owning sequence variants.
type OwnerKind int

const (
	KindTimeline OwnerKind = iota
	KindPlace
	KindCharacter
	KindCombiner
)

func (k OwnerKind) String() string {
	switch k {
	case KindTimeline:
		return "timeline"
	case KindPlace:
		return "place"
	case KindCharacter:
		return "character"
	default:
		return "combiner"
	}
}

// Owner is anything that can own event bridges: a timeline, a place, a
// character, or a combiner.
type Owner interface {
	Name() string
	ShortName() string
	Color() string
	Kind() OwnerKind
}

// SeqEntry is one stop in an ordered event chain with its dash flags.
type SeqEntry struct {
	Event        *Event
	DashFromPrev bool
	DashToNext   bool
}

// sequence holds an ordered chain of events and the bridges built over it.
// Embedded by every owner that has a chain of its own.
type sequence struct {
	entries []SeqEntry
	bridges []*Bridge
}

func (q *sequence) add(e *Event, dashBefore, dashAfter bool) {
	q.entries = append(q.entries, SeqEntry{Event: e, DashFromPrev: dashBefore, DashToNext: dashAfter})
}

// Entries returns the chain in its current order.
func (q *sequence) Entries() []SeqEntry { return q.entries }

// Events returns just the events of the chain.
func (q *sequence) Events() []*Event {
	out := make([]*Event, len(q.entries))
	for i, en := range q.entries {
		out[i] = en.Event
	}
	return out
}

// Bridges returns the bridges built over this chain. Empty before finalize.
func (q *sequence) Bridges() []*Bridge { return q.bridges }

// HasLoop reports whether the chain visits the same event twice.
func (q *sequence) HasLoop() bool {
	seen := make(map[*Event]struct{}, len(q.entries))
	for _, en := range q.entries {
		if _, ok := seen[en.Event]; ok {
			return true
		}
		seen[en.Event] = struct{}{}
	}
	return false
}

// sortChronological orders the chain by absolute time. The sort is stable so
// ties keep registration order.
func (q *sequence) sortChronological() {
	sort.SliceStable(q.entries, func(i, j int) bool {
		return q.entries[i].Event.AbsTime() < q.entries[j].Event.AbsTime()
	})
}

// buildBridges emits one bridge per adjacent pair, owned by owner, with a
// 1-based index and the OR of the facing dash flags.
func (q *sequence) buildBridges(owner Owner) {
	for i := 1; i < len(q.entries); i++ {
		past, future := q.entries[i-1], q.entries[i]
		q.bridges = append(q.bridges, &Bridge{
			owner: owner,
			Index: i,
			From:  past.Event,
			To:    future.Event,
			Dash:  past.DashToNext || future.DashFromPrev,
		})
	}
}

// line is the shared state of the two timed sequences, Timeline and Place:
// a named chain with a color, a local offset, and an absolute-time index.
type line struct {
	sequence
	name      string
	shortName string
	color     string
	offset    int
	byTime    map[int]*Event
}

func (l *line) Name() string      { return l.name }
func (l *line) ShortName() string { return l.shortName }
func (l *line) Color() string     { return l.color }

// Offset is the line's local time offset ("timezone").
func (l *line) Offset() int { return l.offset }

// EventAt returns the event indexed at the given absolute time, if any.
func (l *line) EventAt(abs int) (*Event, bool) {
	e, ok := l.byTime[abs]
	return e, ok
}

// Timestamps returns the sorted absolute times present on this line.
func (l *line) Timestamps() []int {
	out := make([]int, 0, len(l.byTime))
	for t := range l.byTime {
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}

// Roster is the set of characters attending any event on this line, in
// character declaration order.
func (l *line) Roster() []*Character {
	return rosterOf(l.Events())
}

// Timeline is a world clock. It owns places and indexes anchors by absolute
// time; its own chain holds only anchors.
type Timeline struct {
	line
	places []*Place
}

func (t *Timeline) Kind() OwnerKind { return KindTimeline }

// Places returns the timeline's places in registration order.
func (t *Timeline) Places() []*Place { return t.places }

// Place is a sub-sequence of a timeline holding directly attendable events.
type Place struct {
	line
	timeline *Timeline
}

func (p *Place) Kind() OwnerKind { return KindPlace }

// Timeline returns the owning timeline.
func (p *Place) Timeline() *Timeline { return p.timeline }

// rosterOf merges the attendee sets of the given events, deduplicated and
// ordered by character declaration.
func rosterOf(events []*Event) []*Character {
	seen := make(map[*Character]struct{})
	var out []*Character
	for _, e := range events {
		for _, c := range e.attendOrder {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ord < out[j].ord })
	return out
}
