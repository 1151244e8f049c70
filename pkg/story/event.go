package story

import (
	"fmt"
	"sort"
	"strings"
)

// Event is a node on the temporal graph. A leaf event occurs in exactly one
// place; an anchor marks "this absolute time" on a timeline and groups the
// corresponding leaf events across places. The two variants share one struct,
// tagged by isAnchor.
type Event struct {
	name      string
	shortName string
	color     string

	// owning line: a *Place for leaf events, a *Timeline for anchors
	place    *Place
	timeline *Timeline

	counter     int // local time on the owning line
	localOffset int // offset suffix declared on the time code
	abs         int // resolved absolute time

	isAnchor  bool
	anchor    *Event   // leaf only: grouping anchor
	children  []*Event // anchor only: one leaf per place, registration order
	universal bool     // created by anchor fan-out
	opener    bool
	closer    bool

	skipFriendship bool

	attendees   map[*Character]int
	attendOrder []*Character
	entrances   []*Character
	exits       []*Character
}

func (e *Event) Name() string      { return e.name }
func (e *Event) ShortName() string { return e.shortName }
func (e *Event) Color() string     { return e.color }

// Counter is the event's local time on its owning line.
func (e *Event) Counter() int { return e.counter }

// AbsTime is the event's resolved absolute time.
func (e *Event) AbsTime() int { return e.abs }

// IsAnchor reports whether this is a synchronization marker.
func (e *Event) IsAnchor() bool { return e.isAnchor }

// IsUniversal reports whether the event was materialized by anchor fan-out.
func (e *Event) IsUniversal() bool { return e.universal }

// IsOpener and IsCloser report the synthetic start/finish caps.
func (e *Event) IsOpener() bool { return e.opener }
func (e *Event) IsCloser() bool { return e.closer }

// SkipInFriendship reports exclusion from the friendship graph.
func (e *Event) SkipInFriendship() bool { return e.skipFriendship }

// Place returns the owning place for a leaf event, nil for anchors.
func (e *Event) Place() *Place { return e.place }

// Timeline returns the owning timeline for an anchor, nil for leaf events.
func (e *Event) Timeline() *Timeline { return e.timeline }

// Anchor returns the grouping anchor of a leaf event, nil for anchors.
func (e *Event) Anchor() *Event { return e.anchor }

// Children returns an anchor's leaf events in place-registration order.
func (e *Event) Children() []*Event { return e.children }

// CanAttend reports whether a character may include this event in an
// itinerary. Anchors and synthetic caps are off-limits.
func (e *Event) CanAttend() bool {
	return !e.isAnchor && !e.opener && !e.closer
}

// Line returns the owning sequence as an Owner, whichever variant it is.
func (e *Event) Line() Owner {
	if e.isAnchor {
		return e.timeline
	}
	return e.place
}

// NodeName is the renderer-facing node identifier.
func (e *Event) NodeName() string {
	return strings.ReplaceAll(e.name, "-", "\n")
}

// ClusterName names the anchor's rendering cluster. Scoped by the timeline
// short name: different timelines can anchor the same absolute time.
func (e *Event) ClusterName() string {
	if e.timeline != nil {
		return fmt.Sprintf("cluster-%s-%d", e.timeline.shortName, e.abs)
	}
	return fmt.Sprintf("cluster-%d", e.abs)
}

// Attendance returns how many times the character attends this event.
func (e *Event) Attendance(c *Character) int { return e.attendees[c] }

// Roster returns the attending characters in declaration order.
func (e *Event) Roster() []*Character {
	out := make([]*Character, len(e.attendOrder))
	copy(out, e.attendOrder)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ord < out[j].ord })
	return out
}

// Loopers returns characters attending this event more than once.
func (e *Event) Loopers() []*Character {
	var out []*Character
	for _, c := range e.Roster() {
		if e.attendees[c] > 1 {
			out = append(out, c)
		}
	}
	return out
}

// Entrances and Exits list characters whose itinerary starts or ends here.
func (e *Event) Entrances() []*Character { return e.entrances }
func (e *Event) Exits() []*Character     { return e.exits }

// addCharacter records attendance, propagating to the anchor for leaf events.
func (e *Event) addCharacter(c *Character) {
	if e.attendees == nil {
		e.attendees = make(map[*Character]int)
	}
	if e.attendees[c] == 0 {
		e.attendOrder = append(e.attendOrder, c)
	}
	e.attendees[c]++
	if e.anchor != nil {
		e.anchor.addCharacter(c)
	}
}

func (e *Event) String() string {
	return fmt.Sprintf("%s at %d in %s", e.name, e.abs, e.Line().Name())
}
