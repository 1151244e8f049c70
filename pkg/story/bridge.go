package story

import (
	"fmt"
	"math"
)

// Layout weights per owner kind. Timeline spines are drawn straightest,
// place links next; combiner links scale with how many travelers they carry.
const (
	timelineWeight = 123
	placeWeight    = 69
)

// Bridge is a directed transition between two chronologically adjacent
// events within one owning sequence. Combiner-owned bridges subsume the
// single-character bridges they replaced as children.
type Bridge struct {
	owner Owner
	Index int
	From  *Event
	To    *Event
	Dash  bool

	Children []*Bridge
}

// Owner returns the owning sequence.
func (b *Bridge) Owner() Owner { return b.owner }

// DashLink reports whether the drawn line should be dashed: the bridge's own
// flag, or any child's flag for a merged line.
func (b *Bridge) DashLink() bool {
	if len(b.Children) == 0 {
		return b.Dash
	}
	for _, c := range b.Children {
		if c.Dash {
			return true
		}
	}
	return false
}

// Label is the rendered edge label, "<short>-<index>".
func (b *Bridge) Label() string {
	return fmt.Sprintf("%s-%d", b.owner.ShortName(), b.Index)
}

// Weight estimates layout straightness for the renderer.
func (b *Bridge) Weight() int {
	switch b.owner.Kind() {
	case KindTimeline:
		return timelineWeight
	case KindPlace:
		return placeWeight
	}
	w := 10*len(b.Children) + 7
	if b.DashLink() {
		return int(math.Round(float64(w) / 9))
	}
	return w
}

// childFor returns the subsumed bridge owned by the given character.
func (b *Bridge) childFor(c *Character) *Bridge {
	for _, ch := range b.Children {
		if ch.owner == Owner(c) {
			return ch
		}
	}
	return nil
}

func (b *Bridge) String() string {
	return fmt.Sprintf("%d bridge from %s to %s for %s", b.Index, b.From.Name(), b.To.Name(), b.owner.Name())
}
