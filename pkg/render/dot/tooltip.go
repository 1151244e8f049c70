package dot

import (
	"fmt"
	"strings"

	"github.com/duck57/PlotDMG/pkg/story"
)

func charNames(cs []*story.Character) string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name()
	}
	return strings.Join(names, ", ")
}

func timelineTooltip(t *story.Timeline) string {
	roster := t.Roster()
	if len(roster) == 0 {
		return ""
	}
	return t.Name() + "\n📒Roster: " + charNames(roster)
}

// placeTooltip calls the roster "Visitors" so place and timeline hovers read
// differently.
func placeTooltip(p *story.Place) string {
	roster := p.Roster()
	if len(roster) == 0 {
		return ""
	}
	return p.Name() + "\nVisitors: " + charNames(roster)
}

// eventTooltip lists the roster plus entrances, departures, and loopers.
// Start and finish caps borrow their place's tooltip instead.
func eventTooltip(e *story.Event) string {
	if e.IsOpener() || e.IsCloser() {
		if p := e.Place(); p != nil {
			return placeTooltip(p)
		}
		return ""
	}
	roster := e.Roster()
	if len(roster) == 0 {
		return ""
	}
	header := e.Name()
	if !e.IsUniversal() {
		header = fmt.Sprintf("%s [%s]", e.Name(), e.Line().Name())
	}
	o := header + "\n📒Roster: " + charNames(roster)
	if e.SkipInFriendship() {
		o += "**"
	}
	if en := e.Entrances(); len(en) > 0 {
		o += "\n🛬Entrances: " + charNames(en)
	}
	if ex := e.Exits(); len(ex) > 0 {
		o += "\n🛫Departures: " + charNames(ex)
	}
	if lp := e.Loopers(); len(lp) > 0 {
		o += "\n➰Loopers: " + charNames(lp)
	}
	if e.SkipInFriendship() {
		o += "\n** = skipped when drawing lines on the friendship graph"
	}
	return o
}

// mergedTooltip lists the travelers riding a combined bridge.
func mergedTooltip(b *story.Bridge) string {
	lines := []string{fmt.Sprintf("%s -> %s: %s", b.From.Name(), b.To.Name(), b.Label())}
	for _, c := range b.Children {
		lines = append(lines, c.Label())
	}
	return strings.Join(lines, "\n\t")
}
