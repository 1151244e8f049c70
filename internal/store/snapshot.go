package store

import (
	"fmt"

	"github.com/duck57/PlotDMG/pkg/meetgraph"
	"github.com/duck57/PlotDMG/pkg/story"
)

// Snapshot flattens a finalized story into the store: every line, event,
// bridge, and friendship pair.
func Snapshot(st Storer, s *story.Story) error {
	for _, t := range s.Timelines() {
		if err := st.PutLine(&LineRow{
			Name:      t.Name(),
			ShortName: t.ShortName(),
			Kind:      "timeline",
			Color:     t.Color(),
			Offset:    t.Offset(),
		}); err != nil {
			return fmt.Errorf("snapshot timeline %s: %w", t.Name(), err)
		}
	}
	for _, p := range s.Places() {
		if err := st.PutLine(&LineRow{
			Name:      p.Name(),
			ShortName: p.ShortName(),
			Kind:      "place",
			Timeline:  p.Timeline().Name(),
			Color:     p.Color(),
			Offset:    p.Offset(),
		}); err != nil {
			return fmt.Errorf("snapshot place %s: %w", p.Name(), err)
		}
	}

	for _, t := range s.Timelines() {
		for _, a := range t.Events() {
			if err := st.PutEvent(eventRow(a)); err != nil {
				return fmt.Errorf("snapshot anchor %s: %w", a.Name(), err)
			}
			for _, e := range a.Children() {
				if err := st.PutEvent(eventRow(e)); err != nil {
					return fmt.Errorf("snapshot event %s: %w", e.Name(), err)
				}
			}
		}
	}

	for _, b := range s.Bridges() {
		row := &BridgeRow{
			Owner:     b.Owner().Name(),
			OwnerKind: b.Owner().Kind().String(),
			Index:     b.Index,
			FromEvent: b.From.Name(),
			ToEvent:   b.To.Name(),
			Dashed:    b.DashLink(),
			Weight:    b.Weight(),
		}
		for _, c := range b.Children {
			row.Travelers = append(row.Travelers, c.Label())
		}
		if err := st.PutBridge(row); err != nil {
			return fmt.Errorf("snapshot bridge %s: %w", b.Label(), err)
		}
	}

	g := meetgraph.Build(s)
	for _, e := range g.Edges() {
		if err := st.PutMeeting(&MeetingRow{
			CharA:    e.A,
			CharB:    e.B,
			Meetings: e.Meetings,
			Events:   e.Events,
			SelfLoop: e.SelfLoop,
		}); err != nil {
			return fmt.Errorf("snapshot meeting %s/%s: %w", e.A, e.B, err)
		}
	}
	return nil
}

func eventRow(e *story.Event) *EventRow {
	row := &EventRow{
		Name:           e.Name(),
		ShortName:      e.ShortName(),
		Line:           e.Line().Name(),
		Counter:        e.Counter(),
		AbsTime:        e.AbsTime(),
		IsAnchor:       e.IsAnchor(),
		Universal:      e.IsUniversal(),
		Opener:         e.IsOpener(),
		Closer:         e.IsCloser(),
		SkipFriendship: e.SkipInFriendship(),
	}
	if t := e.Timeline(); t != nil {
		row.Timeline = t.Name()
	} else if p := e.Place(); p != nil {
		row.Timeline = p.Timeline().Name()
	}
	if a := e.Anchor(); a != nil {
		row.Anchor = a.Name()
	}
	for _, c := range e.Roster() {
		row.Roster = append(row.Roster, c.Name())
	}
	return row
}
