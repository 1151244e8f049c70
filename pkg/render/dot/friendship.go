package dot

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/duck57/PlotDMG/pkg/meetgraph"
	"github.com/duck57/PlotDMG/pkg/story"
)

// Friendship writes the who-met-whom graph as a strict undirected DOT graph.
// Characters flagged with '*' are left off entirely.
func Friendship(w io.Writer, s *story.Story, style *Style) error {
	g := meetgraph.Build(s)
	d := &writer{w: w}
	d.open("strict graph %s", quote(s.Name()+"~friendships"))

	ga := attrs{}
	ga.set("fontname", style.Fonts.Friendship)
	d.line("graph %s;", ga.String())

	for _, name := range g.Names() {
		node := g.Nodes[name]
		if node.Skipped {
			continue
		}
		c, ok := s.LookupCharacter(name)
		if !ok {
			continue
		}
		writeFriendNode(d, c, node, style)
	}
	for _, e := range g.Edges() {
		writeFriendEdge(d, s, e, style)
	}

	d.close()
	return d.err
}

func writeFriendNode(d *writer, c *story.Character, node *meetgraph.Node, style *Style) {
	color := node.Color
	if color == "" {
		color = style.Colors.Fallback
	}
	tt := fmt.Sprintf("Meets %d others", node.Met)
	if node.Looper {
		tt += " (looper)"
	}
	detail := node.Name + " is lonely"
	if roster := c.Roster(); len(roster) > 0 {
		met := make([]string, len(roster))
		for i, other := range roster {
			m, _ := c.CountMeetings(other)
			met[i] = fmt.Sprintf("%s\t(%d times)", other.Name(), m)
		}
		detail = node.Name + " meets\n➡" + strings.Join(met, "\n➡")
	}
	detail += fmt.Sprintf("\nover %d events", node.Events)

	a := attrs{}
	a.set("color", color)
	a.set("tooltip", tt)
	a.set("shape", "signature")
	a.set("URL", jsAlert(detail))
	d.node(node.Name, a)
}

func writeFriendEdge(d *writer, s *story.Story, e *meetgraph.Edge, style *Style) {
	ca, okA := s.LookupCharacter(e.A)
	cb, okB := s.LookupCharacter(e.B)
	if !okA || !okB {
		return
	}
	colorA := ca.Color()
	if colorA == "" {
		colorA = style.Colors.Fallback
	}
	colorB := cb.Color()
	if colorB == "" {
		colorB = style.Colors.Fallback
	}

	a := attrs{}
	a.set("penwidth", "2")
	var tt string
	if e.SelfLoop {
		a.set("color", colorA)
		a.set("dir", "forward")
		a.set("weight", "0")
		tt = fmt.Sprintf("%s\n%d self-encounters", e.A, e.Meetings)
	} else {
		a.set("color", colorA+":"+colorB)
		a.set("weight", strconv.Itoa(e.Meetings))
		tt = fmt.Sprintf("%s--%s\nMeet %d times", e.A, e.B, e.Meetings)
	}
	a.set("tooltip", fmt.Sprintf("%s over %d events", tt, e.Events))
	a.set("labelfontname", "monospace")
	a.set("labelfontsize", "8")

	shared := ca.SharedEvents(cb)
	names := make([]string, len(shared))
	for i, ev := range shared {
		names[i] = ev.Name()
	}
	a.set("URL", jsAlert(tt+":\n➡"+strings.Join(names, "\n➡")))

	d.edge("--", e.A, e.B, a)
}
