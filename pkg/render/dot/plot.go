package dot

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/duck57/PlotDMG/pkg/story"
)

// Plot writes the plot diagram of a finalized story as a DOT digraph. The
// layout follows the narrative structure: one cluster per timeline, one
// cluster per timebox, child event nodes inside, and the bridge edges on top.
func Plot(w io.Writer, s *story.Story, style *Style) error {
	d := &writer{w: w}
	d.open("digraph %s", quote(s.Name()))

	ga := attrs{}
	ga.set("compound", "true")
	ga.set("rankdir", style.RankDir)
	ga.set("tooltip", s.Name()+"\n"+Stats(s))
	d.line("graph %s;", ga.String())

	onlyOne := len(s.Timelines()) < 2
	for _, t := range s.Timelines() {
		writeTimeline(d, t, style, onlyOne)
	}
	for _, b := range s.Bridges() {
		writeBridge(d, b, style)
	}

	d.close()
	return d.err
}

// Stats is the summary block shown in the graph tooltip and on the CLI.
func Stats(s *story.Story) string {
	return strings.Join([]string{
		fmt.Sprintf("%d events", len(s.Events())),
		fmt.Sprintf("\t(sorted into %d timeboxen)", len(s.Timeboxen())),
		fmt.Sprintf("%d characters", len(s.Characters())),
		fmt.Sprintf("\t(%d combined groups)", s.GroupedCount()),
		fmt.Sprintf("%d timelines and places", len(s.Timelines())+len(s.Places())),
	}, "\n")
}

func writeTimeline(d *writer, t *story.Timeline, style *Style, onlyOne bool) {
	name := t.Name()
	if !onlyOne {
		name = "cluster-" + name
	}
	d.open("subgraph %s", quote(name))

	ga := attrs{}
	ga.set("compound", "true")
	if t.Color() != "" {
		ga.set("color", t.Color())
	}
	if !onlyOne {
		if style.ColorNames && t.Color() != "" {
			ga.set("fontcolor", t.Color())
		}
		ga.set("label", t.Name())
		ga.set("penwidth", "2")
		ga.set("fontname", style.Fonts.Timeline)
		ga.set("fontsize", "28")
		tt := timelineTooltip(t)
		ga.set("tooltip", tt)
		ga.set("URL", jsAlert(tt))
	}
	d.line("graph %s;", ga.String())

	for _, a := range t.Events() {
		writeTimebox(d, a, style)
	}
	d.close()
}

// writeTimebox draws one anchor cluster: the label is the timeline-local
// counter, the invisible point node is the landing pad for timeline bridges.
func writeTimebox(d *writer, a *story.Event, style *Style) {
	d.open("subgraph %s", quote(a.ClusterName()))

	color := a.Line().Color()
	if color == "" {
		color = style.Colors.Default
	}
	isCap := a.IsOpener() || a.IsCloser()

	ga := attrs{}
	ga.set("label", strconv.Itoa(a.Counter()))
	ga.set("gradientangle", style.gradientAngle())
	if a.Color() != "" {
		ga.set("color", a.Color())
	}
	ga.set("fontsize", "")
	ga.set("fontname", "")
	tt := eventTooltip(a)
	ga.set("tooltip", tt)
	ga.set("URL", jsAlert(tt))

	na := attrs{}
	if isCap {
		ga.set("style", "filled,rounded")
		ga.set("penwidth", "0")
		na.set("gradientangle", style.gradientAngle())
		na.set("style", "filled")
		na.set("penwidth", "0")
	}
	switch {
	case a.IsOpener():
		ga.set("color", color+":"+style.Colors.CapEdge)
		na.set("shape", style.Markers.Opener)
		na.set("color", style.Colors.CapFill+":"+color)
	case a.IsCloser():
		ga.set("color", style.Colors.CapEdge+":"+color)
		na.set("shape", style.Markers.Closer)
		na.set("color", color+":"+style.Colors.CapFill)
	default:
		na.set("color", color)
	}
	d.line("graph %s;", ga.String())

	for _, v := range a.Children() {
		n := append(attrs{}, na...)
		vt := eventTooltip(v)
		n.set("tooltip", vt)
		n.set("URL", jsAlert(vt))
		if v.Color() != "" && !isCap {
			n.set("color", v.Color())
		}
		d.node(v.NodeName(), n)
	}

	point := attrs{}
	point.set("shape", "point")
	point.set("style", "invis")
	d.node(a.NodeName(), point)

	d.close()
}

func writeBridge(d *writer, b *story.Bridge, style *Style) {
	a := attrs{}
	switch b.Owner().Kind() {
	case story.KindTimeline:
		a.set("style", "bold")
		a.set("fontname", style.Fonts.Bridge)
		a.set("minlen", "1")
		a.set("label", b.Label())
		a.set("ltail", b.From.ClusterName())
		a.set("lhead", b.To.ClusterName())
		a.set("arrowhead", arrowFor(b.Index))
	case story.KindPlace:
		a.set("style", "dotted")
		a.set("arrowhead", "onormal")
	default:
		if b.DashLink() {
			a.set("style", "dashed")
		}
		a.set("label", b.Label())
	}
	if c := b.Owner().Color(); c != "" {
		a.set("color", c)
		if style.ColorNames {
			a.set("fontcolor", c)
		}
	}
	if len(b.Children) > 1 {
		tt := mergedTooltip(b)
		a.set("labeltooltip", tt)
		a.set("URL", jsAlert(tt))
	}
	a.set("weight", strconv.Itoa(b.Weight()))
	d.edge("->", b.From.NodeName(), b.To.NodeName(), a)
}

// arrowFor alternates arrowheads so neighboring timeline hops stay readable.
func arrowFor(index int) string {
	if index%2 == 1 {
		return "lvee"
	}
	return "rvee"
}
