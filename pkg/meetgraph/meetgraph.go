// Package meetgraph aggregates per-character-pair meeting statistics from a
// finalized story into a lightweight undirected graph.
package meetgraph

import (
	"sort"

	"github.com/duck57/PlotDMG/pkg/story"
)

// Node represents a character on the friendship graph.
type Node struct {
	Name    string `json:"name"`
	Color   string `json:"color"`
	Met     int    `json:"met"`    // size of the character's roster
	Events  int    `json:"events"` // distinct events attended
	Looper  bool   `json:"looper"`
	Skipped bool   `json:"skipped"` // excluded by the '*' flag
}

// Edge represents the aggregate of one character pair. SelfLoop marks a
// character meeting itself through a time loop.
type Edge struct {
	A        string `json:"a"`
	B        string `json:"b"`
	Meetings int    `json:"meetings"` // total co-occurrence count
	Events   int    `json:"events"`   // distinct shared events
	SelfLoop bool   `json:"selfLoop"`
}

// MeetGraph is the friendship aggregate: nodes by character name plus
// adjacency over the modified rosters.
type MeetGraph struct {
	Nodes map[string]*Node `json:"nodes"`

	// Adjacency: name -> neighbor name -> edge (shared both ways)
	Adj map[string]map[string]*Edge `json:"adj"`

	order []string
}

// Build derives the friendship graph from a finalized story. Characters
// flagged with '*' get a node (so lookups stay total) but no edges.
func Build(s *story.Story) *MeetGraph {
	g := &MeetGraph{
		Nodes: make(map[string]*Node),
		Adj:   make(map[string]map[string]*Edge),
	}
	for _, c := range s.Characters() {
		distinct := make(map[string]struct{})
		for _, e := range c.Events() {
			distinct[e.Name()] = struct{}{}
		}
		g.Nodes[c.Name()] = &Node{
			Name:    c.Name(),
			Color:   c.Color(),
			Met:     len(c.Roster()),
			Events:  len(distinct),
			Looper:  c.HasLoop(),
			Skipped: c.SkipInFriendship(),
		}
		g.order = append(g.order, c.Name())
	}
	for _, c := range s.Characters() {
		if c.SkipInFriendship() {
			continue
		}
		for _, other := range c.ModRoster() {
			total, events := c.CountMeetings(other)
			if total == 0 {
				continue
			}
			g.addEdge(&Edge{
				A:        c.Name(),
				B:        other.Name(),
				Meetings: total,
				Events:   events,
				SelfLoop: other == c,
			})
		}
	}
	return g
}

// addEdge records the pair once, visible from both endpoints.
func (g *MeetGraph) addEdge(e *Edge) {
	if g.Adj[e.A] == nil {
		g.Adj[e.A] = make(map[string]*Edge)
	}
	if g.Adj[e.A][e.B] != nil {
		return
	}
	g.Adj[e.A][e.B] = e
	if e.A != e.B {
		if g.Adj[e.B] == nil {
			g.Adj[e.B] = make(map[string]*Edge)
		}
		g.Adj[e.B][e.A] = e
	}
}

// Names returns node names in character declaration order.
func (g *MeetGraph) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Neighbors returns the names adjacent to a character, sorted.
func (g *MeetGraph) Neighbors(name string) []string {
	var out []string
	for n := range g.Adj[name] {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// EdgeBetween returns the aggregate for a pair, if any.
func (g *MeetGraph) EdgeBetween(a, b string) (*Edge, bool) {
	e, ok := g.Adj[a][b]
	return e, ok
}

// Edges returns every distinct edge, ordered by first endpoint's
// declaration then neighbor name.
func (g *MeetGraph) Edges() []*Edge {
	seen := make(map[*Edge]struct{})
	var out []*Edge
	for _, name := range g.order {
		for _, n := range g.Neighbors(name) {
			e := g.Adj[name][n]
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}

// NodeCount and EdgeCount size the graph.
func (g *MeetGraph) NodeCount() int { return len(g.Nodes) }
func (g *MeetGraph) EdgeCount() int { return len(g.Edges()) }

// Lonely returns characters with no edges at all, in declaration order.
func (g *MeetGraph) Lonely() []*Node {
	var out []*Node
	for _, name := range g.order {
		if len(g.Adj[name]) == 0 && !g.Nodes[name].Skipped {
			out = append(out, g.Nodes[name])
		}
	}
	return out
}
