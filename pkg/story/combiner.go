package story

import (
	"sort"
	"strings"
)

// Combiner is a named, immutable set of characters whose parallel transitions
// between the same two events are drawn as one merged line. Declared
// combiners carry a 1-based priority (their declaration order); the implicit
// singleton behind every character has priority 0.
type Combiner struct {
	name      string
	shortName string
	color     string
	members   []*Character // declared order
	priority  int
	bridges   []*Bridge
}

func (g *Combiner) Name() string      { return g.name }
func (g *Combiner) ShortName() string { return g.shortName }
func (g *Combiner) Color() string     { return g.color }
func (g *Combiner) Kind() OwnerKind   { return KindCombiner }

// Members returns the member characters in declared order.
func (g *Combiner) Members() []*Character { return g.members }

// Priority is the declaration-order rank used to break covering ties.
func (g *Combiner) Priority() int { return g.priority }

// Bridges returns the merged bridges owned by this combiner.
func (g *Combiner) Bridges() []*Bridge { return g.bridges }

// Size is the member count.
func (g *Combiner) Size() int { return len(g.members) }

// score ranks covering candidates: member count dominates, priority breaks
// ties among equal sizes.
func (g *Combiner) score() int { return len(g.members)*1000 + g.priority }

// has reports membership.
func (g *Combiner) has(c *Character) bool {
	for _, m := range g.members {
		if m == c {
			return true
		}
	}
	return false
}

// coveredBy reports whether every member owns a bridge in the worklist.
func (g *Combiner) coveredBy(owners map[*Character]struct{}) bool {
	for _, m := range g.members {
		if _, ok := owners[m]; !ok {
			return false
		}
	}
	return true
}

// memberSetKey builds the story-wide uniqueness key for a member set.
func memberSetKey(members []*Character) string {
	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = strings.ToLower(m.name)
	}
	sort.Strings(keys)
	return strings.Join(keys, "\x1f")
}

// assignIndices numbers this combiner's bridges. Singletons inherit the
// underlying bridge's index. Multi-member combiners follow their index
// character: the member with the most personal events (first declared wins
// ties), whose own chain order numbers the merged bridges 1..k.
func (g *Combiner) assignIndices() {
	if len(g.members) == 1 {
		for _, b := range g.bridges {
			if len(b.Children) > 0 {
				b.Index = b.Children[0].Index
			}
		}
		return
	}
	idx := g.members[0]
	for _, m := range g.members[1:] {
		if len(m.Events()) > len(idx.Events()) {
			idx = m
		}
	}
	sort.SliceStable(g.bridges, func(i, j int) bool {
		bi, bj := g.bridges[i].childFor(idx), g.bridges[j].childFor(idx)
		return bi.Index < bj.Index
	})
	for i, b := range g.bridges {
		b.Index = i + 1
	}
}
