package story

import "fmt"

// Finalize caps every timeline with synthetic start/finish anchors, sorts
// every chain chronologically, builds the bridges, and runs the covering
// engine. Idempotent: a second call is a no-op. Nothing may be added to the
// story afterward.
func (s *Story) Finalize() error {
	if s.finalized {
		return nil
	}

	// Caps first: fan-out must run before any chronological sort, and the
	// cap times derive from the anchors registered so far.
	for _, t := range s.timelines {
		ts := t.Timestamps()
		first, last := -1, 1
		if len(ts) > 0 {
			first, last = ts[0]-1, ts[len(ts)-1]+1
		}
		capName := t.name + " start"
		if len(ts) == 0 {
			capName = fmt.Sprintf("empty-%s-start", t.name)
		}
		if _, err := s.newAnchor(t, capName, TimeCode{Counter: first, Absolute: true}, "",
			anchorOpts{fanOut: true, opener: true}); err != nil {
			return err
		}
		capName = t.name + " finish"
		if len(ts) == 0 {
			capName = fmt.Sprintf("empty-%s-finish", t.name)
		}
		if _, err := s.newAnchor(t, capName, TimeCode{Counter: last, Absolute: true}, "",
			anchorOpts{fanOut: true, closer: true}); err != nil {
			return err
		}
	}

	for _, t := range s.timelines {
		t.sortChronological()
		t.buildBridges(t)
		s.queueBridges(t.bridges)
	}
	for _, p := range s.places {
		p.sortChronological()
		p.buildBridges(p)
		s.queueBridges(p.bridges)
	}
	for _, c := range s.characters {
		c.buildBridges(c)
		s.queueBridges(c.bridges)
	}

	s.cover()

	for _, g := range s.combiners {
		g.assignIndices()
		s.bridges = append(s.bridges, g.bridges...)
	}

	s.finalized = true
	return nil
}

// queueBridges files bridges under their (origin, destination) pair,
// remembering first-seen key order so covering stays deterministic.
func (s *Story) queueBridges(bridges []*Bridge) {
	for _, b := range bridges {
		p := eventPair{b.From, b.To}
		if _, ok := s.links[p]; !ok {
			s.linkOrder = append(s.linkOrder, p)
		}
		s.links[p] = append(s.links[p], b)
	}
}

// cover partitions the character-owned bridges of every (origin,
// destination) pair among combiner-owned bridges. Greedy: repeatedly pick
// the combiner whose member set fits inside the remaining owners with the
// best score (size dominates, later declaration wins ties), subsume those
// bridges, and repeat until the worklist is empty. The singleton combiners
// guarantee the loop terminates with full, disjoint coverage.
func (s *Story) cover() {
	for _, p := range s.linkOrder {
		var worklist []*Bridge
		for _, b := range s.links[p] {
			if b.owner.Kind() == KindCharacter {
				worklist = append(worklist, b)
			} else {
				s.bridges = append(s.bridges, b)
			}
		}
		for len(worklist) > 0 {
			owners := make(map[*Character]struct{}, len(worklist))
			for _, b := range worklist {
				owners[b.owner.(*Character)] = struct{}{}
			}
			var best *Combiner
			for _, g := range s.combiners {
				if !g.coveredBy(owners) {
					continue
				}
				if best == nil || g.score() >= best.score() {
					best = g
				}
			}
			// Subsume exactly one bridge per member; a character crossing
			// the same pair twice leaves its second bridge for a later
			// round.
			merged := &Bridge{owner: best, From: p.from, To: p.to}
			for _, m := range best.members {
				for i, b := range worklist {
					if b.owner == Owner(m) {
						merged.Children = append(merged.Children, b)
						worklist = append(worklist[:i], worklist[i+1:]...)
						break
					}
				}
			}
			best.bridges = append(best.bridges, merged)
		}
	}
}
