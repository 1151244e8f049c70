package story

import (
	"fmt"
	"strings"
)

// Itinerary dash markers: ")-name" dashes from the previous event,
// "name-(" dashes to the next one.
const (
	dashFromMark = ")-"
	dashToMark   = "-("
)

// NewCharacter declares a traveler and its ordered itinerary of event
// references. A trailing '*' on the name excludes the character from the
// friendship graph. Every character registers an implicit singleton combiner.
func (s *Story) NewCharacter(name, shortName, color string, eventRefs ...string) (*Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("character with empty name: %w", ErrUnknownReference)
	}
	skip := strings.HasSuffix(name, "*")
	name = strings.TrimSuffix(name, "*")
	shortName = strings.TrimSpace(shortName)
	if shortName == "" {
		shortName = name
	}
	if _, exists := s.charByKey[name]; exists {
		return nil, fmt.Errorf("character %q: %w", name, ErrDuplicateName)
	}
	c := &Character{
		name:           name,
		shortName:      shortName,
		color:          color,
		ord:            len(s.characters),
		skipFriendship: skip,
	}
	s.charByKey[name] = c
	if shortName != name {
		if _, exists := s.charByKey[shortName]; exists {
			return nil, fmt.Errorf("character %q short name %q: %w", name, shortName, ErrDuplicateName)
		}
		s.charByKey[shortName] = c
	}
	s.characters = append(s.characters, c)

	// The standing singleton combiner guarantees covering termination.
	if _, err := s.addCombiner(name, shortName, color, 0, []*Character{c}); err != nil {
		return nil, err
	}

	for _, ref := range eventRefs {
		ref = strings.ToLower(strings.TrimSpace(ref))
		if ref == "" {
			continue // tolerate holes left by rearranged inputs
		}
		dashFrom := strings.HasPrefix(ref, dashFromMark)
		dashTo := strings.HasSuffix(ref, dashToMark)
		ref = strings.TrimSuffix(strings.TrimPrefix(ref, dashFromMark), dashToMark)
		e, ok := s.eventByKey[ref]
		if !ok {
			return nil, fmt.Errorf("character %q attends %q: %w", name, ref, ErrUnknownReference)
		}
		if !e.CanAttend() {
			return nil, fmt.Errorf("character %q attends %q: %w", name, e.name, ErrSyncMarkerMisuse)
		}
		c.add(e, dashFrom, dashTo)
		e.addCharacter(c)
	}

	if entries := c.Entries(); len(entries) > 0 {
		first, last := entries[0].Event, entries[len(entries)-1].Event
		first.entrances = append(first.entrances, c)
		first.anchor.entrances = append(first.anchor.entrances, c)
		last.exits = append(last.exits, c)
		last.anchor.exits = append(last.anchor.exits, c)
	}
	return c, nil
}

// NewCombiner declares a named group of at least two characters sharing a
// line when traveling between the same events. The member list is a set:
// repeated names collapse before the size and uniqueness checks. Priority is
// its 1-based declaration order; a later combiner of equal size wins
// covering ties.
func (s *Story) NewCombiner(name, shortName, color string, memberNames ...string) (*Combiner, error) {
	if len(memberNames) < 2 {
		return nil, fmt.Errorf("combiner %q with %d members: %w", name, len(memberNames), ErrInvalidCombiner)
	}
	seen := make(map[*Character]struct{}, len(memberNames))
	members := make([]*Character, 0, len(memberNames))
	for _, mn := range memberNames {
		c, ok := s.charByKey[strings.TrimSpace(mn)]
		if !ok {
			return nil, fmt.Errorf("combiner %q member %q: %w", name, mn, ErrUnknownReference)
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		members = append(members, c)
	}
	if len(members) < 2 {
		return nil, fmt.Errorf("combiner %q collapses to %d distinct members: %w", name, len(members), ErrInvalidCombiner)
	}
	if strings.TrimSpace(shortName) == "" {
		shortName = name
	}
	g, err := s.addCombiner(name, shortName, color, s.explicitCount+1, members)
	if err != nil {
		return nil, err
	}
	s.explicitCount++
	return g, nil
}

func (s *Story) addCombiner(name, shortName, color string, priority int, members []*Character) (*Combiner, error) {
	k := memberSetKey(members)
	if _, exists := s.combinerSets[k]; exists {
		return nil, fmt.Errorf("combiner %q: member set already declared: %w", name, ErrInvalidCombiner)
	}
	g := &Combiner{
		name:      strings.TrimSpace(name),
		shortName: strings.TrimSpace(shortName),
		color:     color,
		members:   members,
		priority:  priority,
	}
	s.combinerSets[k] = g
	s.combiners = append(s.combiners, g)
	return g, nil
}
