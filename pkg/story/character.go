package story

// Character is a traveler: an ordered itinerary of leaf events with per-link
// dash flags. Every character also stands behind an implicit singleton
// combiner so the covering engine can always terminate.
type Character struct {
	sequence
	name      string
	shortName string
	color     string
	ord       int // declaration order, drives deterministic iteration

	skipFriendship bool
}

func (c *Character) Name() string      { return c.name }
func (c *Character) ShortName() string { return c.shortName }
func (c *Character) Color() string     { return c.color }
func (c *Character) Kind() OwnerKind   { return KindCharacter }

// SkipInFriendship reports exclusion from the friendship graph (declared
// with a trailing '*' on the character name).
func (c *Character) SkipInFriendship() bool { return c.skipFriendship }

// Roster lists the characters met along the itinerary. The character itself
// is excluded unless it has a loop (attends one event twice), in which case
// self-meetings are real and retained.
func (c *Character) Roster() []*Character {
	return c.rosterWith(func(*Event) bool { return true }, func(*Character) bool { return true })
}

// ModRoster is the friendship-graph roster: it additionally drops events and
// characters flagged as excluded.
func (c *Character) ModRoster() []*Character {
	return c.rosterWith(
		func(e *Event) bool { return !e.skipFriendship },
		func(o *Character) bool { return !o.skipFriendship },
	)
}

func (c *Character) rosterWith(keepEvent func(*Event) bool, keepChar func(*Character) bool) []*Character {
	seen := make(map[*Character]struct{})
	var out []*Character
	for _, e := range c.Events() {
		if !keepEvent(e) {
			continue
		}
		for _, o := range e.Roster() {
			if !keepChar(o) {
				continue
			}
			if o == c && !c.HasLoop() {
				continue
			}
			if _, ok := seen[o]; ok {
				continue
			}
			seen[o] = struct{}{}
			out = append(out, o)
		}
	}
	return out
}

// SharedEvents returns the events of c's itinerary where other also shows
// up. When asking about itself, "shows up" means attending twice: a single
// visit is not a self-meeting, a loop is.
func (c *Character) SharedEvents(other *Character) []*Event {
	threshold := 0
	if other == c {
		threshold = 1
	}
	seen := make(map[*Event]struct{})
	var out []*Event
	for _, e := range c.Events() {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		if e.Attendance(other) > threshold {
			out = append(out, e)
		}
	}
	return out
}

// CountMeetings reports how many times c met other, and over how many
// distinct events. Self-meetings subtract the character's own visit.
func (c *Character) CountMeetings(other *Character) (total, events int) {
	self := 0
	if other == c {
		self = 1
	}
	seen := make(map[*Event]struct{})
	for _, e := range c.Events() {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		n := e.Attendance(other) - self
		if n > 0 {
			total += n
			events++
		}
	}
	return total, events
}

func (c *Character) String() string { return "character " + c.name }
