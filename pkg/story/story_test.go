package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTimeline(t *testing.T, s *Story, name, short, color string, places ...string) *Timeline {
	t.Helper()
	tl, err := s.NewTimeline(name, short, color, places...)
	require.NoError(t, err)
	return tl
}

func mustEvent(t *testing.T, s *Story, name, code, line string) *Event {
	t.Helper()
	e, err := s.NewEvent(name, code, line, "", false)
	require.NoError(t, err)
	return e
}

func mustCharacter(t *testing.T, s *Story, name, short string, refs ...string) *Character {
	t.Helper()
	c, err := s.NewCharacter(name, short, "", refs...)
	require.NoError(t, err)
	return c
}

// =============================================================================
// Lines
// =============================================================================

func TestTimelineWithPlaces(t *testing.T) {
	s := New("test")
	tl := mustTimeline(t, s, "Earth", "E", "#0000FF", "NYC", "LA+3")

	assert.Equal(t, "Earth", tl.Name())
	assert.Equal(t, 0, tl.Offset())
	require.Len(t, tl.Places(), 2)

	nyc, ok := s.LookupLine("nyc")
	require.True(t, ok)
	assert.Equal(t, 0, nyc.(*Place).Offset())

	la, ok := s.LookupLine("LA")
	require.True(t, ok)
	assert.Equal(t, 3, la.(*Place).Offset(), "place offset comes from its +N suffix")
	assert.Equal(t, "#0000FF", la.(*Place).Color(), "places inherit the timeline color")
}

func TestSinglePlaceTimelineRenamed(t *testing.T) {
	s := New("test")
	tl := mustTimeline(t, s, "Mars", "M+10", "")

	assert.Equal(t, "Mars-tl", tl.Name(), "placeless timelines yield their name to the auto-place")
	assert.Equal(t, 10, tl.Offset(), "short name suffix sets the timeline offset")

	p, ok := s.LookupLine("mars")
	require.True(t, ok)
	require.IsType(t, &Place{}, p)
	assert.Equal(t, 10, p.(*Place).Offset(), "the auto-place inherits the timeline offset")
}

func TestPlaceOffsetStacksOnTimeline(t *testing.T) {
	s := New("test")
	mustTimeline(t, s, "Narnia", "N+40", "", "Lantern Waste", "Cair Paravel+5")

	p, ok := s.LookupLine("cair paravel")
	require.True(t, ok)
	assert.Equal(t, 45, p.(*Place).Offset())
}

func TestDuplicateLineName(t *testing.T) {
	s := New("test")
	mustTimeline(t, s, "Earth", "E", "", "NYC")

	_, err := s.NewTimeline("earth", "E2", "", "Boston")
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = s.NewTimeline("Venus", "NYC", "", "Cloud City")
	assert.ErrorIs(t, err, ErrDuplicateName, "short names share the name pool")
}

// =============================================================================
// Events and time resolution
// =============================================================================

func TestEventTimeResolution(t *testing.T) {
	s := New("test")
	mustTimeline(t, s, "Earth", "E", "", "NYC", "LA+3")

	party := mustEvent(t, s, "party", "5", "nyc")
	assert.Equal(t, 5, party.Counter())
	assert.Equal(t, 5, party.AbsTime())

	show := mustEvent(t, s, "show", "5", "la")
	assert.Equal(t, 5, show.Counter())
	assert.Equal(t, 2, show.AbsTime(), "abs = counter - place offset")

	gig := mustEvent(t, s, "gig", "4+2", "la")
	assert.Equal(t, 4, gig.Counter())
	assert.Equal(t, -1, gig.AbsTime(), "event offset stacks on the place offset")

	finale := mustEvent(t, s, "finale", "9~", "la")
	assert.Equal(t, 9, finale.AbsTime(), "'~' pins the absolute time")
	assert.Equal(t, 12, finale.Counter(), "local counter derived from the offsets")
}

func TestEventAnchorReuse(t *testing.T) {
	s := New("test")
	mustTimeline(t, s, "Earth", "E", "", "NYC", "LA")

	party := mustEvent(t, s, "party", "4", "nyc")
	show := mustEvent(t, s, "show", "4", "la")

	require.NotNil(t, party.Anchor())
	assert.Same(t, party.Anchor(), show.Anchor(), "same absolute time shares one anchor")
	assert.True(t, party.Anchor().IsAnchor())
	assert.Len(t, party.Anchor().Children(), 2)
}

func TestTimestampCollision(t *testing.T) {
	s := New("test")
	mustTimeline(t, s, "Earth", "E", "", "NYC+3")

	mustEvent(t, s, "party", "5", "nyc")

	_, err := s.NewEvent("rerun", "5", "nyc", "", false)
	assert.ErrorIs(t, err, ErrTimestampCollision)

	// Different counter, same resolved absolute time.
	_, err = s.NewEvent("sneaky", "2~", "nyc", "", false)
	assert.ErrorIs(t, err, ErrTimestampCollision)
}

func TestEventErrors(t *testing.T) {
	s := New("test")
	mustTimeline(t, s, "Earth", "E", "", "NYC")
	mustEvent(t, s, "party", "1", "nyc")

	_, err := s.NewEvent("lost", "1", "atlantis", "", false)
	assert.ErrorIs(t, err, ErrUnknownReference)

	_, err = s.NewEvent("party", "9", "nyc", "", false)
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = s.NewEvent("soon", "whenever", "nyc", "", false)
	assert.ErrorIs(t, err, ErrInvalidOffset)
}

func TestTimelineEventFansOut(t *testing.T) {
	s := New("test")
	mustTimeline(t, s, "Earth", "E", "", "NYC", "LA")

	flood, err := s.NewEvent("flood", "7", "earth", "", false)
	require.NoError(t, err)
	assert.True(t, flood.IsAnchor())
	require.Len(t, flood.Children(), 2, "one child per place")

	for _, child := range flood.Children() {
		assert.True(t, child.IsUniversal())
		assert.True(t, child.CanAttend())
		assert.Equal(t, 7, child.AbsTime())
	}
	child, ok := s.LookupEvent("flood-NYC")
	require.True(t, ok)
	assert.Equal(t, "NYC", child.Line().Name())
}

// =============================================================================
// Characters
// =============================================================================

func TestCharacterItinerary(t *testing.T) {
	s := New("test")
	mustTimeline(t, s, "Earth", "E", "", "NYC", "LA")
	party := mustEvent(t, s, "party", "1", "nyc")
	show := mustEvent(t, s, "show", "2", "la")

	alice := mustCharacter(t, s, "Alice", "A", "party", ")-show")
	require.Len(t, alice.Events(), 2)
	assert.Equal(t, []*Event{party, show}, alice.Events())
	assert.True(t, alice.Entries()[1].DashFromPrev, "')-' dashes from the previous event")

	assert.Equal(t, []*Character{alice}, party.Roster())
	assert.Equal(t, []*Character{alice}, party.Entrances())
	assert.Equal(t, []*Character{alice}, show.Exits())
	assert.Equal(t, []*Character{alice}, party.Anchor().Entrances(), "anchors mirror entrances")
}

func TestCharacterCannotAttendAnchor(t *testing.T) {
	s := New("test")
	mustTimeline(t, s, "Earth", "E", "", "NYC")
	party := mustEvent(t, s, "party", "1", "nyc")

	_, err := s.NewCharacter("Ghost", "G", "", party.Anchor().Name())
	assert.ErrorIs(t, err, ErrSyncMarkerMisuse)

	_, err = s.NewCharacter("Tourist", "T", "", "woodstock")
	assert.ErrorIs(t, err, ErrUnknownReference)
}

func TestCharacterSkipFlag(t *testing.T) {
	s := New("test")
	mustTimeline(t, s, "Earth", "E", "", "NYC")
	mustEvent(t, s, "party", "1", "nyc")

	eve := mustCharacter(t, s, "Eve*", "Ev", "party")
	assert.Equal(t, "Eve", eve.Name(), "the '*' is a flag, not part of the name")
	assert.True(t, eve.SkipInFriendship())

	_, ok := s.LookupCharacter("Eve")
	assert.True(t, ok)
}

func TestDuplicateCharacter(t *testing.T) {
	s := New("test")
	mustTimeline(t, s, "Earth", "E", "", "NYC")
	mustCharacter(t, s, "Alice", "A")

	_, err := s.NewCharacter("Alice", "Al", "")
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = s.NewCharacter("Aaron", "A", "")
	assert.ErrorIs(t, err, ErrDuplicateName, "short names share the character pool")
}

// =============================================================================
// Finalize
// =============================================================================

func TestFinalizeCapsAndOrder(t *testing.T) {
	s := New("test")
	tl := mustTimeline(t, s, "Earth", "E", "", "NYC", "LA")
	mustEvent(t, s, "party", "1", "nyc")
	mustEvent(t, s, "show", "3", "la")
	mustCharacter(t, s, "Alice", "A", "party", "show")

	require.NoError(t, s.Finalize())
	assert.True(t, s.Finalized())

	anchors := tl.Events()
	require.Len(t, anchors, 4, "two real anchors plus the two caps")
	assert.Equal(t, "Earth start", anchors[0].Name())
	assert.Equal(t, 0, anchors[0].AbsTime(), "opener sits one tick before the first anchor")
	assert.True(t, anchors[0].IsOpener())
	assert.Equal(t, "Earth finish", anchors[3].Name())
	assert.Equal(t, 4, anchors[3].AbsTime())
	assert.True(t, anchors[3].IsCloser())

	for i := 1; i < len(anchors); i++ {
		assert.LessOrEqual(t, anchors[i-1].AbsTime(), anchors[i].AbsTime())
	}

	// Caps fan out like any timeline-level event, but stay unattendable.
	require.Len(t, anchors[0].Children(), 2)
	assert.False(t, anchors[0].Children()[0].CanAttend())

	assert.Len(t, s.Timeboxen(), 2, "caps don't count as timeboxen")
	assert.Len(t, s.Events(), 2, "cap children don't count as events")

	// 3 timeline + 2+2 place + 1 merged character bridge
	assert.Len(t, s.Bridges(), 8)
}

func TestFinalizeEmptyTimeline(t *testing.T) {
	s := New("test")
	tl := mustTimeline(t, s, "Limbo", "L", "")

	require.NoError(t, s.Finalize())

	anchors := tl.Events()
	require.Len(t, anchors, 2)
	assert.Equal(t, "empty-Limbo-tl-start", anchors[0].Name())
	assert.Equal(t, -1, anchors[0].AbsTime())
	assert.Equal(t, 1, anchors[1].AbsTime())
}

func TestFinalizeIdempotent(t *testing.T) {
	s := New("test")
	mustTimeline(t, s, "Earth", "E", "", "NYC")
	mustEvent(t, s, "party", "1", "nyc")

	require.NoError(t, s.Finalize())
	n := len(s.Bridges())
	require.NoError(t, s.Finalize())
	assert.Len(t, s.Bridges(), n, "a second Finalize must not re-bridge")
}

func TestBridgeWeights(t *testing.T) {
	s := New("test")
	mustTimeline(t, s, "Earth", "E", "", "NYC", "LA")
	mustEvent(t, s, "party", "1", "nyc")
	mustEvent(t, s, "show", "2", "la")
	alice := mustCharacter(t, s, "Alice", "A", "party", ")-show")
	bob := mustCharacter(t, s, "Bob", "B", "party", "show")
	_ = bob

	require.NoError(t, s.Finalize())

	var timeline, place, dashed, plain *Bridge
	for _, b := range s.Bridges() {
		switch b.Owner().Kind() {
		case KindTimeline:
			timeline = b
		case KindPlace:
			place = b
		case KindCombiner:
			if b.DashLink() {
				dashed = b
			} else {
				plain = b
			}
		}
	}
	require.NotNil(t, timeline)
	require.NotNil(t, place)
	require.NotNil(t, dashed)
	require.NotNil(t, plain)

	assert.Equal(t, 123, timeline.Weight())
	assert.Equal(t, 69, place.Weight())
	assert.Equal(t, 17, plain.Weight(), "single traveler, solid")
	assert.Equal(t, 2, dashed.Weight(), "dashing divides the weight by nine")
	assert.Equal(t, "Alice", dashed.Owner().Name())
	assert.Equal(t, "A-1", dashed.Label())
	_ = alice
}
