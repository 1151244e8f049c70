package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(cs []*Character) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name()
	}
	return out
}

func TestRosterDeclarationOrder(t *testing.T) {
	s := New("test")
	mustTimeline(t, s, "Earth", "E", "", "NYC")
	mustEvent(t, s, "party", "1", "nyc")
	mustEvent(t, s, "brunch", "2", "nyc")

	mustCharacter(t, s, "Alice", "A", "party", "brunch")
	mustCharacter(t, s, "Bob", "B", "brunch")
	carol := mustCharacter(t, s, "Carol", "C", "party")

	assert.Equal(t, []string{"Alice"}, names(carol.Roster()), "self excluded")

	alice, _ := s.LookupCharacter("Alice")
	assert.Equal(t, []string{"Carol", "Bob"}, names(alice.Roster()),
		"met companions in itinerary-encounter order")
}

func TestModRosterSkipsFlagged(t *testing.T) {
	s := New("test")
	mustTimeline(t, s, "Earth", "E", "", "NYC")
	mustEvent(t, s, "party", "1", "nyc")
	secret, err := s.NewEvent("secret", "2", "nyc", "", true)
	require.NoError(t, err)
	assert.True(t, secret.SkipInFriendship())

	alice := mustCharacter(t, s, "Alice", "A", "party", "secret")
	mustCharacter(t, s, "Eve*", "Ev", "party")
	mustCharacter(t, s, "Mallory", "M", "secret")

	assert.Equal(t, []string{"Eve", "Mallory"}, names(alice.Roster()),
		"the plain roster sees everything")
	assert.Empty(t, names(alice.ModRoster()),
		"flagged characters and flagged events both drop out")
}

func TestSelfMeetingsThroughLoop(t *testing.T) {
	s := New("test")
	mustTimeline(t, s, "Earth", "E", "", "NYC", "LA")
	mustEvent(t, s, "a", "1", "nyc")
	mustEvent(t, s, "b", "2", "la")
	phil := mustCharacter(t, s, "Phil", "P", "a", "b", "a")
	solo := mustCharacter(t, s, "Solo", "S", "b")

	assert.Contains(t, names(phil.Roster()), "Phil", "loopers meet themselves")
	assert.NotContains(t, names(solo.Roster()), "Solo")

	total, events := phil.CountMeetings(phil)
	assert.Equal(t, 1, total, "one extra visit to a")
	assert.Equal(t, 1, events)

	total, events = phil.CountMeetings(solo)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, events)

	shared := phil.SharedEvents(phil)
	require.Len(t, shared, 1)
	assert.Equal(t, "a", shared[0].Name())
}

func TestCountMeetingsDistinctEvents(t *testing.T) {
	s := New("test")
	mustTimeline(t, s, "Earth", "E", "", "NYC")
	mustEvent(t, s, "party", "1", "nyc")
	mustEvent(t, s, "brunch", "2", "nyc")
	alice := mustCharacter(t, s, "Alice", "A", "party", "brunch")
	bob := mustCharacter(t, s, "Bob", "B", "party", "brunch")

	total, events := alice.CountMeetings(bob)
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, events)

	shared := alice.SharedEvents(bob)
	assert.Len(t, shared, 2)
}
