package meetgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duck57/PlotDMG/pkg/story"
)

func buildStory(t *testing.T) *story.Story {
	t.Helper()
	s := story.New("test")
	_, err := s.NewTimeline("Earth", "E", "", "NYC", "LA")
	require.NoError(t, err)
	for _, e := range [][2]string{{"party", "1"}, {"brunch", "2"}, {"show", "3"}} {
		_, err = s.NewEvent(e[0], e[1], "nyc", "", false)
		require.NoError(t, err)
	}
	_, err = s.NewCharacter("Alice", "A", "#FF0000", "party", "brunch")
	require.NoError(t, err)
	_, err = s.NewCharacter("Bob", "B", "", "party", "brunch", "show")
	require.NoError(t, err)
	_, err = s.NewCharacter("Hermit", "H", "", "show")
	require.NoError(t, err)
	_, err = s.NewCharacter("Eve*", "Ev", "", "party")
	require.NoError(t, err)
	_, err = s.NewCharacter("Loner", "L", "")
	require.NoError(t, err)
	require.NoError(t, s.Finalize())
	return s
}

func TestBuildNodes(t *testing.T) {
	g := Build(buildStory(t))

	assert.Equal(t, 5, g.NodeCount(), "every character gets a node, skipped included")
	assert.Equal(t, []string{"Alice", "Bob", "Hermit", "Eve", "Loner"}, g.Names())

	alice := g.Nodes["Alice"]
	require.NotNil(t, alice)
	assert.Equal(t, "#FF0000", alice.Color)
	assert.Equal(t, 2, alice.Events)
	assert.Equal(t, 2, alice.Met, "Bob and Eve, through the plain roster")
	assert.False(t, alice.Looper)

	assert.True(t, g.Nodes["Eve"].Skipped)
}

func TestBuildEdges(t *testing.T) {
	g := Build(buildStory(t))

	ab, ok := g.EdgeBetween("Alice", "Bob")
	require.True(t, ok)
	assert.Equal(t, 2, ab.Meetings)
	assert.Equal(t, 2, ab.Events)
	assert.False(t, ab.SelfLoop)

	mirror, ok := g.EdgeBetween("Bob", "Alice")
	require.True(t, ok)
	assert.Same(t, ab, mirror, "one shared edge per pair")

	_, ok = g.EdgeBetween("Alice", "Eve")
	assert.False(t, ok, "skipped characters get no edges")

	assert.Equal(t, 2, g.EdgeCount(), "Alice-Bob and Bob-Hermit")
	assert.Equal(t, []string{"Bob"}, g.Neighbors("Hermit"))
}

func TestSelfLoopEdge(t *testing.T) {
	s := story.New("loop")
	_, err := s.NewTimeline("Earth", "E", "", "NYC", "LA")
	require.NoError(t, err)
	_, err = s.NewEvent("a", "1", "nyc", "", false)
	require.NoError(t, err)
	_, err = s.NewEvent("b", "2", "la", "", false)
	require.NoError(t, err)
	_, err = s.NewCharacter("Phil", "P", "", "a", "b", "a")
	require.NoError(t, err)
	require.NoError(t, s.Finalize())

	g := Build(s)
	require.True(t, g.Nodes["Phil"].Looper)
	e, ok := g.EdgeBetween("Phil", "Phil")
	require.True(t, ok)
	assert.True(t, e.SelfLoop)
	assert.Equal(t, 1, e.Meetings)
	assert.Equal(t, 1, e.Events)
}

func TestLonely(t *testing.T) {
	g := Build(buildStory(t))

	lonely := g.Lonely()
	require.Len(t, lonely, 1, "Loner attends nothing; Eve is skipped, not lonely")
	assert.Equal(t, "Loner", lonely[0].Name)
}
