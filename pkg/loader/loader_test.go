package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duck57/PlotDMG/pkg/story"
)

const sampleTSV = "TYPE\tNAME\tCOLOR\tSHORTNAME\tARGS\n" +
	"TIMELINE\tEarth\t#0000FF\tE\tNYC\tLA\n" +
	"COMMENT\tanything goes here\n" +
	"EVENT\tparty\t\t1\tnyc\n" +
	"EVENT\tsecret\t\t2\tla\tno-meet\n" +
	"CHARACTER\tAlice\t#FF0000\tA\tparty\tsecret\n" +
	"OBJECT\tMacGuffin\t\tMG\tparty\n" +
	"COMBINER\tCarriers\t\tCC\tAlice\tMacGuffin\n"

func TestLoad(t *testing.T) {
	s, err := New(nil).Load("sample", strings.NewReader(sampleTSV))
	require.NoError(t, err)

	assert.Equal(t, "sample", s.Name())
	require.Len(t, s.Timelines(), 1)
	assert.Len(t, s.Places(), 2)
	assert.Len(t, s.Events(), 2)
	assert.Len(t, s.Characters(), 2, "OBJECT rows load as characters")
	assert.Equal(t, 1, s.GroupedCount())

	secret, ok := s.LookupEvent("secret")
	require.True(t, ok)
	assert.True(t, secret.SkipInFriendship(), "a fifth column suppresses the event")

	party, ok := s.LookupEvent("party")
	require.True(t, ok)
	assert.False(t, party.SkipInFriendship())
	assert.Len(t, party.Roster(), 2)
}

func TestLoadSkipsUnknownTypes(t *testing.T) {
	in := "TYPE\tNAME\tCOLOR\tSHORTNAME\n" +
		"TIMELINE\tEarth\t\tE\tNYC\n" +
		"TELEPORTER\tbeam\t\tB\n" +
		"\t\t\t\n" +
		"EVENT\tp\t\t1\tnyc\n"
	s, err := New(nil).Load("odd", strings.NewReader(in))
	require.NoError(t, err, "unknown types and blank rows are not fatal")
	assert.Len(t, s.Events(), 1)
}

func TestLoadFailFastWithRowContext(t *testing.T) {
	in := "TYPE\tNAME\tCOLOR\tSHORTNAME\n" +
		"TIMELINE\tEarth\t\tE\tNYC\n" +
		"EVENT\tlost\t\t1\tatlantis\n"
	_, err := New(nil).Load("bad", strings.NewReader(in))
	require.Error(t, err)
	assert.ErrorIs(t, err, story.ErrUnknownReference)
	assert.Contains(t, err.Error(), "row 3")
}

func TestLoadEventNeedsLine(t *testing.T) {
	in := "TYPE\tNAME\tCOLOR\tSHORTNAME\n" +
		"TIMELINE\tEarth\t\tE\tNYC\n" +
		"EVENT\tnowhere\t\t1\n"
	_, err := New(nil).Load("bad", strings.NewReader(in))
	assert.ErrorIs(t, err, story.ErrUnknownReference)
}

func TestLoadEmptyInput(t *testing.T) {
	_, err := New(nil).Load("empty", strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekend.tsv")
	require.NoError(t, os.WriteFile(path, []byte(sampleTSV), 0o644))

	s, err := New(nil).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "weekend", s.Name(), "story named after the file")

	_, err = New(nil).LoadFile(filepath.Join(t.TempDir(), "missing.tsv"))
	assert.Error(t, err)
}
