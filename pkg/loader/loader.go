// Package loader reads the row-based TSV input format into a story.
//
// Expected header: TYPE NAME COLOR SHORTNAME followed by type-dependent
// varargs. All TIMELINE rows must precede all EVENT rows, which must precede
// all CHARACTER/COMBINER rows; violations surface as unknown-reference
// errors from the story constructors.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/duck57/PlotDMG/pkg/story"
)

// Record types understood by the loader. OBJECT is a synonym for CHARACTER;
// COMMENT rows are always skipped.
const (
	TypeTimeline  = "TIMELINE"
	TypeEvent     = "EVENT"
	TypeCharacter = "CHARACTER"
	TypeObject    = "OBJECT"
	TypeCombiner  = "COMBINER"
	TypeComment   = "COMMENT"
)

// Loader parses TSV records into a story build context.
type Loader struct {
	log *zap.Logger
}

// New creates a loader reporting diagnostics through the given logger.
func New(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log}
}

// LoadFile opens path and loads it. The story name defaults to the file
// base name without its .tsv extension.
func (l *Loader) LoadFile(path string) (*story.Story, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open story file: %w", err)
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), ".tsv")
	return l.Load(name, f)
}

// Load reads TSV records from r into a new story named name. The build is
// fail-fast: the first bad record aborts with its row number attached.
func (l *Loader) Load(name string, r io.Reader) (*story.Story, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.FieldsPerRecord = -1
	tsv.LazyQuotes = true

	if _, err := tsv.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("story %q: empty input", name)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	s := story.New(name)
	row := 1
	for {
		rec, err := tsv.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row+1, err)
		}
		row++
		if err := l.loadRecord(s, rec); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
	}
	return s, nil
}

// loadRecord dispatches one row. Blank and COMMENT rows are silent;
// unrecognized types are logged and skipped, everything else is fatal.
func (l *Loader) loadRecord(s *story.Story, rec []string) error {
	get := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	typ := strings.ToUpper(get(0))
	if typ == "" || typ == TypeComment {
		return nil
	}
	name, color, short := get(1), get(2), get(3)
	var args []string
	if len(rec) > 4 {
		args = rec[4:]
	}

	switch typ {
	case TypeTimeline:
		_, err := s.NewTimeline(name, short, color, args...)
		return err
	case TypeEvent:
		return l.loadEvent(s, name, short, color, args)
	case TypeCharacter, TypeObject:
		_, err := s.NewCharacter(name, short, color, args...)
		return err
	case TypeCombiner:
		_, err := s.NewCombiner(name, short, color, trimAll(args)...)
		return err
	default:
		l.log.Warn("skipping unrecognized record type",
			zap.String("type", typ),
			zap.String("name", name))
		return nil
	}
}

// loadEvent handles EVENT rows: SHORTNAME carries the time code, the first
// arg names the owning line, and any non-empty second arg suppresses the
// event on the friendship graph.
func (l *Loader) loadEvent(s *story.Story, name, timeCode, color string, args []string) error {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("event %q: missing line reference: %w", name, story.ErrUnknownReference)
	}
	suppress := len(args) > 1 && strings.TrimSpace(args[1]) != ""
	_, err := s.NewEvent(name, timeCode, strings.TrimSpace(args[0]), color, suppress)
	return err
}

func trimAll(in []string) []string {
	var out []string
	for _, v := range in {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
