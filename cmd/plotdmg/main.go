// Command plotdmg turns a tab-separated plot file into Graphviz DOT output:
// the plot diagram plus a who-met-whom friendship graph. Render the .gv
// files with any graphviz install, e.g. `dot -Tsvg plot.gv`.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/duck57/PlotDMG/internal/config"
	"github.com/duck57/PlotDMG/internal/store"
	"github.com/duck57/PlotDMG/pkg/loader"
	"github.com/duck57/PlotDMG/pkg/logger"
	"github.com/duck57/PlotDMG/pkg/render/dot"
	"github.com/duck57/PlotDMG/pkg/story"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("Error reading environment: %v", err)
	}

	inFile := flag.String("in", "", "plot file in TSV form (required)")
	rankDir := flag.String("dir", cfg.RankDir, "rendering direction: LR, TB, BT, or RL")
	outBase := flag.String("output", cfg.Output, "output base path (default: input minus .tsv)")
	styleFile := flag.String("style", cfg.StyleFile, "YAML style file (optional)")
	snapshotDB := flag.String("snapshot", cfg.SnapshotDB, "write a SQLite snapshot to this path (optional)")
	colorNames := flag.Bool("color-names", cfg.ColorNames, "labels follow their line colors")
	quiet := flag.Bool("quiet", false, "suppress the stats block")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s --in plot.tsv [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Builds <base>.gv and <base>-friendships.gv from a plot TSV.\n")
		fmt.Fprintf(os.Stderr, "Defaults come from PLOTDMG_* environment variables.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *inFile == "" {
		fmt.Fprintf(os.Stderr, "Error: an input file is required. Use --in to specify it.\n\n")
		flag.Usage()
		os.Exit(1)
	}

	dir, err := config.NormalizeDir(*rankDir)
	if err != nil {
		fail("Error: %v", err)
	}

	if err := logger.Init(cfg.Env); err != nil {
		fail("Error initializing logger: %v", err)
	}
	defer logger.Sync()
	log := logger.Get()

	s, err := loader.New(log).LoadFile(*inFile)
	if err != nil {
		fail("Error loading %s: %v", *inFile, err)
	}
	if err := s.Finalize(); err != nil {
		fail("Error building the graph: %v", err)
	}

	style, err := dot.LoadStyle(*styleFile)
	if err != nil {
		fail("Error: %v", err)
	}
	style.RankDir = dir
	style.ColorNames = *colorNames

	base := *outBase
	if base == "" {
		base = strings.TrimSuffix(*inFile, filepath.Ext(*inFile))
	}

	plotPath := base + ".gv"
	if err := writeGraph(plotPath, func(f *os.File) error {
		return dot.Plot(f, s, style)
	}); err != nil {
		fail("Error writing %s: %v", plotPath, err)
	}
	friendPath := base + "-friendships.gv"
	if err := writeGraph(friendPath, func(f *os.File) error {
		return dot.Friendship(f, s, style)
	}); err != nil {
		fail("Error writing %s: %v", friendPath, err)
	}
	log.Info("graphs written",
		zap.String("plot", plotPath),
		zap.String("friendships", friendPath))

	if *snapshotDB != "" {
		if err := snapshot(*snapshotDB, s); err != nil {
			fail("Error writing snapshot: %v", err)
		}
		log.Info("snapshot written", zap.String("db", *snapshotDB))
	}

	if !*quiet {
		printStats(s)
	}
}

func writeGraph(path string, render func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func snapshot(path string, s *story.Story) error {
	st, err := store.NewSQLiteStoreWithDSN(path)
	if err != nil {
		return err
	}
	defer st.Close()
	return store.Snapshot(st, s)
}

func printStats(s *story.Story) {
	color.New(color.Bold, color.FgCyan).Println(s.Name())
	fmt.Printf("%s events\n", color.GreenString("%d", len(s.Events())))
	fmt.Printf("\t(sorted into %s timeboxen)\n", color.GreenString("%d", len(s.Timeboxen())))
	fmt.Printf("%s characters\n", color.GreenString("%d", len(s.Characters())))
	fmt.Printf("\t(%s combined groups)\n", color.GreenString("%d", s.GroupedCount()))
	fmt.Printf("%s timelines and places\n", color.GreenString("%d", len(s.Timelines())+len(s.Places())))
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
