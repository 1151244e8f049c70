// Command snapshot inspects a SQLite snapshot written by plotdmg --snapshot.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/duck57/PlotDMG/internal/store"
)

func main() {
	db := flag.String("db", "", "snapshot database to inspect (required)")
	owner := flag.String("owner", "", "also list the bridges of one line or group")
	flag.Parse()

	if *db == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s --db snapshot.db [--owner name]\n", os.Args[0])
		os.Exit(1)
	}

	st, err := store.NewSQLiteStoreWithDSN(*db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", *db, err)
		os.Exit(1)
	}
	defer st.Close()

	if err := report(st, *owner); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func report(st store.Storer, owner string) error {
	lines, err := st.CountLines()
	if err != nil {
		return err
	}
	events, err := st.CountEvents()
	if err != nil {
		return err
	}
	bridges, err := st.CountBridges()
	if err != nil {
		return err
	}
	meetings, err := st.CountMeetings()
	if err != nil {
		return err
	}

	color.New(color.Bold).Println("Snapshot contents")
	fmt.Printf("%s lines, %s events, %s bridges, %s meetings\n",
		color.GreenString("%d", lines),
		color.GreenString("%d", events),
		color.GreenString("%d", bridges),
		color.GreenString("%d", meetings))

	timelines, err := st.ListLines("timeline")
	if err != nil {
		return err
	}
	for _, t := range timelines {
		fmt.Printf("  %s (offset %d)\n", color.CyanString(t.Name), t.Offset)
		places, err := st.ListLines("place")
		if err != nil {
			return err
		}
		for _, p := range places {
			if p.Timeline != t.Name {
				continue
			}
			es, err := st.ListEvents(p.Name)
			if err != nil {
				return err
			}
			fmt.Printf("    %s: %d events\n", p.Name, len(es))
		}
	}

	if owner != "" {
		bs, err := st.ListBridges(owner)
		if err != nil {
			return err
		}
		fmt.Printf("%s owns %d bridges\n", color.CyanString(owner), len(bs))
		for _, b := range bs {
			dash := ""
			if b.Dashed {
				dash = " (dashed)"
			}
			fmt.Printf("  %d: %s -> %s%s\n", b.Index, b.FromEvent, b.ToEvent, dash)
		}
	}
	return nil
}
