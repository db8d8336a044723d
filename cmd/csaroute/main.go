// Command csaroute is a thin CLI wrapper around the csa routing
// engine: it loads a timetable (either a built-in demo network or a
// GTFS feed) and answers earliest-arrival queries over it: `route`
// answers one query, `demo` runs a fixed set of example queries.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	csa "github.com/andersmoen/go-csa"
	"github.com/andersmoen/go-csa/ingest"
	"github.com/andersmoen/go-csa/internal/examplenet"
)

var (
	flagFrom    string
	flagTo      string
	flagDepTime string
	flagOptimize bool
	flagVerbose bool

	flagGTFSPath string
	flagDate     string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "csaroute",
		Short: "Query a Connection Scan Algorithm timetable",
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log at debug level")

	demo := &cobra.Command{
		Use:   "demo",
		Short: "Run example queries over a small built-in network",
		RunE:  runDemo,
	}

	route := &cobra.Command{
		Use:   "route",
		Short: "Load a GTFS feed and answer one query",
		RunE:  runRoute,
	}
	route.Flags().StringVar(&flagGTFSPath, "gtfs", "", "path to a GTFS zip or directory")
	route.Flags().StringVar(&flagDate, "date", "", "service date, YYYYMMDD")
	route.Flags().StringVar(&flagFrom, "from", "", "source stop name")
	route.Flags().StringVar(&flagTo, "to", "", "target stop name")
	route.Flags().StringVar(&flagDepTime, "dep", "00:00:00", "desired departure time, HH:MM:SS")
	route.Flags().BoolVar(&flagOptimize, "optimized", true, "use the pruned (mode 3) scan")
	_ = route.MarkFlagRequired("gtfs")
	_ = route.MarkFlagRequired("from")
	_ = route.MarkFlagRequired("to")

	root.AddCommand(demo, route)
	return root
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func runDemo(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	tt, err := examplenet.Build(logger)
	if err != nil {
		return err
	}
	engine := csa.NewEngine(tt)

	queries := []struct {
		from, to string
		dep      string
	}{
		{"Bern", "Zürich HB", "07:35:00"},
		{"Bern", "Samedan", "08:30:00"},
		{"Bern", "Bern Bahnhof", "12:09:46"},
	}

	for _, q := range queries {
		depSec, err := parseHMS(q.dep)
		if err != nil {
			return err
		}
		journey, err := engine.RouteOptimizedEarliestArrivalWithReconstructionByName(q.from, q.to, depSec)
		if err != nil {
			return err
		}
		printJourney(q.from, q.to, q.dep, journey)
	}
	return nil
}

func runRoute(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	stops, footpaths, trips, err := ingest.LoadFeed(flagGTFSPath, ingest.Options{
		Date:   flagDate,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	tt, err := csa.NewTimetableContainer(stops, footpaths, trips, csa.WithLogger(logger))
	if err != nil {
		return err
	}

	depSec, err := parseHMS(flagDepTime)
	if err != nil {
		return err
	}

	engine := csa.NewEngine(tt)
	var journey *csa.Journey
	if flagOptimize {
		journey, err = engine.RouteOptimizedEarliestArrivalWithReconstructionByName(flagFrom, flagTo, depSec)
	} else {
		journey, err = engine.RouteEarliestArrivalWithReconstructionByName(flagFrom, flagTo, depSec)
	}
	if err != nil {
		return err
	}
	printJourney(flagFrom, flagTo, flagDepTime, journey)
	return nil
}

func printJourney(from, to, dep string, journey *csa.Journey) {
	header := color.New(color.Bold).Sprintf("%s -> %s @ %s", from, to, dep)
	fmt.Println(header)

	if journey == nil {
		fmt.Println(color.YellowString("  unreachable"))
		return
	}
	if arr, ok := journey.ArrTime(); ok {
		fmt.Println(color.GreenString("  arrival: %s", formatHMS(arr)))
	}
	for _, leg := range journey.Legs() {
		fmt.Printf("  %s\n", leg)
	}
	if journey.IsEmpty() {
		fmt.Println(color.CyanString("  (already there)"))
	}
}

func parseHMS(s string) (int, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("invalid time %q, want HH:MM:SS: %w", s, err)
	}
	return h*3600 + m*60 + sec, nil
}

func formatHMS(secs int) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
