// Command spacxtd is a runnable stand-in for the excluded "external
// actor" (spec §1): a thin cobra CLI that drives a scene graph store
// through bootstrap, physics ticks, and the Add/Move/Remove command
// surface, persisting state between invocations as a §6 JSON/YAML file.
// It carries none of the NLP intent-parsing the real actor would have;
// every subcommand takes its target ids and relations literally.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacxt/spacxt/collide"
	"github.com/spacxt/spacxt/command"
	"github.com/spacxt/spacxt/config"
	"github.com/spacxt/spacxt/graph"
	"github.com/spacxt/spacxt/place"
	"github.com/spacxt/spacxt/support"
)

// runtime is the process-wide wiring every subcommand shares: a store
// loaded from --state, the placement/collision/support machinery the
// command executor composes, and the logger every subcommand writes
// through.
type runtime struct {
	cfg     config.Config
	store   *graph.Store
	idx     *collide.Index
	tracker *support.Tracker
	exec    *command.Executor
	clock   graph.Clock
	log     *zap.Logger
}

var (
	statePath string
	outPath   string
	verbose   bool
)

func main() {
	root := &cobra.Command{
		Use:   "spacxtd",
		Short: "spacxtd — drives a spatial scene graph through bootstrap, ticks, and commands",
		Long: "A demo CLI standing in for the excluded NLP/agent front-end: " +
			"loads a scene state file, runs one operation against it, and writes the result back out.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&statePath, "state", "", "path to the scene state file (JSON or YAML, by extension)")
	root.PersistentFlags().StringVar(&outPath, "out", "", "path to write the resulting state to (defaults to --state)")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")

	root.AddCommand(
		bootstrapCmd(),
		tickCmd(),
		addCmd(),
		moveCmd(),
		removeCmd(),
		queryCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "spacxtd:", err)
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// openRuntime loads --state (required by every subcommand but
// bootstrap, which creates state from a fresh scene payload instead)
// and wires the executor exactly as command.Executor expects: one
// collision index, one placement engine, one support tracker. The index
// and engine samplers are seeded from the wall clock at process start,
// so placements differ between invocations.
func openRuntime(requireState bool) (*runtime, error) {
	cfg := config.Default()
	log := newLogger()

	var scene graph.BootstrapScene
	if statePath != "" {
		s, err := loadScene(statePath)
		if err != nil {
			return nil, err
		}
		scene = s
	} else if requireState {
		return nil, fmt.Errorf("--state is required")
	}

	clock := wallClock()
	store := graph.NewStore(cfg, clock, nil)
	if statePath != "" {
		store.LoadBootstrap(scene)
	}

	seed := rand.NewSource(time.Now().UnixNano())
	idx := collide.NewIndex(cfg, rand.New(seed))
	for _, n := range store.Nodes() {
		idx.Upsert(n.ID, n.Pos, n.Size())
	}
	placer := place.NewEngine(cfg, idx, rand.New(seed))
	tracker := support.NewTracker()

	exec := command.NewExecutor(cfg, store, placer, idx, tracker, clock, log)
	exec.RefreshSupport()

	return &runtime{cfg: cfg, store: store, idx: idx, tracker: tracker, exec: exec, clock: clock, log: log}, nil
}

func wallClock() graph.Clock {
	start := time.Now()
	return func() float64 { return time.Since(start).Seconds() }
}

// save writes the runtime's current store state to --out (or --state if
// --out is empty), in the format its extension names.
func (rt *runtime) save() error {
	dest := outPath
	if dest == "" {
		dest = statePath
	}
	if dest == "" {
		return nil
	}
	return writeScene(dest, rt.store.Export(10))
}

func relationFlagValue(v string) command.SpatialRelation {
	switch strings.ToLower(v) {
	case "on_top_of", "ontopof":
		return command.OnTopOf
	case "near":
		return command.Near
	case "custom":
		return command.Custom
	default:
		return command.None
	}
}
