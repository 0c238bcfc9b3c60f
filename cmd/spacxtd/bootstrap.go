package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacxt/spacxt/agent"
	"github.com/spacxt/spacxt/config"
	"github.com/spacxt/spacxt/graph"
	"github.com/spacxt/spacxt/orchestrate"
	"github.com/spacxt/spacxt/support"
)

func bootstrapCmd() *cobra.Command {
	var in string
	var settleTicks int

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "load a scene payload, ground every object, and run a few settle ticks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" {
				return fmt.Errorf("--in is required")
			}
			scene, err := loadScene(in)
			if err != nil {
				return err
			}

			cfg := config.Default()
			log := newLogger()
			clock := wallClock()
			store := graph.NewStore(cfg, clock, nil)
			store.LoadBootstrap(scene)

			bus := agent.NewBus()
			tracker := support.NewTracker()
			orch := orchestrate.New(cfg, store, bus, clock, log)
			orch.Bootstrap(tracker)

			for i := 0; i < settleTicks; i++ {
				if err := orch.Tick(); err != nil {
					return fmt.Errorf("settle tick %d: %w", i+1, err)
				}
			}

			dest := outPath
			if dest == "" {
				dest = statePath
			}
			if dest == "" {
				return fmt.Errorf("--out or --state is required to write the bootstrapped state")
			}
			if err := writeScene(dest, store.Export(10)); err != nil {
				return err
			}
			log.Info("bootstrap complete", zap.Int("objects", len(store.Nodes())), zap.Int("settle_ticks", settleTicks), zap.String("out", dest))
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "scene payload to bootstrap from (JSON or YAML)")
	cmd.Flags().IntVar(&settleTicks, "settle-ticks", 3, "negotiation ticks to run immediately after load")
	return cmd
}
