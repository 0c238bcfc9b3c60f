package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacxt/spacxt/agent"
	"github.com/spacxt/spacxt/orchestrate"
)

func tickCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "tick",
		Short: "run N rounds of the agent negotiation loop against --state",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(true)
			if err != nil {
				return err
			}

			bus := agent.NewBus()
			orch := orchestrate.New(rt.cfg, rt.store, bus, rt.clock, rt.log)
			orch.Bootstrap(rt.tracker)

			for i := 0; i < n; i++ {
				if err := orch.Tick(); err != nil {
					return fmt.Errorf("tick %d: %w", i+1, err)
				}
			}

			if err := rt.save(); err != nil {
				return err
			}
			rt.log.Info("tick complete", zap.Int("ticks", n), zap.Int("relations", len(rt.store.Relations())))
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 1, "number of ticks to run")
	return cmd
}
