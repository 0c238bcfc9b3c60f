package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/spacxt/spacxt/graph"
)

// query runs the read-only llm_context export (spec §4.D) for one or
// more agent poses. Each pose is independent and side-effect-free, so
// fanning them out with errgroup costs nothing the synchronous core
// itself ever needs to serialize against.
func queryCmd() *cobra.Command {
	var poses []string
	var roi string
	var k int

	cmd := &cobra.Command{
		Use:   "query",
		Short: "export the nearest-K scene summary for one or more agent poses",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(true)
			if err != nil {
				return err
			}
			if len(poses) == 0 {
				return fmt.Errorf("at least one --pose x,y,z is required")
			}

			contexts := make([]graph.LLMContext, len(poses))
			var g errgroup.Group
			for i, raw := range poses {
				i, raw := i, raw
				g.Go(func() error {
					pos, err := parseVec3(raw)
					if err != nil {
						return fmt.Errorf("--pose %q: %w", raw, err)
					}
					contexts[i] = rt.store.LLMContext(pos, roi, k)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out, err := json.MarshalIndent(contexts, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&poses, "pose", nil, "agent pose as x,y,z (repeatable)")
	cmd.Flags().StringVar(&roi, "roi", "", "region of interest label carried through to the response")
	cmd.Flags().IntVar(&k, "k", 10, "nearest-K objects to include, <= 0 for all")
	return cmd
}
